package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/esperstack/esper-mail/internal/archive"
)

var (
	inspectLast int
	inspectID   string
)

// inspectCmd lists or details archived analyses.
var inspectCmd = &cobra.Command{
	Use:   "inspect",
	Short: "Inspect the analysis archive",
	RunE: func(cmd *cobra.Command, args []string) error {
		if cfg.Archive == "" {
			return fmt.Errorf("no archive: set --archive or the archive config key")
		}
		store, err := archive.Open(cfg.Archive)
		if err != nil {
			return err
		}
		defer store.Close()

		if inspectID != "" {
			return inspectDetail(store, inspectID)
		}
		return inspectList(store, inspectLast)
	},
}

func inspectList(store *archive.Store, last int) error {
	records, err := store.ListRecent(last)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Println("archive is empty")
		return nil
	}
	for _, rec := range records {
		fmt.Printf("%s  %s  %-18s  %-30.30s  %s\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.Icon, rec.Folder, rec.Subject, rec.AnalysisID)
	}
	return nil
}

func inspectDetail(store *archive.Store, id string) error {
	rec, err := store.GetAnalysis(id)
	if err != nil {
		return err
	}
	entries, err := store.RoutingEntries(id)
	if err != nil {
		return err
	}

	fmt.Println(rec.AnalysisJSON)
	for _, e := range entries {
		fmt.Printf("rule: %s", e.Rule)
		if e.Detail != "" {
			fmt.Printf(" (%s)", e.Detail)
		}
		fmt.Println()
	}
	return nil
}

func init() {
	inspectCmd.Flags().IntVar(&inspectLast, "last", 20, "show N most recent analyses")
	inspectCmd.Flags().StringVar(&inspectID, "id", "", "show one analysis in full")
	rootCmd.AddCommand(inspectCmd)
}
