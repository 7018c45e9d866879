package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/esperstack/esper-mail/internal/pipeline"
)

// analyzeCmd processes .eml files, or stdin when no files are given.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [file.eml ...]",
	Short: "Analyze raw email files",
	Long: `Analyze one or more .eml files and print the routing decision for each.
With no arguments, reads a single raw message from stdin.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		proc, closeStore, err := newProcessor()
		if err != nil {
			return err
		}
		if closeStore != nil {
			defer closeStore()
		}

		var items []pipeline.Item
		var readFailures []pipeline.Failure

		if len(args) == 0 {
			raw, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("read stdin: %w", err)
			}
			items = append(items, pipeline.Item{ID: "stdin", Raw: raw})
		}
		for _, path := range args {
			raw, err := os.ReadFile(path)
			if err != nil {
				readFailures = append(readFailures, pipeline.Failure{ID: path, Err: err})
				continue
			}
			items = append(items, pipeline.Item{ID: path, Raw: raw})
		}

		res := proc.ProcessBatch(items)
		return emit(res.Analyses, append(readFailures, res.Failures...))
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
}
