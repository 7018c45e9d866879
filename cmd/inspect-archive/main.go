// Command inspect-archive reads an analysis archive database and prints
// recent routing decisions, as a table or as JSON, without going
// through the main CLI.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/esperstack/esper-mail/internal/archive"
	_ "modernc.org/sqlite"
)

// #region main

func main() {
	dbPath := flag.String("db", "", "path to the analysis archive database")
	last := flag.Int("last", 20, "show N most recent analyses")
	id := flag.String("id", "", "show single analysis detail")
	jsonOut := flag.Bool("json", false, "output as JSON instead of table")
	flag.Parse()

	if *dbPath == "" {
		fmt.Fprintln(os.Stderr, "usage: inspect-archive --db path/to/archive.db [--last N] [--id analysis-id] [--json]")
		os.Exit(2)
	}

	store, err := archive.Open(*dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "open db: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if *id != "" {
		err = runDetailMode(store, *id, *jsonOut)
	} else {
		err = runListMode(store, *last, *jsonOut)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion main

// #region list-mode

type listRow struct {
	AnalysisID string  `json:"analysis_id"`
	BatchID    string  `json:"batch_id,omitempty"`
	Icon       string  `json:"icon"`
	Folder     string  `json:"folder"`
	Priority   string  `json:"priority"`
	Sender     string  `json:"sender"`
	Subject    string  `json:"subject"`
	Urgency    float64 `json:"urgency"`
	Importance float64 `json:"importance"`
	Rule       string  `json:"rule,omitempty"`
	CreatedAt  string  `json:"created_at"`
}

func runListMode(store *archive.Store, last int, jsonOut bool) error {
	records, err := store.ListRecent(last)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(os.Stderr, "no analyses found")
		return nil
	}

	rows := make([]listRow, 0, len(records))
	for _, rec := range records {
		row := listRow{
			AnalysisID: rec.AnalysisID,
			BatchID:    rec.BatchID,
			Icon:       rec.Icon,
			Folder:     rec.Folder,
			Priority:   rec.Priority,
			Sender:     rec.Sender,
			Subject:    rec.Subject,
			Urgency:    rec.Urgency,
			Importance: rec.Importance,
			CreatedAt:  rec.CreatedAt.Format("2006-01-02T15:04:05Z"),
		}
		if entries, err := store.RoutingEntries(rec.AnalysisID); err == nil && len(entries) > 0 {
			row.Rule = entries[0].Rule
		}
		rows = append(rows, row)
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(rows)
	}

	fmt.Printf("%-19s  %-4s %-18s %-8s %-24.24s %-30.30s %s\n",
		"CREATED", "ICON", "FOLDER", "PRI", "SENDER", "SUBJECT", "RULE")
	for _, row := range rows {
		fmt.Printf("%-19s  %-4s %-18s %-8s %-24.24s %-30.30s %s\n",
			row.CreatedAt, row.Icon, row.Folder, row.Priority, row.Sender, row.Subject, row.Rule)
	}
	return nil
}

// #endregion list-mode

// #region detail-mode

func runDetailMode(store *archive.Store, id string, jsonOut bool) error {
	rec, err := store.GetAnalysis(id)
	if err != nil {
		return err
	}
	entries, err := store.RoutingEntries(id)
	if err != nil {
		return err
	}

	if jsonOut {
		// analysis_json already holds the wire form; wrap it with the
		// routing log rather than re-marshaling.
		type detail struct {
			Analysis   json.RawMessage        `json:"analysis"`
			RoutingLog []archive.RoutingEntry `json:"routing_log"`
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(detail{
			Analysis:   json.RawMessage(rec.AnalysisJSON),
			RoutingLog: entries,
		})
	}

	fmt.Printf("Analysis:   %s\n", rec.AnalysisID)
	if rec.BatchID != "" {
		fmt.Printf("Batch:      %s\n", rec.BatchID)
	}
	fmt.Printf("Created:    %s\n", rec.CreatedAt.Format("2006-01-02T15:04:05Z"))
	fmt.Printf("From:       %s\n", rec.Sender)
	fmt.Printf("Subject:    %s\n", rec.Subject)
	fmt.Printf("Routing:    %s %s (%s, %s)\n", rec.Icon, rec.Folder, rec.Priority, rec.Color)
	fmt.Printf("Gloss:      %s\n", rec.Gloss)
	fmt.Printf("Signals:    urgency=%.2f importance=%.2f warmth=%.2f tension=%.2f\n",
		rec.Urgency, rec.Importance, rec.Warmth, rec.Tension)
	for _, e := range entries {
		fmt.Printf("Rule:       %s", e.Rule)
		if e.Detail != "" {
			fmt.Printf(" (%s)", e.Detail)
		}
		fmt.Println()
	}
	return nil
}

// #endregion detail-mode
