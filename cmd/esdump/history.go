package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/driftbyte/esdump/pkg/config"
	"github.com/driftbyte/esdump/pkg/history"
)

var (
	historyDB    string
	historyLimit int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded export runs",
	Long: `List the most recent export runs recorded in the history database,
newest first. Runs are recorded when dump or schedule is invoked with a
history database configured.`,
	RunE: runHistory,
}

func init() {
	historyCmd.Flags().StringVar(&historyDB, "db", "", "history database path")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "maximum number of runs to list")

	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}

	dbPath := cfg.Export.HistoryDB
	if cmd.Flags().Changed("db") {
		dbPath = historyDB
	}
	if dbPath == "" {
		return fmt.Errorf("no history database configured (--db or export.history_db)")
	}

	store, err := history.Open(dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(context.Background(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no runs recorded")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN ID\tSTARTED\tDURATION\tDOCUMENTS\tBYTES\tFAILED")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%d\n",
			r.ID,
			r.Started.Format(time.RFC3339),
			r.Finished.Sub(r.Started).Round(time.Second),
			r.TotalDocuments,
			r.BytesWritten,
			r.FailedIndices,
		)
	}
	return w.Flush()
}
