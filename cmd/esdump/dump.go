package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/driftbyte/esdump/pkg/cli"
	"github.com/driftbyte/esdump/pkg/client"
	"github.com/driftbyte/esdump/pkg/config"
	"github.com/driftbyte/esdump/pkg/export"
	"github.com/driftbyte/esdump/pkg/history"
	"github.com/driftbyte/esdump/pkg/sink"
	"github.com/driftbyte/esdump/pkg/telemetry/metrics"
)

var (
	dumpSize      int
	dumpKeepAlive string
	dumpOutput    string
	dumpTimeout   time.Duration
	dumpHistoryDB string
)

var dumpCmd = &cobra.Command{
	Use:   "dump <index>[,<index>...]",
	Short: "Dump one or more indices as NDJSON",
	Long: `Dump the contents of one or more indices in ndjson bulk format.
Each document is prefixed with an action line naming its index:

  {"index":{"_index":"<index-name>"}}
  {"field":"value"}

Documents are sorted by the backend's internal shard and document order,
the only ordering that stays stable under snapshot pagination. Each index
is read under its own point-in-time snapshot, kept alive for the duration
of its pagination, so exports stay consistent while other writers mutate
the data.

A failure scoped to one index (snapshot rejected, backend-reported search
error) is reported and skipped; the remaining indices are still exported
and the command exits zero. Only an unreachable backend or an output I/O
failure aborts the run.

Example usage:
  esdump dump index1,index2 --size 1000 --keep-alive 5m --output dump.ndjson`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDump,
}

func init() {
	dumpCmd.Flags().IntVarP(&dumpSize, "size", "s", 0, "documents per batch (default 500)")
	dumpCmd.Flags().StringVarP(&dumpKeepAlive, "keep-alive", "k", "", "snapshot keep-alive duration (default \"1m\")")
	dumpCmd.Flags().StringVarP(&dumpOutput, "output", "o", "", "output file path (default standard output)")
	dumpCmd.Flags().DurationVar(&dumpTimeout, "timeout", 0, "per-request timeout (default 1m)")
	dumpCmd.Flags().StringVar(&dumpHistoryDB, "history-db", "", "record run history to this SQLite database")

	rootCmd.AddCommand(dumpCmd)
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}
	applyDumpFlags(cmd, cfg)
	applyLogging(cfg)

	indices := splitIndices(args)
	if len(indices) == 0 {
		return fmt.Errorf("at least one index is required")
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	ctx := cli.SetupSignalHandler()

	return executeExport(ctx, cfg, indices, cfg.Export.Output, collector)
}

// applyDumpFlags lets explicitly set flags override the file/env config.
func applyDumpFlags(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("size") {
		cfg.Export.BatchSize = dumpSize
	}
	if cmd.Flags().Changed("keep-alive") {
		cfg.Export.KeepAlive = dumpKeepAlive
	}
	if cmd.Flags().Changed("output") {
		cfg.Export.Output = dumpOutput
	}
	if cmd.Flags().Changed("timeout") {
		cfg.Elasticsearch.Timeout = dumpTimeout
	}
	if cmd.Flags().Changed("history-db") {
		cfg.Export.HistoryDB = dumpHistoryDB
	}
}

// splitIndices flattens comma-separated and repeated index arguments.
func splitIndices(args []string) []string {
	var indices []string
	for _, arg := range args {
		for _, name := range strings.Split(arg, ",") {
			if name = strings.TrimSpace(name); name != "" {
				indices = append(indices, name)
			}
		}
	}
	return indices
}

// executeExport performs one full export run: open the sink, drive the
// exporter, record history, and update metrics. It returns an error only
// for fatal conditions; index-level failures are reported in logs and the
// run history.
func executeExport(ctx context.Context, cfg *config.Config, indices []string, outputPath string, collector *metrics.Collector) error {
	cl, err := client.New(client.Config{
		Address:    cfg.Elasticsearch.Address,
		Username:   cfg.Elasticsearch.Username,
		Password:   cfg.Elasticsearch.Password,
		Timeout:    cfg.Elasticsearch.Timeout,
		MaxRetries: cfg.Elasticsearch.MaxRetries,
	})
	if err != nil {
		return err
	}
	defer cl.Close()

	var out sink.Sink
	if outputPath == "" {
		out = sink.Stdout()
	} else {
		out, err = sink.File(outputPath)
		if err != nil {
			return err
		}
	}

	exp := export.New(cl, out, export.Options{
		BatchSize: cfg.Export.BatchSize,
		KeepAlive: cfg.Export.KeepAlive,
	})
	exp.SetObserver(collector)
	if outputPath != "" {
		// Progress goes to stderr; suppress it when documents stream to
		// stdout so pipes stay clean for terminal users too.
		exp.SetProgress(cli.NewProgressReporter(nil))
	}

	collector.RunStarted()
	sum, runErr := exp.Run(ctx, indices)
	closeErr := out.Close()

	recordHistory(ctx, cfg, sum)
	collector.RunFinished(runStatus(sum, runErr))

	if runErr != nil {
		return runErr
	}
	if closeErr != nil {
		return fmt.Errorf("failed to finalize output: %w", closeErr)
	}

	if failed := sum.FailedIndices(); len(failed) > 0 {
		slog.Warn("export finished with failed indices",
			"failed", failed,
			"documents", sum.TotalDocuments(),
		)
	}
	return nil
}

// recordHistory persists the run summary when a history database is
// configured. Recording failures are logged, never fatal.
func recordHistory(ctx context.Context, cfg *config.Config, sum *export.Summary) {
	if cfg.Export.HistoryDB == "" || sum == nil {
		return
	}

	store, err := history.Open(cfg.Export.HistoryDB)
	if err != nil {
		slog.Error("failed to open history database", "error", err)
		return
	}
	defer store.Close()

	// The run may have been canceled; recording still uses a live context.
	if errors.Is(ctx.Err(), context.Canceled) {
		ctx = context.Background()
	}
	if err := store.Record(ctx, sum); err != nil {
		slog.Error("failed to record run history", "error", err)
	}
}

// runStatus classifies a finished run for metrics.
func runStatus(sum *export.Summary, runErr error) string {
	switch {
	case runErr != nil:
		return "fatal"
	case sum != nil && len(sum.FailedIndices()) > 0:
		return "partial"
	default:
		return "ok"
	}
}
