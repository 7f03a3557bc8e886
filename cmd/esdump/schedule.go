package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/driftbyte/esdump/pkg/cli"
	"github.com/driftbyte/esdump/pkg/config"
	"github.com/driftbyte/esdump/pkg/schedule"
	"github.com/driftbyte/esdump/pkg/telemetry/metrics"
)

var (
	scheduleCron    string
	scheduleOutDir  string
	scheduleMetrics string
)

var scheduleCmd = &cobra.Command{
	Use:   "schedule <index>[,<index>...]",
	Short: "Run recurring exports on a cron schedule",
	Long: `Run the dump repeatedly on a cron schedule, writing each cycle to a
timestamped file in the output directory. The process keeps running until
interrupted.

While the scheduler runs, the configuration file is watched and reloaded
on change, and export metrics can be served on a Prometheus scrape
endpoint.

Example usage:
  esdump schedule logs-2026 --cron "0 3 * * *" --output-dir /backups --metrics-listen :9108`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSchedule,
}

func init() {
	scheduleCmd.Flags().StringVar(&scheduleCron, "cron", "", "cron expression (e.g. \"0 3 * * *\")")
	scheduleCmd.Flags().StringVar(&scheduleOutDir, "output-dir", "", "directory for cycle output files (default \".\")")
	scheduleCmd.Flags().StringVar(&scheduleMetrics, "metrics-listen", "", "listen address for the Prometheus endpoint")

	rootCmd.AddCommand(scheduleCmd)
}

func runSchedule(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(cfgFile)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("cron") {
		cfg.Schedule.Cron = scheduleCron
	}
	if cmd.Flags().Changed("output-dir") {
		cfg.Schedule.OutputDir = scheduleOutDir
	}
	if cmd.Flags().Changed("metrics-listen") {
		cfg.Schedule.MetricsListen = scheduleMetrics
	}
	if cfg.Schedule.Cron == "" {
		return fmt.Errorf("a cron expression is required (--cron or schedule.cron)")
	}
	applyLogging(cfg)

	indices := splitIndices(args)
	if len(indices) == 0 {
		return fmt.Errorf("at least one index is required")
	}

	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
	ctx := cli.SetupSignalHandler()

	sched := schedule.New(cfg, func(ctx context.Context, cfg *config.Config) error {
		return executeExport(ctx, cfg, indices, cycleOutputPath(cfg.Schedule.OutputDir, indices), collector)
	})
	if err := sched.Start(ctx); err != nil {
		return err
	}

	if watcher, err := schedule.NewWatcher(cfgFile, sched.UpdateConfig); err == nil {
		if _, statErr := os.Stat(cfgFile); statErr == nil {
			if err := watcher.Start(); err != nil {
				slog.Warn("config watching disabled", "error", err)
			} else {
				defer watcher.Close()
			}
		}
	}

	if addr := cfg.Schedule.MetricsListen; addr != "" {
		go serveMetrics(addr, collector)
	}

	if next := sched.NextRun(); next != nil {
		slog.Info("scheduler waiting", "next_run", next.Format(time.RFC3339))
	}

	<-ctx.Done()
	sched.Stop()
	return nil
}

// cycleOutputPath names one cycle's output file after the index set and
// the current time.
func cycleOutputPath(dir string, indices []string) string {
	name := strings.Join(indices, "_")
	if len(name) > 64 {
		name = name[:64]
	}
	stamp := time.Now().Format("20060102T150405")
	return filepath.Join(dir, fmt.Sprintf("esdump-%s-%s.ndjson", name, stamp))
}

func serveMetrics(addr string, collector *metrics.Collector) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())

	slog.Info("serving metrics", "addr", addr)
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		slog.Error("metrics endpoint failed", "error", err)
	}
}
