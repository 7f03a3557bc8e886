package config

import "time"

// Config is the root configuration for esdump.
type Config struct {
	// Elasticsearch configures the backend connection.
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`

	// Export configures the export run itself.
	Export ExportConfig `yaml:"export"`

	// Schedule configures recurring exports (esdump schedule).
	Schedule ScheduleConfig `yaml:"schedule"`

	// Telemetry configures logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ElasticsearchConfig describes how to reach the search backend.
type ElasticsearchConfig struct {
	// Address is the base URL of the backend (e.g. http://localhost:9200).
	Address string `yaml:"address"`

	// Username and Password enable HTTP basic auth when both are set.
	Username string `yaml:"username"`
	Password string `yaml:"password"`

	// Timeout is the per-request timeout.
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries is the number of transport-level retries for network
	// errors and 5xx responses.
	MaxRetries int `yaml:"max_retries"`
}

// ExportConfig holds the tunables of a single export run.
type ExportConfig struct {
	// BatchSize is the maximum number of documents requested per page.
	// The backend may return fewer, never more.
	BatchSize int `yaml:"batch_size"`

	// KeepAlive is the snapshot keep-alive duration in the backend's
	// own duration syntax (e.g. "1m", "30s").
	KeepAlive string `yaml:"keep_alive"`

	// Output is the destination file path. Empty means standard output.
	Output string `yaml:"output"`

	// HistoryDB is the path of the SQLite run-history database.
	// Empty disables run-history recording.
	HistoryDB string `yaml:"history_db"`
}

// ScheduleConfig configures recurring scheduled exports.
type ScheduleConfig struct {
	// Cron is a standard 5-field cron expression. Empty disables the
	// scheduler.
	Cron string `yaml:"cron"`

	// OutputDir is the directory receiving one timestamped output file
	// per cycle.
	OutputDir string `yaml:"output_dir"`

	// MetricsListen is the listen address of the Prometheus scrape
	// endpoint (e.g. ":9108"). Empty disables the endpoint.
	MetricsListen string `yaml:"metrics_listen"`
}

// TelemetryConfig groups logging and metrics settings.
type TelemetryConfig struct {
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures the slog-based logger.
type LoggingConfig struct {
	// Level is the minimum log level ("debug", "info", "warn", "error").
	Level string `yaml:"level"`

	// Format is the handler format ("text" or "json").
	Format string `yaml:"format"`
}

// MetricsConfig configures the Prometheus collector.
type MetricsConfig struct {
	// Enabled toggles metric recording.
	Enabled bool `yaml:"enabled"`

	// Namespace is the metric namespace prefix.
	Namespace string `yaml:"namespace"`
}
