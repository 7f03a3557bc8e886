package config

import "time"

// Default values applied to unset fields.
const (
	DefaultAddress   = "http://localhost:9200"
	DefaultTimeout   = 60 * time.Second
	DefaultRetries   = 3
	DefaultBatchSize = 500
	DefaultKeepAlive = "1m"
	DefaultNamespace = "esdump"
	DefaultOutputDir = "."
)

// ApplyDefaults fills in default values for any zero-valued fields.
// It never overwrites a value that was explicitly set.
func ApplyDefaults(cfg *Config) {
	if cfg.Elasticsearch.Address == "" {
		cfg.Elasticsearch.Address = DefaultAddress
	}
	if cfg.Elasticsearch.Timeout == 0 {
		cfg.Elasticsearch.Timeout = DefaultTimeout
	}
	if cfg.Elasticsearch.MaxRetries == 0 {
		cfg.Elasticsearch.MaxRetries = DefaultRetries
	}

	if cfg.Export.BatchSize == 0 {
		cfg.Export.BatchSize = DefaultBatchSize
	}
	if cfg.Export.KeepAlive == "" {
		cfg.Export.KeepAlive = DefaultKeepAlive
	}

	if cfg.Schedule.OutputDir == "" {
		cfg.Schedule.OutputDir = DefaultOutputDir
	}

	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = "info"
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = "text"
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultNamespace
	}
}

// NewDefault returns a configuration populated entirely from defaults.
func NewDefault() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
