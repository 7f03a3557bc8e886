package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from a YAML file, applies defaults, applies
// ESDUMP_* environment variable overrides, and validates the result.
//
// The loading sequence is:
//  1. Parse YAML from the file
//  2. Apply default values
//  3. Apply environment variable overrides
//  4. Validate the final configuration
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)
	applyEnvOverrides(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault behaves like Load but falls back to the default
// configuration (plus environment overrides) when the file does not exist.
// A missing config file is not an error for a CLI tool; explicit flags and
// defaults cover the common case.
func LoadOrDefault(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := NewDefault()
		applyEnvOverrides(cfg)
		if err := Validate(cfg); err != nil {
			return nil, err
		}
		return cfg, nil
	}
	return Load(path)
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Variables use the format ESDUMP_SECTION_FIELD and always
// take precedence over file-based values.
func applyEnvOverrides(cfg *Config) {
	if val := os.Getenv("ESDUMP_ELASTICSEARCH_ADDRESS"); val != "" {
		cfg.Elasticsearch.Address = val
	}
	if val := os.Getenv("ESDUMP_ELASTICSEARCH_USERNAME"); val != "" {
		cfg.Elasticsearch.Username = val
	}
	if val := os.Getenv("ESDUMP_ELASTICSEARCH_PASSWORD"); val != "" {
		cfg.Elasticsearch.Password = val
	}
	if val := os.Getenv("ESDUMP_ELASTICSEARCH_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Elasticsearch.Timeout = d
		}
	}
	if val := os.Getenv("ESDUMP_ELASTICSEARCH_MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Elasticsearch.MaxRetries = i
		}
	}

	if val := os.Getenv("ESDUMP_EXPORT_BATCH_SIZE"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Export.BatchSize = i
		}
	}
	if val := os.Getenv("ESDUMP_EXPORT_KEEP_ALIVE"); val != "" {
		cfg.Export.KeepAlive = val
	}
	if val := os.Getenv("ESDUMP_EXPORT_OUTPUT"); val != "" {
		cfg.Export.Output = val
	}
	if val := os.Getenv("ESDUMP_EXPORT_HISTORY_DB"); val != "" {
		cfg.Export.HistoryDB = val
	}

	if val := os.Getenv("ESDUMP_SCHEDULE_CRON"); val != "" {
		cfg.Schedule.Cron = val
	}
	if val := os.Getenv("ESDUMP_SCHEDULE_OUTPUT_DIR"); val != "" {
		cfg.Schedule.OutputDir = val
	}
	if val := os.Getenv("ESDUMP_SCHEDULE_METRICS_LISTEN"); val != "" {
		cfg.Schedule.MetricsListen = val
	}

	if val := os.Getenv("ESDUMP_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("ESDUMP_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("ESDUMP_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = b
		}
	}
}
