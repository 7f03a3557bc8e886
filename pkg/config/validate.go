package config

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// FieldError represents a validation error for a specific configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g. "export.batch_size").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError aggregates one or more field errors.
type ValidationError struct {
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "configuration validation failed with %d errors:\n", len(e.Errors))
	for _, err := range e.Errors {
		fmt.Fprintf(&sb, "  - %s\n", err.Error())
	}
	return sb.String()
}

// Validate checks the configuration and returns a ValidationError if any
// rules fail. All violations are collected and returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateElasticsearch(&cfg.Elasticsearch)...)
	errs = append(errs, validateExport(&cfg.Export)...)
	errs = append(errs, validateLogging(&cfg.Telemetry.Logging)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}
	return nil
}

func validateElasticsearch(cfg *ElasticsearchConfig) []FieldError {
	var errs []FieldError

	u, err := url.Parse(cfg.Address)
	if err != nil || !u.IsAbs() || (u.Scheme != "http" && u.Scheme != "https") {
		errs = append(errs, FieldError{
			Field:   "elasticsearch.address",
			Message: fmt.Sprintf("must be an absolute http(s) URL, got %q", cfg.Address),
		})
	}
	if cfg.Timeout < 0 {
		errs = append(errs, FieldError{
			Field:   "elasticsearch.timeout",
			Message: "must not be negative",
		})
	}
	if cfg.MaxRetries < 0 {
		errs = append(errs, FieldError{
			Field:   "elasticsearch.max_retries",
			Message: "must not be negative",
		})
	}
	return errs
}

func validateExport(cfg *ExportConfig) []FieldError {
	var errs []FieldError

	if cfg.BatchSize <= 0 {
		errs = append(errs, FieldError{
			Field:   "export.batch_size",
			Message: fmt.Sprintf("must be a positive integer, got %d", cfg.BatchSize),
		})
	}
	if !validKeepAlive(cfg.KeepAlive) {
		errs = append(errs, FieldError{
			Field:   "export.keep_alive",
			Message: fmt.Sprintf("must be a backend duration such as \"1m\" or \"30s\", got %q", cfg.KeepAlive),
		})
	}
	return errs
}

func validateLogging(cfg *LoggingConfig) []FieldError {
	var errs []FieldError

	switch cfg.Level {
	case "debug", "info", "warn", "error":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("must be one of debug, info, warn, error; got %q", cfg.Level),
		})
	}
	switch cfg.Format {
	case "text", "json":
	default:
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("must be text or json, got %q", cfg.Format),
		})
	}
	return errs
}

// validKeepAlive reports whether s is a duration in the backend's syntax:
// a positive integer followed by one of the supported unit suffixes.
func validKeepAlive(s string) bool {
	units := []string{"nanos", "micros", "ms", "s", "m", "h", "d"}
	for _, u := range units {
		num, ok := strings.CutSuffix(s, u)
		if !ok || num == "" {
			continue
		}
		if n, err := strconv.Atoi(num); err == nil && n > 0 {
			return true
		}
	}
	return false
}
