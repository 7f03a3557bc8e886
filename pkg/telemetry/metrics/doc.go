// Package metrics provides Prometheus instrumentation for export runs.
//
// The collector records documents, pages, and bytes exported, per-index
// failures, page fetch latency, and run outcomes. In one-shot mode the
// metrics only feed the final log line; in scheduled mode they are served
// on a scrape endpoint for the lifetime of the process.
package metrics
