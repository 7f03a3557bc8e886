// esdump is a streaming, consistency-preserving bulk exporter for
// Elasticsearch-compatible indices.
//
// It reads every document from each named index exactly once, in the
// backend's stable shard+doc order, under a point-in-time snapshot, and
// emits newline-delimited JSON in bulk format.
//
// Usage:
//
//	# Dump two indices to stdout
//	esdump dump logs-2026,metrics-2026
//
//	# Dump to a file with a larger batch size
//	esdump dump logs-2026 --size 1000 --output logs.ndjson
//
//	# Run a nightly scheduled export
//	esdump schedule logs-2026 --cron "0 3 * * *" --output-dir /backups
//
//	# Show recorded run history
//	esdump history --db esdump-history.db
//
// For complete documentation, see: https://github.com/driftbyte/esdump
package main

func main() {
	Execute()
}
