// Package export implements the streaming bulk export core.
//
// For each requested index the exporter opens a point-in-time snapshot,
// pages through the index in the backend's shard+doc order using
// search_after pagination, and writes each page to a sink in bulk NDJSON
// format. The snapshot token is rotated on every page response and the
// rotated value is used for the next request. Memory use is bounded by one
// page: documents are encoded and discarded as they arrive.
//
// Failures are classified into two tiers. An *IndexError is scoped to one
// index: it is reported, the index's pagination stops, and the run
// continues with the next index. Any other error is fatal and aborts the
// whole run. Only the exporter interprets severity; the session and
// fetcher layers just return tagged errors.
package export
