// Package sink provides the output destinations for an export run.
//
// A Sink is a write-only byte stream with explicit flush and completion
// semantics. Three implementations exist: standard output, a
// truncate-and-write file, and an in-memory buffer for callers that want
// the encoded output returned to them. A sink is exclusively owned by one
// export run; none of the implementations are safe for concurrent writers.
package sink
