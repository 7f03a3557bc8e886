// Package bulk encodes documents into newline-delimited JSON bulk format.
//
// Each document becomes exactly two newline-terminated lines: an action
// line naming the target index, followed by the document source compacted
// onto a single line:
//
//	{"index":{"_index":"my-index"}}
//	{"field":"value"}
//
// The format is accepted verbatim by the backend's bulk ingestion API.
package bulk
