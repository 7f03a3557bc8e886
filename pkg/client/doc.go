// Package client provides the HTTP transport used to talk to an
// Elasticsearch-compatible backend.
//
// The client deliberately exposes a narrow "send one request, get one
// response" surface: each call returns the raw HTTP status code and body,
// and all interpretation of the JSON payload belongs to the caller (the
// export core). The client owns connection pooling, basic auth, per-request
// timeouts, and transport-level retries with exponential backoff for
// network errors and 5xx responses.
package client
