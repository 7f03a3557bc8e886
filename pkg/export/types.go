package export

import "encoding/json"

// Document is one record returned by a page fetch: the raw source body and
// the backend-assigned sort key used only to derive the next cursor.
type Document struct {
	Source json.RawMessage `json:"_source"`
	Sort   []uint64        `json:"sort"`
}

// Page is the result of one fetch: an ordered document sequence plus the
// rotated snapshot token to use on the next request. Ordering is
// authoritative and preserved in output.
type Page struct {
	// Token is the rotated point-in-time token.
	Token string

	// Documents are the page's records in backend order.
	Documents []Document
}

// Empty reports whether the page terminates pagination for its index.
func (p *Page) Empty() bool {
	return len(p.Documents) == 0
}

// Wire shapes. The backend reuses HTTP 200 for both successful results and
// application errors, so responses are decoded permissively: success schema
// first, error envelope second.

// pitResponse is the body of a successful point-in-time open.
type pitResponse struct {
	ID string `json:"id"`
}

// searchResult is the success schema of a search response.
type searchResult struct {
	PITID string       `json:"pit_id"`
	Hits  hitsEnvelope `json:"hits"`
}

type hitsEnvelope struct {
	Hits []Document `json:"hits"`
}

// errorEnvelope is the application error schema the backend embeds in
// otherwise successful transport responses.
type errorEnvelope struct {
	Error  *errorDetail `json:"error"`
	Status int          `json:"status"`
}

type errorDetail struct {
	Type   string `json:"type"`
	Reason string `json:"reason"`
}

// searchBody is the request body of one page fetch.
type searchBody struct {
	Size        int             `json:"size"`
	PIT         pitRef          `json:"pit"`
	Query       json.RawMessage `json:"query"`
	Sort        json.RawMessage `json:"sort"`
	SearchAfter []uint64        `json:"search_after,omitempty"`
}

type pitRef struct {
	ID        string `json:"id"`
	KeepAlive string `json:"keep_alive"`
}

// The only sort order that is stable and cheap under snapshot pagination
// is the backend's internal shard+doc order.
var (
	matchAllQuery = json.RawMessage(`{"match_all":{}}`)
	shardDocSort  = json.RawMessage(`[{"_shard_doc":{"order":"asc"}}]`)
)
