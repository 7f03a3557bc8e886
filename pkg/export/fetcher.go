package export

import (
	"context"
	"encoding/json"
)

// pageRequest carries the state for one page fetch.
type pageRequest struct {
	Index     string // for diagnostics only; the token targets the index
	Token     string
	KeepAlive string
	Size      int
	Cursor    *Cursor
}

// fetchPage issues one page-scoped search and decodes the result.
// A page with zero documents is the normal termination signal, not an
// error. Backend-reported application errors and unrecognizable bodies
// come back as *IndexError; transport failures are returned as-is.
func fetchPage(ctx context.Context, t Transport, req pageRequest) (*Page, error) {
	body := searchBody{
		Size:  req.Size,
		PIT:   pitRef{ID: req.Token, KeepAlive: req.KeepAlive},
		Query: matchAllQuery,
		Sort:  shardDocSort,
	}
	if req.Cursor != nil {
		body.SearchAfter = []uint64{req.Cursor.Value()}
	}

	resp, err := t.Search(ctx, body)
	if err != nil {
		return nil, err
	}

	if !resp.IsSuccess() {
		return nil, &IndexError{
			Index:  req.Index,
			Status: resp.StatusCode,
			Detail: string(resp.Body),
		}
	}

	return decodeSearchResponse(req.Index, resp.Body)
}

// decodeSearchResponse performs the two-shape decode of a 200 response:
// the success schema is attempted first, then the error envelope. A body
// matching neither is an index-level failure carrying the raw body.
//
// An error envelope unmarshals cleanly into the success schema with every
// field zero, so a non-empty pit_id is what distinguishes a real result.
func decodeSearchResponse(index string, body []byte) (*Page, error) {
	var result searchResult
	if err := json.Unmarshal(body, &result); err == nil && result.PITID != "" {
		return &Page{
			Token:     result.PITID,
			Documents: result.Hits.Hits,
		}, nil
	}

	var env errorEnvelope
	if err := json.Unmarshal(body, &env); err == nil && env.Error != nil {
		return nil, &IndexError{
			Index:  index,
			Status: env.Status,
			Detail: env.Error.Type + ": " + env.Error.Reason,
		}
	}

	return nil, &IndexError{
		Index:  index,
		Detail: "unrecognized search response: " + string(body),
	}
}
