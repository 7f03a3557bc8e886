package export

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/driftbyte/esdump/pkg/client"
)

// Transport is the minimal backend surface the exporter consumes: send one
// request, get one raw response. *client.Client satisfies it.
type Transport interface {
	OpenPointInTime(ctx context.Context, index, keepAlive string) (*client.Response, error)
	Search(ctx context.Context, body any) (*client.Response, error)
	ClosePointInTime(ctx context.Context, id string) error
}

// openSession opens a point-in-time snapshot for index and returns its
// token. A backend rejection (non-2xx status, or a 2xx body carrying an
// error envelope) is returned as *IndexError; a transport failure is
// returned as-is and aborts the run.
func openSession(ctx context.Context, t Transport, index, keepAlive string) (string, error) {
	resp, err := t.OpenPointInTime(ctx, index, keepAlive)
	if err != nil {
		return "", err
	}

	if !resp.IsSuccess() {
		return "", &IndexError{
			Index:  index,
			Status: resp.StatusCode,
			Detail: string(resp.Body),
		}
	}

	var pit pitResponse
	if err := json.Unmarshal(resp.Body, &pit); err == nil && pit.ID != "" {
		return pit.ID, nil
	}

	var env errorEnvelope
	if err := json.Unmarshal(resp.Body, &env); err == nil && env.Error != nil {
		return "", &IndexError{
			Index:  index,
			Status: env.Status,
			Detail: env.Error.Type + ": " + env.Error.Reason,
		}
	}

	return "", &IndexError{
		Index:  index,
		Detail: "unrecognized snapshot open response: " + string(resp.Body),
	}
}

// closeSession releases a snapshot token. The backend expires tokens on
// its own after the keep-alive lapses, so failures are only logged.
func closeSession(ctx context.Context, t Transport, index, token string) {
	if token == "" {
		return
	}
	if err := t.ClosePointInTime(ctx, token); err != nil {
		slog.Debug("failed to release snapshot", "index", index, "error", err)
	}
}
