package bulk

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/driftbyte/esdump/pkg/sink"
)

// actionLine is the bulk action descriptor preceding each document.
type actionLine struct {
	Index actionTarget `json:"index"`
}

type actionTarget struct {
	Index string `json:"_index"`
}

// Encoder writes documents to a sink in bulk NDJSON format.
// Encoding is deterministic: the same index and source always produce
// byte-identical line pairs.
type Encoder struct {
	sink    sink.Sink
	written int64
}

// NewEncoder returns an encoder writing to s.
func NewEncoder(s sink.Sink) *Encoder {
	return &Encoder{sink: s}
}

// WriteDocument emits the two-line action/source pair for one document.
// The source is compacted so backend formatting never produces multi-line
// records.
func (e *Encoder) WriteDocument(index string, source json.RawMessage) error {
	action, err := json.Marshal(actionLine{Index: actionTarget{Index: index}})
	if err != nil {
		return fmt.Errorf("failed to encode action line: %w", err)
	}

	var compact bytes.Buffer
	if err := json.Compact(&compact, source); err != nil {
		return fmt.Errorf("invalid document source for index %q: %w", index, err)
	}

	for _, line := range [][]byte{action, compact.Bytes()} {
		if _, err := e.sink.Write(line); err != nil {
			return fmt.Errorf("sink write failed: %w", err)
		}
		if _, err := e.sink.Write([]byte{'\n'}); err != nil {
			return fmt.Errorf("sink write failed: %w", err)
		}
		e.written += int64(len(line)) + 1
	}
	return nil
}

// Flush flushes the underlying sink.
func (e *Encoder) Flush() error {
	return e.sink.Flush()
}

// BytesWritten returns the total number of bytes emitted so far.
func (e *Encoder) BytesWritten() int64 {
	return e.written
}
