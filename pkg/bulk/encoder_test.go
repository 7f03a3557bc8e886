package bulk

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/driftbyte/esdump/pkg/sink"
)

func TestEncoder_TwoLinesPerDocument(t *testing.T) {
	buf := sink.NewBuffer()
	enc := NewEncoder(buf)

	docs := []json.RawMessage{
		json.RawMessage(`{"a":1}`),
		json.RawMessage(`{"b":"two"}`),
		json.RawMessage(`{"c":[1,2,3]}`),
	}
	for _, doc := range docs {
		if err := enc.WriteDocument("logs", doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	out := strings.TrimSuffix(buf.String(), "\n")
	lines := strings.Split(out, "\n")
	if len(lines) != 2*len(docs) {
		t.Fatalf("expected %d lines for %d documents, got %d", 2*len(docs), len(docs), len(lines))
	}

	// Action and source lines alternate.
	for i, line := range lines {
		if i%2 == 0 {
			if line != `{"index":{"_index":"logs"}}` {
				t.Errorf("line %d: expected action line, got %s", i, line)
			}
		} else {
			if !json.Valid([]byte(line)) || strings.HasPrefix(line, `{"index"`) {
				t.Errorf("line %d: expected source line, got %s", i, line)
			}
		}
	}

	// No blank lines.
	if strings.Contains(buf.String(), "\n\n") {
		t.Error("output contains blank lines")
	}
}

func TestEncoder_Deterministic(t *testing.T) {
	doc := json.RawMessage(`{"id":7,"name":"x"}`)

	encode := func() []byte {
		buf := sink.NewBuffer()
		enc := NewEncoder(buf)
		if err := enc.WriteDocument("idx", doc); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return buf.Bytes()
	}

	first, second := encode(), encode()
	if !bytes.Equal(first, second) {
		t.Errorf("encoding is not deterministic:\n%s\nvs\n%s", first, second)
	}
}

func TestEncoder_CompactsSource(t *testing.T) {
	buf := sink.NewBuffer()
	enc := NewEncoder(buf)

	pretty := json.RawMessage("{\n  \"a\": 1,\n  \"b\": 2\n}")
	if err := enc.WriteDocument("idx", pretty); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lines := strings.Split(strings.TrimSuffix(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %q", len(lines), buf.String())
	}
	if lines[1] != `{"a":1,"b":2}` {
		t.Errorf("expected compacted source, got %s", lines[1])
	}
}

func TestEncoder_InvalidSourceRejected(t *testing.T) {
	buf := sink.NewBuffer()
	enc := NewEncoder(buf)

	if err := enc.WriteDocument("idx", json.RawMessage(`{"broken":`)); err == nil {
		t.Error("expected error for invalid source JSON")
	}
}

func TestEncoder_BytesWritten(t *testing.T) {
	buf := sink.NewBuffer()
	enc := NewEncoder(buf)

	if err := enc.WriteDocument("idx", json.RawMessage(`{}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got, want := enc.BytesWritten(), int64(buf.Len()); got != want {
		t.Errorf("expected %d bytes written, got %d", want, got)
	}
}
