package schedule

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/driftbyte/esdump/pkg/config"
)

func writeConfig(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "esdump.yaml")
	writeConfig(t, path, "export:\n  batch_size: 100\n")

	reloaded := make(chan *config.Config, 1)
	w, err := NewWatcher(path, func(cfg *config.Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	if err := w.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	writeConfig(t, path, "export:\n  batch_size: 250\n")

	select {
	case cfg := <-reloaded:
		if cfg.Export.BatchSize != 250 {
			t.Errorf("expected reloaded batch size 250, got %d", cfg.Export.BatchSize)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for config reload")
	}
}

func TestWatcher_KeepsPreviousConfigOnBadReload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "esdump.yaml")
	writeConfig(t, path, "export:\n  batch_size: 100\n")

	reloaded := make(chan *config.Config, 1)
	w, err := NewWatcher(path, func(cfg *config.Config) {
		select {
		case reloaded <- cfg:
		default:
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer w.Close()

	if err := w.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A config that fails validation must not reach onChange.
	writeConfig(t, path, "export:\n  batch_size: -1\n")

	select {
	case cfg := <-reloaded:
		t.Errorf("invalid config was applied: %+v", cfg.Export)
	case <-time.After(500 * time.Millisecond):
	}
}

func TestWatcher_RelevantFiltersEvents(t *testing.T) {
	w := &Watcher{path: "/etc/esdump/esdump.yaml"}

	tests := []struct {
		name  string
		event fsnotify.Event
		want  bool
	}{
		{
			name:  "write to watched file",
			event: fsnotify.Event{Name: "/etc/esdump/esdump.yaml", Op: fsnotify.Write},
			want:  true,
		},
		{
			name:  "rename of watched file",
			event: fsnotify.Event{Name: "/etc/esdump/esdump.yaml", Op: fsnotify.Rename},
			want:  true,
		},
		{
			name:  "write to sibling file",
			event: fsnotify.Event{Name: "/etc/esdump/other.yaml", Op: fsnotify.Write},
			want:  false,
		},
		{
			name:  "chmod of watched file",
			event: fsnotify.Event{Name: "/etc/esdump/esdump.yaml", Op: fsnotify.Chmod},
			want:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := w.relevant(tt.event); got != tt.want {
				t.Errorf("relevant(%v) = %v, want %v", tt.event, got, tt.want)
			}
		})
	}
}

func TestWatcher_CloseIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "esdump.yaml")
	writeConfig(t, path, "export:\n  batch_size: 100\n")

	w, err := NewWatcher(path, func(*config.Config) {})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Start(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if err := w.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second close must be a no-op, got %v", err)
	}
}
