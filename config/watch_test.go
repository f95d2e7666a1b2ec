package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatch_ReloadsOnWrite(t *testing.T) {
	prev := WatchDebounce
	WatchDebounce = 20 * time.Millisecond
	t.Cleanup(func() { WatchDebounce = prev })

	dir := t.TempDir()
	path := writeFile(t, dir, "config.yaml", "starfield:\n  count: 10\n")

	ctx, cancel := context.WithCancel(context.Background())
	reloaded := make(chan *Config, 4)
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, path, func(cfg *Config) { reloaded <- cfg })
	}()

	// Give the watcher time to register before writing.
	time.Sleep(50 * time.Millisecond)

	// An invalid write is skipped, the following valid one is applied.
	if err := os.WriteFile(path, []byte("starfield:\n  count: -1\n"), 0644); err != nil {
		t.Fatal(err)
	}
	time.Sleep(60 * time.Millisecond)
	if err := os.WriteFile(path, []byte("starfield:\n  count: 77\n"), 0644); err != nil {
		t.Fatal(err)
	}

	// A reload may catch the file between truncate and write; wait for the
	// final content.
	deadline := time.After(3 * time.Second)
	for got := false; !got; {
		select {
		case cfg := <-reloaded:
			if cfg.Derived.Options.Count < 0 {
				t.Fatalf("invalid config was applied: %+v", cfg.Starfield)
			}
			got = cfg.Derived.Options.Count == 77
		case <-deadline:
			t.Fatal("no reload after write")
		}
	}

	// Other files in the directory are ignored.
	writeFile(t, dir, "other.yaml", "starfield:\n  count: 5\n")
	select {
	case cfg := <-reloaded:
		t.Errorf("unexpected reload: count %d", cfg.Derived.Options.Count)
	case <-time.After(100 * time.Millisecond):
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}
}

func TestWatch_MissingDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope", "config.yaml")
	if err := Watch(context.Background(), path, func(*Config) {}); err == nil {
		t.Fatal("expected error watching a missing directory")
	}
}
