package config

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/pelletier/go-toml/v2"
)

type watchedConfig struct {
	Mode  string `toml:"mode"`
	Value int    `toml:"value"`
}

func loadWatched(path string) (watchedConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return watchedConfig{}, err
	}
	var cfg watchedConfig
	err = toml.Unmarshal(data, &cfg)
	return cfg, err
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func startWatcher[T any](t *testing.T, w *Watcher[T]) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		if err := <-done; err != nil {
			t.Errorf("Run() error = %v", err)
		}
	})
	// let fsnotify register the directory
	time.Sleep(100 * time.Millisecond)
}

func TestWatcher_Reload(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordclock.toml")
	if err := os.WriteFile(path, []byte("mode = \"REAL_TIME\"\nvalue = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	received := make(chan watchedConfig, 4)
	w := NewWatcher(path, loadWatched, quietLogger(), WithDebounce[watchedConfig](50*time.Millisecond))
	w.OnReload(func(cfg watchedConfig) { received <- cfg })
	startWatcher(t, w)

	if err := os.WriteFile(path, []byte("mode = \"PUZZLE_MODE\"\nvalue = 2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-received:
		if cfg.Mode != "PUZZLE_MODE" || cfg.Value != 2 {
			t.Errorf("got %+v, want PUZZLE_MODE/2", cfg)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload")
	}
}

func TestWatcher_ReplaceByRename(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "wordclock.toml")
	if err := os.WriteFile(path, []byte("value = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	received := make(chan watchedConfig, 4)
	w := NewWatcher(path, loadWatched, quietLogger(), WithDebounce[watchedConfig](50*time.Millisecond))
	w.OnReload(func(cfg watchedConfig) { received <- cfg })
	startWatcher(t, w)

	tmp := filepath.Join(dir, ".wordclock.toml.swp")
	if err := os.WriteFile(tmp, []byte("value = 9\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(tmp, path); err != nil {
		t.Fatal(err)
	}

	select {
	case cfg := <-received:
		if cfg.Value != 9 {
			t.Errorf("Value = %d, want 9", cfg.Value)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for reload after rename")
	}
}

func TestWatcher_DebounceAndUnsubscribe(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordclock.toml")
	if err := os.WriteFile(path, []byte("value = 0\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	var loads, kept, removed atomic.Int32
	loader := func(p string) (watchedConfig, error) {
		loads.Add(1)
		return loadWatched(p)
	}
	w := NewWatcher(path, loader, quietLogger(), WithDebounce[watchedConfig](200*time.Millisecond))
	w.OnReload(func(watchedConfig) { kept.Add(1) })
	unsubscribe := w.OnReload(func(watchedConfig) { removed.Add(1) })
	unsubscribe()
	startWatcher(t, w)

	for i := 1; i <= 5; i++ {
		if err := os.WriteFile(path, []byte("value = 1\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(20 * time.Millisecond)
	}
	time.Sleep(600 * time.Millisecond)

	if got := loads.Load(); got != 1 {
		t.Errorf("loads = %d, want 1 after a burst of writes", got)
	}
	if kept.Load() != 1 || removed.Load() != 0 {
		t.Errorf("kept = %d removed = %d, want 1 and 0", kept.Load(), removed.Load())
	}
}

func TestWatcher_LoadError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wordclock.toml")
	if err := os.WriteFile(path, []byte("value = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	errs := make(chan error, 4)
	var calls atomic.Int32
	w := NewWatcher(path, loadWatched, quietLogger(),
		WithDebounce[watchedConfig](50*time.Millisecond),
		WithErrorHandler[watchedConfig](func(err error) { errs <- err }))
	w.OnReload(func(watchedConfig) { calls.Add(1) })
	startWatcher(t, w)

	if err := os.WriteFile(path, []byte("value = [\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case err := <-errs:
		var decodeErr *toml.DecodeError
		if !errors.As(err, &decodeErr) {
			t.Errorf("error = %v, want a toml.DecodeError", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for load error")
	}
	if calls.Load() != 0 {
		t.Error("handlers should not run when loading fails")
	}
}

func TestWatcher_MissingDirectory(t *testing.T) {
	w := NewWatcher(filepath.Join(t.TempDir(), "nope", "wordclock.toml"), loadWatched, quietLogger())
	if err := w.Run(context.Background()); err == nil {
		t.Error("Run() on a missing directory should fail")
	}
}
