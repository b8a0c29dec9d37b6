package watch

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/auralis/elysia/internal/kvstore"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

func TestWatchReportsRewrittenKey(t *testing.T) {
	store, err := kvstore.NewFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	seen := make(map[string]int)

	go func() {
		_ = Watch(ctx, store.Root(), testLogger(), func(key string) {
			mu.Lock()
			seen[key]++
			mu.Unlock()
		})
	}()
	time.Sleep(100 * time.Millisecond)

	if err := store.Set("elysia:notes", "[]"); err != nil {
		t.Fatal(err)
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen["elysia:notes"] > 0
	}, "expected callback for elysia:notes")
}

func TestWatchDebouncesBurst(t *testing.T) {
	store, err := kvstore.NewFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var mu sync.Mutex
	seen := make(map[string]int)

	go func() {
		_ = Watch(ctx, store.Root(), testLogger(), func(key string) {
			mu.Lock()
			seen[key]++
			mu.Unlock()
		})
	}()
	time.Sleep(100 * time.Millisecond)

	for i := 0; i < 5; i++ {
		_ = store.Set("k", "v")
	}

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return seen["k"] > 0
	}, "expected callback for k")

	// Let any stragglers settle, then check the burst collapsed.
	time.Sleep(500 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	if seen["k"] > 2 {
		t.Errorf("burst of 5 writes produced %d callbacks", seen["k"])
	}
}

func TestWatchStopsOnContextCancel(t *testing.T) {
	store, err := kvstore.NewFile(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- Watch(ctx, store.Root(), testLogger(), nil)
	}()
	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Watch returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Error("Watch did not stop on cancel")
	}
}

func TestWatchMissingDir(t *testing.T) {
	if err := Watch(context.Background(), "/nonexistent/elysia-data", testLogger(), nil); err == nil {
		t.Error("expected error for missing directory")
	}
}
