package localfs

import (
	"context"
	"testing"
	"time"
)

func TestWatcherSignalsOnScanChanges(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(WatcherConfig{Dir: dir, DebounceDelay: 20 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)

	writeFile(t, dir, "notes.txt", "x")
	select {
	case <-w.Changes():
		t.Fatalf("non-scan file must not signal")
	case <-time.After(100 * time.Millisecond):
	}

	writeFile(t, dir, "page1.jpg", "x")
	writeFile(t, dir, "page2.jpg", "x")
	select {
	case <-w.Changes():
	case <-time.After(2 * time.Second):
		t.Fatalf("expected a change signal")
	}
}

func TestWatcherCloseStopsGoroutine(t *testing.T) {
	w, err := NewWatcher(WatcherConfig{Dir: t.TempDir()})
	if err != nil {
		t.Fatalf("NewWatcher() error = %v", err)
	}
	w.Start(context.Background())
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
	if _, ok := <-w.Changes(); ok {
		t.Fatalf("expected Changes closed after Close")
	}
}

func TestNewWatcherMissingDirectory(t *testing.T) {
	if _, err := NewWatcher(WatcherConfig{Dir: "/nonexistent/staging/dir"}); err == nil {
		t.Fatalf("expected error for missing directory")
	}
}
