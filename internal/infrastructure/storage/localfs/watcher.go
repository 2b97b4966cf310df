package localfs

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

type WatcherConfig struct {
	Dir string
	// DebounceDelay collapses bursts, such as a scanner writing several pages, into one signal.
	DebounceDelay time.Duration
	Logger        *slog.Logger
}

// Watcher signals when scans appear in or leave the staging directory.
// Signals carry no payload; the receiver rescans with Staging.List.
type Watcher struct {
	config  WatcherConfig
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	changes chan struct{}
	wg      sync.WaitGroup
	once    sync.Once
}

func NewWatcher(config WatcherConfig) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(config.Dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", config.Dir, err)
	}

	logger := config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if config.DebounceDelay <= 0 {
		config.DebounceDelay = 200 * time.Millisecond
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  logger,
		changes: make(chan struct{}, 1),
	}, nil
}

func (w *Watcher) Changes() <-chan struct{} {
	return w.changes
}

func (w *Watcher) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.processEvents(ctx)
	}()
	w.logger.Info("staging_watch_started", "dir", w.config.Dir)
}

// Close stops the watcher, waits for its goroutine to exit and closes Changes.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		err = w.watcher.Close()
		w.wg.Wait()
		close(w.changes)
	})
	return err
}

func (w *Watcher) processEvents(ctx context.Context) {
	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending bool
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !relevant(event) {
				continue
			}
			pending = true
			if timer == nil {
				timer = time.NewTimer(w.config.DebounceDelay)
			} else {
				timer.Reset(w.config.DebounceDelay)
			}
			timerC = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("staging_watch_error", "error", err)

		case <-timerC:
			timerC = nil
			if pending {
				pending = false
				w.signal()
			}
		}
	}
}

func (w *Watcher) signal() {
	select {
	case w.changes <- struct{}{}:
	default:
	}
}

func relevant(event fsnotify.Event) bool {
	if !IsScan(filepath.Base(event.Name)) {
		return false
	}
	return event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) ||
		event.Has(fsnotify.Rename) || event.Has(fsnotify.Write)
}
