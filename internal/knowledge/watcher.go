package knowledge

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/fyrsmithlabs/faultdx/internal/logging"
)

// DefaultDebounce coalesces the burst of events editors emit on save.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads a Store when its backing file changes.
//
// The parent directory is watched rather than the file itself so atomic
// replace-by-rename saves keep being observed.
type Watcher struct {
	store    *Store
	logger   *logging.Logger
	debounce time.Duration
	target   string

	cancel  context.CancelFunc
	stopped chan struct{}
	ready   chan struct{}

	mu    sync.Mutex
	timer *time.Timer
}

// NewWatcher creates a watcher for store. A zero debounce uses DefaultDebounce.
func NewWatcher(store *Store, debounce time.Duration, logger *logging.Logger) (*Watcher, error) {
	if store == nil {
		return nil, errors.New("store is required")
	}
	if store.Path() == "" {
		return nil, errors.New("store has no backing file to watch")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	target, err := filepath.Abs(store.Path())
	if err != nil {
		return nil, fmt.Errorf("resolve knowledge path: %w", err)
	}
	return &Watcher{
		store:    store,
		logger:   logger,
		debounce: debounce,
		target:   target,
		stopped:  make(chan struct{}),
		ready:    make(chan struct{}),
	}, nil
}

// Start begins watching and returns once the fsnotify watch is in place.
func (w *Watcher) Start(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.target)); err != nil {
		fsw.Close()
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.target), err)
	}

	watchCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	go w.loop(watchCtx, fsw)

	select {
	case <-w.ready:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer close(w.stopped)
	defer fsw.Close()

	w.logger.Info(ctx, "watching knowledge base",
		zap.String("path", w.target),
		zap.Duration("debounce", w.debounce),
	)
	close(w.ready)

	for {
		select {
		case <-ctx.Done():
			w.stopTimer()
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug(ctx, "knowledge file event", zap.String("op", event.Op.String()))
			w.schedule(ctx)

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn(ctx, "knowledge watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) relevant(event fsnotify.Event) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != w.target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

// schedule (re)arms the debounce timer.
func (w *Watcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if ctx.Err() != nil {
			return
		}
		// Reload logs and notifies subscribers on failure.
		_, _ = w.store.Reload(ctx)
	})
}

func (w *Watcher) stopTimer() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
}

// Stop ends the watch loop, waiting up to five seconds.
func (w *Watcher) Stop() error {
	if w.cancel == nil {
		return nil
	}
	w.cancel()
	select {
	case <-w.stopped:
		return nil
	case <-time.After(5 * time.Second):
		return errors.New("timeout waiting for knowledge watcher to stop")
	}
}
