package knowledge

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/fyrsmithlabs/faultdx/internal/logging"
)

// ReloadEvent describes one reload attempt. On failure Err is set and Current
// is the base that stays in service.
type ReloadEvent struct {
	Previous *Base
	Current  *Base
	Err      error
	Duration time.Duration
}

// Changed reports whether the reload published content with a new version.
func (e ReloadEvent) Changed() bool {
	return e.Err == nil && e.Previous != nil && e.Current != nil &&
		e.Previous.Version() != e.Current.Version()
}

// Store publishes the active Base. Readers call Current once per request.
type Store struct {
	path   string
	logger *logging.Logger

	current atomic.Pointer[Base]

	mu          sync.Mutex // serializes reloads and subscriber changes
	subscribers []func(ReloadEvent)
}

// NewStore wraps an already loaded base. path is used by Reload and may be
// empty for in-memory bases, in which case Reload fails.
func NewStore(base *Base, path string, logger *logging.Logger) (*Store, error) {
	if base == nil {
		return nil, errors.New("knowledge base is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	s := &Store{path: path, logger: logger}
	s.current.Store(base)
	return s, nil
}

// Open loads path and returns a Store serving it.
func Open(path string, logger *logging.Logger) (*Store, error) {
	base, err := Load(path)
	if err != nil {
		return nil, err
	}
	return NewStore(base, path, logger)
}

// Current returns the active snapshot. Never nil.
func (s *Store) Current() *Base {
	return s.current.Load()
}

// Path returns the file backing the store.
func (s *Store) Path() string {
	return s.path
}

// Subscribe registers fn to be called after every reload attempt.
func (s *Store) Subscribe(fn func(ReloadEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Reload re-reads the backing file. Content with the current version leaves the
// published snapshot in place. An invalid file leaves the current base in
// service and returns the load error.
func (s *Store) Reload(ctx context.Context) (*Base, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	prev := s.current.Load()

	if s.path == "" {
		err := errors.New("knowledge store has no backing file")
		s.notify(ReloadEvent{Previous: prev, Current: prev, Err: err, Duration: time.Since(start)})
		return prev, err
	}

	next, err := Load(s.path)
	ev := ReloadEvent{Previous: prev, Duration: time.Since(start)}
	if err != nil {
		ev.Current = prev
		ev.Err = err
		s.logger.Warn(ctx, "knowledge base reload failed, keeping previous version",
			zap.String("path", s.path),
			zap.String("version", prev.Version()),
			zap.Error(err),
		)
		s.notify(ev)
		return prev, err
	}

	if next.Version() == prev.Version() {
		ev.Current = prev
		s.logger.Debug(ctx, "knowledge base unchanged",
			zap.String("path", s.path),
			zap.String("version", prev.Version()),
		)
		s.notify(ev)
		return prev, nil
	}

	s.current.Store(next)
	ev.Current = next
	s.logger.Info(ctx, "knowledge base reloaded",
		zap.String("path", s.path),
		zap.String("previous_version", prev.Version()),
		zap.String("version", next.Version()),
		zap.Int("faults", next.Len()),
		zap.Duration("duration", ev.Duration),
	)
	s.notify(ev)
	return next, nil
}

// notify must be called with mu held.
func (s *Store) notify(ev ReloadEvent) {
	for _, fn := range s.subscribers {
		fn(ev)
	}
}
