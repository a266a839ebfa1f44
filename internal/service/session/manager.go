package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/rowanvale/lexdrill/internal/domain"
	"github.com/rowanvale/lexdrill/internal/domain/fsrs"
	"github.com/rowanvale/lexdrill/internal/store"
)

// ErrNoActiveSession is returned when no session has been started yet.
var ErrNoActiveSession = errors.New("no active study session")

// Manager owns the single active session of the process. Starting a new
// session replaces the previous one regardless of its state; the replaced
// session's persisted progress is untouched, only its in-memory position
// is discarded.
type Manager struct {
	mu      sync.Mutex
	current *Engine

	queue    QueueBuilder
	words    store.WordStore
	progress store.ProgressStore
	recorder store.SessionStore
	model    fsrs.Service
	logger   *slog.Logger
	now      func() time.Time
}

// NewManager creates a session manager.
func NewManager(
	queue QueueBuilder,
	words store.WordStore,
	progress store.ProgressStore,
	recorder store.SessionStore,
	model fsrs.Service,
	log *slog.Logger,
) *Manager {
	if queue == nil {
		panic("queue builder cannot be nil")
	}
	if words == nil {
		panic("word store cannot be nil")
	}
	if progress == nil {
		panic("progress store cannot be nil")
	}
	if recorder == nil {
		panic("session recorder cannot be nil")
	}
	if model == nil {
		panic("memory model cannot be nil")
	}
	if log == nil {
		log = slog.Default()
	}
	return &Manager{
		queue:    queue,
		words:    words,
		progress: progress,
		recorder: recorder,
		model:    model,
		logger:   log.With(slog.String("component", "session_manager")),
		now:      time.Now,
	}
}

// StartSession builds and activates a new session for the given settings.
func (m *Manager) StartSession(ctx context.Context, settings domain.StudySettings) (*Engine, error) {
	engine := &Engine{
		model:    m.model,
		progress: m.progress,
		recorder: m.recorder,
		logger:   m.logger,
		now:      m.now,
	}
	if err := engine.start(ctx, m.queue, m.words, settings); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil && m.current.Status() == StatusInProgress {
		m.logger.Warn("replacing in-progress session",
			slog.String("session_id", m.current.Snapshot().ID.String()))
	}
	m.current = engine
	return engine, nil
}

// Current returns the active session, or ErrNoActiveSession if none has
// been started.
func (m *Manager) Current() (*Engine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current == nil {
		return nil, ErrNoActiveSession
	}
	return m.current, nil
}
