package analysis

import (
	"context"
	"fmt"
	"sync"

	"finanzago-go-be/logging"
	"finanzago-go-be/models"
)

// Registry keeps the sessions of logged-in users.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	analyzer Analyzer
	store    HistoryStore
	logger   logging.Logger
	opts     Options
}

func NewRegistry(analyzer Analyzer, store HistoryStore, logger logging.Logger, opts Options) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		analyzer: analyzer,
		store:    store,
		logger:   logger.With("component", "analysis"),
		opts:     opts,
	}
}

// Open starts a session for user, rehydrating the stored history. A user
// who is already logged in gets the existing session back unchanged.
func (r *Registry) Open(ctx context.Context, user models.User) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s, ok := r.sessions[user.ID]; ok {
		return s, nil
	}

	history, err := r.store.Load(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}

	s := newSession(user, history, r.analyzer, r.store, r.logger, r.opts)
	r.sessions[user.ID] = s
	r.logger.Info(ctx, "session opened", "user_id", user.ID, "history_len", len(history))
	return s, nil
}

// Get returns the session of userID, if open.
func (r *Registry) Get(userID string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[userID]
	return s, ok
}

// Close discards the session. Stored history is kept.
func (r *Registry) Close(userID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sessions[userID]; !ok {
		return false
	}
	delete(r.sessions, userID)
	return true
}
