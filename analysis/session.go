// Package analysis owns the per-user analysis state: the current analysis,
// the history list, credit consumption and the upload staging area.
package analysis

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"finanzago-go-be/gateway"
	"finanzago-go-be/logging"
	"finanzago-go-be/models"
	"finanzago-go-be/uploader"
)

var (
	// ErrUpgradeRequired means a free user has no credits left; the client
	// should show the upgrade prompt.
	ErrUpgradeRequired     = errors.New("upgrade required")
	ErrAnalysisInProgress  = errors.New("analysis already in progress")
	ErrAnalysisFailed      = errors.New("analysis failed")
	ErrHistoryItemNotFound = errors.New("history item not found")
	ErrEmptyPayload        = uploader.ErrEmptyPayload
)

// Analyzer is the part of the gateway the session needs.
type Analyzer interface {
	Analyze(ctx context.Context, payload []gateway.Part) (*models.FinancialAnalysis, error)
}

// HistoryStore mirrors the history list; store.History implements it.
type HistoryStore interface {
	Load(ctx context.Context, userID string) ([]models.AnalysisHistoryItem, error)
	Save(ctx context.Context, userID string, items []models.AnalysisHistoryItem) error
}

const timestampLayout = "02/01/2006, 15:04:05"

// Options tune a session.
type Options struct {
	// HistoryLimit caps the history length; 0 keeps everything.
	HistoryLimit int
	// GatewayTimeout bounds one gateway call; 0 means no bound.
	GatewayTimeout time.Duration
	// Location renders history timestamps. Defaults to America/Sao_Paulo,
	// or UTC when the zone database is unavailable.
	Location *time.Location
	Now      func() time.Time
	NewID    func() string
}

// Session is the state of one logged-in user. All methods are safe for
// concurrent use.
type Session struct {
	mu        sync.Mutex
	user      models.User
	current   *models.FinancialAnalysis
	currentID string
	history   []models.AnalysisHistoryItem
	busy      bool

	uploads  *uploader.Staging
	analyzer Analyzer
	store    HistoryStore
	logger   logging.Logger
	opts     Options
}

func newSession(user models.User, history []models.AnalysisHistoryItem, analyzer Analyzer, store HistoryStore, logger logging.Logger, opts Options) *Session {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = NewHistoryID
	}
	if opts.Location == nil {
		opts.Location = defaultLocation()
	}
	return &Session{
		user:     user,
		history:  history,
		uploads:  uploader.NewStaging(),
		analyzer: analyzer,
		store:    store,
		logger:   logger.With("user_id", user.ID),
		opts:     opts,
	}
}

func defaultLocation() *time.Location {
	loc, err := time.LoadLocation("America/Sao_Paulo")
	if err != nil {
		return time.UTC
	}
	return loc
}

// User returns a copy of the session user.
func (s *Session) User() models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.user
}

// Uploads is the session's staging area.
func (s *Session) Uploads() *uploader.Staging {
	return s.uploads
}

// Current returns the current analysis, or nil when none is shown.
func (s *Session) Current() *models.FinancialAnalysis {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// CurrentHistoryID is the id of the history item shown as current, if any.
func (s *Session) CurrentHistoryID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentID
}

// History returns the history list, newest first.
func (s *Session) History() []models.AnalysisHistoryItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.history)
}

// Busy reports whether an analysis is in flight.
func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// CheckCredits returns ErrUpgradeRequired when the user cannot start
// another analysis.
func (s *Session) CheckCredits() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.user.Entitlement.CanConsume() {
		return ErrUpgradeRequired
	}
	return nil
}

// StartAnalysis sends payload to the gateway. sent lists the staged files
// composed into payload. On success the result becomes the current analysis,
// is prepended to history, one credit is consumed for free users and the sent
// files leave the staging area; files staged meanwhile stay. On failure
// nothing changes.
func (s *Session) StartAnalysis(ctx context.Context, payload []gateway.Part, sent ...models.StagedFile) (*models.AnalysisHistoryItem, error) {
	s.mu.Lock()
	if !s.user.Entitlement.CanConsume() {
		s.mu.Unlock()
		s.logger.Info(ctx, "analysis refused, no credits left")
		return nil, ErrUpgradeRequired
	}
	if len(payload) == 0 {
		s.mu.Unlock()
		return nil, ErrEmptyPayload
	}
	if s.busy {
		s.mu.Unlock()
		return nil, ErrAnalysisInProgress
	}
	s.busy = true
	s.mu.Unlock()

	result, err := s.analyze(ctx, payload)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false

	if err != nil {
		s.logger.Error(ctx, "analysis failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrAnalysisFailed, err)
	}

	item := models.AnalysisHistoryItem{
		ID:        s.opts.NewID(),
		Timestamp: s.opts.Now().In(s.opts.Location).Format(timestampLayout),
		Analysis:  *result,
	}

	s.current = result
	s.currentID = item.ID
	s.history = slices.Insert(s.history, 0, item)
	if s.opts.HistoryLimit > 0 && len(s.history) > s.opts.HistoryLimit {
		s.history = s.history[:s.opts.HistoryLimit]
	}
	s.user.Entitlement = s.user.Entitlement.Consume()
	for _, f := range sent {
		s.uploads.Remove(f.ID)
	}

	s.persistLocked(ctx)

	s.logger.Info(ctx, "analysis stored", "history_id", item.ID, "transactions", len(result.Transactions), "history_len", len(s.history))
	return &item, nil
}

func (s *Session) analyze(ctx context.Context, payload []gateway.Part) (*models.FinancialAnalysis, error) {
	if s.opts.GatewayTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.GatewayTimeout)
		defer cancel()
	}
	result, err := s.analyzer.Analyze(ctx, payload)
	if err != nil {
		return nil, err
	}
	if result == nil {
		return nil, fmt.Errorf("%w: empty analysis", gateway.ErrGateway)
	}
	return result, nil
}

// DeleteHistoryItem removes the item with id and persists the list. It
// reports whether an item was removed; an unknown id changes nothing. When
// the write fails the item is kept.
func (s *Session) DeleteHistoryItem(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i := slices.IndexFunc(s.history, func(item models.AnalysisHistoryItem) bool { return item.ID == id })
	if i < 0 {
		return false, nil
	}
	remaining := slices.Delete(slices.Clone(s.history), i, i+1)

	if err := s.store.Save(ctx, s.user.ID, remaining); err != nil {
		return false, fmt.Errorf("persist history: %w", err)
	}
	s.history = remaining
	return true, nil
}

// SelectHistory makes the snapshot of item id the current analysis.
func (s *Session) SelectHistory(id string) (*models.FinancialAnalysis, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range s.history {
		if item.ID == id {
			snapshot := item.Analysis
			s.current = &snapshot
			s.currentID = item.ID
			return s.current, nil
		}
	}
	return nil, ErrHistoryItemNotFound
}

// ClearCurrent stops showing an analysis.
func (s *Session) ClearCurrent() {
	s.mu.Lock()
	s.current = nil
	s.currentID = ""
	s.mu.Unlock()
}

// Upgrade makes the user Pro. Calling it again changes nothing.
func (s *Session) Upgrade() models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user.Entitlement = models.Unlimited()
	return s.user
}

// persistLocked writes the history through; failures are logged and the
// in-memory state is kept.
func (s *Session) persistLocked(ctx context.Context) {
	if err := s.store.Save(ctx, s.user.ID, s.history); err != nil {
		s.logger.Warn(ctx, "history not persisted", "error", err)
	}
}

const idAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// bytes at or above this bound are rejected so every symbol is equally likely.
const idByteBound = 256 - 256%len(idAlphabet)

// NewHistoryID returns a random 9-character lowercase alphanumeric id.
func NewHistoryID() string {
	id := make([]byte, 0, 9)
	buf := make([]byte, 16)
	for len(id) < cap(id) {
		if _, err := rand.Read(buf); err != nil {
			panic(fmt.Sprintf("read random bytes: %v", err))
		}
		for _, b := range buf {
			if int(b) >= idByteBound || len(id) == cap(id) {
				continue
			}
			id = append(id, idAlphabet[int(b)%len(idAlphabet)])
		}
	}
	return string(id)
}
