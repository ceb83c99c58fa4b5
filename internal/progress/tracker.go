package progress

import (
	"context"
	"encoding/json"
	"time"

	"cloud.google.com/go/civil"
	"go.uber.org/zap"

	"github.com/verte-zerg/finlearn/internal/model"
)

// StorageKey is the document key for the persisted progress state.
const StorageKey = "financial_educator_progress"

// Backend is the durable key-value storage used by Tracker.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

// Tracker holds the in-memory progress state and writes it through to the
// backend after every change. The in-memory copy is authoritative: storage
// failures are logged and never returned.
type Tracker struct {
	backend Backend
	logger  *zap.Logger
	now     func() time.Time
	state   model.ProgressState
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock overrides the time source used to compute "today".
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker returns a tracker with the initial state. Call Load to restore
// persisted progress.
func NewTracker(backend Backend, logger *zap.Logger, opts ...Option) *Tracker {
	if logger == nil {
		logger = zap.NewNop()
	}
	t := &Tracker{
		backend: backend,
		logger:  logger,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	t.state = Initial(t.today())
	return t
}

func (t *Tracker) today() civil.Date {
	return civil.DateOf(t.now())
}

// Load restores the persisted state. Missing, corrupt or unreadable data
// falls back to the initial state.
func (t *Tracker) Load(ctx context.Context) model.ProgressState {
	t.state = t.read(ctx)
	return t.State()
}

func (t *Tracker) read(ctx context.Context) model.ProgressState {
	today := t.today()
	if t.backend == nil {
		t.logger.Info("no progress storage, using initial state")
		return Initial(today)
	}
	raw, ok, err := t.backend.Get(ctx, StorageKey)
	if err != nil {
		t.logger.Warn("failed to load progress, using initial state", zap.Error(err))
		return Initial(today)
	}
	if !ok {
		t.logger.Info("no stored progress, using initial state")
		return Initial(today)
	}
	var stored model.ProgressState
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		t.logger.Warn("stored progress is corrupt, using initial state", zap.Error(err))
		return Initial(today)
	}
	return Normalize(stored, today)
}

// StartSession reconciles the login streak for today's visit and persists.
func (t *Tracker) StartSession(ctx context.Context) model.ProgressState {
	t.state = ReconcileStreak(t.state, t.today())
	t.persist(ctx)
	return t.State()
}

// CompleteLesson records a lesson completion and persists.
func (t *Tracker) CompleteLesson(ctx context.Context, lessonID string, scorePercent, xpReward int) model.ProgressState {
	t.state = CompleteLesson(t.state, lessonID, scorePercent, xpReward)
	t.logger.Info("lesson completed",
		zap.String("lesson", lessonID),
		zap.Int("score", ClampScore(scorePercent)),
		zap.Int("xp", t.state.XP))
	t.persist(ctx)
	return t.State()
}

// Reset clears all progress and persists the initial state.
func (t *Tracker) Reset(ctx context.Context) model.ProgressState {
	t.state = Reset(t.today())
	t.persist(ctx)
	return t.State()
}

// State returns a copy of the current state.
func (t *Tracker) State() model.ProgressState {
	return t.state.Clone()
}

func (t *Tracker) persist(ctx context.Context) {
	if t.backend == nil {
		return
	}
	data, err := json.Marshal(t.state)
	if err != nil {
		t.logger.Error("failed to encode progress", zap.Error(err))
		return
	}
	if err := t.backend.Put(ctx, StorageKey, string(data)); err != nil {
		t.logger.Warn("failed to save progress, continuing in memory", zap.Error(err))
	}
}
