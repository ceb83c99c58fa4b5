package progress

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/verte-zerg/finlearn/internal/store"
)

type memBackend struct {
	data   map[string]string
	getErr error
	putErr error
	puts   int
}

func newMemBackend() *memBackend {
	return &memBackend{data: map[string]string{}}
}

func (m *memBackend) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memBackend) Put(_ context.Context, key, value string) error {
	m.puts++
	if m.putErr != nil {
		return m.putErr
	}
	m.data[key] = value
	return nil
}

func fixedClock(day string) func() time.Time {
	ts, _ := time.ParseInLocation("2006-01-02", day, time.Local)
	return func() time.Time { return ts.Add(10 * time.Hour) }
}

func TestTrackerLoadMissingUsesInitial(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	tr := NewTracker(newMemBackend(), zap.New(core), WithClock(fixedClock("2024-01-02")))
	state := tr.Load(context.Background())
	assert.Equal(t, 1, logs.FilterMessage("no stored progress, using initial state").Len())
	assert.Equal(t, 0, state.XP)
	assert.Equal(t, 1, state.Streak)
	assert.Equal(t, "2024-01-02", state.LastLogin)
	assert.Empty(t, state.CompletedLessons)
}

func TestTrackerWithoutBackendLogsAndKeepsMemory(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	tr := NewTracker(nil, zap.New(core), WithClock(fixedClock("2024-01-02")))
	ctx := context.Background()
	tr.Load(ctx)
	assert.Equal(t, 1, logs.FilterMessage("no progress storage, using initial state").Len())

	state := tr.CompleteLesson(ctx, "banking-basics", 80, 50)
	assert.Equal(t, 50, state.XP)
	assert.Equal(t, 80, tr.State().QuizScores["banking-basics"])
}

func TestTrackerLoadCorruptLogsAndFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	backend := newMemBackend()
	backend.data[StorageKey] = "{not json"
	tr := NewTracker(backend, zap.New(core), WithClock(fixedClock("2024-01-02")))

	state := tr.Load(context.Background())
	assert.Equal(t, 0, state.XP)
	assert.Equal(t, 1, logs.FilterMessageSnippet("corrupt").Len())
}

func TestTrackerLoadReadErrorFallsBack(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	backend := newMemBackend()
	backend.getErr = errors.New("disk unavailable")
	tr := NewTracker(backend, zap.New(core), WithClock(fixedClock("2024-01-02")))

	state := tr.Load(context.Background())
	assert.Equal(t, 1, state.Streak)
	assert.Equal(t, 1, logs.Len())
}

func TestTrackerWritesThroughAndRestores(t *testing.T) {
	st, err := store.Open(filepath.Join(t.TempDir(), "finlearn.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	ctx := context.Background()

	tr := NewTracker(st, zap.NewNop(), WithClock(fixedClock("2024-01-01")))
	tr.Load(ctx)
	tr.StartSession(ctx)
	tr.CompleteLesson(ctx, "banking-basics", 80, 50)
	tr.CompleteLesson(ctx, "banking-basics", 60, 50)

	next := NewTracker(st, zap.NewNop(), WithClock(fixedClock("2024-01-02")))
	restored := next.Load(ctx)
	assert.Equal(t, 50, restored.XP)
	assert.Equal(t, []string{"banking-basics"}, restored.CompletedLessons)
	assert.Equal(t, 80, restored.QuizScores["banking-basics"])

	state := next.StartSession(ctx)
	assert.Equal(t, 2, state.Streak)
	assert.Equal(t, "2024-01-02", state.LastLogin)

	reset := next.Reset(ctx)
	assert.Equal(t, 0, reset.XP)
	again := NewTracker(st, zap.NewNop(), WithClock(fixedClock("2024-01-02"))).Load(ctx)
	assert.Empty(t, again.CompletedLessons)
}

func TestTrackerPersistFailureKeepsMemoryState(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	backend := newMemBackend()
	backend.putErr = errors.New("read-only filesystem")
	tr := NewTracker(backend, zap.New(core), WithClock(fixedClock("2024-01-01")))
	tr.Load(context.Background())

	state := tr.CompleteLesson(context.Background(), "l1", 90, 25)
	assert.Equal(t, 25, state.XP)
	assert.Equal(t, 25, tr.State().XP)
	assert.Equal(t, 1, logs.FilterMessageSnippet("failed to save progress").Len())

	backend.putErr = nil
	tr.CompleteLesson(context.Background(), "l2", 70, 25)
	assert.Equal(t, 2, backend.puts)
	assert.Contains(t, backend.data[StorageKey], `"l2"`)
}

func TestTrackerStateIsACopy(t *testing.T) {
	tr := NewTracker(nil, nil, WithClock(fixedClock("2024-01-01")))
	state := tr.CompleteLesson(context.Background(), "l1", 90, 10)
	state.CompletedLessons[0] = "tampered"
	state.QuizScores["l1"] = 0
	assert.Equal(t, "l1", tr.State().CompletedLessons[0])
	assert.Equal(t, 90, tr.State().QuizScores["l1"])
}
