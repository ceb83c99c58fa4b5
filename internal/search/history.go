package search

import (
	"context"
	"encoding/json"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	// HistoryKey is the storage key for recent searches.
	HistoryKey = "recentSearches"
	// HistoryLimit caps the number of remembered queries.
	HistoryLimit = 5
	// MinHistoryQueryLen is the shortest trimmed query worth remembering.
	MinHistoryQueryLen = 4
)

// Record returns history with query moved to the front when the query is
// long enough and found results. Matching entries are replaced ignoring case.
// The input slice is never modified.
func Record(history []string, query string, resultCount int) []string {
	out := append([]string{}, history...)
	if !Qualifies(query, resultCount) {
		return out
	}
	query = strings.TrimSpace(query)
	filtered := make([]string, 0, len(out)+1)
	filtered = append(filtered, query)
	for _, h := range out {
		if strings.EqualFold(h, query) {
			continue
		}
		filtered = append(filtered, h)
	}
	if len(filtered) > HistoryLimit {
		filtered = filtered[:HistoryLimit]
	}
	return filtered
}

// Qualifies reports whether a settled query should enter the history.
func Qualifies(query string, resultCount int) bool {
	return resultCount > 0 && utf8.RuneCountInString(strings.TrimSpace(query)) >= MinHistoryQueryLen
}

// Backend is the durable key-value storage used by History.
type Backend interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// History is the persisted recent-search list. Storage failures are logged
// and the in-memory list stays authoritative.
type History struct {
	backend Backend
	logger  *zap.Logger
	entries []string
}

// NewHistory returns an empty history bound to backend.
func NewHistory(backend Backend, logger *zap.Logger) *History {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &History{backend: backend, logger: logger, entries: []string{}}
}

// Load restores the stored history. Unreadable data yields an empty list.
func (h *History) Load(ctx context.Context) []string {
	h.entries = []string{}
	if h.backend == nil {
		return h.Entries()
	}
	raw, ok, err := h.backend.Get(ctx, HistoryKey)
	if err != nil {
		h.logger.Warn("failed to load recent searches", zap.Error(err))
		return h.Entries()
	}
	if !ok {
		return h.Entries()
	}
	var stored []string
	if err := json.Unmarshal([]byte(raw), &stored); err != nil {
		h.logger.Warn("stored recent searches are corrupt", zap.Error(err))
		return h.Entries()
	}
	for i := len(stored) - 1; i >= 0; i-- {
		h.entries = Record(h.entries, stored[i], 1)
	}
	return h.Entries()
}

// Record applies the recording rules and persists right away. It reports
// whether the query was recorded.
func (h *History) Record(ctx context.Context, query string, resultCount int) bool {
	if !Qualifies(query, resultCount) {
		return false
	}
	h.entries = Record(h.entries, query, resultCount)
	h.persist(ctx)
	return true
}

// Clear empties the history and removes it from storage.
func (h *History) Clear(ctx context.Context) {
	h.entries = []string{}
	if h.backend == nil {
		return
	}
	if err := h.backend.Delete(ctx, HistoryKey); err != nil {
		h.logger.Warn("failed to clear recent searches", zap.Error(err))
	}
}

// Entries returns a copy of the history, most recent first.
func (h *History) Entries() []string {
	return append([]string{}, h.entries...)
}

func (h *History) persist(ctx context.Context) {
	if h.backend == nil {
		return
	}
	data, err := json.Marshal(h.entries)
	if err != nil {
		h.logger.Error("failed to encode recent searches", zap.Error(err))
		return
	}
	if err := h.backend.Put(ctx, HistoryKey, string(data)); err != nil {
		h.logger.Warn("failed to save recent searches", zap.Error(err))
	}
}
