package search

import (
	"context"
	"sync"
	"time"

	"github.com/verte-zerg/finlearn/internal/model"
)

// Update is delivered once a query has settled.
type Update struct {
	Query   string
	Results []model.Lesson
	History []string
}

// Live ranks interactive input. Keystrokes go through SetQuery; only the
// value that stays unchanged for the debounce window is ranked and offered
// to the history. Settled results arrive on Updates, newest wins.
type Live struct {
	ctx       context.Context
	mu        sync.Mutex
	index     *Index
	history   *History
	debouncer *Debouncer
	updates   chan Update
}

// NewLive creates a live search session. history may be nil.
func NewLive(ctx context.Context, index *Index, history *History, window time.Duration) *Live {
	if window <= 0 {
		window = DefaultDebounce
	}
	return &Live{
		ctx:       ctx,
		index:     index,
		history:   history,
		debouncer: NewDebouncer(window),
		updates:   make(chan Update, 1),
	}
}

// SetQuery records a keystroke-level change of the query text.
func (l *Live) SetQuery(query string) {
	l.debouncer.Debounce(func() {
		l.settle(query)
	})
}

// Flush ranks query right away, skipping the debounce window.
func (l *Live) Flush(query string) {
	l.debouncer.Immediate(func() {
		l.settle(query)
	})
}

// SetIndex swaps the index after the lesson collection or locale changed.
func (l *Live) SetIndex(index *Index) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.index = index
}

// Updates returns the channel of settled results.
func (l *Live) Updates() <-chan Update {
	return l.updates
}

// ClearHistory empties the recent-search history.
func (l *Live) ClearHistory() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.history == nil {
		return []string{}
	}
	l.history.Clear(l.ctx)
	return l.history.Entries()
}

// Close cancels any pending ranking.
func (l *Live) Close() {
	l.debouncer.Cancel()
}

func (l *Live) settle(query string) {
	l.mu.Lock()
	results := l.index.Search(query)
	history := []string{}
	if l.history != nil {
		l.history.Record(l.ctx, query, len(results))
		history = l.history.Entries()
	}
	l.mu.Unlock()

	l.publish(Update{Query: query, Results: results, History: history})
}

// publish replaces an unread update so readers always see the latest one.
func (l *Live) publish(u Update) {
	for {
		select {
		case l.updates <- u:
			return
		default:
		}
		select {
		case <-l.updates:
		default:
		}
	}
}
