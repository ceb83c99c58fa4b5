// Package advisor picks a featured financial advisor from the remote directory.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/verte-zerg/finlearn/internal/locale"
	"github.com/verte-zerg/finlearn/internal/model"
)

// ErrNoAdvisors is returned when there is no advisor to show.
var ErrNoAdvisors = errors.New("no advisors available")

// photoKeys are the field names advisor documents have used for the photo URL.
var photoKeys = []string{"photoUrl", "photoURL", "photo", "image", "imageUrl"}

// Source reads raw advisor documents.
type Source interface {
	FetchAdvisors(ctx context.Context) ([]map[string]any, error)
}

// Cache holds the advisor list and the current pick for the life of the
// process. The pick stays put until Refresh.
type Cache struct {
	mu      sync.Mutex
	source  Source
	rnd     *rand.Rand
	loc     locale.Locale
	list    []map[string]any
	current map[string]any
}

// NewCache returns an empty cache. A nil rnd is seeded from the clock.
func NewCache(source Source, loc locale.Locale, rnd *rand.Rand) *Cache {
	if rnd == nil {
		rnd = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Cache{source: source, loc: loc, rnd: rnd}
}

// SetLocale changes the language of returned advisors without repicking.
func (c *Cache) SetLocale(loc locale.Locale) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.loc = loc
}

// Current returns the picked advisor, fetching the list on first use.
func (c *Cache) Current(ctx context.Context) (model.Advisor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current != nil {
		return Localize(c.current, c.loc), nil
	}
	if len(c.list) == 0 {
		if err := c.fetch(ctx); err != nil {
			return model.Advisor{}, err
		}
	}
	return c.pick()
}

// Refresh picks again from the cached list, refetching when it is empty.
func (c *Cache) Refresh(ctx context.Context) (model.Advisor, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if len(c.list) == 0 {
		if err := c.fetch(ctx); err != nil {
			return model.Advisor{}, err
		}
	}
	return c.pick()
}

func (c *Cache) fetch(ctx context.Context) error {
	if c.source == nil {
		return fmt.Errorf("remote directory not configured: %w", ErrNoAdvisors)
	}
	list, err := c.source.FetchAdvisors(ctx)
	if err != nil {
		return fmt.Errorf("failed to fetch advisors: %w", err)
	}
	c.list = list
	return nil
}

func (c *Cache) pick() (model.Advisor, error) {
	if len(c.list) == 0 {
		return model.Advisor{}, ErrNoAdvisors
	}
	c.current = c.list[c.rnd.Intn(len(c.list))]
	return Localize(c.current, c.loc), nil
}

// Localize flattens a raw advisor document for loc.
func Localize(doc map[string]any, loc locale.Locale) model.Advisor {
	a := model.Advisor{
		ID:      stringField(doc, "id"),
		Name:    localized(doc["name"], loc),
		Title:   localized(doc["title"], loc),
		Bio:     localized(doc["bio"], loc),
		Email:   stringField(doc, "email"),
		Phone:   stringField(doc, "phone"),
		Website: stringField(doc, "website"),
	}
	for _, key := range photoKeys {
		if v := stringField(doc, key); v != "" {
			a.PhotoURL = v
			break
		}
	}
	return a
}

func localized(v any, loc locale.Locale) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		values := make(map[string]string, len(val))
		for k, raw := range val {
			if s, ok := raw.(string); ok {
				values[k] = s
			}
		}
		return model.Translations(values).Resolve(loc)
	}
	return ""
}

func stringField(doc map[string]any, key string) string {
	s, _ := doc[key].(string)
	return s
}
