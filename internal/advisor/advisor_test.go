package advisor

import (
	"context"
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/finlearn/internal/locale"
)

type fakeSource struct {
	docs  []map[string]any
	err   error
	calls int
}

func (s *fakeSource) FetchAdvisors(context.Context) ([]map[string]any, error) {
	s.calls++
	return s.docs, s.err
}

func advisors() []map[string]any {
	return []map[string]any{
		{"id": "a1", "name": "Amara Okafor", "title": map[string]any{"en": "Credit Counsellor", "fr": "Conseillère en crédit"}, "photoURL": "https://example.org/a1.jpg"},
		{"id": "a2", "name": map[string]any{"en": "Luis Ortega"}, "title": "Tax Preparer", "image": "https://example.org/a2.png", "email": "luis@example.org"},
		{"id": "a3", "name": "Mei Chen", "title": "Planner"},
	}
}

func TestCurrentIsStableUntilRefresh(t *testing.T) {
	src := &fakeSource{docs: advisors()}
	cache := NewCache(src, locale.English, rand.New(rand.NewSource(7)))
	ctx := context.Background()

	first, err := cache.Current(ctx)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := cache.Current(ctx)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
	assert.Equal(t, 1, src.calls)

	seen := map[string]bool{first.ID: true}
	for i := 0; i < 50; i++ {
		a, err := cache.Refresh(ctx)
		require.NoError(t, err)
		seen[a.ID] = true
	}
	assert.Equal(t, 1, src.calls)
	assert.Len(t, seen, 3)
}

func TestRefreshRefetchesEmptyList(t *testing.T) {
	src := &fakeSource{}
	cache := NewCache(src, locale.English, rand.New(rand.NewSource(1)))
	ctx := context.Background()

	_, err := cache.Current(ctx)
	assert.True(t, errors.Is(err, ErrNoAdvisors))

	src.docs = advisors()[:1]
	a, err := cache.Refresh(ctx)
	require.NoError(t, err)
	assert.Equal(t, "a1", a.ID)
	assert.Equal(t, 2, src.calls)
}

func TestFetchErrors(t *testing.T) {
	ctx := context.Background()
	_, err := NewCache(nil, locale.English, nil).Current(ctx)
	assert.True(t, errors.Is(err, ErrNoAdvisors))

	boom := errors.New("deadline exceeded")
	_, err = NewCache(&fakeSource{err: boom}, locale.English, nil).Current(ctx)
	assert.True(t, errors.Is(err, boom))
}

func TestLocalize(t *testing.T) {
	docs := advisors()
	fr := Localize(docs[0], locale.French)
	assert.Equal(t, "Amara Okafor", fr.Name)
	assert.Equal(t, "Conseillère en crédit", fr.Title)
	assert.Equal(t, "https://example.org/a1.jpg", fr.PhotoURL)

	es := Localize(docs[1], locale.Spanish)
	assert.Equal(t, "Luis Ortega", es.Name)
	assert.Equal(t, "https://example.org/a2.png", es.PhotoURL)
	assert.Equal(t, "luis@example.org", es.Email)

	assert.Empty(t, Localize(docs[2], locale.English).PhotoURL)

	withBoth := map[string]any{"photo": "p", "imageUrl": "i"}
	assert.Equal(t, "p", Localize(withBoth, locale.English).PhotoURL)
}

func TestSetLocaleKeepsPick(t *testing.T) {
	cache := NewCache(&fakeSource{docs: advisors()[:1]}, locale.English, nil)
	ctx := context.Background()
	en, err := cache.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Credit Counsellor", en.Title)

	cache.SetLocale(locale.French)
	fr, err := cache.Current(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Conseillère en crédit", fr.Title)
}
