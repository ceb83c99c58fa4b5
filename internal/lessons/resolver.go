package lessons

import (
	"context"
	"encoding/json"
	"errors"

	"go.uber.org/zap"

	"github.com/verte-zerg/finlearn/internal/model"
)

// CacheKey is the storage key of the last remote snapshot.
const CacheKey = "lessons_cache"

// Source names where a collection came from.
type Source string

const (
	SourceRemote  Source = "remote"
	SourceCache   Source = "cache"
	SourceDir     Source = "dir"
	SourceBundled Source = "bundled"
)

// Collection is the active lesson set.
type Collection struct {
	Lessons []model.Lesson
	Source  Source
}

// Fetcher reads lessons from the remote store.
type Fetcher interface {
	FetchLessons(ctx context.Context) ([]model.Lesson, error)
}

// Cache is the local key-value storage for remote snapshots.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
}

// Resolver picks the lesson source: remote, then the cached remote snapshot,
// then the lessons directory, then the bundled lessons. Every failure falls
// through to the next source.
type Resolver struct {
	fetcher Fetcher
	cache   Cache
	dir     string
	logger  *zap.Logger
}

// NewResolver builds a resolver. fetcher and cache may be nil; dir may be empty.
func NewResolver(fetcher Fetcher, cache Cache, dir string, logger *zap.Logger) *Resolver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Resolver{fetcher: fetcher, cache: cache, dir: dir, logger: logger}
}

// Load returns the best available collection. It only fails when even the
// bundled lessons cannot be read.
func (r *Resolver) Load(ctx context.Context) (Collection, error) {
	if lessons, ok := r.remote(ctx); ok {
		return r.checked(Collection{Lessons: lessons, Source: SourceRemote}), nil
	}
	if lessons, ok := r.cached(ctx); ok {
		return r.checked(Collection{Lessons: lessons, Source: SourceCache}), nil
	}
	return r.Local()
}

// Local ignores the remote store and its cache.
func (r *Resolver) Local() (Collection, error) {
	if r.dir != "" {
		lessons, err := LoadDir(r.dir)
		if err == nil {
			return r.checked(Collection{Lessons: lessons, Source: SourceDir}), nil
		}
		r.logger.Warn("failed to load lessons dir, using bundled lessons",
			zap.String("dir", r.dir), zap.Error(err))
	}
	lessons, err := Bundled()
	if err != nil {
		return Collection{}, err
	}
	return Collection{Lessons: lessons, Source: SourceBundled}, nil
}

// checked logs every validation problem of c. Broken lessons stay in the
// collection; the viewer skips questions it cannot ask.
func (r *Resolver) checked(c Collection) Collection {
	for _, p := range Validate(c.Lessons) {
		r.logger.Warn("invalid lesson",
			zap.String("source", string(c.Source)),
			zap.String("problem", p.String()))
	}
	return c
}

func (r *Resolver) remote(ctx context.Context) ([]model.Lesson, bool) {
	if r.fetcher == nil {
		return nil, false
	}
	lessons, err := r.fetcher.FetchLessons(ctx)
	switch {
	case errors.Is(err, ErrNotConfigured):
		r.logger.Debug("remote lessons not configured")
		return nil, false
	case err != nil:
		r.logger.Warn("failed to fetch remote lessons", zap.Error(err))
		return nil, false
	case len(lessons) == 0:
		r.logger.Info("remote lessons collection is empty")
		return nil, false
	}
	r.store(ctx, lessons)
	return lessons, true
}

func (r *Resolver) cached(ctx context.Context) ([]model.Lesson, bool) {
	if r.cache == nil {
		return nil, false
	}
	raw, ok, err := r.cache.Get(ctx, CacheKey)
	if err != nil {
		r.logger.Warn("failed to read lesson cache", zap.Error(err))
		return nil, false
	}
	if !ok {
		return nil, false
	}
	var lessons []model.Lesson
	if err := json.Unmarshal([]byte(raw), &lessons); err != nil {
		r.logger.Warn("lesson cache is corrupt", zap.Error(err))
		return nil, false
	}
	return lessons, len(lessons) > 0
}

func (r *Resolver) store(ctx context.Context, lessons []model.Lesson) {
	if r.cache == nil {
		return
	}
	data, err := json.Marshal(lessons)
	if err != nil {
		r.logger.Error("failed to encode lesson cache", zap.Error(err))
		return
	}
	if err := r.cache.Put(ctx, CacheKey, string(data)); err != nil {
		r.logger.Warn("failed to save lesson cache", zap.Error(err))
	}
}
