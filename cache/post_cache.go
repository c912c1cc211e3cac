package cache

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/rpupo63/portfolio-blog-backend/metrics"
	"github.com/rpupo63/portfolio-blog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// DefaultTTL is how long a fetched collection is served without refetching.
const DefaultTTL = 60 * time.Second

// LoadFunc fetches and normalizes a fresh collection.
type LoadFunc func(ctx context.Context) ([]models.ProcessedBlogPost, error)

type entry struct {
	posts     []models.ProcessedBlogPost
	fetchedAt time.Time
}

// PostCache holds the last normalized collection and when it was fetched.
// Entries are swapped wholesale, never mutated in place. Concurrent misses
// may both load; the last store wins.
type PostCache struct {
	current atomic.Pointer[entry]
	ttl     time.Duration
	now     func() time.Time
	logger  zerolog.Logger
}

type Option func(*PostCache)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(c *PostCache) {
		c.now = now
	}
}

func New(ttl time.Duration, opts ...Option) *PostCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	c := &PostCache{
		ttl:    ttl,
		now:    time.Now,
		logger: log.With().Str("component", "postCache").Logger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// TTL returns the configured freshness window.
func (c *PostCache) TTL() time.Duration {
	return c.ttl
}

// Fresh returns the cached posts when the cache is non-empty and younger than the TTL.
func (c *PostCache) Fresh() ([]models.ProcessedBlogPost, bool) {
	e := c.current.Load()
	if e == nil || len(e.posts) == 0 {
		return nil, false
	}
	if c.now().Sub(e.fetchedAt) >= c.ttl {
		return nil, false
	}
	return e.posts, true
}

// Stale returns whatever the cache holds regardless of age.
func (c *PostCache) Stale() ([]models.ProcessedBlogPost, bool) {
	e := c.current.Load()
	if e == nil || len(e.posts) == 0 {
		return nil, false
	}
	return e.posts, true
}

// Store replaces the cached collection and stamps it with the current time.
func (c *PostCache) Store(posts []models.ProcessedBlogPost) {
	c.current.Store(&entry{posts: posts, fetchedAt: c.now()})
}

// FetchedAt reports when the current collection was stored.
func (c *PostCache) FetchedAt() time.Time {
	if e := c.current.Load(); e != nil {
		return e.fetchedAt
	}
	return time.Time{}
}

// GetOrRefresh serves fresh cached posts, or loads and stores a new collection.
// When loading fails it falls back to the stale collection if there is one;
// the load error is returned only when nothing was ever cached.
func (c *PostCache) GetOrRefresh(ctx context.Context, forceRefresh bool, load LoadFunc) ([]models.ProcessedBlogPost, error) {
	if !forceRefresh {
		if posts, ok := c.Fresh(); ok {
			return posts, nil
		}
	}

	posts, err := load(ctx)
	if err != nil {
		if stale, ok := c.Stale(); ok {
			c.logger.Warn().Err(err).
				Time("fetchedAt", c.FetchedAt()).
				Int("posts", len(stale)).
				Msg("Refresh failed, serving stale posts")
			metrics.RecordFallback(metrics.FallbackStale)
			return stale, nil
		}
		return nil, err
	}

	c.Store(posts)
	c.logger.Debug().Int("posts", len(posts)).Msg("Post cache refreshed")
	return posts, nil
}
