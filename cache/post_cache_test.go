package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-blog-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (f *fakeClock) Now() time.Time { return f.now }

func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func countingLoader(calls *int, posts []models.ProcessedBlogPost, err error) LoadFunc {
	return func(ctx context.Context) ([]models.ProcessedBlogPost, error) {
		*calls++
		return posts, err
	}
}

func TestPostCache_ServesFreshWithinTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := New(time.Minute, WithClock(clock.Now))
	posts := []models.ProcessedBlogPost{{ID: "a"}}

	calls := 0
	load := countingLoader(&calls, posts, nil)

	got, err := c.GetOrRefresh(context.Background(), false, load)
	require.NoError(t, err)
	assert.Equal(t, posts, got)

	clock.Advance(59 * time.Second)
	got, err = c.GetOrRefresh(context.Background(), false, load)
	require.NoError(t, err)
	assert.Equal(t, posts, got)
	assert.Equal(t, 1, calls)
}

func TestPostCache_RefetchesAfterTTL(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := New(time.Minute, WithClock(clock.Now))

	calls := 0
	load := countingLoader(&calls, []models.ProcessedBlogPost{{ID: "a"}}, nil)

	_, err := c.GetOrRefresh(context.Background(), false, load)
	require.NoError(t, err)

	clock.Advance(time.Minute)
	_, err = c.GetOrRefresh(context.Background(), false, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	assert.Equal(t, clock.now, c.FetchedAt())
}

func TestPostCache_ForceRefreshBypassesFreshCache(t *testing.T) {
	c := New(time.Hour)

	calls := 0
	load := countingLoader(&calls, []models.ProcessedBlogPost{{ID: "a"}}, nil)

	_, err := c.GetOrRefresh(context.Background(), false, load)
	require.NoError(t, err)
	_, err = c.GetOrRefresh(context.Background(), true, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPostCache_EmptyCollectionIsNotCached(t *testing.T) {
	c := New(time.Hour)

	calls := 0
	load := countingLoader(&calls, []models.ProcessedBlogPost{}, nil)

	_, err := c.GetOrRefresh(context.Background(), false, load)
	require.NoError(t, err)
	_, err = c.GetOrRefresh(context.Background(), false, load)
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestPostCache_ServesStaleOnFailure(t *testing.T) {
	clock := &fakeClock{now: time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)}
	c := New(time.Minute, WithClock(clock.Now))
	posts := []models.ProcessedBlogPost{{ID: "a"}}
	c.Store(posts)

	clock.Advance(10 * time.Minute)
	calls := 0
	got, err := c.GetOrRefresh(context.Background(), false, countingLoader(&calls, nil, errors.New("upstream down")))
	require.NoError(t, err)
	assert.Equal(t, posts, got)
	assert.Equal(t, 1, calls)

	// the stale entry keeps its original timestamp
	assert.Equal(t, clock.now.Add(-10*time.Minute), c.FetchedAt())
}

func TestPostCache_ReturnsErrorWhenNothingCached(t *testing.T) {
	c := New(time.Minute)
	loadErr := errors.New("upstream down")

	calls := 0
	got, err := c.GetOrRefresh(context.Background(), false, countingLoader(&calls, nil, loadErr))
	assert.ErrorIs(t, err, loadErr)
	assert.Nil(t, got)

	_, ok := c.Stale()
	assert.False(t, ok)
}

func TestPostCache_DefaultTTL(t *testing.T) {
	assert.Equal(t, DefaultTTL, New(0).TTL())
	assert.Equal(t, 5*time.Second, New(5*time.Second).TTL())
}
