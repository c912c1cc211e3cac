package services

import (
	"context"
	"errors"
	"math"
	"slices"
	"strings"
	"time"

	"github.com/rpupo63/portfolio-blog-backend/cache"
	"github.com/rpupo63/portfolio-blog-backend/errs"
	"github.com/rpupo63/portfolio-blog-backend/metrics"
	"github.com/rpupo63/portfolio-blog-backend/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/text/cases"
)

// AllCategories is the pseudo-category meaning "no filter".
const AllCategories = "All"

// Search relevance weights.
const (
	titleWeight    = 0.5
	summaryWeight  = 0.3
	excerptWeight  = 0.2
	categoryWeight = 0.1
	tagWeight      = 0.1
	minMatchScore  = 0.01
)

// BlogService serves the normalized blog collection. None of its read
// operations fail: upstream problems turn into stale or placeholder posts.
type BlogService struct {
	source     BlogSource
	cache      *cache.PostCache
	normalizer Normalizer
	logger     zerolog.Logger
}

type BlogServiceOption func(*BlogService)

func WithNormalizer(n Normalizer) BlogServiceOption {
	return func(s *BlogService) {
		s.normalizer = n
	}
}

func NewBlogService(source BlogSource, postCache *cache.PostCache, opts ...BlogServiceOption) *BlogService {
	if postCache == nil {
		postCache = cache.New(cache.DefaultTTL)
	}
	s := &BlogService{
		source:     source,
		cache:      postCache,
		normalizer: NewNormalizer(),
		logger:     log.With().Str("component", "blogService").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetPosts returns the normalized collection, from cache while it is fresh.
// On failure it serves the stale collection, or the placeholder posts when
// nothing has ever been fetched. The result is a copy the caller may modify.
func (s *BlogService) GetPosts(ctx context.Context, forceRefresh bool) []models.ProcessedBlogPost {
	posts, err := s.cache.GetOrRefresh(ctx, forceRefresh, s.load)
	if err != nil {
		var apiErr *errs.ApiErr
		event := s.logger.Error().Err(err)
		if errors.As(err, &apiErr) {
			event = event.Str("cause", apiErr.GetFullError())
		}
		event.Msg("Blog data unavailable and nothing cached, serving placeholder posts")
		metrics.RecordFallback(metrics.FallbackPlaceholder)
		return PlaceholderPosts()
	}
	return clonePosts(posts)
}

func clonePosts(posts []models.ProcessedBlogPost) []models.ProcessedBlogPost {
	cloned := slices.Clone(posts)
	for i := range cloned {
		cloned[i].Tags = slices.Clone(cloned[i].Tags)
	}
	return cloned
}

func (s *BlogService) load(ctx context.Context) ([]models.ProcessedBlogPost, error) {
	start := time.Now()
	posts, err := s.fetchAndNormalize(ctx)
	metrics.RecordFetch(err, len(posts), time.Since(start))
	return posts, err
}

func (s *BlogService) fetchAndNormalize(ctx context.Context) ([]models.ProcessedBlogPost, error) {
	if s.source == nil {
		return nil, errs.NewConfigError("blog data source", errors.New("no blog data source configured"))
	}

	data, err := s.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	records, err := models.ParseRawPostRecords(data)
	if err != nil {
		if errors.Is(err, models.ErrNotARecordList) {
			return nil, errs.NewJSONUnmarshalError("decode "+s.source.Name(), err)
		}
		return nil, errs.NewPayloadShapeError("decode "+s.source.Name(), err)
	}

	posts := make([]models.ProcessedBlogPost, 0, len(records))
	for _, record := range records {
		posts = append(posts, s.normalizer.Normalize(record))
	}

	s.logger.Info().Str("source", s.source.Name()).Int("posts", len(posts)).Msg("Fetched blog data")
	return posts, nil
}

// ListPublished returns published posts, newest first. A category other than
// "" or "All" keeps only posts in that category, compared case-insensitively.
func (s *BlogService) ListPublished(ctx context.Context, category string) []models.ProcessedBlogPost {
	return filterPublished(s.GetPosts(ctx, false), category)
}

// ListPage is ListPublished, paginated.
func (s *BlogService) ListPage(ctx context.Context, category string, page, limit int) models.Page[models.ProcessedBlogPost] {
	return Paginate(s.ListPublished(ctx, category), page, limit)
}

// ListCategories returns "All" followed by the distinct categories of the
// published posts in ascending order. Categories are compared as written, so
// "Design" and "design" are listed separately.
func (s *BlogService) ListCategories(ctx context.Context) []string {
	seen := make(map[string]bool)
	var categories []string
	for _, post := range s.ListPublished(ctx, "") {
		category := strings.TrimSpace(post.Category)
		if category == "" || isAllCategories(category) {
			continue
		}
		if seen[category] {
			continue
		}
		seen[category] = true
		categories = append(categories, category)
	}
	slices.Sort(categories)
	return append([]string{AllCategories}, categories...)
}

// ListFeatured returns published featured posts, newest first, at most limit
// of them when limit > 0.
func (s *BlogService) ListFeatured(ctx context.Context, limit int) []models.ProcessedBlogPost {
	featured := []models.ProcessedBlogPost{}
	for _, post := range s.ListPublished(ctx, "") {
		if post.Featured {
			featured = append(featured, post)
		}
	}
	if limit > 0 && len(featured) > limit {
		featured = featured[:limit]
	}
	return featured
}

// Search returns the published posts in category whose title, summary,
// excerpt, category or any tag contains query, case-insensitively, in
// ListPublished order. A blank query behaves like ListPublished.
func (s *BlogService) Search(ctx context.Context, query, category string) []models.ProcessedBlogPost {
	candidates := s.ListPublished(ctx, category)
	query = strings.TrimSpace(query)
	if query == "" {
		return candidates
	}

	matcher := newQueryMatcher(query)
	matches := []models.ProcessedBlogPost{}
	for _, post := range candidates {
		if _, ok := matcher.score(post); ok {
			matches = append(matches, post)
		}
	}
	return matches
}

// SearchPage scores the matches of Search, orders them by descending score
// (ties keep ListPublished order) and returns the requested page. A blank
// query pages through ListPublished without scores.
func (s *BlogService) SearchPage(ctx context.Context, query, category string, page, limit int) models.Page[models.ScoredPost] {
	candidates := s.ListPublished(ctx, category)
	query = strings.TrimSpace(query)

	scored := make([]models.ScoredPost, 0, len(candidates))
	if query == "" {
		for _, post := range candidates {
			scored = append(scored, models.ScoredPost{Post: post})
		}
		return Paginate(scored, page, limit)
	}

	matcher := newQueryMatcher(query)
	for _, post := range candidates {
		if score, ok := matcher.score(post); ok {
			scored = append(scored, models.ScoredPost{Post: post, Score: score})
		}
	}
	slices.SortStableFunc(scored, func(a, b models.ScoredPost) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		default:
			return 0
		}
	})
	return Paginate(scored, page, limit)
}

// GetPostBySlug finds a published post by slug, falling back to its id.
func (s *BlogService) GetPostBySlug(ctx context.Context, slug string) (models.ProcessedBlogPost, bool) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return models.ProcessedBlogPost{}, false
	}

	posts := s.ListPublished(ctx, "")
	for _, post := range posts {
		if post.Slug == slug {
			return post, true
		}
	}
	for _, post := range posts {
		if post.ID == slug {
			return post, true
		}
	}
	return models.ProcessedBlogPost{}, false
}

func isAllCategories(category string) bool {
	return strings.EqualFold(strings.TrimSpace(category), AllCategories)
}

func filterPublished(posts []models.ProcessedBlogPost, category string) []models.ProcessedBlogPost {
	category = strings.TrimSpace(category)
	filterByCategory := category != "" && !isAllCategories(category)

	fold := cases.Fold()
	want := fold.String(category)

	published := make([]models.ProcessedBlogPost, 0, len(posts))
	for _, post := range posts {
		if !post.Published {
			continue
		}
		if filterByCategory && fold.String(strings.TrimSpace(post.Category)) != want {
			continue
		}
		published = append(published, post)
	}

	slices.SortStableFunc(published, func(a, b models.ProcessedBlogPost) int {
		return b.DateCreated.Compare(a.DateCreated)
	})
	return published
}

// queryMatcher holds a case-folded query. It is not safe for concurrent use.
type queryMatcher struct {
	fold  cases.Caser
	query string
}

func newQueryMatcher(query string) *queryMatcher {
	fold := cases.Fold()
	return &queryMatcher{fold: fold, query: fold.String(query)}
}

func (m *queryMatcher) contains(field string) bool {
	return field != "" && strings.Contains(m.fold.String(field), m.query)
}

// score reports whether post matches and its relevance. Each matching tag
// adds its own weight.
func (m *queryMatcher) score(post models.ProcessedBlogPost) (float64, bool) {
	matched := false
	score := 0.0
	add := func(ok bool, weight float64) {
		if ok {
			matched = true
			score += weight
		}
	}

	add(m.contains(post.Title), titleWeight)
	add(m.contains(post.Summary), summaryWeight)
	add(m.contains(post.Excerpt), excerptWeight)
	add(m.contains(post.Category), categoryWeight)
	for _, tag := range post.Tags {
		add(m.contains(tag), tagWeight)
	}

	if !matched {
		return 0, false
	}
	score = math.Round(score*100) / 100
	if score < minMatchScore {
		score = minMatchScore
	}
	return score, true
}
