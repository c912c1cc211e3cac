package api

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rpupo63/portfolio-blog-backend/errs"
	"github.com/rpupo63/portfolio-blog-backend/services"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type blogPostHandler struct {
	responder Responder
	logger    zerolog.Logger
	blog      blogReader
	pageSize  int
}

func newBlogPostHandler(blog blogReader, pageSize int) blogPostHandler {
	logger := log.With().Str("handlerName", "blogPostHandler").Logger()
	if pageSize < 1 {
		pageSize = services.DefaultPageSize
	}

	return blogPostHandler{
		responder: NewResponder(logger),
		logger:    logger,
		blog:      blog,
		pageSize:  min(pageSize, maxPageLimit),
	}
}

// getBlogPosts lists published posts, newest first
// @Summary List blog posts
// @Description Lists published posts, optionally filtered by category, one page at a time
// @Tags Blog Posts
// @Produce json
// @Param category query string false "Category name, or All"
// @Param page query int false "1-based page number"
// @Param limit query int false "Posts per page, at most 50"
// @Success 200 {object} models.Page[models.ProcessedBlogPost]
// @Failure 400 {object} ErrorResponse "Bad Request - page or limit is not a number"
// @Router /blog-posts [get]
func (h blogPostHandler) getBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit, err := h.pagination(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		category := r.URL.Query().Get("category")
		h.responder.WriteJSON(w, h.blog.ListPage(r.Context(), category, page, limit))
	}
}

// getCategories lists the category filter options
// @Summary List blog categories
// @Tags Blog Posts
// @Produce json
// @Success 200 {object} CategoriesResponse
// @Router /blog-posts/categories [get]
func (h blogPostHandler) getCategories() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.responder.WriteJSON(w, CategoriesResponse{Categories: h.blog.ListCategories(r.Context())})
	}
}

// getFeaturedPosts lists published featured posts
// @Summary List featured blog posts
// @Tags Blog Posts
// @Produce json
// @Param limit query int false "Maximum number of posts, at most 50"
// @Success 200 {object} PostsResponse
// @Failure 400 {object} ErrorResponse "Bad Request - limit is not a number"
// @Router /blog-posts/featured [get]
func (h blogPostHandler) getFeaturedPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := queryInt(r, "limit", maxPageLimit)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if limit < 1 || limit > maxPageLimit {
			limit = maxPageLimit
		}

		posts := h.blog.ListFeatured(r.Context(), limit)
		h.responder.WriteJSON(w, PostsResponse{Posts: posts, Total: len(posts)})
	}
}

// searchBlogPosts searches published posts by title, summary, excerpt, category and tags
// @Summary Search blog posts
// @Description Case-insensitive substring search, most relevant first
// @Tags Blog Posts
// @Produce json
// @Param q query string false "Search text"
// @Param category query string false "Category name, or All"
// @Param page query int false "1-based page number"
// @Param limit query int false "Posts per page, at most 50"
// @Success 200 {object} models.Page[models.ScoredPost]
// @Failure 400 {object} ErrorResponse "Bad Request - page or limit is not a number"
// @Router /blog-posts/search [get]
func (h blogPostHandler) searchBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		page, limit, err := h.pagination(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		query := r.URL.Query()
		h.responder.WriteJSON(w, h.blog.SearchPage(r.Context(), query.Get("q"), query.Get("category"), page, limit))
	}
}

// getBlogPost retrieves a published post by slug, or by id for links from the authoring tool
// @Summary Get blog post
// @Tags Blog Posts
// @Produce json
// @Param slug path string true "Post slug or id"
// @Success 200 {object} models.ProcessedBlogPost
// @Failure 404 {object} ErrorResponse "Not Found - no published post with that slug"
// @Router /blog-post/{slug} [get]
func (h blogPostHandler) getBlogPost() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		slug := strings.TrimSpace(chi.URLParam(r, "slug"))
		if slug == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing slug"))
			return
		}

		post, ok := h.blog.GetPostBySlug(r.Context(), slug)
		if !ok {
			h.responder.WriteError(w, errs.NewNotFoundError("blog post"))
			return
		}

		h.responder.WriteJSON(w, post)
	}
}

// refreshBlogPosts refetches the blog data immediately, ignoring the cache TTL
// @Summary Refresh blog posts
// @Tags Blog Posts
// @Produce json
// @Success 200 {object} RefreshResponse
// @Router /blog-posts/refresh [post]
func (h blogPostHandler) refreshBlogPosts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		posts := h.blog.GetPosts(r.Context(), true)
		h.logger.Info().Int("posts", len(posts)).Msg("Blog data refreshed on request")
		h.responder.WriteJSON(w, RefreshResponse{Count: len(posts)})
	}
}

func (h blogPostHandler) pagination(r *http.Request) (page, limit int, err error) {
	page, err = queryInt(r, "page", 1)
	if err != nil {
		return 0, 0, err
	}
	limit, err = queryInt(r, "limit", h.pageSize)
	if err != nil {
		return 0, 0, err
	}
	if limit < 1 {
		limit = h.pageSize
	}
	return page, min(limit, maxPageLimit), nil
}

// queryInt reads an optional integer query parameter.
func queryInt(r *http.Request, name string, defaultValue int) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get(name))
	if raw == "" {
		return defaultValue, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, errs.NewInvalidFieldError(name, "must be an integer")
	}
	return value, nil
}
