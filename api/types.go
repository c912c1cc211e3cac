package api

import (
	"context"

	"github.com/rpupo63/portfolio-blog-backend/models"
)

// blogReader is the part of services.BlogService the handlers use.
type blogReader interface {
	GetPosts(ctx context.Context, forceRefresh bool) []models.ProcessedBlogPost
	ListPage(ctx context.Context, category string, page, limit int) models.Page[models.ProcessedBlogPost]
	ListCategories(ctx context.Context) []string
	ListFeatured(ctx context.Context, limit int) []models.ProcessedBlogPost
	SearchPage(ctx context.Context, query, category string, page, limit int) models.Page[models.ScoredPost]
	GetPostBySlug(ctx context.Context, slug string) (models.ProcessedBlogPost, bool)
}

// routeHandlers contains all the handlers for different route types
type routeHandlers struct {
	healthHandler   healthHandler
	blogPostHandler blogPostHandler
}

// ErrorResponse represents an error response from the API
// @Description Error response structure
type ErrorResponse struct {
	Error   string `json:"error" example:"Internal Server Error"`
	Status  string `json:"status" example:"error"`
	Field   string `json:"field,omitempty" example:"limit"`
	Details string `json:"details,omitempty" example:"Additional error details"`
	Cause   string `json:"cause,omitempty" example:"Underlying error cause"`
}

// CategoriesResponse lists the category filter options, "All" first.
type CategoriesResponse struct {
	Categories []string `json:"categories"`
}

// PostsResponse is an unpaginated list of posts.
type PostsResponse struct {
	Posts []models.ProcessedBlogPost `json:"posts"`
	Total int                        `json:"total"`
}

// RefreshResponse reports the size of the collection after a forced refresh.
type RefreshResponse struct {
	Count int `json:"count"`
}

// HealthResponse is returned by /health.
type HealthResponse struct {
	Status    string `json:"status"`
	StartedAt string `json:"startedAt"`
	Uptime    string `json:"uptime"`
}
