package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// setupFrontendRoutes registers the public read routes used by the site.
func setupFrontendRoutes(r chi.Router, handlers *routeHandlers) {
	r.Group(func(r chi.Router) {
		r.Use(RequestLoggingMiddleware)

		r.Get("/health", handlers.healthHandler.getHealth())

		r.Get("/blog-posts", handlers.blogPostHandler.getBlogPosts())
		r.Get("/blog-posts/categories", handlers.blogPostHandler.getCategories())
		r.Get("/blog-posts/featured", handlers.blogPostHandler.getFeaturedPosts())
		r.Get("/blog-posts/search", handlers.blogPostHandler.searchBlogPosts())
		r.Get("/blog-post/{slug}", handlers.blogPostHandler.getBlogPost())
		r.Post("/blog-posts/refresh", handlers.blogPostHandler.refreshBlogPosts())
	})

	r.Handle("/metrics", promhttp.Handler())
}
