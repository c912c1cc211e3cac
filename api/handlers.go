package api

import "time"

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(blog blogReader, startupTime time.Time, pageSize int) *routeHandlers {
	return &routeHandlers{
		healthHandler:   newHealthHandler(startupTime),
		blogPostHandler: newBlogPostHandler(blog, pageSize),
	}
}
