package services

import (
	"slices"

	"github.com/rpupo63/portfolio-blog-backend/models"
)

// DefaultPageSize is the listing page size used by the site's UI.
const DefaultPageSize = 6

// Paginate slices items into the 1-based page. page < 1 is treated as 1 and
// limit < 1 as DefaultPageSize. An empty collection still has one page, and
// pages past the end are empty rather than an error.
func Paginate[T any](items []T, page, limit int) models.Page[T] {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = DefaultPageSize
	}

	totalItems := len(items)
	totalPages := totalItems / limit
	if totalItems%limit != 0 {
		totalPages++
	}
	totalPages = max(1, totalPages)

	start := totalItems
	if page-1 <= totalItems/limit {
		start = min((page-1)*limit, totalItems)
	}
	// never compute start+limit, limit may be close to MaxInt
	remaining := totalItems - start
	end := start + min(limit, remaining)

	results := make([]T, 0, end-start)
	results = append(results, items[start:end]...)

	return models.Page[T]{
		Results:     slices.Clip(results),
		TotalItems:  totalItems,
		TotalPages:  totalPages,
		CurrentPage: page,
		HasMore:     remaining > limit,
	}
}
