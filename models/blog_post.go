package models

import (
	"time"
)

// ProcessedBlogPost is the normalized blog post served to every caller.
// Every field is populated; the normalizer substitutes defaults for anything
// the export left out.
type ProcessedBlogPost struct {
	ID               string    `json:"id"`
	Slug             string    `json:"slug"`
	Title            string    `json:"title"`
	Summary          string    `json:"summary"`
	Excerpt          string    `json:"excerpt"`
	Category         string    `json:"category"`
	Tags             []string  `json:"tags"`
	CoverImageURL    string    `json:"coverImageUrl"`
	DateCreated      time.Time `json:"dateCreated"`
	ReadingTimeLabel string    `json:"readingTimeLabel"`
	Published        bool      `json:"published"`
	Featured         bool      `json:"featured"`
	OriginalPageURL  string    `json:"originalPageUrl"`
	Content          string    `json:"content"`
}

// ScoredPost pairs a post with its search relevance.
type ScoredPost struct {
	Post  ProcessedBlogPost `json:"post"`
	Score float64           `json:"score,omitempty"`
}

// Page is one page of a filtered, sorted collection.
type Page[T any] struct {
	Results     []T  `json:"results"`
	TotalItems  int  `json:"totalItems"`
	TotalPages  int  `json:"totalPages"`
	CurrentPage int  `json:"currentPage"`
	HasMore     bool `json:"hasMore"`
}
