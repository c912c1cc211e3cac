package services

import (
	"time"

	"github.com/rpupo63/portfolio-blog-backend/models"
)

// PlaceholderPosts is served when the blog data source has never been reachable,
// so the blog section always renders something.
func PlaceholderPosts() []models.ProcessedBlogPost {
	return []models.ProcessedBlogPost{
		{
			ID:               "placeholder-1",
			Slug:             "building-resilient-web-services",
			Title:            "Building Resilient Web Services",
			Summary:          "Lessons learned keeping small services healthy when their dependencies are not.",
			Excerpt:          "Timeouts, fallbacks and caches: a practical tour.",
			Category:         "Development",
			Tags:             []string{"Go", "Reliability"},
			CoverImageURL:    PlaceholderImageURL,
			DateCreated:      time.Date(2024, time.March, 12, 0, 0, 0, 0, time.UTC),
			ReadingTimeLabel: "6 Min Read",
			OriginalPageURL:  originalPageURL("placeholder-1"),
			Published:        true,
			Featured:         true,
		},
		{
			ID:               "placeholder-2",
			Slug:             "notes-on-modern-tooling",
			Title:            "Notes on Modern Tooling",
			Summary:          "A look at the tools that changed how I build and ship software.",
			Excerpt:          "Editors, linters and deploy pipelines worth knowing.",
			Category:         "Technology",
			Tags:             []string{"Tooling"},
			CoverImageURL:    PlaceholderImageURL,
			DateCreated:      time.Date(2024, time.February, 2, 0, 0, 0, 0, time.UTC),
			ReadingTimeLabel: DefaultReadingTime,
			OriginalPageURL:  originalPageURL("placeholder-2"),
			Published:        true,
		},
		{
			ID:               "placeholder-3",
			Slug:             "designing-for-clarity",
			Title:            "Designing for Clarity",
			Summary:          "Why the simplest interface is usually the one people keep using.",
			Excerpt:          "Small design decisions with outsized impact.",
			Category:         "Design",
			Tags:             []string{"Design", "UX"},
			CoverImageURL:    PlaceholderImageURL,
			DateCreated:      time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC),
			ReadingTimeLabel: "4 Min Read",
			OriginalPageURL:  originalPageURL("placeholder-3"),
			Published:        true,
		},
	}
}
