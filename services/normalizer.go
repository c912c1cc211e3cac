package services

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpupo63/portfolio-blog-backend/models"
)

// Defaults substituted for anything the export leaves out.
const (
	DefaultTitle        = "Untitled Post"
	DefaultExcerpt      = "Read the full post for more details."
	DefaultCategory     = "Uncategorized"
	DefaultReadingTime  = "3 Min Read"
	PlaceholderImageURL = "/images/blog-placeholder.jpg"

	originalPageURLFormat = "https://www.notion.so/%s"
	maxReadingMinutes     = 24 * 60
)

// Property names as written by the different export producers, in lookup order.
var (
	titleProperties       = []string{"Title", "Name"}
	summaryProperties     = []string{"Summary", "Description"}
	excerptProperties     = []string{"Excerpt"}
	categoryProperties    = []string{"Category"}
	tagProperties         = []string{"Tags"}
	dateProperties        = []string{"Date Created", "Date", "Published Date"}
	readingTimeProperties = []string{"Mins Read", "Reading Time"}
	imageProperties       = []string{"R2ImageUrl", "Image"}
	publishedProperties   = []string{"Published"}
	featuredProperties    = []string{"Featured"}
	contentProperties     = []string{"Content"}
)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.DateOnly,
}

var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lower-cases s, collapses every run of non [a-z0-9] characters into a
// single hyphen and trims hyphens from both ends.
func Slugify(s string) string {
	slug := nonAlphanumeric.ReplaceAllString(strings.ToLower(s), "-")
	return strings.Trim(slug, "-")
}

// Normalizer turns raw export records into fully populated posts.
type Normalizer struct {
	now   func() time.Time
	newID func() string
}

type NormalizerOption func(*Normalizer)

func WithNormalizerClock(now func() time.Time) NormalizerOption {
	return func(n *Normalizer) {
		n.now = now
	}
}

func WithIDGenerator(newID func() string) NormalizerOption {
	return func(n *Normalizer) {
		n.newID = newID
	}
}

func NewNormalizer(opts ...NormalizerOption) Normalizer {
	n := Normalizer{
		now:   time.Now,
		newID: func() string { return "post-" + uuid.NewString() },
	}
	for _, opt := range opts {
		opt(&n)
	}
	return n
}

// Normalize applies the default normalizer to one record.
func Normalize(raw models.RawPostRecord) models.ProcessedBlogPost {
	return NewNormalizer().Normalize(raw)
}

// Normalize never fails: each malformed or missing field gets its default.
func (n Normalizer) Normalize(raw models.RawPostRecord) models.ProcessedBlogPost {
	id := strings.TrimSpace(raw.ID)
	if id == "" {
		id = n.newID()
	}

	rawTitle := strings.TrimSpace(textOf(raw, titleProperties))
	title := rawTitle
	if title == "" {
		title = DefaultTitle
	}

	slug := Slugify(rawTitle)
	if slug == "" {
		slug = id
	}

	excerpt := strings.TrimSpace(textOf(raw, excerptProperties))
	if excerpt == "" {
		excerpt = DefaultExcerpt
	}

	summary := strings.TrimSpace(textOf(raw, summaryProperties))
	if summary == "" {
		summary = excerpt
	}

	category := strings.TrimSpace(textOf(raw, categoryProperties))
	if category == "" {
		category = DefaultCategory
	}

	var tags []string
	if property, ok := raw.Property(tagProperties...); ok {
		tags = property.Names()
	}
	if len(tags) == 0 {
		tags = []string{category}
	}

	content := textOf(raw, contentProperties)
	if content == "" {
		content = raw.Content
	}

	return models.ProcessedBlogPost{
		ID:               id,
		Slug:             slug,
		Title:            title,
		Summary:          summary,
		Excerpt:          excerpt,
		Category:         category,
		Tags:             tags,
		CoverImageURL:    resolveCoverImage(raw),
		DateCreated:      n.resolveDate(raw),
		ReadingTimeLabel: readingTimeLabel(raw),
		Published:        checkbox(raw, publishedProperties),
		Featured:         checkbox(raw, featuredProperties),
		OriginalPageURL:  originalPageURL(id),
		Content:          content,
	}
}

func originalPageURL(id string) string {
	return fmt.Sprintf(originalPageURLFormat, strings.ReplaceAll(id, "-", ""))
}

func textOf(raw models.RawPostRecord, names []string) string {
	property, ok := raw.Property(names...)
	if !ok {
		return ""
	}
	return property.Text()
}

// checkbox defaults to false: an unset Published box keeps the post hidden.
func checkbox(raw models.RawPostRecord, names []string) bool {
	property, ok := raw.Property(names...)
	if !ok || property.Checkbox == nil {
		return false
	}
	return *property.Checkbox
}

// resolveCoverImage tries each image property in priority order; within a
// property a URL value beats the first file. The first hit wins.
func resolveCoverImage(raw models.RawPostRecord) string {
	for _, name := range imageProperties {
		property, ok := raw.Property(name)
		if !ok {
			continue
		}
		if url := imageURL(property); url != "" {
			return url
		}
	}
	return PlaceholderImageURL
}

func imageURL(property models.Property) string {
	if property.URL != nil {
		if url := strings.TrimSpace(*property.URL); url != "" {
			return url
		}
	}
	if len(property.Files) > 0 {
		if url := strings.TrimSpace(property.Files[0].URL()); url != "" {
			return url
		}
	}
	if property.Scalar != nil {
		url := strings.TrimSpace(*property.Scalar)
		if strings.HasPrefix(url, "http://") || strings.HasPrefix(url, "https://") || strings.HasPrefix(url, "/") {
			return url
		}
	}
	return ""
}

func (n Normalizer) resolveDate(raw models.RawPostRecord) time.Time {
	if property, ok := raw.Property(dateProperties...); ok {
		var value string
		switch {
		case property.Date != nil:
			value = property.Date.Start
		case property.Scalar != nil:
			value = *property.Scalar
		}
		if parsed, ok := parseDate(value); ok {
			return parsed
		}
	}
	if parsed, ok := parseDate(raw.CreatedTime); ok {
		return parsed
	}
	return n.now().UTC()
}

func parseDate(value string) (time.Time, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if parsed, err := time.Parse(layout, value); err == nil {
			return parsed.UTC(), true
		}
	}
	return time.Time{}, false
}

func readingTimeLabel(raw models.RawPostRecord) string {
	property, ok := raw.Property(readingTimeProperties...)
	if !ok || property.Number == nil {
		return DefaultReadingTime
	}
	minutes := *property.Number
	if math.IsNaN(minutes) || math.IsInf(minutes, 0) || minutes <= 0 || minutes > maxReadingMinutes {
		return DefaultReadingTime
	}
	return fmt.Sprintf("%d Min Read", max(1, int(math.Round(minutes))))
}
