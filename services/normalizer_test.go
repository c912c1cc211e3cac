package services

import (
	"encoding/json"
	"regexp"
	"testing"
	"time"

	"github.com/rpupo63/portfolio-blog-backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)

func testNormalizer() Normalizer {
	return NewNormalizer(
		WithNormalizerClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string { return "post-generated" }),
	)
}

func parseRecord(t *testing.T, doc string) models.RawPostRecord {
	t.Helper()
	records, err := models.ParseRawPostRecords([]byte("[" + doc + "]"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	return records[0]
}

func TestNormalize_TitleOnlyRecord(t *testing.T) {
	record := parseRecord(t, `{"id":"abc","properties":{"Title":{"title":[{"plain_text":"Hello, World!"}]}}}`)

	post := testNormalizer().Normalize(record)

	assert.Equal(t, "abc", post.ID)
	assert.Equal(t, "hello-world", post.Slug)
	assert.Equal(t, "Hello, World!", post.Title)
	assert.Equal(t, DefaultCategory, post.Category)
	assert.Equal(t, []string{DefaultCategory}, post.Tags)
	assert.Equal(t, DefaultExcerpt, post.Excerpt)
	assert.Equal(t, DefaultExcerpt, post.Summary)
	assert.Equal(t, PlaceholderImageURL, post.CoverImageURL)
	assert.Equal(t, DefaultReadingTime, post.ReadingTimeLabel)
	assert.Equal(t, fixedNow, post.DateCreated)
	assert.False(t, post.Published)
	assert.False(t, post.Featured)
	assert.Equal(t, "https://www.notion.so/abc", post.OriginalPageURL)
}

func TestNormalize_FullRecord(t *testing.T) {
	record := parseRecord(t, `{
		"id":"1a2b-3c4d",
		"created_time":"2023-01-01T00:00:00.000Z",
		"properties":{
			"Title":{"type":"title","title":[{"plain_text":"Advanced "},{"plain_text":"TypeScript Techniques"}]},
			"Summary":{"rich_text":[{"plain_text":"Generics and more"}]},
			"Excerpt":{"rich_text":{"plain_text":"Short excerpt"}},
			"Category":{"select":{"name":"Development"}},
			"Tags":{"multi_select":[{"name":"TypeScript"},{"name":"Web"}]},
			"Date Created":{"date":{"start":"2024-04-15"}},
			"Mins Read":{"number":8.4},
			"R2ImageUrl":{"url":"https://cdn.example.com/ts.png"},
			"Image":{"files":[{"external":{"url":"https://ignored.example.com/x.png"}}]},
			"Published":{"checkbox":true},
			"Featured":{"checkbox":true},
			"Content":{"rich_text":[{"plain_text":"Body text"}]}
		}
	}`)

	post := testNormalizer().Normalize(record)

	assert.Equal(t, "advanced-typescript-techniques", post.Slug)
	assert.Equal(t, "Advanced TypeScript Techniques", post.Title)
	assert.Equal(t, "Generics and more", post.Summary)
	assert.Equal(t, "Short excerpt", post.Excerpt)
	assert.Equal(t, "Development", post.Category)
	assert.Equal(t, []string{"TypeScript", "Web"}, post.Tags)
	assert.Equal(t, time.Date(2024, time.April, 15, 0, 0, 0, 0, time.UTC), post.DateCreated)
	assert.Equal(t, "8 Min Read", post.ReadingTimeLabel)
	assert.Equal(t, "https://cdn.example.com/ts.png", post.CoverImageURL)
	assert.True(t, post.Published)
	assert.True(t, post.Featured)
	assert.Equal(t, "https://www.notion.so/1a2b3c4d", post.OriginalPageURL)
	assert.Equal(t, "Body text", post.Content)
}

func TestNormalize_MalformedFieldsFallBackToDefaults(t *testing.T) {
	testCases := []struct {
		name string
		doc  string
	}{
		{name: "empty properties", doc: `{"id":"x","properties":{}}`},
		{name: "null values", doc: `{"id":"x","properties":{"Title":null,"Category":null,"Tags":null,"Mins Read":null,"Published":null}}`},
		{name: "wrong shapes", doc: `{"id":"x","properties":{
			"Title":{"title":{"oops":true}},
			"Summary":{"rich_text":5},
			"Category":{"select":"Development"},
			"Tags":{"multi_select":"Go"},
			"Date Created":{"date":{"start":"not a date"}},
			"Mins Read":{"number":"eight"},
			"R2ImageUrl":{"url":42},
			"Image":{"files":"nope"},
			"Published":{"checkbox":"true"}
		}}`},
		{name: "negative reading time", doc: `{"id":"x","properties":{"Mins Read":{"number":-2}}}`},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			post := testNormalizer().Normalize(parseRecord(t, testCase.doc))

			assert.Equal(t, "x", post.ID)
			assert.Equal(t, "x", post.Slug)
			assert.Equal(t, DefaultTitle, post.Title)
			assert.Equal(t, DefaultExcerpt, post.Summary)
			assert.Equal(t, DefaultExcerpt, post.Excerpt)
			assert.Equal(t, DefaultCategory, post.Category)
			assert.Equal(t, []string{DefaultCategory}, post.Tags)
			assert.Equal(t, PlaceholderImageURL, post.CoverImageURL)
			assert.Equal(t, fixedNow, post.DateCreated)
			assert.Equal(t, DefaultReadingTime, post.ReadingTimeLabel)
			assert.False(t, post.Published)
			assert.NotEmpty(t, post.OriginalPageURL)
		})
	}
}

func TestNormalize_ZeroValueRecord(t *testing.T) {
	post := testNormalizer().Normalize(models.RawPostRecord{})

	assert.Equal(t, "post-generated", post.ID)
	assert.Equal(t, "post-generated", post.Slug)
	assert.Equal(t, DefaultTitle, post.Title)
	assert.Equal(t, []string{DefaultCategory}, post.Tags)
	assert.Equal(t, "https://www.notion.so/postgenerated", post.OriginalPageURL)
}

func TestNormalize_GeneratedIDsAreUnique(t *testing.T) {
	a := Normalize(models.RawPostRecord{})
	b := Normalize(models.RawPostRecord{})

	assert.Regexp(t, `^post-`, a.ID)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestNormalize_DateFallsBackToCreatedTime(t *testing.T) {
	record := parseRecord(t, `{"id":"x","created_time":"2022-11-05T10:20:30.000Z","properties":{}}`)

	post := testNormalizer().Normalize(record)

	assert.Equal(t, time.Date(2022, time.November, 5, 10, 20, 30, 0, time.UTC), post.DateCreated)
}

func TestNormalize_CaseVariantPropertyNames(t *testing.T) {
	record := parseRecord(t, `{"id":"x","properties":{
		"title":{"title":[{"plain_text":"Lower Case Keys"}]},
		"CATEGORY":{"select":{"name":"Design"}},
		"date created":{"date":{"start":"2024-02-29T08:00:00Z"}}
	}}`)

	post := testNormalizer().Normalize(record)

	assert.Equal(t, "Lower Case Keys", post.Title)
	assert.Equal(t, "Design", post.Category)
	assert.Equal(t, time.Date(2024, time.February, 29, 8, 0, 0, 0, time.UTC), post.DateCreated)
}

func TestNormalize_CoverImagePriority(t *testing.T) {
	testCases := []struct {
		name       string
		properties string
		want       string
	}{
		{
			name:       "platform url wins",
			properties: `"R2ImageUrl":{"url":"https://r2/a.png"},"Image":{"url":"https://img/b.png"}`,
			want:       "https://r2/a.png",
		},
		{
			name:       "external file preferred over hosted",
			properties: `"R2ImageUrl":{"files":[{"file":{"url":"https://hosted/a.png"},"external":{"url":"https://ext/a.png"}}]}`,
			want:       "https://ext/a.png",
		},
		{
			name:       "hosted file when no external",
			properties: `"R2ImageUrl":{"files":[{"file":{"url":"https://hosted/a.png"}},{"external":{"url":"https://ext/second.png"}}]}`,
			want:       "https://hosted/a.png",
		},
		{
			name:       "generic image property",
			properties: `"R2ImageUrl":{"url":""},"Image":{"files":[{"external":{"url":"https://ext/b.png"}}]}`,
			want:       "https://ext/b.png",
		},
		{
			name:       "flat string image",
			properties: `"Image":"https://flat/c.png"`,
			want:       "https://flat/c.png",
		},
		{
			name:       "non url string ignored",
			properties: `"Image":"cover"`,
			want:       PlaceholderImageURL,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			record := parseRecord(t, `{"id":"x","properties":{`+testCase.properties+`}}`)
			assert.Equal(t, testCase.want, testNormalizer().Normalize(record).CoverImageURL)
		})
	}
}

func TestNormalize_ReadingTimeRounds(t *testing.T) {
	for minutes, want := range map[string]string{
		"1":    "1 Min Read",
		"0.3":  "1 Min Read",
		"4.5":  "5 Min Read",
		"12":   "12 Min Read",
		"0":    DefaultReadingTime,
		"9999": DefaultReadingTime,
	} {
		record := parseRecord(t, `{"id":"x","properties":{"Mins Read":{"number":`+minutes+`}}}`)
		assert.Equal(t, want, testNormalizer().Normalize(record).ReadingTimeLabel, minutes)
	}
}

func TestNormalize_TagsNeverEmpty(t *testing.T) {
	docs := []string{
		`{"id":"a","properties":{"Tags":{"multi_select":[]}}}`,
		`{"id":"b","properties":{"Tags":{"multi_select":[{"name":""},{"name":"  "}]},"Category":{"select":{"name":"Ops"}}}}`,
		`{"id":"c","properties":{"Tags":{"multi_select":[{"name":"Go"}]}}}`,
	}
	for _, doc := range docs {
		post := testNormalizer().Normalize(parseRecord(t, doc))
		assert.NotEmpty(t, post.Tags, doc)
	}

	post := testNormalizer().Normalize(parseRecord(t, docs[1]))
	assert.Equal(t, []string{"Ops"}, post.Tags)
}

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

func TestSlugify(t *testing.T) {
	testCases := map[string]string{
		"Hello, World!":                  "hello-world",
		"  Leading and trailing  ":       "leading-and-trailing",
		"Go 1.22 -- What's New?":         "go-1-22-what-s-new",
		"already-a-slug":                 "already-a-slug",
		"UPPER_case__Mixed":              "upper-case-mixed",
		"Café déjà vu":                   "caf-d-j-vu",
		"!!!":                            "",
		"":                               "",
		"Advanced TypeScript Techniques": "advanced-typescript-techniques",
	}

	for input, want := range testCases {
		got := Slugify(input)
		assert.Equal(t, want, got, input)
		assert.Equal(t, got, Slugify(got), "slugify must be idempotent for %q", input)
		if got != "" {
			assert.Regexp(t, slugPattern, got)
		}
	}
}

func TestNormalize_OutputSerializesEveryField(t *testing.T) {
	post := testNormalizer().Normalize(models.RawPostRecord{ID: "abc"})

	data, err := json.Marshal(post)
	require.NoError(t, err)

	var fields map[string]any
	require.NoError(t, json.Unmarshal(data, &fields))
	for _, key := range []string{"id", "slug", "title", "summary", "excerpt", "category", "tags", "coverImageUrl",
		"dateCreated", "readingTimeLabel", "published", "featured", "originalPageUrl", "content"} {
		assert.Contains(t, fields, key)
		assert.NotNil(t, fields[key], key)
	}
}
