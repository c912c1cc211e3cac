package config

import (
	"time"
)

const (
	DefaultCacheTTL     = 60 * time.Second
	DefaultFetchTimeout = 15 * time.Second
	DefaultPageSize     = 6
	DefaultS3Key        = "blog-data.json"
)

// BlogConfig is everything the blog service needs from the environment.
type BlogConfig struct {
	// DataURL is the exported JSON document served over HTTP.
	DataURL string
	// DataURLParameter names an SSM parameter holding DataURL.
	DataURLParameter string
	// S3Bucket, when set, makes the service read the document from object storage instead.
	S3Bucket string
	S3Key    string

	CacheTTL     time.Duration
	FetchTimeout time.Duration
	PageSize     int
}

// LoadBlogConfig reads the BLOG_* variables from an environment map built by New.
func LoadBlogConfig(c map[string]string) BlogConfig {
	pageSize := GetInt(c, "BLOG_PAGE_SIZE", DefaultPageSize)
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}

	return BlogConfig{
		DataURL:          GetString(c, "BLOG_DATA_URL", ""),
		DataURLParameter: GetString(c, "BLOG_DATA_URL_SSM_PARAM", ""),
		S3Bucket:         GetString(c, "BLOG_DATA_S3_BUCKET", ""),
		S3Key:            GetString(c, "BLOG_DATA_S3_KEY", DefaultS3Key),
		CacheTTL:         GetSeconds(c, "BLOG_CACHE_TTL_SECONDS", DefaultCacheTTL),
		FetchTimeout:     GetSeconds(c, "BLOG_FETCH_TIMEOUT_SECONDS", DefaultFetchTimeout),
		PageSize:         pageSize,
	}
}

// UsesS3 reports whether the document should be read from a bucket.
func (b BlogConfig) UsesS3() bool {
	return b.S3Bucket != ""
}
