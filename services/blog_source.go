package services

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rpupo63/portfolio-blog-backend/errs"
)

// maxDocumentSize bounds how much of the exported document is read.
const maxDocumentSize = 32 << 20

// BlogSource returns the raw exported blog document.
type BlogSource interface {
	Name() string
	Fetch(ctx context.Context) ([]byte, error)
}

// HTTPBlogSource fetches the document with a plain GET, bypassing caches.
type HTTPBlogSource struct {
	url    string
	client *http.Client
}

// NewHTTPBlogSource builds a source for url. timeout bounds the whole request;
// zero means no client-side timeout.
func NewHTTPBlogSource(url string, timeout time.Duration) *HTTPBlogSource {
	return &HTTPBlogSource{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (s *HTTPBlogSource) Name() string {
	return "blog data (" + s.url + ")"
}

func (s *HTTPBlogSource) Fetch(ctx context.Context) ([]byte, error) {
	if s.url == "" {
		return nil, errs.NewConfigError("BLOG_DATA_URL", fmt.Errorf("no blog data URL configured"))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, errs.NewConfigError("BLOG_DATA_URL", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache, no-store")
	req.Header.Set("Pragma", "no-cache")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errs.NewServiceUnreachableError(s.Name(), err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
		return nil, errs.NewUpstreamStatusError(s.Name(), resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxDocumentSize))
	if err != nil {
		return nil, errs.NewServiceUnreachableError(s.Name(), err)
	}
	return body, nil
}

// S3GetObjectAPI is the part of the S3 client the blog source needs.
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3BlogSource reads the document straight from the bucket it is exported to.
type S3BlogSource struct {
	client S3GetObjectAPI
	bucket string
	key    string
}

func NewS3BlogSource(client S3GetObjectAPI, bucket, key string) *S3BlogSource {
	return &S3BlogSource{client: client, bucket: bucket, key: key}
}

func (s *S3BlogSource) Name() string {
	return fmt.Sprintf("blog data (s3://%s/%s)", s.bucket, s.key)
}

func (s *S3BlogSource) Fetch(ctx context.Context) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket:               aws.String(s.bucket),
		Key:                  aws.String(s.key),
		ResponseCacheControl: aws.String("no-cache"),
	})
	if err != nil {
		return nil, errs.NewServiceUnreachableError(s.Name(), err)
	}
	defer out.Body.Close()

	body, err := io.ReadAll(io.LimitReader(out.Body, maxDocumentSize))
	if err != nil {
		return nil, errs.NewServiceUnreachableError(s.Name(), err)
	}
	return body, nil
}
