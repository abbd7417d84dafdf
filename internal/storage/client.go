// Package storage talks to the hosted object storage service that keeps
// product images. Only upload and fetch are needed; the service handles
// serving, auth and durability.
package storage

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/guonaihong/gout"
)

// Client is the minimal object storage surface the image tooling needs.
type Client interface {
	// Fetch downloads the object behind an absolute URL.
	Fetch(ctx context.Context, url string) ([]byte, error)
	// Upload stores data under key in the product-images bucket and
	// returns the public URL of the new object.
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Hosts reports whether the given URL already lives in this storage
	// service (migration skips those).
	Hosts(url string) bool
}

type httpClient struct {
	baseURL string
	bucket  string
	apiKey  string
}

// NewClientFromEnv reads STORAGE_URL, STORAGE_BUCKET and STORAGE_API_KEY.
func NewClientFromEnv() Client {
	bucket := os.Getenv("STORAGE_BUCKET")
	if bucket == "" {
		bucket = "product-images"
	}
	return &httpClient{
		baseURL: strings.TrimRight(os.Getenv("STORAGE_URL"), "/"),
		bucket:  bucket,
		apiKey:  os.Getenv("STORAGE_API_KEY"),
	}
}

func (c *httpClient) Fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	var code int
	err := gout.GET(url).
		WithContext(ctx).
		BindBody(&body).
		Code(&code).
		Do()
	if err != nil {
		return nil, err
	}
	if code >= 300 {
		return nil, fmt.Errorf("fetch %s: status %d", url, code)
	}
	return body, nil
}

func (c *httpClient) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	var code int
	err := gout.POST(c.objectURL(key)).
		WithContext(ctx).
		SetHeader(gout.H{
			"authorization": "Bearer " + c.apiKey,
			"content-type":  contentType,
		}).
		SetBody(data).
		Code(&code).
		Do()
	if err != nil {
		return "", err
	}
	if code >= 300 {
		return "", fmt.Errorf("upload %s: status %d", key, code)
	}
	return c.publicURL(key), nil
}

func (c *httpClient) Hosts(url string) bool {
	return c.baseURL != "" && strings.HasPrefix(url, c.baseURL)
}

func (c *httpClient) objectURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/%s/%s", c.baseURL, c.bucket, key)
}

func (c *httpClient) publicURL(key string) string {
	return fmt.Sprintf("%s/storage/v1/object/public/%s/%s", c.baseURL, c.bucket, key)
}
