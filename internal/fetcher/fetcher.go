package fetcher

import (
	"context"
)

// Response is the result of fetching a page.
type Response struct {
	StatusCode int
	Body       []byte
	FinalURL   string
}

// Fetcher is the interface for page retrieval implementations.
type Fetcher interface {
	// Fetch retrieves the content at the given URL. The context bounds the
	// request; expiry is reported as an error.
	Fetch(ctx context.Context, url string) (*Response, error)

	// Close releases any resources held by the fetcher.
	Close() error
}
