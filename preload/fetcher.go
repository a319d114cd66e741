package preload

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/agrokart/storefront/core"
)

// HTTPFetcher loads images over HTTP, discarding the body. Pulling the
// bytes through is what primes the HTTP cache layer underneath.
type HTTPFetcher struct {
	client *http.Client
}

// NewHTTPFetcher creates an HTTP image fetcher. Pass nil to use a
// client with a sensible per-image timeout.
func NewHTTPFetcher(client *http.Client) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &HTTPFetcher{client: client}
}

// Fetch implements core.ImageFetcher.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("build image request: %w", err)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return fmt.Errorf("fetch image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch image %s: status %d: %w", url, resp.StatusCode, core.ErrImageLoadFailed)
	}

	if _, err := io.Copy(io.Discard, resp.Body); err != nil {
		return fmt.Errorf("read image body: %w", err)
	}
	return nil
}
