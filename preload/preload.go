// Package preload warms the image pipeline for product images ahead
// of their first render. Concurrent requests for the same URL share
// one underlying load; failures are remembered and not retried until
// explicitly asked. Preloading is best effort and never fails the
// caller's primary flow.
package preload

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/agrokart/storefront/catalog"
	"github.com/agrokart/storefront/core"
)

// Priority selects the catalog preload strategy.
type Priority string

const (
	// PriorityVisible loads the first-screen images immediately and
	// stages the remainder behind a delay so they do not compete with
	// the initial render for bandwidth.
	PriorityVisible Priority = "visible"
	// PriorityAll loads everything with no staging.
	PriorityAll Priority = "all"
)

// Stats are the per-state entry counts, for observability.
type Stats struct {
	Cached  int
	Loading int
	Failed  int
}

// entry tracks one URL through not-attempted -> loading -> (cached |
// failed). The done channel is closed when the load settles; waiters
// share the outcome instead of issuing a second load.
type entry struct {
	done   chan struct{}
	err    error
	cached bool
}

// Cache is the image preload cache.
type Cache struct {
	mu      sync.Mutex
	entries map[string]*entry

	fetcher core.ImageFetcher
	logger  core.Logger

	visibleCount    int
	backgroundDelay time.Duration
}

// Option configures a Cache.
type Option func(*Cache)

// WithStaging overrides how many images count as "visible" and how
// long the background batch waits.
func WithStaging(visibleCount int, backgroundDelay time.Duration) Option {
	return func(c *Cache) {
		c.visibleCount = visibleCount
		c.backgroundDelay = backgroundDelay
	}
}

// New creates a preload cache over the given fetcher.
func New(fetcher core.ImageFetcher, opts ...Option) *Cache {
	c := &Cache{
		entries:         make(map[string]*entry),
		fetcher:         fetcher,
		logger:          &core.NoOpLogger{},
		visibleCount:    10,
		backgroundDelay: time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetLogger configures the logger for this cache
func (c *Cache) SetLogger(logger core.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// PreloadOne loads a single URL. It returns once the load settles:
// nil when the image is (or already was) cached, an error otherwise.
// Concurrent calls for the same URL share one underlying load. A URL
// that failed earlier is not retried until RetryFailed.
func (c *Cache) PreloadOne(ctx context.Context, url string) error {
	c.mu.Lock()
	if e, ok := c.entries[url]; ok {
		c.mu.Unlock()
		return c.await(ctx, e)
	}

	e := &entry{done: make(chan struct{})}
	c.entries[url] = e
	c.mu.Unlock()

	err := c.fetcher.Fetch(ctx, url)

	c.mu.Lock()
	if err != nil {
		e.err = fmt.Errorf("preload %s: %w", url, core.ErrImageLoadFailed)
	} else {
		e.cached = true
	}
	close(e.done)
	c.mu.Unlock()

	if err != nil {
		c.logger.Debug("Image preload failed", map[string]interface{}{
			"url":   url,
			"error": err.Error(),
		})
	}
	return e.err
}

// await blocks on an existing entry until it settles or the caller's
// context ends.
func (c *Cache) await(ctx context.Context, e *entry) error {
	select {
	case <-e.done:
		return e.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// PreloadMany fires PreloadOne for every URL and waits for all of them
// to settle. Individual failures never abort the batch; the return
// value is only how many loads succeeded.
func (c *Cache) PreloadMany(ctx context.Context, urls []string) int {
	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0

	for _, url := range urls {
		if url == "" {
			continue
		}
		wg.Add(1)
		go func(u string) {
			defer wg.Done()
			if err := c.PreloadOne(ctx, u); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}(url)
	}
	wg.Wait()
	return succeeded
}

// PreloadForCatalog preloads the image URLs of the given products.
// With PriorityVisible the first-screen batch loads before this
// returns and the remainder is staged in the background after the
// configured delay; with PriorityAll everything loads before return.
func (c *Cache) PreloadForCatalog(ctx context.Context, products []catalog.Product, priority Priority) {
	urls := make([]string, 0, len(products))
	for _, p := range products {
		if p.ImageURL == "" || strings.Contains(p.ImageURL, "placeholder") {
			continue
		}
		urls = append(urls, p.ImageURL)
	}

	if priority != PriorityVisible || len(urls) <= c.visibleCount {
		c.PreloadMany(ctx, urls)
		return
	}

	visible := urls[:c.visibleCount]
	background := urls[c.visibleCount:]

	c.PreloadMany(ctx, visible)
	c.logger.Debug("Visible images preloaded", map[string]interface{}{
		"visible":    len(visible),
		"background": len(background),
	})

	go func() {
		select {
		case <-time.After(c.backgroundDelay):
		case <-ctx.Done():
			return
		}
		c.PreloadMany(ctx, background)
	}()
}

// IsCached reports whether a URL has completed loading successfully.
func (c *Cache) IsCached(url string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	e, ok := c.entries[url]
	return ok && e.cached
}

// Stats returns the per-state counts.
func (c *Cache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var s Stats
	for _, e := range c.entries {
		select {
		case <-e.done:
			if e.cached {
				s.Cached++
			} else {
				s.Failed++
			}
		default:
			s.Loading++
		}
	}
	return s
}

// RetryFailed forgets the failed URLs so the next preload attempts
// them again. In-flight and cached entries are untouched.
func (c *Cache) RetryFailed() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for url, e := range c.entries {
		select {
		case <-e.done:
			if !e.cached {
				delete(c.entries, url)
			}
		default:
		}
	}
}

// ClearCache forgets cached and failed URLs. Loads still in flight are
// left to finish.
func (c *Cache) ClearCache() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for url, e := range c.entries {
		select {
		case <-e.done:
			delete(c.entries, url)
		default:
		}
	}
}
