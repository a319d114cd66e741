package preload

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agrokart/storefront/catalog"
	"github.com/agrokart/storefront/core"
)

// fakeFetcher counts underlying loads per URL and can fail or block on
// demand.
type fakeFetcher struct {
	mu      sync.Mutex
	calls   map[string]int
	failing map[string]bool
	gate    chan struct{}
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		calls:   make(map[string]int),
		failing: make(map[string]bool),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) error {
	f.mu.Lock()
	f.calls[url]++
	fail := f.failing[url]
	gate := f.gate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if fail {
		return errors.New("load failed")
	}
	return nil
}

func (f *fakeFetcher) count(url string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[url]
}

func TestPreloadOneConcurrentCallsShareOneLoad(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.gate = make(chan struct{})
	cache := New(fetcher)

	const callers = 20
	var wg sync.WaitGroup
	errs := make([]error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs[i] = cache.PreloadOne(context.Background(), "https://img/urea.jpg")
		}(i)
	}

	// Let every caller pile up behind the single in-flight load.
	time.Sleep(50 * time.Millisecond)
	close(fetcher.gate)
	wg.Wait()

	assert.Equal(t, 1, fetcher.count("https://img/urea.jpg"))
	for _, err := range errs {
		assert.NoError(t, err)
	}
	assert.True(t, cache.IsCached("https://img/urea.jpg"))
}

func TestPreloadOneCachedHit(t *testing.T) {
	fetcher := newFakeFetcher()
	cache := New(fetcher)

	require.NoError(t, cache.PreloadOne(context.Background(), "https://img/a.jpg"))
	require.NoError(t, cache.PreloadOne(context.Background(), "https://img/a.jpg"))

	assert.Equal(t, 1, fetcher.count("https://img/a.jpg"))
}

func TestPreloadOneFailureRemembered(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.failing["https://img/bad.jpg"] = true
	cache := New(fetcher)

	err := cache.PreloadOne(context.Background(), "https://img/bad.jpg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrImageLoadFailed))

	// Second call does not hit the fetcher again.
	err = cache.PreloadOne(context.Background(), "https://img/bad.jpg")
	require.Error(t, err)
	assert.Equal(t, 1, fetcher.count("https://img/bad.jpg"))
	assert.False(t, cache.IsCached("https://img/bad.jpg"))
}

func TestRetryFailed(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.failing["https://img/flaky.jpg"] = true
	cache := New(fetcher)

	require.Error(t, cache.PreloadOne(context.Background(), "https://img/flaky.jpg"))

	fetcher.mu.Lock()
	fetcher.failing["https://img/flaky.jpg"] = false
	fetcher.mu.Unlock()
	cache.RetryFailed()

	require.NoError(t, cache.PreloadOne(context.Background(), "https://img/flaky.jpg"))
	assert.Equal(t, 2, fetcher.count("https://img/flaky.jpg"))
	assert.True(t, cache.IsCached("https://img/flaky.jpg"))
}

func TestPreloadManySettlesAll(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.failing["https://img/bad.jpg"] = true
	cache := New(fetcher)

	urls := []string{"https://img/a.jpg", "https://img/bad.jpg", "", "https://img/b.jpg"}
	succeeded := cache.PreloadMany(context.Background(), urls)

	assert.Equal(t, 2, succeeded)
	stats := cache.Stats()
	assert.Equal(t, 2, stats.Cached)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 0, stats.Loading)
}

func TestPreloadForCatalogVisibleFirst(t *testing.T) {
	fetcher := newFakeFetcher()
	cache := New(fetcher, WithStaging(2, 30*time.Millisecond))

	products := make([]catalog.Product, 0, 5)
	for i := 1; i <= 5; i++ {
		products = append(products, catalog.Product{
			Name:     fmt.Sprintf("Product %d", i),
			ImageURL: fmt.Sprintf("https://img/p%d.jpg", i),
		})
	}

	cache.PreloadForCatalog(context.Background(), products, PriorityVisible)

	// The visible batch is settled by the time the call returns.
	assert.True(t, cache.IsCached("https://img/p1.jpg"))
	assert.True(t, cache.IsCached("https://img/p2.jpg"))
	assert.False(t, cache.IsCached("https://img/p3.jpg"))

	// The rest arrives after the background delay.
	assert.Eventually(t, func() bool {
		return cache.IsCached("https://img/p3.jpg") &&
			cache.IsCached("https://img/p4.jpg") &&
			cache.IsCached("https://img/p5.jpg")
	}, time.Second, 10*time.Millisecond)
}

func TestPreloadForCatalogAllPriority(t *testing.T) {
	fetcher := newFakeFetcher()
	cache := New(fetcher, WithStaging(2, time.Hour))

	products := []catalog.Product{
		{Name: "A", ImageURL: "https://img/a.jpg"},
		{Name: "B", ImageURL: "https://img/b.jpg"},
		{Name: "C", ImageURL: "https://img/c.jpg"},
	}
	cache.PreloadForCatalog(context.Background(), products, PriorityAll)

	assert.True(t, cache.IsCached("https://img/a.jpg"))
	assert.True(t, cache.IsCached("https://img/b.jpg"))
	assert.True(t, cache.IsCached("https://img/c.jpg"))
}

func TestPreloadForCatalogSkipsPlaceholders(t *testing.T) {
	fetcher := newFakeFetcher()
	cache := New(fetcher)

	products := []catalog.Product{
		{Name: "A", ImageURL: "https://img/a.jpg"},
		{Name: "B", ImageURL: "https://cdn/placeholder.png"},
		{Name: "C"},
	}
	cache.PreloadForCatalog(context.Background(), products, PriorityAll)

	assert.Equal(t, 1, fetcher.count("https://img/a.jpg"))
	assert.Equal(t, 0, fetcher.count("https://cdn/placeholder.png"))
	stats := cache.Stats()
	assert.Equal(t, 1, stats.Cached)
}

func TestClearCache(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.failing["https://img/bad.jpg"] = true
	cache := New(fetcher)

	require.NoError(t, cache.PreloadOne(context.Background(), "https://img/a.jpg"))
	require.Error(t, cache.PreloadOne(context.Background(), "https://img/bad.jpg"))

	cache.ClearCache()

	stats := cache.Stats()
	assert.Equal(t, Stats{}, stats)
	assert.False(t, cache.IsCached("https://img/a.jpg"))

	require.NoError(t, cache.PreloadOne(context.Background(), "https://img/a.jpg"))
	assert.Equal(t, 2, fetcher.count("https://img/a.jpg"))
}

func TestPreloadOneContextCancelledWaiter(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.gate = make(chan struct{})
	cache := New(fetcher)

	go cache.PreloadOne(context.Background(), "https://img/slow.jpg")
	time.Sleep(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := cache.PreloadOne(ctx, "https://img/slow.jpg")
	assert.ErrorIs(t, err, context.Canceled)

	close(fetcher.gate)
}

func TestHTTPFetcher(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		if r.URL.Path == "/missing.jpg" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Write([]byte("imagebytes"))
	}))
	defer srv.Close()

	fetcher := NewHTTPFetcher(srv.Client())

	require.NoError(t, fetcher.Fetch(context.Background(), srv.URL+"/ok.jpg"))

	err := fetcher.Fetch(context.Background(), srv.URL+"/missing.jpg")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrImageLoadFailed))
	assert.Equal(t, int32(2), hits.Load())
}
