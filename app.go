// Package storefront wires the Agrokart client-side data layer into
// one application container. The individual pieces live in submodules
// and can be used on their own:
//   - github.com/agrokart/storefront/catalog - product catalog queries
//   - github.com/agrokart/storefront/cart - shopping cart
//   - github.com/agrokart/storefront/preload - image prefetching
//   - github.com/agrokart/storefront/api - backend HTTP client
package storefront

import (
	"context"
	"fmt"

	"github.com/agrokart/storefront/api"
	"github.com/agrokart/storefront/cart"
	"github.com/agrokart/storefront/catalog"
	"github.com/agrokart/storefront/core"
	"github.com/agrokart/storefront/logger"
	"github.com/agrokart/storefront/preload"
	"github.com/agrokart/storefront/telemetry"
)

// App holds the session-scoped stores and the backend client. One App
// is created at startup; Reset tears the session state down on logout
// without rebuilding the container.
type App struct {
	Config  *core.Config
	Logger  core.Logger
	Memory  core.Memory
	API     *api.Client
	Cart    *cart.Store
	Preload *preload.Cache

	catalog   *catalog.Store
	telemetry *telemetry.OTelProvider
}

// New builds the application container from configuration options.
func New(opts ...core.Option) (*App, error) {
	cfg, err := core.NewConfig(opts...)
	if err != nil {
		return nil, fmt.Errorf("storefront: %w", err)
	}
	return NewWithConfig(cfg)
}

// NewWithConfig builds the application container from an existing
// configuration.
func NewWithConfig(cfg *core.Config) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("storefront: %w: config is required", core.ErrMissingConfiguration)
	}

	log := logger.FromConfig(cfg.Logging)

	memory, err := newMemory(cfg, log)
	if err != nil {
		return nil, fmt.Errorf("storefront: memory store: %w", err)
	}

	apiOpts := []api.Option{}
	var provider *telemetry.OTelProvider
	if cfg.Telemetry.Enabled {
		provider, err = telemetry.NewOTelProvider(cfg.Telemetry.ServiceName, cfg.Telemetry.Endpoint)
		if err != nil {
			return nil, fmt.Errorf("storefront: telemetry: %w", err)
		}
		apiOpts = append(apiOpts, api.WithTelemetry(provider))
	}

	client, err := api.NewClient(cfg, apiOpts...)
	if err != nil {
		return nil, fmt.Errorf("storefront: %w", err)
	}
	client.SetLogger(log)

	cartStore := cart.New(cart.WithPersistence(memory, cfg.Cart.PersistKey, cfg.Cart.PersistTTL))
	cartStore.SetLogger(log)

	images := preload.New(preload.NewHTTPFetcher(nil),
		preload.WithStaging(cfg.Preload.VisibleCount, cfg.Preload.BackgroundDelay))
	images.SetLogger(log)

	app := &App{
		Config:    cfg,
		Logger:    log,
		Memory:    memory,
		API:       client,
		Cart:      cartStore,
		Preload:   images,
		telemetry: provider,
	}

	log.Info("Storefront initialized", map[string]interface{}{
		"platform": string(cfg.Platform),
		"base_url": cfg.BaseURL,
	})
	return app, nil
}

func newMemory(cfg *core.Config, log core.Logger) (core.Memory, error) {
	if cfg.Memory.Provider == "redis" {
		return core.NewRedisStore(core.RedisStoreOptions{
			RedisURL: cfg.Memory.RedisURL,
			Logger:   log,
		})
	}
	store := core.NewMemoryStore()
	store.SetLogger(log)
	return store, nil
}

// LoadCatalog fetches the product listing (live or degraded) and
// builds the catalog store from it. Call once at startup; repeat calls
// replace the catalog.
func (a *App) LoadCatalog(ctx context.Context) (*catalog.Store, error) {
	products, err := a.API.ListProducts(ctx, api.ProductQuery{})
	if err != nil {
		return nil, fmt.Errorf("storefront: load catalog: %w", err)
	}
	store, err := catalog.New(products)
	if err != nil {
		return nil, fmt.Errorf("storefront: load catalog: %w", err)
	}
	store.SetLogger(a.Logger)
	a.catalog = store
	return store, nil
}

// Catalog returns the loaded catalog store, or nil before LoadCatalog.
func (a *App) Catalog() *catalog.Store {
	return a.catalog
}

// RestoreSession pulls the persisted cart snapshot back into memory.
func (a *App) RestoreSession(ctx context.Context) error {
	return a.Cart.Restore(ctx)
}

// Login authenticates on the customer portal and installs the session
// token for subsequent authenticated calls.
func (a *App) Login(ctx context.Context, email, password string) (*api.AuthResponse, error) {
	result, err := a.API.Login(ctx, api.Credentials{Email: email, Password: password}, api.RoleCustomer)
	if err != nil {
		return nil, err
	}
	a.API.SetTokenSource(core.StaticTokenSource(result.Token, core.AuthBackendSession))
	return result, nil
}

// Reset tears down session state on logout: the cart empties, the
// preload cache forgets its settled entries, and the credential source
// is dropped. The catalog survives since it is not user-scoped.
func (a *App) Reset(ctx context.Context) {
	a.Cart.Clear()
	a.Preload.ClearCache()
	a.API.SetTokenSource(nil)
	a.Logger.Info("Session reset", nil)
}

// Shutdown flushes telemetry and releases resources.
func (a *App) Shutdown(ctx context.Context) error {
	if a.telemetry != nil {
		return a.telemetry.Shutdown(ctx)
	}
	return nil
}
