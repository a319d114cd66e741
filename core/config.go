package core

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Platform identifies the runtime environment the storefront runs in.
// The native mobile wrapper cannot reach a host-local backend through
// localhost, so it gets a different default base URL.
type Platform string

const (
	PlatformBrowser Platform = "browser"
	PlatformNative  Platform = "native"
)

const (
	// DefaultBrowserBaseURL is used when running against a local backend.
	DefaultBrowserBaseURL = "http://localhost:5000/api"
	// DefaultNativeBaseURL is what the mobile wrapper reaches the
	// development backend on (LAN address of the host machine).
	DefaultNativeBaseURL = "http://192.168.43.196:5000/api"
)

// Config holds all configuration for the storefront data layer.
// It supports three-layer configuration priority:
//  1. Default values (lowest priority)
//  2. Environment variables (medium priority)
//  3. Functional options (highest priority)
//
// Example usage:
//
//	cfg, err := core.NewConfig(
//	    core.WithBaseURL("https://api.agrokart.example/api"),
//	    core.WithHealthCheckTimeout(2*time.Second),
//	)
type Config struct {
	// Platform selects the default base URL when none is configured.
	Platform Platform `yaml:"platform" env:"AGROKART_PLATFORM"`

	// BaseURL is the backend API root. When empty it is derived from
	// Platform.
	BaseURL string `yaml:"base_url" env:"AGROKART_BASE_URL"`

	// HTTP client behavior
	HTTP HTTPConfig `yaml:"http"`

	// Preload configures the image preload cache staging.
	Preload PreloadConfig `yaml:"preload"`

	// Cart configures cart persistence.
	Cart CartConfig `yaml:"cart"`

	// Memory configures the key-value persistence backend.
	Memory MemoryConfig `yaml:"memory"`

	// Telemetry configuration (optional module)
	Telemetry TelemetryConfig `yaml:"telemetry"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging"`
}

// HTTPConfig contains timeouts for the remote API client. The health
// check timeout is deliberately short so a dead backend never blocks
// the UI before the mock fallback kicks in.
type HTTPConfig struct {
	HealthCheckTimeout time.Duration `yaml:"health_check_timeout" env:"AGROKART_HEALTH_TIMEOUT" default:"2s"`
	RequestTimeout     time.Duration `yaml:"request_timeout" env:"AGROKART_REQUEST_TIMEOUT" default:"15s"`

	// OfflineCancelFallback reports order cancellation as successful
	// when the backend is unreachable. The original client always did
	// this silently; here it is an explicit choice, off by default.
	OfflineCancelFallback bool `yaml:"offline_cancel_fallback" env:"AGROKART_OFFLINE_CANCEL_FALLBACK" default:"false"`
}

// PreloadConfig controls visible-first image preloading.
type PreloadConfig struct {
	// VisibleCount is how many catalog images load immediately.
	VisibleCount int `yaml:"visible_count" env:"AGROKART_PRELOAD_VISIBLE" default:"10"`
	// BackgroundDelay staggers the remaining images behind the first
	// screen.
	BackgroundDelay time.Duration `yaml:"background_delay" env:"AGROKART_PRELOAD_DELAY" default:"1s"`
}

// CartConfig controls cart snapshot persistence through the Memory
// store.
type CartConfig struct {
	PersistKey string        `yaml:"persist_key" env:"AGROKART_CART_KEY" default:"agrokart:cart"`
	PersistTTL time.Duration `yaml:"persist_ttl" env:"AGROKART_CART_TTL" default:"168h"`
}

// MemoryConfig contains state storage configuration.
// Supports in-memory storage (default) or Redis for state shared
// across devices.
type MemoryConfig struct {
	Provider string `yaml:"provider" env:"AGROKART_MEMORY_PROVIDER" default:"inmemory"`
	RedisURL string `yaml:"redis_url" env:"AGROKART_REDIS_URL,REDIS_URL"`
}

// TelemetryConfig contains tracing configuration. This is an optional
// module - telemetry is only initialized when Enabled=true.
type TelemetryConfig struct {
	Enabled     bool   `yaml:"enabled" env:"AGROKART_TELEMETRY_ENABLED" default:"false"`
	Endpoint    string `yaml:"endpoint" env:"AGROKART_TELEMETRY_ENDPOINT,OTEL_EXPORTER_OTLP_ENDPOINT"`
	ServiceName string `yaml:"service_name" env:"AGROKART_TELEMETRY_SERVICE_NAME,OTEL_SERVICE_NAME" default:"agrokart-storefront"`
}

// LoggingConfig controls the storefront logger.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"AGROKART_LOG_LEVEL,LOG_LEVEL" default:"info"`
	Format string `yaml:"format" env:"AGROKART_LOG_FORMAT" default:"text"`
}

// Option is a functional option for Config
type Option func(*Config)

// DefaultConfig returns a Config populated with defaults and any
// environment overrides.
func DefaultConfig() *Config {
	cfg := &Config{
		Platform: PlatformBrowser,
		HTTP: HTTPConfig{
			HealthCheckTimeout: 2 * time.Second,
			RequestTimeout:     15 * time.Second,
		},
		Preload: PreloadConfig{
			VisibleCount:    10,
			BackgroundDelay: time.Second,
		},
		Cart: CartConfig{
			PersistKey: "agrokart:cart",
			PersistTTL: 7 * 24 * time.Hour,
		},
		Memory: MemoryConfig{
			Provider: "inmemory",
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "agrokart-storefront",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
	cfg.applyEnvironment()
	return cfg
}

// NewConfig creates a Config from defaults, environment variables and
// functional options, then validates it.
func NewConfig(opts ...Option) (*Config, error) {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.resolveBaseURL()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvironment reads the AGROKART_* environment variables.
func (c *Config) applyEnvironment() {
	if v := os.Getenv("AGROKART_PLATFORM"); v != "" {
		c.Platform = Platform(strings.ToLower(v))
	}
	if v := os.Getenv("AGROKART_BASE_URL"); v != "" {
		c.BaseURL = v
	}
	if d, ok := envDuration("AGROKART_HEALTH_TIMEOUT"); ok {
		c.HTTP.HealthCheckTimeout = d
	}
	if d, ok := envDuration("AGROKART_REQUEST_TIMEOUT"); ok {
		c.HTTP.RequestTimeout = d
	}
	if b, ok := envBool("AGROKART_OFFLINE_CANCEL_FALLBACK"); ok {
		c.HTTP.OfflineCancelFallback = b
	}
	if n, ok := envInt("AGROKART_PRELOAD_VISIBLE"); ok {
		c.Preload.VisibleCount = n
	}
	if d, ok := envDuration("AGROKART_PRELOAD_DELAY"); ok {
		c.Preload.BackgroundDelay = d
	}
	if v := os.Getenv("AGROKART_CART_KEY"); v != "" {
		c.Cart.PersistKey = v
	}
	if d, ok := envDuration("AGROKART_CART_TTL"); ok {
		c.Cart.PersistTTL = d
	}
	if v := os.Getenv("AGROKART_MEMORY_PROVIDER"); v != "" {
		c.Memory.Provider = v
	}
	if v := firstEnv("AGROKART_REDIS_URL", "REDIS_URL"); v != "" {
		c.Memory.RedisURL = v
	}
	if b, ok := envBool("AGROKART_TELEMETRY_ENABLED"); ok {
		c.Telemetry.Enabled = b
	}
	if v := firstEnv("AGROKART_TELEMETRY_ENDPOINT", "OTEL_EXPORTER_OTLP_ENDPOINT"); v != "" {
		c.Telemetry.Endpoint = v
	}
	if v := firstEnv("AGROKART_TELEMETRY_SERVICE_NAME", "OTEL_SERVICE_NAME"); v != "" {
		c.Telemetry.ServiceName = v
	}
	if v := firstEnv("AGROKART_LOG_LEVEL", "LOG_LEVEL"); v != "" {
		c.Logging.Level = strings.ToLower(v)
	}
	if v := os.Getenv("AGROKART_LOG_FORMAT"); v != "" {
		c.Logging.Format = strings.ToLower(v)
	}
}

// resolveBaseURL fills in the platform default when no base URL was
// configured explicitly.
func (c *Config) resolveBaseURL() {
	if c.BaseURL != "" {
		c.BaseURL = strings.TrimRight(c.BaseURL, "/")
		return
	}
	switch c.Platform {
	case PlatformNative:
		c.BaseURL = DefaultNativeBaseURL
	default:
		c.BaseURL = DefaultBrowserBaseURL
	}
}

// Validate checks the configuration for contradictions.
func (c *Config) Validate() error {
	if c.Platform != PlatformBrowser && c.Platform != PlatformNative {
		return fmt.Errorf("unknown platform %q: %w", c.Platform, ErrInvalidConfiguration)
	}
	if c.HTTP.HealthCheckTimeout <= 0 {
		return fmt.Errorf("health check timeout must be positive: %w", ErrInvalidConfiguration)
	}
	if c.HTTP.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive: %w", ErrInvalidConfiguration)
	}
	if c.Preload.VisibleCount < 0 {
		return fmt.Errorf("preload visible count must not be negative: %w", ErrInvalidConfiguration)
	}
	if c.Memory.Provider != "inmemory" && c.Memory.Provider != "redis" {
		return fmt.Errorf("unknown memory provider %q: %w", c.Memory.Provider, ErrInvalidConfiguration)
	}
	if c.Memory.Provider == "redis" && c.Memory.RedisURL == "" {
		return fmt.Errorf("redis memory provider requires a redis URL: %w", ErrMissingConfiguration)
	}
	if c.Telemetry.Enabled && c.Telemetry.ServiceName == "" {
		return fmt.Errorf("telemetry requires a service name: %w", ErrMissingConfiguration)
	}
	return nil
}

// Functional options

// WithPlatform sets the runtime platform
func WithPlatform(p Platform) Option {
	return func(c *Config) { c.Platform = p }
}

// WithBaseURL overrides the backend API root
func WithBaseURL(url string) Option {
	return func(c *Config) { c.BaseURL = url }
}

// WithHealthCheckTimeout sets how long the health probe may take
func WithHealthCheckTimeout(d time.Duration) Option {
	return func(c *Config) { c.HTTP.HealthCheckTimeout = d }
}

// WithRequestTimeout sets the per-request timeout
func WithRequestTimeout(d time.Duration) Option {
	return func(c *Config) { c.HTTP.RequestTimeout = d }
}

// WithOfflineCancelFallback enables reporting order cancellation as
// successful when the backend is unreachable. Use with care: the
// backend never learns about the cancellation.
func WithOfflineCancelFallback(enabled bool) Option {
	return func(c *Config) { c.HTTP.OfflineCancelFallback = enabled }
}

// WithPreloadStaging configures visible-first image preloading
func WithPreloadStaging(visibleCount int, backgroundDelay time.Duration) Option {
	return func(c *Config) {
		c.Preload.VisibleCount = visibleCount
		c.Preload.BackgroundDelay = backgroundDelay
	}
}

// WithRedisMemory selects the Redis persistence backend
func WithRedisMemory(redisURL string) Option {
	return func(c *Config) {
		c.Memory.Provider = "redis"
		c.Memory.RedisURL = redisURL
	}
}

// WithTelemetry enables tracing with the given service name and OTLP
// endpoint. An empty endpoint selects the stdout exporter.
func WithTelemetry(serviceName, endpoint string) Option {
	return func(c *Config) {
		c.Telemetry.Enabled = true
		c.Telemetry.ServiceName = serviceName
		c.Telemetry.Endpoint = endpoint
	}
}

// WithLogLevel sets the minimum log level
func WithLogLevel(level string) Option {
	return func(c *Config) { c.Logging.Level = strings.ToLower(level) }
}

// NewConfigFromFile loads a YAML configuration file on top of the
// defaults and environment, then applies functional options and
// validates. File values sit between environment variables and
// options in priority.
func NewConfigFromFile(path string, opts ...Option) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, ErrInvalidConfiguration)
	}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.resolveBaseURL()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// YAML unmarshaling for duration-bearing sections. yaml.v3 has no
// native time.Duration support, so these decode "2s"-style strings.

func (h *HTTPConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		HealthCheckTimeout    string `yaml:"health_check_timeout"`
		RequestTimeout        string `yaml:"request_timeout"`
		OfflineCancelFallback *bool  `yaml:"offline_cancel_fallback"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if err := setDuration(&h.HealthCheckTimeout, raw.HealthCheckTimeout); err != nil {
		return fmt.Errorf("health_check_timeout: %w", err)
	}
	if err := setDuration(&h.RequestTimeout, raw.RequestTimeout); err != nil {
		return fmt.Errorf("request_timeout: %w", err)
	}
	if raw.OfflineCancelFallback != nil {
		h.OfflineCancelFallback = *raw.OfflineCancelFallback
	}
	return nil
}

func (p *PreloadConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		VisibleCount    *int   `yaml:"visible_count"`
		BackgroundDelay string `yaml:"background_delay"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.VisibleCount != nil {
		p.VisibleCount = *raw.VisibleCount
	}
	if err := setDuration(&p.BackgroundDelay, raw.BackgroundDelay); err != nil {
		return fmt.Errorf("background_delay: %w", err)
	}
	return nil
}

func (c *CartConfig) UnmarshalYAML(value *yaml.Node) error {
	var raw struct {
		PersistKey string `yaml:"persist_key"`
		PersistTTL string `yaml:"persist_ttl"`
	}
	if err := value.Decode(&raw); err != nil {
		return err
	}
	if raw.PersistKey != "" {
		c.PersistKey = raw.PersistKey
	}
	if err := setDuration(&c.PersistTTL, raw.PersistTTL); err != nil {
		return fmt.Errorf("persist_ttl: %w", err)
	}
	return nil
}

func setDuration(dst *time.Duration, raw string) error {
	if raw == "" {
		return nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return err
	}
	*dst = d
	return nil
}

// env helpers

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}

func envDuration(key string) (time.Duration, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, false
	}
	return d, true
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
