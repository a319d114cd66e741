package core

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Platform != PlatformBrowser {
		t.Errorf("expected browser platform, got %q", cfg.Platform)
	}
	if cfg.HTTP.HealthCheckTimeout != 2*time.Second {
		t.Errorf("expected 2s health check timeout, got %v", cfg.HTTP.HealthCheckTimeout)
	}
	if cfg.HTTP.OfflineCancelFallback {
		t.Error("offline cancel fallback must be off by default")
	}
	if cfg.Preload.VisibleCount != 10 {
		t.Errorf("expected 10 visible images, got %d", cfg.Preload.VisibleCount)
	}
	if cfg.Preload.BackgroundDelay != time.Second {
		t.Errorf("expected 1s background delay, got %v", cfg.Preload.BackgroundDelay)
	}
	if cfg.Memory.Provider != "inmemory" {
		t.Errorf("expected inmemory provider, got %q", cfg.Memory.Provider)
	}
	if cfg.Telemetry.Enabled {
		t.Error("telemetry must be disabled by default")
	}
}

func TestNewConfigPlatformBaseURLs(t *testing.T) {
	browser, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if browser.BaseURL != DefaultBrowserBaseURL {
		t.Errorf("expected %q, got %q", DefaultBrowserBaseURL, browser.BaseURL)
	}

	native, err := NewConfig(WithPlatform(PlatformNative))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if native.BaseURL != DefaultNativeBaseURL {
		t.Errorf("expected %q, got %q", DefaultNativeBaseURL, native.BaseURL)
	}
}

func TestNewConfigBaseURLOverridesPlatform(t *testing.T) {
	cfg, err := NewConfig(
		WithPlatform(PlatformNative),
		WithBaseURL("https://api.agrokart.example/api/"),
	)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.BaseURL != "https://api.agrokart.example/api" {
		t.Errorf("expected trimmed explicit base URL, got %q", cfg.BaseURL)
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("AGROKART_PLATFORM", "native")
	t.Setenv("AGROKART_HEALTH_TIMEOUT", "3s")
	t.Setenv("AGROKART_OFFLINE_CANCEL_FALLBACK", "true")
	t.Setenv("AGROKART_PRELOAD_VISIBLE", "4")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := NewConfig()
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Platform != PlatformNative {
		t.Errorf("expected native platform, got %q", cfg.Platform)
	}
	if cfg.HTTP.HealthCheckTimeout != 3*time.Second {
		t.Errorf("expected 3s, got %v", cfg.HTTP.HealthCheckTimeout)
	}
	if !cfg.HTTP.OfflineCancelFallback {
		t.Error("expected offline cancel fallback enabled")
	}
	if cfg.Preload.VisibleCount != 4 {
		t.Errorf("expected 4, got %d", cfg.Preload.VisibleCount)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug, got %q", cfg.Logging.Level)
	}
}

func TestOptionsBeatEnvironment(t *testing.T) {
	t.Setenv("AGROKART_HEALTH_TIMEOUT", "9s")

	cfg, err := NewConfig(WithHealthCheckTimeout(1 * time.Second))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.HTTP.HealthCheckTimeout != time.Second {
		t.Errorf("options must override env, got %v", cfg.HTTP.HealthCheckTimeout)
	}
}

func TestValidateRejectsContradictions(t *testing.T) {
	cases := []struct {
		name string
		opts []Option
	}{
		{"unknown platform", []Option{WithPlatform("desktop")}},
		{"zero health timeout", []Option{WithHealthCheckTimeout(0)}},
		{"zero request timeout", []Option{WithRequestTimeout(0)}},
		{"negative visible count", []Option{WithPreloadStaging(-1, time.Second)}},
		{"redis without url", []Option{WithRedisMemory("")}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewConfig(tc.opts...)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !IsConfigurationError(err) {
				t.Errorf("expected configuration error, got %v", err)
			}
		})
	}
}

func TestWithRedisMemory(t *testing.T) {
	cfg, err := NewConfig(WithRedisMemory("redis://localhost:6379"))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if cfg.Memory.Provider != "redis" {
		t.Errorf("expected redis provider, got %q", cfg.Memory.Provider)
	}
	if cfg.Memory.RedisURL != "redis://localhost:6379" {
		t.Errorf("unexpected redis URL %q", cfg.Memory.RedisURL)
	}
}

func TestWithTelemetry(t *testing.T) {
	cfg, err := NewConfig(WithTelemetry("storefront-test", "collector:4317"))
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	if !cfg.Telemetry.Enabled {
		t.Error("expected telemetry enabled")
	}
	if cfg.Telemetry.ServiceName != "storefront-test" {
		t.Errorf("unexpected service name %q", cfg.Telemetry.ServiceName)
	}
}

func TestNewConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "storefront.yaml")
	content := `
platform: native
http:
  health_check_timeout: 1s
  offline_cancel_fallback: true
preload:
  visible_count: 6
logging:
  level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := NewConfigFromFile(path, WithRequestTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("NewConfigFromFile: %v", err)
	}
	if cfg.Platform != PlatformNative {
		t.Errorf("expected native, got %q", cfg.Platform)
	}
	if cfg.BaseURL != DefaultNativeBaseURL {
		t.Errorf("expected native default base URL, got %q", cfg.BaseURL)
	}
	if cfg.HTTP.HealthCheckTimeout != time.Second {
		t.Errorf("expected 1s, got %v", cfg.HTTP.HealthCheckTimeout)
	}
	if !cfg.HTTP.OfflineCancelFallback {
		t.Error("expected offline cancel fallback enabled")
	}
	if cfg.Preload.VisibleCount != 6 {
		t.Errorf("expected 6, got %d", cfg.Preload.VisibleCount)
	}
	if cfg.HTTP.RequestTimeout != 5*time.Second {
		t.Errorf("expected option to win, got %v", cfg.HTTP.RequestTimeout)
	}
}

func TestNewConfigFromFileMissing(t *testing.T) {
	_, err := NewConfigFromFile(filepath.Join(t.TempDir(), "absent.yaml"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
