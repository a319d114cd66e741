package core

import (
	"context"
	"time"
)

// Logger interface - minimal logging interface
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Debug(msg string, fields map[string]interface{})
}

// Telemetry interface - optional telemetry support
type Telemetry interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

// Span represents a telemetry span
type Span interface {
	End()
	SetAttribute(key string, value interface{})
	RecordError(err error)
}

// Memory interface for small key-value state that outlives a session.
// This is the Go counterpart of the browser localStorage contract:
// "persist small key-value state across sessions".
type Memory interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// ImageFetcher loads a resource by URL and reports success or failure.
// It is the only contract the preload cache needs from the image
// pipeline; production code plugs in an HTTP fetcher, tests plug in a
// counting fake.
type ImageFetcher interface {
	Fetch(ctx context.Context, url string) error
}

// AuthScheme selects the header convention used to attach a credential.
type AuthScheme string

const (
	// AuthBackendSession sends the credential in the x-auth-token header.
	AuthBackendSession AuthScheme = "x-auth-token"
	// AuthFirebaseToken sends the credential in the firebase-auth-token header.
	AuthFirebaseToken AuthScheme = "firebase-auth-token"
)

// Credential is an opaque auth token plus the header scheme that
// produced it. The client never inspects the token value.
type Credential struct {
	Value  string
	Scheme AuthScheme
}

// TokenSource supplies the credential attached to authenticated
// requests. Implementations wrap a backend session token or an
// external identity provider (Firebase ID tokens).
type TokenSource interface {
	Token(ctx context.Context) (Credential, error)
}

// StaticTokenSource returns a TokenSource that always yields the same
// credential. Useful for tests and for session flows where the token
// is already in hand.
func StaticTokenSource(value string, scheme AuthScheme) TokenSource {
	return staticTokenSource{cred: Credential{Value: value, Scheme: scheme}}
}

type staticTokenSource struct {
	cred Credential
}

func (s staticTokenSource) Token(ctx context.Context) (Credential, error) {
	if s.cred.Value == "" {
		return Credential{}, ErrMissingCredentials
	}
	return s.cred, nil
}

// Default no-op implementations

// NoOpLogger provides a no-op logger implementation
type NoOpLogger struct{}

func (n *NoOpLogger) Info(msg string, fields map[string]interface{})  {}
func (n *NoOpLogger) Error(msg string, fields map[string]interface{}) {}
func (n *NoOpLogger) Warn(msg string, fields map[string]interface{})  {}
func (n *NoOpLogger) Debug(msg string, fields map[string]interface{}) {}

// NoOpTelemetry provides a no-op telemetry implementation
type NoOpTelemetry struct{}

func (n *NoOpTelemetry) StartSpan(ctx context.Context, name string) (context.Context, Span) {
	return ctx, &NoOpSpan{}
}

// NoOpSpan provides a no-op span implementation
type NoOpSpan struct{}

func (n *NoOpSpan) End()                                       {}
func (n *NoOpSpan) SetAttribute(key string, value interface{}) {}
func (n *NoOpSpan) RecordError(err error)                      {}
