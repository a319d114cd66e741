package logger

import (
	"bytes"
	"encoding/json"
	"log"
	"strings"
	"testing"

	"github.com/agrokart/storefront/core"
)

func capture(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	orig := log.Writer()
	log.SetOutput(&buf)
	log.SetFlags(0)
	defer log.SetOutput(orig)
	fn()
	return buf.String()
}

func TestParseLevel(t *testing.T) {
	cases := map[string]LogLevel{
		"debug":   DebugLevel,
		"INFO":    InfoLevel,
		"warn":    WarnLevel,
		"warning": WarnLevel,
		"error":   ErrorLevel,
		"bogus":   InfoLevel,
		"":        InfoLevel,
	}
	for input, want := range cases {
		if got := ParseLevel(input); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", input, got, want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	l := FromConfig(core.LoggingConfig{Level: "warn", Format: "text"})

	out := capture(t, func() {
		l.Debug("hidden", nil)
		l.Info("hidden", nil)
		l.Warn("shown", nil)
	})

	if strings.Contains(out, "hidden") {
		t.Errorf("expected debug and info suppressed at warn level: %q", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("expected warn message: %q", out)
	}
}

func TestTextFormatSortsFields(t *testing.T) {
	l := NewSimpleLogger()

	out := capture(t, func() {
		l.Info("catalog loaded", map[string]interface{}{
			"products":   12,
			"categories": 6,
		})
	})

	if !strings.Contains(out, "[INFO] catalog loaded") {
		t.Errorf("unexpected prefix: %q", out)
	}
	if strings.Index(out, "categories=6") > strings.Index(out, "products=12") {
		t.Errorf("expected fields in sorted key order: %q", out)
	}
}

func TestJSONFormat(t *testing.T) {
	l := FromConfig(core.LoggingConfig{Level: "info", Format: "json"})

	out := capture(t, func() {
		l.Error("order failed", map[string]interface{}{"order_id": "ord1"})
	})

	var entry map[string]interface{}
	if err := json.Unmarshal([]byte(strings.TrimSpace(out)), &entry); err != nil {
		t.Fatalf("output is not JSON: %v: %q", err, out)
	}
	if entry["level"] != "ERROR" || entry["msg"] != "order failed" || entry["order_id"] != "ord1" {
		t.Errorf("unexpected entry: %v", entry)
	}
}

func TestWithAttachesFields(t *testing.T) {
	base := FromConfig(core.LoggingConfig{Level: "debug", Format: "text"})
	child := base.With(map[string]interface{}{"component": "cart"})

	out := capture(t, func() {
		child.Debug("item added", map[string]interface{}{"quantity": 2})
	})

	if !strings.Contains(out, "component=cart") || !strings.Contains(out, "quantity=2") {
		t.Errorf("expected both inherited and call fields: %q", out)
	}
}
