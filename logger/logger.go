// Package logger provides the structured logger used throughout the
// storefront data layer. It implements the core.Logger interface with
// level filtering and text or JSON output.
package logger

import (
	"encoding/json"
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/agrokart/storefront/core"
)

// LogLevel represents logging severity
type LogLevel int

const (
	DebugLevel LogLevel = iota
	InfoLevel
	WarnLevel
	ErrorLevel
)

// ParseLevel converts a level name to a LogLevel. Unknown names map
// to InfoLevel.
func ParseLevel(level string) LogLevel {
	switch strings.ToLower(level) {
	case "debug":
		return DebugLevel
	case "info":
		return InfoLevel
	case "warn", "warning":
		return WarnLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// SimpleLogger provides a basic structured logger implementation
type SimpleLogger struct {
	level  LogLevel
	format string // "text" or "json"
	fields map[string]interface{}
}

// NewSimpleLogger creates a text logger at info level
func NewSimpleLogger() *SimpleLogger {
	return &SimpleLogger{
		level:  InfoLevel,
		format: "text",
		fields: make(map[string]interface{}),
	}
}

// FromConfig creates a logger matching the storefront logging
// configuration.
func FromConfig(cfg core.LoggingConfig) *SimpleLogger {
	return &SimpleLogger{
		level:  ParseLevel(cfg.Level),
		format: cfg.Format,
		fields: make(map[string]interface{}),
	}
}

// Debug logs a debug message
func (l *SimpleLogger) Debug(msg string, fields map[string]interface{}) {
	if l.level <= DebugLevel {
		l.log("DEBUG", msg, fields)
	}
}

// Info logs an info message
func (l *SimpleLogger) Info(msg string, fields map[string]interface{}) {
	if l.level <= InfoLevel {
		l.log("INFO", msg, fields)
	}
}

// Warn logs a warning message
func (l *SimpleLogger) Warn(msg string, fields map[string]interface{}) {
	if l.level <= WarnLevel {
		l.log("WARN", msg, fields)
	}
}

// Error logs an error message
func (l *SimpleLogger) Error(msg string, fields map[string]interface{}) {
	if l.level <= ErrorLevel {
		l.log("ERROR", msg, fields)
	}
}

// With returns a child logger that includes the given fields on every
// log line.
func (l *SimpleLogger) With(fields map[string]interface{}) *SimpleLogger {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &SimpleLogger{
		level:  l.level,
		format: l.format,
		fields: merged,
	}
}

func (l *SimpleLogger) log(level, msg string, fields map[string]interface{}) {
	merged := make(map[string]interface{}, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}

	if l.format == "json" {
		entry := map[string]interface{}{
			"level": level,
			"msg":   msg,
			"time":  time.Now().Format(time.RFC3339),
		}
		for k, v := range merged {
			entry[k] = v
		}
		data, err := json.Marshal(entry)
		if err != nil {
			log.Printf("[%s] %s (unmarshalable fields)", level, msg)
			return
		}
		log.Println(string(data))
		return
	}

	parts := []string{fmt.Sprintf("[%s]", level), msg}
	keys := make([]string, 0, len(merged))
	for k := range merged {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s=%v", k, merged[k]))
	}
	log.Println(strings.Join(parts, " "))
}
