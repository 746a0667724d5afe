package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func newJSONLogger(level string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	l := NewWithWriter(&Config{Level: level, Format: FormatJSON}, "livescore", &buf)
	return l, &buf
}

func decodeLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatal("expected a log line")
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(line), &m); err != nil {
		t.Fatalf("invalid JSON log line %q: %v", line, err)
	}
	return m
}

func TestNewDefault(t *testing.T) {
	l := NewDefault("test-svc")
	if l == nil {
		t.Fatal("expected non-nil logger")
	}
	if l.service != "test-svc" {
		t.Errorf("expected service 'test-svc', got %q", l.service)
	}
}

func TestNewInvalidLevelFallsBackToInfo(t *testing.T) {
	l, buf := newJSONLogger("invalid-level")
	l.Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug should be filtered at info level, got %q", buf.String())
	}
	l.Info("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("expected info message, got %q", buf.String())
	}
}

func TestFieldsAreWritten(t *testing.T) {
	l, buf := newJSONLogger("debug")
	l.WithComponent("sse").Info("client connected", Fields("subscriber_id", "abc", "count", 2))

	m := decodeLine(t, buf)
	if m["message"] != "client connected" {
		t.Errorf("unexpected message: %v", m["message"])
	}
	if m[FieldComponent] != "sse" {
		t.Errorf("expected component 'sse', got %v", m[FieldComponent])
	}
	if m["subscriber_id"] != "abc" {
		t.Errorf("expected subscriber_id 'abc', got %v", m["subscriber_id"])
	}
	if m["service"] != "livescore" {
		t.Errorf("expected service 'livescore', got %v", m["service"])
	}
}

func TestWithContextAddsRequestID(t *testing.T) {
	l, buf := newJSONLogger("info")
	ctx := ContextWithRequestID(context.Background(), "req-1")
	l.WithContext(ctx).Info("hello")

	m := decodeLine(t, buf)
	if m[FieldRequestID] != "req-1" {
		t.Errorf("expected request_id 'req-1', got %v", m[FieldRequestID])
	}
}

func TestWithContextWithoutRequestIDReturnsSameLogger(t *testing.T) {
	l := Nop()
	if got := l.WithContext(context.Background()); got != l {
		t.Error("expected the same logger when no request id is present")
	}
}

func TestWithError(t *testing.T) {
	l, buf := newJSONLogger("info")
	l.WithError(errors.New("boom")).Error("failed")

	m := decodeLine(t, buf)
	if m["error"] != "boom" {
		t.Errorf("expected error 'boom', got %v", m["error"])
	}
}

func TestFieldsHelpers(t *testing.T) {
	f := Fields("a", 1, "b")
	if len(f) != 1 || f["a"] != 1 {
		t.Errorf("unexpected fields: %v", f)
	}

	ef := ErrorFields("publish", errors.New("x"))
	if ef[FieldOperation] != "publish" || ef[FieldError] != "x" {
		t.Errorf("unexpected error fields: %v", ef)
	}

	df := DurationFields("tick", 1500*time.Millisecond)
	if df[FieldDuration] != int64(1500) {
		t.Errorf("expected 1500ms, got %v", df[FieldDuration])
	}
}

func TestConfigDefaultsAndValidate(t *testing.T) {
	var cfg Config
	cfg.ApplyDefaults()
	if cfg.Level != "info" || cfg.Format != FormatConsole || cfg.Output != "stdout" {
		t.Errorf("unexpected defaults: %+v", cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}

	cfg.Level = "loud"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid level")
	}

	cfg.Level = "info"
	cfg.Format = "xml"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for invalid format")
	}
}

func TestGlobalLogger(t *testing.T) {
	prev := GetGlobalLogger()
	defer SetGlobalLogger(prev)

	l, buf := newJSONLogger("debug")
	SetGlobalLogger(l)
	Warn("careful", Fields("k", "v"))

	m := decodeLine(t, buf)
	if m["level"] != "warn" {
		t.Errorf("expected warn level, got %v", m["level"])
	}
}
