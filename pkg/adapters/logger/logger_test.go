// Copyright (c) 2025 Jeremy Hahn
// Copyright (c) 2025 Automate The Things, LLC
//
// This file is part of go-jwt.
//
// go-jwt is dual-licensed:
//
// 1. GNU Affero General Public License v3.0 (AGPL-3.0)
//    See LICENSE file or visit https://www.gnu.org/licenses/agpl-3.0.html
//
// 2. Commercial License
//    Contact licensing@automatethethings.com for commercial licensing options.


package logger

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"
)

func TestLevel_String(t *testing.T) {
	tests := []struct {
		level Level
		want  string
	}{
		{LevelDebug, "DEBUG"},
		{LevelInfo, "INFO"},
		{LevelWarn, "WARN"},
		{LevelError, "ERROR"},
		{LevelFatal, "FATAL"},
		{Level(99), "UNKNOWN"},
	}
	for _, tt := range tests {
		if got := tt.level.String(); got != tt.want {
			t.Errorf("Level(%d).String() = %q, want %q", tt.level, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]Level{
		"debug":   LevelDebug,
		"info":    LevelInfo,
		"warn":    LevelWarn,
		"warning": LevelWarn,
		"error":   LevelError,
		"bogus":   LevelInfo,
		"":        LevelInfo,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestNewSlogAdapter_NilConfig(t *testing.T) {
	adapter := NewSlogAdapter(nil)
	if adapter == nil {
		t.Fatal("NewSlogAdapter() returned nil")
	}
	if adapter.logger == nil {
		t.Error("logger should not be nil")
	}
}

func TestNewSlogAdapter_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(&SlogConfig{Format: "json", Output: &buf})

	adapter.Info("token verified", String("alg", "ES256"), Int64("exp", 1477592))

	output := buf.String()
	if !strings.Contains(output, `"msg":"token verified"`) {
		t.Errorf("output should contain message, got: %s", output)
	}
	if !strings.Contains(output, `"alg":"ES256"`) {
		t.Errorf("output should contain JSON field, got: %s", output)
	}
	if !strings.Contains(output, `"exp":1477592`) {
		t.Errorf("output should contain numeric field, got: %s", output)
	}
}

func TestSlogAdapter_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(&SlogConfig{Level: LevelWarn, Output: &buf})

	adapter.Debug("debug message")
	adapter.Info("info message")
	adapter.Warn("warn message")
	adapter.Error("error message")

	output := buf.String()
	if strings.Contains(output, "debug message") || strings.Contains(output, "info message") {
		t.Errorf("messages below warn should be filtered, got: %s", output)
	}
	if !strings.Contains(output, "warn message") || !strings.Contains(output, "error message") {
		t.Errorf("warn and error should be logged, got: %s", output)
	}
}

func TestSlogAdapter_With(t *testing.T) {
	var buf bytes.Buffer
	handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	adapter := NewSlogAdapter(&SlogConfig{Handler: handler})

	child := adapter.With(String("component", "verifier"))
	child.WithError(errors.New("boom")).Warn("rejected", Duration("took", 2*time.Millisecond))

	output := buf.String()
	if strings.Count(output, "component=verifier") != 1 {
		t.Errorf("child field should be logged once, got: %s", output)
	}
	if !strings.Contains(output, "error=boom") {
		t.Errorf("error field missing, got: %s", output)
	}
	if !strings.Contains(output, "took=2ms") {
		t.Errorf("duration field missing, got: %s", output)
	}

	buf.Reset()
	adapter.Info("parent")
	if strings.Contains(buf.String(), "component=verifier") {
		t.Errorf("parent must not inherit child fields, got: %s", buf.String())
	}
}

func TestSlogAdapter_ContextFields(t *testing.T) {
	var buf bytes.Buffer
	adapter := NewSlogAdapter(&SlogConfig{Output: &buf})

	ctx := WithContextFields(context.Background(), String("request_id", "req-1"))
	ctx = WithContextFields(ctx, String("subject", "alice"))

	adapter.WarnContext(ctx, "authentication failed", String("reason", "expired"))
	output := buf.String()
	for _, want := range []string{"request_id=req-1", "subject=alice", "reason=expired"} {
		if !strings.Contains(output, want) {
			t.Errorf("output should contain %q, got: %s", want, output)
		}
	}

	buf.Reset()
	adapter.WarnContext(context.Background(), "plain")
	if strings.Contains(buf.String(), "request_id") {
		t.Errorf("background context should carry no fields, got: %s", buf.String())
	}
}

func TestContextFields_Isolation(t *testing.T) {
	base := WithContextFields(context.Background(), String("a", "1"))
	left := WithContextFields(base, String("b", "2"))
	right := WithContextFields(base, String("c", "3"))

	if got := len(ContextFields(left)); got != 2 {
		t.Errorf("left has %d fields, want 2", got)
	}
	if got := ContextFields(right); len(got) != 2 || got[1].Key != "c" {
		t.Errorf("right fields = %v", got)
	}
	if ContextFields(nil) != nil {
		t.Error("nil context should have no fields")
	}
}

func TestNop(t *testing.T) {
	var l Logger = NewNop()
	l.Debug("x")
	l.Info("x")
	l.Warn("x")
	l.Error("x")
	l.WarnContext(WithContextFields(context.Background(), String("k", "v")), "x")
	if l.With(String("k", "v")) == nil || l.WithError(errors.New("e")) == nil {
		t.Error("Nop children should not be nil")
	}
}
