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


// Package logger is the structured logging facade used by go-jwt. The
// library never logs on its own; components that accept a Logger default
// to Nop.
package logger

import (
	"context"
	"time"
)

// Level is a logging severity.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
	// LevelFatal logs at error level and exits the program
	LevelFatal
)

// String returns the lower-case level name.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	case LevelFatal:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// ParseLevel maps "debug", "info", "warn" and "error" to a Level. Unknown
// names map to LevelInfo.
func ParseLevel(s string) Level {
	switch s {
	case "debug", "DEBUG":
		return LevelDebug
	case "warn", "WARN", "warning":
		return LevelWarn
	case "error", "ERROR":
		return LevelError
	default:
		return LevelInfo
	}
}

// Logger is implemented by SlogAdapter and Nop.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)

	// Fatal logs a fatal error message and exits the program
	Fatal(msg string, fields ...Field)

	// With creates a child logger with the given fields
	With(fields ...Field) Logger

	// WithError creates a child logger with an error field
	WithError(err error) Logger

	// WarnContext logs at warn level with the fields attached to ctx by
	// WithContextFields
	WarnContext(ctx context.Context, msg string, fields ...Field)
}

// Field is a structured key-value pair.
type Field struct {
	Key   string
	Value interface{}
}

// String returns a string field.
func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

// Strings returns a string slice field.
func Strings(key string, values []string) Field {
	return Field{Key: key, Value: values}
}

// Int returns an int field.
func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Int64 returns an int64 field.
func Int64(key string, value int64) Field {
	return Field{Key: key, Value: value}
}

// Bool returns a bool field.
func Bool(key string, value bool) Field {
	return Field{Key: key, Value: value}
}

// Duration returns a duration field.
func Duration(key string, value time.Duration) Field {
	return Field{Key: key, Value: value}
}

// Time returns a time field.
func Time(key string, value time.Time) Field {
	return Field{Key: key, Value: value}
}

// Error returns an "error" field holding err.
func Error(err error) Field {
	return Field{Key: "error", Value: err}
}

// Any returns a field holding an arbitrary value.
func Any(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}

// Nop discards everything.
type Nop struct{}

// NewNop returns a Logger that discards everything.
func NewNop() Logger { return Nop{} }

func (Nop) Debug(string, ...Field)   {}
func (Nop) Info(string, ...Field)    {}
func (Nop) Warn(string, ...Field)    {}
func (Nop) Error(string, ...Field)   {}
func (Nop) Fatal(string, ...Field)   {}
func (n Nop) With(...Field) Logger   { return n }
func (n Nop) WithError(error) Logger { return n }

func (Nop) WarnContext(context.Context, string, ...Field) {}
