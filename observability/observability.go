// Package observability defines the logging and tracing seams the viewer
// core reports through. Everything defaults to no-ops; embedding
// applications plug in their own implementations.
package observability

import (
	"context"
	"time"
)

// Logger is a leveled, structured logger.
type Logger interface {
	Debug(msg string, fields ...Field)
	Info(msg string, fields ...Field)
	Warn(msg string, fields ...Field)
	Error(msg string, fields ...Field)
	With(fields ...Field) Logger
}

// Field is a single structured log attribute.
type Field interface {
	Key() string
	Value() interface{}
}

type field struct {
	key string
	val interface{}
}

func (f field) Key() string        { return f.key }
func (f field) Value() interface{} { return f.val }

// String returns a string-valued field.
func String(key, value string) Field { return field{key, value} }

// Int returns an int-valued field.
func Int(key string, value int) Field { return field{key, value} }

// Uint64 returns a uint64-valued field.
func Uint64(key string, value uint64) Field { return field{key, value} }

// Float64 returns a float64-valued field.
func Float64(key string, value float64) Field { return field{key, value} }

// Duration returns a duration-valued field.
func Duration(key string, value time.Duration) Field { return field{key, value} }

// Error returns an error-valued field.
func Error(key string, err error) Field { return field{key, err} }

// NopLogger discards everything.
type NopLogger struct{}

func (NopLogger) Debug(string, ...Field) {}
func (NopLogger) Info(string, ...Field)  {}
func (NopLogger) Warn(string, ...Field)  {}
func (NopLogger) Error(string, ...Field) {}
func (NopLogger) With(...Field) Logger   { return NopLogger{} }

// Tracer provides tracing hooks around viewer operations.
type Tracer interface {
	StartSpan(ctx context.Context, name string) (context.Context, Span)
}

// Span is one tracing span.
type Span interface {
	SetTag(key string, value interface{})
	SetError(err error)
	Finish()
}

type nopTracer struct{}

func (nopTracer) StartSpan(ctx context.Context, _ string) (context.Context, Span) {
	return ctx, nopSpan{}
}

// NopTracer returns a tracer that does nothing.
func NopTracer() Tracer { return nopTracer{} }

type nopSpan struct{}

func (nopSpan) SetTag(string, interface{}) {}
func (nopSpan) SetError(error)             {}
func (nopSpan) Finish()                    {}

// Standard metric names emitted by the viewer core.
const (
	MetricRenderTime     = "viewer.render.duration"
	MetricRenderStale    = "viewer.render.stale"
	MetricPagesMounted   = "viewer.pages.mounted"
	MetricVirtualizeTime = "viewer.virtualize.duration"
	MetricSelectionSize  = "viewer.selection.tokens"
	MetricTokenLookup    = "viewer.tokens.lookup.duration"
)
