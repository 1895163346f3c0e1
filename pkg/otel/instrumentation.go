// SPDX-License-Identifier: Apache-2.0

package otel

import (
	"context"
	"runtime/debug"
	"sync"

	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Instrumentation groups the meter and tracer handed to the instrumented
// decorators. Either of them can be nil.
type Instrumentation struct {
	Meter  metric.Meter
	Tracer trace.Tracer
}

type InstrumentationProvider interface {
	NewInstrumentation(name string) *Instrumentation
	Close() error
}

func (i *Instrumentation) IsEnabled() bool {
	return i != nil && (i.Meter != nil || i.Tracer != nil)
}

// NewInstrumentationProvider returns a noop provider when neither metrics nor
// traces are configured.
func NewInstrumentationProvider(cfg *Config) (InstrumentationProvider, error) {
	if !cfg.enabled() {
		return &noopProvider{}, nil
	}
	return NewProvider(cfg)
}

type noopProvider struct{}

func (p *noopProvider) NewInstrumentation(string) *Instrumentation { return nil }
func (p *noopProvider) Close() error                               { return nil }

// StartSpan starts a span with the tracer on input. With a nil tracer the
// context is returned unchanged and the span is nil.
func StartSpan(ctx context.Context, tracer trace.Tracer, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, nil
	}
	return tracer.Start(ctx, name, opts...)
}

// CloseSpan ends the span, recording the error if any. Nil spans are ignored.
func CloseSpan(span trace.Span, err error) {
	if span == nil {
		return
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// buildRevision is the vcs revision embedded by `go build` in module mode, or
// "unknown" when not available.
var buildRevision = sync.OnceValue(func() string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return "unknown"
	}
	for _, s := range info.Settings {
		if s.Key == "vcs.revision" {
			return s.Value
		}
	}
	return "unknown"
})
