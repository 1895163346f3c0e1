// SPDX-License-Identifier: Apache-2.0

package instrumentation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xataio/searchadapter/pkg/otel"
	"github.com/xataio/searchadapter/pkg/search"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Sink decorates a search sink with traces and metrics.
type Sink struct {
	inner   search.Sink
	tracer  trace.Tracer
	meter   metric.Meter
	metrics *sinkMetrics
}

type sinkMetrics struct {
	docsWritten   metric.Int64Counter
	docErrors     metric.Int64Counter
	bulkLatency   metric.Int64Histogram
	searchLatency metric.Int64Histogram
}

// NewSink returns the inner sink unchanged if instrumentation is not enabled.
func NewSink(inner search.Sink, instrumentation *otel.Instrumentation) (search.Sink, error) {
	if !instrumentation.IsEnabled() {
		return inner, nil
	}

	s := &Sink{
		inner:   inner,
		tracer:  instrumentation.Tracer,
		meter:   instrumentation.Meter,
		metrics: &sinkMetrics{},
	}

	if err := s.initMetrics(); err != nil {
		return nil, fmt.Errorf("error initialising search sink metrics: %w", err)
	}

	return s, nil
}

func (s *Sink) CreateIndex(ctx context.Context, index string, settings map[string]any) (err error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "searchsink.CreateIndex", trace.WithAttributes(
		attribute.String("index", index),
	))
	defer func() { otel.CloseSpan(span, err) }()

	return s.inner.CreateIndex(ctx, index, settings)
}

func (s *Sink) PutMapping(ctx context.Context, index string, mapping search.Mapping) (err error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "searchsink.PutMapping", trace.WithAttributes(
		attribute.String("index", index),
		attribute.String("type", mapping.CollectionType),
		attribute.Int("fields", len(mapping.Fields)),
	))
	defer func() { otel.CloseSpan(span, err) }()

	return s.inner.PutMapping(ctx, index, mapping)
}

func (s *Sink) BulkWrite(ctx context.Context, docs []search.Document) (err error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "searchsink.BulkWrite", trace.WithAttributes(
		attribute.Int("docCount", len(docs)),
	))
	defer func() { otel.CloseSpan(span, err) }()

	start := time.Now()
	err = s.inner.BulkWrite(ctx, docs)
	if s.meter != nil {
		s.recordBulkWrite(ctx, len(docs), err, time.Since(start))
	}
	return err
}

func (s *Sink) Refresh(ctx context.Context, index string) (err error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "searchsink.Refresh", trace.WithAttributes(
		attribute.String("index", index),
	))
	defer func() { otel.CloseSpan(span, err) }()

	return s.inner.Refresh(ctx, index)
}

func (s *Sink) Search(ctx context.Context, index, keywords string, opts search.SearchOptions) (res *search.SearchResult, err error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "searchsink.Search", trace.WithAttributes(
		attribute.String("index", index),
		attribute.Int("size", opts.Size),
		attribute.Int("from", opts.From),
	))
	defer func() { otel.CloseSpan(span, err) }()

	start := time.Now()
	res, err = s.inner.Search(ctx, index, keywords, opts)
	if s.meter != nil {
		s.metrics.searchLatency.Record(ctx, time.Since(start).Milliseconds(),
			metric.WithAttributes(attribute.Bool("error", err != nil)))
	}
	return res, err
}

func (s *Sink) DeleteIndex(ctx context.Context, index string) (err error) {
	ctx, span := otel.StartSpan(ctx, s.tracer, "searchsink.DeleteIndex", trace.WithAttributes(
		attribute.String("index", index),
	))
	defer func() { otel.CloseSpan(span, err) }()

	return s.inner.DeleteIndex(ctx, index)
}

func (s *Sink) recordBulkWrite(ctx context.Context, total int, err error, latency time.Duration) {
	failed := 0
	bulkErr := &search.BulkError{}
	switch {
	case err == nil:
	case errors.As(err, &bulkErr):
		failed = bulkErr.Failed
	default:
		failed = total
	}

	s.metrics.bulkLatency.Record(ctx, latency.Milliseconds())
	if written := total - failed; written > 0 {
		s.metrics.docsWritten.Add(ctx, int64(written))
	}
	if failed > 0 {
		s.metrics.docErrors.Add(ctx, int64(failed))
	}
}

func (s *Sink) initMetrics() error {
	if s.meter == nil {
		return nil
	}

	var err error
	s.metrics.docsWritten, err = s.meter.Int64Counter("searchadapter.sink.docs.written",
		metric.WithUnit("documents"),
		metric.WithDescription("Count of documents written to the search engine"))
	if err != nil {
		return err
	}

	s.metrics.docErrors, err = s.meter.Int64Counter("searchadapter.sink.docs.errors",
		metric.WithUnit("documents"),
		metric.WithDescription("Count of documents that failed to be written to the search engine"))
	if err != nil {
		return err
	}

	s.metrics.bulkLatency, err = s.meter.Int64Histogram("searchadapter.sink.bulk.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Distribution of time taken by bulk writes"))
	if err != nil {
		return err
	}

	s.metrics.searchLatency, err = s.meter.Int64Histogram("searchadapter.sink.search.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Distribution of time taken by search queries"))
	if err != nil {
		return err
	}

	return nil
}
