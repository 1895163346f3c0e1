// SPDX-License-Identifier: Apache-2.0

package instrumentation

import (
	"context"
	"fmt"
	"strings"
	"time"

	pglib "github.com/xataio/searchadapter/internal/postgres"
	"github.com/xataio/searchadapter/pkg/otel"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Querier decorates a postgres querier with traces and query latency metrics.
type Querier struct {
	inner   pglib.Querier
	tracer  trace.Tracer
	meter   metric.Meter
	metrics *metrics
}

type metrics struct {
	queryLatency metric.Int64Histogram
}

const (
	queryTypeAttributeKey = "query_type"
	queryAttributeKey     = "query"
	unknownQueryType      = "unknown"
)

func NewQuerier(q pglib.Querier, instrumentation *otel.Instrumentation) (pglib.Querier, error) {
	if !instrumentation.IsEnabled() {
		return q, nil
	}

	querier := &Querier{
		inner:   q,
		tracer:  instrumentation.Tracer,
		meter:   instrumentation.Meter,
		metrics: &metrics{},
	}

	if err := querier.initMetrics(); err != nil {
		return nil, fmt.Errorf("initialising postgres querier metrics: %w", err)
	}

	return querier, nil
}

func (i *Querier) Query(ctx context.Context, query string, args ...any) (rows pglib.Rows, err error) {
	attrs := queryAttributes(query)
	ctx, span := otel.StartSpan(ctx, i.tracer, "querier.Query", trace.WithAttributes(attrs...))
	defer func() { otel.CloseSpan(span, err) }()
	defer i.recordLatency(ctx, time.Now(), attrs)

	return i.inner.Query(ctx, query, args...)
}

func (i *Querier) Ping(ctx context.Context) error {
	return i.inner.Ping(ctx)
}

func (i *Querier) Close(ctx context.Context) error {
	return i.inner.Close(ctx)
}

func (i *Querier) recordLatency(ctx context.Context, start time.Time, attrs []attribute.KeyValue) {
	if i.meter == nil {
		return
	}
	i.metrics.queryLatency.Record(ctx, time.Since(start).Milliseconds(), metric.WithAttributes(attrs...))
}

func (i *Querier) initMetrics() error {
	if i.meter == nil {
		return nil
	}

	var err error
	i.metrics.queryLatency, err = i.meter.Int64Histogram("searchadapter.postgres.querier.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Distribution of the time taken to perform a query"))
	return err
}

func queryAttributes(query string) []attribute.KeyValue {
	fields := strings.Fields(query)
	if len(fields) == 0 {
		return []attribute.KeyValue{attribute.String(queryTypeAttributeKey, unknownQueryType)}
	}
	return []attribute.KeyValue{
		attribute.String(queryTypeAttributeKey, strings.ToUpper(fields[0])),
		attribute.String(queryAttributeKey, query),
	}
}
