// SPDX-License-Identifier: Apache-2.0

package instrumentation

import (
	"context"
	"fmt"
	"time"

	"github.com/xataio/searchadapter/pkg/kafka"
	"github.com/xataio/searchadapter/pkg/otel"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Reader decorates a kafka message reader with traces and metrics.
type Reader struct {
	inner   kafka.MessageReader
	meter   metric.Meter
	tracer  trace.Tracer
	metrics *readerMetrics
}

type readerMetrics struct {
	msgBytes      metric.Int64Histogram
	fetchLatency  metric.Int64Histogram
	commitLatency metric.Int64Histogram
	commitOffsets metric.Int64Counter
}

func NewReader(inner kafka.MessageReader, instrumentation *otel.Instrumentation) (kafka.MessageReader, error) {
	if !instrumentation.IsEnabled() {
		return inner, nil
	}

	r := &Reader{
		inner:   inner,
		meter:   instrumentation.Meter,
		tracer:  instrumentation.Tracer,
		metrics: &readerMetrics{},
	}

	if err := r.initMetrics(); err != nil {
		return nil, fmt.Errorf("error initialising kafka reader metrics: %w", err)
	}

	return r, nil
}

func (r *Reader) FetchMessage(ctx context.Context) (msg *kafka.Message, err error) {
	ctx, span := otel.StartSpan(ctx, r.tracer, "kafka.FetchMessage")
	defer func() { otel.CloseSpan(span, err) }()

	start := time.Now()
	msg, err = r.inner.FetchMessage(ctx)
	if r.meter != nil {
		r.metrics.fetchLatency.Record(ctx, time.Since(start).Milliseconds())
		if msg != nil {
			r.metrics.msgBytes.Record(ctx, int64(len(msg.Value)))
		}
	}

	return msg, err
}

func (r *Reader) CommitOffsets(ctx context.Context, offsets ...*kafka.Offset) (err error) {
	ctx, span := otel.StartSpan(ctx, r.tracer, "kafka.CommitOffsets", trace.WithAttributes(
		attribute.Int("offsets", len(offsets)),
	))
	defer func() { otel.CloseSpan(span, err) }()

	start := time.Now()
	err = r.inner.CommitOffsets(ctx, offsets...)
	if r.meter != nil {
		r.metrics.commitLatency.Record(ctx, time.Since(start).Milliseconds())
		if err == nil {
			r.metrics.commitOffsets.Add(ctx, int64(len(offsets)))
		}
	}
	return err
}

func (r *Reader) Close() error {
	return r.inner.Close()
}

func (r *Reader) initMetrics() error {
	if r.meter == nil {
		return nil
	}

	var err error
	r.metrics.msgBytes, err = r.meter.Int64Histogram("searchadapter.kafka.reader.msg.bytes",
		metric.WithUnit("bytes"),
		metric.WithDescription("Distribution of message bytes read by the kafka reader"))
	if err != nil {
		return err
	}

	r.metrics.fetchLatency, err = r.meter.Int64Histogram("searchadapter.kafka.reader.fetch.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Distribution of time taken by the reader to fetch messages from kafka"))
	if err != nil {
		return err
	}

	r.metrics.commitLatency, err = r.meter.Int64Histogram("searchadapter.kafka.reader.commit.latency",
		metric.WithUnit("ms"),
		metric.WithDescription("Distribution of time taken by the reader to commit offsets to kafka"))
	if err != nil {
		return err
	}

	r.metrics.commitOffsets, err = r.meter.Int64Counter("searchadapter.kafka.reader.commit.offsets",
		metric.WithUnit("offsets"),
		metric.WithDescription("Count of offsets committed by the kafka reader"))
	if err != nil {
		return err
	}

	return nil
}
