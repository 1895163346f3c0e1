// SPDX-License-Identifier: Apache-2.0

package kafka

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"
	loglib "github.com/xataio/searchadapter/pkg/log"
	tlslib "github.com/xataio/searchadapter/pkg/tls"
)

// MessageReader consumes messages from a topic as part of a consumer group.
// Offsets are committed explicitly.
type MessageReader interface {
	FetchMessage(ctx context.Context) (*Message, error)
	CommitOffsets(ctx context.Context, offsets ...*Offset) error
	Close() error
}

// Message is a wrapper around the kafka-go message
type Message kafka.Message

type Reader struct {
	reader *kafka.Reader
}

func NewReader(cfg ReaderConfig, logger loglib.Logger) (*Reader, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	logger = loglib.NewLogger(logger).WithFields(loglib.Fields{
		loglib.ModuleField: "kafka_reader",
		"kafka_servers":    cfg.Servers,
		"kafka_topic":      cfg.Topic,
	})
	logger.Info("creating kafka reader", loglib.Fields{"tls_enabled": cfg.TLS.Enabled})

	var startOffset int64
	switch cfg.StartOffset {
	case "", earliestOffset:
		startOffset = kafka.FirstOffset
	case latestOffset:
		startOffset = kafka.LastOffset
	default:
		return nil, fmt.Errorf("unsupported start offset [%s], must be one of [%s, %s]", cfg.StartOffset, earliestOffset, latestOffset)
	}

	dialer, err := newDialer(&cfg)
	if err != nil {
		return nil, err
	}

	return &Reader{
		reader: kafka.NewReader(kafka.ReaderConfig{
			Brokers:     cfg.Servers,
			Topic:       cfg.Topic,
			GroupID:     cfg.ConsumerGroupID,
			MaxBytes:    cfg.maxBytes(),
			Dialer:      dialer,
			StartOffset: startOffset,
			// commits are explicit, once the documents are in the index
			CommitInterval: 0,
			Logger:         newClientLogger(logger),
			ErrorLogger:    newClientErrorLogger(logger),
		}),
	}, nil
}

// FetchMessage blocks until a message is available, the context is done or an
// error occurs.
func (r *Reader) FetchMessage(ctx context.Context) (*Message, error) {
	kafkaMsg, err := r.reader.FetchMessage(ctx)
	if err != nil {
		return nil, err
	}
	msg := Message(kafkaMsg)
	return &msg, nil
}

func (r *Reader) CommitOffsets(ctx context.Context, offsets ...*Offset) error {
	if len(offsets) == 0 {
		return nil
	}

	msgs := make([]kafka.Message, 0, len(offsets))
	for _, o := range offsets {
		msgs = append(msgs, kafka.Message{
			Topic:     o.Topic,
			Partition: o.Partition,
			Offset:    o.Offset,
		})
	}
	return r.reader.CommitMessages(ctx, msgs...)
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

func newDialer(cfg *ReaderConfig) (*kafka.Dialer, error) {
	tlsConfig, err := tlslib.NewConfig(&cfg.TLS)
	if err != nil {
		return nil, fmt.Errorf("loading kafka TLS configuration: %w", err)
	}

	return &kafka.Dialer{
		Timeout:   cfg.dialTimeout(),
		DualStack: true,
		TLS:       tlsConfig,
	}, nil
}
