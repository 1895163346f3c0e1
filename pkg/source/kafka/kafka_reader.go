// SPDX-License-Identifier: Apache-2.0

package kafka

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/xataio/searchadapter/pkg/kafka"
	loglib "github.com/xataio/searchadapter/pkg/log"
	"github.com/xataio/searchadapter/pkg/search"
	"github.com/xataio/searchadapter/pkg/source"
)

// Reader consumes JSON records from a kafka topic. A run ends once no message
// has been received for the idle timeout. Offsets are committed on Commit,
// after the records have been indexed.
type Reader struct {
	logger      loglib.Logger
	reader      kafka.MessageReader
	parser      recordParser
	idleTimeout time.Duration
	pending     []*kafka.Offset
}

type recordParser interface {
	Parse(data []byte) (*search.Record, error)
}

type Option func(*Reader)

func NewReader(reader kafka.MessageReader, parser recordParser, idleTimeout time.Duration, opts ...Option) *Reader {
	r := &Reader{
		logger:      loglib.NewNoopLogger(),
		reader:      reader,
		parser:      parser,
		idleTimeout: idleTimeout,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func WithLogger(l loglib.Logger) Option {
	return func(r *Reader) {
		r.logger = loglib.NewLogger(l).WithFields(loglib.Fields{
			loglib.ModuleField: "kafka_source",
		})
	}
}

// Next returns the record of the next message. Messages without a value are
// skipped. The message key is used as the document id when the record
// doesn't provide one.
func (r *Reader) Next(ctx context.Context) (*search.Record, error) {
	for {
		msg, err := r.fetch(ctx)
		if err != nil {
			return nil, err
		}

		offset := kafka.OffsetOf(msg)
		if len(msg.Value) == 0 {
			r.logger.Trace("skipping kafka message without value", loglib.Fields{"offset": offset.String()})
			r.pending = append(r.pending, offset)
			continue
		}

		record, err := r.parser.Parse(msg.Value)
		if err != nil {
			return nil, fmt.Errorf("kafka message %s: %w", offset, err)
		}
		if record.ID == "" && len(msg.Key) > 0 {
			record.ID = string(msg.Key)
		}
		r.pending = append(r.pending, offset)
		return record, nil
	}
}

func (r *Reader) fetch(ctx context.Context) (*kafka.Message, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, r.idleTimeout)
	defer cancel()

	msg, err := r.reader.FetchMessage(fetchCtx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) && ctx.Err() == nil {
			r.logger.Debug("kafka source idle, ending run", loglib.Fields{"idle_timeout": r.idleTimeout})
			return nil, io.EOF
		}
		return nil, fmt.Errorf("fetching kafka message: %w", err)
	}
	return msg, nil
}

// Commit commits the latest offset per partition of the records returned so
// far.
func (r *Reader) Commit(ctx context.Context) error {
	if len(r.pending) == 0 {
		return nil
	}
	offsets := kafka.LatestPerPartition(r.pending)
	if err := r.reader.CommitOffsets(ctx, offsets...); err != nil {
		return fmt.Errorf("committing kafka offsets: %w", err)
	}
	r.logger.Debug("kafka offsets committed", loglib.Fields{"messages": len(r.pending), "partitions": len(offsets)})
	r.pending = r.pending[:0]
	return nil
}

func (r *Reader) Close() error {
	return r.reader.Close()
}

var _ source.Reader = (*Reader)(nil)
