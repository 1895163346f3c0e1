// SPDX-License-Identifier: Apache-2.0

package indexer

import (
	"context"
	"fmt"

	pglib "github.com/xataio/searchadapter/internal/postgres"
	pginstrumentation "github.com/xataio/searchadapter/internal/postgres/instrumentation"
	"github.com/xataio/searchadapter/pkg/kafka"
	kafkainstrumentation "github.com/xataio/searchadapter/pkg/kafka/instrumentation"
	loglib "github.com/xataio/searchadapter/pkg/log"
	"github.com/xataio/searchadapter/pkg/otel"
	"github.com/xataio/searchadapter/pkg/source"
	"github.com/xataio/searchadapter/pkg/source/jsonl"
	kafkasource "github.com/xataio/searchadapter/pkg/source/kafka"
	pgsource "github.com/xataio/searchadapter/pkg/source/postgres"
)

type sourceBuilder func(ctx context.Context, collection *Collection) (source.Reader, error)

func newSourceBuilder(logger loglib.Logger, instrumentation *otel.Instrumentation) sourceBuilder {
	return func(ctx context.Context, collection *Collection) (source.Reader, error) {
		return buildSourceReader(ctx, collection, logger, instrumentation)
	}
}

func buildSourceReader(ctx context.Context, collection *Collection, logger loglib.Logger, instrumentation *otel.Instrumentation) (source.Reader, error) {
	cfg := collection.Source
	if cfg == nil {
		return nil, source.ErrNoSource
	}
	logger = logger.WithFields(loglib.Fields{loglib.CollectionField: collection.Name})
	parserOpts := cfg.ParserOptions()

	switch {
	case cfg.File != nil:
		parser := source.NewRecordParser(&collection.Schema, parserOpts)
		return jsonl.NewReader(cfg.File.Path, parser, jsonl.WithLogger(logger))

	case cfg.Kafka != nil:
		reader, err := kafka.NewReader(kafka.ReaderConfig{
			Servers:         cfg.Kafka.Servers,
			Topic:           cfg.Kafka.Topic,
			ConsumerGroupID: cfg.Kafka.ConsumerGroupID,
			StartOffset:     cfg.Kafka.StartOffset,
			TLS:             cfg.Kafka.TLS.ToTLSConfig(),
		}, logger)
		if err != nil {
			return nil, fmt.Errorf("building kafka reader: %w", err)
		}
		messageReader, err := kafkainstrumentation.NewReader(reader, instrumentation)
		if err != nil {
			reader.Close()
			return nil, err
		}
		parser := source.NewRecordParser(&collection.Schema, parserOpts)
		return kafkasource.NewReader(messageReader, parser, cfg.Kafka.GetIdleTimeout(), kafkasource.WithLogger(logger)), nil

	case cfg.Postgres != nil:
		pool, err := pglib.NewConnPool(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, err
		}
		// the pool connects lazily, fail before the run starts instead
		if err := pool.Ping(ctx); err != nil {
			pool.Close(ctx)
			return nil, fmt.Errorf("connecting to postgres source: %w", err)
		}
		querier, err := pginstrumentation.NewQuerier(pool, instrumentation)
		if err != nil {
			pool.Close(ctx)
			return nil, err
		}
		reader, err := pgsource.NewReader(querier, cfg.Postgres, &collection.Schema, parserOpts, pgsource.WithLogger(logger))
		if err != nil {
			querier.Close(ctx)
			return nil, err
		}
		return reader, nil

	default:
		return nil, source.ErrNoSource
	}
}
