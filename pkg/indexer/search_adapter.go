// SPDX-License-Identifier: Apache-2.0

package indexer

import (
	"fmt"

	loglib "github.com/xataio/searchadapter/pkg/log"
	"github.com/xataio/searchadapter/pkg/otel"
	"github.com/xataio/searchadapter/pkg/schema"
	"github.com/xataio/searchadapter/pkg/search"
	searchinstrumentation "github.com/xataio/searchadapter/pkg/search/instrumentation"
	"github.com/xataio/searchadapter/pkg/search/store"
)

// NewSearchAdapter builds the search adapter for the configured engine, with
// the instrumentation layer on top of the engine store when enabled.
func NewSearchAdapter(cfg *SearchConfig, logger loglib.Logger, instrumentation *otel.Instrumentation) (*search.Adapter, error) {
	return newSearchAdapter(cfg, logger, instrumentation, func() (search.Sink, error) {
		return store.NewStore(cfg.storeConfig(), store.WithLogger(logger))
	})
}

func newSearchAdapter(cfg *SearchConfig, logger loglib.Logger, instrumentation *otel.Instrumentation, newSink func() (search.Sink, error)) (*search.Adapter, error) {
	idGenerator, err := cfg.idGenerator()
	if err != nil {
		return nil, err
	}

	sink, err := newSink()
	if err != nil {
		return nil, fmt.Errorf("building search store: %w", err)
	}

	sink, err = searchinstrumentation.NewSink(sink, instrumentation)
	if err != nil {
		return nil, err
	}

	opts := []search.Option{
		search.WithLogger(logger),
		search.WithIDGenerator(idGenerator),
	}
	if cfg.DateFormat != "" {
		opts = append(opts, search.WithNormalizer(schema.Date, search.NewDateNormalizer(search.WithDateLayout(cfg.DateFormat))))
	}

	return search.NewAdapter(sink, cfg.adapterConfig(), opts...)
}
