// SPDX-License-Identifier: Apache-2.0

package indexer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/xataio/searchadapter/internal/backoff"
	"github.com/xataio/searchadapter/internal/progress"
	"github.com/xataio/searchadapter/internal/searchstore"
	synclib "github.com/xataio/searchadapter/internal/sync"
	loglib "github.com/xataio/searchadapter/pkg/log"
	"github.com/xataio/searchadapter/pkg/otel"
	"github.com/xataio/searchadapter/pkg/search"
	"golang.org/x/sync/errgroup"
)

// Indexer runs one indexing run per collection, reading the records from the
// collection source and flushing them to the search index once the source is
// exhausted.
type Indexer struct {
	logger          loglib.Logger
	adapter         *search.Adapter
	buildSource     sourceBuilder
	backoffProvider backoff.Provider
	flushSemaphore  synclib.WeightedSemaphore
	concurrency     int
	clock           clockwork.Clock
	newProgressBar  func(collection string) progress.Bar
	instrumentation *otel.Instrumentation
}

// Result summarises the indexing run of a collection.
type Result struct {
	Collection string
	Documents  int
	Duration   time.Duration
}

type Option func(*Indexer)

func New(adapter *search.Adapter, cfg *Config, opts ...Option) *Indexer {
	i := &Indexer{
		logger:          loglib.NewNoopLogger(),
		adapter:         adapter,
		backoffProvider: backoff.NewProvider(&cfg.Backoff),
		flushSemaphore:  synclib.NewWeightedSemaphore(cfg.maxConcurrentFlushes()),
		concurrency:     cfg.concurrency(),
		clock:           clockwork.NewRealClock(),
	}
	for _, opt := range opts {
		opt(i)
	}
	if i.buildSource == nil {
		i.buildSource = newSourceBuilder(i.logger, i.instrumentation)
	}
	return i
}

func WithLogger(l loglib.Logger) Option {
	return func(i *Indexer) {
		i.logger = loglib.NewLogger(l).WithFields(loglib.Fields{
			loglib.ModuleField: "indexer",
		})
	}
}

// WithInstrumentation instruments the source readers built by the indexer.
func WithInstrumentation(instrumentation *otel.Instrumentation) Option {
	return func(i *Indexer) {
		i.instrumentation = instrumentation
	}
}

// WithProgressBar renders the documents read per collection with the bar
// returned by the function on input.
func WithProgressBar(newBar func(collection string) progress.Bar) Option {
	return func(i *Indexer) {
		i.newProgressBar = newBar
	}
}

// Run indexes the collections on input. Runs are independent, the first
// failure cancels the runs still in progress and is returned. Results are
// sorted by collection name.
func (i *Indexer) Run(ctx context.Context, collections []*Collection) ([]Result, error) {
	results := synclib.NewMapWithLen[string, Result](len(collections))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(i.concurrency)
	for _, c := range collections {
		eg.Go(func() error {
			res, err := i.runCollection(ctx, c)
			if err != nil {
				return fmt.Errorf("indexing collection %s: %w", c.Name, err)
			}
			results.Set(c.Name, *res)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	sorted := make([]Result, 0, len(collections))
	for _, r := range results.GetMap() {
		sorted = append(sorted, r)
	}
	sort.Slice(sorted, func(a, b int) bool {
		return sorted[a].Collection < sorted[b].Collection
	})
	return sorted, nil
}

func (i *Indexer) runCollection(ctx context.Context, collection *Collection) (*Result, error) {
	logger := i.logger.WithFields(loglib.Fields{loglib.CollectionField: collection.Name})
	start := i.clock.Now()

	reader, err := i.buildSource(ctx, collection)
	if err != nil {
		return nil, fmt.Errorf("building source: %w", err)
	}
	defer func() {
		if err := reader.Close(); err != nil {
			logger.Warn(err, "closing source reader")
		}
	}()

	bar := i.progressBar(collection.Name)
	defer bar.Close()

	run, err := i.adapter.StartRun(collection.Collection)
	if err != nil {
		return nil, err
	}

	logger.Info("indexing run started")
	documents := 0
	for {
		record, err := reader.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, fmt.Errorf("reading source: %w", err)
		}
		if err := run.OnDocumentIndexed(*record); err != nil {
			return nil, err
		}
		documents++
		if err := bar.Add(1); err != nil {
			logger.Trace("rendering progress bar", loglib.Fields{"error": err.Error()})
		}
	}

	if err := i.flush(ctx, run, logger); err != nil {
		return nil, err
	}

	// the source is acknowledged only once the documents are in the index
	if err := reader.Commit(ctx); err != nil {
		return nil, err
	}

	duration := i.clock.Since(start)
	logger.Info("indexing run complete", loglib.Fields{
		"documents": documents,
		"duration":  duration,
	})
	return &Result{
		Collection: collection.Name,
		Documents:  documents,
		Duration:   duration,
	}, nil
}

// flush completes the run, retrying the flush on transient engine errors as
// per the backoff policy.
func (i *Indexer) flush(ctx context.Context, run *search.Run, logger loglib.Logger) error {
	if err := i.flushSemaphore.Acquire(ctx, 1); err != nil {
		return err
	}
	defer i.flushSemaphore.Release(1)

	bo := i.backoffProvider(ctx)
	return bo.RetryNotify(
		func() error {
			err := run.OnRunComplete(ctx)
			if err != nil && !searchstore.IsRetryable(err) {
				return fmt.Errorf("%w: %w", backoff.ErrPermanent, err)
			}
			return err
		},
		func(err error, d time.Duration) {
			logger.Warn(err, "flush failed, retrying", loglib.Fields{
				"backoff": d,
				"pending": run.Pending(),
			})
		})
}

func (i *Indexer) progressBar(collection string) progress.Bar {
	if i.newProgressBar == nil {
		return noopBar{}
	}
	return i.newProgressBar(collection)
}

type noopBar struct{}

func (noopBar) Add(int) error { return nil }
func (noopBar) Close() error  { return nil }
