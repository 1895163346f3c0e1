// SPDX-License-Identifier: Apache-2.0

package integration

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xataio/searchadapter/internal/backoff"
	"github.com/xataio/searchadapter/internal/testcontainers"
	"github.com/xataio/searchadapter/pkg/indexer"
	loglib "github.com/xataio/searchadapter/pkg/log"
	"github.com/xataio/searchadapter/pkg/schema"
	"github.com/xataio/searchadapter/pkg/search"
	"github.com/xataio/searchadapter/pkg/search/store"
	"github.com/xataio/searchadapter/pkg/source"
)

func integrationTestsEnabled() bool {
	return os.Getenv("SEARCHADAPTER_INTEGRATION_TESTS") != ""
}

func skipUnlessIntegration(t *testing.T) {
	t.Helper()
	if !integrationTestsEnabled() {
		t.Skip("skipping integration test...")
	}
}

func testIndexerConfig(engine store.Engine, node testcontainers.SearchNode, index string) *indexer.Config {
	return &indexer.Config{
		Search: indexer.SearchConfig{
			Engine: engine,
			Endpoints: []search.Endpoint{
				{Host: node.Host, Port: node.Port, Index: index},
			},
			MappingFormat: store.MappingFormatModern,
			IndexSettings: map[string]any{
				"number_of_shards":   1,
				"number_of_replicas": 0,
			},
			DocumentIDs: indexer.DocumentIDsXID,
		},
		Backoff: backoff.Config{
			Constant: &backoff.ConstantConfig{
				Interval:   500 * time.Millisecond,
				MaxRetries: 3,
			},
		},
		Concurrency: 2,
	}
}

func booksCollection(src *source.Config) *indexer.Collection {
	return &indexer.Collection{
		Collection: &schema.Collection{
			Name: "books",
			Type: "book",
			Schema: schema.Schema{
				Fields: []schema.Field{
					{ID: "title", Name: "title", Type: schema.String, Indexed: true, Analyzed: true, Stored: true},
					{ID: "author", Name: "author", Type: schema.String, Indexed: true, Analyzed: true, Stored: true},
					{ID: "pages", Name: "pages", Type: schema.Integer, Indexed: true, Stored: true},
				},
			},
		},
		Source: src,
	}
}

// runIndexer creates the index, runs the indexer for the collections on
// input and returns the adapter used.
func runIndexer(t *testing.T, cfg *indexer.Config, collections ...*indexer.Collection) (*search.Adapter, []indexer.Result) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	logger := loglib.NewNoopLogger()
	adapter, err := indexer.NewSearchAdapter(&cfg.Search, logger, nil)
	require.NoError(t, err)

	require.NoError(t, adapter.CreateIndex(ctx, indexer.SchemaCollections(collections), nil))
	t.Cleanup(func() {
		if err := adapter.Delete(context.Background()); err != nil {
			t.Logf("deleting index: %v", err)
		}
	})

	results, err := indexer.New(adapter, cfg, indexer.WithLogger(logger)).Run(ctx, collections)
	require.NoError(t, err)
	return adapter, results
}

func searchHits(t *testing.T, adapter *search.Adapter, keywords string) *search.SearchResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	res, err := adapter.Search(ctx, keywords, search.SearchOptions{Size: 10})
	require.NoError(t, err)
	return res
}
