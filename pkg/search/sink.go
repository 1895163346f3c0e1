// SPDX-License-Identifier: Apache-2.0

package search

import (
	"context"
)

// Sink is the set of search engine operations the adapter relies on.
type Sink interface {
	// CreateIndex creates the index with the settings on input, replacing it
	// if it already exists.
	CreateIndex(ctx context.Context, index string, settings map[string]any) error
	// PutMapping registers the field mappings of a collection type on the
	// index.
	PutMapping(ctx context.Context, index string, mapping Mapping) error
	BulkWrite(ctx context.Context, docs []Document) error
	Refresh(ctx context.Context, index string) error
	Search(ctx context.Context, index string, keywords string, opts SearchOptions) (*SearchResult, error)
	DeleteIndex(ctx context.Context, index string) error
}

// SearchOptions are passed through to the search engine. Zero values leave
// the engine defaults in place.
type SearchOptions struct {
	Size int
	From int
}

type SearchResult struct {
	Total int
	Hits  []Hit
}

type Hit struct {
	Index  string
	Type   string
	ID     string
	Score  float64
	Source map[string]any
}
