// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/xataio/searchadapter/pkg/search"
)

type Sink struct {
	CreateIndexFn func(ctx context.Context, index string, settings map[string]any) error
	PutMappingFn  func(ctx context.Context, index string, mapping search.Mapping) error
	BulkWriteFn   func(ctx context.Context, docs []search.Document) error
	RefreshFn     func(ctx context.Context, index string) error
	SearchFn      func(ctx context.Context, index, keywords string, opts search.SearchOptions) (*search.SearchResult, error)
	DeleteIndexFn func(ctx context.Context, index string) error
}

func (m *Sink) CreateIndex(ctx context.Context, index string, settings map[string]any) error {
	return m.CreateIndexFn(ctx, index, settings)
}

func (m *Sink) PutMapping(ctx context.Context, index string, mapping search.Mapping) error {
	return m.PutMappingFn(ctx, index, mapping)
}

func (m *Sink) BulkWrite(ctx context.Context, docs []search.Document) error {
	return m.BulkWriteFn(ctx, docs)
}

func (m *Sink) Refresh(ctx context.Context, index string) error {
	return m.RefreshFn(ctx, index)
}

func (m *Sink) Search(ctx context.Context, index, keywords string, opts search.SearchOptions) (*search.SearchResult, error) {
	return m.SearchFn(ctx, index, keywords, opts)
}

func (m *Sink) DeleteIndex(ctx context.Context, index string) error {
	return m.DeleteIndexFn(ctx, index)
}
