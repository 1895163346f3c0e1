// SPDX-License-Identifier: Apache-2.0

package search

import (
	"context"
	"errors"
	"fmt"

	"github.com/xataio/searchadapter/pkg/schema"
)

type mockSink struct {
	createIndexFn func(ctx context.Context, index string, settings map[string]any) error
	putMappingFn  func(ctx context.Context, i uint, index string, mapping Mapping) error
	bulkWriteFn   func(ctx context.Context, i uint, docs []Document) error
	refreshFn     func(ctx context.Context, i uint, index string) error
	searchFn      func(ctx context.Context, index, keywords string, opts SearchOptions) (*SearchResult, error)
	deleteIndexFn func(ctx context.Context, index string) error

	putMappingCalls uint
	bulkWriteCalls  uint
	refreshCalls    uint
}

func (m *mockSink) CreateIndex(ctx context.Context, index string, settings map[string]any) error {
	if m.createIndexFn == nil {
		return fmt.Errorf("createIndexFn: unexpected call")
	}
	return m.createIndexFn(ctx, index, settings)
}

func (m *mockSink) PutMapping(ctx context.Context, index string, mapping Mapping) error {
	m.putMappingCalls++
	if m.putMappingFn == nil {
		return fmt.Errorf("putMappingFn: unexpected call %d", m.putMappingCalls)
	}
	return m.putMappingFn(ctx, m.putMappingCalls, index, mapping)
}

func (m *mockSink) BulkWrite(ctx context.Context, docs []Document) error {
	m.bulkWriteCalls++
	if m.bulkWriteFn == nil {
		return fmt.Errorf("bulkWriteFn: unexpected call %d", m.bulkWriteCalls)
	}
	return m.bulkWriteFn(ctx, m.bulkWriteCalls, docs)
}

func (m *mockSink) Refresh(ctx context.Context, index string) error {
	m.refreshCalls++
	if m.refreshFn == nil {
		return fmt.Errorf("refreshFn: unexpected call %d", m.refreshCalls)
	}
	return m.refreshFn(ctx, m.refreshCalls, index)
}

func (m *mockSink) Search(ctx context.Context, index, keywords string, opts SearchOptions) (*SearchResult, error) {
	if m.searchFn == nil {
		return nil, fmt.Errorf("searchFn: unexpected call")
	}
	return m.searchFn(ctx, index, keywords, opts)
}

func (m *mockSink) DeleteIndex(ctx context.Context, index string) error {
	if m.deleteIndexFn == nil {
		return fmt.Errorf("deleteIndexFn: unexpected call")
	}
	return m.deleteIndexFn(ctx, index)
}

type mockIDGenerator struct {
	id string
}

func (m *mockIDGenerator) NewID() string {
	return m.id
}

var errTest = errors.New("oh noes")

const (
	testIndex = "test-index"
	testType  = "article"
)

func newTestConfig() Config {
	return Config{
		Endpoints: []Endpoint{
			{Host: "localhost", Port: 9200, Index: testIndex},
		},
	}
}

func newTestCollection() *schema.Collection {
	return &schema.Collection{
		Name: "articles",
		Type: testType,
		Schema: schema.Schema{
			Fields: []schema.Field{
				{ID: "title", Name: "title", Type: schema.String, Indexed: true, Stored: true, Analyzed: true},
				{ID: "published", Name: "published_at", Type: schema.Date, Indexed: true, Stored: true},
				{ID: "views", Name: "views", Type: schema.Integer, Indexed: true, Size: "long"},
			},
		},
	}
}

func newTestAdapter(sink Sink, opts ...Option) *Adapter {
	a, err := NewAdapter(sink, newTestConfig(), opts...)
	if err != nil {
		panic(err)
	}
	return a
}

func newTestDocument(id string, fields map[string]any) Document {
	f := NewFields()
	for _, k := range []string{"title", "published_at", "views"} {
		if v, found := fields[k]; found {
			f.Set(k, v)
		}
	}
	return Document{
		Index:  testIndex,
		Type:   testType,
		ID:     id,
		Fields: f,
	}
}
