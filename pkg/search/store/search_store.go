// SPDX-License-Identifier: Apache-2.0

package store

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/tidwall/sjson"
	"github.com/xataio/searchadapter/internal/searchstore"
	elasticsearchstore "github.com/xataio/searchadapter/internal/searchstore/elasticsearch"
	opensearchstore "github.com/xataio/searchadapter/internal/searchstore/opensearch"
	loglib "github.com/xataio/searchadapter/pkg/log"
	"github.com/xataio/searchadapter/pkg/search"
)

// Store implements the search sink on top of an Elasticsearch or OpenSearch
// cluster.
type Store struct {
	logger   loglib.Logger
	client   searchstore.Client
	renderer mappingRenderer
}

type Option func(*Store)

var _ search.Sink = (*Store)(nil)

// OpenSearch/Elasticsearch have a limit of 512 bytes for the ID field. see here:
// https://www.elastic.co/guide/en/elasticsearch/reference/7.10/mapping-id-field.html
const idFieldLengthLimit = 512

var errIDTooLong = fmt.Errorf("document id is longer than %d bytes", idFieldLengthLimit)

func NewStore(cfg Config, opts ...Option) (*Store, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, search.ErrNoEndpoints
	}

	format, err := ParseMappingFormat(string(cfg.MappingFormat))
	if err != nil {
		return nil, err
	}

	var client searchstore.Client
	switch cfg.Engine {
	case EngineOpenSearch:
		client, err = opensearchstore.NewClient(cfg.clientConfig())
	case "", EngineElasticsearch:
		client, err = elasticsearchstore.NewClient(cfg.clientConfig())
	default:
		return nil, fmt.Errorf("%w: unsupported search engine %q", search.ErrConfiguration, cfg.Engine)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: create search store client: %w", search.ErrConfiguration, err)
	}

	s := NewStoreWithClient(client, append([]Option{WithMappingFormat(format)}, opts...)...)
	s.logger.Info("search store client created", loglib.Fields{
		"engine":    cfg.Engine,
		"endpoints": len(cfg.Endpoints),
		"topology":  cfg.Topology().String(),
	})
	return s, nil
}

func NewStoreWithClient(client searchstore.Client, opts ...Option) *Store {
	s := &Store{
		logger:   loglib.NewNoopLogger(),
		client:   client,
		renderer: newMappingRenderer(MappingFormatModern),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

func WithLogger(l loglib.Logger) Option {
	return func(s *Store) {
		s.logger = loglib.NewLogger(l).WithFields(loglib.Fields{
			loglib.ModuleField: "search_store",
		})
	}
}

func WithMappingFormat(format MappingFormat) Option {
	return func(s *Store) {
		s.renderer = newMappingRenderer(format)
	}
}

// CreateIndex creates the index with the settings on input. An existing index
// with the same name is deleted first.
func (s *Store) CreateIndex(ctx context.Context, index string, settings map[string]any) error {
	exists, err := s.client.IndexExists(ctx, index)
	if err != nil {
		return err
	}

	if exists {
		s.logger.Warn(nil, "search index already exists, recreating", loglib.Fields{"index": index})
		if err := s.client.DeleteIndex(ctx, []string{index}); err != nil {
			return err
		}
	}

	return s.client.CreateIndex(ctx, index, map[string]any{
		"settings": settings,
	})
}

func (s *Store) PutMapping(ctx context.Context, index string, mapping search.Mapping) error {
	req := &searchstore.PutMappingRequest{
		Index: index,
		Body:  renderMapping(s.renderer, mapping),
	}
	if s.renderer.typed() {
		req.Type = mapping.CollectionType
	}
	return s.client.PutIndexMappings(ctx, req)
}

// BulkWrite indexes all the documents on input in a single bulk request.
// Documents rejected by the engine are reported with a search.BulkError.
func (s *Store) BulkWrite(ctx context.Context, docs []search.Document) error {
	items := make([]searchstore.BulkItem, 0, len(docs))
	rejected := []string{}
	for _, doc := range docs {
		if len(doc.ID) > idFieldLengthLimit {
			s.logger.Error(errIDTooLong, "error processing document, skipping", loglib.Fields{
				"id": doc.ID,
			})
			rejected = append(rejected, errIDTooLong.Error())
			continue
		}
		items = append(items, s.docToBulkItem(doc))
	}

	failed := []searchstore.BulkItem{}
	if len(items) > 0 {
		var err error
		failed, err = s.client.SendBulkRequest(ctx, items)
		if err != nil {
			return err
		}
	}

	for _, f := range failed {
		s.logger.Error(errors.New(string(f.Error)), "search store: document failed to index", loglib.Fields{
			"status": f.Status,
			"id":     f.Index.ID,
		})
		rejected = append(rejected, string(f.Error))
	}

	if len(rejected) > 0 {
		return &search.BulkError{
			Total:  len(docs),
			Failed: len(rejected),
			Reason: rejected[0],
		}
	}

	return nil
}

func (s *Store) Refresh(ctx context.Context, index string) error {
	return s.client.RefreshIndex(ctx, index)
}

// Search runs a query string query with the keywords on input.
func (s *Store) Search(ctx context.Context, index, keywords string, opts search.SearchOptions) (*search.SearchResult, error) {
	query, err := sjson.SetBytes([]byte(`{}`), "query.query_string.query", keywords)
	if err != nil {
		return nil, fmt.Errorf("building search query: %w", err)
	}

	req := &searchstore.SearchRequest{
		Index: searchstore.Ptr(index),
		Query: bytes.NewReader(query),
	}
	if opts.Size > 0 {
		req.Size = searchstore.Ptr(opts.Size)
	}
	if opts.From > 0 {
		req.From = searchstore.Ptr(opts.From)
	}

	res, err := s.client.Search(ctx, req)
	if err != nil {
		return nil, err
	}

	result := &search.SearchResult{
		Total: res.Hits.Total.Value,
		Hits:  make([]search.Hit, 0, len(res.Hits.Hits)),
	}
	for _, h := range res.Hits.Hits {
		result.Hits = append(result.Hits, search.Hit{
			Index:  h.Index,
			Type:   h.Type,
			ID:     h.ID,
			Score:  h.Score,
			Source: h.Source,
		})
	}
	return result, nil
}

func (s *Store) DeleteIndex(ctx context.Context, index string) error {
	return s.client.DeleteIndex(ctx, []string{index})
}

// Count returns the number of documents in the index.
func (s *Store) Count(ctx context.Context, index string) (int, error) {
	return s.client.Count(ctx, index)
}

func (s *Store) docToBulkItem(doc search.Document) searchstore.BulkItem {
	item := searchstore.BulkItem{
		Index: &searchstore.BulkIndex{
			Index: doc.Index,
			ID:    doc.ID,
		},
	}
	if doc.Fields != nil {
		item.Doc = doc.Fields
	}
	if s.renderer.typed() {
		item.Index.Type = doc.Type
	}
	return item
}
