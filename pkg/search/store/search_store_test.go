// SPDX-License-Identifier: Apache-2.0

package store

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xataio/searchadapter/internal/searchstore"
	searchstoremocks "github.com/xataio/searchadapter/internal/searchstore/mocks"
	"github.com/xataio/searchadapter/pkg/search"
)

var errTest = errors.New("oh noes")

const testIndex = "test-index"

func newTestDocument(id string) search.Document {
	fields := search.NewFields()
	fields.Set("title", "hello")
	return search.Document{
		Index:  testIndex,
		Type:   "article",
		ID:     id,
		Fields: fields,
	}
}

func TestStore_CreateIndex(t *testing.T) {
	t.Parallel()

	testSettings := map[string]any{"number_of_shards": 4, "number_of_replicas": 1}

	tests := []struct {
		name   string
		client *searchstoremocks.Client

		wantErr error
	}{
		{
			name: "ok - new index",
			client: &searchstoremocks.Client{
				IndexExistsFn: func(ctx context.Context, index string) (bool, error) {
					require.Equal(t, testIndex, index)
					return false, nil
				},
				CreateIndexFn: func(ctx context.Context, index string, body map[string]any) error {
					require.Equal(t, testIndex, index)
					require.Equal(t, map[string]any{"settings": testSettings}, body)
					return nil
				},
			},
			wantErr: nil,
		},
		{
			name: "ok - existing index recreated",
			client: &searchstoremocks.Client{
				IndexExistsFn: func(ctx context.Context, index string) (bool, error) {
					return true, nil
				},
				DeleteIndexFn: func(ctx context.Context, index []string) error {
					require.Equal(t, []string{testIndex}, index)
					return nil
				},
				CreateIndexFn: func(ctx context.Context, index string, body map[string]any) error {
					return nil
				},
			},
			wantErr: nil,
		},
		{
			name: "error - checking index existence",
			client: &searchstoremocks.Client{
				IndexExistsFn: func(ctx context.Context, index string) (bool, error) {
					return false, errTest
				},
			},
			wantErr: errTest,
		},
		{
			name: "error - deleting existing index",
			client: &searchstoremocks.Client{
				IndexExistsFn: func(ctx context.Context, index string) (bool, error) {
					return true, nil
				},
				DeleteIndexFn: func(ctx context.Context, index []string) error {
					return errTest
				},
			},
			wantErr: errTest,
		},
		{
			name: "error - creating index",
			client: &searchstoremocks.Client{
				IndexExistsFn: func(ctx context.Context, index string) (bool, error) {
					return false, nil
				},
				CreateIndexFn: func(ctx context.Context, index string, body map[string]any) error {
					return errTest
				},
			},
			wantErr: errTest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := NewStoreWithClient(tc.client)
			err := s.CreateIndex(context.Background(), testIndex, testSettings)
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestStore_PutMapping(t *testing.T) {
	t.Parallel()

	testMapping := search.Mapping{
		CollectionType: "article",
		Fields: []search.FieldMapping{
			{Name: "title", EngineType: search.EngineTypeString, IndexMode: search.IndexModeAnalyzed, Store: true},
			{Name: "views", EngineType: "long", IndexMode: search.IndexModeNo},
		},
	}

	tests := []struct {
		name   string
		format MappingFormat

		wantReq *searchstore.PutMappingRequest
	}{
		{
			name:   "modern",
			format: MappingFormatModern,
			wantReq: &searchstore.PutMappingRequest{
				Index: testIndex,
				Body: map[string]any{
					"properties": map[string]any{
						"title": map[string]any{"type": "text", "store": true},
						"views": map[string]any{"type": "long", "store": false, "index": false},
					},
				},
			},
		},
		{
			name:   "legacy",
			format: MappingFormatLegacy,
			wantReq: &searchstore.PutMappingRequest{
				Index: testIndex,
				Type:  "article",
				Body: map[string]any{
					"properties": map[string]any{
						"title": map[string]any{"type": "string", "store": true, "index": "analyzed"},
						"views": map[string]any{"type": "long", "store": false, "index": "no"},
					},
				},
			},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := NewStoreWithClient(&searchstoremocks.Client{
				PutIndexMappingsFn: func(ctx context.Context, req *searchstore.PutMappingRequest) error {
					require.Equal(t, tc.wantReq, req)
					return nil
				},
			}, WithMappingFormat(tc.format))

			err := s.PutMapping(context.Background(), testIndex, testMapping)
			require.NoError(t, err)
		})
	}
}

func TestStore_BulkWrite(t *testing.T) {
	t.Parallel()

	longID := strings.Repeat("a", idFieldLengthLimit+1)

	tests := []struct {
		name   string
		format MappingFormat
		docs   []search.Document
		client *searchstoremocks.Client

		wantErr error
	}{
		{
			name: "ok",
			docs: []search.Document{newTestDocument("1"), newTestDocument("")},
			client: &searchstoremocks.Client{
				SendBulkRequestFn: func(ctx context.Context, items []searchstore.BulkItem) ([]searchstore.BulkItem, error) {
					require.Len(t, items, 2)
					require.Equal(t, &searchstore.BulkIndex{Index: testIndex, ID: "1"}, items[0].Index)
					require.Equal(t, &searchstore.BulkIndex{Index: testIndex}, items[1].Index)
					require.NotNil(t, items[0].Doc)
					return []searchstore.BulkItem{}, nil
				},
			},
			wantErr: nil,
		},
		{
			name:   "ok - legacy includes document type",
			format: MappingFormatLegacy,
			docs:   []search.Document{newTestDocument("1")},
			client: &searchstoremocks.Client{
				SendBulkRequestFn: func(ctx context.Context, items []searchstore.BulkItem) ([]searchstore.BulkItem, error) {
					require.Equal(t, &searchstore.BulkIndex{Index: testIndex, Type: "article", ID: "1"}, items[0].Index)
					return []searchstore.BulkItem{}, nil
				},
			},
			wantErr: nil,
		},
		{
			name: "error - failed documents",
			docs: []search.Document{newTestDocument("1"), newTestDocument("2")},
			client: &searchstoremocks.Client{
				SendBulkRequestFn: func(ctx context.Context, items []searchstore.BulkItem) ([]searchstore.BulkItem, error) {
					failed := items[1]
					failed.Status = 400
					failed.Error = []byte(`{"type":"mapper_parsing_exception"}`)
					return []searchstore.BulkItem{failed}, nil
				},
			},
			wantErr: &search.BulkError{Total: 2, Failed: 1, Reason: `{"type":"mapper_parsing_exception"}`},
		},
		{
			name: "error - id too long",
			docs: []search.Document{newTestDocument(longID), newTestDocument("2")},
			client: &searchstoremocks.Client{
				SendBulkRequestFn: func(ctx context.Context, items []searchstore.BulkItem) ([]searchstore.BulkItem, error) {
					require.Len(t, items, 1)
					return []searchstore.BulkItem{}, nil
				},
			},
			wantErr: &search.BulkError{Total: 2, Failed: 1, Reason: errIDTooLong.Error()},
		},
		{
			name: "error - sending bulk request",
			docs: []search.Document{newTestDocument("1")},
			client: &searchstoremocks.Client{
				SendBulkRequestFn: func(ctx context.Context, items []searchstore.BulkItem) ([]searchstore.BulkItem, error) {
					return nil, errTest
				},
			},
			wantErr: errTest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := NewStoreWithClient(tc.client, WithMappingFormat(tc.format))
			err := s.BulkWrite(context.Background(), tc.docs)
			if tc.wantErr == nil {
				require.NoError(t, err)
				return
			}
			bulkErr := &search.BulkError{}
			if errors.As(tc.wantErr, &bulkErr) {
				require.Equal(t, tc.wantErr, err)
				return
			}
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestStore_Search(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		opts   search.SearchOptions
		client *searchstoremocks.Client

		wantResult *search.SearchResult
		wantErr    error
	}{
		{
			name: "ok",
			opts: search.SearchOptions{Size: 5, From: 10},
			client: &searchstoremocks.Client{
				SearchFn: func(ctx context.Context, req *searchstore.SearchRequest) (*searchstore.SearchResponse, error) {
					require.Equal(t, testIndex, *req.Index)
					require.Equal(t, 5, *req.Size)
					require.Equal(t, 10, *req.From)
					body, err := io.ReadAll(req.Query)
					require.NoError(t, err)
					require.JSONEq(t, `{"query":{"query_string":{"query":"title:\"hello world\""}}}`, string(body))
					return &searchstore.SearchResponse{
						Hits: searchstore.Hits{
							Total: searchstore.HitsTotal{Value: 1},
							Hits: []searchstore.Hit{
								{Index: testIndex, ID: "1", Score: 1.5, Source: map[string]any{"title": "hello world"}},
							},
						},
					}, nil
				},
			},
			wantResult: &search.SearchResult{
				Total: 1,
				Hits: []search.Hit{
					{Index: testIndex, ID: "1", Score: 1.5, Source: map[string]any{"title": "hello world"}},
				},
			},
		},
		{
			name: "ok - engine defaults",
			opts: search.SearchOptions{},
			client: &searchstoremocks.Client{
				SearchFn: func(ctx context.Context, req *searchstore.SearchRequest) (*searchstore.SearchResponse, error) {
					require.Nil(t, req.Size)
					require.Nil(t, req.From)
					return &searchstore.SearchResponse{}, nil
				},
			},
			wantResult: &search.SearchResult{Hits: []search.Hit{}},
		},
		{
			name: "error",
			client: &searchstoremocks.Client{
				SearchFn: func(ctx context.Context, req *searchstore.SearchRequest) (*searchstore.SearchResponse, error) {
					return nil, errTest
				},
			},
			wantErr: errTest,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s := NewStoreWithClient(tc.client)
			res, err := s.Search(context.Background(), testIndex, `title:"hello world"`, tc.opts)
			require.ErrorIs(t, err, tc.wantErr)
			require.Equal(t, tc.wantResult, res)
		})
	}
}

func TestStore_RefreshDeleteCount(t *testing.T) {
	t.Parallel()

	s := NewStoreWithClient(&searchstoremocks.Client{
		RefreshIndexFn: func(ctx context.Context, index string) error {
			require.Equal(t, testIndex, index)
			return nil
		},
		DeleteIndexFn: func(ctx context.Context, index []string) error {
			require.Equal(t, []string{testIndex}, index)
			return errTest
		},
		CountFn: func(ctx context.Context, index string) (int, error) {
			return 3, nil
		},
	})

	require.NoError(t, s.Refresh(context.Background(), testIndex))
	require.ErrorIs(t, s.DeleteIndex(context.Background(), testIndex), errTest)
	count, err := s.Count(context.Background(), testIndex)
	require.NoError(t, err)
	require.Equal(t, 3, count)
}

func TestNewStore(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  Config

		wantErr error
	}{
		{
			name: "ok - elasticsearch",
			cfg: Config{
				Endpoints: []search.Endpoint{{Host: "localhost", Port: 9200, Index: "test"}},
			},
		},
		{
			name: "ok - opensearch multi node",
			cfg: Config{
				Engine: EngineOpenSearch,
				Endpoints: []search.Endpoint{
					{Host: "node-1", Port: 9200},
					{Host: "node-2", Port: 9200, Index: "test"},
				},
			},
		},
		{
			name:    "error - no endpoints",
			cfg:     Config{},
			wantErr: search.ErrConfiguration,
		},
		{
			name: "error - unknown engine",
			cfg: Config{
				Engine:    "solr",
				Endpoints: []search.Endpoint{{Host: "localhost"}},
			},
			wantErr: search.ErrConfiguration,
		},
		{
			name: "error - unknown mapping format",
			cfg: Config{
				Endpoints:     []search.Endpoint{{Host: "localhost"}},
				MappingFormat: "ancient",
			},
			wantErr: search.ErrConfiguration,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			s, err := NewStore(tc.cfg)
			require.ErrorIs(t, err, tc.wantErr)
			if tc.wantErr == nil {
				require.NotNil(t, s)
			}
		})
	}
}
