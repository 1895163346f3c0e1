// SPDX-License-Identifier: Apache-2.0

package indexer

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	loglib "github.com/xataio/searchadapter/pkg/log"
	"github.com/xataio/searchadapter/pkg/schema"
	"github.com/xataio/searchadapter/pkg/search"
	searchmocks "github.com/xataio/searchadapter/pkg/search/mocks"
	"github.com/xataio/searchadapter/pkg/search/store"
)

func TestNewSearchAdapter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *SearchConfig

		wantErr error
	}{
		{
			name: "ok - elasticsearch",
			cfg: &SearchConfig{
				Endpoints: []search.Endpoint{{Host: "localhost", Port: 9200, Index: "books"}},
			},
		},
		{
			name: "ok - opensearch with uuid ids",
			cfg: &SearchConfig{
				Engine:      store.EngineOpenSearch,
				Endpoints:   []search.Endpoint{{Host: "a", Index: "books"}, {Host: "b", Index: "books"}},
				DocumentIDs: DocumentIDsUUID,
			},
		},
		{
			name: "error - no endpoints",
			cfg:  &SearchConfig{},

			wantErr: search.ErrConfiguration,
		},
		{
			name: "error - no index",
			cfg: &SearchConfig{
				Endpoints: []search.Endpoint{{Host: "localhost"}},
			},

			wantErr: search.ErrConfiguration,
		},
		{
			name: "error - unknown document ids",
			cfg: &SearchConfig{
				Endpoints:   []search.Endpoint{{Host: "localhost", Index: "books"}},
				DocumentIDs: "sequential",
			},

			wantErr: errUnsupportedDocumentIDs,
		},
		{
			name: "error - unknown mapping format",
			cfg: &SearchConfig{
				Endpoints:     []search.Endpoint{{Host: "localhost", Index: "books"}},
				MappingFormat: "ancient",
			},

			wantErr: search.ErrConfiguration,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			adapter, err := NewSearchAdapter(tc.cfg, loglib.NewNoopLogger(), nil)
			if tc.wantErr != nil {
				require.ErrorIs(t, err, tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.cfg.Endpoints[len(tc.cfg.Endpoints)-1].Index, adapter.Index())
		})
	}
}

func TestNewSearchAdapter_documentOptions(t *testing.T) {
	t.Parallel()

	var written []search.Document
	sink := &searchmocks.Sink{
		BulkWriteFn: func(_ context.Context, docs []search.Document) error {
			written = docs
			return nil
		},
		RefreshFn: func(context.Context, string) error { return nil },
	}

	cfg := &SearchConfig{
		Endpoints:   []search.Endpoint{{Host: "localhost", Index: "books"}},
		Index:       "books-v2",
		DateFormat:  "2006-01-02",
		DocumentIDs: DocumentIDsXID,
	}
	adapter, err := newSearchAdapter(cfg, nil, nil, func() (search.Sink, error) { return sink, nil })
	require.NoError(t, err)
	require.Equal(t, "books-v2", adapter.Index())

	run, err := adapter.StartRun(&schema.Collection{
		Name: "books",
		Schema: schema.Schema{
			Fields: []schema.Field{{ID: "published", Name: "published", Type: schema.Date}},
		},
	})
	require.NoError(t, err)
	require.NoError(t, run.OnDocumentIndexed(search.Record{
		Values: []search.FieldValue{{FieldID: "published", Value: int64(0x5f5e1000)}},
	}))
	require.NoError(t, run.OnRunComplete(context.Background()))

	require.Len(t, written, 1)
	require.NotEmpty(t, written[0].ID)
	published, found := written[0].Fields.Get("published")
	require.True(t, found)
	require.Equal(t, "2020-09-13", published)
}

func TestNewSearchAdapter_sinkError(t *testing.T) {
	t.Parallel()

	errSink := errors.New("oh noes")
	_, err := newSearchAdapter(&SearchConfig{}, nil, nil, func() (search.Sink, error) { return nil, errSink })
	require.ErrorIs(t, err, errSink)
}
