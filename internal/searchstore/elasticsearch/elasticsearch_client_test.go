// SPDX-License-Identifier: Apache-2.0

package elasticsearch

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xataio/searchadapter/internal/searchstore"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_SendBulkRequest(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/_bulk", r.URL.Path)
		body, err := io.ReadAll(r.Body)
		require.NoError(t, err)
		require.Equal(t, `{"index":{"_index":"test","_id":"1"}}`+"\n"+`{"title":"a"}`+"\n", string(body))
		w.Write([]byte(`{"errors":true,"items":[{"index":{"status":400,"error":{"type":"mapper_parsing_exception"}}}]}`))
	})

	client, err := NewClient(&searchstore.ClientConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	failed, err := client.SendBulkRequest(context.Background(), []searchstore.BulkItem{
		{Index: &searchstore.BulkIndex{Index: "test", ID: "1"}, Doc: map[string]any{"title": "a"}},
	})
	require.NoError(t, err)
	require.Len(t, failed, 1)
	require.Equal(t, 400, failed[0].Status)
}

func TestClient_Search(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/test/_search", r.URL.Path)
		require.Equal(t, "5", r.URL.Query().Get("size"))
		require.Equal(t, "10", r.URL.Query().Get("from"))
		w.Write([]byte(`{"hits":{"total":{"value":1,"relation":"eq"},"hits":[{"_index":"test","_id":"1","_score":1,"_source":{"title":"a"}}]}}`))
	})

	client, err := NewClient(&searchstore.ClientConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	res, err := client.Search(context.Background(), &searchstore.SearchRequest{
		Index: searchstore.Ptr("test"),
		Size:  searchstore.Ptr(5),
		From:  searchstore.Ptr(10),
	})
	require.NoError(t, err)
	require.Equal(t, 1, res.Hits.Total.Value)
	require.Equal(t, "1", res.Hits.Hits[0].ID)
}

func TestClient_IndexExists(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/found":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	client, err := NewClient(&searchstore.ClientConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	exists, err := client.IndexExists(context.Background(), "found")
	require.NoError(t, err)
	require.True(t, exists)

	exists, err = client.IndexExists(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, exists)
}

func TestClient_PutIndexMappings_Typed(t *testing.T) {
	t.Parallel()

	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPut, r.Method)
		require.Equal(t, "/test/_mapping/article", r.URL.Path)
		w.Write([]byte(`{"acknowledged":true}`))
	})

	client, err := NewClient(&searchstore.ClientConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	err = client.PutIndexMappings(context.Background(), &searchstore.PutMappingRequest{
		Index: "test",
		Type:  "article",
		Body:  map[string]any{"properties": map[string]any{}},
	})
	require.NoError(t, err)
}

func TestClient_MultiNodeFailover(t *testing.T) {
	t.Parallel()

	var unavailableCalls, okCalls atomic.Int32
	unavailable := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		unavailableCalls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"type":"unavailable","reason":"down"}}`))
	})
	ok := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		okCalls.Add(1)
		w.Write([]byte(`{"acknowledged":true}`))
	})

	client, err := NewClient(&searchstore.ClientConfig{Addresses: []string{unavailable.URL, ok.URL}})
	require.NoError(t, err)

	// requests are round robined across nodes, the ones hitting the
	// unavailable node are retried on the other one
	for i := 0; i < 2; i++ {
		require.NoError(t, client.RefreshIndex(context.Background(), "test"))
	}
	require.Equal(t, int32(2), okCalls.Load())
	require.GreaterOrEqual(t, unavailableCalls.Load(), int32(1))
}

func TestClient_SingleNodeNoRetry(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":{"type":"unavailable","reason":"down"}}`))
	})

	client, err := NewClient(&searchstore.ClientConfig{Addresses: []string{srv.URL}})
	require.NoError(t, err)

	err = client.RefreshIndex(context.Background(), "test")
	require.Error(t, err)
	require.True(t, searchstore.IsRetryable(err))
	require.Equal(t, int32(1), calls.Load())
}

func TestNewClient_Error(t *testing.T) {
	t.Parallel()

	_, err := NewClient(&searchstore.ClientConfig{})
	require.Error(t, err)
}
