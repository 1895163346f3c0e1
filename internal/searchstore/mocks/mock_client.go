// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/xataio/searchadapter/internal/searchstore"
)

type Client struct {
	CountFn            func(ctx context.Context, index string) (int, error)
	CreateIndexFn      func(ctx context.Context, index string, body map[string]any) error
	DeleteIndexFn      func(ctx context.Context, index []string) error
	IndexExistsFn      func(ctx context.Context, index string) (bool, error)
	PutIndexMappingsFn func(ctx context.Context, req *searchstore.PutMappingRequest) error
	RefreshIndexFn     func(ctx context.Context, index string) error
	SearchFn           func(ctx context.Context, req *searchstore.SearchRequest) (*searchstore.SearchResponse, error)
	SendBulkRequestFn  func(ctx context.Context, items []searchstore.BulkItem) ([]searchstore.BulkItem, error)
}

func (m *Client) Count(ctx context.Context, index string) (int, error) {
	return m.CountFn(ctx, index)
}

func (m *Client) CreateIndex(ctx context.Context, index string, body map[string]any) error {
	return m.CreateIndexFn(ctx, index, body)
}

func (m *Client) DeleteIndex(ctx context.Context, index []string) error {
	return m.DeleteIndexFn(ctx, index)
}

func (m *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	return m.IndexExistsFn(ctx, index)
}

func (m *Client) PutIndexMappings(ctx context.Context, req *searchstore.PutMappingRequest) error {
	return m.PutIndexMappingsFn(ctx, req)
}

func (m *Client) RefreshIndex(ctx context.Context, index string) error {
	return m.RefreshIndexFn(ctx, index)
}

func (m *Client) Search(ctx context.Context, req *searchstore.SearchRequest) (*searchstore.SearchResponse, error) {
	return m.SearchFn(ctx, req)
}

func (m *Client) SendBulkRequest(ctx context.Context, items []searchstore.BulkItem) ([]searchstore.BulkItem, error) {
	return m.SendBulkRequestFn(ctx, items)
}
