// SPDX-License-Identifier: Apache-2.0

package opensearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/opensearch-project/opensearch-go"
	"github.com/opensearch-project/opensearch-go/opensearchapi"
	"github.com/xataio/searchadapter/internal/json"
	"github.com/xataio/searchadapter/internal/searchstore"
)

type Client struct {
	client *opensearch.Client
}

var errInvalidSearchEnvelope = errors.New("invalid search response")

func NewClient(cfg *searchstore.ClientConfig) (*Client, error) {
	os, err := newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create opensearch client: %w", err)
	}
	return &Client{client: os}, nil
}

func (c *Client) Count(ctx context.Context, index string) (int, error) {
	res, err := c.client.Count(
		c.client.Count.WithIndex(index),
		c.client.Count.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("[Count] error from OpenSearch: %w", err)
	}
	defer res.Body.Close()

	if err := c.isErrResponse(res); err != nil {
		return 0, fmt.Errorf("[Count] error response from OpenSearch: %w", err)
	}

	count := &searchstore.CountResponse{}
	if err := json.NewDecoder(res.Body).Decode(count); err != nil {
		return 0, fmt.Errorf("[Count] error decoding OpenSearch response: %w", err)
	}

	return count.Count, nil
}

func (c *Client) CreateIndex(ctx context.Context, index string, body map[string]any) error {
	reader, err := searchstore.CreateReader(body)
	if err != nil {
		return err
	}
	res, err := c.client.Indices.Create(index,
		c.client.Indices.Create.WithContext(ctx),
		c.client.Indices.Create.WithBody(reader),
	)
	if err != nil {
		return fmt.Errorf("[CreateIndex] error from OpenSearch: %w", err)
	}
	defer res.Body.Close()

	if err := c.isErrResponse(res); err != nil {
		return fmt.Errorf("[CreateIndex] error response from OpenSearch: %w", err)
	}

	return nil
}

func (c *Client) DeleteIndex(ctx context.Context, index []string) error {
	res, err := c.client.Indices.Delete(
		index,
		c.client.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("[DeleteIndex] error from OpenSearch: %w", err)
	}
	defer res.Body.Close()

	if err := c.isErrResponse(res); err != nil {
		return fmt.Errorf("[DeleteIndex] error response from OpenSearch: %w", err)
	}

	return nil
}

func (c *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	res, err := c.client.Indices.Exists([]string{index},
		c.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("[IndexExists] error from OpenSearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return false, fmt.Errorf("[IndexExists] error response from OpenSearch: [%d] %s", res.StatusCode, res.Status())
	}

	return res.StatusCode == http.StatusOK, nil
}

func (c *Client) PutIndexMappings(ctx context.Context, req *searchstore.PutMappingRequest) error {
	if req.Type != "" {
		return c.putTypedIndexMappings(ctx, req)
	}

	reader, err := searchstore.CreateReader(req.Body)
	if err != nil {
		return err
	}
	res, err := c.client.Indices.PutMapping(
		reader,
		c.client.Indices.PutMapping.WithIndex(req.Index),
		c.client.Indices.PutMapping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("[PutIndexMappings] error from OpenSearch: %w", err)
	}
	defer res.Body.Close()

	if err := c.isErrResponse(res); err != nil {
		return fmt.Errorf("[PutIndexMappings] error response from OpenSearch: %w", err)
	}

	return nil
}

func (c *Client) putTypedIndexMappings(ctx context.Context, req *searchstore.PutMappingRequest) error {
	httpReq, err := searchstore.NewTypedMappingRequest(ctx, req)
	if err != nil {
		return err
	}

	resp, err := c.client.Transport.Perform(httpReq)
	if err != nil {
		return fmt.Errorf("[PutIndexMappings] error from OpenSearch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode > 299 {
		return fmt.Errorf("[PutIndexMappings] error response from OpenSearch: %w", searchstore.ExtractResponseError(resp.Body, resp.StatusCode))
	}

	return nil
}

func (c *Client) RefreshIndex(ctx context.Context, index string) error {
	res, err := c.client.Indices.Refresh(
		c.client.Indices.Refresh.WithIndex(index),
		c.client.Indices.Refresh.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("[RefreshIndex] error from OpenSearch: %w", err)
	}
	defer res.Body.Close()

	if err := c.isErrResponse(res); err != nil {
		return fmt.Errorf("[RefreshIndex] error response from OpenSearch: %w", err)
	}

	return nil
}

func (c *Client) Search(ctx context.Context, req *searchstore.SearchRequest) (*searchstore.SearchResponse, error) {
	res, err := c.client.Search(c.parseSearchRequest(ctx, req)...)
	if err != nil {
		return nil, fmt.Errorf("[Search] error from OpenSearch: %w", err)
	}
	defer res.Body.Close()
	if err := c.isErrResponse(res); err != nil {
		return nil, fmt.Errorf("[Search] error response from OpenSearch: %w", err)
	}

	var response searchstore.SearchResponse
	if err := json.NewDecoder(res.Body).Decode(&response); err != nil {
		return nil, fmt.Errorf("[Search] decoding response body: %w: %w", errInvalidSearchEnvelope, err)
	}

	return &response, nil
}

// SendBulkRequest indexes all the items in a single call. It returns the items
// the engine failed to index.
func (c *Client) SendBulkRequest(ctx context.Context, items []searchstore.BulkItem) ([]searchstore.BulkItem, error) {
	req, err := searchstore.NewBulkRequest(ctx, items)
	if err != nil {
		return nil, err
	}

	resp, err := c.client.Transport.Perform(req)
	if err != nil {
		return nil, fmt.Errorf("perform: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode > 299 {
		return nil, fmt.Errorf("[SendBulkRequest] error response from OpenSearch: %w", searchstore.ExtractResponseError(resp.Body, resp.StatusCode))
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return searchstore.VerifyResponse(bodyBytes, items)
}

func (c *Client) parseSearchRequest(ctx context.Context, req *searchstore.SearchRequest) []func(*opensearchapi.SearchRequest) {
	opts := []func(*opensearchapi.SearchRequest){
		c.client.Search.WithContext(ctx),
	}
	if req.Index != nil {
		opts = append(opts, c.client.Search.WithIndex(*req.Index))
	}
	if req.Size != nil {
		opts = append(opts, c.client.Search.WithSize(*req.Size))
	}
	if req.From != nil {
		opts = append(opts, c.client.Search.WithFrom(*req.From))
	}
	if req.Query != nil {
		opts = append(opts, c.client.Search.WithBody(req.Query))
	}

	return opts
}

func (c *Client) isErrResponse(res *opensearchapi.Response) error {
	return searchstore.IsErrResponse(newAPIResponse(res))
}

func newClient(cfg *searchstore.ClientConfig) (*opensearch.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport, err := cfg.Transport()
	if err != nil {
		return nil, err
	}

	osCfg := opensearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: transport,
	}
	switch cfg.Topology() {
	case searchstore.SingleNode:
		osCfg.DisableRetry = true
	case searchstore.MultiNode:
		osCfg.MaxRetries = cfg.MaxRetries()
		osCfg.RetryOnStatus = []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout}
	}

	return opensearch.NewClient(osCfg)
}

type apiResponse struct {
	*opensearchapi.Response
}

func newAPIResponse(res *opensearchapi.Response) *apiResponse {
	return &apiResponse{Response: res}
}

func (r *apiResponse) GetBody() io.ReadCloser {
	return r.Body
}

func (r *apiResponse) GetStatusCode() int {
	return r.StatusCode
}
