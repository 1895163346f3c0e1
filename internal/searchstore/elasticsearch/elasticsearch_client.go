// SPDX-License-Identifier: Apache-2.0

package elasticsearch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/xataio/searchadapter/internal/json"
	"github.com/xataio/searchadapter/internal/searchstore"
)

type Client struct {
	client *elasticsearch.Client
}

var errInvalidSearchEnvelope = errors.New("invalid search response")

func NewClient(cfg *searchstore.ClientConfig) (*Client, error) {
	es, err := newClient(cfg)
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Client{client: es}, nil
}

func (ec *Client) Count(ctx context.Context, index string) (int, error) {
	res, err := ec.client.Count(
		ec.client.Count.WithIndex(index),
		ec.client.Count.WithContext(ctx))
	if err != nil {
		return 0, fmt.Errorf("[Count] error from Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if err := ec.isErrResponse(res); err != nil {
		return 0, fmt.Errorf("[Count] error response from Elasticsearch: %w", err)
	}

	count := &searchstore.CountResponse{}
	if err := json.NewDecoder(res.Body).Decode(count); err != nil {
		return 0, fmt.Errorf("[Count] error decoding Elasticsearch response: %w", err)
	}

	return count.Count, nil
}

func (ec *Client) CreateIndex(ctx context.Context, index string, body map[string]any) error {
	reader, err := searchstore.CreateReader(body)
	if err != nil {
		return err
	}
	res, err := ec.client.Indices.Create(index,
		ec.client.Indices.Create.WithContext(ctx),
		ec.client.Indices.Create.WithBody(reader),
	)
	if err != nil {
		return fmt.Errorf("[CreateIndex] error from Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if err := ec.isErrResponse(res); err != nil {
		return fmt.Errorf("[CreateIndex] error response from Elasticsearch: %w", err)
	}

	return nil
}

func (ec *Client) DeleteIndex(ctx context.Context, index []string) error {
	res, err := ec.client.Indices.Delete(
		index,
		ec.client.Indices.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("[DeleteIndex] error from Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if err := ec.isErrResponse(res); err != nil {
		return fmt.Errorf("[DeleteIndex] error response from Elasticsearch: %w", err)
	}

	return nil
}

func (ec *Client) IndexExists(ctx context.Context, index string) (bool, error) {
	res, err := ec.client.Indices.Exists([]string{index},
		ec.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return false, fmt.Errorf("[IndexExists] error from Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() && res.StatusCode != http.StatusNotFound {
		return false, fmt.Errorf("[IndexExists] error response from Elasticsearch: [%d] %s", res.StatusCode, res.Status())
	}

	return res.StatusCode == http.StatusOK, nil
}

// PutIndexMappings adds field mappings to a previously created index. Typed
// mappings are sent with a raw request, for clusters that still support
// mapping types.
func (ec *Client) PutIndexMappings(ctx context.Context, req *searchstore.PutMappingRequest) error {
	if req.Type != "" {
		return ec.putTypedIndexMappings(ctx, req)
	}

	reader, err := searchstore.CreateReader(req.Body)
	if err != nil {
		return err
	}
	res, err := ec.client.Indices.PutMapping(
		[]string{req.Index},
		reader,
		ec.client.Indices.PutMapping.WithContext(ctx))
	if err != nil {
		return fmt.Errorf("[PutIndexMappings] error from Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if err := ec.isErrResponse(res); err != nil {
		return fmt.Errorf("[PutIndexMappings] error response from Elasticsearch: %w", err)
	}

	return nil
}

func (ec *Client) putTypedIndexMappings(ctx context.Context, req *searchstore.PutMappingRequest) error {
	httpReq, err := searchstore.NewTypedMappingRequest(ctx, req)
	if err != nil {
		return err
	}

	resp, err := ec.client.Transport.Perform(httpReq)
	if err != nil {
		return fmt.Errorf("[PutIndexMappings] error from Elasticsearch: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode > 299 {
		return fmt.Errorf("[PutIndexMappings] error response from Elasticsearch: %w", searchstore.ExtractResponseError(resp.Body, resp.StatusCode))
	}

	return nil
}

func (ec *Client) RefreshIndex(ctx context.Context, index string) error {
	res, err := ec.client.Indices.Refresh(
		ec.client.Indices.Refresh.WithIndex(index),
		ec.client.Indices.Refresh.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("[RefreshIndex] error from Elasticsearch: %w", err)
	}
	defer res.Body.Close()

	if err := ec.isErrResponse(res); err != nil {
		return fmt.Errorf("[RefreshIndex] error response from Elasticsearch: %w", err)
	}

	return nil
}

func (ec *Client) Search(ctx context.Context, req *searchstore.SearchRequest) (*searchstore.SearchResponse, error) {
	res, err := ec.client.Search(ec.parseSearchRequest(ctx, req)...)
	if err != nil {
		return nil, fmt.Errorf("[Search] error from Elasticsearch: %w", err)
	}
	defer res.Body.Close()
	if err := ec.isErrResponse(res); err != nil {
		return nil, fmt.Errorf("[Search] error response from Elasticsearch: %w", err)
	}

	var response searchstore.SearchResponse
	err = json.NewDecoder(res.Body).Decode(&response)
	if err != nil {
		return nil, fmt.Errorf("[Search] decoding response body: %w: %w", errInvalidSearchEnvelope, err)
	}

	return &response, nil
}

// SendBulkRequest indexes all the items in a single call. It returns the items
// the engine failed to index.
func (ec *Client) SendBulkRequest(ctx context.Context, items []searchstore.BulkItem) ([]searchstore.BulkItem, error) {
	req, err := searchstore.NewBulkRequest(ctx, items)
	if err != nil {
		return nil, err
	}

	resp, err := ec.client.Transport.Perform(req)
	if err != nil {
		return nil, fmt.Errorf("perform: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode > 299 {
		return nil, fmt.Errorf("[SendBulkRequest] error response from Elasticsearch: %w", searchstore.ExtractResponseError(resp.Body, resp.StatusCode))
	}

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}

	return searchstore.VerifyResponse(bodyBytes, items)
}

func (ec *Client) parseSearchRequest(ctx context.Context, req *searchstore.SearchRequest) []func(*esapi.SearchRequest) {
	opts := []func(*esapi.SearchRequest){
		ec.client.Search.WithContext(ctx),
	}
	if req.Index != nil {
		opts = append(opts, ec.client.Search.WithIndex(*req.Index))
	}
	if req.Size != nil {
		opts = append(opts, ec.client.Search.WithSize(*req.Size))
	}
	if req.From != nil {
		opts = append(opts, ec.client.Search.WithFrom(*req.From))
	}
	if req.Query != nil {
		opts = append(opts, ec.client.Search.WithBody(req.Query))
	}

	return opts
}

func (ec *Client) isErrResponse(res *esapi.Response) error {
	return searchstore.IsErrResponse(newAPIResponse(res))
}

func newClient(cfg *searchstore.ClientConfig) (*elasticsearch.Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	transport, err := cfg.Transport()
	if err != nil {
		return nil, err
	}

	esCfg := elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
		Transport: transport,
	}
	switch cfg.Topology() {
	case searchstore.SingleNode:
		esCfg.DisableRetry = true
	case searchstore.MultiNode:
		esCfg.MaxRetries = cfg.MaxRetries()
		esCfg.RetryOnStatus = []int{http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout}
	}

	return elasticsearch.NewClient(esCfg)
}

type apiResponse struct {
	*esapi.Response
}

func newAPIResponse(res *esapi.Response) *apiResponse {
	return &apiResponse{Response: res}
}

func (r *apiResponse) GetBody() io.ReadCloser {
	return r.Body
}

func (r *apiResponse) GetStatusCode() int {
	return r.StatusCode
}
