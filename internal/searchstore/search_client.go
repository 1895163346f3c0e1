// SPDX-License-Identifier: Apache-2.0

package searchstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/xataio/searchadapter/internal/json"
	"github.com/xataio/searchadapter/pkg/tls"
)

type Client interface {
	Count(ctx context.Context, index string) (int, error)
	CreateIndex(ctx context.Context, index string, body map[string]any) error
	DeleteIndex(ctx context.Context, index []string) error
	IndexExists(ctx context.Context, index string) (bool, error)
	PutIndexMappings(ctx context.Context, req *PutMappingRequest) error
	RefreshIndex(ctx context.Context, index string) error
	Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error)
	SendBulkRequest(ctx context.Context, items []BulkItem) ([]BulkItem, error)
}

// ClientConfig is the engine independent client configuration.
type ClientConfig struct {
	// Addresses of the cluster nodes, including the scheme.
	Addresses []string
	Username  string
	Password  string
	TLS       tls.Config
}

// Topology describes how the client spreads requests across the configured
// nodes.
type Topology uint

const (
	// SingleNode sends all requests to the one node configured, without
	// retries.
	SingleNode Topology = iota
	// MultiNode round robins requests across all the nodes configured, and
	// retries failed requests on the next node.
	MultiNode
)

func (t Topology) String() string {
	switch t {
	case SingleNode:
		return "single_node"
	case MultiNode:
		return "multi_node"
	default:
		return ""
	}
}

var errNoAddresses = errors.New("no address provided")

const defaultResponseHeaderTimeout = 30 * time.Second

// Topology returns the client topology derived from the number of addresses.
func (c *ClientConfig) Topology() Topology {
	if len(c.Addresses) > 1 {
		return MultiNode
	}
	return SingleNode
}

// MaxRetries returns the number of retries on a failed request, one per
// additional node in a multi node topology.
func (c *ClientConfig) MaxRetries() int {
	if c.Topology() == SingleNode {
		return 0
	}
	return len(c.Addresses) - 1
}

func (c *ClientConfig) Validate() error {
	if len(c.Addresses) == 0 {
		return errNoAddresses
	}
	for _, address := range c.Addresses {
		u, err := url.Parse(address)
		if err != nil {
			return fmt.Errorf("invalid address %q: %w", address, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("invalid address %q: scheme and host are required", address)
		}
	}
	return nil
}

// Transport returns the http transport for the client, using the TLS
// configuration when enabled.
func (c *ClientConfig) Transport() (*http.Transport, error) {
	transport := http.DefaultTransport.(*http.Transport).Clone()
	transport.ResponseHeaderTimeout = defaultResponseHeaderTimeout

	tlsConfig, err := tls.NewConfig(&c.TLS)
	if err != nil {
		return nil, fmt.Errorf("building TLS configuration: %w", err)
	}
	if tlsConfig != nil {
		transport.TLSClientConfig = tlsConfig
	}
	return transport, nil
}

func Ptr[T any](i T) *T { return &i }

// CreateReader returns a reader on the JSON representation of the given value.
func CreateReader(value any) (*bytes.Reader, error) {
	bytesValue, err := json.Marshal(value)
	if err != nil {
		return nil, fmt.Errorf("unexpected marshaling error: %w", err)
	}
	return bytes.NewReader(bytesValue), nil
}

// VerifyResponse returns the bulk items that the bulk response reports as
// failed, with their status and error.
func VerifyResponse(bodyBytes []byte, items []BulkItem) (failed []BulkItem, err error) {
	var response BulkResponse

	if err := json.Unmarshal(bodyBytes, &response); err != nil {
		return nil, fmt.Errorf("error unmarshaling response from search store: %w (%s)", err, bodyBytes)
	}

	if !response.Errors {
		return []BulkItem{}, nil
	}

	if len(response.Items) != len(items) {
		return nil, fmt.Errorf("bulk response has %d items, %d were sent", len(response.Items), len(items))
	}

	failed = []BulkItem{}
	for i, respItem := range response.Items {
		if respItem.Index.Status > 299 {
			items[i].Status = respItem.Index.Status
			items[i].Error = respItem.Index.Error
			failed = append(failed, items[i])
		}
	}

	return failed, nil
}

// NewBulkRequest returns the raw http request for a bulk write of the items on
// input.
func NewBulkRequest(ctx context.Context, items []BulkItem) (*http.Request, error) {
	buffer := new(bytes.Buffer)
	if err := EncodeBulkItems(buffer, items); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, "/_bulk", buffer)
	if err != nil {
		return nil, fmt.Errorf("new http request: %w", err)
	}
	req.Header.Add("Content-Type", "application/x-ndjson")
	return req, nil
}

// NewTypedMappingRequest returns the raw http request registering a mapping
// for a document type. The typed mapping endpoint isn't available in the
// client APIs since mapping types were removed from the engines.
func NewTypedMappingRequest(ctx context.Context, req *PutMappingRequest) (*http.Request, error) {
	reader, err := CreateReader(req.Body)
	if err != nil {
		return nil, err
	}

	path := fmt.Sprintf("/%s/_mapping/%s", url.PathEscape(req.Index), url.PathEscape(req.Type))
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPut, path, reader)
	if err != nil {
		return nil, fmt.Errorf("new http request: %w", err)
	}
	httpReq.Header.Add("Content-Type", "application/json")
	return httpReq, nil
}
