// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"
	"net"
	"strconv"

	"github.com/xataio/searchadapter/internal/searchstore"
	"github.com/xataio/searchadapter/pkg/search"
	"github.com/xataio/searchadapter/pkg/tls"
)

type Config struct {
	Engine        Engine
	Endpoints     []search.Endpoint
	Username      string
	Password      string
	TLS           tls.Config
	MappingFormat MappingFormat
}

type Engine string

const (
	EngineElasticsearch Engine = "elasticsearch"
	EngineOpenSearch    Engine = "opensearch"
)

const defaultPort = 9200

// ParseEngine returns the engine for the name on input. An empty name defaults
// to elasticsearch.
func ParseEngine(name string) (Engine, error) {
	switch Engine(name) {
	case "", EngineElasticsearch:
		return EngineElasticsearch, nil
	case EngineOpenSearch:
		return EngineOpenSearch, nil
	default:
		return "", fmt.Errorf("%w: unsupported search engine %q", search.ErrConfiguration, name)
	}
}

// Topology returns the client topology for the configured endpoints.
func (c *Config) Topology() searchstore.Topology {
	return c.clientConfig().Topology()
}

func (c *Config) clientConfig() *searchstore.ClientConfig {
	scheme := "http"
	if c.TLS.Enabled {
		scheme = "https"
	}

	addresses := make([]string, 0, len(c.Endpoints))
	for _, e := range c.Endpoints {
		port := e.Port
		if port == 0 {
			port = defaultPort
		}
		addresses = append(addresses, fmt.Sprintf("%s://%s", scheme, net.JoinHostPort(e.Host, strconv.Itoa(port))))
	}

	return &searchstore.ClientConfig{
		Addresses: addresses,
		Username:  c.Username,
		Password:  c.Password,
		TLS:       c.TLS,
	}
}
