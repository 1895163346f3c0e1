// SPDX-License-Identifier: Apache-2.0

package testcontainers

import (
	"context"
	"fmt"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/elasticsearch"
	"github.com/testcontainers/testcontainers-go/modules/opensearch"
)

const (
	elasticsearchImage = "docker.elastic.co/elasticsearch/elasticsearch:8.9.0"
	opensearchImage    = "opensearchproject/opensearch:2.11.1"
)

// SearchNode is the address of a single node search cluster.
type SearchNode struct {
	Host string
	Port int
}

func SetupElasticsearchContainer(ctx context.Context, node *SearchNode) (Cleanup, error) {
	ctr, err := elasticsearch.Run(ctx, elasticsearchImage,
		testcontainers.WithEnv(map[string]string{
			// plain http, no credentials
			"xpack.security.enabled": "false",
		}))
	if err != nil {
		return nil, fmt.Errorf("failed to start elasticsearch container: %w", err)
	}
	cleanup := terminate(ctx, ctr)

	node.Host, node.Port, err = hostPort(ctr.Settings.Address)
	if err != nil {
		cleanup()
		return nil, err
	}
	return cleanup, nil
}

func SetupOpenSearchContainer(ctx context.Context, node *SearchNode) (Cleanup, error) {
	ctr, err := opensearch.Run(ctx, opensearchImage)
	if err != nil {
		return nil, fmt.Errorf("failed to start opensearch container: %w", err)
	}
	cleanup := terminate(ctx, ctr)

	address, err := ctr.Address(ctx)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("retrieving address for opensearch container: %w", err)
	}
	node.Host, node.Port, err = hostPort(address)
	if err != nil {
		cleanup()
		return nil, err
	}
	return cleanup, nil
}
