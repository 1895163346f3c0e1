// SPDX-License-Identifier: Apache-2.0

package search

import (
	"fmt"
)

// Endpoint identifies one node of the search cluster and the index the
// adapter writes to.
type Endpoint struct {
	Host  string
	Port  int
	Index string
}

type Config struct {
	Endpoints []Endpoint
	// Index overrides the active index derived from the endpoints. If not
	// provided, the index of the last endpoint is used.
	Index string
	// IndexSettings are merged on top of the default index settings when
	// creating the index.
	IndexSettings map[string]any
}

const (
	defaultNumberOfShards   = 4
	defaultNumberOfReplicas = 1
)

// Validate makes sure there's at least one endpoint and an active index.
func (c *Config) Validate() error {
	if len(c.Endpoints) == 0 {
		return ErrNoEndpoints
	}
	if c.ActiveIndex() == "" {
		return ErrIndexMissing
	}
	return nil
}

// ActiveIndex returns the index being written to/deleted from.
func (c *Config) ActiveIndex() string {
	if c.Index != "" {
		return c.Index
	}
	index := ""
	for _, e := range c.Endpoints {
		if e.Index != "" {
			index = e.Index
		}
	}
	return index
}

func (e Endpoint) String() string {
	return fmt.Sprintf("%s:%d/%s", e.Host, e.Port, e.Index)
}

func (c *Config) indexSettings(settings map[string]any) map[string]any {
	merged := map[string]any{
		"number_of_shards":   defaultNumberOfShards,
		"number_of_replicas": defaultNumberOfReplicas,
	}
	for k, v := range c.IndexSettings {
		merged[k] = v
	}
	for k, v := range settings {
		merged[k] = v
	}
	return merged
}
