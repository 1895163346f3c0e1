// SPDX-License-Identifier: Apache-2.0

package indexer

import (
	"errors"
	"fmt"

	"github.com/xataio/searchadapter/internal/backoff"
	"github.com/xataio/searchadapter/pkg/schema"
	"github.com/xataio/searchadapter/pkg/search"
	"github.com/xataio/searchadapter/pkg/search/store"
	"github.com/xataio/searchadapter/pkg/source"
	"github.com/xataio/searchadapter/pkg/tls"
)

type Config struct {
	Search SearchConfig
	// Backoff is the retry policy for the flush at the end of each run.
	// Without one, flushes are attempted once.
	Backoff backoff.Config
	// Concurrency is the number of collections indexed in parallel. Defaults
	// to one.
	Concurrency int
	// MaxConcurrentFlushes bounds the bulk writes in flight across runs.
	// Defaults to Concurrency.
	MaxConcurrentFlushes int64
}

type SearchConfig struct {
	Engine        store.Engine
	Endpoints     []search.Endpoint
	Index         string
	Username      string
	Password      string
	TLS           tls.Config
	MappingFormat store.MappingFormat
	IndexSettings map[string]any
	// DateFormat is the layout dates are normalized to. Defaults to
	// 2006-01-02T15:04:05Z.
	DateFormat string
	// DocumentIDs selects the generator for records without an id: xid,
	// uuid, or empty to let the engine assign them.
	DocumentIDs string
}

// Collection is a collection and the source its records are read from.
type Collection struct {
	*schema.Collection
	Source *source.Config
}

const (
	DocumentIDsXID  = "xid"
	DocumentIDsUUID = "uuid"
)

var errUnsupportedDocumentIDs = errors.New("unsupported document ids generator")

func (c *Config) concurrency() int {
	if c.Concurrency > 0 {
		return c.Concurrency
	}
	return 1
}

func (c *Config) maxConcurrentFlushes() int64 {
	if c.MaxConcurrentFlushes > 0 {
		return c.MaxConcurrentFlushes
	}
	return int64(c.concurrency())
}

func (c *SearchConfig) storeConfig() store.Config {
	return store.Config{
		Engine:        c.Engine,
		Endpoints:     c.Endpoints,
		Username:      c.Username,
		Password:      c.Password,
		TLS:           c.TLS,
		MappingFormat: c.MappingFormat,
	}
}

func (c *SearchConfig) adapterConfig() search.Config {
	return search.Config{
		Endpoints:     c.Endpoints,
		Index:         c.Index,
		IndexSettings: c.IndexSettings,
	}
}

func (c *SearchConfig) idGenerator() (search.IDGenerator, error) {
	switch c.DocumentIDs {
	case "":
		return nil, nil
	case DocumentIDsXID:
		return search.XIDGenerator{}, nil
	case DocumentIDsUUID:
		return search.UUIDGenerator{}, nil
	default:
		return nil, fmt.Errorf("%w: %w: %q", search.ErrConfiguration, errUnsupportedDocumentIDs, c.DocumentIDs)
	}
}
