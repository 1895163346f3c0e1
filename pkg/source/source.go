// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"errors"

	"github.com/xataio/searchadapter/pkg/search"
)

// Reader produces the records of one collection for an indexing run.
type Reader interface {
	// Next returns the next record, or io.EOF once the source is exhausted.
	Next(ctx context.Context) (*search.Record, error)
	// Commit acknowledges all the records returned so far. It is called once
	// they have been written to the search index.
	Commit(ctx context.Context) error
	Close() error
}

var (
	ErrInvalidRecord = errors.New("invalid source record")
	ErrNoSource      = errors.New("collection has no source configured")
	ErrMultipleKinds = errors.New("only one source kind can be configured per collection")
)
