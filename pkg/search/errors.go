// SPDX-License-Identifier: Apache-2.0

package search

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration is returned when the adapter or the engine client can't
	// be built from the configuration provided.
	ErrConfiguration = errors.New("invalid search configuration")

	ErrNoEndpoints   = fmt.Errorf("%w: at least one endpoint is required", ErrConfiguration)
	ErrIndexMissing  = fmt.Errorf("%w: an index name is required", ErrConfiguration)
	ErrNilSink       = fmt.Errorf("%w: a search sink is required", ErrConfiguration)
	errRunFlushing   = errors.New("run is flushing, documents can't be appended")
	errNilCollection = errors.New("collection is required")
)

// FlushError is returned when the buffered documents could not be written to
// the search engine. The buffer is left untouched, so the flush can be retried
// with the same pending documents.
type FlushError struct {
	Index   string
	Pending int
	Err     error
}

func (e *FlushError) Error() string {
	return fmt.Sprintf("flushing %d pending documents to index [%s]: %v", e.Pending, e.Index, e.Err)
}

func (e *FlushError) Unwrap() error {
	return e.Err
}

// BulkError reports the documents rejected by the search engine on a bulk
// write that otherwise succeeded at the transport level.
type BulkError struct {
	Total  int
	Failed int
	// Reason is the error reported for the first failed document.
	Reason string
}

func (e *BulkError) Error() string {
	return fmt.Sprintf("bulk write: %d of %d documents failed: %s", e.Failed, e.Total, e.Reason)
}
