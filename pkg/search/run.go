// SPDX-License-Identifier: Apache-2.0

package search

import (
	"context"

	loglib "github.com/xataio/searchadapter/pkg/log"
	"github.com/xataio/searchadapter/pkg/schema"
)

// Run is a single indexing run over one collection. Documents are buffered as
// they are produced and written to the search engine when the run completes.
// A run is not safe for concurrent use.
type Run struct {
	adapter    *Adapter
	logger     loglib.Logger
	collection *schema.Collection
	docType    string
	buffer     *Buffer
	state      RunState
}

type RunState uint

const (
	RunStateIdle RunState = iota
	RunStateIndexing
	RunStateFlushing
)

func (s RunState) String() string {
	switch s {
	case RunStateIdle:
		return "idle"
	case RunStateIndexing:
		return "indexing"
	case RunStateFlushing:
		return "flushing"
	default:
		return ""
	}
}

func (r *Run) State() RunState {
	return r.state
}

// Pending returns the number of documents waiting to be flushed.
func (r *Run) Pending() int {
	return r.buffer.Len()
}

func (r *Run) Collection() *schema.Collection {
	return r.collection
}

// OnDocumentIndexed builds the document for the record and appends it to the
// run buffer.
func (r *Run) OnDocumentIndexed(record Record) error {
	if r.state == RunStateFlushing {
		return errRunFlushing
	}
	r.buffer.Append(r.adapter.buildDocument(r.collection, r.docType, record))
	r.state = RunStateIndexing
	return nil
}

// OnRunComplete flushes the buffered documents and refreshes the index. On
// failure the documents are kept so the call can be retried.
func (r *Run) OnRunComplete(ctx context.Context) error {
	pending := r.buffer.Len()
	if pending == 0 {
		r.state = RunStateIdle
		return nil
	}

	r.state = RunStateFlushing
	if err := r.buffer.Flush(ctx, r.adapter.sink, r.adapter.index); err != nil {
		r.state = RunStateIndexing
		r.logger.Error(err, "flushing indexing run", loglib.Fields{"pending": pending})
		return err
	}

	r.state = RunStateIdle
	r.logger.Info("indexing run flushed", loglib.Fields{"documents": pending})
	return nil
}
