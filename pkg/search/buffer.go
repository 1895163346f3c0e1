// SPDX-License-Identifier: Apache-2.0

package search

import (
	"context"
)

// Buffer accumulates the documents of a single indexing run until they are
// flushed. It is not safe for concurrent use.
type Buffer struct {
	pending []Document
}

func NewBuffer() *Buffer {
	return &Buffer{
		pending: []Document{},
	}
}

func (b *Buffer) Append(doc Document) {
	b.pending = append(b.pending, doc)
}

func (b *Buffer) Len() int {
	return len(b.pending)
}

// Pending returns a copy of the buffered documents, in append order.
func (b *Buffer) Pending() []Document {
	docs := make([]Document, len(b.pending))
	copy(docs, b.pending)
	return docs
}

// Flush writes all the pending documents in one bulk request and refreshes the
// index so they're visible to search. The buffer is only cleared if both
// operations succeed. An empty buffer performs no engine calls.
func (b *Buffer) Flush(ctx context.Context, sink Sink, index string) error {
	if len(b.pending) == 0 {
		return nil
	}

	if err := sink.BulkWrite(ctx, b.pending); err != nil {
		return &FlushError{Index: index, Pending: len(b.pending), Err: err}
	}

	if err := sink.Refresh(ctx, index); err != nil {
		return &FlushError{Index: index, Pending: len(b.pending), Err: err}
	}

	b.pending = []Document{}
	return nil
}
