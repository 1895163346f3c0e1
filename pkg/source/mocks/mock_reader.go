// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"io"
	"sync/atomic"

	"github.com/xataio/searchadapter/pkg/search"
)

type Reader struct {
	NextFn      func(ctx context.Context, i uint) (*search.Record, error)
	CommitFn    func(ctx context.Context) error
	CloseFn     func() error
	nextCalls   uint
	commitCalls atomic.Uint64
	closeCalls  atomic.Uint64
}

// NewRecordsReader returns a reader producing the records on input, followed
// by io.EOF.
func NewRecordsReader(records ...*search.Record) *Reader {
	return &Reader{
		NextFn: func(_ context.Context, i uint) (*search.Record, error) {
			if int(i) > len(records) {
				return nil, io.EOF
			}
			return records[i-1], nil
		},
	}
}

func (m *Reader) Next(ctx context.Context) (*search.Record, error) {
	m.nextCalls++
	return m.NextFn(ctx, m.nextCalls)
}

func (m *Reader) Commit(ctx context.Context) error {
	m.commitCalls.Add(1)
	if m.CommitFn != nil {
		return m.CommitFn(ctx)
	}
	return nil
}

func (m *Reader) Close() error {
	m.closeCalls.Add(1)
	if m.CloseFn != nil {
		return m.CloseFn()
	}
	return nil
}

func (m *Reader) CommitCalls() uint64 {
	return m.commitCalls.Load()
}

func (m *Reader) CloseCalls() uint64 {
	return m.closeCalls.Load()
}
