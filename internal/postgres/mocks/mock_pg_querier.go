// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"

	"github.com/xataio/searchadapter/internal/postgres"
)

type Querier struct {
	QueryFn func(ctx context.Context, query string, args ...any) (postgres.Rows, error)
	PingFn  func(ctx context.Context) error
	CloseFn func(ctx context.Context) error
}

func (m *Querier) Query(ctx context.Context, query string, args ...any) (postgres.Rows, error) {
	return m.QueryFn(ctx, query, args...)
}

func (m *Querier) Ping(ctx context.Context) error {
	if m.PingFn != nil {
		return m.PingFn(ctx)
	}
	return nil
}

func (m *Querier) Close(ctx context.Context) error {
	if m.CloseFn != nil {
		return m.CloseFn(ctx)
	}
	return nil
}
