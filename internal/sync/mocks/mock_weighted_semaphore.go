// SPDX-License-Identifier: Apache-2.0

package mocks

import (
	"context"
	"sync/atomic"
)

type WeightedSemaphore struct {
	AcquireFn    func(context.Context, int64) error
	ReleaseFn    func(int64)
	acquireCalls atomic.Int64
	releaseCalls atomic.Int64
}

func (m *WeightedSemaphore) Acquire(ctx context.Context, n int64) error {
	m.acquireCalls.Add(1)
	if m.AcquireFn != nil {
		return m.AcquireFn(ctx, n)
	}
	return nil
}

func (m *WeightedSemaphore) Release(n int64) {
	m.releaseCalls.Add(1)
	if m.ReleaseFn != nil {
		m.ReleaseFn(n)
	}
}

func (m *WeightedSemaphore) AcquireCalls() int64 {
	return m.acquireCalls.Load()
}

func (m *WeightedSemaphore) ReleaseCalls() int64 {
	return m.releaseCalls.Load()
}
