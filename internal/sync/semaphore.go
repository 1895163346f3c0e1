// SPDX-License-Identifier: Apache-2.0

package sync

import (
	"context"

	"golang.org/x/sync/semaphore"
)

// WeightedSemaphore bounds the number of concurrent operations holding a
// share of a limited resource.
type WeightedSemaphore interface {
	Acquire(ctx context.Context, n int64) error
	Release(n int64)
}

func NewWeightedSemaphore(size int64) WeightedSemaphore {
	return semaphore.NewWeighted(size)
}
