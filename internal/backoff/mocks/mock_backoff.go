// SPDX-License-Identifier: Apache-2.0

package mocks

import "github.com/xataio/searchadapter/internal/backoff"

type Backoff struct {
	RetryNotifyFn func(backoff.Operation, backoff.Notify) error
}

func (m *Backoff) RetryNotify(op backoff.Operation, notify backoff.Notify) error {
	return m.RetryNotifyFn(op, notify)
}

func (m *Backoff) Retry(op backoff.Operation) error {
	return m.RetryNotifyFn(op, nil)
}
