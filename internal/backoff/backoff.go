// SPDX-License-Identifier: Apache-2.0

package backoff

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Backoff retries an operation following a retry policy.
type Backoff interface {
	RetryNotify(Operation, Notify) error
	Retry(Operation) error
}

type (
	Operation func() error
	// Notify is called with the error and the wait time before each retry.
	Notify func(error, time.Duration)
)

type Config struct {
	Exponential *ExponentialConfig
	Constant    *ConstantConfig
}

type ExponentialConfig struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	// MaxElapsedTime stops the retries once reached. Zero means no limit.
	MaxElapsedTime time.Duration
	MaxRetries     uint
}

type ConstantConfig struct {
	Interval   time.Duration
	MaxRetries uint
}

// ErrPermanent stops the retries when returned (or wrapped) by an operation.
var ErrPermanent = errors.New("permanent error, do not retry")

type Provider func(ctx context.Context) Backoff

// NewProvider returns a provider for the configured policy. Without a policy,
// operations are attempted once.
func NewProvider(cfg *Config) Provider {
	switch {
	case cfg == nil:
	case cfg.Constant != nil:
		return func(ctx context.Context) Backoff {
			return NewConstantBackoff(ctx, cfg.Constant)
		}
	case cfg.Exponential != nil:
		return func(ctx context.Context) Backoff {
			return NewExponentialBackoff(ctx, cfg.Exponential)
		}
	}
	return func(context.Context) Backoff {
		return NewStopBackoff()
	}
}

// Retrier wraps a cenkalti backoff policy.
type Retrier struct {
	policy backoff.BackOff
}

func NewExponentialBackoff(ctx context.Context, cfg *ExponentialConfig) *Retrier {
	exp := backoff.NewExponentialBackOff()
	if cfg.InitialInterval > 0 {
		exp.InitialInterval = cfg.InitialInterval
	}
	if cfg.MaxInterval > 0 {
		exp.MaxInterval = cfg.MaxInterval
	}
	exp.MaxElapsedTime = cfg.MaxElapsedTime
	return newRetrier(ctx, exp, cfg.MaxRetries)
}

func NewConstantBackoff(ctx context.Context, cfg *ConstantConfig) *Retrier {
	return newRetrier(ctx, backoff.NewConstantBackOff(cfg.Interval), cfg.MaxRetries)
}

// NewStopBackoff never retries.
func NewStopBackoff() *Retrier {
	return &Retrier{policy: &backoff.StopBackOff{}}
}

func newRetrier(ctx context.Context, policy backoff.BackOff, maxRetries uint) *Retrier {
	if maxRetries > 0 {
		policy = backoff.WithMaxRetries(policy, uint64(maxRetries))
	}
	return &Retrier{
		policy: backoff.WithContext(policy, ctx),
	}
}

func (r *Retrier) Retry(op Operation) error {
	return r.RetryNotify(op, nil)
}

func (r *Retrier) RetryNotify(op Operation, notify Notify) error {
	r.policy.Reset()
	return backoff.RetryNotify(func() error {
		err := op()
		if errors.Is(err, ErrPermanent) {
			return backoff.Permanent(err)
		}
		return err
	}, r.policy, backoff.Notify(notify))
}
