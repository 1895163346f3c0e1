// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Pool is a pgx connection pool with the driver errors mapped to the package
// errors.
type Pool struct {
	*pgxpool.Pool
}

const (
	connectTimeout    = 30 * time.Second
	keepAliveInterval = 15 * time.Second
)

func NewConnPool(ctx context.Context, url string) (*Pool, error) {
	pgCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("failed parsing postgres connection string: %w", mapError(err))
	}

	// detect broken connections instead of blocking the source forever
	pgCfg.ConnConfig.ConnectTimeout = connectTimeout
	pgCfg.ConnConfig.DialFunc = (&net.Dialer{
		Timeout: connectTimeout,
		KeepAliveConfig: net.KeepAliveConfig{
			Enable:   true,
			Idle:     keepAliveInterval,
			Interval: keepAliveInterval,
			Count:    9,
		},
	}).DialContext

	pool, err := pgxpool.NewWithConfig(ctx, pgCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create a postgres connection pool: %w", mapError(err))
	}

	return &Pool{Pool: pool}, nil
}

func (c *Pool) Query(ctx context.Context, query string, args ...any) (Rows, error) {
	rows, err := c.Pool.Query(ctx, query, args...)
	return rows, mapError(err)
}

func (c *Pool) Ping(ctx context.Context) error {
	return mapError(c.Pool.Ping(ctx))
}

func (c *Pool) Close(context.Context) error {
	c.Pool.Close()
	return nil
}
