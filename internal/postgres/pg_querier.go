// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier is the read side of a postgres connection used by the sources.
type Querier interface {
	Query(ctx context.Context, query string, args ...any) (Rows, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type Rows = pgx.Rows
