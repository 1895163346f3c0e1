// SPDX-License-Identifier: Apache-2.0

package testcontainers

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

const postgresImage = "postgres:17-alpine"

// SetupPostgresContainer starts a postgres container, running the init
// scripts on input once the database is created.
func SetupPostgresContainer(ctx context.Context, url *string, initScripts ...string) (Cleanup, error) {
	ctr, err := postgres.Run(ctx, postgresImage,
		postgres.WithInitScripts(initScripts...),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start postgres container: %w", err)
	}
	cleanup := terminate(ctx, ctr)

	*url, err = ctr.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("retrieving connection string for postgres container: %w", err)
	}
	return cleanup, nil
}
