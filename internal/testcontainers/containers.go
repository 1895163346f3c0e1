// SPDX-License-Identifier: Apache-2.0

package testcontainers

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/testcontainers/testcontainers-go"
)

// Cleanup terminates the container it was returned with.
type Cleanup func() error

func terminate(ctx context.Context, ctr testcontainers.Container) Cleanup {
	return func() error {
		return ctr.Terminate(ctx)
	}
}

// hostPort splits a container http address into its host and port.
func hostPort(address string) (string, int, error) {
	u, err := url.Parse(address)
	if err != nil {
		return "", 0, fmt.Errorf("parsing container address %q: %w", address, err)
	}
	port, err := strconv.Atoi(u.Port())
	if err != nil {
		return "", 0, fmt.Errorf("parsing container port %q: %w", address, err)
	}
	return u.Hostname(), port, nil
}
