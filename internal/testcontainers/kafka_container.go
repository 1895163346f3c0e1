// SPDX-License-Identifier: Apache-2.0

package testcontainers

import (
	"context"
	"fmt"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
)

const kafkaImage = "confluentinc/confluent-local:7.5.0"

func SetupKafkaContainer(ctx context.Context, brokers *[]string) (Cleanup, error) {
	ctr, err := kafka.Run(ctx, kafkaImage,
		kafka.WithClusterID("searchadapter-test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("Kafka Server started").
				WithOccurrence(1).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to start kafka container: %w", err)
	}
	cleanup := terminate(ctx, ctr)

	*brokers, err = ctr.Brokers(ctx)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("retrieving brokers for kafka container: %w", err)
	}
	return cleanup, nil
}
