// SPDX-License-Identifier: Apache-2.0

package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"github.com/xataio/searchadapter/internal/testcontainers"
)

var (
	elasticsearchNode testcontainers.SearchNode
	opensearchNode    testcontainers.SearchNode
	kafkaBrokers      []string
	pgurl             string
)

func TestMain(m *testing.M) {
	os.Exit(run(m))
}

func run(m *testing.M) int {
	// if integration tests are not enabled, nothing to setup
	if !integrationTestsEnabled() {
		return m.Run()
	}

	ctx := context.Background()
	cleanups := []testcontainers.Cleanup{}
	defer func() {
		for _, cleanup := range cleanups {
			if err := cleanup(); err != nil {
				log.Println(err)
			}
		}
	}()

	setups := []func() (testcontainers.Cleanup, error){
		func() (testcontainers.Cleanup, error) {
			return testcontainers.SetupElasticsearchContainer(ctx, &elasticsearchNode)
		},
		func() (testcontainers.Cleanup, error) {
			return testcontainers.SetupOpenSearchContainer(ctx, &opensearchNode)
		},
		func() (testcontainers.Cleanup, error) {
			return testcontainers.SetupKafkaContainer(ctx, &kafkaBrokers)
		},
		func() (testcontainers.Cleanup, error) {
			return testcontainers.SetupPostgresContainer(ctx, &pgurl, "testdata/authors.sql")
		},
	}
	for _, setup := range setups {
		cleanup, err := setup()
		if err != nil {
			log.Println(err)
			return 1
		}
		cleanups = append(cleanups, cleanup)
	}

	return m.Run()
}
