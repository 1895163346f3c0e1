// SPDX-License-Identifier: Apache-2.0

package kafka

import (
	"errors"
	"time"

	tlslib "github.com/xataio/searchadapter/pkg/tls"
)

type ReaderConfig struct {
	Servers         []string
	Topic           string
	ConsumerGroupID string
	// StartOffset is used when the consumer group has no committed offset,
	// either earliest (default) or latest.
	StartOffset string
	TLS         tlslib.Config
	// MaxBytes limits the size of a fetch. Defaults to 25MiB.
	MaxBytes int
	// DialTimeout defaults to 10s.
	DialTimeout time.Duration
}

const (
	earliestOffset = "earliest"
	latestOffset   = "latest"

	defaultMaxBytes    = 25 * 1024 * 1024
	defaultDialTimeout = 10 * time.Second
)

var (
	errNoServers      = errors.New("at least one kafka server is required")
	errTopicMissing   = errors.New("kafka topic is required")
	errGroupIDMissing = errors.New("kafka consumer group id is required")
)

func (c *ReaderConfig) validate() error {
	switch {
	case len(c.Servers) == 0:
		return errNoServers
	case c.Topic == "":
		return errTopicMissing
	case c.ConsumerGroupID == "":
		return errGroupIDMissing
	}
	return nil
}

func (c *ReaderConfig) maxBytes() int {
	if c.MaxBytes > 0 {
		return c.MaxBytes
	}
	return defaultMaxBytes
}

func (c *ReaderConfig) dialTimeout() time.Duration {
	if c.DialTimeout > 0 {
		return c.DialTimeout
	}
	return defaultDialTimeout
}
