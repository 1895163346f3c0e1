// SPDX-License-Identifier: Apache-2.0

package otel

import "time"

// Config enables metrics and/or traces export. A nil section disables the
// corresponding signal.
type Config struct {
	Metrics *MetricsConfig
	Traces  *TracesConfig
}

type MetricsConfig struct {
	Endpoint           string
	CollectionInterval time.Duration
}

type TracesConfig struct {
	Endpoint    string
	SampleRatio float64
}

const (
	defaultCollectionInterval = 60 * time.Second
	shutdownTimeout           = 5 * time.Second
)

func (c *Config) enabled() bool {
	return c != nil && (c.Metrics != nil || c.Traces != nil)
}

func (c *MetricsConfig) collectionInterval() time.Duration {
	if c.CollectionInterval > 0 {
		return c.CollectionInterval
	}
	return defaultCollectionInterval
}

func (c *TracesConfig) sampleRatio() float64 {
	switch {
	case c.SampleRatio <= 0:
		return 0
	case c.SampleRatio > 1:
		return 1
	default:
		return c.SampleRatio
	}
}
