// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/xataio/searchadapter/internal/backoff"
	"github.com/xataio/searchadapter/pkg/indexer"
	"github.com/xataio/searchadapter/pkg/otel"
	"github.com/xataio/searchadapter/pkg/schema"
	"github.com/xataio/searchadapter/pkg/search"
	"github.com/xataio/searchadapter/pkg/search/store"
	"github.com/xataio/searchadapter/pkg/tls"
)

type YAMLConfig struct {
	Search          SearchConfig            `mapstructure:"search" yaml:"search"`
	Indexer         IndexerConfig           `mapstructure:"indexer" yaml:"indexer"`
	Collections     []schema.CollectionFile `mapstructure:"collections" yaml:"collections"`
	CollectionsFile string                  `mapstructure:"collections_file" yaml:"collections_file"`
	Instrumentation InstrumentationConfig   `mapstructure:"instrumentation" yaml:"instrumentation"`
}

type SearchConfig struct {
	Engine        string           `mapstructure:"engine" yaml:"engine"`
	Endpoints     []EndpointConfig `mapstructure:"endpoints" yaml:"endpoints"`
	Index         string           `mapstructure:"index" yaml:"index"`
	Username      string           `mapstructure:"username" yaml:"username"`
	Password      string           `mapstructure:"password" yaml:"password"`
	TLS           *TLSConfig       `mapstructure:"tls" yaml:"tls"`
	MappingFormat string           `mapstructure:"mapping_format" yaml:"mapping_format"`
	DateFormat    string           `mapstructure:"date_format" yaml:"date_format"`
	DocumentIDs   string           `mapstructure:"document_ids" yaml:"document_ids"`
	IndexSettings map[string]any   `mapstructure:"index_settings" yaml:"index_settings"`
}

type EndpointConfig struct {
	Host  string `mapstructure:"host" yaml:"host"`
	Port  int    `mapstructure:"port" yaml:"port"`
	Index string `mapstructure:"index" yaml:"index"`
}

type TLSConfig struct {
	Enabled            bool   `mapstructure:"enabled" yaml:"enabled"`
	CACert             string `mapstructure:"ca_cert" yaml:"ca_cert"`
	ClientCert         string `mapstructure:"client_cert" yaml:"client_cert"`
	ClientKey          string `mapstructure:"client_key" yaml:"client_key"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify" yaml:"insecure_skip_verify"`
}

type IndexerConfig struct {
	Concurrency          int            `mapstructure:"concurrency" yaml:"concurrency"`
	MaxConcurrentFlushes int64          `mapstructure:"max_concurrent_flushes" yaml:"max_concurrent_flushes"`
	Backoff              *BackoffConfig `mapstructure:"backoff" yaml:"backoff"`
}

type BackoffConfig struct {
	Exponential *ExponentialBackoffConfig `mapstructure:"exponential" yaml:"exponential"`
	Constant    *ConstantBackoffConfig    `mapstructure:"constant" yaml:"constant"`
}

type ExponentialBackoffConfig struct {
	MaxRetries      uint          `mapstructure:"max_retries" yaml:"max_retries"`
	InitialInterval time.Duration `mapstructure:"initial_interval" yaml:"initial_interval"`
	MaxInterval     time.Duration `mapstructure:"max_interval" yaml:"max_interval"`
	MaxElapsedTime  time.Duration `mapstructure:"max_elapsed_time" yaml:"max_elapsed_time"`
}

type ConstantBackoffConfig struct {
	MaxRetries uint          `mapstructure:"max_retries" yaml:"max_retries"`
	Interval   time.Duration `mapstructure:"interval" yaml:"interval"`
}

type InstrumentationConfig struct {
	Metrics *MetricsConfig `mapstructure:"metrics" yaml:"metrics"`
	Traces  *TracesConfig  `mapstructure:"traces" yaml:"traces"`
}

type MetricsConfig struct {
	Endpoint           string        `mapstructure:"endpoint" yaml:"endpoint"`
	CollectionInterval time.Duration `mapstructure:"collection_interval" yaml:"collection_interval"`
}

type TracesConfig struct {
	Endpoint    string  `mapstructure:"endpoint" yaml:"endpoint"`
	SampleRatio float64 `mapstructure:"sample_ratio" yaml:"sample_ratio"`
}

var (
	errAmbiguousBackoff    = errors.New("only one of exponential or constant backoff can be configured")
	errMetricsEndpoint     = errors.New("metrics endpoint is required when metrics are configured")
	errTracesEndpoint      = errors.New("traces endpoint is required when traces are configured")
	errInvalidSampleRatio  = errors.New("traces sample ratio must be between 0 and 1")
	errInvalidEndpointPort = errors.New("endpoint port must be between 0 and 65535")
)

func (c *YAMLConfig) toIndexerConfig() (*indexer.Config, error) {
	searchCfg, err := c.Search.toSearchConfig()
	if err != nil {
		return nil, fmt.Errorf("parsing search config: %w", err)
	}
	backoffCfg, err := c.Indexer.Backoff.toBackoffConfig()
	if err != nil {
		return nil, fmt.Errorf("parsing indexer config: %w", err)
	}
	return &indexer.Config{
		Search:               *searchCfg,
		Backoff:              backoffCfg,
		Concurrency:          c.Indexer.Concurrency,
		MaxConcurrentFlushes: c.Indexer.MaxConcurrentFlushes,
	}, nil
}

func (c *SearchConfig) toSearchConfig() (*indexer.SearchConfig, error) {
	engine, err := store.ParseEngine(c.Engine)
	if err != nil {
		return nil, err
	}
	mappingFormat, err := store.ParseMappingFormat(c.MappingFormat)
	if err != nil {
		return nil, err
	}

	endpoints := make([]search.Endpoint, 0, len(c.Endpoints))
	for _, e := range c.Endpoints {
		if e.Port < 0 || e.Port > 65535 {
			return nil, fmt.Errorf("%w: %d", errInvalidEndpointPort, e.Port)
		}
		endpoints = append(endpoints, search.Endpoint{
			Host:  e.Host,
			Port:  e.Port,
			Index: e.Index,
		})
	}

	return &indexer.SearchConfig{
		Engine:        engine,
		Endpoints:     endpoints,
		Index:         c.Index,
		Username:      c.Username,
		Password:      c.Password,
		TLS:           c.TLS.toTLSConfig(),
		MappingFormat: mappingFormat,
		IndexSettings: c.IndexSettings,
		DateFormat:    c.DateFormat,
		DocumentIDs:   c.DocumentIDs,
	}, nil
}

func (t *TLSConfig) toTLSConfig() tls.Config {
	if t == nil {
		return tls.Config{}
	}
	return tls.Config{
		Enabled:            t.Enabled,
		CaCertFile:         t.CACert,
		ClientCertFile:     t.ClientCert,
		ClientKeyFile:      t.ClientKey,
		InsecureSkipVerify: t.InsecureSkipVerify,
	}
}

func (bo *BackoffConfig) toBackoffConfig() (backoff.Config, error) {
	if bo == nil {
		return backoff.Config{}, nil
	}
	if bo.Exponential != nil && bo.Constant != nil {
		return backoff.Config{}, errAmbiguousBackoff
	}

	cfg := backoff.Config{}
	if bo.Exponential != nil {
		cfg.Exponential = &backoff.ExponentialConfig{
			InitialInterval: bo.Exponential.InitialInterval,
			MaxInterval:     bo.Exponential.MaxInterval,
			MaxElapsedTime:  bo.Exponential.MaxElapsedTime,
			MaxRetries:      bo.Exponential.MaxRetries,
		}
	}
	if bo.Constant != nil {
		cfg.Constant = &backoff.ConstantConfig{
			Interval:   bo.Constant.Interval,
			MaxRetries: bo.Constant.MaxRetries,
		}
	}
	return cfg, nil
}

func (c *InstrumentationConfig) toOtelConfig() (*otel.Config, error) {
	cfg := &otel.Config{}
	if c.Metrics != nil {
		if c.Metrics.Endpoint == "" {
			return nil, errMetricsEndpoint
		}
		cfg.Metrics = &otel.MetricsConfig{
			Endpoint:           c.Metrics.Endpoint,
			CollectionInterval: c.Metrics.CollectionInterval,
		}
	}
	if c.Traces != nil {
		if c.Traces.Endpoint == "" {
			return nil, errTracesEndpoint
		}
		if c.Traces.SampleRatio < 0 || c.Traces.SampleRatio > 1 {
			return nil, errInvalidSampleRatio
		}
		cfg.Traces = &otel.TracesConfig{
			Endpoint:    c.Traces.Endpoint,
			SampleRatio: c.Traces.SampleRatio,
		}
	}
	return cfg, nil
}
