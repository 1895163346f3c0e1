// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/spf13/viper"
	"github.com/xataio/searchadapter/internal/backoff"
	"github.com/xataio/searchadapter/pkg/indexer"
	"github.com/xataio/searchadapter/pkg/otel"
	"github.com/xataio/searchadapter/pkg/search"
	"github.com/xataio/searchadapter/pkg/search/store"
	"github.com/xataio/searchadapter/pkg/tls"
)

var errInvalidEndpoint = errors.New("invalid search endpoint, expected host[:port][/index]")

func envConfigToIndexerConfig() (*indexer.Config, error) {
	searchCfg, err := parseSearchConfig()
	if err != nil {
		return nil, fmt.Errorf("parsing search config: %w", err)
	}
	backoffCfg := parseBackoffConfig("SEARCHADAPTER_INDEXER")
	if backoffCfg.Exponential != nil && backoffCfg.Constant != nil {
		return nil, errAmbiguousBackoff
	}
	return &indexer.Config{
		Search:               *searchCfg,
		Backoff:              backoffCfg,
		Concurrency:          viper.GetInt("SEARCHADAPTER_INDEXER_CONCURRENCY"),
		MaxConcurrentFlushes: viper.GetInt64("SEARCHADAPTER_INDEXER_MAX_CONCURRENT_FLUSHES"),
	}, nil
}

func parseSearchConfig() (*indexer.SearchConfig, error) {
	engine, err := store.ParseEngine(viper.GetString("SEARCHADAPTER_SEARCH_ENGINE"))
	if err != nil {
		return nil, err
	}
	mappingFormat, err := store.ParseMappingFormat(viper.GetString("SEARCHADAPTER_SEARCH_MAPPING_FORMAT"))
	if err != nil {
		return nil, err
	}
	endpoints, err := parseEndpoints(viper.GetString("SEARCHADAPTER_SEARCH_ENDPOINTS"))
	if err != nil {
		return nil, err
	}

	return &indexer.SearchConfig{
		Engine:        engine,
		Endpoints:     endpoints,
		Index:         viper.GetString("SEARCHADAPTER_SEARCH_INDEX"),
		Username:      viper.GetString("SEARCHADAPTER_SEARCH_USERNAME"),
		Password:      viper.GetString("SEARCHADAPTER_SEARCH_PASSWORD"),
		TLS:           parseTLSConfig("SEARCHADAPTER_SEARCH"),
		MappingFormat: mappingFormat,
		DateFormat:    viper.GetString("SEARCHADAPTER_SEARCH_DATE_FORMAT"),
		DocumentIDs:   viper.GetString("SEARCHADAPTER_SEARCH_DOCUMENT_IDS"),
	}, nil
}

// parseEndpoints parses a comma separated list of host[:port][/index]
// endpoints.
func parseEndpoints(s string) ([]search.Endpoint, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	endpoints := make([]search.Endpoint, 0, len(parts))
	for _, p := range parts {
		e, err := parseEndpoint(strings.TrimSpace(p))
		if err != nil {
			return nil, err
		}
		endpoints = append(endpoints, e)
	}
	return endpoints, nil
}

func parseEndpoint(s string) (search.Endpoint, error) {
	hostPort, index, _ := strings.Cut(s, "/")
	if hostPort == "" {
		return search.Endpoint{}, fmt.Errorf("%w: %q", errInvalidEndpoint, s)
	}

	host, portStr, err := net.SplitHostPort(hostPort)
	if err != nil {
		// no port provided
		return search.Endpoint{
			Host:  strings.Trim(hostPort, "[]"),
			Index: index,
		}, nil
	}
	port, err := strconv.Atoi(portStr)
	if err != nil || port < 0 || port > 65535 {
		return search.Endpoint{}, fmt.Errorf("%w: %q", errInvalidEndpoint, s)
	}
	return search.Endpoint{
		Host:  host,
		Port:  port,
		Index: index,
	}, nil
}

func parseBackoffConfig(prefix string) backoff.Config {
	return backoff.Config{
		Exponential: parseExponentialBackoffConfig(prefix),
		Constant:    parseConstantBackoffConfig(prefix),
	}
}

func parseExponentialBackoffConfig(prefix string) *backoff.ExponentialConfig {
	initialInterval := viper.GetDuration(fmt.Sprintf("%s_EXP_BACKOFF_INITIAL_INTERVAL", prefix))
	maxInterval := viper.GetDuration(fmt.Sprintf("%s_EXP_BACKOFF_MAX_INTERVAL", prefix))
	maxElapsedTime := viper.GetDuration(fmt.Sprintf("%s_EXP_BACKOFF_MAX_ELAPSED_TIME", prefix))
	maxRetries := viper.GetUint(fmt.Sprintf("%s_EXP_BACKOFF_MAX_RETRIES", prefix))
	if initialInterval == 0 && maxInterval == 0 && maxElapsedTime == 0 && maxRetries == 0 {
		return nil
	}
	return &backoff.ExponentialConfig{
		InitialInterval: initialInterval,
		MaxInterval:     maxInterval,
		MaxElapsedTime:  maxElapsedTime,
		MaxRetries:      maxRetries,
	}
}

func parseConstantBackoffConfig(prefix string) *backoff.ConstantConfig {
	interval := viper.GetDuration(fmt.Sprintf("%s_BACKOFF_INTERVAL", prefix))
	maxRetries := viper.GetUint(fmt.Sprintf("%s_BACKOFF_MAX_RETRIES", prefix))
	if interval == 0 && maxRetries == 0 {
		return nil
	}
	return &backoff.ConstantConfig{
		Interval:   interval,
		MaxRetries: maxRetries,
	}
}

func parseTLSConfig(prefix string) tls.Config {
	return tls.Config{
		Enabled:            viper.GetBool(fmt.Sprintf("%s_TLS_ENABLED", prefix)),
		CaCertFile:         viper.GetString(fmt.Sprintf("%s_TLS_CA_CERT_FILE", prefix)),
		ClientCertFile:     viper.GetString(fmt.Sprintf("%s_TLS_CLIENT_CERT_FILE", prefix)),
		ClientKeyFile:      viper.GetString(fmt.Sprintf("%s_TLS_CLIENT_KEY_FILE", prefix)),
		InsecureSkipVerify: viper.GetBool(fmt.Sprintf("%s_TLS_INSECURE_SKIP_VERIFY", prefix)),
	}
}

func envToOtelConfig() (*otel.Config, error) {
	cfg := InstrumentationConfig{}
	if endpoint := viper.GetString("SEARCHADAPTER_METRICS_ENDPOINT"); endpoint != "" {
		cfg.Metrics = &MetricsConfig{
			Endpoint:           endpoint,
			CollectionInterval: viper.GetDuration("SEARCHADAPTER_METRICS_COLLECTION_INTERVAL"),
		}
	}
	if endpoint := viper.GetString("SEARCHADAPTER_TRACES_ENDPOINT"); endpoint != "" {
		cfg.Traces = &TracesConfig{
			Endpoint:    endpoint,
			SampleRatio: viper.GetFloat64("SEARCHADAPTER_TRACES_SAMPLE_RATIO"),
		}
	}
	return cfg.toOtelConfig()
}
