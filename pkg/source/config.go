// SPDX-License-Identifier: Apache-2.0

package source

import (
	"fmt"
	"time"

	"github.com/mitchellh/mapstructure"
	tlslib "github.com/xataio/searchadapter/pkg/tls"
)

// Config is the source of a collection. Exactly one of File, Kafka or
// Postgres must be set.
type Config struct {
	File     *FileConfig     `mapstructure:"file"`
	Kafka    *KafkaConfig    `mapstructure:"kafka"`
	Postgres *PostgresConfig `mapstructure:"postgres"`
	// IDField is the record field (or column) holding the document id.
	// Defaults to "id". Records without it get an engine or generator
	// assigned id.
	IDField string `mapstructure:"id_field"`
	// BoostField is the record field (or column) holding the document boost.
	BoostField string `mapstructure:"boost_field"`
}

type FileConfig struct {
	Path string `mapstructure:"path"`
}

type KafkaConfig struct {
	Servers         []string `mapstructure:"servers"`
	Topic           string   `mapstructure:"topic"`
	ConsumerGroupID string   `mapstructure:"group_id"`
	StartOffset     string   `mapstructure:"start_offset"`
	// IdleTimeout ends the run once no message has been received for that
	// long. Defaults to 5s.
	IdleTimeout time.Duration `mapstructure:"idle_timeout"`
	TLS         TLSConfig     `mapstructure:"tls"`
}

type TLSConfig struct {
	Enabled            bool   `mapstructure:"enabled"`
	CaCertFile         string `mapstructure:"ca_cert_file"`
	ClientCertFile     string `mapstructure:"client_cert_file"`
	ClientKeyFile      string `mapstructure:"client_key_file"`
	InsecureSkipVerify bool   `mapstructure:"insecure_skip_verify"`
}

type PostgresConfig struct {
	URL string `mapstructure:"url"`
	// Table is read in full unless Query is provided.
	Table   string   `mapstructure:"table"`
	Columns []string `mapstructure:"columns"`
	Query   string   `mapstructure:"query"`
}

const (
	defaultIDField     = "id"
	defaultIdleTimeout = 5 * time.Second
)

// ParseConfig decodes the opaque source section of a collection definition.
func ParseConfig(raw map[string]any) (*Config, error) {
	if len(raw) == 0 {
		return nil, ErrNoSource
	}

	cfg := &Config{}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		ErrorUnused:      true,
		WeaklyTypedInput: true,
		DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
	})
	if err != nil {
		return nil, err
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, fmt.Errorf("decoding source config: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	kinds := 0
	if c.File != nil {
		kinds++
		if c.File.Path == "" {
			return fmt.Errorf("file source: path is required")
		}
	}
	if c.Kafka != nil {
		kinds++
	}
	if c.Postgres != nil {
		kinds++
		if c.Postgres.URL == "" {
			return fmt.Errorf("postgres source: url is required")
		}
		if c.Postgres.Table == "" && c.Postgres.Query == "" {
			return fmt.Errorf("postgres source: one of table or query is required")
		}
	}

	switch kinds {
	case 0:
		return ErrNoSource
	case 1:
		return nil
	default:
		return ErrMultipleKinds
	}
}

// ParserOptions returns the record field names used for ids and boosts.
func (c *Config) ParserOptions() ParserOptions {
	idField := c.IDField
	if idField == "" {
		idField = defaultIDField
	}
	return ParserOptions{
		IDField:    idField,
		BoostField: c.BoostField,
	}
}

func (c *KafkaConfig) GetIdleTimeout() time.Duration {
	if c.IdleTimeout > 0 {
		return c.IdleTimeout
	}
	return defaultIdleTimeout
}

func (c *TLSConfig) ToTLSConfig() tlslib.Config {
	return tlslib.Config{
		Enabled:            c.Enabled,
		CaCertFile:         c.CaCertFile,
		ClientCertFile:     c.ClientCertFile,
		ClientKeyFile:      c.ClientKeyFile,
		InsecureSkipVerify: c.InsecureSkipVerify,
	}
}
