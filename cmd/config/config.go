// SPDX-License-Identifier: Apache-2.0

package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"github.com/xataio/searchadapter/pkg/indexer"
	"github.com/xataio/searchadapter/pkg/otel"
	"github.com/xataio/searchadapter/pkg/schema"
	"github.com/xataio/searchadapter/pkg/source"
)

var errUnsupportedConfigFile = errors.New("unsupported config file, must be one of .yaml, .yml or .env")

func Load() error {
	return LoadFile(viper.GetString("config"))
}

func LoadFile(file string) error {
	if file == "" {
		return nil
	}

	ext := strings.TrimPrefix(filepath.Ext(file), ".")
	switch ext {
	case "yaml", "yml", "env":
	default:
		return fmt.Errorf("%w: %s", errUnsupportedConfigFile, file)
	}

	viper.SetConfigFile(file)
	viper.SetConfigType(ext)
	if err := viper.ReadInConfig(); err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	return nil
}

func LogLevel() string {
	return viper.GetString("SEARCHADAPTER_LOG_LEVEL")
}

func isYAMLConfig() bool {
	switch filepath.Ext(viper.GetViper().ConfigFileUsed()) {
	case ".yml", ".yaml":
		return true
	default:
		return false
	}
}

func parseYAMLConfig() (*YAMLConfig, error) {
	yamlCfg := YAMLConfig{}
	if err := viper.Unmarshal(&yamlCfg); err != nil {
		return nil, fmt.Errorf("decoding yaml config: %w", err)
	}
	return &yamlCfg, nil
}

func ParseIndexerConfig() (*indexer.Config, error) {
	if isYAMLConfig() {
		yamlCfg, err := parseYAMLConfig()
		if err != nil {
			return nil, err
		}
		return yamlCfg.toIndexerConfig()
	}
	return envConfigToIndexerConfig()
}

func ParseInstrumentationConfig() (*otel.Config, error) {
	if isYAMLConfig() {
		yamlCfg, err := parseYAMLConfig()
		if err != nil {
			return nil, err
		}
		return yamlCfg.Instrumentation.toOtelConfig()
	}
	return envToOtelConfig()
}

// ParseCollections returns the collections defined inline in the YAML config
// and in the collections file, if any.
func ParseCollections() ([]*indexer.Collection, error) {
	var files []schema.CollectionFile
	collectionsFile := viper.GetString("SEARCHADAPTER_COLLECTIONS_FILE")
	if isYAMLConfig() {
		yamlCfg, err := parseYAMLConfig()
		if err != nil {
			return nil, err
		}
		files = append(files, yamlCfg.Collections...)
		if yamlCfg.CollectionsFile != "" {
			collectionsFile = yamlCfg.CollectionsFile
		}
	}

	if collectionsFile != "" {
		fileCollections, err := schema.LoadCollectionsFile(collectionsFile)
		if err != nil {
			return nil, err
		}
		files = append(files, fileCollections...)
	}

	return toIndexerCollections(files)
}

func toIndexerCollections(files []schema.CollectionFile) ([]*indexer.Collection, error) {
	collections, err := schema.ToCollections(files)
	if err != nil {
		return nil, err
	}

	result := make([]*indexer.Collection, 0, len(collections))
	for i, c := range collections {
		var sourceCfg *source.Config
		// collections without a source can still be mapped on index creation
		if len(files[i].Source) > 0 {
			sourceCfg, err = source.ParseConfig(files[i].Source)
			if err != nil {
				return nil, fmt.Errorf("collection %s: %w", c.Name, err)
			}
		}
		result = append(result, &indexer.Collection{
			Collection: c,
			Source:     sourceCfg,
		})
	}
	return result, nil
}
