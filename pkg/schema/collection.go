// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Collection is a named group of source records sharing one schema. Type is
// the category the documents of the collection are routed to in the search
// engine.
type Collection struct {
	Name   string
	Type   string
	Schema Schema
}

var (
	ErrCollectionNameMissing = errors.New("collection name is required")
	ErrDuplicateCollection   = errors.New("duplicate collection")
)

// Validate checks the collection and its schema.
func (c *Collection) Validate() error {
	if c.Name == "" {
		return ErrCollectionNameMissing
	}
	if err := c.Schema.Validate(); err != nil {
		return fmt.Errorf("collection %s: %w", c.Name, err)
	}
	return nil
}

// DocumentType returns the type documents of this collection are routed to.
// It defaults to the collection name.
func (c *Collection) DocumentType() string {
	if c.Type != "" {
		return c.Type
	}
	return c.Name
}

// FieldFile is the file representation of a schema field.
type FieldFile struct {
	ID       string `yaml:"id" mapstructure:"id"`
	Name     string `yaml:"name" mapstructure:"name"`
	Type     string `yaml:"type" mapstructure:"type"`
	Indexed  *bool  `yaml:"indexed" mapstructure:"indexed"`
	Stored   bool   `yaml:"stored" mapstructure:"stored"`
	Analyzed bool   `yaml:"analyzed" mapstructure:"analyzed"`
	Size     string `yaml:"size" mapstructure:"size"`
}

// CollectionFile is the file representation of a collection. The source
// configuration is opaque to this package.
type CollectionFile struct {
	Name   string         `yaml:"name" mapstructure:"name"`
	Type   string         `yaml:"type" mapstructure:"type"`
	Fields []FieldFile    `yaml:"fields" mapstructure:"fields"`
	Source map[string]any `yaml:"source" mapstructure:"source"`
}

type collectionsFile struct {
	Collections []CollectionFile `yaml:"collections"`
}

// ToField converts the file field into a schema field. Fields are indexed
// unless explicitly disabled, and the id doubles as the name when no name is
// given.
func (f *FieldFile) ToField() Field {
	logicalType, _ := ParseLogicalType(f.Type)
	name := f.Name
	if name == "" {
		name = f.ID
	}
	indexed := true
	if f.Indexed != nil {
		indexed = *f.Indexed
	}
	return Field{
		ID:       f.ID,
		Name:     name,
		Type:     logicalType,
		Indexed:  indexed,
		Stored:   f.Stored,
		Analyzed: f.Analyzed,
		Size:     f.Size,
	}
}

// ToCollection converts and validates the file collection.
func (c *CollectionFile) ToCollection() (*Collection, error) {
	collection := &Collection{
		Name: c.Name,
		Type: c.Type,
		Schema: Schema{
			Fields: make([]Field, 0, len(c.Fields)),
		},
	}
	for _, f := range c.Fields {
		collection.Schema.Fields = append(collection.Schema.Fields, f.ToField())
	}
	if err := collection.Validate(); err != nil {
		return nil, err
	}
	return collection, nil
}

// LoadCollectionsFile reads a YAML file with a top level `collections` list.
func LoadCollectionsFile(path string) ([]CollectionFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening collections file: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)

	var file collectionsFile
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("decoding collections file %s: %w", path, err)
	}

	return file.Collections, nil
}

// ToCollections converts the file collections, rejecting duplicate names.
func ToCollections(files []CollectionFile) ([]*Collection, error) {
	collections := make([]*Collection, 0, len(files))
	seen := make(map[string]struct{}, len(files))
	for i := range files {
		c, err := files[i].ToCollection()
		if err != nil {
			return nil, err
		}
		if _, found := seen[c.Name]; found {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCollection, c.Name)
		}
		seen[c.Name] = struct{}{}
		collections = append(collections, c)
	}
	return collections, nil
}
