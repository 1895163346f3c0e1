// SPDX-License-Identifier: Apache-2.0

package store

import (
	"fmt"

	"github.com/xataio/searchadapter/pkg/search"
)

// MappingFormat selects how field mappings are rendered for the engine.
type MappingFormat string

const (
	// MappingFormatModern renders the mappings for engines without the string
	// type, using text and keyword fields.
	MappingFormatModern MappingFormat = "modern"
	// MappingFormatLegacy renders the field mappings as they are, with string
	// types and index modes, registered per document type.
	MappingFormatLegacy MappingFormat = "legacy"
)

func ParseMappingFormat(name string) (MappingFormat, error) {
	switch MappingFormat(name) {
	case "", MappingFormatModern:
		return MappingFormatModern, nil
	case MappingFormatLegacy:
		return MappingFormatLegacy, nil
	default:
		return "", fmt.Errorf("%w: unsupported mapping format %q", search.ErrConfiguration, name)
	}
}

type mappingRenderer interface {
	fieldMapping(search.FieldMapping) map[string]any
	// typed returns true if mappings and documents are registered per
	// document type.
	typed() bool
}

func newMappingRenderer(format MappingFormat) mappingRenderer {
	if format == MappingFormatLegacy {
		return &legacyRenderer{}
	}
	return &modernRenderer{}
}

// renderMapping returns the put mapping body for the mapping on input.
func renderMapping(r mappingRenderer, mapping search.Mapping) map[string]any {
	properties := make(map[string]any, len(mapping.Fields))
	for _, f := range mapping.Fields {
		properties[f.Name] = r.fieldMapping(f)
	}
	return map[string]any{
		"properties": properties,
	}
}

type modernRenderer struct{}

func (r *modernRenderer) typed() bool { return false }

func (r *modernRenderer) fieldMapping(f search.FieldMapping) map[string]any {
	m := map[string]any{
		"store": f.Store,
	}

	switch f.EngineType {
	case search.EngineTypeString:
		if f.IndexMode == search.IndexModeAnalyzed {
			m["type"] = "text"
		} else {
			m["type"] = "keyword"
		}
	case search.EngineTypeBinary:
		// binary fields are never indexed
		m["type"] = f.EngineType
		return m
	default:
		m["type"] = f.EngineType
	}

	if f.IndexMode == search.IndexModeNo {
		m["index"] = false
	}
	return m
}

type legacyRenderer struct{}

func (r *legacyRenderer) typed() bool { return true }

func (r *legacyRenderer) fieldMapping(f search.FieldMapping) map[string]any {
	m := map[string]any{
		"type":  f.EngineType,
		"store": f.Store,
	}
	if f.IndexMode != search.IndexModeDefault {
		m["index"] = f.IndexMode.String()
	}
	return m
}
