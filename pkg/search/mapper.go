// SPDX-License-Identifier: Apache-2.0

package search

import (
	"github.com/xataio/searchadapter/pkg/schema"
)

// IndexMode is the indexing directive requested for a field.
type IndexMode uint

const (
	// IndexModeDefault emits no indexing directive, the engine default applies.
	IndexModeDefault IndexMode = iota
	IndexModeAnalyzed
	IndexModeNotAnalyzed
	IndexModeNo
)

func (m IndexMode) String() string {
	switch m {
	case IndexModeAnalyzed:
		return "analyzed"
	case IndexModeNotAnalyzed:
		return "not_analyzed"
	case IndexModeNo:
		return "no"
	default:
		return ""
	}
}

const (
	EngineTypeString  = "string"
	EngineTypeInteger = "integer"
	EngineTypeFloat   = "float"
	EngineTypeDate    = "date"
	EngineTypeBoolean = "boolean"
	EngineTypeBinary  = "binary"
)

// FieldMapping is the engine side declaration of how a field is indexed and
// stored.
type FieldMapping struct {
	Name       string
	EngineType string
	IndexMode  IndexMode
	Store      bool
}

// Mapping holds the field mappings of one collection, in schema order.
type Mapping struct {
	CollectionType string
	Fields         []FieldMapping
}

// MapField translates a schema field into its engine field mapping. It never
// fails: unrecognised logical types fall back to a not analyzed string.
func MapField(field schema.Field) FieldMapping {
	m := FieldMapping{
		Name:  field.Name,
		Store: field.Stored,
	}

	switch field.Type {
	case schema.String:
		m.EngineType = EngineTypeString
		switch {
		case !field.Indexed:
			m.IndexMode = IndexModeNo
		case field.Analyzed:
			m.IndexMode = IndexModeAnalyzed
		default:
			m.IndexMode = IndexModeNotAnalyzed
		}
		return m
	case schema.Integer:
		m.EngineType = sizeOr(field.Size, EngineTypeInteger)
	case schema.Decimal:
		m.EngineType = sizeOr(field.Size, EngineTypeFloat)
	case schema.Date:
		m.EngineType = EngineTypeDate
	case schema.Boolean:
		m.EngineType = EngineTypeBoolean
	case schema.Binary:
		m.EngineType = EngineTypeBinary
	default:
		m.EngineType = EngineTypeString
		m.IndexMode = IndexModeNotAnalyzed
		return m
	}

	if !field.Indexed {
		m.IndexMode = IndexModeNo
	}
	return m
}

// MapSchema returns the mapping for all the fields of the collection.
func MapSchema(collection *schema.Collection) Mapping {
	mapping := Mapping{
		CollectionType: collection.DocumentType(),
		Fields:         make([]FieldMapping, 0, len(collection.Schema.Fields)),
	}
	for _, f := range collection.Schema.Fields {
		mapping.Fields = append(mapping.Fields, MapField(f))
	}
	return mapping
}

func sizeOr(size, defaultType string) string {
	if size != "" {
		return size
	}
	return defaultType
}
