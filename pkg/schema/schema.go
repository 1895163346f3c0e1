// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"errors"
	"fmt"
	"strings"
)

// LogicalType is the engine independent type of a schema field.
type LogicalType uint

const (
	Unknown LogicalType = iota
	String
	Integer
	Decimal
	Date
	Boolean
	Binary
)

var logicalTypeNames = map[LogicalType]string{
	String:  "string",
	Integer: "integer",
	Decimal: "decimal",
	Date:    "date",
	Boolean: "boolean",
	Binary:  "binary",
}

// ParseLogicalType returns the logical type for the name on input. Unknown
// names are not an error, they map to the Unknown type and are reported via
// the boolean return value.
func ParseLogicalType(name string) (LogicalType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, n := range logicalTypeNames {
		if n == name {
			return t, true
		}
	}
	return Unknown, false
}

func (t LogicalType) String() string {
	if n, found := logicalTypeNames[t]; found {
		return n
	}
	return fmt.Sprintf("unknown(%d)", uint(t))
}

// IsKnown returns true if the type is one of the supported logical types.
func (t LogicalType) IsKnown() bool {
	_, found := logicalTypeNames[t]
	return found
}

// Field describes a single field of a collection schema. ID is the identifier
// used by the indexing pipeline to produce values, Name is the output field
// name in the search engine.
type Field struct {
	ID       string
	Name     string
	Type     LogicalType
	Indexed  bool
	Stored   bool
	Analyzed bool
	// Size is an optional engine type hint (byte, short, integer, long for
	// integers, float or double for decimals).
	Size string
}

// Schema is the ordered set of fields of a collection.
type Schema struct {
	Fields []Field
}

var (
	ErrFieldIDMissing   = errors.New("field id is required")
	ErrFieldNameMissing = errors.New("field name is required")
	ErrDuplicateFieldID = errors.New("duplicate field id")
)

var (
	integerSizes = map[string]struct{}{"byte": {}, "short": {}, "integer": {}, "long": {}}
	decimalSizes = map[string]struct{}{"float": {}, "double": {}}
)

// FieldByID returns the field with the given id, if any.
func (s *Schema) FieldByID(id string) (Field, bool) {
	for _, f := range s.Fields {
		if f.ID == id {
			return f, true
		}
	}
	return Field{}, false
}

// FieldIDs returns the field ids in schema order.
func (s *Schema) FieldIDs() []string {
	ids := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		ids = append(ids, f.ID)
	}
	return ids
}

// Validate checks the structural integrity of the schema. Unknown logical
// types and unexpected size hints are not validation errors, since they are
// handled by the mapping fallback.
func (s *Schema) Validate() error {
	seen := make(map[string]struct{}, len(s.Fields))
	for i, f := range s.Fields {
		if f.ID == "" {
			return fmt.Errorf("field %d: %w", i, ErrFieldIDMissing)
		}
		if f.Name == "" {
			return fmt.Errorf("field %s: %w", f.ID, ErrFieldNameMissing)
		}
		if _, found := seen[f.ID]; found {
			return fmt.Errorf("field %s: %w", f.ID, ErrDuplicateFieldID)
		}
		seen[f.ID] = struct{}{}
	}
	return nil
}

// Warnings returns non fatal schema issues, such as unknown types or size
// hints the search engine is unlikely to accept.
func (s *Schema) Warnings() []string {
	warnings := []string{}
	for _, f := range s.Fields {
		switch {
		case !f.Type.IsKnown():
			warnings = append(warnings, fmt.Sprintf("field %s: unknown type %s, falling back to not analyzed string", f.ID, f.Type))
		case f.Size == "":
		case f.Type == Integer:
			if _, found := integerSizes[f.Size]; !found {
				warnings = append(warnings, fmt.Sprintf("field %s: unexpected integer size %q", f.ID, f.Size))
			}
		case f.Type == Decimal:
			if _, found := decimalSizes[f.Size]; !found {
				warnings = append(warnings, fmt.Sprintf("field %s: unexpected decimal size %q", f.ID, f.Size))
			}
		}
	}
	return warnings
}
