// SPDX-License-Identifier: Apache-2.0

package search

import (
	"github.com/google/uuid"
	"github.com/rs/xid"
)

// Document is a single unit to be indexed. Index, Type and ID form its routing
// triple. An empty ID lets the search engine assign one.
type Document struct {
	Index  string
	Type   string
	ID     string
	Boost  *float64
	Fields *Fields
}

// Record is the input produced by the indexing pipeline for one document.
type Record struct {
	ID     string
	Boost  *float64
	Values []FieldValue
}

// FieldValue is a value for the schema field identified by FieldID.
type FieldValue struct {
	FieldID string
	Value   any
}

// IDGenerator produces document ids for records that don't provide one.
type IDGenerator interface {
	NewID() string
}

type XIDGenerator struct{}

func (XIDGenerator) NewID() string {
	return xid.New().String()
}

type UUIDGenerator struct{}

func (UUIDGenerator) NewID() string {
	return uuid.NewString()
}

// Ptr returns a pointer to the value on input.
func Ptr[T any](v T) *T {
	return &v
}
