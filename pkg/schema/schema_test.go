// SPDX-License-Identifier: Apache-2.0

package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseLogicalType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string

		wantType  LogicalType
		wantKnown bool
	}{
		{name: "string", wantType: String, wantKnown: true},
		{name: "INTEGER", wantType: Integer, wantKnown: true},
		{name: " decimal ", wantType: Decimal, wantKnown: true},
		{name: "date", wantType: Date, wantKnown: true},
		{name: "boolean", wantType: Boolean, wantKnown: true},
		{name: "binary", wantType: Binary, wantKnown: true},
		{name: "geo_point", wantType: Unknown, wantKnown: false},
		{name: "", wantType: Unknown, wantKnown: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, known := ParseLogicalType(tc.name)
			require.Equal(t, tc.wantType, got)
			require.Equal(t, tc.wantKnown, known)
		})
	}
}

func TestLogicalType_String(t *testing.T) {
	t.Parallel()

	require.Equal(t, "date", Date.String())
	require.Equal(t, "unknown(42)", LogicalType(42).String())
	require.False(t, LogicalType(42).IsKnown())
	require.False(t, Unknown.IsKnown())
}

func TestSchema_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		schema Schema

		wantErr error
	}{
		{
			name: "ok",
			schema: Schema{Fields: []Field{
				{ID: "a", Name: "a", Type: String},
				{ID: "b", Name: "b", Type: LogicalType(99)},
			}},
			wantErr: nil,
		},
		{
			name:    "ok - empty",
			schema:  Schema{},
			wantErr: nil,
		},
		{
			name:    "error - missing id",
			schema:  Schema{Fields: []Field{{Name: "a"}}},
			wantErr: ErrFieldIDMissing,
		},
		{
			name:    "error - missing name",
			schema:  Schema{Fields: []Field{{ID: "a"}}},
			wantErr: ErrFieldNameMissing,
		},
		{
			name: "error - duplicate id",
			schema: Schema{Fields: []Field{
				{ID: "a", Name: "a"},
				{ID: "a", Name: "b"},
			}},
			wantErr: ErrDuplicateFieldID,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			err := tc.schema.Validate()
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestSchema_Warnings(t *testing.T) {
	t.Parallel()

	s := Schema{Fields: []Field{
		{ID: "a", Name: "a", Type: Integer, Size: "long"},
		{ID: "b", Name: "b", Type: Integer, Size: "huge"},
		{ID: "c", Name: "c", Type: Decimal, Size: "double"},
		{ID: "d", Name: "d", Type: Decimal, Size: "long"},
		{ID: "e", Name: "e", Type: Unknown},
		{ID: "f", Name: "f", Type: String},
	}}

	require.Equal(t, []string{
		`field b: unexpected integer size "huge"`,
		`field d: unexpected decimal size "long"`,
		"field e: unknown type unknown(0), falling back to not analyzed string",
	}, s.Warnings())
}

func TestSchema_FieldByID(t *testing.T) {
	t.Parallel()

	s := Schema{Fields: []Field{
		{ID: "a", Name: "title"},
		{ID: "b", Name: "body"},
	}}

	f, found := s.FieldByID("b")
	require.True(t, found)
	require.Equal(t, "body", f.Name)

	_, found = s.FieldByID("c")
	require.False(t, found)

	require.Equal(t, []string{"a", "b"}, s.FieldIDs())
}
