// SPDX-License-Identifier: Apache-2.0

package store

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xataio/searchadapter/pkg/search"
)

func TestModernRenderer_fieldMapping(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		field search.FieldMapping

		wantMapping map[string]any
	}{
		{
			name:        "analyzed string",
			field:       search.FieldMapping{EngineType: search.EngineTypeString, IndexMode: search.IndexModeAnalyzed, Store: true},
			wantMapping: map[string]any{"type": "text", "store": true},
		},
		{
			name:        "not analyzed string",
			field:       search.FieldMapping{EngineType: search.EngineTypeString, IndexMode: search.IndexModeNotAnalyzed},
			wantMapping: map[string]any{"type": "keyword", "store": false},
		},
		{
			name:        "not indexed string",
			field:       search.FieldMapping{EngineType: search.EngineTypeString, IndexMode: search.IndexModeNo},
			wantMapping: map[string]any{"type": "keyword", "store": false, "index": false},
		},
		{
			name:        "integer",
			field:       search.FieldMapping{EngineType: "short"},
			wantMapping: map[string]any{"type": "short", "store": false},
		},
		{
			name:        "not indexed date",
			field:       search.FieldMapping{EngineType: search.EngineTypeDate, IndexMode: search.IndexModeNo, Store: true},
			wantMapping: map[string]any{"type": "date", "store": true, "index": false},
		},
		{
			name:        "not indexed binary",
			field:       search.FieldMapping{EngineType: search.EngineTypeBinary, IndexMode: search.IndexModeNo},
			wantMapping: map[string]any{"type": "binary", "store": false},
		},
	}

	r := &modernRenderer{}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.wantMapping, r.fieldMapping(tc.field))
		})
	}
}

func TestLegacyRenderer_fieldMapping(t *testing.T) {
	t.Parallel()

	r := &legacyRenderer{}
	require.Equal(t,
		map[string]any{"type": "string", "store": false, "index": "not_analyzed"},
		r.fieldMapping(search.FieldMapping{EngineType: search.EngineTypeString, IndexMode: search.IndexModeNotAnalyzed}))
	require.Equal(t,
		map[string]any{"type": "float", "store": true},
		r.fieldMapping(search.FieldMapping{EngineType: search.EngineTypeFloat, Store: true}))
}

func TestParseMappingFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseMappingFormat("")
	require.NoError(t, err)
	require.Equal(t, MappingFormatModern, f)

	f, err = ParseMappingFormat("legacy")
	require.NoError(t, err)
	require.Equal(t, MappingFormatLegacy, f)

	_, err = ParseMappingFormat("ancient")
	require.ErrorIs(t, err, search.ErrConfiguration)
}
