// SPDX-License-Identifier: Apache-2.0

package search

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDateNormalizer_Normalize(t *testing.T) {
	t.Parallel()

	testTime := time.Date(2024, time.March, 5, 10, 20, 30, 0, time.FixedZone("CET", 3600))

	tests := []struct {
		name       string
		normalizer *DateNormalizer
		value      any

		wantValue any
	}{
		{
			name:       "nil",
			normalizer: NewDateNormalizer(),
			value:      nil,
			wantValue:  nil,
		},
		{
			name:       "empty string",
			normalizer: NewDateNormalizer(),
			value:      "",
			wantValue:  "",
		},
		{
			name:       "zero string",
			normalizer: NewDateNormalizer(),
			value:      "0",
			wantValue:  "0",
		},
		{
			name:       "zero integer",
			normalizer: NewDateNormalizer(),
			value:      0,
			wantValue:  0,
		},
		{
			name:       "false",
			normalizer: NewDateNormalizer(),
			value:      false,
			wantValue:  false,
		},
		{
			name:       "unix timestamp",
			normalizer: NewDateNormalizer(),
			value:      int64(1700000000),
			wantValue:  "2023-11-14T22:13:20Z",
		},
		{
			name:       "unix timestamp as unsigned",
			normalizer: NewDateNormalizer(),
			value:      uint32(1700000000),
			wantValue:  "2023-11-14T22:13:20Z",
		},
		{
			name:       "digit string",
			normalizer: NewDateNormalizer(),
			value:      "1700000000",
			wantValue:  "2023-11-14T22:13:20Z",
		},
		{
			name:       "digit string overflow",
			normalizer: NewDateNormalizer(),
			value:      "99999999999999999999999",
			wantValue:  "99999999999999999999999",
		},
		{
			name:       "date time string",
			normalizer: NewDateNormalizer(),
			value:      "2024-03-05 10:20:30",
			wantValue:  "2024-03-05T10:20:30Z",
		},
		{
			name:       "date string",
			normalizer: NewDateNormalizer(),
			value:      "2024-03-05",
			wantValue:  "2024-03-05T00:00:00Z",
		},
		{
			name:       "RFC3339 string with offset converted to UTC",
			normalizer: NewDateNormalizer(),
			value:      "2024-03-05T10:20:30+02:00",
			wantValue:  "2024-03-05T08:20:30Z",
		},
		{
			name:       "time",
			normalizer: NewDateNormalizer(),
			value:      testTime,
			wantValue:  "2024-03-05T09:20:30Z",
		},
		{
			name:       "unparseable string",
			normalizer: NewDateNormalizer(),
			value:      "not a date",
			wantValue:  "not a date",
		},
		{
			name:       "float passes through",
			normalizer: NewDateNormalizer(),
			value:      1.5,
			wantValue:  1.5,
		},
		{
			name:       "true passes through",
			normalizer: NewDateNormalizer(),
			value:      true,
			wantValue:  true,
		},
		{
			name:       "custom layout",
			normalizer: NewDateNormalizer(WithDateLayout("2006-01-02")),
			value:      int64(1700000000),
			wantValue:  "2023-11-14",
		},
		{
			name:       "empty layout keeps default",
			normalizer: NewDateNormalizer(WithDateLayout("")),
			value:      int64(1700000000),
			wantValue:  "2023-11-14T22:13:20Z",
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			require.Equal(t, tc.wantValue, tc.normalizer.Normalize(tc.value))
		})
	}
}

func TestNormalizerFunc(t *testing.T) {
	t.Parallel()

	n := NormalizerFunc(func(v any) any { return v.(string) + "!" })
	require.Equal(t, "hi!", n.Normalize("hi"))
}
