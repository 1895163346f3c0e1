// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"errors"
	"io"
	"math/big"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/stretchr/testify/require"
	"github.com/xataio/searchadapter/internal/postgres"
	pgmocks "github.com/xataio/searchadapter/internal/postgres/mocks"
	"github.com/xataio/searchadapter/pkg/schema"
	"github.com/xataio/searchadapter/pkg/search"
	"github.com/xataio/searchadapter/pkg/source"
)

var (
	testSchema = &schema.Schema{
		Fields: []schema.Field{
			{ID: "title", Name: "title", Type: schema.String},
			{ID: "published_at", Name: "published", Type: schema.Date},
			{ID: "price", Name: "price", Type: schema.Decimal},
			{ID: "missing", Name: "missing", Type: schema.String},
		},
	}
	testTime = time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	errTest  = errors.New("oh noes")
)

func testRows(columns []string, rows ...[]any) *pgmocks.Rows {
	fds := make([]pgconn.FieldDescription, 0, len(columns))
	for _, c := range columns {
		fds = append(fds, pgconn.FieldDescription{Name: c})
	}
	var current []any
	return &pgmocks.Rows{
		FieldDescriptionsFn: func() []pgconn.FieldDescription { return fds },
		NextFn: func(i uint) bool {
			if int(i) > len(rows) {
				return false
			}
			current = rows[i-1]
			return true
		},
		ValuesFn: func() ([]any, error) { return current, nil },
	}
}

func TestNewReader_query(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		cfg  *source.PostgresConfig

		wantQuery string
		wantErr   bool
	}{
		{
			name:      "custom query",
			cfg:       &source.PostgresConfig{Query: "SELECT 1", Table: "ignored"},
			wantQuery: "SELECT 1",
		},
		{
			name:      "table",
			cfg:       &source.PostgresConfig{Table: "books"},
			wantQuery: `SELECT * FROM "books"`,
		},
		{
			name:      "qualified table with columns",
			cfg:       &source.PostgresConfig{Table: "library.books", Columns: []string{"id", "Title"}},
			wantQuery: `SELECT "id", "Title" FROM "library"."books"`,
		},
		{
			name:    "invalid table",
			cfg:     &source.PostgresConfig{Table: "a.b.c"},
			wantErr: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reader, err := NewReader(&pgmocks.Querier{}, tc.cfg, testSchema, source.ParserOptions{})
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tc.wantQuery, reader.query)
		})
	}
}

func TestReader_Next(t *testing.T) {
	t.Parallel()

	price := pgtype.Numeric{Int: big.NewInt(1250), Exp: -2, Valid: true}
	bookID := [16]byte{0x6b, 0xa7, 0xb8, 0x10, 0x9d, 0xad, 0x11, 0xd1, 0x80, 0xb4, 0x00, 0xc0, 0x4f, 0xd4, 0x30, 0xc8}

	tests := []struct {
		name    string
		querier *pgmocks.Querier
		opts    source.ParserOptions

		wantRecords []*search.Record
		wantErr     error
	}{
		{
			name: "ok",
			querier: &pgmocks.Querier{
				QueryFn: func(ctx context.Context, query string, args ...any) (postgres.Rows, error) {
					require.Equal(t, `SELECT * FROM "books"`, query)
					return testRows([]string{"id", "title", "published_at", "price", "weight"},
						[]any{bookID, "dune", testTime, price, int32(3)},
						[]any{nil, "emma", nil, nil, nil},
					), nil
				},
			},
			opts: source.ParserOptions{IDField: "id", BoostField: "weight"},

			wantRecords: []*search.Record{
				{
					ID:    "6ba7b810-9dad-11d1-80b4-00c04fd430c8",
					Boost: search.Ptr(3.0),
					Values: []search.FieldValue{
						{FieldID: "title", Value: "dune"},
						{FieldID: "published_at", Value: testTime},
						{FieldID: "price", Value: 12.5},
					},
				},
				{
					Values: []search.FieldValue{
						{FieldID: "title", Value: "emma"},
						{FieldID: "published_at", Value: nil},
						{FieldID: "price", Value: nil},
					},
				},
			},
			wantErr: io.EOF,
		},
		{
			name: "error - query",
			querier: &pgmocks.Querier{
				QueryFn: func(ctx context.Context, query string, args ...any) (postgres.Rows, error) {
					return nil, errTest
				},
			},
			opts: source.ParserOptions{IDField: "id"},

			wantRecords: []*search.Record{},
			wantErr:     errTest,
		},
		{
			name: "error - rows",
			querier: &pgmocks.Querier{
				QueryFn: func(ctx context.Context, query string, args ...any) (postgres.Rows, error) {
					rows := testRows([]string{"id"})
					rows.ErrFn = func() error { return errTest }
					return rows, nil
				},
			},
			opts: source.ParserOptions{IDField: "id"},

			wantRecords: []*search.Record{},
			wantErr:     errTest,
		},
		{
			name: "error - boost not numeric",
			querier: &pgmocks.Querier{
				QueryFn: func(ctx context.Context, query string, args ...any) (postgres.Rows, error) {
					return testRows([]string{"id", "weight"}, []any{int64(1), "heavy"}), nil
				},
			},
			opts: source.ParserOptions{IDField: "id", BoostField: "weight"},

			wantRecords: []*search.Record{},
			wantErr:     source.ErrInvalidRecord,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			reader, err := NewReader(tc.querier, &source.PostgresConfig{Table: "books"}, testSchema, tc.opts)
			require.NoError(t, err)

			records := []*search.Record{}
			for {
				var record *search.Record
				record, err = reader.Next(context.Background())
				if err != nil {
					break
				}
				records = append(records, record)
			}
			require.True(t, errors.Is(err, tc.wantErr), err)
			require.Equal(t, tc.wantRecords, records)
		})
	}
}

func TestReader_Close(t *testing.T) {
	t.Parallel()

	rowsClosed, querierClosed := false, false
	querier := &pgmocks.Querier{
		QueryFn: func(ctx context.Context, query string, args ...any) (postgres.Rows, error) {
			rows := testRows([]string{"id"}, []any{int64(1)})
			rows.CloseFn = func() { rowsClosed = true }
			return rows, nil
		},
		CloseFn: func(ctx context.Context) error {
			querierClosed = true
			return nil
		},
	}

	reader, err := NewReader(querier, &source.PostgresConfig{Table: "books"}, testSchema, source.ParserOptions{IDField: "id"})
	require.NoError(t, err)

	record, err := reader.Next(context.Background())
	require.NoError(t, err)
	require.Equal(t, "1", record.ID)
	require.NoError(t, reader.Commit(context.Background()))

	require.NoError(t, reader.Close())
	require.True(t, rowsClosed)
	require.True(t, querierClosed)
}
