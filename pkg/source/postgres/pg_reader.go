// SPDX-License-Identifier: Apache-2.0

package postgres

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/xataio/searchadapter/internal/postgres"
	loglib "github.com/xataio/searchadapter/pkg/log"
	"github.com/xataio/searchadapter/pkg/schema"
	"github.com/xataio/searchadapter/pkg/search"
	"github.com/xataio/searchadapter/pkg/source"
)

// Reader produces one record per row of a table or query result. Columns
// are matched to schema fields by field id.
type Reader struct {
	logger   loglib.Logger
	querier  postgres.Querier
	query    string
	fieldIDs []string
	opts     source.ParserOptions

	rows    postgres.Rows
	columns map[string]int
}

type Option func(*Reader)

// NewReader builds the reader for the postgres source config on input. The
// query is run on the first call to Next.
func NewReader(querier postgres.Querier, cfg *source.PostgresConfig, s *schema.Schema, opts source.ParserOptions, options ...Option) (*Reader, error) {
	query, err := buildQuery(cfg)
	if err != nil {
		return nil, err
	}
	r := &Reader{
		logger:   loglib.NewNoopLogger(),
		querier:  querier,
		query:    query,
		fieldIDs: s.FieldIDs(),
		opts:     opts,
	}
	for _, opt := range options {
		opt(r)
	}
	return r, nil
}

func WithLogger(l loglib.Logger) Option {
	return func(r *Reader) {
		r.logger = loglib.NewLogger(l).WithFields(loglib.Fields{
			loglib.ModuleField: "postgres_source",
		})
	}
}

func buildQuery(cfg *source.PostgresConfig) (string, error) {
	if cfg.Query != "" {
		return cfg.Query, nil
	}

	table, err := postgres.NewQualifiedName(cfg.Table)
	if err != nil {
		return "", fmt.Errorf("postgres source table [%s]: %w", cfg.Table, err)
	}
	columns := "*"
	if len(cfg.Columns) > 0 {
		quoted := make([]string, 0, len(cfg.Columns))
		for _, c := range cfg.Columns {
			quoted = append(quoted, postgres.QuoteIdentifier(c))
		}
		columns = strings.Join(quoted, ", ")
	}
	return fmt.Sprintf("SELECT %s FROM %s", columns, table), nil
}

func (r *Reader) Next(ctx context.Context) (*search.Record, error) {
	if r.rows == nil {
		if err := r.start(ctx); err != nil {
			return nil, err
		}
	}

	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			return nil, fmt.Errorf("reading postgres rows: %w", err)
		}
		return nil, io.EOF
	}

	values, err := r.rows.Values()
	if err != nil {
		return nil, fmt.Errorf("reading postgres row values: %w", err)
	}
	return r.toRecord(values)
}

func (r *Reader) start(ctx context.Context) error {
	r.logger.Debug("querying postgres source", loglib.Fields{"query": r.query})
	rows, err := r.querier.Query(ctx, r.query)
	if err != nil {
		return fmt.Errorf("querying postgres source: %w", err)
	}
	r.rows = rows
	r.columns = make(map[string]int)
	for i, fd := range rows.FieldDescriptions() {
		r.columns[fd.Name] = i
	}
	return nil
}

func (r *Reader) toRecord(values []any) (*search.Record, error) {
	record := &search.Record{
		Values: make([]search.FieldValue, 0, len(r.fieldIDs)),
	}

	if i, found := r.columns[r.opts.IDField]; found && values[i] != nil {
		record.ID = fmt.Sprint(toSearchValue(values[i]))
	}

	if i, found := r.columns[r.opts.BoostField]; found && r.opts.BoostField != "" && values[i] != nil {
		boost, ok := toFloat64(toSearchValue(values[i]))
		if !ok {
			return nil, fmt.Errorf("%w: boost column %s is not numeric", source.ErrInvalidRecord, r.opts.BoostField)
		}
		record.Boost = &boost
	}

	for _, id := range r.fieldIDs {
		i, found := r.columns[id]
		if !found {
			continue
		}
		record.Values = append(record.Values, search.FieldValue{
			FieldID: id,
			Value:   toSearchValue(values[i]),
		})
	}
	return record, nil
}

// Commit is a noop, table sources are read in full on every run.
func (r *Reader) Commit(context.Context) error {
	return nil
}

func (r *Reader) Close() error {
	if r.rows != nil {
		r.rows.Close()
	}
	return r.querier.Close(context.Background())
}

// toSearchValue converts the pgx representation of types with no natural
// JSON encoding.
func toSearchValue(v any) any {
	switch value := v.(type) {
	case [16]byte:
		return uuid.UUID(value).String()
	case pgtype.Numeric:
		f, err := value.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	default:
		return v
	}
}

func toFloat64(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

var _ source.Reader = (*Reader)(nil)
