// SPDX-License-Identifier: Apache-2.0

package search

import (
	"strconv"
	"time"

	"github.com/araddon/dateparse"
)

// Normalizer transforms a field value before it's added to a document.
// Implementations never fail, values they can't handle are returned as is.
type Normalizer interface {
	Normalize(value any) any
}

// NormalizerFunc adapts a plain function to the Normalizer interface.
type NormalizerFunc func(value any) any

func (f NormalizerFunc) Normalize(value any) any {
	return f(value)
}

// DateNormalizer converts unix timestamps and parseable date strings into the
// configured date layout, in UTC.
type DateNormalizer struct {
	layout string
}

type DateNormalizerOption func(*DateNormalizer)

// DefaultDateLayout is ISO-8601 in UTC with a literal Z suffix.
const DefaultDateLayout = "2006-01-02T15:04:05Z"

func NewDateNormalizer(opts ...DateNormalizerOption) *DateNormalizer {
	n := &DateNormalizer{
		layout: DefaultDateLayout,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func WithDateLayout(layout string) DateNormalizerOption {
	return func(n *DateNormalizer) {
		if layout != "" {
			n.layout = layout
		}
	}
}

// Normalize returns the value formatted as a date string when it's an integer,
// a string of digits (both treated as unix seconds), a time.Time or a string
// the date parser understands. Empty values and values that can't be parsed
// are returned unchanged.
func (n *DateNormalizer) Normalize(value any) any {
	if isEmpty(value) {
		return value
	}

	switch v := value.(type) {
	case time.Time:
		return n.format(v)
	case string:
		if isDigits(v) {
			ts, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return value
			}
			return n.format(time.Unix(ts, 0))
		}
		t, err := dateparse.ParseIn(v, time.UTC)
		if err != nil {
			return value
		}
		return n.format(t)
	default:
		ts, ok := toInt64(value)
		if !ok {
			return value
		}
		return n.format(time.Unix(ts, 0))
	}
}

func (n *DateNormalizer) format(t time.Time) string {
	return t.UTC().Format(n.layout)
}

func isEmpty(value any) bool {
	switch v := value.(type) {
	case nil:
		return true
	case string:
		return v == "" || v == "0"
	case bool:
		return !v
	default:
		ts, ok := toInt64(value)
		return ok && ts == 0
	}
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

func toInt64(value any) (int64, bool) {
	switch v := value.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true
	default:
		return 0, false
	}
}
