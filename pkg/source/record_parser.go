// SPDX-License-Identifier: Apache-2.0

package source

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/xataio/searchadapter/pkg/schema"
	"github.com/xataio/searchadapter/pkg/search"
)

type ParserOptions struct {
	IDField    string
	BoostField string
}

// RecordParser extracts records from JSON documents. Schema field ids are
// used as gjson paths, so nested values can be indexed with dotted ids.
type RecordParser struct {
	fieldIDs []string
	opts     ParserOptions
}

func NewRecordParser(s *schema.Schema, opts ParserOptions) *RecordParser {
	return &RecordParser{
		fieldIDs: s.FieldIDs(),
		opts:     opts,
	}
}

// Parse returns the record for the JSON document on input. Fields missing
// from the document are left out of the record.
func (p *RecordParser) Parse(data []byte) (*search.Record, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: malformed json", ErrInvalidRecord)
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, fmt.Errorf("%w: expected a json object, got %s", ErrInvalidRecord, doc.Type)
	}

	record := &search.Record{
		Values: make([]search.FieldValue, 0, len(p.fieldIDs)),
	}

	if p.opts.IDField != "" {
		if id := doc.Get(p.opts.IDField); id.Exists() && id.Type != gjson.Null {
			record.ID = id.String()
		}
	}

	if p.opts.BoostField != "" {
		if boost := doc.Get(p.opts.BoostField); boost.Exists() {
			if boost.Type != gjson.Number {
				return nil, fmt.Errorf("%w: boost field %s is not a number", ErrInvalidRecord, p.opts.BoostField)
			}
			record.Boost = search.Ptr(boost.Float())
		}
	}

	for _, id := range p.fieldIDs {
		value := doc.Get(id)
		if !value.Exists() {
			continue
		}
		record.Values = append(record.Values, search.FieldValue{
			FieldID: id,
			Value:   jsonValue(value),
		})
	}

	return record, nil
}

// jsonValue keeps integral numbers as integers, so that unix timestamps reach
// the date normalizer as such.
func jsonValue(r gjson.Result) any {
	switch r.Type {
	case gjson.Number:
		if !strings.ContainsAny(r.Raw, ".eE") {
			return r.Int()
		}
		return r.Float()
	case gjson.String:
		return r.Str
	case gjson.True, gjson.False:
		return r.Bool()
	case gjson.Null:
		return nil
	default:
		return r.Value()
	}
}
