// SPDX-License-Identifier: Apache-2.0

package searchstore

import (
	"bytes"
	"fmt"
	"io"

	"github.com/xataio/searchadapter/internal/json"
)

type SearchRequest struct {
	Index *string
	Size  *int
	From  *int
	Query io.Reader
}

// PutMappingRequest registers field mappings on an index. When Type is set
// the mapping is registered for that document type, which is only supported
// by clusters that still have mapping types.
type PutMappingRequest struct {
	Index string
	Type  string
	Body  map[string]any
}

type BulkItem struct {
	Index  *BulkIndex      `json:"index,omitempty"`
	Doc    any             `json:"-"`
	Status int             `json:"-"`
	Error  json.RawMessage `json:"-"`
}

type BulkIndex struct {
	Index string `json:"_index"`
	Type  string `json:"_type,omitempty"`
	// ID is optional, the engine generates one when empty.
	ID string `json:"_id,omitempty"`
}

type BulkResponseItem struct {
	Index struct {
		Status int             `json:"status"`
		Error  json.RawMessage `json:"error"`
	} `json:"index"`
}

type BulkResponse struct {
	Errors bool               `json:"errors"`
	Items  []BulkResponseItem `json:"items"`
}

type Hit struct {
	ID     string         `json:"_id"`
	Index  string         `json:"_index"`
	Type   string         `json:"_type"`
	Source map[string]any `json:"_source"`
	Score  float64        `json:"_score"`
}

type Hits struct {
	Total HitsTotal `json:"total"`
	Hits  []Hit     `json:"hits"`
}

// HitsTotal accepts both the object form of the hits total and the plain
// number returned by older clusters.
type HitsTotal struct {
	Value    int    `json:"value"`
	Relation string `json:"relation"`
}

func (t *HitsTotal) UnmarshalJSON(b []byte) error {
	var value int
	if err := json.Unmarshal(b, &value); err == nil {
		t.Value = value
		t.Relation = "eq"
		return nil
	}

	type hitsTotal HitsTotal
	var total hitsTotal
	if err := json.Unmarshal(b, &total); err != nil {
		return fmt.Errorf("decoding hits total: %w", err)
	}
	*t = HitsTotal(total)
	return nil
}

type SearchResponse struct {
	Hits Hits `json:"hits"`
}

type CountResponse struct {
	Count int `json:"count"`
}

// EncodeBulkItems writes the items as newline delimited action and document
// pairs, as expected by the bulk API.
func EncodeBulkItems(buffer *bytes.Buffer, items []BulkItem) error {
	encoder := json.NewEncoder(buffer)

	for _, item := range items {
		if err := encoder.Encode(item); err != nil {
			return fmt.Errorf("bulk item [%v]: encode item action %w", item.Index, err)
		}

		if item.Doc == nil {
			buffer.WriteString("{}\n")
			continue
		}

		if err := encoder.Encode(item.Doc); err != nil {
			return fmt.Errorf("bulk item [%v]: encode item document action %w", item.Index, err)
		}
	}

	return nil
}
