// SPDX-License-Identifier: Apache-2.0

package json

import (
	stdjson "encoding/json"
	"io"

	"github.com/bytedance/sonic"
)

// api is compatible with encoding/json, so types implementing json.Marshaler
// keep their own encoding.
var api = sonic.ConfigStd

type RawMessage = stdjson.RawMessage

type Encoder = sonic.Encoder

type Decoder = sonic.Decoder

func Unmarshal(b []byte, v any) error {
	return api.Unmarshal(b, v)
}

func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}

// NewEncoder returns an encoder writing newline terminated JSON values to w.
func NewEncoder(w io.Writer) Encoder {
	return api.NewEncoder(w)
}

func NewDecoder(r io.Reader) Decoder {
	return api.NewDecoder(r)
}
