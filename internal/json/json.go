// Package json is the JSON codec used on the wire. It is backed by sonic and
// keeps encoding/json compatible behaviour (sorted map keys, HTML escaping).
package json

import (
	"github.com/bytedance/sonic"
)

var api = sonic.ConfigStd

func Unmarshal(b []byte, v any) error {
	return api.Unmarshal(b, v)
}

func Marshal(v any) ([]byte, error) {
	return api.Marshal(v)
}

func MarshalIndent(v any, prefix, indent string) ([]byte, error) {
	return api.MarshalIndent(v, prefix, indent)
}
