package artifact

import (
	"bytes"
	"encoding/json"
)

// jsonObject accumulates key-value pairs and serializes them as a JSON
// object preserving insertion order. Plain maps marshal with lexicographic
// key order, which would scramble semantic version and catalog ordering.
type jsonObject struct {
	keys   []string
	values []any
}

func newJSONObject() *jsonObject {
	return &jsonObject{}
}

// set appends a member. Keys are expected to be unique.
func (o *jsonObject) set(key string, value any) {
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
}

// empty reports whether the object has no members.
func (o *jsonObject) empty() bool {
	return len(o.keys) == 0
}

// MarshalJSON writes members in insertion order.
func (o *jsonObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteByte('{')

	for i, key := range o.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		keyBytes, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}

		buf.Write(keyBytes)
		buf.WriteByte(':')

		valueBytes, err := json.Marshal(o.values[i])
		if err != nil {
			return nil, err
		}

		buf.Write(valueBytes)
	}

	buf.WriteByte('}')

	return buf.Bytes(), nil
}
