package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// AbsentFieldText is how a missing or null field reads inside a prompt.
const AbsentFieldText = "None"

// Field holds a raw request value of any JSON type.
// The zero value represents a key that was not present in the body.
type Field struct {
	raw json.RawMessage
}

// RawField builds a Field from raw JSON text. Used mostly by tests and callers
// that already hold encoded values.
func RawField(raw string) Field {
	if raw == "" {
		return Field{}
	}
	return Field{raw: json.RawMessage(raw)}
}

// UnmarshalJSON keeps a copy of the raw value.
func (f *Field) UnmarshalJSON(data []byte) error {
	f.raw = append(f.raw[:0], data...)
	return nil
}

// MarshalJSON writes the raw value back out, or null when absent.
func (f Field) MarshalJSON() ([]byte, error) {
	if len(f.raw) == 0 {
		return []byte("null"), nil
	}
	return f.raw, nil
}

// IsAbsent reports whether the field was missing or explicitly null.
func (f Field) IsAbsent() bool {
	trimmed := bytes.TrimSpace(f.raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// String renders the value the way it is embedded into prompts:
// strings unquoted, scalars as literals, string lists joined with ", ",
// anything else as compact JSON.
func (f Field) String() string {
	if f.IsAbsent() {
		return AbsentFieldText
	}

	dec := json.NewDecoder(bytes.NewReader(f.raw))
	dec.UseNumber()
	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return string(f.raw)
	}

	switch val := v.(type) {
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case []interface{}:
		if items, ok := stringItems(val); ok {
			return strings.Join(items, ", ")
		}
	}
	return f.compact()
}

func (f Field) compact() string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, f.raw); err != nil {
		return string(f.raw)
	}
	return buf.String()
}

func stringItems(values []interface{}) ([]string, bool) {
	items := make([]string, 0, len(values))
	for _, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, false
		}
		items = append(items, s)
	}
	return items, true
}
