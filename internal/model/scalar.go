package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Placeholder is the text shown for an unknown scalar.
const Placeholder = "-"

// Scalar is a resolved metric value or the explicit unknown sentinel.
// The zero value is unknown.
type Scalar struct {
	value any
	known bool
}

// Known wraps a concrete value.
func Known(v any) Scalar {
	return Scalar{value: v, known: true}
}

// Unknown returns the sentinel used when no source supplies a field.
func Unknown() Scalar {
	return Scalar{}
}

// IsKnown reports whether the scalar holds a concrete value.
func (s Scalar) IsKnown() bool { return s.known }

// Value returns the concrete value, or nil when unknown.
func (s Scalar) Value() any { return s.value }

// String renders the value for display.
func (s Scalar) String() string {
	if !s.known {
		return Placeholder
	}
	switch v := s.value.(type) {
	case json.Number:
		return v.String()
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// MarshalJSON writes unknown as null and concrete values as themselves.
func (s Scalar) MarshalJSON() ([]byte, error) {
	if !s.known {
		return []byte("null"), nil
	}
	return json.Marshal(s.value)
}

// UnmarshalJSON reads null as unknown. Numbers are kept as json.Number.
func (s *Scalar) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Unknown()
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return err
	}
	*s = Known(v)
	return nil
}
