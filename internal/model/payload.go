package model

import (
	"encoding/json"
	"fmt"
)

// RawPayload is the untyped JSON object returned by a source.
// A failed source is represented by an empty, non-nil payload.
type RawPayload map[string]any

// EmptyPayload returns a payload with no fields.
func EmptyPayload() RawPayload {
	return RawPayload{}
}

// Lookup returns the value for key. JSON null counts as absent.
func (p RawPayload) Lookup(key string) (any, bool) {
	v, ok := p[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

// Scalar returns the value for key when it can be shown as a single value
// (a number, string or bool).
func (p RawPayload) Scalar(key string) (Scalar, bool) {
	v, ok := p.Lookup(key)
	if !ok {
		return Unknown(), false
	}
	switch v.(type) {
	case json.Number, string, bool, float64, int, int64:
		return Known(v), true
	default:
		return Unknown(), false
	}
}

// List returns the value for key when it is a JSON array, with each element
// rendered as a string.
func (p RawPayload) List(key string) ([]string, bool) {
	v, ok := p.Lookup(key)
	if !ok {
		return nil, false
	}
	var items []any
	switch l := v.(type) {
	case []any:
		items = l
	case []string:
		return append([]string{}, l...), true
	default:
		return nil, false
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, listItemString(item))
	}
	return out, true
}

func listItemString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case nil:
		return "null"
	}
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(data)
}
