// Package databind synchronizes a JSON-like document with user interface elements.
package databind

import (
	"encoding/json"
	"errors"
	"fmt"
)

var ErrBadValue = errors.New("value cannot be represented as a document value")

// FromGo converts a plain Go value of the kinds produced by
// encoding/json (nil, bool, string, float64, int, []any,
// map[string]any) into a document Value.
func FromGo(v any) (Value, error) {
	switch t := v.(type) {
	case nil:
		return Null{}, nil
	case Value:
		return t, nil
	case bool:
		return Bool(t), nil
	case string:
		return String(t), nil
	case float64:
		return Number(t), nil
	case int:
		return Number(t), nil
	case []any:
		l := NewList()
		for _, item := range t {
			dv, err := FromGo(item)
			if err != nil {
				return nil, err
			}
			l = append(l, dv)
		}
		return l, nil
	case map[string]any:
		o := NewObject()
		for k, item := range t {
			dv, err := FromGo(item)
			if err != nil {
				return nil, err
			}
			o[k] = dv
		}
		return o, nil
	}
	return nil, fmt.Errorf("%w: %T", ErrBadValue, v)
}

// ToGo converts a document Value back into the plain Go form
// encoding/json produces.
func ToGo(v Value) any {
	switch t := v.(type) {
	case nil:
		return nil
	case Null:
		return nil
	case Bool:
		return bool(t)
	case String:
		return string(t)
	case Number:
		return float64(t)
	case List:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ToGo(item)
		}
		return out
	case Object:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = ToGo(item)
		}
		return out
	}
	return nil
}

// ParseJSON decodes a JSON document into a Value tree.
func ParseJSON(data []byte) (Value, error) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	return FromGo(raw)
}

func formatJSON(v Value) string {
	data, err := json.Marshal(ToGo(v))
	if err != nil {
		return ""
	}
	return string(data)
}
