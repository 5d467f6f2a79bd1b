// Package models defines the data model of the node graph engine: ports, statuses,
// connections, execution log entries and the serialized graph document.
package models

import "encoding/json"

// EmptyObject returns a new, empty structured object.
func EmptyObject() map[string]any {
	return map[string]any{}
}

// CopyValue returns a deep copy of a structured value. Objects and arrays are
// duplicated recursively; scalars are returned unchanged.
func CopyValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = CopyValue(item)
		}

		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = CopyValue(item)
		}

		return out
	default:
		return value
	}
}

// CopyObject deep copies an object, returning an empty object for nil.
func CopyObject(object map[string]any) map[string]any {
	if object == nil {
		return EmptyObject()
	}

	copied, _ := CopyValue(object).(map[string]any)

	return copied
}

// AsObject reports whether value is a structured object and returns it.
func AsObject(value any) (map[string]any, bool) {
	object, ok := value.(map[string]any)

	return object, ok
}

// IsNumber reports whether value holds a numeric scalar.
func IsNumber(value any) bool {
	switch value.(type) {
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64, json.Number:
		return true
	default:
		return false
	}
}
