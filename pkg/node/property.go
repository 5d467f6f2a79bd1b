package node

import (
	"errors"
	"fmt"

	"github.com/dukex/nodegraph/pkg/log"
	"github.com/dukex/nodegraph/pkg/models"
	"github.com/spf13/cast"
)

// ErrPropertyType is returned by Convert when a value's kind does not match
// the requested type.
var ErrPropertyType = errors.New("property type mismatch")

// PropertyReader is the part of a node Property needs.
type PropertyReader interface {
	ID() string
	Property(key string) (any, bool)
}

// Property reads key from the node's property bag as T. A missing key yields
// def. A value of the wrong kind (a string where a number is wanted, for
// instance) is logged and also yields def, so a malformed graph keeps running.
func Property[T any](n PropertyReader, key string, def T) T {
	raw, ok := n.Property(key)
	if !ok || raw == nil {
		return def
	}

	value, err := Convert[T](raw)
	if err != nil {
		log.WithModule("node").Warn("property type mismatch, using default",
			"node_id", n.ID(),
			"key", key,
			"want", fmt.Sprintf("%T", def),
			"got", fmt.Sprintf("%T", raw),
			"default", def,
		)

		return def
	}

	return value
}

// Lookup reads key from a structured object as T with the same rules as
// Property. A nil or non-object value yields def.
func Lookup[T any](value any, key string, def T) T {
	object, ok := models.AsObject(value)
	if !ok {
		return def
	}

	raw, ok := object[key]
	if !ok || raw == nil {
		return def
	}

	converted, err := Convert[T](raw)
	if err != nil {
		return def
	}

	return converted
}

// Convert extracts a T from a structured value. Numbers convert between
// numeric types (fractions truncate toward zero for integers); strings, bools
// and numbers never convert into one another.
func Convert[T any](raw any) (T, error) {
	var zero T

	var (
		out any
		err error
	)

	switch any(zero).(type) {
	case int:
		if !models.IsNumber(raw) {
			return zero, mismatch(zero, raw)
		}

		out, err = cast.ToIntE(raw)
	case int64:
		if !models.IsNumber(raw) {
			return zero, mismatch(zero, raw)
		}

		out, err = cast.ToInt64E(raw)
	case float64:
		if !models.IsNumber(raw) {
			return zero, mismatch(zero, raw)
		}

		out, err = cast.ToFloat64E(raw)
	case float32:
		if !models.IsNumber(raw) {
			return zero, mismatch(zero, raw)
		}

		out, err = cast.ToFloat32E(raw)
	case bool:
		if _, ok := raw.(bool); !ok {
			return zero, mismatch(zero, raw)
		}

		out = raw
	case string:
		if _, ok := raw.(string); !ok {
			return zero, mismatch(zero, raw)
		}

		out = raw
	default:
		value, ok := raw.(T)
		if !ok {
			return zero, mismatch(zero, raw)
		}

		return value, nil
	}

	if err != nil {
		return zero, fmt.Errorf("%w: %w", ErrPropertyType, err)
	}

	value, ok := out.(T)
	if !ok {
		return zero, mismatch(zero, raw)
	}

	return value, nil
}

func mismatch(want, got any) error {
	return fmt.Errorf("%w: want %T, got %T", ErrPropertyType, want, got)
}
