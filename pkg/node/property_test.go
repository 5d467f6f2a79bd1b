package node

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProperty_TypeMismatchReturnsDefault(t *testing.T) {
	n := newTestNode("wave")
	n.SetProperty("wave_number", "3")

	assert.Equal(t, 7, Property(n, "wave_number", 7))
}

func TestProperty(t *testing.T) {
	n := newTestNode("n")
	n.SetProperty("int", 3)
	n.SetProperty("float", 2.75)
	n.SetProperty("json_number", json.Number("12"))
	n.SetProperty("bool", true)
	n.SetProperty("string", "goblin")
	n.SetProperty("object", map[string]any{"a": 1})
	n.SetProperty("nil", nil)

	tests := []struct {
		name string
		got  any
		want any
	}{
		{"int from int", Property(n, "int", 0), 3},
		{"int from float truncates", Property(n, "float", 0), 2},
		{"int from json number", Property(n, "json_number", 0), 12},
		{"float from int", Property(n, "int", 0.0), 3.0},
		{"float32 from float", Property(n, "float", float32(0)), float32(2.75)},
		{"int64 from int", Property(n, "int", int64(0)), int64(3)},
		{"bool", Property(n, "bool", false), true},
		{"string", Property(n, "string", ""), "goblin"},
		{"object", Property(n, "object", map[string]any(nil)), map[string]any{"a": 1}},
		{"any", Property[any](n, "string", nil), "goblin"},
		{"missing", Property(n, "missing", 5), 5},
		{"nil value", Property(n, "nil", "x"), "x"},
		{"bool from number", Property(n, "int", false), false},
		{"string from number", Property(n, "int", "dflt"), "dflt"},
		{"number from bool", Property(n, "bool", 4), 4},
		{"object from string", Property(n, "string", map[string]any{"d": 1}), map[string]any{"d": 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.got)
		})
	}
}

func TestConvert_ReportsMismatch(t *testing.T) {
	_, err := Convert[int]("3")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrPropertyType)

	v, err := Convert[float64](4)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, v, 1e-9)
}

func TestLookup(t *testing.T) {
	input := map[string]any{"enemy_count": 5.0, "name": "wave"}

	assert.Equal(t, 5, Lookup(input, "enemy_count", 1))
	assert.Equal(t, 1, Lookup(input, "name", 1))
	assert.Equal(t, 1, Lookup(input, "missing", 1))
	assert.Equal(t, 1, Lookup("not an object", "enemy_count", 1))
	assert.Equal(t, "wave", Lookup(input, "name", ""))
}
