package models

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCopyValue_IsDeep(t *testing.T) {
	original := map[string]any{
		"wave": map[string]any{"number": 3},
		"ids":  []any{"a", map[string]any{"b": true}},
	}

	copied, ok := CopyValue(original).(map[string]any)
	require.True(t, ok)

	copied["wave"].(map[string]any)["number"] = 4
	copied["ids"].([]any)[1].(map[string]any)["b"] = false

	assert.Equal(t, 3, original["wave"].(map[string]any)["number"])
	assert.Equal(t, true, original["ids"].([]any)[1].(map[string]any)["b"])
}

func TestCopyObject_Nil(t *testing.T) {
	assert.Equal(t, map[string]any{}, CopyObject(nil))
}

func TestIsNumber(t *testing.T) {
	assert.True(t, IsNumber(3))
	assert.True(t, IsNumber(3.5))
	assert.True(t, IsNumber(json.Number("7")))
	assert.False(t, IsNumber("3"))
	assert.False(t, IsNumber(true))
	assert.False(t, IsNumber(nil))
}

func TestPort_Direction(t *testing.T) {
	in := NewInputPort("trigger", PortKindFlow)
	out := NewOutputPort("wave_data", PortKindData)

	assert.Equal(t, PortDirectionInput, in.Direction())
	assert.False(t, in.IsOutput())
	assert.True(t, out.IsOutput())
	assert.Equal(t, SerializedPort{Name: "wave_data", Type: PortKindData, IsOutput: true}, out.Serialize())
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "flow", PortKindFlow.String())
	assert.Equal(t, "event", PortKindEvent.String())
	assert.Equal(t, "port_kind(9)", PortKind(9).String())
	assert.Equal(t, "completed", NodeStatusCompleted.String())
	assert.Equal(t, "skipped", NodeStatusSkipped.String())
	assert.True(t, NodeStatusError.IsTerminal())
	assert.False(t, NodeStatusRunning.IsTerminal())
}

func TestConnection_Touches(t *testing.T) {
	conn := Connection{ID: "conn_1", FromNodeID: "a", FromPort: "out", ToNodeID: "b", ToPort: "in"}

	assert.True(t, conn.Touches("a"))
	assert.True(t, conn.Touches("b"))
	assert.False(t, conn.Touches("c"))
}

func TestExecutionLogEntry_JSON(t *testing.T) {
	entry := ExecutionLogEntry{
		NodeID:  "wave_1",
		Status:  NodeStatusCompleted,
		Elapsed: 1500 * time.Microsecond,
		Output:  map[string]any{"enemy_count": 5},
	}

	data, err := json.Marshal(entry)
	require.NoError(t, err)
	assert.JSONEq(t, `{"node_id":"wave_1","status":2,"execution_time_ms":1,"output":{"enemy_count":5}}`, string(data))

	var decoded ExecutionLogEntry
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, "wave_1", decoded.NodeID)
	assert.Equal(t, NodeStatusCompleted, decoded.Status)
	assert.Equal(t, time.Millisecond, decoded.Elapsed)
}

func TestExecutionLogEntry_JSONNilOutput(t *testing.T) {
	data, err := json.Marshal(ExecutionLogEntry{NodeID: "n", Status: NodeStatusSkipped})
	require.NoError(t, err)
	assert.JSONEq(t, `{"node_id":"n","status":4,"execution_time_ms":0,"output":{}}`, string(data))
}
