package models

import (
	"encoding/json"
	"time"
)

// ExecutionLogEntry records one node visit of a debug run.
type ExecutionLogEntry struct {
	NodeID  string
	Status  NodeStatus
	Elapsed time.Duration
	Output  any
}

type executionLogEntryJSON struct {
	NodeID          string     `json:"node_id"`
	Status          NodeStatus `json:"status"`
	ExecutionTimeMS int64      `json:"execution_time_ms"`
	Output          any        `json:"output"`
}

// MarshalJSON encodes the entry as {node_id, status, execution_time_ms, output}.
func (e ExecutionLogEntry) MarshalJSON() ([]byte, error) {
	output := e.Output
	if output == nil {
		output = EmptyObject()
	}

	return json.Marshal(executionLogEntryJSON{
		NodeID:          e.NodeID,
		Status:          e.Status,
		ExecutionTimeMS: e.Elapsed.Milliseconds(),
		Output:          output,
	})
}

func (e *ExecutionLogEntry) UnmarshalJSON(data []byte) error {
	var raw executionLogEntryJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	e.NodeID = raw.NodeID
	e.Status = raw.Status
	e.Elapsed = time.Duration(raw.ExecutionTimeMS) * time.Millisecond
	e.Output = raw.Output

	return nil
}
