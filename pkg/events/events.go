// Package events defines the notifications published while graphs execute.
package events

import (
	"time"

	"github.com/dukex/nodegraph/pkg/models"
	"github.com/google/uuid"
)

type EventType string

const Topic = "nodegraph.events"

const EventMetadataKey = "key"
const EventTypeMetadataKey = "event_type"

const (
	ExecutionStartedEvent  EventType = "graph.execution_started"
	NodeExecutedEvent      EventType = "node.executed"
	ExecutionFinishedEvent EventType = "graph.execution_finished"
)

type BaseEvent struct {
	ID        string         `json:"id"`
	Type      EventType      `json:"type"`
	Timestamp time.Time      `json:"timestamp"`
	GraphID   string         `json:"graph_id,omitempty"`
	RunID     string         `json:"run_id"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// NewBaseEvent stamps a new event of eventType for one run.
func NewBaseEvent(eventType EventType, graphID, runID string) BaseEvent {
	return BaseEvent{
		ID:        uuid.NewString(),
		Type:      eventType,
		Timestamp: time.Now().UTC(),
		GraphID:   graphID,
		RunID:     runID,
	}
}

type ExecutionStarted struct {
	BaseEvent

	StartNodeID string `json:"start_node_id"`
	Debug       bool   `json:"debug"`
}

func (e ExecutionStarted) GetType() EventType {
	return ExecutionStartedEvent
}

type NodeExecuted struct {
	BaseEvent

	NodeID     string            `json:"node_id"`
	NodeType   string            `json:"node_type"`
	Status     models.NodeStatus `json:"status"`
	DurationMS int64             `json:"duration_ms"`
}

func (e NodeExecuted) GetType() EventType {
	return NodeExecutedEvent
}

type ExecutionFinished struct {
	BaseEvent

	StartNodeID string        `json:"start_node_id"`
	Executed    []string      `json:"executed"`
	Partial     bool          `json:"partial"`
	Stopped     bool          `json:"stopped"`
	Duration    time.Duration `json:"duration"`
}

func (e ExecutionFinished) GetType() EventType {
	return ExecutionFinishedEvent
}
