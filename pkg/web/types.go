// Package web provides HTTP request and response types for the graph API.
package web

import (
	"github.com/dukex/nodegraph/pkg/executor"
	"github.com/dukex/nodegraph/pkg/graph"
	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/services"
)

// CreateGraphRequest represents the request body for storing a graph.
// An empty id is generated.
type CreateGraphRequest struct {
	ID       string                 `json:"id"       validate:"omitempty,max=128,excludesall=/\\"`
	Name     string                 `json:"name"     validate:"required,min=1,max=255"`
	Document models.SerializedGraph `json:"document"`
}

// ExecuteGraphRequest represents the optional request body for running a graph.
type ExecuteGraphRequest struct {
	StartNode   string `json:"start_node"`
	Debug       bool   `json:"debug"`
	Propagation string `json:"propagation" validate:"omitempty,oneof=first per-connection"`
}

// ExecuteGraphResponse is the outcome of a run.
type ExecuteGraphResponse struct {
	RunID       string                     `json:"run_id"`
	StartNodeID string                     `json:"start_node_id"`
	Executed    []string                   `json:"executed"`
	Log         []models.ExecutionLogEntry `json:"log"`
	Diagnostics []executor.Diagnostic      `json:"diagnostics"`
	LoadReport  *graph.LoadReport          `json:"load_report"`
	Partial     bool                       `json:"partial"`
	Stopped     bool                       `json:"stopped"`
	DurationMS  int64                      `json:"duration_ms"`
}

// NewExecuteGraphResponse flattens a service response for the wire.
func NewExecuteGraphResponse(response *services.ExecuteResponse) ExecuteGraphResponse {
	result := response.Result

	return ExecuteGraphResponse{
		RunID:       result.RunID,
		StartNodeID: result.StartNodeID,
		Executed:    result.Executed,
		Log:         response.Log,
		Diagnostics: result.Diagnostics,
		LoadReport:  response.LoadReport,
		Partial:     result.Partial(),
		Stopped:     result.Stopped,
		DurationMS:  result.Duration.Milliseconds(),
	}
}

// NodeTypeResponse describes a registered node type.
type NodeTypeResponse struct {
	Type        string         `json:"type"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	Schema      map[string]any `json:"schema"`
}
