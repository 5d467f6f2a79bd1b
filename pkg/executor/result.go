package executor

import "time"

type DiagnosticKind string

const (
	DiagnosticCycle              DiagnosticKind = "cycle"
	DiagnosticDanglingConnection DiagnosticKind = "dangling_connection"
	DiagnosticNodeError          DiagnosticKind = "node_error"
)

// Diagnostic is a recoverable problem met during a run.
type Diagnostic struct {
	Kind         DiagnosticKind `json:"kind"`
	NodeID       string         `json:"node_id"`
	ConnectionID string         `json:"connection_id,omitempty"`
	Message      string         `json:"message"`
}

// Result summarizes one run.
type Result struct {
	RunID       string        `json:"run_id"`
	StartNodeID string        `json:"start_node_id"`
	Executed    []string      `json:"executed"`
	Diagnostics []Diagnostic  `json:"diagnostics"`
	Stopped     bool          `json:"stopped"`
	Duration    time.Duration `json:"duration"`
}

// Partial reports whether some path was cut short by a cycle or the run was
// stopped before visiting every reachable node.
func (r *Result) Partial() bool {
	if r.Stopped {
		return true
	}

	for _, d := range r.Diagnostics {
		if d.Kind == DiagnosticCycle {
			return true
		}
	}

	return false
}

// DiagnosticsOf returns the diagnostics of one kind in the order they occurred.
func (r *Result) DiagnosticsOf(kind DiagnosticKind) []Diagnostic {
	var out []Diagnostic

	for _, d := range r.Diagnostics {
		if d.Kind == kind {
			out = append(out, d)
		}
	}

	return out
}
