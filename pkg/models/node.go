package models

import "fmt"

// NodeStatus is the state of a node within one traversal.
type NodeStatus int

const (
	NodeStatusIdle NodeStatus = iota
	NodeStatusRunning
	NodeStatusCompleted
	NodeStatusError
	NodeStatusSkipped
)

func (s NodeStatus) String() string {
	switch s {
	case NodeStatusIdle:
		return "idle"
	case NodeStatusRunning:
		return "running"
	case NodeStatusCompleted:
		return "completed"
	case NodeStatusError:
		return "error"
	case NodeStatusSkipped:
		return "skipped"
	default:
		return fmt.Sprintf("node_status(%d)", int(s))
	}
}

// IsTerminal reports whether s ends a single Execute call.
func (s NodeStatus) IsTerminal() bool {
	return s == NodeStatusCompleted || s == NodeStatusError || s == NodeStatusSkipped
}
