// Package log provides a node that writes a message to the engine log and
// passes its input through unchanged.
package log

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/node"
	"github.com/dukex/nodegraph/pkg/template"
)

const (
	TypeName = "log"

	InputPortMain         = "input"
	OutputPortPassthrough = "passthrough"

	PropertyMessage = "message"
	PropertyLevel   = "level"
)

// LogLevel represents different logging levels.
type LogLevel int

const (
	Debug LogLevel = iota
	Info
	Warn
	Error
)

var logLevelName = map[LogLevel]string{
	Debug: "debug",
	Info:  "info",
	Warn:  "warn",
	Error: "error",
}

var slogLevel = map[string]slog.Level{
	logLevelName[Debug]: slog.LevelDebug,
	logLevelName[Info]:  slog.LevelInfo,
	logLevelName[Warn]:  slog.LevelWarn,
	logLevelName[Error]: slog.LevelError,
}

// LogNode logs a rendered message.
type LogNode struct {
	node.Base
}

// NewLogNode creates a log node logging at info level.
func NewLogNode(id string) *LogNode {
	n := &LogNode{
		Base: node.NewBase(id, TypeName, node.Metadata{
			Category:    "debug",
			Color:       "#9E9E9E",
			Description: "Logs a message and forwards its input",
		}),
	}

	n.AddInputPort(InputPortMain, models.PortKindData)
	n.AddOutputPort(OutputPortPassthrough, models.PortKindData)

	n.SetProperty(PropertyMessage, "{{ .input }}")
	n.SetProperty(PropertyLevel, logLevelName[Info])

	return n
}

// Execute renders the message with .input and .properties and logs it.
func (n *LogNode) Execute(ctx context.Context, input any) models.NodeStatus {
	n.SetStatus(models.NodeStatusRunning)

	n.Input(InputPortMain).Value = input

	rendered, err := template.Render(node.Property(n, PropertyMessage, ""), map[string]any{
		"input":      input,
		"properties": n.Properties(),
	})
	if err != nil {
		n.Logger().Warn("failed to render log message template", "error", err)

		return n.Finish(models.NodeStatusError)
	}

	level, ok := slogLevel[node.Property(n, PropertyLevel, logLevelName[Info])]
	if !ok {
		level = slog.LevelInfo
	}

	n.Logger().Log(ctx, level, fmt.Sprintf("%v", rendered))

	n.SetOutput(OutputPortPassthrough, models.CopyValue(input))

	return n.Finish(models.NodeStatusCompleted)
}
