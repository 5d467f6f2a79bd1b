package log

import (
	"context"

	"github.com/dukex/nodegraph/pkg/protocol"
)

// LogNodeFactory creates LogNode instances.
type LogNodeFactory struct{}

// Create creates a new LogNode instance.
func (f *LogNodeFactory) Create(_ context.Context, id string) (protocol.Node, error) {
	return NewLogNode(id), nil
}

// ID returns the factory ID.
func (f *LogNodeFactory) ID() string {
	return TypeName
}

// Name returns the factory name.
func (f *LogNodeFactory) Name() string {
	return "Log"
}

// Description returns the factory description.
func (f *LogNodeFactory) Description() string {
	return "Logs a message for debugging graphs. The input is forwarded unchanged."
}

// Schema returns the JSON schema for Log node configuration.
func (f *LogNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			PropertyMessage: map[string]any{
				"type":        "string",
				"description": "Message template rendered with .input and .properties",
				"default":     "{{ .input }}",
				"examples": []string{
					"Wave {{ .input.wave_number }} started",
					"Spawned {{ len .input.enemy_ids }} enemies",
				},
			},
			PropertyLevel: map[string]any{
				"type":    "string",
				"enum":    []string{logLevelName[Debug], logLevelName[Info], logLevelName[Warn], logLevelName[Error]},
				"default": logLevelName[Info],
			},
		},
	}
}

// NewLogNodeFactory creates a new factory instance.
func NewLogNodeFactory() protocol.NodeFactory {
	return &LogNodeFactory{}
}
