package wavestart

import (
	"context"

	"github.com/dukex/nodegraph/pkg/protocol"
)

// WaveStartNodeFactory creates WaveStartNode instances.
type WaveStartNodeFactory struct{}

// Create creates a new WaveStartNode instance.
func (f *WaveStartNodeFactory) Create(_ context.Context, id string) (protocol.Node, error) {
	return NewWaveStartNode(id), nil
}

// ID returns the factory ID.
func (f *WaveStartNodeFactory) ID() string {
	return TypeName
}

// Name returns the factory name.
func (f *WaveStartNodeFactory) Name() string {
	return "Wave Start"
}

// Description returns the factory description.
func (f *WaveStartNodeFactory) Description() string {
	return "Starts an enemy wave and emits its number, size, pacing and difficulty."
}

// Schema returns the JSON schema for wave start properties.
func (f *WaveStartNodeFactory) Schema() map[string]any {
	return map[string]any{
		"type": "object",
		"properties": map[string]any{
			PropertyWaveNumber: map[string]any{
				"type":        "integer",
				"description": "Wave number shown to the player",
				"minimum":     1,
				"default":     1,
			},
			PropertyEnemyCount: map[string]any{
				"type":        "integer",
				"description": "Number of enemies in the wave",
				"minimum":     0,
				"maximum":     MaxEnemyCount,
				"default":     5,
			},
			PropertySpawnInterval: map[string]any{
				"type":        "number",
				"description": "Seconds between two spawns",
				"minimum":     0,
				"default":     1.0,
			},
			PropertyDifficulty: map[string]any{
				"type":        "number",
				"description": "Multiplier applied to enemy stats",
				"minimum":     0,
				"default":     1.0,
			},
		},
		"examples": []map[string]any{
			{PropertyWaveNumber: 3, PropertyEnemyCount: 12, PropertyDifficulty: 1.5},
		},
	}
}

// NewWaveStartNodeFactory creates a new factory instance.
func NewWaveStartNodeFactory() protocol.NodeFactory {
	return &WaveStartNodeFactory{}
}
