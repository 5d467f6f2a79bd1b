// Package wavestart provides the node that opens a wave of enemies.
package wavestart

import (
	"context"

	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/node"
)

const (
	TypeName = "wave_start"

	InputPortTrigger  = "trigger"
	OutputPortData    = "wave_data"
	OutputPortOnStart = "on_start"

	PropertyWaveNumber    = "wave_number"
	PropertyEnemyCount    = "enemy_count"
	PropertySpawnInterval = "spawn_interval"
	PropertyDifficulty    = "difficulty"

	MaxEnemyCount = 1000
)

// WaveStartNode describes a wave and hands the description downstream.
type WaveStartNode struct {
	node.Base
}

// NewWaveStartNode creates a wave start node with default properties.
func NewWaveStartNode(id string) *WaveStartNode {
	n := &WaveStartNode{
		Base: node.NewBase(id, TypeName, node.Metadata{
			Category:    "wave",
			Color:       "#4CAF50",
			Description: "Starts a new enemy wave",
		}),
	}

	n.AddInputPort(InputPortTrigger, models.PortKindFlow)
	n.AddOutputPort(OutputPortData, models.PortKindData)
	n.AddOutputPort(OutputPortOnStart, models.PortKindFlow)

	n.SetProperty(PropertyWaveNumber, 1)
	n.SetProperty(PropertyEnemyCount, 5)
	n.SetProperty(PropertySpawnInterval, 1.0)
	n.SetProperty(PropertyDifficulty, 1.0)

	return n
}

// Execute writes the wave description to wave_data. Keys of an object input
// are carried along unless the wave defines them itself.
func (n *WaveStartNode) Execute(_ context.Context, input any) models.NodeStatus {
	n.SetStatus(models.NodeStatusRunning)

	enemyCount := node.Property(n, PropertyEnemyCount, 5)
	if enemyCount < 0 || enemyCount > MaxEnemyCount {
		n.Logger().Warn("invalid enemy count", "enemy_count", enemyCount, "max", MaxEnemyCount)

		return n.Finish(models.NodeStatusError)
	}

	data := map[string]any{
		PropertyWaveNumber:    node.Property(n, PropertyWaveNumber, 1),
		PropertyEnemyCount:    enemyCount,
		PropertySpawnInterval: node.Property(n, PropertySpawnInterval, 1.0),
		PropertyDifficulty:    node.Property(n, PropertyDifficulty, 1.0),
	}

	if object, ok := models.AsObject(input); ok {
		for key, value := range object {
			if _, exists := data[key]; !exists {
				data[key] = models.CopyValue(value)
			}
		}
	}

	n.SetOutput(OutputPortData, data)
	n.SetOutput(OutputPortOnStart, true)

	n.Logger().Debug("wave started", "wave_number", data[PropertyWaveNumber], "enemy_count", enemyCount)

	return n.Finish(models.NodeStatusCompleted)
}
