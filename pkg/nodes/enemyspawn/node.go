// Package enemyspawn provides the node that spawns a group of enemies.
package enemyspawn

import (
	"context"
	"fmt"

	"github.com/dukex/nodegraph/pkg/models"
	"github.com/dukex/nodegraph/pkg/node"
)

const (
	TypeName = "enemy_spawn"

	InputPortTrigger    = "trigger"
	InputPortWaveData   = "wave_data"
	OutputPortSpawned   = "spawned"
	OutputPortOnSpawned = "on_spawned"

	PropertyEnemyType = "enemy_type"
	PropertyCount     = "count"
	PropertyHealth    = "health"

	// MaxCount bounds a single spawn.
	MaxCount = 1000
)

// EnemySpawnNode spawns enemies sized by its own properties or by the wave
// description it receives.
type EnemySpawnNode struct {
	node.Base
}

// NewEnemySpawnNode creates an enemy spawn node with default properties.
func NewEnemySpawnNode(id string) *EnemySpawnNode {
	n := &EnemySpawnNode{
		Base: node.NewBase(id, TypeName, node.Metadata{
			Category:    "enemy",
			Color:       "#F44336",
			Description: "Spawns enemies into the current wave",
		}),
	}

	n.AddInputPort(InputPortTrigger, models.PortKindFlow)
	n.AddInputPort(InputPortWaveData, models.PortKindData)
	n.AddOutputPort(OutputPortSpawned, models.PortKindData)
	n.AddOutputPort(OutputPortOnSpawned, models.PortKindFlow)

	n.SetProperty(PropertyEnemyType, "basic")
	n.SetProperty(PropertyHealth, 100.0)

	return n
}

// Execute spawns count enemies. The count comes from the count property,
// then from the input's enemy_count, then defaults to one.
func (n *EnemySpawnNode) Execute(_ context.Context, input any) models.NodeStatus {
	n.SetStatus(models.NodeStatusRunning)

	n.Input(InputPortWaveData).Value = input

	count := node.Lookup(input, "enemy_count", 1)
	if _, ok := n.Property(PropertyCount); ok {
		count = node.Property(n, PropertyCount, count)
	}

	if count < 0 || count > MaxCount {
		n.Logger().Warn("invalid spawn count", "count", count, "max", MaxCount)

		return n.Finish(models.NodeStatusError)
	}

	if count == 0 {
		n.Logger().Debug("nothing to spawn")

		return n.Finish(models.NodeStatusSkipped)
	}

	enemyType := node.Property(n, PropertyEnemyType, "basic")
	health := node.Property(n, PropertyHealth, 100.0) * node.Lookup(input, "difficulty", 1.0)

	ids := make([]any, 0, count)
	for i := 1; i <= count; i++ {
		ids = append(ids, fmt.Sprintf("%s_%d", n.ID(), i))
	}

	spawned := map[string]any{
		PropertyEnemyType: enemyType,
		PropertyCount:     count,
		PropertyHealth:    health,
		"wave_number":     node.Lookup(input, "wave_number", 0),
		"enemy_ids":       ids,
		"input":           models.CopyValue(input),
	}

	n.SetOutput(OutputPortSpawned, spawned)
	n.SetOutput(OutputPortOnSpawned, true)

	n.Logger().Debug("enemies spawned", "enemy_type", enemyType, "count", count, "health", health)

	return n.Finish(models.NodeStatusCompleted)
}
