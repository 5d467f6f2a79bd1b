package eventbus

import (
	"context"
	"testing"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/dukex/nodegraph/pkg/channels/gochannel"
	"github.com/dukex/nodegraph/pkg/events"
	"github.com/dukex/nodegraph/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatermillEventBus_PublishAndHandle(t *testing.T) {
	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub)

	received := make(chan *events.NodeExecuted, 1)

	require.NoError(t, bus.Handle(events.NodeExecutedEvent, func(_ context.Context, event any) error {
		received <- event.(*events.NodeExecuted)

		return nil
	}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, bus.Subscribe(ctx))

	// unhandled event types are acknowledged and dropped
	require.NoError(t, bus.Publish(ctx, "run-1", events.ExecutionStarted{
		BaseEvent: events.NewBaseEvent(events.ExecutionStartedEvent, "", "run-1"),
	}))

	require.NoError(t, bus.Publish(ctx, "run-1", events.NodeExecuted{
		BaseEvent: events.NewBaseEvent(events.NodeExecutedEvent, "level-1", "run-1"),
		NodeID:    "wave_1",
		NodeType:  "wave_start",
		Status:    models.NodeStatusCompleted,
	}))

	select {
	case event := <-received:
		assert.Equal(t, "wave_1", event.NodeID)
		assert.Equal(t, "run-1", event.RunID)
		assert.Equal(t, models.NodeStatusCompleted, event.Status)
	case <-time.After(5 * time.Second):
		t.Fatal("event was not delivered")
	}
}

func TestWatermillEventBus_GenerateID(t *testing.T) {
	pub, sub, err := gochannel.CreateChannel(watermill.NopLogger{})
	require.NoError(t, err)

	bus := NewWatermillEventBus(pub, sub)
	defer func() { _ = bus.Close() }()

	assert.NotEqual(t, bus.GenerateID(), bus.GenerateID())
}
