package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dukex/nodegraph/pkg/eventbus"
	"github.com/dukex/nodegraph/pkg/events"
)

// watchEvents logs every execution event that comes back over bus.
func watchEvents(ctx context.Context, bus eventbus.EventBus, logger *slog.Logger) error {
	logger = logger.With("module", "events")

	for _, eventType := range []events.EventType{
		events.ExecutionStartedEvent,
		events.NodeExecutedEvent,
		events.ExecutionFinishedEvent,
	} {
		err := bus.Handle(eventType, func(ctx context.Context, event any) error {
			logger.DebugContext(ctx, "Event received", "event_type", eventType, "event", event)

			return nil
		})
		if err != nil {
			return fmt.Errorf("failed to register %s handler: %w", eventType, err)
		}
	}

	if err := bus.Subscribe(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to events: %w", err)
	}

	return nil
}
