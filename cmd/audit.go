package cmd

import (
	"context"
	"log/slog"

	"github.com/campushr/claims-management/internal/core/events"
)

// registerAuditSubscribers writes every lifecycle event to the audit log.
// Handlers run off the request path; a failed write never fails the
// operation that produced the event.
func registerAuditSubscribers(bus *events.EventBus, lg *slog.Logger) {
	audit := lg.With("component", "audit")

	bus.Subscribe(events.EventTypeClaimSubmitted, func(ctx context.Context, e events.Event) error {
		audit.Info("claim submitted", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})

	bus.Subscribe(events.EventTypeClaimTransitioned, func(ctx context.Context, e events.Event) error {
		audit.Info("claim transitioned", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})

	bus.Subscribe(events.EventTypeClaimDeleted, func(ctx context.Context, e events.Event) error {
		audit.Info("claim deleted", "event_id", e.EventID(), "payload", e.Payload())
		return nil
	})
}
