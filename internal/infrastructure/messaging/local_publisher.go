package messaging

import (
	"context"
	"log/slog"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/event"
)

// EventHandler consumes one decoded domain event.
type EventHandler interface {
	Handle(ctx context.Context, e event.DomainEvent) error
}

// LocalEventPublisher delivers events synchronously to in-process handlers.
// It stands in for Kafka when no broker is configured. Handler failures are
// logged, not returned: the publishing operation has already committed.
type LocalEventPublisher struct {
	handlers []EventHandler
	logger   *slog.Logger
}

func NewLocalEventPublisher(logger *slog.Logger, handlers ...EventHandler) *LocalEventPublisher {
	return &LocalEventPublisher{handlers: handlers, logger: logger}
}

func (p *LocalEventPublisher) Publish(ctx context.Context, evts ...event.DomainEvent) error {
	for _, evt := range evts {
		for _, h := range p.handlers {
			if err := h.Handle(ctx, evt); err != nil {
				p.logger.ErrorContext(ctx, "event handler failed",
					"event_type", evt.EventType(),
					"event_id", evt.EventID(),
					"error", err,
				)
			}
		}
	}
	return nil
}
