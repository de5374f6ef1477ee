package messaging

import (
	"context"
	"errors"
	"log/slog"

	"github.com/MiguelMaleico/credit360-smart-market/internal/domain/event"
	"github.com/MiguelMaleico/credit360-smart-market/pkg/events"
	pkgkafka "github.com/MiguelMaleico/credit360-smart-market/pkg/kafka"
)

// EnvelopeHandler adapts an EventHandler to raw Kafka messages. Malformed
// messages and unknown event types are logged and acknowledged so they do
// not block the partition; handler errors are returned so the message is
// retried.
func EnvelopeHandler(h EventHandler, logger *slog.Logger) pkgkafka.Handler {
	return func(ctx context.Context, msg pkgkafka.Message) error {
		env, err := events.DecodeEnvelope(msg.Value)
		if err != nil {
			logger.WarnContext(ctx, "dropping malformed event", "topic", msg.Topic, "error", err)
			return nil
		}
		evt, err := event.Decode(env)
		if errors.Is(err, event.ErrUnknownEventType) {
			logger.DebugContext(ctx, "skipping unknown event type", "event_type", env.Type)
			return nil
		}
		if err != nil {
			logger.WarnContext(ctx, "dropping undecodable event", "event_type", env.Type, "error", err)
			return nil
		}
		return h.Handle(ctx, evt)
	}
}
