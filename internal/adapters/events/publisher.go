package events

import (
	"context"
	"log/slog"
)

// LoggingPublisher writes billing events to the structured log. It stands in
// for a broker client until the platform event bus is available; downstream
// consumers tail the log in dev environments.
type LoggingPublisher struct {
	logger *slog.Logger
}

func NewLoggingPublisher(logger *slog.Logger) *LoggingPublisher {
	return &LoggingPublisher{logger: logger}
}

func (p *LoggingPublisher) Publish(ctx context.Context, eventType string, payload []byte) error {
	p.logger.InfoContext(ctx, "published event", "event_type", eventType, "payload", string(payload))
	return nil
}
