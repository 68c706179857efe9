package eventbus

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
)

// InProcessBus replaces the broker when RabbitMQ is not configured. Publish
// decodes the envelope and dispatches it synchronously.
type InProcessBus struct {
	registry *Registry
	logger   *slog.Logger
}

func NewInProcessBus(logger *slog.Logger) *InProcessBus {
	if logger == nil {
		logger = slog.Default()
	}
	return &InProcessBus{registry: NewRegistry(logger), logger: logger}
}

// Subscribe registers a handler.
func (b *InProcessBus) Subscribe(handler Handler) {
	b.registry.Register(handler)
}

// Publish returns handler errors so the outbox retries the message.
func (b *InProcessBus) Publish(ctx context.Context, routingKey string, body []byte) error {
	var envelope Envelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return fmt.Errorf("decode envelope for %s: %w", routingKey, err)
	}
	if envelope.RoutingKey == "" {
		envelope.RoutingKey = routingKey
	}
	return b.registry.Dispatch(ctx, &envelope)
}

func (b *InProcessBus) Close() error { return nil }

// LogHandler writes every event it sees to the logger. The worker installs it
// on the in-process bus so events stay visible without a broker.
type LogHandler struct {
	logger *slog.Logger
}

func NewLogHandler(logger *slog.Logger) *LogHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogHandler{logger: logger}
}

func (h *LogHandler) Patterns() []string { return []string{"#"} }

func (h *LogHandler) Handle(ctx context.Context, envelope *Envelope) error {
	h.logger.InfoContext(ctx, "event",
		"routing_key", envelope.RoutingKey,
		"event_id", envelope.EventID,
		"aggregate_type", envelope.AggregateType,
		"aggregate_id", envelope.AggregateID,
		"occurred_at", envelope.OccurredAt,
	)
	return nil
}
