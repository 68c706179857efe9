// Package eventbus delivers outbox events to a broker or to in-process handlers.
package eventbus

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// ExchangeName is the topic exchange all DailyEase events are published to.
const ExchangeName = "dailyease.events"

// Publisher sends one serialized Envelope under its routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, body []byte) error
	Close() error
}

// Envelope is the wire shape of an event on the bus.
type Envelope struct {
	EventID       uuid.UUID       `json:"event_id"`
	AggregateID   uuid.UUID       `json:"aggregate_id"`
	AggregateType string          `json:"aggregate_type"`
	RoutingKey    string          `json:"routing_key"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Payload       json.RawMessage `json:"payload"`
	Metadata      json.RawMessage `json:"metadata,omitempty"`
}

// Handler reacts to events whose routing key matches one of its patterns.
// Patterns use AMQP topic syntax: "*" matches one word, "#" zero or more.
type Handler interface {
	Patterns() []string
	Handle(ctx context.Context, envelope *Envelope) error
}
