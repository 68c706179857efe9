package eventbus

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
)

// Registry routes envelopes to handlers by topic pattern.
type Registry struct {
	mu       sync.RWMutex
	handlers []registration
	logger   *slog.Logger
}

type registration struct {
	pattern string
	handler Handler
}

func NewRegistry(logger *slog.Logger) *Registry {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registry{logger: logger}
}

// Register adds handler under each of its patterns.
func (r *Registry) Register(handler Handler) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range handler.Patterns() {
		r.handlers = append(r.handlers, registration{pattern: p, handler: handler})
	}
}

// Dispatch calls every matching handler once. All handlers run even when one
// fails; the failures are joined.
func (r *Registry) Dispatch(ctx context.Context, envelope *Envelope) error {
	r.mu.RLock()
	var matched []Handler
	seen := make(map[Handler]struct{})
	for _, reg := range r.handlers {
		if _, dup := seen[reg.handler]; dup {
			continue
		}
		if MatchTopic(reg.pattern, envelope.RoutingKey) {
			seen[reg.handler] = struct{}{}
			matched = append(matched, reg.handler)
		}
	}
	r.mu.RUnlock()

	var errs []error
	for _, h := range matched {
		if err := h.Handle(ctx, envelope); err != nil {
			r.logger.Error("event handler failed",
				"routing_key", envelope.RoutingKey,
				"event_id", envelope.EventID,
				"error", err,
			)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// MatchTopic reports whether key matches an AMQP topic pattern.
func MatchTopic(pattern, key string) bool {
	return matchWords(strings.Split(pattern, "."), strings.Split(key, "."))
}

func matchWords(pattern, key []string) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case "#":
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(key); i++ {
				if matchWords(pattern[1:], key[i:]) {
					return true
				}
			}
			return false
		case "*":
			if len(key) == 0 {
				return false
			}
		default:
			if len(key) == 0 || key[0] != pattern[0] {
				return false
			}
		}
		pattern, key = pattern[1:], key[1:]
	}
	return len(key) == 0
}
