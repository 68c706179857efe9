// Package gateway holds the payment provider adapters and the circuit
// breakers that guard them.
package gateway

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/Animesh0711/DailyEase/internal/payments/domain"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/sony/gobreaker/v2"
)

// BreakerConfig configures a gateway circuit breaker.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive unavailable responses
	// that opens the breaker.
	FailureThreshold uint32
	// Timeout is how long the breaker stays open before probing again.
	Timeout time.Duration
	// MaxRequests is the number of probes allowed while half-open.
	MaxRequests uint32
}

// DefaultBreakerConfig returns the breaker defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{FailureThreshold: 5, Timeout: 30 * time.Second, MaxRequests: 1}
}

func newBreaker(name string, cfg BreakerConfig, logger *slog.Logger) *gobreaker.CircuitBreaker[any] {
	defaults := DefaultBreakerConfig()
	if cfg.FailureThreshold == 0 {
		cfg.FailureThreshold = defaults.FailureThreshold
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaults.Timeout
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = defaults.MaxRequests
	}
	if logger == nil {
		logger = slog.Default()
	}

	return gobreaker.NewCircuitBreaker[any](gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= cfg.FailureThreshold
		},
		// Provider rejections are answers, not outages.
		IsSuccessful: func(err error) bool {
			return err == nil || !sharedDomain.IsKind(err, sharedDomain.KindGatewayUnavailable)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("gateway circuit breaker state changed",
				"gateway", name,
				"from", from.String(),
				"to", to.String(),
			)
		},
	})
}

// guard runs fn through the breaker. An open breaker is reported as
// GatewayUnavailable without calling the provider.
func guard[T any](cb *gobreaker.CircuitBreaker[any], op string, fn func() (T, error)) (T, error) {
	var zero T
	res, err := cb.Execute(func() (any, error) {
		return fn()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return zero, sharedDomain.Wrap(sharedDomain.KindGatewayUnavailable, op, err)
	}
	if err != nil {
		return zero, err
	}
	return res.(T), nil
}

// BreakerCard guards a CardGateway.
type BreakerCard struct {
	next domain.CardGateway
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreakerCard wraps next with a circuit breaker named "card".
func NewBreakerCard(next domain.CardGateway, cfg BreakerConfig, logger *slog.Logger) *BreakerCard {
	return &BreakerCard{next: next, cb: newBreaker("card", cfg, logger)}
}

func (b *BreakerCard) CreateIntent(ctx context.Context, amount pricingDomain.Money, idempotencyKey string) (domain.CardIntent, error) {
	return guard(b.cb, "create payment intent", func() (domain.CardIntent, error) {
		return b.next.CreateIntent(ctx, amount, idempotencyKey)
	})
}

func (b *BreakerCard) Verify(ctx context.Context, handleID string, proof domain.CardProof) (domain.CardVerification, error) {
	return guard(b.cb, "verify payment intent", func() (domain.CardVerification, error) {
		return b.next.Verify(ctx, handleID, proof)
	})
}

// State reports the breaker state, for health checks.
func (b *BreakerCard) State() gobreaker.State { return b.cb.State() }

// BreakerRedirect guards a RedirectGateway. Signature checks are local and
// bypass the breaker.
type BreakerRedirect struct {
	next domain.RedirectGateway
	cb   *gobreaker.CircuitBreaker[any]
}

// NewBreakerRedirect wraps next with a circuit breaker named "redirect".
func NewBreakerRedirect(next domain.RedirectGateway, cfg BreakerConfig, logger *slog.Logger) *BreakerRedirect {
	return &BreakerRedirect{next: next, cb: newBreaker("redirect", cfg, logger)}
}

func (b *BreakerRedirect) CreateOrder(ctx context.Context, amount pricingDomain.Money, receipt string) (domain.RedirectOrder, error) {
	return guard(b.cb, "create order", func() (domain.RedirectOrder, error) {
		return b.next.CreateOrder(ctx, amount, receipt)
	})
}

func (b *BreakerRedirect) VerifySignature(orderID, paymentID, signature string) bool {
	return b.next.VerifySignature(orderID, paymentID, signature)
}

func (b *BreakerRedirect) PaymentAmount(ctx context.Context, paymentID string) (pricingDomain.Money, error) {
	return guard(b.cb, "fetch payment", func() (pricingDomain.Money, error) {
		return b.next.PaymentAmount(ctx, paymentID)
	})
}

// State reports the breaker state, for health checks.
func (b *BreakerRedirect) State() gobreaker.State { return b.cb.State() }
