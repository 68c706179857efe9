package gateway

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/Animesh0711/DailyEase/internal/payments/domain"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	stripe "github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/client"
)

// ErrInvalidAPIKey is returned once the processor has rejected the key.
var ErrInvalidAPIKey = errors.New("stripe: invalid api key")

// StripeConfig configures the card gateway.
type StripeConfig struct {
	SecretKey string
	// Timeout bounds each processor call.
	Timeout time.Duration
}

// StripeGateway is the card gateway backed by Stripe PaymentIntents.
type StripeGateway struct {
	sc         *client.API
	secretKey  string
	timeout    time.Duration
	invalidKey atomic.Bool
	logger     *slog.Logger
}

// NewStripeGateway returns nil when no secret key is configured.
func NewStripeGateway(cfg StripeConfig, logger *slog.Logger) *StripeGateway {
	if cfg.SecretKey == "" {
		return nil
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	sc := &client.API{}
	sc.Init(cfg.SecretKey, nil)
	return &StripeGateway{
		sc:        sc,
		secretKey: cfg.SecretKey,
		timeout:   cfg.Timeout,
		logger:    logger.With("gateway", "stripe"),
	}
}

func maskKey(k string) string {
	if len(k) < 12 {
		return "****"
	}
	return k[:7] + "..." + k[len(k)-4:]
}

// CreateIntent creates a PaymentIntent. The idempotency key makes a repeated
// call for the same attempt return the same intent.
func (g *StripeGateway) CreateIntent(ctx context.Context, amount pricingDomain.Money, idempotencyKey string) (domain.CardIntent, error) {
	const op = "create payment intent"
	if g.invalidKey.Load() {
		return domain.CardIntent{}, sharedDomain.Wrap(sharedDomain.KindGatewayUnavailable, op, ErrInvalidAPIKey)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amount.Amount),
		Currency: stripe.String(strings.ToLower(amount.Currency)),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	params.SetIdempotencyKey(idempotencyKey)
	params.AddMetadata("attempt_id", idempotencyKey)

	pi, err := g.sc.PaymentIntents.New(params)
	if err != nil {
		return domain.CardIntent{}, g.classify(op, err)
	}
	return domain.CardIntent{HandleID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}

// Verify retrieves the intent server side. The client's word is never taken
// for the outcome.
func (g *StripeGateway) Verify(ctx context.Context, handleID string, _ domain.CardProof) (domain.CardVerification, error) {
	const op = "verify payment intent"
	if g.invalidKey.Load() {
		return domain.CardVerification{}, sharedDomain.Wrap(sharedDomain.KindGatewayUnavailable, op, ErrInvalidAPIKey)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx
	pi, err := g.sc.PaymentIntents.Get(handleID, params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.HTTPStatusCode == 404 {
			return domain.CardVerification{Outcome: domain.CardFailed}, nil
		}
		return domain.CardVerification{}, g.classify(op, err)
	}
	return verificationOf(pi), nil
}

// verificationOf maps an intent to an outcome. requires_payment_method is the
// state before the first confirmation and also after a decline; only the
// latter carries a last payment error.
func verificationOf(pi *stripe.PaymentIntent) domain.CardVerification {
	amount := pricingDomain.Money{Amount: pi.AmountReceived, Currency: strings.ToUpper(string(pi.Currency))}
	switch pi.Status {
	case stripe.PaymentIntentStatusSucceeded:
		return domain.CardVerification{Outcome: domain.CardSucceeded, Amount: amount}
	case stripe.PaymentIntentStatusCanceled:
		return domain.CardVerification{Outcome: domain.CardFailed, Amount: amount}
	case stripe.PaymentIntentStatusRequiresPaymentMethod:
		if pi.LastPaymentError != nil {
			return domain.CardVerification{Outcome: domain.CardFailed, Amount: amount}
		}
	}
	return domain.CardVerification{Outcome: domain.CardInProgress, Amount: amount}
}

// classify maps processor errors onto domain kinds. Credential, rate-limit,
// server and network failures are GatewayUnavailable; other API errors are
// request problems.
func (g *StripeGateway) classify(op string, err error) error {
	var se *stripe.Error
	if !errors.As(err, &se) {
		return sharedDomain.Wrap(sharedDomain.KindGatewayUnavailable, op, err)
	}
	if isInvalidKey(se) {
		if !g.invalidKey.Swap(true) {
			g.logger.Error("stripe rejected the api key", "key", maskKey(g.secretKey), "error", se.Msg)
		}
		return sharedDomain.Wrap(sharedDomain.KindGatewayUnavailable, op, ErrInvalidAPIKey)
	}
	return classifyStripeError(op, se)
}

func isInvalidKey(se *stripe.Error) bool {
	return se.HTTPStatusCode == 401 || strings.Contains(strings.ToLower(se.Msg), "invalid api key")
}

func classifyStripeError(op string, se *stripe.Error) error {
	switch {
	case isInvalidKey(se), se.HTTPStatusCode == 429, se.HTTPStatusCode >= 500, se.HTTPStatusCode == 0:
		return sharedDomain.Wrap(sharedDomain.KindGatewayUnavailable, op, se)
	case se.Code == stripe.ErrorCodeIdempotencyKeyInUse:
		return sharedDomain.Wrap(sharedDomain.KindGatewayUnavailable, op, se)
	default:
		return &sharedDomain.Error{Kind: sharedDomain.KindValidation, Op: op, Reason: se.Msg, Err: se}
	}
}
