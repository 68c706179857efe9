package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/Animesh0711/DailyEase/internal/payments/domain"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedApplication "github.com/Animesh0711/DailyEase/internal/shared/application"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/lock"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// DefaultProviderOrder tries the redirect checkout before cards.
var DefaultProviderOrder = []domain.ProviderKind{domain.ProviderRedirect, domain.ProviderCard}

// Config is the payment policy.
type Config struct {
	// ProviderOrder is tried front to back; the first configured gateway wins.
	ProviderOrder []domain.ProviderKind
	// ManualFallback moves an attempt to manual collection when its gateway
	// is unreachable instead of leaving it created.
	ManualFallback bool
	// Currency every quote must be in.
	Currency string
}

// Gateways are the configured providers. A nil gateway is not configured.
type Gateways struct {
	Card     domain.CardGateway
	Redirect domain.RedirectGateway
}

// Handle tells the caller how to continue an attempt.
type Handle struct {
	AttemptID      uuid.UUID            `json:"attempt_id"`
	SubscriptionID uuid.UUID            `json:"subscription_id"`
	Status         domain.AttemptStatus `json:"status"`
	Amount         pricingDomain.Money  `json:"amount"`
	Provider       domain.Provider      `json:"provider"`
	RetryOf        *uuid.UUID           `json:"retry_of,omitempty"`
}

func handleOf(a *domain.Attempt) *Handle {
	return &Handle{
		AttemptID:      a.ID(),
		SubscriptionID: a.SubscriptionID(),
		Status:         a.Status(),
		Amount:         a.Amount(),
		Provider:       a.Continuation(),
		RetryOf:        a.RetryOf(),
	}
}

// Confirmation is the outcome of Confirm. Activated is true only on the call
// that moved the attempt into succeeded.
type Confirmation struct {
	AttemptID         uuid.UUID            `json:"attempt_id"`
	SubscriptionID    uuid.UUID            `json:"subscription_id"`
	Status            domain.AttemptStatus `json:"status"`
	FailureReason     domain.FailureReason `json:"failure_reason,omitempty"`
	ProviderReference string               `json:"provider_reference,omitempty"`
	Activated         bool                 `json:"activated"`
}

func confirmationOf(a *domain.Attempt, activated bool) *Confirmation {
	return &Confirmation{
		AttemptID:         a.ID(),
		SubscriptionID:    a.SubscriptionID(),
		Status:            a.Status(),
		FailureReason:     a.FailureReason(),
		ProviderReference: a.ProviderReference(),
		Activated:         activated,
	}
}

// Orchestrator drives payment attempts through their state machine. Gateway
// calls never happen while the subscription lock is held.
type Orchestrator struct {
	attempts   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	locker     lock.Locker
	activator  domain.SubscriptionActivator
	gateways   Gateways
	cfg        Config
	clock      sharedDomain.Clock
	logger     *slog.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(
	attempts domain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	locker lock.Locker,
	activator domain.SubscriptionActivator,
	gateways Gateways,
	cfg Config,
	clock sharedDomain.Clock,
	logger *slog.Logger,
) *Orchestrator {
	if len(cfg.ProviderOrder) == 0 {
		cfg.ProviderOrder = DefaultProviderOrder
	}
	if cfg.Currency == "" {
		cfg.Currency = pricingDomain.DefaultCurrency
	}
	if clock == nil {
		clock = sharedDomain.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Orchestrator{
		attempts:   attempts,
		outboxRepo: outboxRepo,
		uow:        uow,
		locker:     locker,
		activator:  activator,
		gateways:   gateways,
		cfg:        cfg,
		clock:      clock,
		logger:     logger.With("component", "payments"),
	}
}

// SelectProvider returns the first configured provider in policy order, or
// manual when none is configured.
func (o *Orchestrator) SelectProvider() domain.ProviderKind {
	for _, kind := range o.cfg.ProviderOrder {
		switch kind {
		case domain.ProviderCard:
			if o.gateways.Card != nil {
				return kind
			}
		case domain.ProviderRedirect:
			if o.gateways.Redirect != nil {
				return kind
			}
		}
	}
	return domain.ProviderManual
}

// Begin opens the first attempt for draft, charging quote.Total. The created
// attempt is stored before the gateway is called; if the gateway is
// unreachable the handle is returned together with a GatewayUnavailable error.
func (o *Orchestrator) Begin(ctx context.Context, draft domain.Draft, quote pricingDomain.Quote) (*Handle, error) {
	const op = "begin payment"

	if quote.Frequency != "" && quote.Frequency != draft.Frequency {
		return nil, sharedDomain.Errorf(sharedDomain.KindValidation, op, "quote is for %s, draft is %s", quote.Frequency, draft.Frequency)
	}
	if quote.Total.Currency != o.cfg.Currency {
		return nil, sharedDomain.Errorf(sharedDomain.KindValidation, op, "quote currency %s, expected %s", quote.Total.Currency, o.cfg.Currency)
	}
	draft.Total = quote.Total

	now := o.clock.Now()
	attempt, err := domain.NewAttempt(draft, o.SelectProvider(), nil, now)
	if err != nil {
		return nil, err
	}

	err = o.inLockedTx(ctx, draft.SubscriptionID, func(txCtx context.Context) error {
		return o.admit(txCtx, attempt, now)
	})
	if err != nil {
		return nil, err
	}

	o.logger.InfoContext(ctx, "payment attempt created",
		"attempt_id", attempt.ID(),
		"subscription_id", draft.SubscriptionID,
		"provider", attempt.Provider(),
		"amount", attempt.Amount().String(),
	)
	return o.engage(ctx, attempt)
}

// Retry replaces prior with a new created attempt for the same draft. prior
// must be the latest attempt of its subscription, no attempt may have
// succeeded, and prior must be failed, created or pending_manual. A zero amount means the frozen draft total; any other amount
// must equal it.
func (o *Orchestrator) Retry(ctx context.Context, priorID uuid.UUID, amount pricingDomain.Money) (*Handle, error) {
	const op = "retry payment"

	prior, err := o.attempts.FindByID(ctx, priorID)
	if err != nil {
		return nil, err
	}
	if !amount.IsZero() && !amount.Equal(prior.Draft().Total) {
		return nil, sharedDomain.Errorf(sharedDomain.KindValidation, op, "amount %s differs from the subscription total %s", amount, prior.Draft().Total)
	}

	var next *domain.Attempt
	err = o.inLockedTx(ctx, prior.SubscriptionID(), func(txCtx context.Context) error {
		history, err := o.attempts.ListBySubscription(txCtx, prior.SubscriptionID())
		if err != nil {
			return err
		}
		for _, a := range history {
			if a.Status() == domain.StatusSucceeded {
				return sharedDomain.Errorf(sharedDomain.KindPrecondition, op, "subscription %s is already paid by attempt %s", a.SubscriptionID(), a.ID())
			}
		}
		latest := latestAttempt(history)
		if latest == nil || latest.ID() != priorID {
			return sharedDomain.Errorf(sharedDomain.KindPrecondition, op, "attempt %s is not the latest attempt", priorID)
		}

		// A pending attempt's order or intent can still be paid.
		if latest.Status() == domain.StatusPending {
			return sharedDomain.Errorf(sharedDomain.KindPrecondition, op, "attempt %s is awaiting provider confirmation; confirm it or wait for it to expire", priorID)
		}

		now := o.clock.Now()
		if !latest.IsTerminal() {
			if err := latest.Fail(domain.ReasonSuperseded, now); err != nil {
				return err
			}
			if err := o.save(txCtx, latest); err != nil {
				return err
			}
		}

		next, err = domain.NewAttempt(latest.Draft(), o.SelectProvider(), &priorID, now)
		if err != nil {
			return err
		}
		return o.admit(txCtx, next, now)
	})
	if err != nil {
		return nil, err
	}

	o.logger.InfoContext(ctx, "payment attempt retried",
		"attempt_id", next.ID(),
		"retry_of", priorID,
		"provider", next.Provider(),
	)
	return o.engage(ctx, next)
}

// Confirm checks proof against the attempt's provider and settles it.
// Confirming a succeeded attempt returns the stored result. A rejected proof
// fails the attempt; the failure is committed and returned with a
// VerificationFailed or AmountMismatch error.
func (o *Orchestrator) Confirm(ctx context.Context, attemptID uuid.UUID, proof domain.Proof) (*Confirmation, error) {
	const op = "confirm payment"

	if err := domain.ValidateProof(proof); err != nil {
		return nil, err
	}
	found, err := o.attempts.FindByID(ctx, attemptID)
	if err != nil {
		return nil, err
	}
	subscriptionID := found.SubscriptionID()

	var current *domain.Attempt
	err = o.inLock(ctx, subscriptionID, func() error {
		current, err = o.attempts.FindByID(ctx, attemptID)
		if err != nil {
			return err
		}
		return confirmable(current, proof)
	})
	if err != nil {
		return nil, err
	}
	if current.Status() == domain.StatusSucceeded {
		return confirmationOf(current, false), nil
	}

	v, err := o.verify(ctx, current, proof)
	if err != nil {
		return nil, err
	}

	var confirmation *Confirmation
	err = o.inLockedTx(ctx, subscriptionID, func(txCtx context.Context) error {
		a, err := o.attempts.FindByID(txCtx, attemptID)
		if err != nil {
			return err
		}
		if a.Status() == domain.StatusSucceeded {
			confirmation = confirmationOf(a, false)
			return nil
		}
		if a.Status() != current.Status() {
			return sharedDomain.Errorf(sharedDomain.KindPrecondition, op, "attempt %s moved to %s during confirmation", a.ID(), a.Status())
		}

		now := o.clock.Now()
		activated := false
		if v.reason == domain.ReasonNone {
			if err := a.Succeed(v.reference, now); err != nil {
				return err
			}
			err := o.activator.Activate(txCtx, domain.Activation{
				Draft:     a.Draft(),
				AttemptID: a.ID(),
				Paid:      true,
				At:        now,
			})
			if err != nil {
				return err
			}
			activated = true
		} else if err := a.Fail(v.reason, now); err != nil {
			return err
		}

		if err := o.save(txCtx, a); err != nil {
			return err
		}
		confirmation = confirmationOf(a, activated)
		return nil
	})
	if err != nil {
		return nil, err
	}

	switch confirmation.FailureReason {
	case domain.ReasonVerificationFailed:
		o.logger.WarnContext(ctx, "payment verification failed", "attempt_id", attemptID, "detail", v.detail)
		return confirmation, sharedDomain.NewError(sharedDomain.KindVerificationFailed, op, v.detail)
	case domain.ReasonAmountMismatch:
		o.logger.WarnContext(ctx, "payment amount mismatch", "attempt_id", attemptID, "detail", v.detail)
		return confirmation, sharedDomain.NewError(sharedDomain.KindAmountMismatch, op, v.detail)
	}
	if confirmation.Activated {
		o.logger.InfoContext(ctx, "payment succeeded", "attempt_id", attemptID, "subscription_id", subscriptionID)
	}
	return confirmation, nil
}

// History lists every attempt of a subscriber, newest first.
func (o *Orchestrator) History(ctx context.Context, subscriberID uuid.UUID) ([]AttemptSummary, error) {
	attempts, err := o.attempts.ListBySubscriber(ctx, subscriberID)
	if err != nil {
		return nil, err
	}
	return summarize(attempts), nil
}

// AttemptsForSubscription lists the attempts of one subscription, oldest first.
func (o *Orchestrator) AttemptsForSubscription(ctx context.Context, subscriptionID uuid.UUID) ([]AttemptSummary, error) {
	attempts, err := o.attempts.ListBySubscription(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	return summarize(attempts), nil
}

// HasPaymentOnRecord reports whether the subscription was paid or is awaiting
// a manual payment. Delivery edits require one of the two.
func (o *Orchestrator) HasPaymentOnRecord(ctx context.Context, subscriptionID uuid.UUID) (bool, error) {
	return o.attempts.ExistsWithStatus(ctx, subscriptionID, domain.StatusSucceeded, domain.StatusPendingManual)
}

// confirmable rejects proofs the attempt cannot accept in its current state.
// A succeeded attempt is confirmable; the caller returns the cached result.
func confirmable(a *domain.Attempt, proof domain.Proof) error {
	const op = "confirm payment"
	switch a.Status() {
	case domain.StatusSucceeded:
		return nil
	case domain.StatusFailed:
		return sharedDomain.Errorf(sharedDomain.KindPrecondition, op, "attempt %s failed (%s); retry instead", a.ID(), a.FailureReason())
	case domain.StatusCreated:
		return sharedDomain.Errorf(sharedDomain.KindPrecondition, op, "attempt %s has no provider handle yet; retry instead", a.ID())
	}
	if proof.Kind() != a.Provider() {
		return sharedDomain.Errorf(sharedDomain.KindValidation, op, "attempt %s expects a %s proof, got %s", a.ID(), a.Provider(), proof.Kind())
	}
	return nil
}

// latestAttempt is the attempt no retry points back at. history is oldest
// first, so the last candidate wins if the chain was ever forked.
func latestAttempt(history []*domain.Attempt) *domain.Attempt {
	replaced := make(map[uuid.UUID]bool, len(history))
	for _, a := range history {
		if prior := a.RetryOf(); prior != nil {
			replaced[*prior] = true
		}
	}
	var latest *domain.Attempt
	for _, a := range history {
		if !replaced[a.ID()] {
			latest = a
		}
	}
	return latest
}

// inLock runs fn holding the subscription lock.
func (o *Orchestrator) inLock(ctx context.Context, subscriptionID uuid.UUID, fn func() error) error {
	unlock, err := o.locker.Lock(ctx, lock.SubscriptionKey(subscriptionID))
	if err != nil {
		return sharedDomain.Wrap(sharedDomain.KindPersistence, "lock subscription", err)
	}
	defer unlock()
	return fn()
}

// inLockedTx runs fn in a transaction while holding the subscription lock.
func (o *Orchestrator) inLockedTx(ctx context.Context, subscriptionID uuid.UUID, fn sharedApplication.UnitOfWorkFunc) error {
	return o.inLock(ctx, subscriptionID, func() error {
		return sharedApplication.WithUnitOfWork(ctx, o.uow, fn)
	})
}

// admit stores a new attempt. Manual attempts go straight to manual
// collection and their subscription starts out awaiting payment.
func (o *Orchestrator) admit(txCtx context.Context, a *domain.Attempt, now time.Time) error {
	if a.Provider() == domain.ProviderManual {
		if err := o.toManual(txCtx, a, now); err != nil {
			return err
		}
	}
	return o.save(txCtx, a)
}

func (o *Orchestrator) toManual(txCtx context.Context, a *domain.Attempt, now time.Time) error {
	if err := a.MarkPendingManual(now); err != nil {
		return err
	}
	return o.activator.Activate(txCtx, domain.Activation{
		Draft:     a.Draft(),
		AttemptID: a.ID(),
		Paid:      false,
		At:        now,
	})
}

// save writes the attempt and its pending events to the outbox.
func (o *Orchestrator) save(txCtx context.Context, a *domain.Attempt) error {
	return saveAttempt(txCtx, o.attempts, o.outboxRepo, a)
}

// engage asks the attempt's gateway for a handle and records it.
func (o *Orchestrator) engage(ctx context.Context, a *domain.Attempt) (*Handle, error) {
	if a.Status() != domain.StatusCreated {
		return handleOf(a), nil
	}

	reference, clientSecret, gwErr := o.openHandle(ctx, a)
	if gwErr != nil {
		gwErr = sharedDomain.Wrap(sharedDomain.KindGatewayUnavailable, "open payment", gwErr)
		o.logger.WarnContext(ctx, "payment gateway unavailable",
			"attempt_id", a.ID(),
			"provider", a.Provider(),
			"error", gwErr,
			"manual_fallback", o.cfg.ManualFallback,
		)
		if !o.cfg.ManualFallback {
			return handleOf(a), gwErr
		}
	}

	var settled *domain.Attempt
	err := o.inLockedTx(ctx, a.SubscriptionID(), func(txCtx context.Context) error {
		current, err := o.attempts.FindByID(txCtx, a.ID())
		if err != nil {
			return err
		}
		settled = current
		if current.Status() != domain.StatusCreated {
			return sharedDomain.Errorf(sharedDomain.KindPrecondition, "open payment", "attempt %s moved to %s", current.ID(), current.Status())
		}
		now := o.clock.Now()
		if gwErr != nil {
			if err := o.toManual(txCtx, current, now); err != nil {
				return err
			}
		} else if err := current.MarkPending(reference, clientSecret, now); err != nil {
			return err
		}
		return o.save(txCtx, current)
	})
	if err != nil {
		if settled != nil {
			return handleOf(settled), err
		}
		return handleOf(a), err
	}
	return handleOf(settled), nil
}

// openHandle calls the gateway for the attempt's provider.
func (o *Orchestrator) openHandle(ctx context.Context, a *domain.Attempt) (reference, clientSecret string, err error) {
	switch a.Provider() {
	case domain.ProviderCard:
		if o.gateways.Card == nil {
			return "", "", sharedDomain.NewError(sharedDomain.KindGatewayUnavailable, "open payment", "card gateway not configured")
		}
		intent, err := o.gateways.Card.CreateIntent(ctx, a.Amount(), a.ID().String())
		if err != nil {
			return "", "", err
		}
		return intent.HandleID, intent.ClientSecret, nil
	case domain.ProviderRedirect:
		if o.gateways.Redirect == nil {
			return "", "", sharedDomain.NewError(sharedDomain.KindGatewayUnavailable, "open payment", "redirect gateway not configured")
		}
		order, err := o.gateways.Redirect.CreateOrder(ctx, a.Amount(), a.ID().String())
		if err != nil {
			return "", "", err
		}
		return order.OrderID, "", nil
	default:
		return "", "", sharedDomain.Errorf(sharedDomain.KindPrecondition, "open payment", "provider %s has no gateway", a.Provider())
	}
}
