package application

import (
	"context"
	"log/slog"

	"github.com/Animesh0711/DailyEase/internal/delivery/domain"
	sharedApplication "github.com/Animesh0711/DailyEase/internal/shared/application"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/lock"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
)

// ScheduleSource returns the default schedule of a subscription, or a
// NotFound error.
type ScheduleSource interface {
	Schedule(ctx context.Context, subscriptionID uuid.UUID) (domain.Schedule, error)
}

// PaymentStanding reports whether a subscription has a successful or
// awaiting-manual payment.
type PaymentStanding interface {
	HasPaymentOnRecord(ctx context.Context, subscriptionID uuid.UUID) (bool, error)
}

// OverrideState is the result of a toggle.
type OverrideState struct {
	SubscriptionID uuid.UUID   `json:"subscription_id"`
	Date           domain.Date `json:"date"`
	Overridden     bool        `json:"overridden"`
	Delivers       bool        `json:"delivers"`
}

// Ledger edits and reads per-subscription delivery overrides.
type Ledger struct {
	overrides  domain.Repository
	schedules  ScheduleSource
	payments   PaymentStanding
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	locker     lock.Locker
	clock      sharedDomain.Clock
	logger     *slog.Logger
}

// NewLedger creates a Ledger.
func NewLedger(
	overrides domain.Repository,
	schedules ScheduleSource,
	payments PaymentStanding,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	locker lock.Locker,
	clock sharedDomain.Clock,
	logger *slog.Logger,
) *Ledger {
	if clock == nil {
		clock = sharedDomain.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		overrides:  overrides,
		schedules:  schedules,
		payments:   payments,
		outboxRepo: outboxRepo,
		uow:        uow,
		locker:     locker,
		clock:      clock,
		logger:     logger.With("component", "delivery"),
	}
}

// Toggle flips the override for date. Toggling the same date twice leaves
// the ledger as it was.
func (l *Ledger) Toggle(ctx context.Context, subscriptionID uuid.UUID, date domain.Date) (*OverrideState, error) {
	const op = "toggle delivery"
	if date.IsZero() {
		return nil, sharedDomain.NewError(sharedDomain.KindValidation, op, "date is required")
	}

	unlock, err := l.locker.Lock(ctx, lock.SubscriptionKey(subscriptionID))
	if err != nil {
		return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, "lock subscription", err)
	}
	defer unlock()

	var state *OverrideState
	err = sharedApplication.WithUnitOfWork(ctx, l.uow, func(txCtx context.Context) error {
		onRecord, err := l.payments.HasPaymentOnRecord(txCtx, subscriptionID)
		if err != nil {
			return err
		}
		if !onRecord {
			return sharedDomain.Errorf(sharedDomain.KindPrecondition, op, "subscription %s has no payment on record", subscriptionID)
		}

		schedule, err := l.schedules.Schedule(txCtx, subscriptionID)
		if err != nil {
			return err
		}

		present, err := l.overrides.Exists(txCtx, subscriptionID, date)
		if err != nil {
			return err
		}
		now := l.clock.Now()
		if present {
			err = l.overrides.Remove(txCtx, subscriptionID, date)
		} else {
			err = l.overrides.Add(txCtx, domain.Override{SubscriptionID: subscriptionID, Date: date, CreatedAt: now})
		}
		if err != nil {
			return err
		}

		state = &OverrideState{
			SubscriptionID: subscriptionID,
			Date:           date,
			Overridden:     !present,
			Delivers:       schedule.Materialize(date, !present),
		}
		return l.record(txCtx, schedule.SubscriberID,
			domain.NewOverrideToggled(subscriptionID, date, state.Overridden, state.Delivers, now))
	})
	if err != nil {
		return nil, err
	}

	l.logger.InfoContext(ctx, "delivery toggled",
		"subscription_id", subscriptionID,
		"date", date.String(),
		"delivers", state.Delivers,
	)
	return state, nil
}

// Materialize reports whether there is a delivery on date: the default
// schedule XOR the override.
func (l *Ledger) Materialize(ctx context.Context, subscriptionID uuid.UUID, date domain.Date) (bool, error) {
	if date.IsZero() {
		return false, sharedDomain.NewError(sharedDomain.KindValidation, "materialize delivery", "date is required")
	}
	schedule, err := l.schedules.Schedule(ctx, subscriptionID)
	if err != nil {
		return false, err
	}
	overridden, err := l.overrides.Exists(ctx, subscriptionID, date)
	if err != nil {
		return false, err
	}
	return schedule.Materialize(date, overridden), nil
}

// Calendar materializes every day in [from, to]. The range is limited to
// domain.MaxCalendarDays.
func (l *Ledger) Calendar(ctx context.Context, subscriptionID uuid.UUID, from, to domain.Date) ([]domain.Day, error) {
	if err := domain.ValidateRange(from, to); err != nil {
		return nil, err
	}
	schedule, err := l.schedules.Schedule(ctx, subscriptionID)
	if err != nil {
		return nil, err
	}
	overrides, err := l.overrides.ListBetween(ctx, subscriptionID, from, to)
	if err != nil {
		return nil, err
	}
	return domain.BuildCalendar(schedule, from, to, overrides), nil
}

func (l *Ledger) record(txCtx context.Context, subscriberID uuid.UUID, events ...sharedDomain.DomainEvent) error {
	sharedApplication.ApplyEventMetadata(events, sharedApplication.EventMetadataFromContext(txCtx, subscriberID))
	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	return l.outboxRepo.SaveBatch(txCtx, msgs)
}
