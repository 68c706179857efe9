package application

import (
	"context"
	"log/slog"
	"time"

	catalogDomain "github.com/Animesh0711/DailyEase/internal/catalog/domain"
	deliveryDomain "github.com/Animesh0711/DailyEase/internal/delivery/domain"
	paymentsApplication "github.com/Animesh0711/DailyEase/internal/payments/application"
	paymentsDomain "github.com/Animesh0711/DailyEase/internal/payments/domain"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedApplication "github.com/Animesh0711/DailyEase/internal/shared/application"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/lock"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/outbox"
	"github.com/Animesh0711/DailyEase/internal/subscriptions/domain"
	"github.com/google/uuid"
)

// Payments starts the payment that activates a new subscription.
type Payments interface {
	Begin(ctx context.Context, draft paymentsDomain.Draft, quote pricingDomain.Quote) (*paymentsApplication.Handle, error)
}

// Creation is the result of CreateSubscription. The subscription itself is
// created once the payment is confirmed, under SubscriptionID.
type Creation struct {
	SubscriptionID uuid.UUID                   `json:"subscription_id"`
	AttemptID      uuid.UUID                   `json:"attempt_id"`
	Quote          pricingDomain.Quote         `json:"quote"`
	Payment        *paymentsApplication.Handle `json:"payment"`
}

// Service coordinates subscription creation and the pause window.
type Service struct {
	subscriptions domain.Repository
	outboxRepo    outbox.Repository
	uow           sharedApplication.UnitOfWork
	locker        lock.Locker
	payments      Payments
	catalog       catalogDomain.Catalog
	clock         sharedDomain.Clock
	logger        *slog.Logger
}

// NewService creates a Service. catalog may be nil, in which case newspaper
// and milk identifiers are not checked.
func NewService(
	subscriptions domain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	locker lock.Locker,
	payments Payments,
	catalog catalogDomain.Catalog,
	clock sharedDomain.Clock,
	logger *slog.Logger,
) *Service {
	if clock == nil {
		clock = sharedDomain.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		subscriptions: subscriptions,
		outboxRepo:    outboxRepo,
		uow:           uow,
		locker:        locker,
		payments:      payments,
		catalog:       catalog,
		clock:         clock,
		logger:        logger.With("component", "subscriptions"),
	}
}

// CreateSubscription prices the selection and begins its payment. When the
// gateway is unavailable the created attempt is returned with the error so
// the caller can retry it.
func (s *Service) CreateSubscription(
	ctx context.Context,
	selection pricingDomain.SelectionSet,
	frequency pricingDomain.Frequency,
	subscriberID uuid.UUID,
) (*Creation, error) {
	const op = "create subscription"
	if subscriberID == uuid.Nil {
		return nil, sharedDomain.NewError(sharedDomain.KindValidation, op, "subscriber id is required")
	}
	if selection.IsZero() {
		return nil, sharedDomain.NewError(sharedDomain.KindValidation, op, "at least one newspaper is required")
	}
	if !frequency.IsValid() {
		return nil, sharedDomain.Errorf(sharedDomain.KindValidation, op, "unknown frequency %q", frequency)
	}
	if s.catalog != nil {
		if err := catalogDomain.ValidateSelection(ctx, s.catalog, selection); err != nil {
			return nil, err
		}
	}

	quote := pricingDomain.Price(selection, frequency)
	draft := paymentsDomain.NewDraft(subscriberID, selection, frequency)

	handle, err := s.payments.Begin(ctx, draft, quote)
	if handle == nil {
		return nil, err
	}
	creation := &Creation{
		SubscriptionID: draft.SubscriptionID,
		AttemptID:      handle.AttemptID,
		Quote:          quote,
		Payment:        handle,
	}
	if err != nil {
		return creation, err
	}

	s.logger.InfoContext(ctx, "subscription requested",
		"subscription_id", draft.SubscriptionID,
		"subscriber_id", subscriberID,
		"frequency", frequency,
		"total", quote.Total.String(),
	)
	return creation, nil
}

// Pause stops deliveries for days days from now. days must be positive.
func (s *Service) Pause(ctx context.Context, id uuid.UUID, days int) (*View, error) {
	if days <= 0 {
		return nil, sharedDomain.Errorf(sharedDomain.KindValidation, "pause subscription", "pause days must be positive, got %d", days)
	}
	return s.mutate(ctx, id, func(sub *domain.Subscription, now time.Time) error {
		return sub.Pause(days, now)
	})
}

// Resume clears the pause window. Resuming an active subscription returns
// it unchanged.
func (s *Service) Resume(ctx context.Context, id uuid.UUID) (*View, error) {
	return s.mutate(ctx, id, func(sub *domain.Subscription, now time.Time) error {
		sub.Resume(now)
		return nil
	})
}

// Get returns one subscription.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*View, error) {
	sub, err := s.subscriptions.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return viewOf(sub), nil
}

// ListForSubscriber returns the subscriber's subscriptions, oldest first.
// Subscriptions are never deactivated, so every stored one is listed.
func (s *Service) ListForSubscriber(ctx context.Context, subscriberID uuid.UUID) ([]View, error) {
	subs, err := s.subscriptions.ListBySubscriber(ctx, subscriberID)
	if err != nil {
		return nil, err
	}
	views := make([]View, 0, len(subs))
	for _, sub := range subs {
		views = append(views, *viewOf(sub))
	}
	return views, nil
}

// Schedule returns the default delivery schedule of a subscription.
func (s *Service) Schedule(ctx context.Context, id uuid.UUID) (deliveryDomain.Schedule, error) {
	sub, err := s.subscriptions.FindByID(ctx, id)
	if err != nil {
		return deliveryDomain.Schedule{}, err
	}
	return scheduleOf(sub), nil
}

func scheduleOf(sub *domain.Subscription) deliveryDomain.Schedule {
	start := sub.CreatedAt()
	if at := sub.ActivatedAt(); at != nil {
		start = *at
	}
	schedule := deliveryDomain.Schedule{
		SubscriptionID: sub.ID(),
		SubscriberID:   sub.SubscriberID(),
		Start:          deliveryDomain.DateOf(start),
	}
	if sub.IsPaused() && sub.PausedFrom() != nil && sub.PausedUntil() != nil {
		from := deliveryDomain.DateOf(*sub.PausedFrom())
		until := deliveryDomain.DateOf(*sub.PausedUntil())
		schedule.PausedFrom = &from
		schedule.PausedUntil = &until
	}
	return schedule
}

// mutate applies fn to the subscription under its lock and in a transaction.
func (s *Service) mutate(ctx context.Context, id uuid.UUID, fn func(*domain.Subscription, time.Time) error) (*View, error) {
	unlock, err := s.locker.Lock(ctx, lock.SubscriptionKey(id))
	if err != nil {
		return nil, sharedDomain.Wrap(sharedDomain.KindPersistence, "lock subscription", err)
	}
	defer unlock()

	var view *View
	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		sub, err := s.subscriptions.FindByID(txCtx, id)
		if err != nil {
			return err
		}
		if err := fn(sub, s.clock.Now()); err != nil {
			return err
		}
		if len(sub.DomainEvents()) > 0 {
			if err := saveSubscription(txCtx, s.subscriptions, s.outboxRepo, sub); err != nil {
				return err
			}
		}
		view = viewOf(sub)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

// saveSubscription stores the subscription and its pending events in the
// caller's transaction.
func saveSubscription(txCtx context.Context, repo domain.Repository, outboxRepo outbox.Repository, sub *domain.Subscription) error {
	if err := repo.Save(txCtx, sub); err != nil {
		return err
	}
	events := sub.DomainEvents()
	if len(events) == 0 {
		return nil
	}
	sharedApplication.ApplyEventMetadata(events, sharedApplication.EventMetadataFromContext(txCtx, sub.SubscriberID()))
	msgs, err := outbox.NewMessages(events)
	if err != nil {
		return err
	}
	if err := outboxRepo.SaveBatch(txCtx, msgs); err != nil {
		return err
	}
	sub.ClearDomainEvents()
	return nil
}
