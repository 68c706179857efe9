package application

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/Animesh0711/DailyEase/internal/payments/domain"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/outbox"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// fakeAttemptRepo keeps snapshots so every load returns a fresh aggregate.
type fakeAttemptRepo struct {
	mu       sync.Mutex
	rows     map[uuid.UUID]domain.AttemptSnapshot
	order    []uuid.UUID
	failNext error
}

func newFakeAttemptRepo() *fakeAttemptRepo {
	return &fakeAttemptRepo{rows: make(map[uuid.UUID]domain.AttemptSnapshot)}
}

func (r *fakeAttemptRepo) Save(_ context.Context, a *domain.Attempt) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := r.failNext; err != nil {
		r.failNext = nil
		return err
	}
	if _, ok := r.rows[a.ID()]; !ok {
		r.order = append(r.order, a.ID())
	}
	r.rows[a.ID()] = a.Snapshot()
	return nil
}

func (r *fakeAttemptRepo) FindByID(_ context.Context, id uuid.UUID) (*domain.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.rows[id]
	if !ok {
		return nil, sharedDomain.Errorf(sharedDomain.KindNotFound, "find attempt", "attempt %s", id)
	}
	return domain.RehydrateAttempt(s), nil
}

func (r *fakeAttemptRepo) list(keep func(domain.AttemptSnapshot) bool) []*domain.Attempt {
	var out []*domain.Attempt
	for _, id := range r.order {
		if s := r.rows[id]; keep(s) {
			out = append(out, domain.RehydrateAttempt(s))
		}
	}
	return out
}

func (r *fakeAttemptRepo) ListBySubscriber(_ context.Context, subscriberID uuid.UUID) ([]*domain.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.list(func(s domain.AttemptSnapshot) bool { return s.SubscriberID == subscriberID })
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt().After(out[j].CreatedAt()) })
	return out, nil
}

func (r *fakeAttemptRepo) ListBySubscription(_ context.Context, subscriptionID uuid.UUID) ([]*domain.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.list(func(s domain.AttemptSnapshot) bool { return s.SubscriptionID == subscriptionID }), nil
}

func (r *fakeAttemptRepo) ListStale(_ context.Context, before time.Time, limit int) ([]*domain.Attempt, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.list(func(s domain.AttemptSnapshot) bool {
		return (s.Status == domain.StatusCreated || s.Status == domain.StatusPending) && s.UpdatedAt.Before(before)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeAttemptRepo) ExistsWithStatus(_ context.Context, subscriptionID uuid.UUID, statuses ...domain.AttemptStatus) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, s := range r.rows {
		if s.SubscriptionID != subscriptionID {
			continue
		}
		for _, st := range statuses {
			if s.Status == st {
				return true, nil
			}
		}
	}
	return false, nil
}

// failOnce makes the next Save return err.
func (r *fakeAttemptRepo) failOnce(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.failNext = err
}

func (r *fakeAttemptRepo) status(id uuid.UUID) domain.AttemptStatus {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rows[id].Status
}

type nopUnitOfWork struct{}

func (nopUnitOfWork) Begin(ctx context.Context) (context.Context, error) { return ctx, nil }
func (nopUnitOfWork) Commit(context.Context) error                       { return nil }
func (nopUnitOfWork) Rollback(context.Context) error                     { return nil }

type fakeOutbox struct {
	mu   sync.Mutex
	msgs []*outbox.Message
}

func (f *fakeOutbox) SaveBatch(_ context.Context, msgs []*outbox.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.msgs = append(f.msgs, msgs...)
	return nil
}

func (f *fakeOutbox) GetUnpublished(context.Context, int) ([]*outbox.Message, error) { return nil, nil }
func (f *fakeOutbox) MarkPublished(context.Context, int64) error                     { return nil }
func (f *fakeOutbox) MarkFailed(context.Context, int64, string, time.Time) error     { return nil }
func (f *fakeOutbox) MarkDead(context.Context, int64, string) error                  { return nil }
func (f *fakeOutbox) DeleteOld(context.Context, time.Time) (int64, error)            { return 0, nil }

func (f *fakeOutbox) routingKeys() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	keys := make([]string, 0, len(f.msgs))
	for _, m := range f.msgs {
		keys = append(keys, m.RoutingKey)
	}
	return keys
}

type fakeActivator struct {
	mu          sync.Mutex
	activations []domain.Activation
}

func (f *fakeActivator) Activate(_ context.Context, a domain.Activation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.activations = append(f.activations, a)
	return nil
}

func (f *fakeActivator) count(paid bool) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, a := range f.activations {
		if a.Paid == paid {
			n++
		}
	}
	return n
}

// fakeRedirect signs "order|payment" as "sig:order|payment".
type fakeRedirect struct {
	mu       sync.Mutex
	orders   int
	paid     pricingDomain.Money
	down     bool
	onCreate func(receipt string)
}

func (f *fakeRedirect) CreateOrder(_ context.Context, _ pricingDomain.Money, receipt string) (domain.RedirectOrder, error) {
	if f.onCreate != nil {
		f.onCreate(receipt)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.down {
		return domain.RedirectOrder{}, sharedDomain.NewError(sharedDomain.KindGatewayUnavailable, "create order", "connection refused")
	}
	f.orders++
	return domain.RedirectOrder{OrderID: fmt.Sprintf("order_%d", f.orders)}, nil
}

func (f *fakeRedirect) VerifySignature(orderID, paymentID, signature string) bool {
	return signature == "sig:"+orderID+"|"+paymentID
}

func (f *fakeRedirect) PaymentAmount(context.Context, string) (pricingDomain.Money, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.paid, nil
}

type mockCardGateway struct {
	mock.Mock
}

func (m *mockCardGateway) CreateIntent(ctx context.Context, amount pricingDomain.Money, idempotencyKey string) (domain.CardIntent, error) {
	args := m.Called(ctx, amount, idempotencyKey)
	return args.Get(0).(domain.CardIntent), args.Error(1)
}

func (m *mockCardGateway) Verify(ctx context.Context, handleID string, proof domain.CardProof) (domain.CardVerification, error) {
	args := m.Called(ctx, handleID, proof)
	return args.Get(0).(domain.CardVerification), args.Error(1)
}
