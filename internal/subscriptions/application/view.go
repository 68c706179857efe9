package application

import (
	"time"

	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	"github.com/Animesh0711/DailyEase/internal/subscriptions/domain"
	"github.com/google/uuid"
)

// View is the read model of a subscription.
type View struct {
	ID           uuid.UUID                  `json:"id"`
	SubscriberID uuid.UUID                  `json:"subscriber_id"`
	Selection    pricingDomain.SelectionSet `json:"selection"`
	Frequency    pricingDomain.Frequency    `json:"frequency"`
	Total        pricingDomain.Money        `json:"total"`
	IsPaused     bool                       `json:"is_paused"`
	PausedFrom   *time.Time                 `json:"paused_from,omitempty"`
	PausedUntil  *time.Time                 `json:"paused_until,omitempty"`
	PaymentState domain.PaymentState        `json:"payment_state"`
	ActivatedAt  *time.Time                 `json:"activated_at,omitempty"`
	CreatedAt    time.Time                  `json:"created_at"`
	UpdatedAt    time.Time                  `json:"updated_at"`
}

func viewOf(s *domain.Subscription) *View {
	return &View{
		ID:           s.ID(),
		SubscriberID: s.SubscriberID(),
		Selection:    s.Selection(),
		Frequency:    s.Frequency(),
		Total:        s.Total(),
		IsPaused:     s.IsPaused(),
		PausedFrom:   s.PausedFrom(),
		PausedUntil:  s.PausedUntil(),
		PaymentState: s.PaymentState(),
		ActivatedAt:  s.ActivatedAt(),
		CreatedAt:    s.CreatedAt(),
		UpdatedAt:    s.UpdatedAt(),
	}
}
