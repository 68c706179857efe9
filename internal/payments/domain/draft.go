package domain

import (
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	"github.com/google/uuid"
)

// Draft is the subscription an attempt pays for. It is frozen on the attempt
// so activation creates exactly what was priced, and retries charge the same
// total.
type Draft struct {
	SubscriptionID uuid.UUID                  `json:"subscription_id"`
	SubscriberID   uuid.UUID                  `json:"subscriber_id"`
	Selection      pricingDomain.SelectionSet `json:"selection"`
	Frequency      pricingDomain.Frequency    `json:"frequency"`
	Total          pricingDomain.Money        `json:"total"`
}

// NewDraft reserves a subscription id for the selection. The total is set
// from the quote when the payment begins.
func NewDraft(subscriberID uuid.UUID, selection pricingDomain.SelectionSet, frequency pricingDomain.Frequency) Draft {
	return Draft{
		SubscriptionID: uuid.New(),
		SubscriberID:   subscriberID,
		Selection:      selection,
		Frequency:      frequency,
	}
}
