package domain

import (
	"time"

	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/google/uuid"
)

const (
	AggregateType             = "delivery_ledger"
	RoutingKeyOverrideToggled = "delivery.override.toggled"
)

// OverrideToggled is raised on every toggle. Present is the new override
// state and Delivers the resulting schedule for the date.
type OverrideToggled struct {
	sharedDomain.BaseEvent
	Date     string `json:"date"`
	Present  bool   `json:"present"`
	Delivers bool   `json:"delivers"`
}

// NewOverrideToggled records a toggle of subscriptionID on date.
func NewOverrideToggled(subscriptionID uuid.UUID, date Date, present, delivers bool, at time.Time) *OverrideToggled {
	return &OverrideToggled{
		BaseEvent: sharedDomain.NewBaseEvent(subscriptionID, AggregateType, RoutingKeyOverrideToggled, at),
		Date:      date.String(),
		Present:   present,
		Delivers:  delivers,
	}
}
