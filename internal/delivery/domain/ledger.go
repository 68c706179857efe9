package domain

import (
	"context"
	"time"

	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/google/uuid"
)

// MaxCalendarDays bounds a calendar range, both ends included.
const MaxCalendarDays = 366

// Override flips the default schedule for one subscription on one date.
type Override struct {
	SubscriptionID uuid.UUID
	Date           Date
	CreatedAt      time.Time
}

// Schedule is the default delivery plan of a subscription: every day from
// Start onward except the days of the pause window.
type Schedule struct {
	SubscriptionID uuid.UUID
	SubscriberID   uuid.UUID
	Start          Date
	// PausedFrom and PausedUntil bound the pause window [from, until).
	PausedFrom  *Date
	PausedUntil *Date
}

// Delivers reports whether the default schedule delivers on d.
func (s Schedule) Delivers(d Date) bool {
	if s.Start.IsZero() || d.Before(s.Start) {
		return false
	}
	if s.PausedFrom != nil && s.PausedUntil != nil {
		if !d.Before(*s.PausedFrom) && d.Before(*s.PausedUntil) {
			return false
		}
	}
	return true
}

// Materialize applies an override to the default for d.
func (s Schedule) Materialize(d Date, overridden bool) bool {
	return s.Delivers(d) != overridden
}

// Day is one entry of the calendar range view.
type Day struct {
	Date       Date `json:"date"`
	Delivers   bool `json:"delivers"`
	Overridden bool `json:"overridden"`
}

// ValidateRange checks from <= to and the range length.
func ValidateRange(from, to Date) error {
	const op = "calendar range"
	if from.IsZero() || to.IsZero() {
		return sharedDomain.NewError(sharedDomain.KindValidation, op, "from and to are required")
	}
	if to.Before(from) {
		return sharedDomain.Errorf(sharedDomain.KindValidation, op, "to %s is before from %s", to, from)
	}
	if n := from.DaysUntil(to) + 1; n > MaxCalendarDays {
		return sharedDomain.Errorf(sharedDomain.KindValidation, op, "range of %d days exceeds %d", n, MaxCalendarDays)
	}
	return nil
}

// BuildCalendar materializes every day in [from, to].
func BuildCalendar(s Schedule, from, to Date, overrides []Date) []Day {
	flipped := make(map[Date]struct{}, len(overrides))
	for _, d := range overrides {
		flipped[d] = struct{}{}
	}
	days := make([]Day, 0, from.DaysUntil(to)+1)
	for d := from; !d.After(to); d = d.AddDays(1) {
		_, ok := flipped[d]
		days = append(days, Day{Date: d, Delivers: s.Materialize(d, ok), Overridden: ok})
	}
	return days
}

// Repository stores overrides. Add of an existing key and Remove of a
// missing one are errors of the caller; the ledger checks presence first.
type Repository interface {
	Exists(ctx context.Context, subscriptionID uuid.UUID, date Date) (bool, error)
	Add(ctx context.Context, override Override) error
	Remove(ctx context.Context, subscriptionID uuid.UUID, date Date) error
	// ListBetween returns overridden dates in [from, to], ascending.
	ListBetween(ctx context.Context, subscriptionID uuid.UUID, from, to Date) ([]Date, error)
}
