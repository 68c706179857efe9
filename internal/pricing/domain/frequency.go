package domain

import (
	"strings"

	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
)

// Frequency is the billing term of a subscription.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
)

// Frequencies lists every supported term.
var Frequencies = []Frequency{FrequencyDaily, FrequencyWeekly, FrequencyMonthly}

// ParseFrequency accepts the term names case-insensitively.
func ParseFrequency(s string) (Frequency, error) {
	f := Frequency(strings.ToLower(strings.TrimSpace(s)))
	if !f.IsValid() {
		return "", sharedDomain.Errorf(sharedDomain.KindValidation, "parse frequency", "unknown frequency %q", s)
	}
	return f, nil
}

// IsValid reports whether f is a supported term.
func (f Frequency) IsValid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly:
		return true
	default:
		return false
	}
}

func (f Frequency) String() string { return string(f) }
