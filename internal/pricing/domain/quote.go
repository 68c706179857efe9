package domain

// Pricing policy. Amounts are in rupees per unit.
const (
	NewspaperWeekdayRate int64 = 4
	NewspaperWeekendRate int64 = 7
	WeekdaysPerWeek      int64 = 5
	WeekendDaysPerWeek   int64 = 2

	// NewspaperWeeksPerMonth approximates a month as four weeks for papers.
	NewspaperWeeksPerMonth int64 = 4
	// MilkDaysPerMonth approximates a month as thirty days for milk. It is
	// deliberately not derived from NewspaperWeeksPerMonth.
	MilkDaysPerMonth int64 = 30
	MilkDaysPerWeek  int64 = 7

	CowRatePerHalfLiter     int64 = 29
	BuffaloRatePerHalfLiter int64 = 35

	// MilkBundlePercent is what a bundle with any milk pays of the combined total.
	MilkBundlePercent int64 = 80
)

// Quote is the cost of one term of a selection. It is recomputed from its
// inputs whenever needed and never stored on its own.
type Quote struct {
	Frequency       Frequency `json:"frequency"`
	NewspaperCost   Money     `json:"newspaper_cost"`
	MilkCost        Money     `json:"milk_cost"`
	DiscountApplied bool      `json:"discount_applied"`
	Total           Money     `json:"total"`
}

// Subtotal is the combined cost before any bundle discount.
func (q Quote) Subtotal() Money {
	return q.NewspaperCost.Add(q.MilkCost)
}

// Discount is the amount the bundle discount took off.
func (q Quote) Discount() Money {
	sub := q.Subtotal()
	return Money{Amount: sub.Amount - q.Total.Amount, Currency: sub.Currency}
}

// Price computes the quote for a validated selection. It does no I/O and
// assumes the selection holds at least one newspaper.
func Price(selection SelectionSet, frequency Frequency) Quote {
	papers := Rupees(newspaperRate(frequency)).Multiply(int64(selection.NewspaperCount()))
	milk := Rupees(milkDailyRate(selection)).Multiply(milkDays(frequency))

	total := papers.Add(milk)
	discounted := selection.TotalMilkUnits() > 0
	if discounted {
		total = total.Percent(MilkBundlePercent)
	}

	return Quote{
		Frequency:       frequency,
		NewspaperCost:   papers,
		MilkCost:        milk,
		DiscountApplied: discounted,
		Total:           total,
	}
}

// newspaperRate is the per-paper cost of one term in rupees.
func newspaperRate(frequency Frequency) int64 {
	week := WeekdaysPerWeek*NewspaperWeekdayRate + WeekendDaysPerWeek*NewspaperWeekendRate
	switch frequency {
	case FrequencyDaily:
		return NewspaperWeekdayRate
	case FrequencyWeekly:
		return week
	case FrequencyMonthly:
		return week * NewspaperWeeksPerMonth
	default:
		return 0
	}
}

func milkDays(frequency Frequency) int64 {
	switch frequency {
	case FrequencyDaily:
		return 1
	case FrequencyWeekly:
		return MilkDaysPerWeek
	case FrequencyMonthly:
		return MilkDaysPerMonth
	default:
		return 0
	}
}

// milkDailyRate is the rupee cost of one day of every milk line.
func milkDailyRate(selection SelectionSet) int64 {
	var perDay int64
	for _, line := range selection.MilkLines() {
		perDay += int64(line.Units) * MilkUnitRate(line.Type)
	}
	return perDay
}

// MilkUnitRate is the daily rupee rate of one half-liter of the type.
func MilkUnitRate(t MilkType) int64 {
	switch t {
	case MilkBuffalo:
		return BuffaloRatePerHalfLiter
	default:
		return CowRatePerHalfLiter
	}
}
