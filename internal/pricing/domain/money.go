package domain

import (
	"fmt"
	"strings"
)

// DefaultCurrency is the currency every DailyEase price list is quoted in.
const DefaultCurrency = "INR"

// Money is an amount in the currency's minor unit (paise for INR).
// All arithmetic is integer-only.
type Money struct {
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// INR creates a Money value from paise.
func INR(paise int64) Money { return Money{Amount: paise, Currency: DefaultCurrency} }

// Rupees creates a Money value from whole rupees.
func Rupees(r int64) Money { return INR(r * 100) }

// Zero returns zero in the currency.
func Zero(currency string) Money { return Money{Currency: strings.ToUpper(currency)} }

// Add sums two amounts. Panics on mixed currencies.
func (m Money) Add(other Money) Money {
	m.assertSameCurrency(other)
	return Money{Amount: m.Amount + other.Amount, Currency: m.Currency}
}

// Multiply scales by an integer quantity.
func (m Money) Multiply(qty int64) Money {
	return Money{Amount: m.Amount * qty, Currency: m.Currency}
}

// Percent returns pct percent of m, truncated toward zero.
func (m Money) Percent(pct int64) Money {
	return Money{Amount: m.Amount * pct / 100, Currency: m.Currency}
}

func (m Money) IsZero() bool     { return m.Amount == 0 }
func (m Money) IsPositive() bool { return m.Amount > 0 }

// Equal compares amount and currency.
func (m Money) Equal(other Money) bool {
	return m.Amount == other.Amount && strings.EqualFold(m.Currency, other.Currency)
}

// Major returns the amount in major units, for display only.
func (m Money) Major() float64 {
	return float64(m.Amount) / 100
}

// String formats as "352.00 INR".
func (m Money) String() string {
	sign := ""
	amount := m.Amount
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, amount/100, amount%100, m.Currency)
}

func (m Money) assertSameCurrency(other Money) {
	if !strings.EqualFold(m.Currency, other.Currency) {
		panic(fmt.Sprintf("money: currency mismatch %s vs %s", m.Currency, other.Currency))
	}
}
