package domain

import (
	"time"

	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
)

// Month is one month of the structured year calendar. Weeks start on Monday
// and 0 pads days outside the month.
type Month struct {
	Month int      `json:"month"`
	Name  string   `json:"name"`
	Weeks [][7]int `json:"weeks"`
}

// YearCalendar lays out the twelve months of year.
func YearCalendar(year int) ([]Month, error) {
	if year < 1 || year > 9999 {
		return nil, sharedDomain.Errorf(sharedDomain.KindValidation, "year calendar", "year %d out of range", year)
	}

	months := make([]Month, 0, 12)
	for m := time.January; m <= time.December; m++ {
		first := time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
		last := first.AddDate(0, 1, -1).Day()

		// Monday is column 0.
		col := (int(first.Weekday()) + 6) % 7
		var weeks [][7]int
		var week [7]int
		for day := 1; day <= last; day++ {
			week[col] = day
			col++
			if col == 7 {
				weeks = append(weeks, week)
				week = [7]int{}
				col = 0
			}
		}
		if col > 0 {
			weeks = append(weeks, week)
		}
		months = append(months, Month{Month: int(m), Name: m.String(), Weeks: weeks})
	}
	return months, nil
}
