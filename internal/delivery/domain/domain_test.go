package domain

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) Date {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestParseDate(t *testing.T) {
	d := mustDate(t, " 2026-04-30 ")
	assert.Equal(t, "2026-04-30", d.String())
	assert.Equal(t, NewDate(2026, time.May, 1), d.AddDays(1))
	assert.Equal(t, 1, d.DaysUntil(d.AddDays(1)))
	assert.Equal(t, d, DateOf(time.Date(2026, 4, 30, 23, 59, 0, 0, time.UTC)))

	for _, bad := range []string{"", "30-04-2026", "2026-02-30", "tomorrow"} {
		_, err := ParseDate(bad)
		assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindValidation), bad)
	}
}

func TestDate_JSON(t *testing.T) {
	raw, err := json.Marshal(Day{Date: NewDate(2026, time.June, 2), Delivers: true})
	require.NoError(t, err)
	assert.JSONEq(t, `{"date":"2026-06-02","delivers":true,"overridden":false}`, string(raw))

	var d Date
	require.NoError(t, json.Unmarshal([]byte(`"2026-06-02"`), &d))
	assert.Equal(t, NewDate(2026, time.June, 2), d)
	assert.Error(t, json.Unmarshal([]byte(`"June 2"`), &d))
}

func TestSchedule(t *testing.T) {
	from := mustDate(t, "2026-04-03")
	until := mustDate(t, "2026-04-10")
	s := Schedule{
		SubscriptionID: uuid.New(),
		Start:          mustDate(t, "2026-04-01"),
		PausedFrom:     &from,
		PausedUntil:    &until,
	}

	tests := []struct {
		date     string
		delivers bool
	}{
		{"2026-03-31", false},
		{"2026-04-01", true},
		{"2026-04-02", true},
		{"2026-04-03", false},
		{"2026-04-09", false},
		{"2026-04-10", true},
	}
	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d := mustDate(t, tt.date)
			assert.Equal(t, tt.delivers, s.Delivers(d))
			assert.Equal(t, !tt.delivers, s.Materialize(d, true))
			assert.Equal(t, tt.delivers, s.Materialize(d, false))
		})
	}
}

func TestValidateRange(t *testing.T) {
	from := mustDate(t, "2026-01-01")

	assert.NoError(t, ValidateRange(from, from))
	assert.NoError(t, ValidateRange(from, from.AddDays(MaxCalendarDays-1)))

	err := ValidateRange(from, from.AddDays(MaxCalendarDays))
	assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindValidation))

	err = ValidateRange(from, from.AddDays(-1))
	assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindValidation))

	err = ValidateRange(Date{}, from)
	assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindValidation))
}

func TestBuildCalendar(t *testing.T) {
	s := Schedule{Start: mustDate(t, "2026-05-02")}
	from := mustDate(t, "2026-05-01")
	to := mustDate(t, "2026-05-04")

	days := BuildCalendar(s, from, to, []Date{mustDate(t, "2026-05-01"), mustDate(t, "2026-05-03")})
	require.Len(t, days, 4)

	got := make([]bool, len(days))
	for i, d := range days {
		got[i] = d.Delivers
	}
	assert.Equal(t, []bool{true, true, false, true}, got)
	assert.True(t, days[0].Overridden)
	assert.False(t, days[1].Overridden)
}

func TestYearCalendar(t *testing.T) {
	months, err := YearCalendar(2026)
	require.NoError(t, err)
	require.Len(t, months, 12)

	jan := months[0]
	assert.Equal(t, 1, jan.Month)
	assert.Equal(t, "January", jan.Name)
	// 1 January 2026 is a Thursday.
	assert.Equal(t, [7]int{0, 0, 0, 1, 2, 3, 4}, jan.Weeks[0])
	assert.Equal(t, [7]int{26, 27, 28, 29, 30, 31, 0}, jan.Weeks[len(jan.Weeks)-1])

	// February 2026 starts on a Sunday and fills five rows.
	feb := months[1]
	assert.Equal(t, [7]int{0, 0, 0, 0, 0, 0, 1}, feb.Weeks[0])
	assert.Len(t, feb.Weeks, 5)

	for _, m := range months {
		days := 0
		for _, w := range m.Weeks {
			for _, d := range w {
				if d > 0 {
					days++
				}
			}
		}
		assert.Equal(t, time.Date(2026, time.Month(m.Month)+1, 0, 0, 0, 0, 0, time.UTC).Day(), days, m.Name)
	}

	_, err = YearCalendar(0)
	assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindValidation))
}

func TestYearText(t *testing.T) {
	text, err := YearText(2026)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(text, "\n"), "\n")
	sp := strings.Repeat

	assert.Equal(t, sp(" ", 45)+"2026", lines[0])
	assert.Equal(t, "", lines[1])
	assert.Equal(t, sp(" ", 10)+"January"+sp(" ", 26)+"February"+sp(" ", 26)+"March", lines[2])
	header := "Mon Tue Wed Thu Fri Sat Sun"
	assert.Equal(t, header+sp(" ", 6)+header+sp(" ", 6)+header, lines[3])
	// January starts on a Thursday, February and March on a Sunday.
	assert.Equal(t, sp(" ", 14)+"1   2   3   4"+sp(" ", 6)+sp(" ", 26)+"1"+sp(" ", 6)+sp(" ", 26)+"1", lines[4])

	// November 30 sits alone in the sixth week of the last row.
	assert.Equal(t, sp(" ", 34)+"30", lines[len(lines)-1])
	for _, l := range lines {
		assert.Equal(t, strings.TrimRight(l, " "), l)
	}

	_, err = YearText(10000)
	assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindValidation))
}

func TestCenter(t *testing.T) {
	assert.Equal(t, "  1", center(" 1", 3))
	assert.Equal(t, " 10", center("10", 3))
	assert.Equal(t, "   ", center("", 3))
	assert.Equal(t, "  ab ", center("ab", 5))
	assert.Equal(t, " ab ", center("ab", 4))
	assert.Equal(t, "toolong", center("toolong", 3))
}
