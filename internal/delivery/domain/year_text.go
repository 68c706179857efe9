package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Text calendar layout: three months per row, three-character day columns
// and six spaces between months.
const (
	textDayWidth     = 3
	textMonthsPerRow = 3
	textMonthGap     = 6
	textColumnWidth  = (textDayWidth+1)*7 - 1
)

const textWeekHeader = "Mon Tue Wed Thu Fri Sat Sun"

// YearText renders the year as a printable calendar. Rows hold three months
// side by side with Monday-first weeks. Trailing spaces are trimmed from
// every line.
func YearText(year int) (string, error) {
	months, err := YearCalendar(year)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	line := func(s string) {
		b.WriteString(strings.TrimRight(s, " "))
		b.WriteByte('\n')
	}

	line(center(strconv.Itoa(year), textColumnWidth*textMonthsPerRow+textMonthGap*(textMonthsPerRow-1)))
	for start := 0; start < len(months); start += textMonthsPerRow {
		row := months[start:min(start+textMonthsPerRow, len(months))]

		b.WriteByte('\n')
		names := make([]string, len(row))
		headers := make([]string, len(row))
		height := 0
		for i, m := range row {
			names[i] = m.Name
			headers[i] = textWeekHeader
			height = max(height, len(m.Weeks))
		}
		line(joinColumns(names))
		line(joinColumns(headers))

		for w := 0; w < height; w++ {
			weeks := make([]string, len(row))
			for i, m := range row {
				if w < len(m.Weeks) {
					weeks[i] = formatWeek(m.Weeks[w])
				}
			}
			line(joinColumns(weeks))
		}
	}
	return b.String(), nil
}

func formatWeek(week [7]int) string {
	cells := make([]string, len(week))
	for i, day := range week {
		s := ""
		if day > 0 {
			s = fmt.Sprintf("%2d", day)
		}
		cells[i] = center(s, textDayWidth)
	}
	return strings.Join(cells, " ")
}

func joinColumns(cols []string) string {
	centered := make([]string, len(cols))
	for i, c := range cols {
		centered[i] = center(c, textColumnWidth)
	}
	return strings.Join(centered, strings.Repeat(" ", textMonthGap))
}

// center pads s to width. An odd margin puts the extra space on the left
// when width is odd and on the right when it is even.
func center(s string, width int) string {
	margin := width - len(s)
	if margin <= 0 {
		return s
	}
	left := margin/2 + (margin & width & 1)
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", margin-left)
}
