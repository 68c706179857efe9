package delivery

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Animesh0711/DailyEase/internal/delivery/domain"
	"github.com/spf13/cobra"
)

var yearText bool

var yearCmd = &cobra.Command{
	Use:   "year [year]",
	Short: "Print a month-by-month calendar",
	Long: `Print the calendar of a year as Monday-first weeks. Defaults to the
current year. --text prints three months side by side.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		year := time.Now().Year()
		if len(args) == 1 {
			y, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid year: %w", err)
			}
			year = y
		}

		out := cmd.OutOrStdout()
		if yearText {
			text, err := domain.YearText(year)
			if err != nil {
				return err
			}
			fmt.Fprint(out, text)
			return nil
		}

		months, err := domain.YearCalendar(year)
		if err != nil {
			return err
		}

		for i, m := range months {
			if i > 0 {
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s %d\n", m.Name, year)
			fmt.Fprintln(out, "Mo Tu We Th Fr Sa Su")
			for _, week := range m.Weeks {
				cells := make([]string, len(week))
				for j, day := range week {
					if day == 0 {
						cells[j] = "  "
					} else {
						cells[j] = fmt.Sprintf("%2d", day)
					}
				}
				fmt.Fprintln(out, strings.TrimRight(strings.Join(cells, " "), " "))
			}
		}
		return nil
	},
}

func init() {
	yearCmd.Flags().BoolVar(&yearText, "text", false, "print three months per row")
}
