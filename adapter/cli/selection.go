package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	"github.com/spf13/cobra"
)

// SelectionFlags are the flags shared by commands that take a selection.
type SelectionFlags struct {
	Papers    []string
	Milk      []string
	Frequency string
}

// Bind registers --paper, --milk and --frequency on cmd.
func (f *SelectionFlags) Bind(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&f.Papers, "paper", "p", nil, "newspaper id (repeatable)")
	cmd.Flags().StringArrayVarP(&f.Milk, "milk", "m", nil, `milk line as "brand:type:units" (repeatable)`)
	cmd.Flags().StringVarP(&f.Frequency, "frequency", "f", "daily", "billing term: daily, weekly or monthly")
}

// Parse builds the selection and frequency from the flag values.
func (f *SelectionFlags) Parse() (pricingDomain.SelectionSet, pricingDomain.Frequency, error) {
	frequency, err := pricingDomain.ParseFrequency(f.Frequency)
	if err != nil {
		return pricingDomain.SelectionSet{}, "", err
	}
	sel, err := ParseSelection(f.Papers, f.Milk)
	if err != nil {
		return pricingDomain.SelectionSet{}, "", err
	}
	return sel, frequency, nil
}

// ParseSelection builds a selection from newspaper ids and milk lines.
func ParseSelection(papers, milk []string) (pricingDomain.SelectionSet, error) {
	lines := make([]pricingDomain.MilkLine, 0, len(milk))
	for _, m := range milk {
		line, err := ParseMilkLine(m)
		if err != nil {
			return pricingDomain.SelectionSet{}, err
		}
		lines = append(lines, line)
	}
	return pricingDomain.NewSelectionSet(papers, lines)
}

// ParseMilkLine parses "brand:type:units", e.g. "Chitale Bandhu:cow:2".
func ParseMilkLine(s string) (pricingDomain.MilkLine, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 3 {
		return pricingDomain.MilkLine{}, fmt.Errorf("invalid milk line %q: want brand:type:units", s)
	}
	n := len(parts)
	units, err := strconv.Atoi(strings.TrimSpace(parts[n-1]))
	if err != nil {
		return pricingDomain.MilkLine{}, fmt.Errorf("invalid milk units in %q: %w", s, err)
	}
	milkType, err := pricingDomain.ParseMilkType(parts[n-2])
	if err != nil {
		return pricingDomain.MilkLine{}, err
	}
	return pricingDomain.MilkLine{
		Brand: strings.TrimSpace(strings.Join(parts[:n-2], ":")),
		Type:  milkType,
		Units: units,
	}, nil
}

// PrintQuote writes the price breakdown of a quote.
func PrintQuote(w io.Writer, q pricingDomain.Quote) {
	fmt.Fprintf(w, "  Frequency:  %s\n", q.Frequency)
	fmt.Fprintf(w, "  Newspapers: %s\n", q.NewspaperCost)
	fmt.Fprintf(w, "  Milk:       %s\n", q.MilkCost)
	if q.DiscountApplied {
		fmt.Fprintf(w, "  Discount:   -%s\n", q.Discount())
	}
	fmt.Fprintf(w, "  Total:      %s\n", q.Total)
}
