package cli

import (
	"fmt"
	"strings"

	catalogDomain "github.com/Animesh0711/DailyEase/internal/catalog/domain"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	"github.com/spf13/cobra"
)

var quoteFlags SelectionFlags

var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Price a selection without subscribing",
	Long: `Price newspapers and milk for a billing term.

A selection with both newspapers and milk gets the bundle discount.

Examples:
  dailyease quote -p lokmat -m "Amul:cow:2" -f weekly
  dailyease quote -p times-of-india -p sakal -f monthly`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		sel, frequency, err := quoteFlags.Parse()
		if err != nil {
			return err
		}
		if a := GetApp(); a != nil && a.Catalog != nil {
			if err := catalogDomain.ValidateSelection(cmd.Context(), a.Catalog, sel); err != nil {
				return err
			}
		}

		q := pricingDomain.Price(sel, frequency)
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Quote")
		fmt.Fprintln(out, strings.Repeat("-", 40))
		PrintQuote(out, q)
		return nil
	},
}

func init() {
	quoteFlags.Bind(quoteCmd)
	rootCmd.AddCommand(quoteCmd)
}
