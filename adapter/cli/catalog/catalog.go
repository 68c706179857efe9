package catalog

import (
	"fmt"
	"text/tabwriter"

	"github.com/Animesh0711/DailyEase/adapter/cli"
	catalogDomain "github.com/Animesh0711/DailyEase/internal/catalog/domain"
	"github.com/Animesh0711/DailyEase/internal/catalog/infrastructure/seed"
	"github.com/spf13/cobra"
)

// Cmd is the catalog command group
var Cmd = &cobra.Command{
	Use:   "catalog",
	Short: "Browse newspapers and milk",
}

// source is the wired catalog, or the built-in one when the CLI runs
// without a database.
func source() catalogDomain.Catalog {
	if app := cli.GetApp(); app != nil && app.Catalog != nil {
		return app.Catalog
	}
	return seed.NewCatalog()
}

var (
	newspaperLanguage string
	newspaperGenre    string
)

var newspapersCmd = &cobra.Command{
	Use:   "newspapers",
	Short: "List the newspapers you can subscribe to",
	Example: `  dailyease catalog newspapers --language Marathi
  dailyease catalog newspapers --genre business`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		papers, err := source().ListNewspapers(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list newspapers: %w", err)
		}
		papers = catalogDomain.FilterNewspapers(papers, newspaperLanguage, newspaperGenre)
		if len(papers) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No newspapers match.")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tLANGUAGE\tGENRE")
		for _, p := range papers {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", p.ID, p.Name, p.Language, p.Genre)
		}
		return w.Flush()
	},
}

var milkCmd = &cobra.Command{
	Use:   "milk",
	Short: "List milk brands and their daily rate per half liter",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		products, err := source().ListMilkProducts(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to list milk products: %w", err)
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "BRAND\tTYPE\tDAILY RATE")
		for _, p := range products {
			fmt.Fprintf(w, "%s\t%s\t%s\n", p.Brand, p.Type, p.DailyRate)
		}
		return w.Flush()
	},
}

func init() {
	newspapersCmd.Flags().StringVar(&newspaperLanguage, "language", "", "only newspapers in this language")
	newspapersCmd.Flags().StringVar(&newspaperGenre, "genre", "", "only newspapers of this genre")

	Cmd.AddCommand(newspapersCmd)
	Cmd.AddCommand(milkCmd)
}
