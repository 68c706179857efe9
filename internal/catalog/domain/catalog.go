package domain

import (
	"context"
	"strings"

	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
)

// Newspaper is a title subscribers can pick.
type Newspaper struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Language    string `json:"language"`
	Genre       string `json:"genre"`
	Description string `json:"description,omitempty"`
}

// MilkProduct is one brand and type a subscriber can order by the half-liter.
type MilkProduct struct {
	Brand       string                 `json:"brand"`
	Type        pricingDomain.MilkType `json:"type"`
	DailyRate   pricingDomain.Money    `json:"daily_rate"`
	Description string                 `json:"description,omitempty"`
}

// Catalog lists what can be subscribed to. Only active items are returned.
type Catalog interface {
	ListNewspapers(ctx context.Context) ([]Newspaper, error)
	ListMilkProducts(ctx context.Context) ([]MilkProduct, error)
}

// FilterNewspapers keeps the papers matching language and genre. An empty
// criterion matches everything; matching ignores case.
func FilterNewspapers(papers []Newspaper, language, genre string) []Newspaper {
	out := make([]Newspaper, 0, len(papers))
	for _, p := range papers {
		if language != "" && !strings.EqualFold(p.Language, language) {
			continue
		}
		if genre != "" && !strings.EqualFold(p.Genre, genre) {
			continue
		}
		out = append(out, p)
	}
	return out
}

// ValidateSelection checks that every newspaper and milk line in the
// selection exists in the catalog. Brand matching ignores case.
func ValidateSelection(ctx context.Context, catalog Catalog, selection pricingDomain.SelectionSet) error {
	const op = "validate selection"

	papers, err := catalog.ListNewspapers(ctx)
	if err != nil {
		return sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
	}
	known := make(map[string]struct{}, len(papers))
	for _, p := range papers {
		known[p.ID] = struct{}{}
	}
	for _, id := range selection.Newspapers() {
		if _, ok := known[id]; !ok {
			return sharedDomain.Errorf(sharedDomain.KindValidation, op, "unknown newspaper %q", id)
		}
	}

	lines := selection.MilkLines()
	if len(lines) == 0 {
		return nil
	}
	products, err := catalog.ListMilkProducts(ctx)
	if err != nil {
		return sharedDomain.Wrap(sharedDomain.KindPersistence, op, err)
	}
	offered := make(map[pricingDomain.MilkKey]struct{}, len(products))
	for _, p := range products {
		offered[pricingDomain.MilkKey{Brand: strings.ToLower(p.Brand), Type: p.Type}] = struct{}{}
	}
	for _, line := range lines {
		key := pricingDomain.MilkKey{Brand: strings.ToLower(line.Brand), Type: line.Type}
		if _, ok := offered[key]; !ok {
			return sharedDomain.Errorf(sharedDomain.KindValidation, op, "unknown milk product %s %s", line.Brand, line.Type)
		}
	}
	return nil
}
