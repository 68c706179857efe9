// Package seed provides the built-in DailyEase catalog.
package seed

import (
	"context"

	catalogDomain "github.com/Animesh0711/DailyEase/internal/catalog/domain"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
)

var newspapers = []catalogDomain.Newspaper{
	{ID: "times-of-india", Name: "Times of India", Language: "English", Genre: "General", Description: "Leading English daily"},
	{ID: "hindustan-times", Name: "Hindustan Times", Language: "English", Genre: "General", Description: "Trusted English newspaper"},
	{ID: "economic-times", Name: "Economic Times", Language: "English", Genre: "Business", Description: "Business & markets"},
	{ID: "lokmat", Name: "Lokmat", Language: "Marathi", Genre: "General", Description: "Popular Marathi daily"},
	{ID: "sakal", Name: "Sakal", Language: "Marathi", Genre: "General", Description: "Regional news and more"},
	{ID: "lokshahir", Name: "Lokshahir", Language: "Marathi", Genre: "General", Description: "Local coverage"},
	{ID: "pune-times", Name: "Pune Times", Language: "Marathi", Genre: "General", Description: "Pune local news"},
	{ID: "pudhari", Name: "Pudhari", Language: "Marathi", Genre: "General", Description: "Marathi daily"},
}

var milkBrands = []string{"Chitale Bandhu", "Phadke Doodh", "Shriram Dairy", "Amul"}

// Catalog serves the seeded newspapers and milk brands from memory.
type Catalog struct{}

// NewCatalog returns the seeded catalog.
func NewCatalog() *Catalog { return &Catalog{} }

var _ catalogDomain.Catalog = (*Catalog)(nil)

// ListNewspapers returns a copy of the seeded newspapers.
func (c *Catalog) ListNewspapers(ctx context.Context) ([]catalogDomain.Newspaper, error) {
	out := make([]catalogDomain.Newspaper, len(newspapers))
	copy(out, newspapers)
	return out, nil
}

// ListMilkProducts returns every brand in both types, priced per half-liter per day.
func (c *Catalog) ListMilkProducts(ctx context.Context) ([]catalogDomain.MilkProduct, error) {
	out := make([]catalogDomain.MilkProduct, 0, len(milkBrands)*2)
	for _, brand := range milkBrands {
		for _, t := range []pricingDomain.MilkType{pricingDomain.MilkCow, pricingDomain.MilkBuffalo} {
			out = append(out, catalogDomain.MilkProduct{
				Brand:       brand,
				Type:        t,
				DailyRate:   pricingDomain.Rupees(pricingDomain.MilkUnitRate(t)),
				Description: "0.5L " + string(t) + " milk",
			})
		}
	}
	return out, nil
}
