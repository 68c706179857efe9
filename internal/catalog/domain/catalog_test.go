package domain_test

import (
	"context"
	"errors"
	"testing"

	catalogDomain "github.com/Animesh0711/DailyEase/internal/catalog/domain"
	"github.com/Animesh0711/DailyEase/internal/catalog/infrastructure/seed"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingCatalog struct{}

func (failingCatalog) ListNewspapers(ctx context.Context) ([]catalogDomain.Newspaper, error) {
	return nil, errors.New("catalog offline")
}

func (failingCatalog) ListMilkProducts(ctx context.Context) ([]catalogDomain.MilkProduct, error) {
	return nil, errors.New("catalog offline")
}

func TestValidateSelection(t *testing.T) {
	ctx := context.Background()
	catalog := seed.NewCatalog()

	t.Run("accepts seeded items", func(t *testing.T) {
		sel, err := pricingDomain.NewSelectionSet(
			[]string{"lokmat", "times-of-india"},
			[]pricingDomain.MilkLine{{Brand: "amul", Type: pricingDomain.MilkBuffalo, Units: 1}},
		)
		require.NoError(t, err)
		assert.NoError(t, catalogDomain.ValidateSelection(ctx, catalog, sel))
	})

	t.Run("rejects unknown newspaper", func(t *testing.T) {
		sel, err := pricingDomain.NewSelectionSet([]string{"daily-planet"}, nil)
		require.NoError(t, err)
		err = catalogDomain.ValidateSelection(ctx, catalog, sel)
		assert.True(t, errors.Is(err, sharedDomain.ErrValidation))
		assert.Contains(t, err.Error(), "daily-planet")
	})

	t.Run("rejects unknown brand", func(t *testing.T) {
		sel, err := pricingDomain.NewSelectionSet(
			[]string{"sakal"},
			[]pricingDomain.MilkLine{{Brand: "Gokul", Type: pricingDomain.MilkCow, Units: 1}},
		)
		require.NoError(t, err)
		assert.True(t, errors.Is(catalogDomain.ValidateSelection(ctx, catalog, sel), sharedDomain.ErrValidation))
	})

	t.Run("catalog failure is a persistence error", func(t *testing.T) {
		sel, err := pricingDomain.NewSelectionSet([]string{"sakal"}, nil)
		require.NoError(t, err)
		assert.True(t, errors.Is(catalogDomain.ValidateSelection(ctx, failingCatalog{}, sel), sharedDomain.ErrPersistence))
	})
}

func TestSeedCatalog(t *testing.T) {
	catalog := seed.NewCatalog()

	papers, err := catalog.ListNewspapers(context.Background())
	require.NoError(t, err)
	assert.Len(t, papers, 8)

	milk, err := catalog.ListMilkProducts(context.Background())
	require.NoError(t, err)
	assert.Len(t, milk, 8)
	assert.Equal(t, pricingDomain.Rupees(29), milk[0].DailyRate)
	assert.Equal(t, pricingDomain.Rupees(35), milk[1].DailyRate)
}

func TestFilterNewspapers(t *testing.T) {
	papers, err := seed.NewCatalog().ListNewspapers(context.Background())
	require.NoError(t, err)

	tests := []struct {
		name     string
		language string
		genre    string
		want     int
	}{
		{"no criteria", "", "", 8},
		{"language", "Marathi", "", 5},
		{"language ignores case", "ENGLISH", "", 3},
		{"genre", "", "business", 1},
		{"both", "English", "General", 2},
		{"no match", "Marathi", "Business", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := catalogDomain.FilterNewspapers(papers, tt.language, tt.genre)
			assert.Len(t, got, tt.want)
			assert.NotNil(t, got)
		})
	}
}
