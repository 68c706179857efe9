package app

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	deliveryDomain "github.com/Animesh0711/DailyEase/internal/delivery/domain"
	paymentsDomain "github.com/Animesh0711/DailyEase/internal/payments/domain"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/database"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/lock"
	subscriptionsDomain "github.com/Animesh0711/DailyEase/internal/subscriptions/domain"
	"github.com/Animesh0711/DailyEase/pkg/config"
	"github.com/Animesh0711/DailyEase/pkg/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func localConfig() *config.Config {
	return &config.Config{
		AppEnv:               "test",
		SubscriberID:         "00000000-0000-0000-0000-000000000001",
		SQLitePath:           ":memory:",
		PaymentCurrency:      "INR",
		PaymentProviderOrder: []string{"redirect", "card"},
		PaymentAttemptTTL:    time.Hour,
	}
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewContainer_LocalMode(t *testing.T) {
	ctx := context.Background()
	c, err := NewContainer(ctx, localConfig(), quietLogger())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	assert.Equal(t, database.DriverSQLite, c.Driver)
	assert.NotNil(t, c.SQLite)
	assert.Nil(t, c.Pool)
	assert.IsType(t, &lock.KeyedLocker{}, c.Locker)
	assert.Nil(t, c.CardGateway)
	assert.Nil(t, c.RedirectGateway)
	assert.Equal(t, paymentsDomain.ProviderManual, c.Payments.SelectProvider())
	assert.Equal(t, "00000000-0000-0000-0000-000000000001", c.SubscriberID().String())

	health := c.Health.Check(ctx)
	assert.Equal(t, observability.HealthStatusHealthy, health.Status)
	assert.Contains(t, health.Checks, "database")
}

func TestNewContainer_EndToEnd(t *testing.T) {
	ctx := context.Background()
	c, err := NewContainer(ctx, localConfig(), quietLogger())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	sel, err := pricingDomain.NewSelectionSet([]string{"sakal"}, []pricingDomain.MilkLine{
		{Brand: "Phadke Doodh", Type: pricingDomain.MilkBuffalo, Units: 1},
	})
	require.NoError(t, err)

	creation, err := c.Subscriptions.CreateSubscription(ctx, sel, pricingDomain.FrequencyDaily, c.SubscriberID())
	require.NoError(t, err)
	assert.Equal(t, paymentsDomain.StatusPendingManual, creation.Payment.Status)

	view, err := c.Subscriptions.Get(ctx, creation.SubscriptionID)
	require.NoError(t, err)
	assert.Equal(t, subscriptionsDomain.PaymentAwaiting, view.PaymentState)

	tomorrow := deliveryDomain.DateOf(time.Now()).AddDays(1)
	state, err := c.Deliveries.Toggle(ctx, creation.SubscriptionID, tomorrow)
	require.NoError(t, err)
	assert.True(t, state.Overridden)
	assert.False(t, state.Delivers)

	delivers, err := c.Deliveries.Materialize(ctx, creation.SubscriptionID, tomorrow)
	require.NoError(t, err)
	assert.False(t, delivers)

	swept, err := c.Sweeper.SweepOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, swept)
}

func TestNewContainer_RejectsUnknownProvider(t *testing.T) {
	cfg := localConfig()
	cfg.PaymentProviderOrder = []string{"cheque"}

	_, err := NewContainer(context.Background(), cfg, quietLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "PAYMENT_PROVIDER_ORDER")
}

func TestNewContainer_ConfiguredGateways(t *testing.T) {
	cfg := localConfig()
	cfg.StripeSecretKey = "sk_test_123"
	cfg.RazorpayKeyID = "rzp_test_key"
	cfg.RazorpayKeySecret = "rzp_test_secret"
	cfg.PaymentProviderOrder = []string{"card", "redirect"}

	c, err := NewContainer(context.Background(), cfg, quietLogger())
	require.NoError(t, err)
	t.Cleanup(c.Close)

	require.NotNil(t, c.CardGateway)
	require.NotNil(t, c.RedirectGateway)
	assert.Equal(t, paymentsDomain.ProviderCard, c.Payments.SelectProvider())
}

func TestRepositoryFactory_Drivers(t *testing.T) {
	assert.Equal(t, database.DriverSQLite, NewSQLiteRepositoryFactory(nil).Driver())
	assert.Equal(t, database.DriverPostgres, NewPostgresRepositoryFactory(nil).Driver())

	bogus := &RepositoryFactory{driver: "oracle"}
	_, err := bogus.SubscriptionRepository()
	assert.Error(t, err)
	_, err = bogus.UnitOfWork()
	assert.Error(t, err)
}
