package delivery

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/Animesh0711/DailyEase/adapter/cli"
	"github.com/Animesh0711/DailyEase/internal/delivery/domain"
	internalApp "github.com/Animesh0711/DailyEase/internal/app"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/Animesh0711/DailyEase/pkg/config"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testSubscriberID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

func setupLocalModeTestApp(t *testing.T) *cli.App {
	t.Helper()

	cfg := &config.Config{
		AppEnv:               "test",
		SubscriberID:         testSubscriberID.String(),
		SQLitePath:           ":memory:",
		PaymentCurrency:      "INR",
		PaymentProviderOrder: []string{"redirect", "card"},
	}
	container, err := internalApp.NewContainer(context.Background(), cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	require.NoError(t, err)
	t.Cleanup(container.Close)

	app := cli.NewApp(container.Subscriptions, container.Payments, container.Deliveries, container.Catalog)
	app.SetCurrentSubscriberID(testSubscriberID)
	cli.SetApp(app)
	t.Cleanup(func() { cli.SetApp(nil) })
	return app
}

func run(t *testing.T, cmd *cobra.Command, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetContext(context.Background())
	err := cmd.RunE(cmd, args)
	return out.String(), err
}

func subscribe(t *testing.T, app *cli.App) string {
	t.Helper()
	sel, err := pricingDomain.NewSelectionSet([]string{"pudhari"}, []pricingDomain.MilkLine{
		{Brand: "Shriram Dairy", Type: pricingDomain.MilkCow, Units: 1},
	})
	require.NoError(t, err)
	creation, err := app.Subscriptions.CreateSubscription(context.Background(), sel, pricingDomain.FrequencyDaily, testSubscriberID)
	require.NoError(t, err)
	return creation.SubscriptionID.String()
}

func TestToggleAndCheckCmd(t *testing.T) {
	app := setupLocalModeTestApp(t)
	id := subscribe(t, app)
	tomorrow := domain.DateOf(time.Now()).AddDays(1).String()

	out, err := run(t, toggleCmd, id, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, tomorrow+": no delivery (changed)\n", out)

	out, err = run(t, checkCmd, id, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, tomorrow+": no delivery\n", out)

	out, err = run(t, toggleCmd, id, tomorrow)
	require.NoError(t, err)
	assert.Equal(t, tomorrow+": delivery\n", out)
}

func TestToggleCmd_Errors(t *testing.T) {
	setupLocalModeTestApp(t)

	_, err := run(t, toggleCmd, uuid.NewString(), "2026-04-12")
	assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindPrecondition))

	_, err = run(t, toggleCmd, uuid.NewString(), "12/04/2026")
	assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindValidation))

	_, err = run(t, toggleCmd, "abc", "2026-04-12")
	assert.Error(t, err)
}

func TestCalendarCmd(t *testing.T) {
	app := setupLocalModeTestApp(t)
	id := subscribe(t, app)
	today := domain.DateOf(time.Now())

	_, err := run(t, toggleCmd, id, today.AddDays(1).String())
	require.NoError(t, err)

	fromDate, toDate = today.String(), today.AddDays(2).String()
	t.Cleanup(func() { fromDate, toDate = "", "" })
	out, err := run(t, calendarCmd, id)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasSuffix(lines[0], "  delivery"))
	assert.True(t, strings.HasSuffix(lines[1], "no delivery (changed)"))
	assert.True(t, strings.HasSuffix(lines[2], "  delivery"))

	fromDate, toDate = today.String(), today.AddDays(400).String()
	_, err = run(t, calendarCmd, id)
	assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindValidation))
}

func TestYearCmd(t *testing.T) {
	out, err := run(t, yearCmd, "2026")
	require.NoError(t, err)
	assert.Equal(t, 12, strings.Count(out, "Mo Tu We Th Fr Sa Su"))
	assert.Contains(t, out, "January 2026\nMo Tu We Th Fr Sa Su\n          1  2  3  4\n")
	assert.Contains(t, out, "December 2026")

	_, err = run(t, yearCmd, "0")
	assert.True(t, sharedDomain.IsKind(err, sharedDomain.KindValidation))

	_, err = run(t, yearCmd, "twenty")
	assert.Error(t, err)

	yearText = true
	defer func() { yearText = false }()
	out, err = run(t, yearCmd, "2026")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, strings.Repeat(" ", 45)+"2026\n\n"))
	assert.Equal(t, 12, strings.Count(out, "Mon Tue Wed Thu Fri Sat Sun"))
}
