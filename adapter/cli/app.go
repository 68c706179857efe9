package cli

import (
	"fmt"

	catalogDomain "github.com/Animesh0711/DailyEase/internal/catalog/domain"
	deliveryApplication "github.com/Animesh0711/DailyEase/internal/delivery/application"
	paymentsApplication "github.com/Animesh0711/DailyEase/internal/payments/application"
	subscriptionsApplication "github.com/Animesh0711/DailyEase/internal/subscriptions/application"
	"github.com/google/uuid"
)

// App holds the CLI application dependencies.
type App struct {
	Subscriptions *subscriptionsApplication.Service
	Payments      *paymentsApplication.Orchestrator
	Deliveries    *deliveryApplication.Ledger
	Catalog       catalogDomain.Catalog

	// Current subscriber (configured per environment)
	CurrentSubscriberID uuid.UUID
}

// NewApp creates a new CLI application with the provided services.
func NewApp(
	subscriptions *subscriptionsApplication.Service,
	payments *paymentsApplication.Orchestrator,
	deliveries *deliveryApplication.Ledger,
	catalog catalogDomain.Catalog,
) *App {
	return &App{
		Subscriptions:       subscriptions,
		Payments:            payments,
		Deliveries:          deliveries,
		Catalog:             catalog,
		CurrentSubscriberID: uuid.Nil,
	}
}

// SetCurrentSubscriberID updates the current subscriber ID.
func (a *App) SetCurrentSubscriberID(id uuid.UUID) {
	a.CurrentSubscriberID = id
}

// app is the global CLI application instance
var app *App

// SetApp sets the global CLI application instance.
func SetApp(a *App) {
	app = a
}

// GetApp returns the global CLI application instance.
func GetApp() *App {
	return app
}

// RequireApp returns the application or an error when the CLI started
// without a database.
func RequireApp() (*App, error) {
	if app == nil || app.Subscriptions == nil {
		return nil, fmt.Errorf("application not initialized - database connection required")
	}
	return app, nil
}
