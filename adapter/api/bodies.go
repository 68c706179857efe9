package api

import (
	paymentsApplication "github.com/Animesh0711/DailyEase/internal/payments/application"
	paymentsDomain "github.com/Animesh0711/DailyEase/internal/payments/domain"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SelectionRequest is a newspaper and milk selection with its billing term.
// An empty frequency means daily.
type SelectionRequest struct {
	Newspapers []string          `json:"newspapers"`
	Milk       []MilkLineRequest `json:"milk"`
	Frequency  string            `json:"frequency"`
}

// MilkLineRequest is one milk line of a selection.
type MilkLineRequest struct {
	Brand string `json:"brand"`
	Type  string `json:"type"`
	Units int    `json:"units"`
}

// Parse validates the request into a selection and a frequency.
func (r SelectionRequest) Parse() (pricingDomain.SelectionSet, pricingDomain.Frequency, error) {
	lines := make([]pricingDomain.MilkLine, 0, len(r.Milk))
	for _, m := range r.Milk {
		t, err := pricingDomain.ParseMilkType(m.Type)
		if err != nil {
			return pricingDomain.SelectionSet{}, "", err
		}
		lines = append(lines, pricingDomain.MilkLine{Brand: m.Brand, Type: t, Units: m.Units})
	}
	sel, err := pricingDomain.NewSelectionSet(r.Newspapers, lines)
	if err != nil {
		return pricingDomain.SelectionSet{}, "", err
	}

	raw := r.Frequency
	if raw == "" {
		raw = string(pricingDomain.FrequencyDaily)
	}
	freq, err := pricingDomain.ParseFrequency(raw)
	if err != nil {
		return pricingDomain.SelectionSet{}, "", err
	}
	return sel, freq, nil
}

// ProviderBody is the tagged JSON form of a payment continuation.
type ProviderBody struct {
	Kind         paymentsDomain.ProviderKind `json:"kind"`
	ClientSecret string                      `json:"client_secret,omitempty"`
	OrderID      string                      `json:"order_id,omitempty"`
}

func providerBodyOf(p paymentsDomain.Provider) ProviderBody {
	switch v := p.(type) {
	case paymentsDomain.Card:
		return ProviderBody{Kind: v.Kind(), ClientSecret: v.ClientSecret}
	case paymentsDomain.Redirect:
		return ProviderBody{Kind: v.Kind(), OrderID: v.OrderID}
	default:
		return ProviderBody{Kind: paymentsDomain.ProviderManual}
	}
}

// HandleBody tells the client how to continue a payment attempt.
type HandleBody struct {
	AttemptID      uuid.UUID                    `json:"attempt_id"`
	SubscriptionID uuid.UUID                    `json:"subscription_id"`
	Status         paymentsDomain.AttemptStatus `json:"status"`
	Amount         pricingDomain.Money          `json:"amount"`
	Provider       ProviderBody                 `json:"provider"`
	RetryOf        *uuid.UUID                   `json:"retry_of,omitempty"`
}

func handleBodyOf(h *paymentsApplication.Handle) *HandleBody {
	return &HandleBody{
		AttemptID:      h.AttemptID,
		SubscriptionID: h.SubscriptionID,
		Status:         h.Status,
		Amount:         h.Amount,
		Provider:       providerBodyOf(h.Provider),
		RetryOf:        h.RetryOf,
	}
}

// ConfirmRequest carries exactly one proof: the checkout callback fields, a
// card payment intent, or a manual receipt reference. The confirm route
// refuses manual references.
type ConfirmRequest struct {
	OrderID         string `json:"order_id"`
	PaymentID       string `json:"payment_id"`
	Signature       string `json:"signature"`
	PaymentIntentID string `json:"payment_intent_id"`
	Reference       string `json:"reference"`
}

// Proof returns the single proof in the request.
func (r ConfirmRequest) Proof() (paymentsDomain.Proof, error) {
	var proofs []paymentsDomain.Proof
	if r.OrderID != "" || r.PaymentID != "" || r.Signature != "" {
		proofs = append(proofs, paymentsDomain.RedirectProof{OrderID: r.OrderID, PaymentID: r.PaymentID, Signature: r.Signature})
	}
	if r.PaymentIntentID != "" {
		proofs = append(proofs, paymentsDomain.CardProof{PaymentIntentID: r.PaymentIntentID})
	}
	if r.Reference != "" {
		proofs = append(proofs, paymentsDomain.ManualProof{Reference: r.Reference})
	}
	if len(proofs) != 1 {
		return nil, sharedDomain.NewError(sharedDomain.KindValidation, "confirm payment", "give exactly one proof: checkout, card or manual")
	}
	return proofs[0], nil
}

// RetryRequest optionally restates the amount in paise.
type RetryRequest struct {
	Amount int64 `json:"amount"`
}

// PauseRequest is the pause length. An absent length means DefaultPauseDays;
// an explicit zero or negative length is passed on and rejected.
type PauseRequest struct {
	Days *int `json:"days"`
}

// DefaultPauseDays is used when a pause request names no length.
const DefaultPauseDays = 7

// PauseDays resolves the requested length.
func (r PauseRequest) PauseDays() int {
	if r.Days == nil {
		return DefaultPauseDays
	}
	return *r.Days
}

// ToggleRequest names the delivery date, YYYY-MM-DD.
type ToggleRequest struct {
	Date string `json:"date" binding:"required"`
}

// pathID parses the :id parameter, aborting with 400 when it is not a UUID.
func pathID(c *gin.Context, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		badRequest(c, "invalid %s id %q", what, c.Param("id"))
		return uuid.Nil, false
	}
	return id, true
}

// bindOptionalJSON binds a JSON body when one was sent.
func bindOptionalJSON(c *gin.Context, dst any) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBindJSON(dst); err != nil {
		badRequest(c, "invalid request body: %v", err)
		return false
	}
	return true
}
