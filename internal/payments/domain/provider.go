package domain

import (
	"fmt"
	"strings"

	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
)

// ProviderKind is the stored tag of a Provider.
type ProviderKind string

const (
	ProviderCard     ProviderKind = "card"
	ProviderRedirect ProviderKind = "redirect"
	ProviderManual   ProviderKind = "manual"
)

// ParseProviderKind accepts "card" or "redirect" for provider ordering, and
// "manual" for stored attempts.
func ParseProviderKind(s string) (ProviderKind, error) {
	switch k := ProviderKind(strings.ToLower(strings.TrimSpace(s))); k {
	case ProviderCard, ProviderRedirect, ProviderManual:
		return k, nil
	default:
		return "", sharedDomain.Errorf(sharedDomain.KindValidation, "parse provider", "unknown provider %q", s)
	}
}

// Provider is how the subscriber continues a payment: confirm a card intent
// with its client secret, complete a redirect order, or pay out of band.
type Provider interface {
	Kind() ProviderKind
	isProvider()
}

// Card continues with the card processor's client-side confirmation.
type Card struct {
	ClientSecret string `json:"client_secret"`
}

// Redirect continues on the provider's checkout page for OrderID.
type Redirect struct {
	OrderID string `json:"order_id"`
}

// Manual means no provider is involved; an operator records the payment.
type Manual struct{}

func (Card) Kind() ProviderKind     { return ProviderCard }
func (Redirect) Kind() ProviderKind { return ProviderRedirect }
func (Manual) Kind() ProviderKind   { return ProviderManual }

func (Card) isProvider()     {}
func (Redirect) isProvider() {}
func (Manual) isProvider()   {}

// Proof is what the subscriber brings back to Confirm.
type Proof interface {
	Kind() ProviderKind
	isProof()
}

// CardProof names the confirmed payment intent.
type CardProof struct {
	PaymentIntentID string `json:"payment_intent_id"`
}

// RedirectProof is the provider callback: the order, the payment made
// against it, and the provider's signature over both.
type RedirectProof struct {
	OrderID   string `json:"order_id"`
	PaymentID string `json:"payment_id"`
	Signature string `json:"signature"`
}

// ManualProof carries the operator's receipt reference.
type ManualProof struct {
	Reference string `json:"reference"`
}

func (CardProof) Kind() ProviderKind     { return ProviderCard }
func (RedirectProof) Kind() ProviderKind { return ProviderRedirect }
func (ManualProof) Kind() ProviderKind   { return ProviderManual }

func (CardProof) isProof()     {}
func (RedirectProof) isProof() {}
func (ManualProof) isProof()   {}

// ValidateProof checks that every required field of the proof is present.
func ValidateProof(proof Proof) error {
	const op = "validate proof"
	switch p := proof.(type) {
	case CardProof:
		if strings.TrimSpace(p.PaymentIntentID) == "" {
			return sharedDomain.NewError(sharedDomain.KindValidation, op, "payment_intent_id is required")
		}
	case RedirectProof:
		if p.OrderID == "" || p.PaymentID == "" || p.Signature == "" {
			return sharedDomain.NewError(sharedDomain.KindValidation, op, "order_id, payment_id and signature are required")
		}
	case ManualProof:
		if strings.TrimSpace(p.Reference) == "" {
			return sharedDomain.NewError(sharedDomain.KindValidation, op, "reference is required")
		}
	case nil:
		return sharedDomain.NewError(sharedDomain.KindValidation, op, "proof is required")
	default:
		return sharedDomain.NewError(sharedDomain.KindValidation, op, fmt.Sprintf("unsupported proof %T", proof))
	}
	return nil
}
