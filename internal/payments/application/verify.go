package application

import (
	"context"
	"fmt"

	"github.com/Animesh0711/DailyEase/internal/payments/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
)

// verdict is the result of checking a proof. A zero reason means accepted.
type verdict struct {
	reason    domain.FailureReason
	reference string
	detail    string
}

func reject(reason domain.FailureReason, format string, args ...any) verdict {
	return verdict{reason: reason, detail: fmt.Sprintf(format, args...)}
}

// verify checks proof against the provider. It is called without the
// subscription lock. Errors are infrastructure failures or a card payment
// that has not finished yet; rejections come back as a verdict.
func (o *Orchestrator) verify(ctx context.Context, a *domain.Attempt, proof domain.Proof) (verdict, error) {
	const op = "verify payment"

	switch p := proof.(type) {
	case domain.CardProof:
		if p.PaymentIntentID != a.ProviderReference() {
			return reject(domain.ReasonVerificationFailed, "payment intent %s does not belong to attempt %s", p.PaymentIntentID, a.ID()), nil
		}
		if o.gateways.Card == nil {
			return verdict{}, sharedDomain.NewError(sharedDomain.KindGatewayUnavailable, op, "card gateway not configured")
		}
		res, err := o.gateways.Card.Verify(ctx, a.ProviderReference(), p)
		if err != nil {
			return verdict{}, sharedDomain.Wrap(sharedDomain.KindGatewayUnavailable, op, err)
		}
		switch res.Outcome {
		case domain.CardInProgress:
			return verdict{}, sharedDomain.Errorf(sharedDomain.KindPrecondition, op, "payment intent %s has not completed", p.PaymentIntentID)
		case domain.CardSucceeded:
		default:
			return reject(domain.ReasonVerificationFailed, "payment intent %s was not successful", p.PaymentIntentID), nil
		}
		if !res.Amount.Equal(a.Amount()) {
			return reject(domain.ReasonAmountMismatch, "charged %s, expected %s", res.Amount, a.Amount()), nil
		}
		return verdict{}, nil

	case domain.RedirectProof:
		if p.OrderID != a.ProviderReference() {
			return reject(domain.ReasonVerificationFailed, "order %s does not belong to attempt %s", p.OrderID, a.ID()), nil
		}
		if o.gateways.Redirect == nil {
			return verdict{}, sharedDomain.NewError(sharedDomain.KindGatewayUnavailable, op, "redirect gateway not configured")
		}
		if !o.gateways.Redirect.VerifySignature(p.OrderID, p.PaymentID, p.Signature) {
			return reject(domain.ReasonVerificationFailed, "signature mismatch for order %s", p.OrderID), nil
		}
		paid, err := o.gateways.Redirect.PaymentAmount(ctx, p.PaymentID)
		if err != nil {
			return verdict{}, sharedDomain.Wrap(sharedDomain.KindGatewayUnavailable, op, err)
		}
		if !paid.Equal(a.Amount()) {
			return reject(domain.ReasonAmountMismatch, "paid %s, expected %s", paid, a.Amount()), nil
		}
		return verdict{}, nil

	case domain.ManualProof:
		return verdict{reference: p.Reference}, nil

	default:
		return verdict{}, sharedDomain.Errorf(sharedDomain.KindValidation, op, "unsupported proof %T", proof)
	}
}
