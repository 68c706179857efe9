package api

import (
	"errors"
	"net/http"
	"testing"

	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/stretchr/testify/assert"
)

func TestErrorOf(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		status    int
		code      string
		retryable bool
	}{
		{"validation", sharedDomain.NewError(sharedDomain.KindValidation, "pause subscription", "days"), http.StatusBadRequest, "validation", false},
		{"not found", sharedDomain.NewError(sharedDomain.KindNotFound, "find attempt", "gone"), http.StatusNotFound, "not_found", false},
		{"precondition", sharedDomain.NewError(sharedDomain.KindPrecondition, "retry payment", "paid"), http.StatusConflict, "precondition_failed", false},
		{"verification", sharedDomain.NewError(sharedDomain.KindVerificationFailed, "confirm payment", "bad signature"), http.StatusPaymentRequired, "verification_failed", false},
		{"amount", sharedDomain.NewError(sharedDomain.KindAmountMismatch, "confirm payment", "short"), http.StatusPaymentRequired, "amount_mismatch", false},
		{"gateway", sharedDomain.NewError(sharedDomain.KindGatewayUnavailable, "open payment", "refused"), http.StatusServiceUnavailable, "gateway_unavailable", true},
		{"persistence", sharedDomain.NewError(sharedDomain.KindPersistence, "save attempt", "disk full"), http.StatusInternalServerError, "persistence", true},
		{"unclassified", errors.New("boom"), http.StatusInternalServerError, "internal", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := errorOf(tt.err)
			assert.Equal(t, tt.status, e.Status)
			assert.Equal(t, tt.code, e.Code)
			assert.Equal(t, tt.retryable, e.Retryable)
		})
	}
}
