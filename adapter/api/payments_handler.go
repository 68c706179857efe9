package api

import (
	"log/slog"
	"net/http"

	paymentsApplication "github.com/Animesh0711/DailyEase/internal/payments/application"
	paymentsDomain "github.com/Animesh0711/DailyEase/internal/payments/domain"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	"github.com/gin-gonic/gin"
)

type paymentHandler struct {
	payments *paymentsApplication.Orchestrator
	logger   *slog.Logger
}

// Confirm handles POST /api/payments/:id/confirm. A rejected proof answers
// 402 with the failed attempt in the error result. Manual receipts carry no
// provider evidence and are confirmed by an operator through the CLI only.
func (h *paymentHandler) Confirm(c *gin.Context) {
	id, ok := pathID(c, "attempt")
	if !ok {
		return
	}
	var req ConfirmRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: %v", err)
		return
	}
	proof, err := req.Proof()
	if err != nil {
		writeError(c, err)
		return
	}
	if _, manual := proof.(paymentsDomain.ManualProof); manual {
		forbidden(c, "manual payments are confirmed by an operator: dailyease payment confirm --reference")
		return
	}

	confirmation, err := h.payments.Confirm(c.Request.Context(), id, proof)
	if err != nil {
		if confirmation != nil {
			writeErrorWith(c, err, confirmation)
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, confirmation)
}

// Retry handles POST /api/payments/:id/retry.
func (h *paymentHandler) Retry(c *gin.Context) {
	id, ok := pathID(c, "attempt")
	if !ok {
		return
	}
	var req RetryRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	var amount pricingDomain.Money
	if req.Amount != 0 {
		amount = pricingDomain.INR(req.Amount)
	}

	handle, err := h.payments.Retry(c.Request.Context(), id, amount)
	if err != nil {
		if handle != nil {
			writeErrorWith(c, err, handleBodyOf(handle))
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, handleBodyOf(handle))
}

// History handles GET /api/subscribers/:id/payments.
func (h *paymentHandler) History(c *gin.Context) {
	id, ok := pathID(c, "subscriber")
	if !ok {
		return
	}
	attempts, err := h.payments.History(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"attempts": attempts})
}
