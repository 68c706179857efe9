package api

import (
	"log/slog"
	"net/http"

	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	subscriptionsApplication "github.com/Animesh0711/DailyEase/internal/subscriptions/application"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CreateSubscriptionRequest is a selection for one subscriber.
type CreateSubscriptionRequest struct {
	SelectionRequest
	SubscriberID string `json:"subscriber_id" binding:"required"`
}

// CreationBody is the response to a subscription request.
type CreationBody struct {
	SubscriptionID uuid.UUID           `json:"subscription_id"`
	AttemptID      uuid.UUID           `json:"attempt_id"`
	Quote          pricingDomain.Quote `json:"quote"`
	Payment        *HandleBody         `json:"payment"`
}

func creationBodyOf(c *subscriptionsApplication.Creation) *CreationBody {
	return &CreationBody{
		SubscriptionID: c.SubscriptionID,
		AttemptID:      c.AttemptID,
		Quote:          c.Quote,
		Payment:        handleBodyOf(c.Payment),
	}
}

type subscriptionHandler struct {
	service *subscriptionsApplication.Service
	logger  *slog.Logger
}

// Create handles POST /api/subscriptions.
func (h *subscriptionHandler) Create(c *gin.Context) {
	var req CreateSubscriptionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: %v", err)
		return
	}
	subscriberID, err := uuid.Parse(req.SubscriberID)
	if err != nil {
		badRequest(c, "invalid subscriber id %q", req.SubscriberID)
		return
	}
	sel, freq, err := req.Parse()
	if err != nil {
		writeError(c, err)
		return
	}

	creation, err := h.service.CreateSubscription(c.Request.Context(), sel, freq, subscriberID)
	if err != nil {
		if creation != nil {
			writeErrorWith(c, err, creationBodyOf(creation))
			return
		}
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, creationBodyOf(creation))
}

// Get handles GET /api/subscriptions/:id.
func (h *subscriptionHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "subscription")
	if !ok {
		return
	}
	view, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// ListForSubscriber handles GET /api/subscribers/:id/subscriptions.
func (h *subscriptionHandler) ListForSubscriber(c *gin.Context) {
	id, ok := pathID(c, "subscriber")
	if !ok {
		return
	}
	views, err := h.service.ListForSubscriber(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"subscriptions": views})
}

// Pause handles POST /api/subscriptions/:id/pause.
func (h *subscriptionHandler) Pause(c *gin.Context) {
	id, ok := pathID(c, "subscription")
	if !ok {
		return
	}
	var req PauseRequest
	if !bindOptionalJSON(c, &req) {
		return
	}
	view, err := h.service.Pause(c.Request.Context(), id, req.PauseDays())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// Resume handles POST /api/subscriptions/:id/resume.
func (h *subscriptionHandler) Resume(c *gin.Context) {
	id, ok := pathID(c, "subscription")
	if !ok {
		return
	}
	view, err := h.service.Resume(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}
