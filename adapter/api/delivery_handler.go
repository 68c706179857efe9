package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	deliveryApplication "github.com/Animesh0711/DailyEase/internal/delivery/application"
	deliveryDomain "github.com/Animesh0711/DailyEase/internal/delivery/domain"
	"github.com/gin-gonic/gin"
)

// defaultCalendarDays is the span shown when a calendar request names no end.
const defaultCalendarDays = 14

type deliveryHandler struct {
	ledger *deliveryApplication.Ledger
	logger *slog.Logger
}

// Toggle handles POST /api/subscriptions/:id/toggle-delivery.
func (h *deliveryHandler) Toggle(c *gin.Context) {
	id, ok := pathID(c, "subscription")
	if !ok {
		return
	}
	var req ToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: %v", err)
		return
	}
	date, err := deliveryDomain.ParseDate(req.Date)
	if err != nil {
		writeError(c, err)
		return
	}

	state, err := h.ledger.Toggle(c.Request.Context(), id, date)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, state)
}

// Calendar handles GET /api/subscriptions/:id/calendar. from defaults to
// today and to defaults to two weeks later.
func (h *deliveryHandler) Calendar(c *gin.Context) {
	id, ok := pathID(c, "subscription")
	if !ok {
		return
	}

	from := deliveryDomain.DateOf(time.Now())
	if raw := c.Query("from"); raw != "" {
		d, err := deliveryDomain.ParseDate(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		from = d
	}
	to := from.AddDays(defaultCalendarDays - 1)
	if raw := c.Query("to"); raw != "" {
		d, err := deliveryDomain.ParseDate(raw)
		if err != nil {
			writeError(c, err)
			return
		}
		to = d
	}

	days, err := h.ledger.Calendar(c.Request.Context(), id, from, to)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"subscription_id": id,
		"from":            from,
		"to":              to,
		"days":            days,
	})
}

// Year handles GET /api/calendar/structured/:year.
func (h *deliveryHandler) Year(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}
	months, err := deliveryDomain.YearCalendar(year)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "months": months})
}

// YearText handles GET /api/calendar/text/:year.
func (h *deliveryHandler) YearText(c *gin.Context) {
	year, ok := yearParam(c)
	if !ok {
		return
	}
	text, err := deliveryDomain.YearText(year)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"year": year, "text": text})
}

func yearParam(c *gin.Context) (int, bool) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		badRequest(c, "invalid year %q", c.Param("year"))
		return 0, false
	}
	return year, true
}
