package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Animesh0711/DailyEase/adapter/api"
	internalApp "github.com/Animesh0711/DailyEase/internal/app"
	deliveryDomain "github.com/Animesh0711/DailyEase/internal/delivery/domain"
	paymentsDomain "github.com/Animesh0711/DailyEase/internal/payments/domain"
	"github.com/Animesh0711/DailyEase/pkg/config"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const subscriberID = "00000000-0000-0000-0000-000000000001"

func init() {
	gin.SetMode(gin.TestMode)
}

func newTestServer(t *testing.T) http.Handler {
	t.Helper()
	h, _ := newTestEnv(t)
	return h
}

func newTestEnv(t *testing.T) (http.Handler, *internalApp.Container) {
	t.Helper()

	cfg := &config.Config{
		AppEnv:               "test",
		SubscriberID:         subscriberID,
		SQLitePath:           ":memory:",
		PaymentCurrency:      "INR",
		PaymentProviderOrder: []string{"redirect", "card"},
		PaymentAttemptTTL:    time.Hour,
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	c, err := internalApp.NewContainer(context.Background(), cfg, logger)
	require.NoError(t, err)
	t.Cleanup(c.Close)

	srv := api.NewServer(api.DefaultServerConfig(), api.Services{
		Subscriptions: c.Subscriptions,
		Payments:      c.Payments,
		Deliveries:    c.Deliveries,
		Catalog:       c.Catalog,
	}, c.Health, logger)
	return srv.Handler(), c
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var r io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		r = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

func weeklySelection() map[string]any {
	return map[string]any{
		"newspapers": []string{"lokmat"},
		"milk":       []map[string]any{{"brand": "Amul", "type": "cow", "units": 2}},
		"frequency":  "weekly",
	}
}

func createSubscription(t *testing.T, h http.Handler) (subscriptionID, attemptID string) {
	t.Helper()

	body := weeklySelection()
	body["subscriber_id"] = subscriberID
	rec := do(t, h, http.MethodPost, "/api/subscriptions", body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	out := decode(t, rec)
	payment := out["payment"].(map[string]any)
	assert.Equal(t, "pending_manual", payment["status"])
	assert.Equal(t, "manual", payment["provider"].(map[string]any)["kind"])
	return out["subscription_id"].(string), out["attempt_id"].(string)
}

func TestHealth(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	assert.Equal(t, "healthy", out["status"])
	assert.Contains(t, out["checks"], "database")
}

func TestRequestID(t *testing.T) {
	h := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(api.RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get(api.RequestIDHeader))

	rec = do(t, h, http.MethodGet, "/health", nil)
	_, err := uuid.Parse(rec.Header().Get(api.RequestIDHeader))
	assert.NoError(t, err)
}

func TestQuote(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodPost, "/api/quotes", weeklySelection())
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	out := decode(t, rec)
	quote := out["quote"].(map[string]any)
	assert.Equal(t, float64(35200), quote["total"].(map[string]any)["amount"])
	assert.Equal(t, true, quote["discount_applied"])
	assert.Equal(t, float64(8800), out["discount"].(map[string]any)["amount"])
}

func TestQuote_Validation(t *testing.T) {
	h := newTestServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"unknown paper", map[string]any{"newspapers": []string{"daily-planet"}}},
		{"no papers", map[string]any{"newspapers": []string{}}},
		{"bad frequency", map[string]any{"newspapers": []string{"sakal"}, "frequency": "hourly"}},
		{"bad milk type", map[string]any{
			"newspapers": []string{"sakal"},
			"milk":       []map[string]any{{"brand": "Amul", "type": "goat", "units": 1}},
		}},
		{"not json", "lokmat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, h, http.MethodPost, "/api/quotes", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
			assert.Equal(t, "validation", decode(t, rec)["code"])
		})
	}
}

func TestSubscriptionLifecycle(t *testing.T) {
	h, c := newTestEnv(t)
	subID, attemptID := createSubscription(t, h)

	rec := do(t, h, http.MethodGet, "/api/subscriptions/"+subID, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "awaiting_payment", decode(t, rec)["payment_state"])

	tomorrow := deliveryDomain.DateOf(time.Now()).AddDays(1).String()
	rec = do(t, h, http.MethodPost, "/api/subscriptions/"+subID+"/toggle-delivery", map[string]any{"date": tomorrow})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	state := decode(t, rec)
	assert.Equal(t, true, state["overridden"])
	assert.Equal(t, false, state["delivers"])

	rec = do(t, h, http.MethodGet, "/api/subscriptions/"+subID+"/calendar?from="+tomorrow+"&to="+tomorrow, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	days := decode(t, rec)["days"].([]any)
	require.Len(t, days, 1)
	assert.Equal(t, false, days[0].(map[string]any)["delivers"])

	rec = do(t, h, http.MethodPost, "/api/subscriptions/"+subID+"/pause", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, true, decode(t, rec)["is_paused"])

	rec = do(t, h, http.MethodPost, "/api/subscriptions/"+subID+"/resume", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, false, decode(t, rec)["is_paused"])

	// manual receipts are settled by an operator, not over the API
	rec = do(t, h, http.MethodPost, "/api/payments/"+attemptID+"/confirm", map[string]any{"reference": "cash-0042"})
	require.Equal(t, http.StatusForbidden, rec.Code, rec.Body.String())
	assert.Equal(t, "forbidden", decode(t, rec)["code"])
	rec = do(t, h, http.MethodGet, "/api/subscriptions/"+subID, nil)
	assert.Equal(t, "awaiting_payment", decode(t, rec)["payment_state"])

	conf, err := c.Payments.Confirm(context.Background(), uuid.MustParse(attemptID), paymentsDomain.ManualProof{Reference: "cash-0042"})
	require.NoError(t, err)
	assert.Equal(t, paymentsDomain.StatusSucceeded, conf.Status)
	assert.True(t, conf.Activated)

	rec = do(t, h, http.MethodGet, "/api/subscriptions/"+subID, nil)
	assert.Equal(t, "paid", decode(t, rec)["payment_state"])

	rec = do(t, h, http.MethodGet, "/api/subscribers/"+subscriberID+"/subscriptions", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["subscriptions"], 1)

	rec = do(t, h, http.MethodGet, "/api/subscribers/"+subscriberID+"/payments", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["attempts"], 1)

	// paid subscriptions cannot be retried
	rec = do(t, h, http.MethodPost, "/api/payments/"+attemptID+"/retry", nil)
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())
	assert.Equal(t, "precondition_failed", decode(t, rec)["code"])
}

func TestRetry(t *testing.T) {
	h := newTestServer(t)
	_, attemptID := createSubscription(t, h)

	rec := do(t, h, http.MethodPost, "/api/payments/"+attemptID+"/retry", map[string]any{"amount": 1})
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/payments/"+attemptID+"/retry", map[string]any{"amount": 35200})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	out := decode(t, rec)
	assert.Equal(t, attemptID, out["retry_of"])
	assert.NotEqual(t, attemptID, out["attempt_id"])
}

func TestConfirm_Proofs(t *testing.T) {
	h := newTestServer(t)
	_, attemptID := createSubscription(t, h)

	rec := do(t, h, http.MethodPost, "/api/payments/"+attemptID+"/confirm", map[string]any{
		"reference":         "cash",
		"payment_intent_id": "pi_1",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/payments/"+attemptID+"/confirm", map[string]any{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/payments/"+attemptID+"/confirm", map[string]any{"reference": "cash"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(t, h, http.MethodPost, "/api/payments/"+uuid.NewString()+"/confirm", map[string]any{
		"order_id":   "order_1",
		"payment_id": "pay_1",
		"signature":  "sig",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, false, decode(t, rec)["retryable"])
}

func TestPause_Days(t *testing.T) {
	h := newTestServer(t)
	subID, _ := createSubscription(t, h)
	path := "/api/subscriptions/" + subID + "/pause"

	tests := []struct {
		name   string
		body   any
		status int
		days   int
	}{
		{"absent length pauses a week", nil, http.StatusOK, api.DefaultPauseDays},
		{"explicit length", map[string]any{"days": 3}, http.StatusOK, 3},
		{"zero is rejected", map[string]any{"days": 0}, http.StatusBadRequest, 0},
		{"negative is rejected", map[string]any{"days": -2}, http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := time.Now().UTC()
			rec := do(t, h, http.MethodPost, path, tt.body)
			require.Equal(t, tt.status, rec.Code, rec.Body.String())
			out := decode(t, rec)
			if tt.status != http.StatusOK {
				assert.Equal(t, "validation", out["code"])
				return
			}
			assert.Equal(t, true, out["is_paused"])
			until, err := time.Parse(time.RFC3339Nano, out["paused_until"].(string))
			require.NoError(t, err)
			assert.WithinDuration(t, before.AddDate(0, 0, tt.days), until, time.Minute)
		})
	}
}

func TestNotFoundAndBadIDs(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/subscriptions/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "not_found", decode(t, rec)["code"])

	rec = do(t, h, http.MethodGet, "/api/subscriptions/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// no payment on record
	rec = do(t, h, http.MethodPost, "/api/subscriptions/"+uuid.NewString()+"/toggle-delivery", map[string]any{"date": "2026-04-02"})
	assert.Equal(t, http.StatusConflict, rec.Code, rec.Body.String())

	rec = do(t, h, http.MethodPost, "/api/subscriptions/"+uuid.NewString()+"/toggle-delivery", map[string]any{"date": "02/04/2026"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCalendar_RangeTooLong(t *testing.T) {
	h := newTestServer(t)
	subID, _ := createSubscription(t, h)

	rec := do(t, h, http.MethodGet, "/api/subscriptions/"+subID+"/calendar?from=2026-01-01&to=2027-06-01", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, rec.Body.String())
}

func TestYearCalendar(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/calendar/structured/2026", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out := decode(t, rec)
	months := out["months"].([]any)
	require.Len(t, months, 12)

	january := months[0].(map[string]any)
	assert.Equal(t, "January", january["name"])
	firstWeek := january["weeks"].([]any)[0].([]any)
	// 1 January 2026 is a Thursday
	assert.Equal(t, []any{0.0, 0.0, 0.0, 1.0, 2.0, 3.0, 4.0}, firstWeek)

	rec = do(t, h, http.MethodGet, "/api/calendar/structured/year", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	rec = do(t, h, http.MethodGet, "/api/calendar/structured/0", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, h, http.MethodGet, "/api/calendar/text/2026", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	out = decode(t, rec)
	assert.Equal(t, 2026.0, out["year"])
	text := out["text"].(string)
	assert.True(t, strings.HasPrefix(text, strings.Repeat(" ", 45)+"2026\n"))
	assert.Equal(t, 4, strings.Count(text, "January")+strings.Count(text, "April")+strings.Count(text, "July")+strings.Count(text, "October"))

	rec = do(t, h, http.MethodGet, "/api/calendar/text/year", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCatalog(t *testing.T) {
	h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/api/catalog/newspapers", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["newspapers"], 8)

	rec = do(t, h, http.MethodGet, "/api/catalog/milk", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode(t, rec)["milk"], 8)

	filters := []struct {
		path  string
		count int
	}{
		{"/api/catalog/newspapers/language/Marathi", 5},
		{"/api/catalog/newspapers/language/english", 3},
		{"/api/catalog/newspapers/genre/Business", 1},
		{"/api/catalog/newspapers/genre/Sports", 0},
		{"/api/catalog/newspapers?language=English&genre=General", 2},
	}
	for _, f := range filters {
		rec = do(t, h, http.MethodGet, f.path, nil)
		require.Equal(t, http.StatusOK, rec.Code, f.path)
		assert.Len(t, decode(t, rec)["newspapers"], f.count, f.path)
	}
}
