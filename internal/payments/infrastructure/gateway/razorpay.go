package gateway

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Animesh0711/DailyEase/internal/payments/domain"
	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayConfig configures the redirect checkout gateway.
type RazorpayConfig struct {
	KeyID     string
	KeySecret string
}

// orderAPI and paymentAPI are the parts of the Razorpay client in use.
type orderAPI interface {
	Create(data map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

type paymentAPI interface {
	Fetch(paymentID string, queryParams map[string]interface{}, extraHeaders map[string]string) (map[string]interface{}, error)
}

// RazorpayGateway is the redirect gateway backed by Razorpay orders.
type RazorpayGateway struct {
	orders   orderAPI
	payments paymentAPI
	secret   string
	logger   *slog.Logger
}

// NewRazorpayGateway returns nil when the key pair is not configured.
func NewRazorpayGateway(cfg RazorpayConfig, logger *slog.Logger) *RazorpayGateway {
	if cfg.KeyID == "" || cfg.KeySecret == "" {
		return nil
	}
	if logger == nil {
		logger = slog.Default()
	}
	client := razorpay.NewClient(cfg.KeyID, cfg.KeySecret)
	return &RazorpayGateway{
		orders:   client.Order,
		payments: client.Payment,
		secret:   cfg.KeySecret,
		logger:   logger.With("gateway", "razorpay"),
	}
}

// CreateOrder creates an order for amount. receipt is our attempt id.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount pricingDomain.Money, receipt string) (domain.RedirectOrder, error) {
	const op = "create order"
	if err := ctx.Err(); err != nil {
		return domain.RedirectOrder{}, sharedDomain.Wrap(sharedDomain.KindGatewayUnavailable, op, err)
	}

	body, err := g.orders.Create(map[string]interface{}{
		"amount":   amount.Amount,
		"currency": strings.ToUpper(amount.Currency),
		"receipt":  receipt,
	}, nil)
	if err != nil {
		return domain.RedirectOrder{}, sharedDomain.Wrap(sharedDomain.KindGatewayUnavailable, op, err)
	}
	id, _ := body["id"].(string)
	if id == "" {
		return domain.RedirectOrder{}, sharedDomain.NewError(sharedDomain.KindGatewayUnavailable, op, "order response has no id")
	}
	g.logger.DebugContext(ctx, "order created", "order_id", id, "receipt", receipt)
	return domain.RedirectOrder{OrderID: id}, nil
}

// VerifySignature checks the checkout callback signature locally.
func (g *RazorpayGateway) VerifySignature(orderID, paymentID, signature string) bool {
	return VerifySignature(g.secret, orderID, paymentID, signature)
}

// PaymentAmount fetches what the payment actually charged.
func (g *RazorpayGateway) PaymentAmount(ctx context.Context, paymentID string) (pricingDomain.Money, error) {
	const op = "fetch payment"
	if err := ctx.Err(); err != nil {
		return pricingDomain.Money{}, sharedDomain.Wrap(sharedDomain.KindGatewayUnavailable, op, err)
	}

	body, err := g.payments.Fetch(paymentID, nil, nil)
	if err != nil {
		return pricingDomain.Money{}, sharedDomain.Wrap(sharedDomain.KindGatewayUnavailable, op, err)
	}
	return paymentAmountOf(body)
}

// paymentAmountOf reads the amount and currency from a decoded payment.
// JSON numbers decode as float64.
func paymentAmountOf(body map[string]interface{}) (pricingDomain.Money, error) {
	var amount int64
	switch v := body["amount"].(type) {
	case float64:
		amount = int64(v)
	case int64:
		amount = v
	case int:
		amount = int64(v)
	default:
		return pricingDomain.Money{}, sharedDomain.Wrap(sharedDomain.KindGatewayUnavailable, "fetch payment",
			fmt.Errorf("unexpected amount %T in payment response", body["amount"]))
	}
	currency, _ := body["currency"].(string)
	return pricingDomain.Money{Amount: amount, Currency: strings.ToUpper(currency)}, nil
}
