package payment

import (
	"context"
	"strings"

	razorpay "github.com/razorpay/razorpay-go"
)

// RazorpayGateway uses Razorpay payment links as the hosted checkout.
type RazorpayGateway struct {
	client    *razorpay.Client
	currency  string
	redirects RedirectURLs
}

func NewRazorpayGateway(keyID, keySecret, currency, clientDomain string) *RazorpayGateway {
	return &RazorpayGateway{
		client:    razorpay.NewClient(keyID, keySecret),
		currency:  strings.ToUpper(currency),
		redirects: ClientRedirects(clientDomain, ""),
	}
}

func (g *RazorpayGateway) CreateSession(_ context.Context, req CheckoutRequest) (*Session, error) {
	data := map[string]interface{}{
		"amount":          minorUnits(req.Price),
		"currency":        g.currency,
		"description":     req.PackageName,
		"customer":        map[string]interface{}{"email": req.Email},
		"notify":          map[string]interface{}{"email": true},
		"notes":           metadata(req),
		"callback_url":    g.redirects.Success,
		"callback_method": "get",
	}

	link, err := g.client.PaymentLink.Create(data, nil)
	if err != nil {
		return nil, err
	}
	return fromPaymentLink(link), nil
}

func (g *RazorpayGateway) GetSession(_ context.Context, id string) (*Session, error) {
	link, err := g.client.PaymentLink.Fetch(id, nil, nil)
	if err != nil {
		return nil, err
	}
	return fromPaymentLink(link), nil
}

// fromPaymentLink maps a payment link response. The transaction id is the
// first captured payment, or the link id while nothing has been paid.
func fromPaymentLink(link map[string]interface{}) *Session {
	s := &Session{
		ID:            stringField(link, "id"),
		URL:           stringField(link, "short_url"),
		AmountTotal:   int64Field(link, "amount"),
		PaymentStatus: stringField(link, "status"),
		Metadata:      map[string]string{},
	}

	if customer, ok := link["customer"].(map[string]interface{}); ok {
		s.CustomerEmail = stringField(customer, "email")
	}

	if notes, ok := link["notes"].(map[string]interface{}); ok {
		for k, v := range notes {
			if str, ok := v.(string); ok {
				s.Metadata[k] = str
			}
		}
	}

	s.TransactionID = s.ID
	if payments, ok := link["payments"].([]interface{}); ok && len(payments) > 0 {
		if p, ok := payments[0].(map[string]interface{}); ok {
			if id := stringField(p, "payment_id"); id != "" {
				s.TransactionID = id
			}
		}
	}
	return s
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return s
}

func int64Field(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	case int:
		return int64(v)
	}
	return 0
}
