// Package payment talks to the hosted-checkout provider. Card data never
// reaches this service; it only creates sessions and reads them back.
package payment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

const (
	MetaPackageName   = "packageName"
	MetaEmployeeLimit = "employeeLimit"
)

// CheckoutRequest describes one package purchase.
type CheckoutRequest struct {
	Email         string
	PackageName   string
	Price         float64
	EmployeeLimit int
}

// Session is the provider-neutral view of a hosted checkout.
type Session struct {
	ID            string
	URL           string
	CustomerEmail string
	Metadata      map[string]string
	AmountTotal   int64
	TransactionID string
	PaymentStatus string
}

func (s *Session) PackageName() string {
	return s.Metadata[MetaPackageName]
}

func (s *Session) EmployeeLimit() int {
	n, _ := strconv.Atoi(s.Metadata[MetaEmployeeLimit])
	return n
}

type Gateway interface {
	CreateSession(ctx context.Context, req CheckoutRequest) (*Session, error)
	GetSession(ctx context.Context, id string) (*Session, error)
}

// RedirectURLs are where the provider sends the browser after checkout.
type RedirectURLs struct {
	Success string
	Cancel  string
}

// ClientRedirects builds the dashboard redirect URLs under the client's base URL.
// sessionParam is the provider's placeholder for the session id, if any.
func ClientRedirects(clientDomain, sessionParam string) RedirectURLs {
	base := strings.TrimRight(clientDomain, "/")
	success := base + "/dashboard/payment-success"
	if sessionParam != "" {
		success += "?session_id=" + sessionParam
	}
	return RedirectURLs{
		Success: success,
		Cancel:  base + "/dashboard/payment-cancel",
	}
}

// minorUnits converts a price in major currency units to cents/paise.
func minorUnits(price float64) int64 {
	return int64(price*100 + 0.5)
}

func metadata(req CheckoutRequest) map[string]string {
	return map[string]string{
		MetaPackageName:   req.PackageName,
		MetaEmployeeLimit: strconv.Itoa(req.EmployeeLimit),
	}
}

// New returns the gateway for provider ("stripe" or "razorpay").
func New(provider string, opts Options) (Gateway, error) {
	switch provider {
	case "", "stripe":
		if opts.StripeSecret == "" {
			return nil, fmt.Errorf("stripe secret is required")
		}
		return NewStripeGateway(opts.StripeSecret, opts.Currency, opts.ClientDomain), nil
	case "razorpay":
		if opts.RazorpayKeyID == "" || opts.RazorpayKeySecret == "" {
			return nil, fmt.Errorf("razorpay key id and secret are required")
		}
		return NewRazorpayGateway(opts.RazorpayKeyID, opts.RazorpayKeySecret, opts.Currency, opts.ClientDomain), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", provider)
	}
}

type Options struct {
	Currency          string
	ClientDomain      string
	StripeSecret      string
	RazorpayKeyID     string
	RazorpayKeySecret string
}
