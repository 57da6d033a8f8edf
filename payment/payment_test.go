package payment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stripe/stripe-go/v76"
)

func TestClientRedirects(t *testing.T) {
	r := ClientRedirects("https://app.example.com/", "{CHECKOUT_SESSION_ID}")
	assert.Equal(t, "https://app.example.com/dashboard/payment-success?session_id={CHECKOUT_SESSION_ID}", r.Success)
	assert.Equal(t, "https://app.example.com/dashboard/payment-cancel", r.Cancel)

	assert.Equal(t, "https://app.example.com/dashboard/payment-success", ClientRedirects("https://app.example.com", "").Success)
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(500), minorUnits(5))
	assert.Equal(t, int64(1999), minorUnits(19.99))
}

func TestFromStripe(t *testing.T) {
	s := fromStripe(&stripe.CheckoutSession{
		ID:            "cs_test_1",
		URL:           "https://checkout.stripe.com/c/pay/cs_test_1",
		CustomerEmail: "hr@x.com",
		Metadata:      map[string]string{MetaPackageName: "Standard", MetaEmployeeLimit: "10"},
		AmountTotal:   800,
		PaymentIntent: &stripe.PaymentIntent{ID: "pi_123"},
		PaymentStatus: stripe.CheckoutSessionPaymentStatusPaid,
	})

	assert.Equal(t, "pi_123", s.TransactionID)
	assert.Equal(t, "Standard", s.PackageName())
	assert.Equal(t, 10, s.EmployeeLimit())
	assert.Equal(t, int64(800), s.AmountTotal)
	assert.Equal(t, "paid", s.PaymentStatus)
}

func TestFromStripeFallsBackToCustomerDetails(t *testing.T) {
	s := fromStripe(&stripe.CheckoutSession{
		ID:              "cs_test_2",
		CustomerDetails: &stripe.CheckoutSessionCustomerDetails{Email: "buyer@x.com"},
	})
	assert.Equal(t, "buyer@x.com", s.CustomerEmail)
	assert.Empty(t, s.TransactionID)
	assert.NotNil(t, s.Metadata)
}

func TestFromPaymentLink(t *testing.T) {
	s := fromPaymentLink(map[string]interface{}{
		"id":        "plink_1",
		"short_url": "https://rzp.io/i/abc",
		"amount":    float64(1500),
		"status":    "paid",
		"customer":  map[string]interface{}{"email": "hr@x.com"},
		"notes":     map[string]interface{}{MetaPackageName: "Premium", MetaEmployeeLimit: "20"},
		"payments":  []interface{}{map[string]interface{}{"payment_id": "pay_9"}},
	})

	assert.Equal(t, "plink_1", s.ID)
	assert.Equal(t, "https://rzp.io/i/abc", s.URL)
	assert.Equal(t, "pay_9", s.TransactionID)
	assert.Equal(t, "hr@x.com", s.CustomerEmail)
	assert.Equal(t, int64(1500), s.AmountTotal)
	assert.Equal(t, "Premium", s.PackageName())
	assert.Equal(t, 20, s.EmployeeLimit())
}

func TestFromPaymentLinkUnpaid(t *testing.T) {
	s := fromPaymentLink(map[string]interface{}{"id": "plink_2", "status": "created", "payments": nil})
	assert.Equal(t, "plink_2", s.TransactionID)
}

func TestNewGatewayValidation(t *testing.T) {
	_, err := New("stripe", Options{})
	assert.Error(t, err)

	_, err = New("razorpay", Options{RazorpayKeyID: "id"})
	assert.Error(t, err)

	_, err = New("paypal", Options{})
	assert.Error(t, err)

	g, err := New("stripe", Options{StripeSecret: "sk_test_x", Currency: "usd", ClientDomain: "http://localhost"})
	assert.NoError(t, err)
	assert.IsType(t, &StripeGateway{}, g)
}
