package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Payment struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	HREmail       string             `bson:"hrEmail" json:"hrEmail"`
	PackageName   string             `bson:"packageName" json:"packageName"`
	EmployeeLimit Quantity           `bson:"employeeLimit" json:"employeeLimit"`
	Amount        float64            `bson:"amount" json:"amount"`
	TransactionID string             `bson:"transactionId" json:"transactionId"`
	PaymentDate   time.Time          `bson:"paymentDate" json:"paymentDate"`
	Status        string             `bson:"status" json:"status"`
}

func (p *Payment) Validate() error {
	return requireFields(
		str("hrEmail", p.HREmail),
		str("packageName", p.PackageName),
		num("employeeLimit", p.EmployeeLimit),
		field{"amount", p.Amount != 0},
		str("transactionId", p.TransactionID),
		str("status", p.Status),
	)
}

// CheckoutRequest is what a client sends to start a hosted checkout.
type CheckoutRequest struct {
	Email         string   `json:"email"`
	PackageName   string   `json:"packageName"`
	Price         float64  `json:"price"`
	EmployeeLimit Quantity `json:"employeeLimit"`
}

func (c *CheckoutRequest) Validate() error {
	return requireFields(
		str("email", c.Email),
		str("packageName", c.PackageName),
		field{"price", c.Price > 0},
		num("employeeLimit", c.EmployeeLimit),
	)
}
