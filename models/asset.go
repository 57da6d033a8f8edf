package models

import (
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	TypeReturnable    = "Returnable"
	TypeNonReturnable = "Non-returnable"
)

var errProductType = errors.New("productType must be Returnable or Non-returnable")

type Asset struct {
	ID                primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	ProductName       string             `bson:"productName" json:"productName"`
	ProductImage      string             `bson:"productImage" json:"productImage"`
	ProductType       string             `bson:"productType" json:"productType"`
	ProductQuantity   Quantity           `bson:"productQuantity" json:"productQuantity"`
	AvailableQuantity Quantity           `bson:"availableQuantity" json:"availableQuantity"`
	HREmail           string             `bson:"hrEmail" json:"hrEmail"`
	CompanyName       string             `bson:"companyName" json:"companyName"`
	DateAdded         time.Time          `bson:"dateAdded" json:"dateAdded"`
}

func (a *Asset) Validate() error {
	err := requireFields(
		str("productName", a.ProductName),
		str("productImage", a.ProductImage),
		str("productType", a.ProductType),
		num("productQuantity", a.ProductQuantity),
		str("hrEmail", a.HREmail),
		str("companyName", a.CompanyName),
	)
	if err != nil {
		return err
	}
	if !validProductType(a.ProductType) {
		return errProductType
	}
	return nil
}

// ApplyDefaults fills availableQuantity from productQuantity when the client
// left it out, and stamps dateAdded.
func (a *Asset) ApplyDefaults(now time.Time) {
	if a.AvailableQuantity == 0 {
		a.AvailableQuantity = a.ProductQuantity
	}
	a.DateAdded = now
}

func validProductType(t string) bool {
	return t == TypeReturnable || t == TypeNonReturnable
}

type AssetPatch struct {
	ProductName       *string   `json:"productName"`
	ProductImage      *string   `json:"productImage"`
	ProductType       *string   `json:"productType"`
	ProductQuantity   *Quantity `json:"productQuantity"`
	AvailableQuantity *Quantity `json:"availableQuantity"`
	CompanyName       *string   `json:"companyName"`
}

func (p *AssetPatch) Validate() error {
	if p.ProductType != nil && !validProductType(*p.ProductType) {
		return errProductType
	}
	return nil
}

func (p *AssetPatch) Fields() bson.M {
	set := bson.M{}
	setString(set, "productName", p.ProductName)
	setString(set, "productImage", p.ProductImage)
	setString(set, "productType", p.ProductType)
	setQuantity(set, "productQuantity", p.ProductQuantity)
	setQuantity(set, "availableQuantity", p.AvailableQuantity)
	setString(set, "companyName", p.CompanyName)
	return set
}
