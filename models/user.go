package models

import (
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleHR       = "hr"
	RoleEmployee = "employee"
	// RoleAdmin is stored as given. It carries no HR privileges.
	RoleAdmin = "admin"
)

var errRole = fmt.Errorf("role must be one of %q, %q or %q", RoleHR, RoleEmployee, RoleAdmin)

func validRole(role string) bool {
	return role == RoleHR || role == RoleEmployee || role == RoleAdmin
}

type User struct {
	ID               primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name             string             `bson:"name,omitempty" json:"name,omitempty"`
	Email            string             `bson:"email" json:"email"`
	Role             string             `bson:"role" json:"role"`
	PhotoURL         string             `bson:"photoURL,omitempty" json:"photoURL,omitempty"`
	DateOfBirth      string             `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	Position         string             `bson:"position,omitempty" json:"position,omitempty"`
	CompanyName      string             `bson:"companyName,omitempty" json:"companyName,omitempty"`
	CompanyLogo      string             `bson:"companyLogo,omitempty" json:"companyLogo,omitempty"`
	PackageLimit     Quantity           `bson:"packageLimit,omitempty" json:"packageLimit,omitempty"`
	CurrentEmployees Quantity           `bson:"currentEmployees,omitempty" json:"currentEmployees,omitempty"`
	Subscription     string             `bson:"subscription,omitempty" json:"subscription,omitempty"`
	CreatedAt        time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt        *time.Time         `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) Validate() error {
	if err := requireFields(str("email", u.Email), str("role", u.Role)); err != nil {
		return err
	}
	if !validRole(u.Role) {
		return errRole
	}
	return nil
}

// UserPatch is the set of profile fields a client may change. Email is
// deliberately absent: a user's email never changes once stored.
type UserPatch struct {
	Name             *string   `json:"name"`
	Role             *string   `json:"role"`
	PhotoURL         *string   `json:"photoURL"`
	DateOfBirth      *string   `json:"dateOfBirth"`
	Position         *string   `json:"position"`
	CompanyName      *string   `json:"companyName"`
	CompanyLogo      *string   `json:"companyLogo"`
	PackageLimit     *Quantity `json:"packageLimit"`
	CurrentEmployees *Quantity `json:"currentEmployees"`
	Subscription     *string   `json:"subscription"`
}

func (p *UserPatch) Validate() error {
	if p.Role != nil && !validRole(*p.Role) {
		return errRole
	}
	return nil
}

// Fields returns the $set document for the supplied fields only.
func (p *UserPatch) Fields() bson.M {
	set := bson.M{}
	setString(set, "name", p.Name)
	setString(set, "role", p.Role)
	setString(set, "photoURL", p.PhotoURL)
	setString(set, "dateOfBirth", p.DateOfBirth)
	setString(set, "position", p.Position)
	setString(set, "companyName", p.CompanyName)
	setString(set, "companyLogo", p.CompanyLogo)
	setQuantity(set, "packageLimit", p.PackageLimit)
	setQuantity(set, "currentEmployees", p.CurrentEmployees)
	setString(set, "subscription", p.Subscription)
	return set
}

func setString(set bson.M, key string, v *string) {
	if v != nil {
		set[key] = *v
	}
}

func setQuantity(set bson.M, key string, v *Quantity) {
	if v != nil {
		set[key] = int(*v)
	}
}
