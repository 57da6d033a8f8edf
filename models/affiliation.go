package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AffiliationActive  = "active"
	AffiliationRemoved = "removed"
)

// EmployeeAffiliation links an employee to an HR-owned company.
type EmployeeAffiliation struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	EmployeeEmail string             `bson:"employeeEmail" json:"employeeEmail"`
	EmployeeName  string             `bson:"employeeName,omitempty" json:"employeeName,omitempty"`
	EmployeeImage string             `bson:"employeeImage,omitempty" json:"employeeImage,omitempty"`
	ProfileImage  string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	Position      string             `bson:"position,omitempty" json:"position,omitempty"`
	DateOfBirth   string             `bson:"dateOfBirth,omitempty" json:"dateOfBirth,omitempty"`
	HREmail       string             `bson:"hrEmail" json:"hrEmail"`
	Role          string             `bson:"role,omitempty" json:"role,omitempty"`
	CompanyName   string             `bson:"companyName" json:"companyName"`
	CompanyLogo   string             `bson:"companyLogo,omitempty" json:"companyLogo,omitempty"`
	Status        string             `bson:"status" json:"status"`
	JoinedAt      time.Time          `bson:"joinedAt" json:"joinedAt"`
	RemovedAt     *time.Time         `bson:"removedAt,omitempty" json:"removedAt,omitempty"`
}

// Key is the identity an active affiliation is deduplicated on.
func (a *EmployeeAffiliation) Key() AffiliationKey {
	return AffiliationKey{
		EmployeeEmail: a.EmployeeEmail,
		HREmail:       a.HREmail,
		CompanyName:   a.CompanyName,
	}
}

// AffiliationKey identifies an active membership. Role is only part of the
// key when set.
type AffiliationKey struct {
	EmployeeEmail string
	HREmail       string
	CompanyName   string
	Role          string
}

func (k AffiliationKey) Filter() bson.M {
	f := bson.M{
		"employeeEmail": k.EmployeeEmail,
		"hrEmail":       k.HREmail,
		"companyName":   k.CompanyName,
		"status":        AffiliationActive,
	}
	if k.Role != "" {
		f["role"] = k.Role
	}
	return f
}

func (k AffiliationKey) Matches(a *EmployeeAffiliation) bool {
	if a.Status != AffiliationActive {
		return false
	}
	if k.Role != "" && a.Role != k.Role {
		return false
	}
	return a.EmployeeEmail == k.EmployeeEmail && a.HREmail == k.HREmail && a.CompanyName == k.CompanyName
}

// TeamScope is the set of active affiliations a caller is allowed to see:
// everything under their own HR account, or everyone in the companies they
// belong to.
type TeamScope struct {
	HREmail   string
	Companies []string
}

// ScopeFor derives a caller's team visibility from their role and their own
// active affiliations. It performs no I/O.
func ScopeFor(role, email string, own []EmployeeAffiliation) TeamScope {
	if role == RoleHR {
		return TeamScope{HREmail: email}
	}

	seen := make(map[string]bool, len(own))
	companies := make([]string, 0, len(own))
	for _, a := range own {
		if a.Status != AffiliationActive || a.EmployeeEmail != email || seen[a.CompanyName] {
			continue
		}
		seen[a.CompanyName] = true
		companies = append(companies, a.CompanyName)
	}
	return TeamScope{Companies: companies}
}

// Empty reports whether the scope can match nothing.
func (s TeamScope) Empty() bool {
	return s.HREmail == "" && len(s.Companies) == 0
}

func (s TeamScope) Filter() bson.M {
	if s.HREmail != "" {
		return bson.M{"hrEmail": s.HREmail, "status": AffiliationActive}
	}
	return bson.M{"companyName": bson.M{"$in": s.Companies}, "status": AffiliationActive}
}

func (s TeamScope) Matches(a *EmployeeAffiliation) bool {
	if a.Status != AffiliationActive {
		return false
	}
	if s.HREmail != "" {
		return a.HREmail == s.HREmail
	}
	for _, c := range s.Companies {
		if a.CompanyName == c {
			return true
		}
	}
	return false
}

// TeamMember is an affiliation enriched with the member's profile and a live
// count of their assigned assets.
type TeamMember struct {
	ID            primitive.ObjectID `json:"_id"`
	EmployeeName  string             `json:"employeeName"`
	EmployeeEmail string             `json:"employeeEmail"`
	EmployeeImage string             `json:"employeeImage"`
	Position      string             `json:"position"`
	DateOfBirth   *string            `json:"dateOfBirth"`
	JoinDate      *time.Time         `json:"joinDate"`
	CompanyName   string             `json:"companyName"`
	AssetsCount   int64              `json:"assetsCount"`
}

// NewTeamMember prefers values stored on the affiliation and falls back to
// the user's profile. user may be nil.
func NewTeamMember(a *EmployeeAffiliation, user *User, assets int64) TeamMember {
	m := TeamMember{
		ID:            a.ID,
		EmployeeName:  a.EmployeeName,
		EmployeeEmail: a.EmployeeEmail,
		EmployeeImage: a.EmployeeImage,
		Position:      a.Position,
		CompanyName:   a.CompanyName,
		AssetsCount:   assets,
	}
	if !a.JoinedAt.IsZero() {
		joined := a.JoinedAt
		m.JoinDate = &joined
	}
	dob := a.DateOfBirth

	if user != nil {
		if m.EmployeeName == "" {
			m.EmployeeName = user.Name
		}
		if m.EmployeeImage == "" {
			m.EmployeeImage = user.PhotoURL
		}
		if m.Position == "" {
			m.Position = user.Position
		}
		if dob == "" {
			dob = user.DateOfBirth
		}
		if m.JoinDate == nil && !user.CreatedAt.IsZero() {
			created := user.CreatedAt
			m.JoinDate = &created
		}
	}

	if m.Position == "" {
		m.Position = "Employee"
	}
	if dob != "" {
		m.DateOfBirth = &dob
	}
	return m
}
