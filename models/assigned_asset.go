package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	AssignmentAssigned = "assigned"
	AssignmentReturned = "returned"
)

// AssignedAsset is one unit of inventory checked out to an employee. It only
// moves assigned -> returned, and only for Returnable assets.
type AssignedAsset struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	AssetID        string             `bson:"assetId" json:"assetId"`
	AssetName      string             `bson:"assetName" json:"assetName"`
	AssetType      string             `bson:"assetType" json:"assetType"`
	AssetImage     string             `bson:"assetImage" json:"assetImage"`
	EmployeeEmail  string             `bson:"employeeEmail" json:"employeeEmail"`
	EmployeeName   string             `bson:"employeeName,omitempty" json:"employeeName,omitempty"`
	EmployeeImage  string             `bson:"employeeImage,omitempty" json:"employeeImage,omitempty"`
	ProfileImage   string             `bson:"profileImage,omitempty" json:"profileImage,omitempty"`
	HREmail        string             `bson:"hrEmail,omitempty" json:"hrEmail,omitempty"`
	CompanyName    string             `bson:"companyName" json:"companyName"`
	Role           string             `bson:"role,omitempty" json:"role,omitempty"`
	RequestID      string             `bson:"requestId,omitempty" json:"requestId,omitempty"`
	RequestDate    *time.Time         `bson:"requestDate,omitempty" json:"requestDate,omitempty"`
	ApprovalDate   *time.Time         `bson:"approvalDate,omitempty" json:"approvalDate,omitempty"`
	AssignmentDate time.Time          `bson:"assignmentDate" json:"assignmentDate"`
	Status         string             `bson:"status" json:"status"`
	ReturnDate     *time.Time         `bson:"returnDate,omitempty" json:"returnDate,omitempty"`
}

func (a *AssignedAsset) Validate() error {
	return requireFields(
		str("assetId", a.AssetID),
		str("assetName", a.AssetName),
		str("employeeEmail", a.EmployeeEmail),
		str("companyName", a.CompanyName),
		str("hrEmail", a.HREmail),
	)
}

// Affiliation is the membership a direct assignment implies.
func (a *AssignedAsset) Affiliation(now time.Time) EmployeeAffiliation {
	return EmployeeAffiliation{
		EmployeeEmail: a.EmployeeEmail,
		EmployeeName:  a.EmployeeName,
		EmployeeImage: a.EmployeeImage,
		ProfileImage:  a.ProfileImage,
		HREmail:       a.HREmail,
		Role:          a.Role,
		CompanyName:   a.CompanyName,
		Status:        AffiliationActive,
		JoinedAt:      now,
	}
}

// AffiliationKey includes the role, matching how direct assignments were
// always deduplicated.
func (a *AssignedAsset) AffiliationKey() AffiliationKey {
	return AffiliationKey{
		EmployeeEmail: a.EmployeeEmail,
		HREmail:       a.HREmail,
		CompanyName:   a.CompanyName,
		Role:          a.Role,
	}
}
