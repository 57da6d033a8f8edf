package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RequestPending  = "pending"
	RequestApproved = "approved"
	RequestRejected = "rejected"
)

// AssetRequest is an employee's ask for one asset. Its status only ever moves
// out of pending; approved and rejected are terminal.
type AssetRequest struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	AssetID        string             `bson:"assetId" json:"assetId"`
	AssetName      string             `bson:"assetName" json:"assetName"`
	AssetType      string             `bson:"assetType" json:"assetType"`
	AssetImage     string             `bson:"assetImage" json:"assetImage"`
	RequesterEmail string             `bson:"requesterEmail" json:"requesterEmail"`
	RequesterName  string             `bson:"requesterName" json:"requesterName"`
	EmployeeImage  string             `bson:"employeeImage" json:"employeeImage"`
	HREmail        string             `bson:"hrEmail" json:"hrEmail"`
	CompanyName    string             `bson:"companyName" json:"companyName"`
	Role           string             `bson:"role,omitempty" json:"role,omitempty"`
	Note           string             `bson:"note,omitempty" json:"note,omitempty"`
	RequestStatus  string             `bson:"requestStatus" json:"requestStatus"`
	RequestDate    time.Time          `bson:"requestDate" json:"requestDate"`
	ApprovedAt     *time.Time         `bson:"approvedAt,omitempty" json:"approvedAt,omitempty"`
	ApprovalDate   *time.Time         `bson:"approvalDate,omitempty" json:"approvalDate,omitempty"`
	RejectedDate   *time.Time         `bson:"rejectedDate,omitempty" json:"rejectedDate,omitempty"`
	ProcessedBy    string             `bson:"processedBy,omitempty" json:"processedBy,omitempty"`
}

func (r *AssetRequest) Validate() error {
	return requireFields(
		str("assetId", r.AssetID),
		str("assetName", r.AssetName),
		str("assetType", r.AssetType),
		str("requesterEmail", r.RequesterEmail),
		str("requesterName", r.RequesterName),
		str("hrEmail", r.HREmail),
		str("companyName", r.CompanyName),
		str("employeeImage", r.EmployeeImage),
	)
}

// ResolveImage keeps a client-supplied asset image, otherwise falls back to
// the referenced asset's product image, otherwise "".
func (r *AssetRequest) ResolveImage(asset *Asset) {
	if r.AssetImage != "" {
		return
	}
	if asset != nil {
		r.AssetImage = asset.ProductImage
	}
}

// Affiliation builds the active team membership an approval grants.
func (r *AssetRequest) Affiliation(now time.Time) EmployeeAffiliation {
	role := r.Role
	if role == "" {
		role = RoleEmployee
	}
	return EmployeeAffiliation{
		EmployeeEmail: r.RequesterEmail,
		EmployeeName:  r.RequesterName,
		EmployeeImage: r.EmployeeImage,
		HREmail:       r.HREmail,
		Role:          role,
		CompanyName:   r.CompanyName,
		Status:        AffiliationActive,
		JoinedAt:      now,
	}
}

// RequestFilter narrows request listings; empty fields do not filter.
type RequestFilter struct {
	HREmail        string
	RequesterEmail string
}
