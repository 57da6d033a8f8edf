// handlers/collections.go
package handlers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"assetverse/models"
)

// Per-collection access the handlers need. The repository types satisfy
// these; tests use in-memory fakes.

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, u *models.User) (primitive.ObjectID, error)
	Update(ctx context.Context, email string, set bson.M) (*mongo.UpdateResult, error)
}

type AssetStore interface {
	Page(ctx context.Context, hrEmail string, req models.PageRequest) ([]models.Asset, int64, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Asset, error)
	Insert(ctx context.Context, a *models.Asset) (primitive.ObjectID, error)
	Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*mongo.UpdateResult, error)
	Delete(ctx context.Context, id primitive.ObjectID) (int64, error)
	CountByType(ctx context.Context, hrEmail string) (map[string]int64, error)
}

type RequestStore interface {
	Insert(ctx context.Context, req *models.AssetRequest) (primitive.ObjectID, error)
	List(ctx context.Context, f models.RequestFilter) ([]models.AssetRequest, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AssetRequest, error)
	Approve(ctx context.Context, id primitive.ObjectID, at time.Time) (*mongo.UpdateResult, error)
	Reject(ctx context.Context, id primitive.ObjectID, at time.Time) (*mongo.UpdateResult, error)
	MarkAssigned(ctx context.Context, id primitive.ObjectID, hrEmail string, at time.Time) (*mongo.UpdateResult, error)
	TopAssets(ctx context.Context, n int) ([]models.AssetPopularity, error)
}

type PackageStore interface {
	List(ctx context.Context) ([]models.Package, error)
}

type PaymentStore interface {
	Insert(ctx context.Context, p *models.Payment) (primitive.ObjectID, error)
	RecordOnce(ctx context.Context, p *models.Payment) (*models.Payment, bool, error)
	ListByHR(ctx context.Context, hrEmail string) ([]models.Payment, error)
}

type AffiliationStore interface {
	EnsureActive(ctx context.Context, key models.AffiliationKey, a *models.EmployeeAffiliation) (bool, error)
	ActiveForEmployee(ctx context.Context, email string) ([]models.EmployeeAffiliation, error)
	InScope(ctx context.Context, scope models.TeamScope) ([]models.EmployeeAffiliation, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.EmployeeAffiliation, error)
	Remove(ctx context.Context, id primitive.ObjectID, at time.Time) (*mongo.UpdateResult, error)
}

type AssignedAssetStore interface {
	ListByEmployee(ctx context.Context, email string) ([]models.AssignedAsset, error)
	CountByEmployee(ctx context.Context, email string) (int64, error)
	Assign(ctx context.Context, a *models.AssignedAsset) (bool, error)
	Return(ctx context.Context, id primitive.ObjectID, at time.Time) (*mongo.UpdateResult, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.AssignedAsset, error)
}

// Transactor groups writes that span collections.
type Transactor interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type Pinger interface {
	Ping(ctx context.Context) error
}

type directTx struct{}

func (directTx) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
