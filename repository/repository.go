// Package repository holds the MongoDB access for every collection the API
// touches. Handlers depend on small interfaces; the types here satisfy them.
package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/zap"
)

var ErrNotFound = errors.New("document not found")

// Collection names.
const (
	UsersCollection          = "users"
	AssetsCollection         = "assets"
	RequestsCollection       = "requests"
	PackagesCollection       = "packages"
	PaymentsCollection       = "payments"
	AffiliationsCollection   = "employeeAffiliations"
	AssignedAssetsCollection = "assignedAssets"
)

// Store bundles the per-collection repositories over one database handle.
type Store struct {
	client *mongo.Client
	useTx  bool
	logger *zap.Logger

	Users          *UserRepository
	Assets         *AssetRepository
	Requests       *RequestRepository
	Packages       *PackageRepository
	Payments       *PaymentRepository
	Affiliations   *AffiliationRepository
	AssignedAssets *AssignedAssetRepository
}

func New(client *mongo.Client, dbName string, useTx bool, logger *zap.Logger) *Store {
	db := client.Database(dbName)
	return &Store{
		client:         client,
		useTx:          useTx,
		logger:         logger.Named("store"),
		Users:          &UserRepository{coll: db.Collection(UsersCollection)},
		Assets:         &AssetRepository{coll: db.Collection(AssetsCollection)},
		Requests:       &RequestRepository{coll: db.Collection(RequestsCollection)},
		Packages:       &PackageRepository{coll: db.Collection(PackagesCollection)},
		Payments:       &PaymentRepository{coll: db.Collection(PaymentsCollection)},
		Affiliations:   &AffiliationRepository{coll: db.Collection(AffiliationsCollection)},
		AssignedAssets: &AssignedAssetRepository{coll: db.Collection(AssignedAssetsCollection)},
	}
}

// WithTransaction runs fn inside a multi-document transaction when
// transactions are enabled (they need a replica set). Otherwise fn runs
// directly and its writes are independent.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if !s.useTx {
		return fn(ctx)
	}

	sess, err := s.client.StartSession()
	if err != nil {
		return fmt.Errorf("start session: %w", err)
	}
	defer sess.EndSession(ctx)

	_, err = sess.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return nil, fn(sc)
	})
	if err != nil {
		s.logger.Warn("transaction aborted", zap.Error(err))
	}
	return err
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func insertedID(res *mongo.InsertOneResult) primitive.ObjectID {
	if id, ok := res.InsertedID.(primitive.ObjectID); ok {
		return id
	}
	return primitive.NilObjectID
}

func decodeOne(res *mongo.SingleResult, v interface{}) error {
	if err := res.Decode(v); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrNotFound
		}
		return err
	}
	return nil
}
