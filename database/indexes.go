package database

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"assetverse/repository"
)

// indexes per collection. transactionId is not unique: manually recorded
// payments are allowed to repeat a transaction id.
var indexes = map[string][]mongo.IndexModel{
	repository.UsersCollection: {
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	},
	repository.RequestsCollection: {
		{Keys: bson.D{{Key: "requestDate", Value: -1}}},
		{Keys: bson.D{{Key: "hrEmail", Value: 1}}},
	},
	repository.AffiliationsCollection: {
		{Keys: bson.D{{Key: "employeeEmail", Value: 1}, {Key: "hrEmail", Value: 1}, {Key: "companyName", Value: 1}}},
		{Keys: bson.D{{Key: "hrEmail", Value: 1}, {Key: "status", Value: 1}}},
	},
	repository.AssignedAssetsCollection: {
		{Keys: bson.D{{Key: "employeeEmail", Value: 1}}},
		{Keys: bson.D{{Key: "requestId", Value: 1}}},
	},
	repository.PaymentsCollection: {
		{Keys: bson.D{{Key: "transactionId", Value: 1}}},
		{Keys: bson.D{{Key: "hrEmail", Value: 1}, {Key: "paymentDate", Value: -1}}},
	},
}

func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	for coll, models := range indexes {
		if _, err := db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", coll, err)
		}
	}
	return nil
}
