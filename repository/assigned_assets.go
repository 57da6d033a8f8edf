package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"assetverse/models"
)

type AssignedAssetRepository struct {
	coll *mongo.Collection
}

func (r *AssignedAssetRepository) ListByEmployee(ctx context.Context, email string) ([]models.AssignedAsset, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"employeeEmail": email}, options.Find().SetSort(bson.D{{Key: "assignmentDate", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.AssignedAsset
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *AssignedAssetRepository) CountByEmployee(ctx context.Context, email string) (int64, error) {
	return r.coll.CountDocuments(ctx, bson.M{"employeeEmail": email})
}

// Assign stores a. When the assignment comes from a request it is keyed on
// requestId, so replaying the same assignment does not duplicate it.
func (r *AssignedAssetRepository) Assign(ctx context.Context, a *models.AssignedAsset) (bool, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}

	if a.RequestID == "" {
		_, err := r.coll.InsertOne(ctx, a)
		return err == nil, err
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"requestId": a.RequestID, "employeeEmail": a.EmployeeEmail},
		bson.M{"$setOnInsert": a},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

// Return flips an assigned Returnable asset to returned. Non-returnable or
// already returned assets do not match.
func (r *AssignedAssetRepository) Return(ctx context.Context, id primitive.ObjectID, at time.Time) (*mongo.UpdateResult, error) {
	return r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.AssignmentAssigned, "assetType": models.TypeReturnable},
		bson.M{"$set": bson.M{"status": models.AssignmentReturned, "returnDate": at}},
	)
}

func (r *AssignedAssetRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AssignedAsset, error) {
	var a models.AssignedAsset
	if err := decodeOne(r.coll.FindOne(ctx, bson.M{"_id": id}), &a); err != nil {
		return nil, err
	}
	return &a, nil
}
