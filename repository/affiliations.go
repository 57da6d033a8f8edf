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

type AffiliationRepository struct {
	coll *mongo.Collection
}

// EnsureActive inserts a unless an active affiliation already matches key.
// The check and the insert are one upsert, so repeating it is harmless.
func (r *AffiliationRepository) EnsureActive(ctx context.Context, key models.AffiliationKey, a *models.EmployeeAffiliation) (bool, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}

	res, err := r.coll.UpdateOne(ctx,
		key.Filter(),
		bson.M{"$setOnInsert": a},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return false, err
	}
	return res.UpsertedCount > 0, nil
}

func (r *AffiliationRepository) ActiveForEmployee(ctx context.Context, email string) ([]models.EmployeeAffiliation, error) {
	return r.find(ctx, bson.M{"employeeEmail": email, "status": models.AffiliationActive})
}

func (r *AffiliationRepository) InScope(ctx context.Context, scope models.TeamScope) ([]models.EmployeeAffiliation, error) {
	return r.find(ctx, scope.Filter())
}

func (r *AffiliationRepository) find(ctx context.Context, filter bson.M) ([]models.EmployeeAffiliation, error) {
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "joinedAt", Value: 1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.EmployeeAffiliation
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Remove marks an active affiliation removed. The document is kept so the
// membership history survives.
func (r *AffiliationRepository) Remove(ctx context.Context, id primitive.ObjectID, at time.Time) (*mongo.UpdateResult, error) {
	return r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": models.AffiliationActive},
		bson.M{"$set": bson.M{"status": models.AffiliationRemoved, "removedAt": at}},
	)
}

func (r *AffiliationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.EmployeeAffiliation, error) {
	var a models.EmployeeAffiliation
	if err := decodeOne(r.coll.FindOne(ctx, bson.M{"_id": id}), &a); err != nil {
		return nil, err
	}
	return &a, nil
}
