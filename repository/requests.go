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

type RequestRepository struct {
	coll *mongo.Collection
}

func (r *RequestRepository) Insert(ctx context.Context, req *models.AssetRequest) (primitive.ObjectID, error) {
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	res, err := r.coll.InsertOne(ctx, req)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedID(res), nil
}

func (r *RequestRepository) List(ctx context.Context, f models.RequestFilter) ([]models.AssetRequest, error) {
	filter := bson.M{}
	if f.HREmail != "" {
		filter["hrEmail"] = f.HREmail
	}
	if f.RequesterEmail != "" {
		filter["requesterEmail"] = f.RequesterEmail
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "requestDate", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.AssetRequest
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RequestRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.AssetRequest, error) {
	var req models.AssetRequest
	if err := decodeOne(r.coll.FindOne(ctx, bson.M{"_id": id}), &req); err != nil {
		return nil, err
	}
	return &req, nil
}

// Approve moves a pending request to approved. A request in any other state is
// left untouched and MatchedCount is 0.
func (r *RequestRepository) Approve(ctx context.Context, id primitive.ObjectID, at time.Time) (*mongo.UpdateResult, error) {
	return r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "requestStatus": models.RequestPending},
		bson.M{"$set": bson.M{"requestStatus": models.RequestApproved, "approvedAt": at}},
	)
}

func (r *RequestRepository) Reject(ctx context.Context, id primitive.ObjectID, at time.Time) (*mongo.UpdateResult, error) {
	return r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "requestStatus": models.RequestPending},
		bson.M{"$set": bson.M{"requestStatus": models.RequestRejected, "rejectedDate": at}},
	)
}

// MarkAssigned approves a request through the direct-assignment path and
// stamps who processed it. Rejected requests are never revived.
func (r *RequestRepository) MarkAssigned(ctx context.Context, id primitive.ObjectID, hrEmail string, at time.Time) (*mongo.UpdateResult, error) {
	return r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "requestStatus": bson.M{"$ne": models.RequestRejected}},
		bson.M{"$set": bson.M{
			"requestStatus": models.RequestApproved,
			"approvalDate":  at,
			"processedBy":   hrEmail,
		}},
	)
}

// TopAssets counts requests per asset name and returns the n most requested.
func (r *RequestRepository) TopAssets(ctx context.Context, n int) ([]models.AssetPopularity, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.M{"_id": "$assetName", "requests": bson.M{"$sum": 1}}}},
		{{Key: "$sort", Value: bson.D{{Key: "requests", Value: -1}, {Key: "_id", Value: 1}}}},
		{{Key: "$limit", Value: n}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.AssetPopularity
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
