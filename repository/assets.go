package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"assetverse/models"
)

type AssetRepository struct {
	coll *mongo.Collection
}

// Page returns one page of assets, newest first, and the total matching count.
func (r *AssetRepository) Page(ctx context.Context, hrEmail string, req models.PageRequest) ([]models.Asset, int64, error) {
	filter := bson.M{}
	if hrEmail != "" {
		filter["hrEmail"] = hrEmail
	}

	total, err := r.coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "_id", Value: -1}}).
		SetSkip(req.Skip()).
		SetLimit(req.Limit)

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var assets []models.Asset
	if err := cursor.All(ctx, &assets); err != nil {
		return nil, 0, err
	}
	return assets, total, nil
}

func (r *AssetRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Asset, error) {
	var a models.Asset
	if err := decodeOne(r.coll.FindOne(ctx, bson.M{"_id": id}), &a); err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *AssetRepository) Insert(ctx context.Context, a *models.Asset) (primitive.ObjectID, error) {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	res, err := r.coll.InsertOne(ctx, a)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedID(res), nil
}

func (r *AssetRepository) Update(ctx context.Context, id primitive.ObjectID, set bson.M) (*mongo.UpdateResult, error) {
	return r.coll.UpdateOne(ctx, bson.M{"_id": id}, bson.M{"$set": set})
}

func (r *AssetRepository) Delete(ctx context.Context, id primitive.ObjectID) (int64, error) {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

// CountByType groups assets by productType.
func (r *AssetRepository) CountByType(ctx context.Context, hrEmail string) (map[string]int64, error) {
	pipeline := mongo.Pipeline{}
	if hrEmail != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{"hrEmail": hrEmail}}})
	}
	pipeline = append(pipeline, bson.D{{Key: "$group", Value: bson.M{
		"_id":   "$productType",
		"count": bson.M{"$sum": 1},
	}}})

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var rows []struct {
		Type  string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &rows); err != nil {
		return nil, err
	}

	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.Type] = row.Count
	}
	return counts, nil
}
