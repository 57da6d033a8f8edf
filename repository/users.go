package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"assetverse/models"
)

type UserRepository struct {
	coll *mongo.Collection
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := decodeOne(r.coll.FindOne(ctx, bson.M{"email": email}), &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) Insert(ctx context.Context, u *models.User) (primitive.ObjectID, error) {
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	res, err := r.coll.InsertOne(ctx, u)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedID(res), nil
}

func (r *UserRepository) Update(ctx context.Context, email string, set bson.M) (*mongo.UpdateResult, error) {
	return r.coll.UpdateOne(ctx, bson.M{"email": email}, bson.M{"$set": set})
}
