package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"assetverse/models"
)

type PaymentRepository struct {
	coll *mongo.Collection
}

func (r *PaymentRepository) Insert(ctx context.Context, p *models.Payment) (primitive.ObjectID, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}
	res, err := r.coll.InsertOne(ctx, p)
	if err != nil {
		return primitive.NilObjectID, err
	}
	return insertedID(res), nil
}

// RecordOnce stores p unless a payment with the same transactionId already
// exists, in one upsert. It returns the stored document and whether this
// call created it.
func (r *PaymentRepository) RecordOnce(ctx context.Context, p *models.Payment) (*models.Payment, bool, error) {
	if p.ID.IsZero() {
		p.ID = primitive.NewObjectID()
	}

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"transactionId": p.TransactionID},
		bson.M{"$setOnInsert": p},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return nil, false, err
	}
	if res.UpsertedCount > 0 {
		return p, true, nil
	}

	var existing models.Payment
	if err := decodeOne(r.coll.FindOne(ctx, bson.M{"transactionId": p.TransactionID}), &existing); err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *PaymentRepository) ListByHR(ctx context.Context, hrEmail string) ([]models.Payment, error) {
	cursor, err := r.coll.Find(ctx, bson.M{"hrEmail": hrEmail}, options.Find().SetSort(bson.D{{Key: "paymentDate", Value: -1}}))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []models.Payment
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}
