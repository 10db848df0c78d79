package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/faciam-dev/gridbase/internal/domain"
)

// StorageRepo stores uploaded-file metadata. Storage is the one entity that
// is hard-deleted.
type StorageRepo struct {
	c *mongo.Collection
}

func (r *StorageRepo) Create(ctx context.Context, o *domain.StorageObject) error {
	o.ID = primitive.NewObjectID()
	o.CreatedAt = now()
	_, err := r.c.InsertOne(ctx, o)
	return wrapWriteErr(err)
}

func (r *StorageRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.StorageObject, error) {
	var o domain.StorageObject
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&o); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &o, nil
}

func (r *StorageRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := r.c.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
