package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/faciam-dev/gridbase/internal/domain"
)

// TableRepo stores table definitions.
type TableRepo struct {
	c *mongo.Collection
}

func (r *TableRepo) Create(ctx context.Context, t *domain.Table) error {
	t.ID = primitive.NewObjectID()
	t.CreatedAt = now()
	t.UpdatedAt = t.CreatedAt
	_, err := r.c.InsertOne(ctx, t)
	return wrapWriteErr(err)
}

// GetBySlug returns the non-trashed table with the given slug. Table-scoped
// routes go through here, which is what makes trashed tables unreachable.
func (r *TableRepo) GetBySlug(ctx context.Context, slug string) (*domain.Table, error) {
	filter := notTrashed()
	filter["slug"] = slug
	var t domain.Table
	if err := r.c.FindOne(ctx, filter).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

// GetByID returns the table regardless of its trash state.
func (r *TableRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Table, error) {
	var t domain.Table
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&t); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *TableRepo) List(ctx context.Context, p Page) ([]domain.Table, int64, error) {
	var out []domain.Table
	total, err := findPage(ctx, r.c, notTrashed(), p, &out)
	return out, total, err
}

func (r *TableRepo) Update(ctx context.Context, t *domain.Table) error {
	t.UpdatedAt = now()
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": t.ID}, t)
	if err != nil {
		return wrapWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// Trash soft-deletes the table. Rows and fields are not cascaded; the nightly
// purge removes them together with the table once retention expires.
func (r *TableRepo) Trash(ctx context.Context, id primitive.ObjectID) error {
	return trashByID(ctx, r.c, id)
}

func trashByID(ctx context.Context, c *mongo.Collection, id primitive.ObjectID) error {
	ts := now()
	res, err := c.UpdateOne(ctx, bson.M{"_id": id}, bson.M{
		"$set": bson.M{"trashed": true, "trashedAt": ts, "updatedAt": ts},
	})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}
