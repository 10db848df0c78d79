package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/faciam-dev/gridbase/internal/domain"
)

// FieldRepo stores field definitions scoped to a table.
type FieldRepo struct {
	c *mongo.Collection
}

func (r *FieldRepo) Create(ctx context.Context, f *domain.Field) error {
	f.ID = primitive.NewObjectID()
	f.CreatedAt = now()
	f.UpdatedAt = f.CreatedAt
	_, err := r.c.InsertOne(ctx, f)
	return wrapWriteErr(err)
}

// ListByTable returns the table's current (non-trashed) field set in
// creation order. This is the field list validation and rendering run against.
func (r *FieldRepo) ListByTable(ctx context.Context, table primitive.ObjectID) ([]domain.Field, error) {
	filter := notTrashed()
	filter["table"] = table
	var out []domain.Field
	_, err := findPage(ctx, r.c, filter, Page{PerPage: 500}, &out)
	return out, err
}

func (r *FieldRepo) GetBySlug(ctx context.Context, table primitive.ObjectID, slug string) (*domain.Field, error) {
	filter := notTrashed()
	filter["table"] = table
	filter["slug"] = slug
	var f domain.Field
	if err := r.c.FindOne(ctx, filter).Decode(&f); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *FieldRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Field, error) {
	var f domain.Field
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&f); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *FieldRepo) Update(ctx context.Context, f *domain.Field) error {
	f.UpdatedAt = now()
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": f.ID}, f)
	if err != nil {
		return wrapWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *FieldRepo) Trash(ctx context.Context, id primitive.ObjectID) error {
	return trashByID(ctx, r.c, id)
}

// CountByTable reports non-trashed field counts keyed by table id, feeding
// the prometheus gauge.
func (r *FieldRepo) CountByTable(ctx context.Context) (map[string]int, error) {
	cur, err := r.c.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: notTrashed()}},
		{{Key: "$group", Value: bson.M{"_id": "$table", "n": bson.M{"$sum": 1}}}},
	})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	counts := map[string]int{}
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
			N  int                `bson:"n"`
		}
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		counts[doc.ID.Hex()] = doc.N
	}
	return counts, cur.Err()
}
