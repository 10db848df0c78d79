package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/faciam-dev/gridbase/internal/domain"
)

// MenuRepo stores navigation entries.
type MenuRepo struct {
	c *mongo.Collection
}

func (r *MenuRepo) Create(ctx context.Context, m *domain.Menu) error {
	m.ID = primitive.NewObjectID()
	m.CreatedAt = now()
	m.UpdatedAt = m.CreatedAt
	_, err := r.c.InsertOne(ctx, m)
	return wrapWriteErr(err)
}

func (r *MenuRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Menu, error) {
	var m domain.Menu
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&m); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &m, nil
}

func (r *MenuRepo) List(ctx context.Context, p Page) ([]domain.Menu, int64, error) {
	var out []domain.Menu
	total, err := findPage(ctx, r.c, notTrashed(), p, &out)
	return out, total, err
}

func (r *MenuRepo) Update(ctx context.Context, m *domain.Menu) error {
	m.UpdatedAt = now()
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": m.ID}, m)
	if err != nil {
		return wrapWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *MenuRepo) Trash(ctx context.Context, id primitive.ObjectID) error {
	return trashByID(ctx, r.c, id)
}
