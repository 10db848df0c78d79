package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/faciam-dev/gridbase/internal/domain"
)

// GroupRepo stores user groups and their permission slugs.
type GroupRepo struct {
	c *mongo.Collection
}

func (r *GroupRepo) Create(ctx context.Context, g *domain.UserGroup) error {
	g.ID = primitive.NewObjectID()
	g.CreatedAt = now()
	g.UpdatedAt = g.CreatedAt
	_, err := r.c.InsertOne(ctx, g)
	return wrapWriteErr(err)
}

func (r *GroupRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.UserGroup, error) {
	var g domain.UserGroup
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&g); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &g, nil
}

func (r *GroupRepo) List(ctx context.Context, p Page) ([]domain.UserGroup, int64, error) {
	var out []domain.UserGroup
	total, err := findPage(ctx, r.c, notTrashed(), p, &out)
	return out, total, err
}

// ListAll returns every non-trashed group; the RBAC loader uses it at boot
// and after group mutations.
func (r *GroupRepo) ListAll(ctx context.Context) ([]domain.UserGroup, error) {
	cur, err := r.c.Find(ctx, notTrashed())
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	var out []domain.UserGroup
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *GroupRepo) Update(ctx context.Context, g *domain.UserGroup) error {
	g.UpdatedAt = now()
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": g.ID}, g)
	if err != nil {
		return wrapWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *GroupRepo) Trash(ctx context.Context, id primitive.ObjectID) error {
	return trashByID(ctx, r.c, id)
}
