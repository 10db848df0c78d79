package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/faciam-dev/gridbase/internal/domain"
)

// RowRepo stores the data records of all tables in one collection keyed by
// the owning table id.
type RowRepo struct {
	c *mongo.Collection
}

func (r *RowRepo) Create(ctx context.Context, row *domain.Row) error {
	row.ID = primitive.NewObjectID()
	row.CreatedAt = now()
	row.UpdatedAt = row.CreatedAt
	_, err := r.c.InsertOne(ctx, row)
	return wrapWriteErr(err)
}

func (r *RowRepo) ListByTable(ctx context.Context, table primitive.ObjectID, p Page) ([]domain.Row, int64, error) {
	filter := notTrashed()
	filter["table"] = table
	var out []domain.Row
	total, err := findPage(ctx, r.c, filter, p, &out)
	return out, total, err
}

func (r *RowRepo) GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Row, error) {
	var row domain.Row
	if err := r.c.FindOne(ctx, bson.M{"_id": id}).Decode(&row); err != nil {
		if err == mongo.ErrNoDocuments {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &row, nil
}

// FindByIDs fetches rows for relationship resolution. Trashed rows are
// included so stale references still resolve to their last known label.
func (r *RowRepo) FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[string]domain.Row, error) {
	if len(ids) == 0 {
		return map[string]domain.Row{}, nil
	}
	cur, err := r.c.Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := make(map[string]domain.Row, len(ids))
	for cur.Next(ctx) {
		var row domain.Row
		if err := cur.Decode(&row); err != nil {
			return nil, err
		}
		out[row.ID.Hex()] = row
	}
	return out, cur.Err()
}

func (r *RowRepo) Update(ctx context.Context, row *domain.Row) error {
	row.UpdatedAt = now()
	res, err := r.c.ReplaceOne(ctx, bson.M{"_id": row.ID}, row)
	if err != nil {
		return wrapWriteErr(err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RowRepo) Trash(ctx context.Context, id primitive.ObjectID) error {
	return trashByID(ctx, r.c, id)
}

// ToggleReaction adds the user to the row's reaction set, or removes them if
// already present. Returns the resulting liked state.
func (r *RowRepo) ToggleReaction(ctx context.Context, id, user primitive.ObjectID) (bool, error) {
	row, err := r.GetByID(ctx, id)
	if err != nil {
		return false, err
	}
	liked := false
	for _, u := range row.Reactions {
		if u == user {
			liked = true
			break
		}
	}
	var update bson.M
	if liked {
		update = bson.M{"$pull": bson.M{"reactions": user}, "$set": bson.M{"updatedAt": now()}}
	} else {
		update = bson.M{"$addToSet": bson.M{"reactions": user}, "$set": bson.M{"updatedAt": now()}}
	}
	if _, err := r.c.UpdateOne(ctx, bson.M{"_id": id}, update); err != nil {
		return false, err
	}
	return !liked, nil
}

// CountByTable reports non-trashed row counts keyed by table id.
func (r *RowRepo) CountByTable(ctx context.Context) (map[string]int, error) {
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
