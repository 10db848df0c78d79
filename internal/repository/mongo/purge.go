package mongorepo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// PurgeTrashed hard-deletes documents trashed before the cutoff. Fields and
// rows of purged tables are removed with them regardless of their own trash
// timestamps, since nothing can reach them once the table is gone.
func (r *Repos) PurgeTrashed(ctx context.Context, cutoff time.Time) (int64, error) {
	expired := bson.M{"trashed": true, "trashedAt": bson.M{"$lt": cutoff}}

	cur, err := r.Tables.c.Find(ctx, expired)
	if err != nil {
		return 0, err
	}
	var tableIDs []primitive.ObjectID
	for cur.Next(ctx) {
		var doc struct {
			ID primitive.ObjectID `bson:"_id"`
		}
		if err := cur.Decode(&doc); err != nil {
			cur.Close(ctx)
			return 0, err
		}
		tableIDs = append(tableIDs, doc.ID)
	}
	cur.Close(ctx)
	if err := cur.Err(); err != nil {
		return 0, err
	}

	var purged int64
	del := func(c *mongo.Collection, filter bson.M) error {
		res, err := c.DeleteMany(ctx, filter)
		if err != nil {
			return err
		}
		purged += res.DeletedCount
		return nil
	}

	if len(tableIDs) > 0 {
		owned := bson.M{"table": bson.M{"$in": tableIDs}}
		if err := del(r.Fields.c, owned); err != nil {
			return purged, err
		}
		if err := del(r.Rows.c, owned); err != nil {
			return purged, err
		}
		if err := del(r.Tables.c, bson.M{"_id": bson.M{"$in": tableIDs}}); err != nil {
			return purged, err
		}
	}

	for _, c := range []*mongo.Collection{r.Fields.c, r.Rows.c, r.Menus.c} {
		if err := del(c, expired); err != nil {
			return purged, err
		}
	}
	return purged, nil
}
