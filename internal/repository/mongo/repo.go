// Package mongorepo implements persistence for all domain entities on top of
// the official MongoDB driver. List queries exclude trashed documents; direct
// id lookups do not, so trashed entities stay retrievable.
package mongorepo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned on unique key violations (slugs, emails).
var ErrDuplicate = errors.New("duplicate")

// Collection names.
const (
	ColTables  = "tables"
	ColFields  = "fields"
	ColRows    = "rows"
	ColUsers   = "users"
	ColGroups  = "user_groups"
	ColMenus   = "menus"
	ColSetting = "settings"
	ColStorage = "storage_objects"
	ColDLQ     = "events_failed"
)

// Repos bundles every repository over one database handle.
type Repos struct {
	Tables   *TableRepo
	Fields   *FieldRepo
	Rows     *RowRepo
	Users    *UserRepo
	Groups   *GroupRepo
	Menus    *MenuRepo
	Settings *SettingRepo
	Storage  *StorageRepo
}

// New builds the repository set for db.
func New(db *mongo.Database) *Repos {
	return &Repos{
		Tables:   &TableRepo{c: db.Collection(ColTables)},
		Fields:   &FieldRepo{c: db.Collection(ColFields)},
		Rows:     &RowRepo{c: db.Collection(ColRows)},
		Users:    &UserRepo{c: db.Collection(ColUsers)},
		Groups:   &GroupRepo{c: db.Collection(ColGroups)},
		Menus:    &MenuRepo{c: db.Collection(ColMenus)},
		Settings: &SettingRepo{c: db.Collection(ColSetting)},
		Storage:  &StorageRepo{c: db.Collection(ColStorage)},
	}
}

// EnsureIndexes creates the unique indexes the write paths rely on.
func (r *Repos) EnsureIndexes(ctx context.Context) error {
	idx := []struct {
		c    *mongo.Collection
		keys bson.D
	}{
		{r.Tables.c, bson.D{{Key: "slug", Value: 1}}},
		{r.Fields.c, bson.D{{Key: "table", Value: 1}, {Key: "slug", Value: 1}}},
		{r.Users.c, bson.D{{Key: "email", Value: 1}}},
	}
	for _, i := range idx {
		_, err := i.c.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys:    i.keys,
			Options: options.Index().SetUnique(true),
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// notTrashed is the default list filter.
func notTrashed() bson.M { return bson.M{"trashed": bson.M{"$ne": true}} }

func wrapWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}

func now() time.Time { return time.Now().UTC() }

// Page describes a paginated slice request; page numbering starts at 1.
type Page struct {
	Page    int
	PerPage int
}

func (p Page) limit() int64 {
	if p.PerPage <= 0 {
		return 20
	}
	return int64(p.PerPage)
}

func (p Page) skip() int64 {
	if p.Page <= 1 {
		return 0
	}
	return int64(p.Page-1) * p.limit()
}

func findPage(ctx context.Context, c *mongo.Collection, filter bson.M, p Page, out any) (int64, error) {
	total, err := c.CountDocuments(ctx, filter)
	if err != nil {
		return 0, err
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: 1}}).
		SetSkip(p.skip()).
		SetLimit(p.limit())
	cur, err := c.Find(ctx, filter, opts)
	if err != nil {
		return 0, err
	}
	defer cur.Close(ctx)
	if err := cur.All(ctx, out); err != nil {
		return 0, err
	}
	return total, nil
}
