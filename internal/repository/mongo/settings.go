package mongorepo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/faciam-dev/gridbase/internal/domain"
)

// SettingRepo stores the single global configuration document.
type SettingRepo struct {
	c *mongo.Collection
}

// Get returns the setting document, creating an empty one on first read.
func (r *SettingRepo) Get(ctx context.Context) (*domain.Setting, error) {
	var s domain.Setting
	err := r.c.FindOne(ctx, bson.M{}).Decode(&s)
	if err == mongo.ErrNoDocuments {
		return &domain.Setting{}, nil
	}
	if err != nil {
		return nil, err
	}
	return &s, nil
}

// Put upserts the setting document.
func (r *SettingRepo) Put(ctx context.Context, s *domain.Setting) error {
	s.UpdatedAt = now()
	_, err := r.c.UpdateOne(ctx, bson.M{}, bson.M{"$set": bson.M{
		"siteName":  s.SiteName,
		"logo":      s.Logo,
		"language":  s.Language,
		"extra":     s.Extra,
		"updatedAt": s.UpdatedAt,
	}}, options.Update().SetUpsert(true))
	return err
}
