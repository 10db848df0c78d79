package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// User is an account that can sign in. Group links it to its permission set.
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name"`
	Email        string             `bson:"email" json:"email"`
	PasswordHash string             `bson:"passwordHash" json:"-"`
	Group        primitive.ObjectID `bson:"group,omitempty" json:"group,omitempty"`
	Trashed      bool               `bson:"trashed" json:"trashed"`
	TrashedAt    *time.Time         `bson:"trashedAt,omitempty" json:"trashedAt,omitempty"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// UserGroup bundles permission slugs; a user belongs to exactly one group.
type UserGroup struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Permissions []string           `bson:"permissions" json:"permissions"`
	Trashed     bool               `bson:"trashed" json:"trashed"`
	TrashedAt   *time.Time         `bson:"trashedAt,omitempty" json:"trashedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}
