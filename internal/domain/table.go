// Package domain holds the persisted document types shared by repositories
// and handlers.
package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Table is a user-defined dynamic schema. Fields reference it by id; rows hold
// one value per field slug. Tables are soft-deleted via Trashed/TrashedAt.
type Table struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name        string             `bson:"name" json:"name"`
	Slug        string             `bson:"slug" json:"slug"`
	Description string             `bson:"description,omitempty" json:"description,omitempty"`
	Logo        string             `bson:"logo,omitempty" json:"logo,omitempty"`
	Trashed     bool               `bson:"trashed" json:"trashed"`
	TrashedAt   *time.Time         `bson:"trashedAt,omitempty" json:"trashedAt,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Field is a typed column belonging to a Table. Configuration is the
// type-specific blob validated against the registry shape for Type.
type Field struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Table         primitive.ObjectID `bson:"table" json:"table"`
	Name          string             `bson:"name" json:"name"`
	Slug          string             `bson:"slug" json:"slug"`
	Type          string             `bson:"type" json:"type"`
	Configuration map[string]any     `bson:"configuration" json:"configuration"`
	Trashed       bool               `bson:"trashed" json:"trashed"`
	TrashedAt     *time.Time         `bson:"trashedAt,omitempty" json:"trashedAt,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// Row is a data record of a Table: one raw value per field slug. Values for
// fields that were later trashed or retyped are left in place and ignored.
type Row struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Table     primitive.ObjectID   `bson:"table" json:"table"`
	Values    map[string]any       `bson:"values" json:"values"`
	Reactions []primitive.ObjectID `bson:"reactions,omitempty" json:"reactions,omitempty"`
	Trashed   bool                 `bson:"trashed" json:"trashed"`
	TrashedAt *time.Time           `bson:"trashedAt,omitempty" json:"trashedAt,omitempty"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time            `bson:"updatedAt" json:"updatedAt"`
}
