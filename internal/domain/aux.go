package domain

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Menu is a navigation entry; entries form a tree through Parent.
type Menu struct {
	ID        primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Label     string              `bson:"label" json:"label"`
	URL       string              `bson:"url" json:"url"`
	Icon      string              `bson:"icon,omitempty" json:"icon,omitempty"`
	Parent    *primitive.ObjectID `bson:"parent,omitempty" json:"parent,omitempty"`
	Position  int                 `bson:"position" json:"position"`
	Trashed   bool                `bson:"trashed" json:"trashed"`
	TrashedAt *time.Time          `bson:"trashedAt,omitempty" json:"trashedAt,omitempty"`
	CreatedAt time.Time           `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time           `bson:"updatedAt" json:"updatedAt"`
}

// Setting is the single global configuration document.
type Setting struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	SiteName  string             `bson:"siteName" json:"siteName"`
	Logo      string             `bson:"logo,omitempty" json:"logo,omitempty"`
	Language  string             `bson:"language,omitempty" json:"language,omitempty"`
	Extra     map[string]any     `bson:"extra,omitempty" json:"extra,omitempty"`
	UpdatedAt time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// StorageObject records an uploaded file. Storage is hard-deleted, so it
// carries no trash flags.
type StorageObject struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Key         string             `bson:"key" json:"key"`
	FileName    string             `bson:"fileName" json:"fileName"`
	ContentType string             `bson:"contentType" json:"contentType"`
	Size        int64              `bson:"size" json:"size"`
	URL         string             `bson:"url" json:"url"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
}
