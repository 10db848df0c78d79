package schema

import (
	"time"

	"github.com/faciam-dev/gridbase/internal/domain"
)

// Setting is the global configuration document.
type Setting struct {
	SiteName  string         `json:"siteName"`
	Logo      string         `json:"logo,omitempty"`
	Language  string         `json:"language,omitempty"`
	Extra     map[string]any `json:"extra,omitempty"`
	UpdatedAt time.Time      `json:"updatedAt"`
}

// PutSetting is the PUT /setting body.
type PutSetting struct {
	SiteName string         `json:"siteName" minLength:"1"`
	Logo     string         `json:"logo,omitempty"`
	Language string         `json:"language,omitempty"`
	Extra    map[string]any `json:"extra,omitempty"`
}

// FromSetting converts the domain document.
func FromSetting(s *domain.Setting) Setting {
	return Setting{
		SiteName:  s.SiteName,
		Logo:      s.Logo,
		Language:  s.Language,
		Extra:     s.Extra,
		UpdatedAt: s.UpdatedAt,
	}
}

// StorageObject is the wire form of an uploaded file.
type StorageObject struct {
	ID          string    `json:"id"`
	FileName    string    `json:"fileName"`
	ContentType string    `json:"contentType"`
	Size        int64     `json:"size"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"createdAt"`
}

// FromStorageObject converts the domain document.
func FromStorageObject(o *domain.StorageObject) StorageObject {
	return StorageObject{
		ID:          o.ID.Hex(),
		FileName:    o.FileName,
		ContentType: o.ContentType,
		Size:        o.Size,
		URL:         o.URL,
		CreatedAt:   o.CreatedAt,
	}
}
