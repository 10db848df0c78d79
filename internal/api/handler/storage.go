package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/faciam-dev/gridbase/internal/api/schema"
	"github.com/faciam-dev/gridbase/internal/domain"
	"github.com/faciam-dev/gridbase/internal/events"
	"github.com/faciam-dev/gridbase/internal/logger"
	"github.com/faciam-dev/gridbase/internal/rbac"
	"github.com/faciam-dev/gridbase/internal/storage"
)

// StorageStore is the persistence surface for uploaded-file metadata.
type StorageStore interface {
	Create(ctx context.Context, o *domain.StorageObject) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.StorageObject, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// StorageHandler serves /storage: the object goes to S3, the metadata to the
// store.
type StorageHandler struct {
	Objects StorageStore
	Blobs   storage.Client
	Events  events.Emitter
}

type uploadInput struct {
	RawBody huma.MultipartFormFiles[uploadForm]
}

type uploadForm struct {
	File huma.FormFile `form:"file" contentType:"*/*" required:"true"`
}

type storageOutput struct {
	Body schema.StorageObject
}

type storageIDParam struct {
	ID string `path:"id"`
}

// RegisterStorage installs the file upload endpoints.
func RegisterStorage(api huma.API, h *StorageHandler) {
	huma.Register(api, huma.Operation{
		OperationID:   "createStorage",
		Method:        http.MethodPost,
		Path:          "/storage",
		Summary:       "Upload a file",
		Tags:          []string{"Storage"},
		Metadata:      perm(rbac.PermCreateStorage),
		DefaultStatus: http.StatusCreated,
	}, h.create)
	huma.Register(api, huma.Operation{
		OperationID:   "deleteStorage",
		Method:        http.MethodDelete,
		Path:          "/storage/{id}",
		Summary:       "Delete a file",
		Tags:          []string{"Storage"},
		Metadata:      perm(rbac.PermDeleteStorage),
		DefaultStatus: http.StatusNoContent,
	}, h.delete)
}

func (h *StorageHandler) create(ctx context.Context, in *uploadInput) (*storageOutput, error) {
	form := in.RawBody.Data()
	f := form.File
	if !f.IsSet {
		return nil, validationErrorSingle("file", "file is required")
	}
	key, url, err := h.Blobs.Upload(ctx, f.Filename, f.ContentType, f.File)
	if err != nil {
		return nil, err
	}
	o := &domain.StorageObject{
		Key:         key,
		FileName:    f.Filename,
		ContentType: f.ContentType,
		Size:        f.Size,
		URL:         url,
	}
	if err := h.Objects.Create(ctx, o); err != nil {
		// keep the bucket consistent with the metadata store
		if derr := h.Blobs.Delete(ctx, key); derr != nil {
			logger.L.Error("orphan cleanup", "key", key, "err", derr)
		}
		return nil, mapStoreErr(err, "Storage object")
	}
	h.Events.Emit(ctx, events.Event{Name: "storage.created", Time: time.Now(), Data: schema.FromStorageObject(o), ID: o.ID.Hex()})
	return &storageOutput{Body: schema.FromStorageObject(o)}, nil
}

func (h *StorageHandler) delete(ctx context.Context, in *storageIDParam) (*struct{}, error) {
	id, err := parseID(in.ID)
	if err != nil {
		return nil, err
	}
	o, err := h.Objects.GetByID(ctx, id)
	if err != nil {
		return nil, mapStoreErr(err, "Storage object")
	}
	if err := h.Blobs.Delete(ctx, o.Key); err != nil {
		return nil, err
	}
	if err := h.Objects.Delete(ctx, id); err != nil {
		return nil, mapStoreErr(err, "Storage object")
	}
	h.Events.Emit(ctx, events.Event{Name: "storage.deleted", Time: time.Now(), ID: in.ID})
	return nil, nil
}
