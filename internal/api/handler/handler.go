// Package handler implements the REST resource layer. Handlers are thin:
// authorization already happened in middleware, persistence is delegated to
// the stores, and field dispatch to the fieldtype registry.
package handler

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/faciam-dev/gridbase/internal/apperr"
	"github.com/faciam-dev/gridbase/internal/domain"
	"github.com/faciam-dev/gridbase/internal/fieldtype"
	mongorepo "github.com/faciam-dev/gridbase/internal/repository/mongo"
)

// TableStore is the persistence surface for tables.
type TableStore interface {
	Create(ctx context.Context, t *domain.Table) error
	GetBySlug(ctx context.Context, slug string) (*domain.Table, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Table, error)
	List(ctx context.Context, p mongorepo.Page) ([]domain.Table, int64, error)
	Update(ctx context.Context, t *domain.Table) error
	Trash(ctx context.Context, id primitive.ObjectID) error
}

// FieldStore is the persistence surface for field definitions.
type FieldStore interface {
	Create(ctx context.Context, f *domain.Field) error
	ListByTable(ctx context.Context, table primitive.ObjectID) ([]domain.Field, error)
	GetBySlug(ctx context.Context, table primitive.ObjectID, slug string) (*domain.Field, error)
	Update(ctx context.Context, f *domain.Field) error
	Trash(ctx context.Context, id primitive.ObjectID) error
}

// FieldSource is the read path used when validating and rendering rows; the
// runtime cache implements it in front of the FieldStore.
type FieldSource interface {
	ListByTable(ctx context.Context, table primitive.ObjectID) ([]domain.Field, error)
}

// RowStore is the persistence surface for rows.
type RowStore interface {
	Create(ctx context.Context, r *domain.Row) error
	ListByTable(ctx context.Context, table primitive.ObjectID, p mongorepo.Page) ([]domain.Row, int64, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Row, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) (map[string]domain.Row, error)
	Update(ctx context.Context, r *domain.Row) error
	Trash(ctx context.Context, id primitive.ObjectID) error
	ToggleReaction(ctx context.Context, id, user primitive.ObjectID) (bool, error)
}

// GroupStore is the persistence surface for user groups.
type GroupStore interface {
	Create(ctx context.Context, g *domain.UserGroup) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.UserGroup, error)
	List(ctx context.Context, p mongorepo.Page) ([]domain.UserGroup, int64, error)
	Update(ctx context.Context, g *domain.UserGroup) error
}

// MenuStore is the persistence surface for menus.
type MenuStore interface {
	Create(ctx context.Context, m *domain.Menu) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.Menu, error)
	List(ctx context.Context, p mongorepo.Page) ([]domain.Menu, int64, error)
	Update(ctx context.Context, m *domain.Menu) error
	Trash(ctx context.Context, id primitive.ObjectID) error
}

// SettingStore is the persistence surface for the global setting document.
type SettingStore interface {
	Get(ctx context.Context) (*domain.Setting, error)
	Put(ctx context.Context, s *domain.Setting) error
}

// parseID converts a path id, mapping garbage to a 404 rather than a 500.
func parseID(hex string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(hex)
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("No such entity")
	}
	return id, nil
}

// mapStoreErr translates repository sentinels into wire errors.
func mapStoreErr(err error, what string) error {
	switch {
	case errors.Is(err, mongorepo.ErrNotFound):
		return apperr.NotFound(what + " not found")
	case errors.Is(err, mongorepo.ErrDuplicate):
		return apperr.Conflict(what + " already exists")
	default:
		return err
	}
}

// validationErrorSingle reports one invalid field.
func validationErrorSingle(field, message string) error {
	return apperr.NewValidation("Validation failed", []apperr.FieldError{{Field: field, Message: message}})
}

// validationError converts accumulated fieldtype errors into the wire shape.
func validationError(message string, errs []fieldtype.FieldError) error {
	fields := make([]apperr.FieldError, len(errs))
	for i, e := range errs {
		fields[i] = apperr.FieldError{Field: e.Field, Message: e.Message}
	}
	return apperr.NewValidation(message, fields)
}
