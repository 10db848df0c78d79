// Package server wires the HTTP surface: router, middleware chain, handler
// registration and the supporting services they depend on.
package server

import (
	"context"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/faciam-dev/gridbase/internal/api/handler"
	"github.com/faciam-dev/gridbase/internal/apperr"
	"github.com/faciam-dev/gridbase/internal/auth"
	"github.com/faciam-dev/gridbase/internal/config"
	"github.com/faciam-dev/gridbase/internal/displaypolicy"
	"github.com/faciam-dev/gridbase/internal/events"
	"github.com/faciam-dev/gridbase/internal/fieldtype"
	"github.com/faciam-dev/gridbase/internal/logger"
	"github.com/faciam-dev/gridbase/internal/rbac"
	mongorepo "github.com/faciam-dev/gridbase/internal/repository/mongo"
	"github.com/faciam-dev/gridbase/internal/runtime/cache"
	"github.com/faciam-dev/gridbase/internal/server/middleware"
	"github.com/faciam-dev/gridbase/internal/storage"
)

// Deps are the services the router composes. Repos is required; the rest may
// be nil and the matching feature degrades (no events, no uploads, no policy).
type Deps struct {
	Repos   *mongorepo.Repos
	Cfg     config.Config
	Blobs   storage.Client
	Emitter events.Emitter
	Policy  *displaypolicy.Store
	Cache   *cache.Cache
}

func init() {
	// every framework-generated error carries the {message, cause} shape
	huma.NewError = func(status int, message string, errs ...error) huma.StatusError {
		if status == http.StatusUnprocessableEntity {
			fields := make([]apperr.FieldError, 0, len(errs))
			for _, e := range errs {
				if d, ok := e.(*huma.ErrorDetail); ok {
					fields = append(fields, apperr.FieldError{Field: d.Location, Message: d.Message})
					continue
				}
				fields = append(fields, apperr.FieldError{Message: e.Error()})
			}
			return apperr.NewValidation(message, fields)
		}
		cause := apperr.CauseInternal
		switch status {
		case http.StatusUnauthorized:
			cause = apperr.CauseAuthRequired
		case http.StatusForbidden:
			cause = apperr.CausePermissionRequired
		case http.StatusNotFound:
			cause = apperr.CauseNotFound
		case http.StatusConflict:
			cause = apperr.CauseConflict
		}
		return apperr.New(status, message, cause)
	}
}

// New assembles the API. Authentication endpoints are registered before the
// session middleware so they stay public; everything after runs behind
// session, permission and metrics middleware.
func New(d Deps) huma.API {
	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   d.Cfg.Origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	enforcer, err := rbac.NewEnforcer()
	if err != nil {
		logger.L.Error("casbin enforcer", "err", err)
		os.Exit(1)
	}
	if err := rbac.Load(context.Background(), d.Repos.Groups, enforcer); err != nil {
		logger.L.Error("load policies", "err", err)
	}

	api := humachi.New(r, huma.DefaultConfig("GridBase API", "1.0.0"))
	jwt := auth.NewJWT(d.Cfg.JWTSecret, d.Cfg.SessionTTL)

	authHandler := &auth.Handler{Users: d.Repos.Users, JWT: jwt, DefaultGroup: defaultGroup(d.Repos.Groups)}
	auth.Register(api, authHandler)

	api.UseMiddleware(auth.Middleware(jwt))
	api.UseMiddleware(middleware.Permission(enforcer, groupResolver(d.Repos.Users)))
	api.UseMiddleware(middleware.Metrics)

	auth.RegisterProfile(api, authHandler)

	registry := fieldtype.NewRegistry()
	emitter := orNoop(d.Emitter)
	fields := handler.FieldSource(d.Repos.Fields)
	var invalidator handler.FieldInvalidator
	if d.Cache != nil {
		fields = d.Cache
		invalidator = d.Cache
	}

	handler.RegisterTables(api, &handler.TableHandler{
		Tables: d.Repos.Tables,
		Events: emitter,
	})
	handler.RegisterFields(api, &handler.FieldHandler{
		Tables:   d.Repos.Tables,
		Fields:   d.Repos.Fields,
		Registry: registry,
		Cache:    invalidator,
		Events:   emitter,
	})
	handler.RegisterRows(api, &handler.RowHandler{
		Tables:   d.Repos.Tables,
		Fields:   fields,
		Rows:     d.Repos.Rows,
		Registry: registry,
		Policy:   d.Policy,
		Events:   emitter,
	})
	handler.RegisterUserGroups(api, &handler.UserGroupHandler{
		Groups:   d.Repos.Groups,
		Lister:   d.Repos.Groups,
		Enforcer: enforcer,
		Events:   emitter,
	})
	handler.RegisterPermissions(api)
	handler.RegisterMenus(api, &handler.MenuHandler{Menus: d.Repos.Menus, Events: emitter})
	handler.RegisterSettings(api, &handler.SettingHandler{Settings: d.Repos.Settings, Events: emitter})
	if d.Blobs != nil {
		handler.RegisterStorage(api, &handler.StorageHandler{
			Objects: d.Repos.Storage,
			Blobs:   d.Blobs,
			Events:  emitter,
		})
	}
	return api
}

// orNoop substitutes the no-op dispatcher when no emitter is configured, so
// handlers can emit unconditionally.
func orNoop(e events.Emitter) events.Emitter {
	if e == nil {
		return (*events.Dispatcher)(nil)
	}
	return e
}

// defaultGroup finds the group assigned to self-registered accounts. The seed
// command creates it.
func defaultGroup(groups *mongorepo.GroupRepo) primitive.ObjectID {
	gs, err := groups.ListAll(context.Background())
	if err != nil {
		logger.L.Warn("default group lookup", "err", err)
		return primitive.NilObjectID
	}
	for _, g := range gs {
		if g.Name == "Default" {
			return g.ID
		}
	}
	return primitive.NilObjectID
}

// groupResolver maps a user id to its group, the subject policies are written
// against.
func groupResolver(users *mongorepo.UserRepo) middleware.GroupResolver {
	return func(ctx context.Context, user string) ([]string, error) {
		id, err := primitive.ObjectIDFromHex(user)
		if err != nil {
			return nil, err
		}
		u, err := users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if u.Group.IsZero() {
			return nil, nil
		}
		return []string{u.Group.Hex()}, nil
	}
}
