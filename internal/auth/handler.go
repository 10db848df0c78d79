package auth

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"

	"github.com/faciam-dev/gridbase/internal/apperr"
	"github.com/faciam-dev/gridbase/internal/domain"
	mongorepo "github.com/faciam-dev/gridbase/internal/repository/mongo"
)

// UserStore is the persistence surface the auth handlers need.
type UserStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	Create(ctx context.Context, u *domain.User) error
	Update(ctx context.Context, u *domain.User) error
}

// Handler serves /authentication and /profile.
type Handler struct {
	Users        UserStore
	JWT          *JWT
	PasswordCost int
	// DefaultGroup is assigned to accounts created through sign-up.
	DefaultGroup primitive.ObjectID
}

type credentialsBody struct {
	Email    string `json:"email" format:"email"`
	Password string `json:"password" minLength:"8"`
}

type signUpBody struct {
	Name     string `json:"name" minLength:"1"`
	Email    string `json:"email" format:"email"`
	Password string `json:"password" minLength:"8"`
}

type userBody struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Group string `json:"group,omitempty"`
}

type signInInput struct {
	Body credentialsBody
}

type signInOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
	Body      userBody
}

type signUpInput struct {
	Body signUpBody
}

type signUpOutput struct {
	Body userBody
}

type signOutOutput struct {
	SetCookie http.Cookie `header:"Set-Cookie"`
}

// Register installs the public authentication endpoints. They must be
// registered before the auth middleware is applied.
func Register(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID:   "signUp",
		Method:        http.MethodPost,
		Path:          "/authentication/sign-up",
		Summary:       "Create account",
		Tags:          []string{"Authentication"},
		DefaultStatus: http.StatusCreated,
	}, h.signUp)
	huma.Register(api, huma.Operation{
		OperationID: "signIn",
		Method:      http.MethodPost,
		Path:        "/authentication/sign-in",
		Summary:     "Establish session",
		Tags:        []string{"Authentication"},
	}, h.signIn)
	huma.Register(api, huma.Operation{
		OperationID: "signOut",
		Method:      http.MethodPost,
		Path:        "/authentication/sign-out",
		Summary:     "End session",
		Tags:        []string{"Authentication"},
	}, h.signOut)
}

// RegisterProfile installs the authenticated profile endpoints.
func RegisterProfile(api huma.API, h *Handler) {
	huma.Register(api, huma.Operation{
		OperationID: "getProfile",
		Method:      http.MethodGet,
		Path:        "/profile",
		Summary:     "Current user",
		Tags:        []string{"Authentication"},
	}, h.getProfile)
	huma.Register(api, huma.Operation{
		OperationID: "updateProfile",
		Method:      http.MethodPut,
		Path:        "/profile",
		Summary:     "Update current user",
		Tags:        []string{"Authentication"},
	}, h.updateProfile)
}

func (h *Handler) cost() int {
	if h.PasswordCost > 0 {
		return h.PasswordCost
	}
	return bcrypt.DefaultCost
}

func (h *Handler) signUp(ctx context.Context, in *signUpInput) (*signUpOutput, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Body.Password), h.cost())
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Name:         in.Body.Name,
		Email:        in.Body.Email,
		PasswordHash: string(hash),
		Group:        h.DefaultGroup,
	}
	if err := h.Users.Create(ctx, u); err != nil {
		if err == mongorepo.ErrDuplicate {
			return nil, apperr.Conflict("An account with this email already exists")
		}
		return nil, err
	}
	return &signUpOutput{Body: toUserBody(u)}, nil
}

func (h *Handler) signIn(ctx context.Context, in *signInInput) (*signInOutput, error) {
	u, err := h.Users.GetByEmail(ctx, in.Body.Email)
	if err != nil || u == nil {
		return nil, invalidCredentials()
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.Body.Password)) != nil {
		return nil, invalidCredentials()
	}
	tok, err := h.JWT.Generate(u.ID.Hex())
	if err != nil {
		return nil, err
	}
	return &signInOutput{
		SetCookie: sessionCookie(tok, h.JWT.TTL()),
		Body:      toUserBody(u),
	}, nil
}

func (h *Handler) signOut(ctx context.Context, _ *struct{}) (*signOutOutput, error) {
	return &signOutOutput{SetCookie: sessionCookie("", -time.Hour)}, nil
}

type profileOutput struct {
	Body userBody
}

type updateProfileInput struct {
	Body struct {
		Name     string `json:"name,omitempty"`
		Email    string `json:"email,omitempty" format:"email"`
		Password string `json:"password,omitempty" minLength:"8"`
	}
}

func (h *Handler) getProfile(ctx context.Context, _ *struct{}) (*profileOutput, error) {
	u, err := h.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	return &profileOutput{Body: toUserBody(u)}, nil
}

func (h *Handler) updateProfile(ctx context.Context, in *updateProfileInput) (*profileOutput, error) {
	u, err := h.currentUser(ctx)
	if err != nil {
		return nil, err
	}
	if in.Body.Name != "" {
		u.Name = in.Body.Name
	}
	if in.Body.Email != "" {
		u.Email = in.Body.Email
	}
	if in.Body.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(in.Body.Password), h.cost())
		if err != nil {
			return nil, err
		}
		u.PasswordHash = string(hash)
	}
	if err := h.Users.Update(ctx, u); err != nil {
		if err == mongorepo.ErrDuplicate {
			return nil, apperr.Conflict("An account with this email already exists")
		}
		return nil, err
	}
	return &profileOutput{Body: toUserBody(u)}, nil
}

func (h *Handler) currentUser(ctx context.Context) (*domain.User, error) {
	id, err := primitive.ObjectIDFromHex(UserFromContext(ctx))
	if err != nil {
		return nil, apperr.AuthRequired()
	}
	u, err := h.Users.GetByID(ctx, id)
	if err != nil {
		return nil, apperr.AuthRequired()
	}
	return u, nil
}

func invalidCredentials() error {
	return apperr.New(http.StatusUnauthorized, "Invalid credentials", "INVALID_CREDENTIALS")
}

func sessionCookie(token string, ttl time.Duration) http.Cookie {
	c := http.Cookie{
		Name:     SessionCookie,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if ttl < 0 {
		c.MaxAge = -1
	} else {
		c.Expires = time.Now().Add(ttl)
	}
	return c
}

func toUserBody(u *domain.User) userBody {
	b := userBody{ID: u.ID.Hex(), Name: u.Name, Email: u.Email}
	if !u.Group.IsZero() {
		b.Group = u.Group.Hex()
	}
	return b
}
