package rest

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/sanLimbu/task-tracker/internal"
	"github.com/sanLimbu/task-tracker/internal/auth"
	"github.com/sanLimbu/task-tracker/internal/service"
)

// UserService ...
type UserService interface {
	Authenticator
	Login(ctx context.Context, params internal.LoginParams) (service.Session, error)
	Logout(ctx context.Context, claims *auth.Claims) error
	Profile(ctx context.Context, userID int64) (internal.User, error)
	Register(ctx context.Context, params internal.RegisterParams) (service.Session, error)
}

// UserHandler ...
type UserHandler struct {
	svc UserService
}

// NewUserHandler ...
func NewUserHandler(svc UserService) *UserHandler {
	return &UserHandler{
		svc: svc,
	}
}

// Register connects the public handlers to the router.
func (u *UserHandler) Register(r chi.Router) {
	r.Post("/api/register", u.register)
	r.Post("/api/login", u.login)
}

// RegisterAuthenticated connects the handlers requiring an authenticated user, r must already authenticate requests.
func (u *UserHandler) RegisterAuthenticated(r chi.Router) {
	r.Get("/api/profile", u.profile)
	r.Post("/api/logout", u.logout)
}

// User is the public representation of an account, it never includes the password hash.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// NewUser converts the domain type to its JSON representation.
func NewUser(user internal.User) User {
	return User{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
	}
}

// SessionResponse defines the response returned back after registering or logging in.
type SessionResponse struct {
	Message     string `json:"message"`
	User        User   `json:"user"`
	AccessToken string `json:"access_token"`
}

func (u *UserHandler) register(w http.ResponseWriter, r *http.Request) {
	var req internal.RegisterParams
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request",
			internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "No JSON data provided"))
		return
	}
	defer r.Body.Close()

	session, err := u.svc.Register(r.Context(), req)
	if err != nil {
		renderErrorResponse(r.Context(), w, "Registration failed", err)
		return
	}

	renderResponse(w,
		&SessionResponse{
			Message:     "User registered successfully",
			User:        NewUser(session.User),
			AccessToken: session.AccessToken,
		},
		http.StatusCreated)
}

func (u *UserHandler) login(w http.ResponseWriter, r *http.Request) {
	var req internal.LoginParams
	if err := render.DecodeJSON(r.Body, &req); err != nil {
		renderErrorResponse(r.Context(), w, "invalid request",
			internal.WrapErrorf(err, internal.ErrorCodeInvalidArgument, "No JSON data provided"))
		return
	}
	defer r.Body.Close()

	session, err := u.svc.Login(r.Context(), req)
	if err != nil {
		renderErrorResponse(r.Context(), w, "Login failed", err)
		return
	}

	renderResponse(w,
		&SessionResponse{
			Message:     "Login successful",
			User:        NewUser(session.User),
			AccessToken: session.AccessToken,
		},
		http.StatusOK)
}

// ProfileResponse defines the response returned back with the authenticated user.
type ProfileResponse struct {
	User User `json:"user"`
}

func (u *UserHandler) profile(w http.ResponseWriter, r *http.Request) {
	user, err := u.svc.Profile(r.Context(), userIDFromContext(r.Context()))
	if err != nil {
		renderErrorResponse(r.Context(), w, "Failed to get profile", err)
		return
	}

	renderResponse(w, &ProfileResponse{User: NewUser(user)}, http.StatusOK)
}

func (u *UserHandler) logout(w http.ResponseWriter, r *http.Request) {
	claims := claimsFromContext(r.Context())
	if claims == nil {
		renderErrorResponse(r.Context(), w, "",
			internal.NewErrorf(internal.ErrorCodeUnauthenticated, "Authentication required"))
		return
	}

	if err := u.svc.Logout(r.Context(), claims); err != nil {
		renderErrorResponse(r.Context(), w, "Logout failed", err)
		return
	}

	renderResponse(w, &MessageResponse{Message: "Successfully logged out"}, http.StatusOK)
}
