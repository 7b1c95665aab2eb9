package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.uber.org/zap"

	"github.com/sanLimbu/task-tracker/internal"
	"github.com/sanLimbu/task-tracker/internal/auth"
)

// ErrInvalidCredentials is returned when the username does not exist or the password does not match.
var ErrInvalidCredentials = internal.NewErrorf(internal.ErrorCodeUnauthenticated, "Invalid username or password")

// UserRepository defines the datastore handling persisting User records.
type UserRepository interface {
	Create(ctx context.Context, params internal.RegisterParams, passwordHash string, now time.Time) (internal.User, error)
	Find(ctx context.Context, id int64) (internal.User, error)
	FindByUsername(ctx context.Context, username string) (internal.User, error)
}

// TokenRepository defines the datastore keeping track of revoked access tokens.
type TokenRepository interface {
	Revoke(ctx context.Context, id string, ttl time.Duration) error
	IsRevoked(ctx context.Context, id string) (bool, error)
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) bool
}

// TokenManager issues and validates access tokens.
type TokenManager interface {
	GenerateAccessToken(userID int64) (string, error)
	ValidateAccessToken(token string) (*auth.Claims, error)
}

// Session is the result of authenticating a User.
type Session struct {
	User        internal.User
	AccessToken string
}

// User defines the application service in charge of registering and authenticating Users.
type User struct {
	logger *zap.Logger
	repo   UserRepository
	tokens TokenRepository
	hasher PasswordHasher
	jwt    TokenManager
	now    func() time.Time
}

// NewUser ...
func NewUser(logger *zap.Logger, repo UserRepository, tokens TokenRepository, hasher PasswordHasher, jwt TokenManager) *User {
	return &User{
		logger: logger,
		repo:   repo,
		tokens: tokens,
		hasher: hasher,
		jwt:    jwt,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Register creates a new User and issues an access token for it.
func (u *User) Register(ctx context.Context, params internal.RegisterParams) (Session, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "User.Register")
	defer span.End()

	params = params.Normalize()

	if err := params.Validate(); err != nil {
		return Session{}, fmt.Errorf("validate: %w", err)
	}

	hash, err := u.hasher.Hash(params.Password)
	if err != nil {
		return Session{}, fmt.Errorf("hash: %w", err)
	}

	user, err := u.repo.Create(ctx, params, hash, u.now())
	if err != nil {
		return Session{}, fmt.Errorf("repo create: %w", err)
	}

	return u.newSession(user)
}

// Login authenticates the User and issues an access token for it.
func (u *User) Login(ctx context.Context, params internal.LoginParams) (Session, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "User.Login")
	defer span.End()

	if err := params.Validate(); err != nil {
		return Session{}, fmt.Errorf("validate: %w", err)
	}

	user, err := u.repo.FindByUsername(ctx, params.Username)
	if err != nil {
		var ierr *internal.Error
		if errors.As(err, &ierr) && ierr.Code() == internal.ErrorCodeNotFound {
			return Session{}, ErrInvalidCredentials
		}

		return Session{}, fmt.Errorf("repo find: %w", err)
	}

	if !u.hasher.Verify(params.Password, user.PasswordHash) {
		return Session{}, ErrInvalidCredentials
	}

	return u.newSession(user)
}

// Profile gets an existing User.
func (u *User) Profile(ctx context.Context, userID int64) (internal.User, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "User.Profile")
	defer span.End()

	user, err := u.repo.Find(ctx, userID)
	if err != nil {
		return internal.User{}, fmt.Errorf("repo find: %w", err)
	}

	return user, nil
}

// Authenticate validates the access token, revoked tokens are rejected.
func (u *User) Authenticate(ctx context.Context, token string) (*auth.Claims, error) {
	ctx, span := otel.Tracer(otelName).Start(ctx, "User.Authenticate")
	defer span.End()

	claims, err := u.jwt.ValidateAccessToken(token)
	if err != nil {
		return nil, fmt.Errorf("validate: %w", err)
	}

	revoked, err := u.tokens.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("tokens: %w", err)
	}

	if revoked {
		return nil, internal.NewErrorf(internal.ErrorCodeUnauthenticated, "token has been revoked")
	}

	return claims, nil
}

// Logout revokes the access token until it expires.
func (u *User) Logout(ctx context.Context, claims *auth.Claims) error {
	ctx, span := otel.Tracer(otelName).Start(ctx, "User.Logout")
	defer span.End()

	var ttl time.Duration
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Time.Sub(u.now())
	}

	if err := u.tokens.Revoke(ctx, claims.ID, ttl); err != nil {
		return fmt.Errorf("tokens: %w", err)
	}

	u.logger.Info("Token revoked", zap.Int64("user_id", claims.UserID), zap.Duration("ttl", ttl))

	return nil
}

func (u *User) newSession(user internal.User) (Session, error) {
	token, err := u.jwt.GenerateAccessToken(user.ID)
	if err != nil {
		return Session{}, fmt.Errorf("generate token: %w", err)
	}

	return Session{User: user, AccessToken: token}, nil
}
