package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/sanLimbu/task-tracker/internal"
)

var (
	// ErrInvalidToken is returned when the token is invalid.
	ErrInvalidToken = internal.NewErrorf(internal.ErrorCodeUnauthenticated, "invalid token")
	// ErrExpiredToken is returned when the token has expired.
	ErrExpiredToken = internal.NewErrorf(internal.ErrorCodeUnauthenticated, "token has expired")
)

// DefaultAccessTokenDuration is used when no duration is configured.
const DefaultAccessTokenDuration = 24 * time.Hour

// JWTConfig holds JWT configuration.
type JWTConfig struct {
	SecretKey           string
	AccessTokenDuration time.Duration
	Issuer              string
}

// Claims represents the custom claims for access tokens, the token ID is used for revoking it.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// JWTManager handles JWT token operations.
type JWTManager struct {
	config JWTConfig
	now    func() time.Time
}

// NewJWTManager creates a new JWTManager with the given configuration.
func NewJWTManager(config JWTConfig) *JWTManager {
	if config.AccessTokenDuration <= 0 {
		config.AccessTokenDuration = DefaultAccessTokenDuration
	}

	return &JWTManager{
		config: config,
		now:    time.Now,
	}
}

// GenerateAccessToken generates a new signed access token for the given user.
func (m *JWTManager) GenerateAccessToken(userID int64) (string, error) {
	now := m.now()

	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.config.Issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.config.AccessTokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(m.config.SecretKey))
	if err != nil {
		return "", internal.WrapErrorf(err, internal.ErrorCodeUnknown, "token.SignedString")
	}

	return token, nil
}

// ValidateAccessToken validates the token and returns the claims if valid.
func (m *JWTManager) ValidateAccessToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}

		return []byte(m.config.SecretKey), nil
	}, jwt.WithTimeFunc(m.now))
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}

		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 || claims.ID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}

// AccessTokenDuration returns how long access tokens are valid.
func (m *JWTManager) AccessTokenDuration() time.Duration {
	return m.config.AccessTokenDuration
}
