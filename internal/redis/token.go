package redis

import (
	"context"
	"errors"
	"time"

	"github.com/go-redis/redis/v8"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanLimbu/task-tracker/internal"
)

const otelName = "github.com/sanLimbu/task-tracker/internal/redis"

// Token represents the repository used for keeping track of revoked access tokens.
type Token struct {
	client *redis.Client
}

// NewToken instantiates the Token repository.
func NewToken(client *redis.Client) *Token {
	return &Token{
		client: client,
	}
}

// Revoke marks the token identified by id as revoked, the mark is removed after ttl, when the token itself expires.
func (t *Token) Revoke(ctx context.Context, id string, ttl time.Duration) error {
	defer newOTELSpan(ctx, "Token.Revoke").End()

	if ttl <= 0 {
		return nil
	}

	if err := t.client.Set(ctx, tokenKey(id), "revoked", ttl).Err(); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "client.Set")
	}

	return nil
}

// IsRevoked indicates whether the token identified by id was revoked.
func (t *Token) IsRevoked(ctx context.Context, id string) (bool, error) {
	defer newOTELSpan(ctx, "Token.IsRevoked").End()

	if err := t.client.Get(ctx, tokenKey(id)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}

		return false, internal.WrapErrorf(err, internal.ErrorCodeUnknown, "client.Get")
	}

	return true, nil
}

func tokenKey(id string) string {
	return "token:revoked:" + id
}

func newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(semconv.DBSystemRedis)

	return span
}
