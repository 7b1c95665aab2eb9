package memcached

import (
	"bytes"
	"context"
	"encoding/gob"
	"errors"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"go.opentelemetry.io/otel"
	semconv "go.opentelemetry.io/otel/semconv/v1.7.0"
	"go.opentelemetry.io/otel/trace"

	"github.com/sanLimbu/task-tracker/internal"
)

const otelName = "github.com/sanLimbu/task-tracker/internal/memcached"

// Client defines the memcached operations used by the decorators, *memcache.Client implements it.
type Client interface {
	Add(item *memcache.Item) error
	Get(key string) (*memcache.Item, error)
	Set(item *memcache.Item) error
}

// tombstoneFlags marks the items written after a mutation. Until they expire the key is reported as a miss
// and values read from the store can't be added back.
const tombstoneFlags uint32 = 1

// getValue returns a NotFound error on cache misses and tombstones.
func getValue(ctx context.Context, client Client, key string, target interface{}) error {
	defer newOTELSpan(ctx, "getValue").End()

	item, err := client.Get(key)
	if err != nil {
		if errors.Is(err, memcache.ErrCacheMiss) {
			return internal.WrapErrorf(err, internal.ErrorCodeNotFound, "cache miss")
		}

		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "client.Get")
	}

	if item.Flags == tombstoneFlags {
		return internal.NewErrorf(internal.ErrorCodeNotFound, "tombstone")
	}

	if err := gob.NewDecoder(bytes.NewReader(item.Value)).Decode(target); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "gob.NewDecoder")
	}

	return nil
}

// addValue stores the value only when the key is absent, memcache.ErrNotStored is returned otherwise.
func addValue(ctx context.Context, client Client, key string, value interface{}, expiration time.Duration) error {
	defer newOTELSpan(ctx, "addValue").End()

	var b bytes.Buffer

	if err := gob.NewEncoder(&b).Encode(value); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "gob.NewEncoder")
	}

	if err := client.Add(&memcache.Item{
		Key:        key,
		Value:      b.Bytes(),
		Expiration: int32(expiration.Seconds()),
	}); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "client.Add")
	}

	return nil
}

// setTombstone replaces any cached value of the key with a tombstone.
func setTombstone(ctx context.Context, client Client, key string, expiration time.Duration) error {
	defer newOTELSpan(ctx, "setTombstone").End()

	if err := client.Set(&memcache.Item{
		Key:        key,
		Value:      []byte{},
		Flags:      tombstoneFlags,
		Expiration: int32(expiration.Seconds()),
	}); err != nil {
		return internal.WrapErrorf(err, internal.ErrorCodeUnknown, "client.Set")
	}

	return nil
}

func newOTELSpan(ctx context.Context, name string) trace.Span {
	_, span := otel.Tracer(otelName).Start(ctx, name)

	span.SetAttributes(semconv.DBSystemMemcached)

	return span
}
