package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

var ErrInProgress = errors.New("request with this idempotency key is in progress")

const pendingMarker = "pending"

// Idempotency remembers which order a client-supplied key produced.
type Idempotency struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewIdempotency(rdb redis.UniversalClient, ttl time.Duration) *Idempotency {
	return &Idempotency{rdb: rdb, prefix: "orders:idempotency:", ttl: ttl}
}

// Claim reserves key. It returns ("", nil) when the caller now owns the
// key, the stored result when a previous request completed, or
// ErrInProgress while another request still holds it.
func (i *Idempotency) Claim(ctx context.Context, key string) (string, error) {
	ok, err := i.rdb.SetNX(ctx, i.prefix+key, pendingMarker, i.ttl).Result()
	if err != nil {
		return "", err
	}
	if ok {
		return "", nil
	}
	val, err := i.rdb.Get(ctx, i.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		// Expired between the two calls; try once more.
		return i.Claim(ctx, key)
	}
	if err != nil {
		return "", err
	}
	if val == pendingMarker {
		return "", ErrInProgress
	}
	return val, nil
}

// Complete stores the result for a claimed key.
func (i *Idempotency) Complete(ctx context.Context, key, result string) error {
	return i.rdb.Set(ctx, i.prefix+key, result, i.ttl).Err()
}

// Release drops a claim so the client can retry after a failure.
func (i *Idempotency) Release(ctx context.Context, key string) error {
	return i.rdb.Del(ctx, i.prefix+key).Err()
}
