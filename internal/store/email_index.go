package store

import (
	"context"
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/redis/go-redis/v9"
)

// EmailIndex maps a user's email to their storage id.
type EmailIndex interface {
	Lookup(ctx context.Context, email string) (string, error)
	Set(ctx context.Context, email, id string) error
	Remove(ctx context.Context, email string) error
}

// RedisEmailIndex keeps the email → id mapping in Redis.
type RedisEmailIndex struct {
	rdb    redis.UniversalClient
	prefix string
}

func NewRedisEmailIndex(rdb redis.UniversalClient) *RedisEmailIndex {
	return &RedisEmailIndex{rdb: rdb, prefix: "users:email:"}
}

func (x *RedisEmailIndex) Lookup(ctx context.Context, email string) (string, error) {
	id, err := x.rdb.Get(ctx, x.prefix+email).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	return id, err
}

func (x *RedisEmailIndex) Set(ctx context.Context, email, id string) error {
	return x.rdb.Set(ctx, x.prefix+email, id, 0).Err()
}

func (x *RedisEmailIndex) Remove(ctx context.Context, email string) error {
	return x.rdb.Del(ctx, x.prefix+email).Err()
}

// UserDirectory resolves users by email. The users table is the source of
// truth; the optional index only short-circuits the email scan and is
// repaired whenever it is missing or stale.
type UserDirectory struct {
	users *Collection[models.User]
	index EmailIndex
}

// NewUserDirectory builds a directory. index may be nil, in which case
// every lookup goes through the users.email column index.
func NewUserDirectory(users *Collection[models.User], index EmailIndex) *UserDirectory {
	return &UserDirectory{users: users, index: index}
}

// FindByEmail returns the user owning email, or ErrNotFound.
func (d *UserDirectory) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	if d.index != nil {
		id, err := d.index.Lookup(ctx, email)
		switch {
		case err == nil:
			u, gerr := d.users.Get(ctx, id)
			if gerr == nil && u.Email == email {
				return u, nil
			}
			if gerr != nil && !errors.Is(gerr, ErrNotFound) {
				return nil, gerr
			}
		case !errors.Is(err, ErrNotFound):
			slog.Warn("email index lookup failed", "error", err)
		}
	}

	found, err := d.users.ScanByField(ctx, "email", email)
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		if d.index != nil {
			d.Forget(ctx, email)
		}
		return nil, ErrNotFound
	}
	u := &found[0]
	d.Remember(ctx, u.Email, u.ID)
	return u, nil
}

// Remember records email → id. Failures are logged; lookups self-heal.
func (d *UserDirectory) Remember(ctx context.Context, email, id string) {
	if d.index == nil {
		return
	}
	if err := d.index.Set(ctx, email, id); err != nil {
		slog.Warn("email index update failed", "error", err)
	}
}

// Forget drops the entry for email.
func (d *UserDirectory) Forget(ctx context.Context, email string) {
	if d.index == nil {
		return
	}
	if err := d.index.Remove(ctx, email); err != nil {
		slog.Warn("email index removal failed", "error", err)
	}
}
