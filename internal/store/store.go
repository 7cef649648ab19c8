package store

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"gorm.io/gorm"
)

// Store groups the collections behind one shared connection pool.
type Store struct {
	db *gorm.DB

	Users       *Collection[models.User]
	Products    *Collection[models.Product]
	Orders      *Collection[models.Order]
	Carts       *Collection[models.Cart]
	UserLogs    *Collection[models.UserLog]
	ProductLogs *Collection[models.ProductLog]
}

func New(db *gorm.DB) *Store {
	return &Store{
		db:          db,
		Users:       NewCollection[models.User](db, "Users", "id"),
		Products:    NewCollection[models.Product](db, "Products", "id"),
		Orders:      NewCollection[models.Order](db, "Orders", "id"),
		Carts:       NewCollection[models.Cart](db, "Carts", "user_id"),
		UserLogs:    NewCollection[models.UserLog](db, "UserLogs", "id"),
		ProductLogs: NewCollection[models.ProductLog](db, "ProductLogs", "id"),
	}
}

// Transaction runs fn against a Store bound to a single database
// transaction. Returning an error from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
}
