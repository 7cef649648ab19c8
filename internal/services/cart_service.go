package services

import (
	"context"
	"errors"
	"time"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/store"
	"github.com/google/uuid"
)

type CartService struct {
	store *store.Store
}

func NewCartService(s *store.Store) *CartService {
	return &CartService{store: s}
}

// Items returns the saved items for userID, or an empty slice.
func (s *CartService) Items(ctx context.Context, userID string) ([]models.LineItem, error) {
	cart, err := s.store.Carts.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return []models.LineItem{}, nil
	}
	if err != nil {
		return nil, err
	}
	if cart.Items == nil {
		return []models.LineItem{}, nil
	}
	return cart.Items, nil
}

// Save replaces the cart wholesale. The cart id is minted on first save
// and kept afterwards.
func (s *CartService) Save(ctx context.Context, userID string, items []models.LineItem) error {
	id := uuid.NewString()
	existing, err := s.store.Carts.Get(ctx, userID)
	switch {
	case err == nil:
		if existing.ID != "" {
			id = existing.ID
		}
	case !errors.Is(err, store.ErrNotFound):
		return err
	}

	if items == nil {
		items = []models.LineItem{}
	}
	return s.store.Carts.Put(ctx, &models.Cart{
		UserID:    userID,
		ID:        id,
		Items:     items,
		UpdatedAt: time.Now().UTC(),
	})
}
