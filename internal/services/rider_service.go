package services

import (
	"context"

	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/apperr"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/models"
	"github.com/ahmetcoskunkizilkaya/storefront-backend/internal/store"
)

type RiderService struct {
	store *store.Store
}

func NewRiderService(s *store.Store) *RiderService {
	return &RiderService{store: s}
}

// Location returns the last known position of a rider.
func (s *RiderService) Location(ctx context.Context, userID string) (*dto.RiderLocationResponse, error) {
	u, err := s.store.Users.Get(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	if u.Role != models.RoleRider {
		return nil, apperr.Forbidden("User is not a rider")
	}
	return &dto.RiderLocationResponse{Lat: u.Latitude, Lon: u.Longitude}, nil
}
