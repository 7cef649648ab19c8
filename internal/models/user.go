package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User roles.
const (
	RoleClient = "client"
	RoleAdmin  = "admin"
	RoleRider  = "rider"
)

// ValidRole reports whether r is one of the known roles.
func ValidRole(r string) bool {
	switch r {
	case RoleClient, RoleAdmin, RoleRider:
		return true
	}
	return false
}

// User is the local profile mirrored from the identity provider.
// Email is the external lookup key; ID is the storage key.
type User struct {
	ID              string    `gorm:"primaryKey;size:36" json:"id"`
	Email           string    `gorm:"not null;size:255;index" json:"email"`
	Name            string    `gorm:"size:255" json:"name"`
	Role            string    `gorm:"size:20;not null" json:"role"`
	Password        string    `gorm:"size:255" json:"-"`
	IsEmailVerified bool      `gorm:"not null" json:"isEmailVerified"`
	Latitude        *float64  `json:"latitude,omitempty"`
	Longitude       *float64  `json:"longitude,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleClient
	}
	return nil
}
