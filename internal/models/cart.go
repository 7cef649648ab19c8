package models

import (
	"time"

	"gorm.io/datatypes"
)

// Cart is keyed by the owning user's id and is only ever overwritten.
type Cart struct {
	UserID    string                        `gorm:"primaryKey;size:64" json:"userId"`
	ID        string                        `gorm:"size:36" json:"id"`
	Items     datatypes.JSONSlice[LineItem] `json:"items"`
	UpdatedAt time.Time                     `json:"updatedAt"`
}
