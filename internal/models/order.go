package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Order statuses. Transitions are linear but never checked.
const (
	OrderStatusPending    = "Pending"
	OrderStatusDelivering = "Delivering"
	OrderStatusDelivered  = "Delivered"
)

type Order struct {
	ID            string                        `gorm:"primaryKey;size:36" json:"id"`
	Name          string                        `gorm:"size:255" json:"name"`
	Address       string                        `gorm:"type:text" json:"address"`
	Contact       string                        `gorm:"size:100" json:"contact"`
	PaymentMethod string                        `gorm:"size:50" json:"payment_method"`
	Items         datatypes.JSONSlice[LineItem] `json:"items"`
	TotalAmount   float64                       `json:"totalAmount"`
	Status        string                        `gorm:"size:20;not null;index" json:"status"`
	Date          time.Time                     `gorm:"not null;index" json:"date"`
	Latitude      *float64                      `json:"latitude,omitempty"`
	Longitude     *float64                      `json:"longitude,omitempty"`
	ProofPhoto    string                        `gorm:"size:255" json:"proofPhoto,omitempty"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}
