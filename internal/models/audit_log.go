package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit actions.
const (
	ActionCreateUser     = "CREATE_USER"
	ActionUpdateUser     = "UPDATE_USER"
	ActionUpdateUserRole = "UPDATE_USER_ROLE"
	ActionDeleteUser     = "DELETE_USER"

	ActionCreateProduct = "CREATE_PRODUCT"
	ActionUpdateProduct = "UPDATE_PRODUCT"
	ActionDeleteProduct = "DELETE_PRODUCT"
)

// UserLog is an append-only record of a user mutation.
type UserLog struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Action      string    `gorm:"size:50;not null;index" json:"action"`
	PerformedBy string    `gorm:"size:255" json:"performedBy"`
	TargetUser  string    `gorm:"size:255" json:"targetUser"`
	Details     string    `gorm:"type:text" json:"details"`
	Timestamp   time.Time `gorm:"not null;index" json:"timestamp"`
}

func (l *UserLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}

// ProductLog is an append-only record of a catalog mutation.
type ProductLog struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Action        string    `gorm:"size:50;not null;index" json:"action"`
	PerformedBy   string    `gorm:"size:255" json:"performedBy"`
	TargetProduct string    `gorm:"size:255" json:"targetProduct"`
	Details       string    `gorm:"type:text" json:"details"`
	Timestamp     time.Time `gorm:"not null;index" json:"timestamp"`
}

func (l *ProductLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
