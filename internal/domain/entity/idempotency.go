package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// IdempotencyKey stores processed requests to prevent duplicates
type IdempotencyKey struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	Key          string    `gorm:"uniqueIndex:idx_idempotency_key_staff;size:255;not null"` // The idempotency key from the terminal
	StaffID      uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_idempotency_key_staff;not null"`
	RestaurantID uuid.UUID `gorm:"type:uuid;index"`
	Endpoint     string    `gorm:"size:255;not null"` // API endpoint (e.g., "POST /api/v1/checkout/:order_id/payments")
	ResponseCode int       `gorm:"not null"`
	ResponseBody string    `gorm:"type:text"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	ExpiresAt    time.Time `gorm:"not null;index"`
}

// BeforeCreate generates a UUID before creating a new key
func (i *IdempotencyKey) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for IdempotencyKey
func (IdempotencyKey) TableName() string {
	return "idempotency_keys"
}

// IsExpired checks if the idempotency key has expired
func (i *IdempotencyKey) IsExpired() bool {
	return time.Now().After(i.ExpiresAt)
}

// IsPending reports whether the first request holding this key has not finished
// yet. A reserved key has no response code.
func (i *IdempotencyKey) IsPending() bool {
	return i.ResponseCode == 0
}
