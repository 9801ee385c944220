package entity

import (
	"encoding/json"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/enum"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// PaymentRecord is the gateway's journal entry for a payment the order service accepted
type PaymentRecord struct {
	ID               uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	RestaurantID     uuid.UUID          `gorm:"type:uuid;not null;index" json:"restaurant_id"`
	OrderID          string             `gorm:"size:100;not null;index" json:"order_id"`
	StaffID          uuid.UUID          `gorm:"type:uuid;index" json:"staff_id"`
	Method           enum.PaymentMethod `gorm:"size:10;not null" json:"method"`
	AmountRecorded   int64              `gorm:"not null" json:"-"` // Stored in cents, excluded from JSON
	AmountGiven      int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	ChangeDue        int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	PartialRemainder int64              `gorm:"default:0" json:"-"` // Stored in cents, excluded from JSON
	Partial          bool               `gorm:"default:false" json:"partial"`
	RemoteReference  string             `gorm:"size:100" json:"remote_reference,omitempty"`
	CreatedAt        time.Time          `gorm:"index" json:"created_at"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (p PaymentRecord) MarshalJSON() ([]byte, error) {
	type Alias PaymentRecord
	return json.Marshal(&struct {
		Alias
		AmountRecorded   float64 `json:"amount_recorded"`
		AmountGiven      float64 `json:"amount_given"`
		ChangeDue        float64 `json:"change_due"`
		PartialRemainder float64 `json:"partial_remainder"`
	}{
		Alias:            Alias(p),
		AmountRecorded:   float64(p.AmountRecorded) / 100,
		AmountGiven:      float64(p.AmountGiven) / 100,
		ChangeDue:        float64(p.ChangeDue) / 100,
		PartialRemainder: float64(p.PartialRemainder) / 100,
	})
}

// BeforeCreate generates a UUID before creating a new record
func (p *PaymentRecord) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentRecord model
func (PaymentRecord) TableName() string {
	return "payment_records"
}

// PaymentSummary aggregates journal entries for one method
type PaymentSummary struct {
	Method         enum.PaymentMethod `json:"method"`
	Count          int64              `json:"count"`
	AmountRecorded int64              `json:"-"`
	ChangeDue      int64              `json:"-"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (s PaymentSummary) MarshalJSON() ([]byte, error) {
	type Alias PaymentSummary
	return json.Marshal(&struct {
		Alias
		AmountRecorded float64 `json:"amount_recorded"`
		ChangeDue      float64 `json:"change_due"`
	}{
		Alias:          Alias(s),
		AmountRecorded: float64(s.AmountRecorded) / 100,
		ChangeDue:      float64(s.ChangeDue) / 100,
	})
}
