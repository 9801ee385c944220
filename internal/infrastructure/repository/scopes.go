package repository

import (
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RestaurantScope filters journal queries to one restaurant. A nil id matches
// nothing so a missing restaurant can never leak another one's payments.
func RestaurantScope(restaurantID uuid.UUID) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if restaurantID == uuid.Nil {
			return db.Where("1 = 0")
		}
		return db.Where("restaurant_id = ?", restaurantID)
	}
}

// PaymentFilterScope applies the optional filters of a journal query.
func PaymentFilterScope(params *repository.PaymentFilterParams) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if params == nil {
			return db
		}
		if params.OrderID != "" {
			db = db.Where("order_id = ?", params.OrderID)
		}
		if params.Method != nil {
			db = db.Where("method = ?", *params.Method)
		}
		if params.From != nil {
			db = db.Where("created_at >= ?", *params.From)
		}
		if params.To != nil {
			db = db.Where("created_at <= ?", *params.To)
		}
		return db
	}
}
