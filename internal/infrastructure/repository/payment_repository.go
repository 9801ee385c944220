package repository

import (
	"context"
	"errors"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	domainRepo "github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/repository"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type paymentRecordRepository struct {
	db *gorm.DB
}

// NewPaymentRecordRepository creates a new payment journal repository
func NewPaymentRecordRepository(db *gorm.DB) domainRepo.PaymentRecordRepository {
	return &paymentRecordRepository{db: db}
}

func (r *paymentRecordRepository) Create(ctx context.Context, record *entity.PaymentRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *paymentRecordRepository) GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*entity.PaymentRecord, error) {
	var record entity.PaymentRecord
	err := r.db.WithContext(ctx).
		Scopes(RestaurantScope(restaurantID)).
		First(&record, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &record, err
}

func (r *paymentRecordRepository) List(ctx context.Context, restaurantID uuid.UUID, params *domainRepo.PaymentFilterParams) ([]entity.PaymentRecord, int64, error) {
	var records []entity.PaymentRecord
	var total int64

	params.Validate()
	query := r.db.WithContext(ctx).Model(&entity.PaymentRecord{}).
		Scopes(RestaurantScope(restaurantID), PaymentFilterScope(params))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.Offset(params.Offset()).
		Limit(params.PerPage).
		Order("created_at DESC, id DESC").
		Find(&records).Error

	return records, total, err
}

func (r *paymentRecordRepository) ListByOrder(ctx context.Context, restaurantID uuid.UUID, orderID string) ([]entity.PaymentRecord, error) {
	var records []entity.PaymentRecord
	err := r.db.WithContext(ctx).
		Scopes(RestaurantScope(restaurantID)).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&records).Error
	return records, err
}

func (r *paymentRecordRepository) Summary(ctx context.Context, restaurantID uuid.UUID, params *domainRepo.PaymentFilterParams) ([]entity.PaymentSummary, error) {
	var summaries []entity.PaymentSummary
	err := r.db.WithContext(ctx).Model(&entity.PaymentRecord{}).
		Scopes(RestaurantScope(restaurantID), PaymentFilterScope(params)).
		Select("method, COUNT(*) AS count, COALESCE(SUM(amount_recorded), 0) AS amount_recorded, COALESCE(SUM(change_due), 0) AS change_due").
		Group("method").
		Order("method").
		Scan(&summaries).Error
	return summaries, err
}
