package repository

import (
	"context"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/enum"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/pagination"
	"github.com/google/uuid"
)

// PaymentFilterParams narrows a journal listing
type PaymentFilterParams struct {
	pagination.PaginationParams
	OrderID string              `form:"order_id"`
	Method  *enum.PaymentMethod `form:"-"`
	From    *time.Time          `form:"-"`
	To      *time.Time          `form:"-"`
}

// PaymentRecordRepository is the gateway's payment journal. Every method is
// scoped to one restaurant.
type PaymentRecordRepository interface {
	Create(ctx context.Context, record *entity.PaymentRecord) error
	GetByID(ctx context.Context, restaurantID, id uuid.UUID) (*entity.PaymentRecord, error)
	List(ctx context.Context, restaurantID uuid.UUID, params *PaymentFilterParams) ([]entity.PaymentRecord, int64, error)
	ListByOrder(ctx context.Context, restaurantID uuid.UUID, orderID string) ([]entity.PaymentRecord, error)
	Summary(ctx context.Context, restaurantID uuid.UUID, params *PaymentFilterParams) ([]entity.PaymentSummary, error)
}
