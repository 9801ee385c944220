package repository

import (
	"context"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/google/uuid"
)

// IdempotencyRepository stores responses of payment submissions so a retried
// request replays the first answer instead of paying twice
type IdempotencyRepository interface {
	// GetByKey retrieves an idempotency key by its key string and staff ID
	GetByKey(ctx context.Context, key string, staffID uuid.UUID) (*entity.IdempotencyKey, error)
	// Create stores a new idempotency key; it fails when the (key, staff) pair is taken
	Create(ctx context.Context, ikey *entity.IdempotencyKey) error
	// Complete stores the response of a reserved key and extends its expiry
	Complete(ctx context.Context, id uuid.UUID, code int, body string, expiresAt time.Time) error
	// Release frees a reserved key whose request did not succeed
	Release(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes expired idempotency keys and reports how many were removed
	DeleteExpired(ctx context.Context) (int64, error)
}
