package tui

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/application/normalizer"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/apperror"
)

// Backend is what the till needs from the order service.
type Backend interface {
	FetchTicket(ctx context.Context, orderID string) (entity.Ticket, error)
	CommitPayment(ctx context.Context, orderID string, intent entity.PaymentIntent) (*entity.PaymentConfirmation, error)
}

// OrderClient is the subset of the order service client the till uses.
type OrderClient interface {
	FetchTicket(ctx context.Context, restaurantID, orderID string) (json.RawMessage, error)
	CommitPayment(ctx context.Context, commit entity.PaymentCommit) (*entity.PaymentConfirmation, error)
}

// OrderServiceBackend talks to the order service directly for one restaurant.
type OrderServiceBackend struct {
	client       OrderClient
	restaurantID string
	fallback     *entity.Totals
}

// NewOrderServiceBackend creates a backend bound to one restaurant. fallback
// may be nil.
func NewOrderServiceBackend(client OrderClient, restaurantID string, fallback *entity.Totals) *OrderServiceBackend {
	return &OrderServiceBackend{client: client, restaurantID: restaurantID, fallback: fallback}
}

func (b *OrderServiceBackend) FetchTicket(ctx context.Context, orderID string) (entity.Ticket, error) {
	raw, err := b.client.FetchTicket(ctx, b.restaurantID, orderID)
	if err != nil {
		return entity.Ticket{}, err
	}
	t := normalizer.NormalizeJSONWithFallback(raw, b.fallback)
	if t.OrderID == "" {
		t.OrderID = orderID
	}
	return t, nil
}

// CommitPayment records the intent's amount. The remote reason for a failure
// is wrapped, never shown as is.
func (b *OrderServiceBackend) CommitPayment(ctx context.Context, orderID string, intent entity.PaymentIntent) (*entity.PaymentConfirmation, error) {
	conf, err := b.client.CommitPayment(ctx, entity.PaymentCommit{
		RestaurantID: b.restaurantID,
		OrderID:      orderID,
		Method:       intent.Method,
		Amount:       intent.AmountToRecord,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperror.ErrPaymentFailed, err)
	}
	if conf == nil {
		conf = &entity.PaymentConfirmation{}
	}
	return conf, nil
}
