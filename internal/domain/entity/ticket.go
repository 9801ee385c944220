package entity

import (
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/enum"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/money"
	"github.com/shopspring/decimal"
)

// LineItem is one active, billable line of a ticket
type LineItem struct {
	ID        string          `json:"id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Status    enum.ItemStatus `json:"status,omitempty"`
}

// Total returns unit price times quantity, rounded to cents
func (l LineItem) Total() decimal.Decimal {
	return money.Round2(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// Ticket is a read-only snapshot of an order's billable items and totals.
// It is built from an order service response and never mutated locally.
type Ticket struct {
	OrderID    string          `json:"order_id,omitempty"`
	Items      []LineItem      `json:"items"`
	TotalDue   decimal.Decimal `json:"total_due"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
}

// Remaining returns the outstanding balance, never negative
func (t Ticket) Remaining() decimal.Decimal {
	return money.Round2(money.NonNegative(t.TotalDue.Sub(t.PaidAmount)))
}

// ItemsTotal sums the line totals of the active items
func (t Ticket) ItemsTotal() decimal.Decimal {
	sum := decimal.Zero
	for _, item := range t.Items {
		sum = sum.Add(item.Total())
	}
	return money.Round2(sum)
}

// IsSettled reports whether nothing is left to collect
func (t Ticket) IsSettled() bool {
	return !t.Remaining().IsPositive()
}

// Totals are ticket figures a caller already holds, e.g. from an order list view.
// They stand in for a response the normalizer could not make sense of.
type Totals struct {
	TotalDue   decimal.Decimal `json:"total_due"`
	PaidAmount decimal.Decimal `json:"paid_amount"`
}
