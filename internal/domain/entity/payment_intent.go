package entity

import (
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// PaymentIntent is the payment instruction computed for one checkout interaction.
// AmountGiven is nil when the cashier left the tendered amount empty (exact payment).
type PaymentIntent struct {
	Method           enum.PaymentMethod `json:"method"`
	AmountGiven      *decimal.Decimal   `json:"amount_given,omitempty"`
	EffectiveGiven   decimal.Decimal    `json:"effective_given"`
	Remaining        decimal.Decimal    `json:"remaining"`
	AmountToRecord   decimal.Decimal    `json:"amount_to_record"`
	ChangeDue        decimal.Decimal    `json:"change_due"`
	PartialRemainder decimal.Decimal    `json:"partial_remainder"`
	Partial          bool               `json:"partial"`
}

// PaymentCommit is what gets sent to the order service to record a payment
type PaymentCommit struct {
	RestaurantID string
	OrderID      string
	Method       enum.PaymentMethod
	Amount       decimal.Decimal
}

// PaymentConfirmation is the order service's answer to an accepted commit
type PaymentConfirmation struct {
	Reference string `json:"reference,omitempty"`
	Status    string `json:"status,omitempty"`
}
