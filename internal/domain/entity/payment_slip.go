package entity

import "github.com/shopspring/decimal"

// SlipHeader holds the restaurant header printed at the top of a slip.
type SlipHeader struct {
	StoreName string `json:"store_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// SlipItem represents a single line item on a slip.
type SlipItem struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"`
}

// PaymentSlip is a value object representing a printable payment slip.
// It is composed from the ticket and the payment intent at print time.
type PaymentSlip struct {
	Header         SlipHeader      `json:"header"`
	OrderID        string          `json:"order_id"`
	Reference      string          `json:"reference,omitempty"`
	Date           string          `json:"date"`
	Cashier        string          `json:"cashier,omitempty"`
	Method         string          `json:"method"`
	Items          []SlipItem      `json:"items"`
	Total          decimal.Decimal `json:"total"`
	PreviouslyPaid decimal.Decimal `json:"previously_paid"`
	Paid           decimal.Decimal `json:"paid"`
	CashReceived   decimal.Decimal `json:"cash_received"`
	Change         decimal.Decimal `json:"change"`
	Due            decimal.Decimal `json:"due"`
}
