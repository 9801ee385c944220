package request

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/money"
	"github.com/shopspring/decimal"
)

// AmountText is a money amount exactly as the terminal typed it. Terminals
// send it either as a JSON string ("20", "14,90") or as a bare number; null
// and absent both mean empty.
type AmountText string

func (a *AmountText) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*a = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*a = AmountText(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*a = AmountText(n.String())
	return nil
}

func (a AmountText) String() string {
	return strings.TrimSpace(string(a))
}

// Decimal parses the amount. Empty or unreadable text yields false.
func (a AmountText) Decimal() (decimal.Decimal, bool) {
	if a.String() == "" {
		return decimal.Zero, false
	}
	return money.ParseString(a.String())
}

// Fallback holds ticket totals the terminal already knows from its order list
type Fallback struct {
	TotalDue   AmountText `json:"fallback_total_due" form:"fallback_total_due"`
	PaidAmount AmountText `json:"fallback_paid_amount" form:"fallback_paid_amount"`
}

// Totals returns nil unless a fallback total due was provided.
func (f Fallback) Totals() *entity.Totals {
	total, ok := f.TotalDue.Decimal()
	if !ok {
		return nil
	}
	paid, _ := f.PaidAmount.Decimal()
	return &entity.Totals{TotalDue: total, PaidAmount: paid}
}

// QuoteRequest is the request body for quoting a payment
type QuoteRequest struct {
	Method      string     `json:"method" binding:"required"`
	AmountGiven AmountText `json:"amount_given"`
	Fallback
}

// TenderRequest is the request body for a quick tender button
type TenderRequest struct {
	AmountGiven  AmountText `json:"amount_given"`
	Action       string     `json:"action" binding:"required,oneof=add exact clear"`
	Denomination AmountText `json:"denomination"`
	Fallback
}

// PayRequest is the request body for submitting a payment
type PayRequest struct {
	Method      string     `json:"method" binding:"required"`
	AmountGiven AmountText `json:"amount_given"`
	Print       *bool      `json:"print"`
	Fallback
}

// ShouldPrint defaults to printing a slip when the terminal does not say.
func (r PayRequest) ShouldPrint() bool {
	return r.Print == nil || *r.Print
}

// ListPaymentsQuery holds the query parameters of a journal listing
type ListPaymentsQuery struct {
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
	OrderID string `form:"order_id"`
	Method  string `form:"method"`
	From    string `form:"from"`
	To      string `form:"to"`
}

// DateRange parses From and To as dates (2006-01-02) or RFC3339 timestamps.
// A bare To date covers the whole day.
func (q ListPaymentsQuery) DateRange() (from, to *time.Time, ok bool) {
	if q.From != "" {
		t, _, err := parseTime(q.From)
		if err != nil {
			return nil, nil, false
		}
		from = &t
	}
	if q.To != "" {
		t, dateOnly, err := parseTime(q.To)
		if err != nil {
			return nil, nil, false
		}
		if dateOnly {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		to = &t
	}
	return from, to, true
}

func parseTime(s string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, true, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	return t, false, err
}
