package checkout

import (
	"strings"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/apperror"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/money"
	"github.com/shopspring/decimal"
)

// Denominations are the quick tender buttons offered for cash payments.
var Denominations = []decimal.Decimal{
	decimal.NewFromInt(5),
	decimal.NewFromInt(10),
	decimal.NewFromInt(20),
	decimal.NewFromInt(50),
	decimal.NewFromInt(100),
}

// TenderAction is a quick tender mutation of the tendered amount.
type TenderAction string

const (
	TenderAdd   TenderAction = "add"
	TenderExact TenderAction = "exact"
	TenderClear TenderAction = "clear"
)

// IsDenomination reports whether d is one of the quick tender denominations.
func IsDenomination(d decimal.Decimal) bool {
	for _, v := range Denominations {
		if v.Equal(d) {
			return true
		}
	}
	return false
}

// AddTender adds amount to the tendered text. Empty or unreadable text counts
// as zero.
func AddTender(current string, amount decimal.Decimal) string {
	base := money.NonNegative(money.Coerce(strings.TrimSpace(current)))
	return money.Format(base.Add(amount))
}

// ExactTender returns the tendered text for paying exactly what is left on t.
func ExactTender(t entity.Ticket) string {
	return money.Format(t.Remaining())
}

// ClearTender empties the tendered amount, which means "pay exact".
func ClearTender() string {
	return ""
}

// ApplyTender runs a quick tender action against the current tendered text.
func ApplyTender(t entity.Ticket, current string, action TenderAction, denomination decimal.Decimal) (string, error) {
	switch action {
	case TenderAdd:
		if !IsDenomination(denomination) {
			return current, apperror.NewBadRequestError("Unsupported denomination")
		}
		return AddTender(current, denomination), nil
	case TenderExact:
		return ExactTender(t), nil
	case TenderClear:
		return ClearTender(), nil
	}
	return current, apperror.NewBadRequestError("Unsupported tender action")
}
