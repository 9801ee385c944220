// Package checkout computes the payment instruction for a ticket: how much to
// record against the order, how much change to hand back and what is still
// owed after a partial cash tender. It performs no I/O.
package checkout

import (
	"strings"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/enum"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/apperror"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/money"
	"github.com/shopspring/decimal"
)

// Calculate builds the payment intent for paying ticket t with method.
// amountGiven is the tendered cash as typed by the cashier; it is ignored for
// card payments and an empty value means the customer pays the exact
// remaining amount.
//
// The intent is always returned, even when err is non-nil, so a dialog can keep
// showing live change and remainder figures while submission is blocked.
func Calculate(t entity.Ticket, method enum.PaymentMethod, amountGiven string) (entity.PaymentIntent, error) {
	remaining := t.Remaining()

	switch method {
	case enum.PaymentMethodCard:
		return card(remaining)
	case enum.PaymentMethodCash:
		return cash(remaining, amountGiven)
	}
	return entity.PaymentIntent{Method: method, Remaining: remaining}, apperror.NewBadRequestError("Unsupported payment method")
}

func card(remaining decimal.Decimal) (entity.PaymentIntent, error) {
	intent := entity.PaymentIntent{
		Method:           enum.PaymentMethodCard,
		EffectiveGiven:   remaining,
		Remaining:        remaining,
		AmountToRecord:   remaining,
		ChangeDue:        decimal.Zero,
		PartialRemainder: decimal.Zero,
	}
	if !money.InRange(remaining) {
		return intent, apperror.ErrInvalidAmount
	}
	if !remaining.IsPositive() {
		return intent, apperror.ErrNothingToCollect
	}
	return intent, nil
}

func cash(remaining decimal.Decimal, amountGiven string) (entity.PaymentIntent, error) {
	intent := entity.PaymentIntent{
		Method:    enum.PaymentMethodCash,
		Remaining: remaining,
	}

	var invalid bool
	text := strings.TrimSpace(amountGiven)
	if text == "" {
		intent.EffectiveGiven = remaining
	} else {
		parsed, ok := money.ParseString(text)
		invalid = !ok || !parsed.IsPositive()
		given := money.Round2(money.NonNegative(parsed))
		intent.AmountGiven = &given
		intent.EffectiveGiven = given
	}

	given := intent.EffectiveGiven
	intent.AmountToRecord = money.Round2(decimal.Min(remaining, given))
	intent.ChangeDue = money.Round2(money.NonNegative(given.Sub(remaining)))
	intent.PartialRemainder = money.Round2(money.NonNegative(remaining.Sub(given)))
	intent.Partial = given.IsPositive() && given.LessThan(remaining)

	if invalid || !money.InRange(given) || !money.InRange(remaining) {
		return intent, apperror.ErrInvalidAmount
	}
	if !intent.AmountToRecord.IsPositive() {
		return intent, apperror.ErrNothingToCollect
	}
	return intent, nil
}

// Validate returns only the error Calculate would report.
func Validate(t entity.Ticket, method enum.PaymentMethod, amountGiven string) error {
	_, err := Calculate(t, method, amountGiven)
	return err
}
