package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/application/checkout"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/application/normalizer"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/enum"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/repository"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/infrastructure/events"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/infrastructure/metrics"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/apperror"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/money"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/pagination"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// OrderGateway is the remote order service as checkout needs it.
type OrderGateway interface {
	FetchTicket(ctx context.Context, restaurantID, orderID string) (json.RawMessage, error)
	CommitPayment(ctx context.Context, commit entity.PaymentCommit) (*entity.PaymentConfirmation, error)
}

// CheckoutService fetches tickets, computes payment intents and commits
// payments to the order service. Successful commits are journaled, published
// and printed; failures of those follow-ups are logged and never undo a
// payment the order service already accepted.
type CheckoutService struct {
	orders    OrderGateway
	payments  repository.PaymentRecordRepository
	publisher events.Publisher
	printer   *PrinterService
	metrics   *metrics.Metrics
	log       *logrus.Logger
	now       func() time.Time
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	orders OrderGateway,
	payments repository.PaymentRecordRepository,
	publisher events.Publisher,
	printerService *PrinterService,
	m *metrics.Metrics,
	log *logrus.Logger,
) *CheckoutService {
	return &CheckoutService{
		orders:    orders,
		payments:  payments,
		publisher: publisher,
		printer:   printerService,
		metrics:   m,
		log:       log,
		now:       time.Now,
	}
}

// CheckoutView is what a terminal needs to render the checkout dialog.
type CheckoutView struct {
	Ticket        entity.Ticket          `json:"ticket"`
	Remaining     decimal.Decimal        `json:"remaining"`
	Settled       bool                   `json:"settled"`
	CardQuote     entity.PaymentIntent   `json:"card_quote"`
	CashQuote     entity.PaymentIntent   `json:"cash_quote"`
	Denominations []decimal.Decimal      `json:"denominations"`
	Payments      []entity.PaymentRecord `json:"payments"`
}

// OpenCheckout fetches a fresh ticket for an order and quotes both methods.
// fallback, when set, stands in for a ticket response that carries no totals.
func (s *CheckoutService) OpenCheckout(ctx context.Context, restaurantID uuid.UUID, orderID string, fallback *entity.Totals) (*CheckoutView, error) {
	ticket, err := s.fetchTicket(ctx, restaurantID, orderID, fallback)
	if err != nil {
		return nil, err
	}

	card, _ := checkout.Calculate(ticket, enum.PaymentMethodCard, "")
	cash, _ := checkout.Calculate(ticket, enum.PaymentMethodCash, "")

	history, err := s.payments.ListByOrder(ctx, restaurantID, orderID)
	if err != nil {
		s.log.WithError(err).WithField("order_id", orderID).Warn("Failed to load payment history")
		history = nil
	}
	if history == nil {
		history = []entity.PaymentRecord{}
	}

	return &CheckoutView{
		Ticket:        ticket,
		Remaining:     ticket.Remaining(),
		Settled:       ticket.IsSettled(),
		CardQuote:     card,
		CashQuote:     cash,
		Denominations: checkout.Denominations,
		Payments:      history,
	}, nil
}

// QuoteInput holds the parameters of a quote
type QuoteInput struct {
	RestaurantID uuid.UUID
	OrderID      string
	Method       enum.PaymentMethod
	AmountGiven  string
	Fallback     *entity.Totals
}

// QuoteResult is a payment intent plus the reason it cannot be submitted, if any.
type QuoteResult struct {
	Ticket     entity.Ticket        `json:"ticket"`
	Intent     entity.PaymentIntent `json:"intent"`
	CanSubmit  bool                 `json:"can_submit"`
	BlockedBy  string               `json:"blocked_by,omitempty"`
	BlockedMsg string               `json:"blocked_message,omitempty"`
}

// Quote recomputes the payment intent against a fresh ticket. It never commits.
func (s *CheckoutService) Quote(ctx context.Context, input *QuoteInput) (*QuoteResult, error) {
	ticket, err := s.fetchTicket(ctx, input.RestaurantID, input.OrderID, input.Fallback)
	if err != nil {
		return nil, err
	}
	return quote(ticket, input.Method, input.AmountGiven), nil
}

func quote(ticket entity.Ticket, method enum.PaymentMethod, amountGiven string) *QuoteResult {
	intent, err := checkout.Calculate(ticket, method, amountGiven)
	res := &QuoteResult{Ticket: ticket, Intent: intent, CanSubmit: err == nil}
	if err != nil {
		res.BlockedBy = rejectionReason(err)
		res.BlockedMsg = apperror.GetAppError(err).Message
	}
	return res
}

// TenderInput holds a quick tender action
type TenderInput struct {
	RestaurantID uuid.UUID
	OrderID      string
	AmountGiven  string
	Action       checkout.TenderAction
	Denomination decimal.Decimal
	Fallback     *entity.Totals
}

// TenderResult is the updated tendered text and the cash quote for it.
type TenderResult struct {
	AmountGiven string       `json:"amount_given"`
	Quote       *QuoteResult `json:"quote"`
}

// Tender applies a quick tender button (add a denomination, exact, clear) and
// re-quotes the cash payment.
func (s *CheckoutService) Tender(ctx context.Context, input *TenderInput) (*TenderResult, error) {
	ticket, err := s.fetchTicket(ctx, input.RestaurantID, input.OrderID, input.Fallback)
	if err != nil {
		return nil, err
	}

	given, err := checkout.ApplyTender(ticket, input.AmountGiven, input.Action, input.Denomination)
	if err != nil {
		return nil, err
	}

	return &TenderResult{
		AmountGiven: given,
		Quote:       quote(ticket, enum.PaymentMethodCash, given),
	}, nil
}

// PayInput holds a payment submission
type PayInput struct {
	RestaurantID uuid.UUID
	StaffID      uuid.UUID
	Cashier      string
	OrderID      string
	Method       enum.PaymentMethod
	AmountGiven  string
	PrintSlip    bool
	Fallback     *entity.Totals
}

// PaymentResult describes a committed payment.
type PaymentResult struct {
	Record       *entity.PaymentRecord       `json:"record"`
	Intent       entity.PaymentIntent        `json:"intent"`
	Confirmation *entity.PaymentConfirmation `json:"confirmation"`
	Slip         *entity.PaymentSlip         `json:"slip,omitempty"`
	Printed      bool                        `json:"printed"`
}

// Pay validates a payment against a fresh ticket and commits it to the order
// service. Only the amount to record is sent; change stays at the till.
func (s *CheckoutService) Pay(ctx context.Context, input *PayInput) (*PaymentResult, error) {
	ticket, err := s.fetchTicket(ctx, input.RestaurantID, input.OrderID, input.Fallback)
	if err != nil {
		return nil, err
	}

	intent, err := checkout.Calculate(ticket, input.Method, input.AmountGiven)
	if err != nil {
		s.metrics.ObserveRejection(rejectionReason(err))
		return nil, err
	}

	commit := entity.PaymentCommit{
		RestaurantID: input.RestaurantID.String(),
		OrderID:      input.OrderID,
		Method:       intent.Method,
		Amount:       intent.AmountToRecord,
	}

	start := time.Now()
	conf, err := s.orders.CommitPayment(ctx, commit)
	s.metrics.ObserveOrderServiceCall("commit_payment", err, time.Since(start))
	if err != nil {
		s.metrics.ObserveRejection("commit_failed")
		s.log.WithFields(logrus.Fields{
			"restaurant_id": commit.RestaurantID,
			"order_id":      commit.OrderID,
			"method":        commit.Method,
			"amount":        money.Format(commit.Amount),
		}).WithError(err).Error("Payment commit failed")
		return nil, fmt.Errorf("%w: %v", apperror.ErrPaymentFailed, err)
	}
	if conf == nil {
		conf = &entity.PaymentConfirmation{}
	}

	record := &entity.PaymentRecord{
		RestaurantID:     input.RestaurantID,
		OrderID:          input.OrderID,
		StaffID:          input.StaffID,
		Method:           intent.Method,
		AmountRecorded:   money.ToCents(intent.AmountToRecord),
		AmountGiven:      money.ToCents(intent.EffectiveGiven),
		ChangeDue:        money.ToCents(intent.ChangeDue),
		PartialRemainder: money.ToCents(intent.PartialRemainder),
		Partial:          intent.Partial,
		RemoteReference:  conf.Reference,
		CreatedAt:        s.now(),
	}

	logger := s.log.WithFields(logrus.Fields{
		"restaurant_id": commit.RestaurantID,
		"order_id":      record.OrderID,
		"method":        record.Method,
		"amount":        money.Format(intent.AmountToRecord),
		"reference":     record.RemoteReference,
	})

	if err := s.payments.Create(ctx, record); err != nil {
		logger.WithError(err).Error("Failed to journal committed payment")
	}
	if err := s.publisher.PublishPaymentRecorded(ctx, events.NewPaymentRecorded(record)); err != nil {
		logger.WithError(err).Warn("Failed to publish payment event")
	}
	s.metrics.ObservePayment(record.Method.String(), record.Partial, intent.AmountToRecord.InexactFloat64(), intent.ChangeDue.InexactFloat64())

	result := &PaymentResult{Record: record, Intent: intent, Confirmation: conf}
	if input.PrintSlip && s.printer != nil {
		result.Slip = s.printer.BuildPaymentSlip(ticket, intent, record, input.Cashier)
		result.Printed = s.printer.PrintPaymentSlip(ctx, result.Slip) == nil
	}

	logger.Info("Payment recorded")
	return result, nil
}

// ListPayments returns the journal of one restaurant, newest first
func (s *CheckoutService) ListPayments(ctx context.Context, restaurantID uuid.UUID, params *repository.PaymentFilterParams) (*pagination.PaginatedResult[entity.PaymentRecord], error) {
	records, total, err := s.payments.List(ctx, restaurantID, params)
	if err != nil {
		return nil, err
	}
	pag := pagination.NewPagination(params.Page, params.PerPage, total)
	return pagination.NewPaginatedResult(records, pag), nil
}

// GetPayment returns one journal entry of a restaurant
func (s *CheckoutService) GetPayment(ctx context.Context, restaurantID, id uuid.UUID) (*entity.PaymentRecord, error) {
	record, err := s.payments.GetByID(ctx, restaurantID, id)
	if err != nil {
		return nil, err
	}
	if record == nil {
		return nil, apperror.NewNotFoundError("Payment")
	}
	return record, nil
}

// PaymentSummaryReport aggregates the journal per method
type PaymentSummaryReport struct {
	Methods        []entity.PaymentSummary `json:"methods"`
	Count          int64                   `json:"count"`
	AmountRecorded decimal.Decimal         `json:"amount_recorded"`
	ChangeDue      decimal.Decimal         `json:"change_due"`
}

// Summary totals the journal of a restaurant per payment method
func (s *CheckoutService) Summary(ctx context.Context, restaurantID uuid.UUID, params *repository.PaymentFilterParams) (*PaymentSummaryReport, error) {
	rows, err := s.payments.Summary(ctx, restaurantID, params)
	if err != nil {
		return nil, err
	}

	report := &PaymentSummaryReport{Methods: rows, AmountRecorded: decimal.Zero, ChangeDue: decimal.Zero}
	if report.Methods == nil {
		report.Methods = []entity.PaymentSummary{}
	}
	var recorded, change int64
	for _, row := range rows {
		report.Count += row.Count
		recorded += row.AmountRecorded
		change += row.ChangeDue
	}
	report.AmountRecorded = money.FromCents(recorded)
	report.ChangeDue = money.FromCents(change)
	return report, nil
}

func (s *CheckoutService) fetchTicket(ctx context.Context, restaurantID uuid.UUID, orderID string, fallback *entity.Totals) (entity.Ticket, error) {
	if orderID == "" {
		return entity.Ticket{}, apperror.NewBadRequestError("Order ID is required")
	}

	start := time.Now()
	raw, err := s.orders.FetchTicket(ctx, restaurantID.String(), orderID)
	s.metrics.ObserveOrderServiceCall("fetch_ticket", err, time.Since(start))
	if err != nil {
		if !apperror.IsAppError(err) {
			err = fmt.Errorf("%w: %v", apperror.ErrOrderServiceUnavailable, err)
		}
		return entity.Ticket{}, err
	}

	ticket := normalizer.NormalizeJSONWithFallback(raw, fallback)
	if ticket.OrderID == "" {
		ticket.OrderID = orderID
	}
	return ticket, nil
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, apperror.ErrInvalidAmount):
		return "invalid_amount"
	case errors.Is(err, apperror.ErrNothingToCollect):
		return "nothing_to_collect"
	}
	return "invalid_request"
}
