package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/config"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/enum"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/money"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/printer"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
)

// PrinterService formats payment slips and sends them to the till printer.
type PrinterService struct {
	printer  printer.Printer
	header   entity.SlipHeader
	currency string
	width    int
	log      *logrus.Logger
}

// NewPrinterService creates a new printer service.
func NewPrinterService(p printer.Printer, cfg config.PrinterConfig, log *logrus.Logger) *PrinterService {
	return &PrinterService{
		printer: p,
		header: entity.SlipHeader{
			StoreName: cfg.StoreName,
			Address:   cfg.StoreAddress,
			Phone:     cfg.StorePhone,
		},
		currency: cfg.Currency,
		width:    printer.Width58mm,
		log:      log,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool      `json:"configured"`
	Connected  bool      `json:"connected"`
	Type       string    `json:"type"`
	Target     string    `json:"target,omitempty"`
	Error      string    `json:"error,omitempty"`
	CheckedAt  time.Time `json:"checked_at"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus(ctx context.Context) *PrinterStatus {
	st := s.printer.Status(ctx)
	return &PrinterStatus{
		Configured: st.Kind != "none",
		Connected:  st.Connected,
		Type:       st.Kind,
		Target:     st.Target,
		Error:      st.Error,
		CheckedAt:  st.CheckedAt,
	}
}

// BuildPaymentSlip composes the slip for a payment the order service accepted.
func (s *PrinterService) BuildPaymentSlip(ticket entity.Ticket, intent entity.PaymentIntent, record *entity.PaymentRecord, cashier string) *entity.PaymentSlip {
	slip := &entity.PaymentSlip{
		Header:         s.header,
		OrderID:        record.OrderID,
		Reference:      record.RemoteReference,
		Date:           record.CreatedAt.Format("2006-01-02 15:04"),
		Cashier:        cashier,
		Method:         intent.Method.String(),
		Items:          make([]entity.SlipItem, 0, len(ticket.Items)),
		Total:          ticket.TotalDue,
		PreviouslyPaid: ticket.PaidAmount,
		Paid:           intent.AmountToRecord,
		Change:         intent.ChangeDue,
		Due:            intent.PartialRemainder,
	}
	if intent.Method == enum.PaymentMethodCash {
		slip.CashReceived = intent.EffectiveGiven
	}

	for _, item := range ticket.Items {
		name := item.Name
		if name == "" {
			name = "Item"
		}
		slip.Items = append(slip.Items, entity.SlipItem{
			Name:      name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Total:     item.Total(),
		})
	}
	return slip
}

// PrintPaymentSlip prints a slip. Cash slips also kick the cash drawer open.
func (s *PrinterService) PrintPaymentSlip(ctx context.Context, slip *entity.PaymentSlip) error {
	data := FormatPaymentSlip(slip, s.currency, s.width)
	if err := s.printer.Print(ctx, data); err != nil {
		s.log.WithFields(logrus.Fields{
			"order_id": slip.OrderID,
			"printer":  s.printer.Kind(),
		}).WithError(err).Error("Printer error")
		return fmt.Errorf("failed to print payment slip: %w", err)
	}
	return nil
}

// TestPrint sends a sample slip to the printer and returns it.
func (s *PrinterService) TestPrint(ctx context.Context) (*entity.PaymentSlip, error) {
	slip := &entity.PaymentSlip{
		Header:  s.header,
		OrderID: "TEST-001",
		Date:    time.Now().Format("2006-01-02 15:04"),
		Cashier: "System",
		Method:  enum.PaymentMethodCard.String(),
		Items:   []entity.SlipItem{{Name: "Test item", Quantity: 1, UnitPrice: decimal.NewFromInt(10), Total: decimal.NewFromInt(10)}},
		Total:   decimal.NewFromInt(10),
		Paid:    decimal.NewFromInt(10),
		Change:  decimal.Zero,
		Due:     decimal.Zero,
	}
	if err := s.printer.Print(ctx, FormatPaymentSlip(slip, s.currency, s.width)); err != nil {
		return slip, fmt.Errorf("test print failed: %w", err)
	}
	return slip, nil
}

// FormatPaymentSlip converts a slip into ESC/POS bytes.
func FormatPaymentSlip(slip *entity.PaymentSlip, currency string, width int) []byte {
	amount := func(d decimal.Decimal) string {
		return money.FormatWithSymbol(d, currency)
	}

	doc := printer.NewDocument(width)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(slip.Header.StoreName).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if slip.Header.Address != "" {
		doc.Text(slip.Header.Address)
	}
	if slip.Header.Phone != "" {
		doc.Text(slip.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Order:", slip.OrderID).
		KeyValue("Date:", slip.Date)
	if slip.Reference != "" {
		doc.KeyValue("Ref:", slip.Reference)
	}
	if slip.Cashier != "" {
		doc.KeyValue("Cashier:", slip.Cashier)
	}
	doc.KeyValue("Payment:", slip.Method).
		Separator('-')

	for _, item := range slip.Items {
		doc.ItemLine(item.Quantity, item.Name, money.Format(item.Total))
		if item.Quantity > 1 {
			doc.TextF("  @ %s each", money.Format(item.UnitPrice))
		}
	}
	if len(slip.Items) > 0 {
		doc.Separator('-')
	}

	doc.SetBold(true).
		KeyValue("TOTAL:", amount(slip.Total)).
		SetBold(false)
	if slip.PreviouslyPaid.IsPositive() {
		doc.KeyValue("Already paid:", amount(slip.PreviouslyPaid))
	}
	doc.KeyValue("Paid now:", amount(slip.Paid))
	if slip.CashReceived.IsPositive() {
		doc.KeyValue("Cash received:", amount(slip.CashReceived))
	}
	if slip.Change.IsPositive() {
		doc.SetBold(true).
			KeyValue("CHANGE:", amount(slip.Change)).
			SetBold(false)
	}
	if slip.Due.IsPositive() {
		doc.KeyValue("Still due:", amount(slip.Due))
	}

	doc.Separator('-').
		SetAlign(printer.AlignCenter).
		FeedLines(1).
		Text("Merci et a bientot !").
		SetAlign(printer.AlignLeft).
		FeedLines(3).
		PartialCut()

	if strings.EqualFold(slip.Method, enum.PaymentMethodCash.String()) {
		doc.OpenDrawer()
	}

	return doc.Bytes()
}
