package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/application/checkout"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/enum"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/apperror"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/money"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
)

// DefaultTimeout bounds each fetch and commit issued by the dialog.
const DefaultTimeout = 10 * time.Second

// quick tender keys, in the order of checkout.Denominations
var tenderKeys = []string{"a", "s", "d", "f", "g"}

type ticketMsg struct {
	session uuid.UUID
	ticket  entity.Ticket
	err     error
}

type paymentMsg struct {
	session uuid.UUID
	ticket  *entity.Ticket
	intent  entity.PaymentIntent
	conf    *entity.PaymentConfirmation
	err     error
}

// Model is the cashier's checkout dialog for one order.
type Model struct {
	backend   Backend
	orderID   string
	storeName string
	timeout   time.Duration

	session     *checkout.Session
	method      enum.PaymentMethod
	amountGiven string

	loading    bool
	submitting bool
	dismissed  bool
	status     string
	lastError  string
}

// NewModel opens a checkout dialog for orderID.
func NewModel(backend Backend, restaurantID, orderID, storeName string) Model {
	return Model{
		backend:   backend,
		orderID:   orderID,
		storeName: storeName,
		timeout:   DefaultTimeout,
		session:   checkout.NewSession(restaurantID, orderID),
		method:    enum.PaymentMethodCash,
		loading:   true,
	}
}

func (m Model) Init() tea.Cmd {
	return m.fetch()
}

// current reports whether a result started for id may still touch the dialog.
func (m Model) current(id uuid.UUID) bool {
	return m.session != nil && m.session.ID == id && m.session.Accept()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case ticketMsg:
		if !m.current(msg.session) {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.lastError = apperror.GetAppError(msg.err).Message
			return m, nil
		}
		m.session.SetTicket(msg.ticket)
		m.lastError = ""

	case paymentMsg:
		if !m.current(msg.session) {
			return m, nil
		}
		m.submitting = false
		if msg.ticket != nil {
			m.session.SetTicket(*msg.ticket)
		}
		if msg.err != nil {
			m.lastError = apperror.GetAppError(msg.err).Message
			return m, nil
		}
		m.lastError = ""
		m.status = recordedStatus(msg.intent, msg.conf)
		m.amountGiven = ""
		m.loading = true
		return m, m.fetch()
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "ctrl+c", "q":
		m.session.Dismiss()
		return m, tea.Quit
	}

	if m.dismissed {
		if key == "r" {
			m.session = checkout.NewSession(m.session.RestaurantID, m.orderID)
			m.dismissed = false
			m.loading = true
			m.status = ""
			m.lastError = ""
			m.amountGiven = ""
			return m, m.fetch()
		}
		return m, nil
	}

	switch key {
	case "esc":
		m.session.Dismiss()
		m.dismissed = true
		m.submitting = false
		m.loading = false
		m.status = "Checkout dismissed"
		return m, nil
	case "tab":
		if m.method == enum.PaymentMethodCash {
			m.method = enum.PaymentMethodCard
		} else {
			m.method = enum.PaymentMethodCash
		}
		m.lastError = ""
		return m, nil
	case "enter":
		return m.submitPayment()
	}

	if m.method != enum.PaymentMethodCash || m.submitting {
		return m, nil
	}

	for i, k := range tenderKeys {
		if key == k {
			m.amountGiven = checkout.AddTender(m.amountGiven, checkout.Denominations[i])
			m.lastError = ""
			return m, nil
		}
	}

	switch key {
	case "e":
		if t, ok := m.session.Ticket(); ok {
			m.amountGiven = checkout.ExactTender(t)
		}
	case "c":
		m.amountGiven = checkout.ClearTender()
	case "backspace":
		if r := []rune(m.amountGiven); len(r) > 0 {
			m.amountGiven = string(r[:len(r)-1])
		}
	default:
		if isAmountKey(key) {
			m.amountGiven += key
		}
	}
	m.lastError = ""
	return m, nil
}

func (m Model) submitPayment() (tea.Model, tea.Cmd) {
	if m.submitting || m.loading {
		return m, nil
	}
	if _, err := m.session.Quote(m.method, m.amountGiven); err != nil {
		m.lastError = apperror.GetAppError(err).Message
		return m, nil
	}
	m.submitting = true
	m.lastError = ""
	m.status = "Submitting payment..."
	return m, m.submit()
}

func (m Model) fetch() tea.Cmd {
	session, backend, orderID, timeout := m.session, m.backend, m.orderID, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		t, err := backend.FetchTicket(ctx, orderID)
		return ticketMsg{session: session.ID, ticket: t, err: err}
	}
}

// submit validates against a fresh ticket before committing. Nothing is
// committed once the dialog has been dismissed.
func (m Model) submit() tea.Cmd {
	session, backend, orderID, timeout := m.session, m.backend, m.orderID, m.timeout
	method, amount := m.method, m.amountGiven
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		fresh, err := backend.FetchTicket(ctx, orderID)
		if err != nil {
			return paymentMsg{session: session.ID, err: fmt.Errorf("%w: %v", apperror.ErrPaymentFailed, err)}
		}
		if !session.Accept() {
			return paymentMsg{session: session.ID}
		}

		intent, err := checkout.Calculate(fresh, method, amount)
		if err != nil {
			return paymentMsg{session: session.ID, ticket: &fresh, intent: intent, err: err}
		}

		conf, err := backend.CommitPayment(ctx, orderID, intent)
		return paymentMsg{session: session.ID, ticket: &fresh, intent: intent, conf: conf, err: err}
	}
}

func recordedStatus(intent entity.PaymentIntent, conf *entity.PaymentConfirmation) string {
	b := &strings.Builder{}
	fmt.Fprintf(b, "Recorded %s %s", money.Format(intent.AmountToRecord), intent.Method)
	if intent.ChangeDue.IsPositive() {
		fmt.Fprintf(b, ", change %s", money.Format(intent.ChangeDue))
	}
	if intent.Partial {
		fmt.Fprintf(b, ", %s still due", money.Format(intent.PartialRemainder))
	}
	if conf != nil && conf.Reference != "" {
		fmt.Fprintf(b, " (ref %s)", conf.Reference)
	}
	return b.String()
}

func isAmountKey(key string) bool {
	if len(key) != 1 {
		return false
	}
	c := key[0]
	return (c >= '0' && c <= '9') || c == '.' || c == ','
}

func (m Model) View() string {
	b := &strings.Builder{}
	title := m.storeName
	if title == "" {
		title = "Checkout"
	}
	fmt.Fprintf(b, "%s | order %s\n\n", title, m.orderID)

	if m.dismissed {
		fmt.Fprintf(b, "%s\n\nControls: r reopen, q quit\n", m.status)
		return b.String()
	}

	t, ok := m.session.Ticket()
	switch {
	case m.loading && !ok:
		fmt.Fprintln(b, "Loading ticket...")
	case !ok:
		fmt.Fprintln(b, "No ticket loaded")
	default:
		for _, item := range t.Items {
			fmt.Fprintf(b, " %-24s x%-3d %10s\n", item.Name, item.Quantity, money.Format(item.Total()))
		}
		fmt.Fprintln(b, "")
		fmt.Fprintf(b, " %-29s %10s\n", "Total due", money.Format(t.TotalDue))
		fmt.Fprintf(b, " %-29s %10s\n", "Paid", money.Format(t.PaidAmount))
		fmt.Fprintf(b, " %-29s %10s\n", "Remaining", money.Format(t.Remaining()))
	}

	fmt.Fprintln(b, "")
	cash, card := " CASH ", " CARD "
	if m.method == enum.PaymentMethodCash {
		cash = "[CASH]"
	} else {
		card = "[CARD]"
	}
	fmt.Fprintf(b, "Method: %s %s\n", cash, card)

	if ok {
		intent, _ := m.session.Quote(m.method, m.amountGiven)
		if m.method == enum.PaymentMethodCash {
			given := m.amountGiven
			if given == "" {
				given = "(exact)"
			}
			fmt.Fprintf(b, "Given:     %s\n", given)
			fmt.Fprintf(b, "To record: %s\n", money.Format(intent.AmountToRecord))
			fmt.Fprintf(b, "Change:    %s\n", money.Format(intent.ChangeDue))
			if intent.Partial {
				fmt.Fprintf(b, "Partial payment, %s left to pay\n", money.Format(intent.PartialRemainder))
			}
		} else {
			fmt.Fprintf(b, "To record: %s\n", money.Format(intent.AmountToRecord))
		}
	}

	if m.lastError != "" {
		fmt.Fprintf(b, "\n! %s\n", m.lastError)
	}
	if m.status != "" {
		fmt.Fprintf(b, "\n%s\n", m.status)
	}

	fmt.Fprintln(b, "\nControls: tab method, a/s/d/f/g +5/10/20/50/100, e exact, c clear, enter pay, esc dismiss, q quit")
	return b.String()
}
