package checkout

import (
	"sync"

	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/entity"
	"github.com/ORiVS/Vegnbio-POS-sub000/internal/domain/enum"
	"github.com/ORiVS/Vegnbio-POS-sub000/pkg/apperror"
	"github.com/google/uuid"
)

// Session is one open checkout dialog. It owns the single ticket snapshot the
// dialog computes against. Once dismissed, results of fetches or commits that
// were started for it must be dropped; Accept reports whether that is the case.
type Session struct {
	ID           uuid.UUID
	RestaurantID string
	OrderID      string

	mu        sync.Mutex
	ticket    *entity.Ticket
	dismissed bool
}

// NewSession opens a checkout session for one order of one restaurant.
func NewSession(restaurantID, orderID string) *Session {
	return &Session{
		ID:           uuid.New(),
		RestaurantID: restaurantID,
		OrderID:      orderID,
	}
}

// Accept reports whether a late result for this session may still be applied.
func (s *Session) Accept() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.dismissed
}

// SetTicket stores a freshly fetched snapshot. It returns false, leaving the
// session untouched, when the session was already dismissed.
func (s *Session) SetTicket(t entity.Ticket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.dismissed {
		return false
	}
	s.ticket = &t
	return true
}

// Ticket returns the current snapshot, if one has arrived.
func (s *Session) Ticket() (entity.Ticket, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ticket == nil {
		return entity.Ticket{}, false
	}
	return *s.ticket, true
}

// Quote calculates against the current snapshot. Without a snapshot there is
// nothing to collect yet.
func (s *Session) Quote(method enum.PaymentMethod, amountGiven string) (entity.PaymentIntent, error) {
	t, ok := s.Ticket()
	if !ok {
		return entity.PaymentIntent{Method: method}, apperror.ErrNothingToCollect
	}
	return Calculate(t, method, amountGiven)
}

// Dismiss closes the dialog. It is safe to call more than once.
func (s *Session) Dismiss() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.dismissed = true
	s.ticket = nil
}
