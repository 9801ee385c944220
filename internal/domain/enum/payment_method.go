package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// PaymentMethod represents how a customer settles a ticket
type PaymentMethod string

const (
	PaymentMethodCash PaymentMethod = "CASH"
	PaymentMethodCard PaymentMethod = "CARD"
)

// ParsePaymentMethod accepts any casing of CASH or CARD
func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch PaymentMethod(strings.ToUpper(strings.TrimSpace(s))) {
	case PaymentMethodCash:
		return PaymentMethodCash, nil
	case PaymentMethodCard:
		return PaymentMethodCard, nil
	}
	return "", fmt.Errorf("unknown payment method %q", s)
}

func (m PaymentMethod) String() string {
	return string(m)
}

// IsValid reports whether m is one of the supported methods
func (m PaymentMethod) IsValid() bool {
	return m == PaymentMethodCash || m == PaymentMethodCard
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(m))
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParsePaymentMethod(str)
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return string(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	switch v := value.(type) {
	case string:
		*m = PaymentMethod(v)
	case []byte:
		*m = PaymentMethod(v)
	case nil:
		*m = ""
	default:
		return fmt.Errorf("cannot scan %T into PaymentMethod", value)
	}
	return nil
}
