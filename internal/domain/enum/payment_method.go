package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentMethod represents how a sale was paid
type PaymentMethod int

const (
	PaymentMethodCash PaymentMethod = iota
	PaymentMethodCard
	PaymentMethodEWallet
	PaymentMethodQRPay
)

func (m PaymentMethod) String() string {
	switch m {
	case PaymentMethodCash:
		return "Cash"
	case PaymentMethodCard:
		return "Card"
	case PaymentMethodEWallet:
		return "E-Wallet"
	case PaymentMethodQRPay:
		return "QR Pay"
	}
	return "Cash"
}

// Valid reports whether the value is one of the four known methods
func (m PaymentMethod) Valid() bool {
	return m >= PaymentMethodCash && m <= PaymentMethodQRPay
}

func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		// Try unmarshaling as int
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*m = PaymentMethod(i)
		return nil
	}
	*m = ParsePaymentMethod(str)
	return nil
}

// ParsePaymentMethod maps a label to its PaymentMethod, defaulting to Cash
func ParsePaymentMethod(s string) PaymentMethod {
	switch s {
	case "Cash", "cash":
		return PaymentMethodCash
	case "Card", "card":
		return PaymentMethodCard
	case "E-Wallet", "ewallet", "e-wallet":
		return PaymentMethodEWallet
	case "QR Pay", "qr", "qrpay", "qr-pay":
		return PaymentMethodQRPay
	}
	return PaymentMethodCash
}

func (m PaymentMethod) Value() (driver.Value, error) {
	return int64(m), nil
}

func (m *PaymentMethod) Scan(value interface{}) error {
	if value == nil {
		*m = PaymentMethodCash
		return nil
	}
	switch v := value.(type) {
	case int64:
		*m = PaymentMethod(v)
	case int:
		*m = PaymentMethod(v)
	}
	return nil
}
