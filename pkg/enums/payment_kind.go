package enums

import "fmt"

// PaymentKind distinguishes what a Stripe Checkout session pays for. The
// value travels in session metadata and routes webhook fulfillment.
type PaymentKind string

const (
	PaymentKindTicket   PaymentKind = "ticket"
	PaymentKindDonation PaymentKind = "donation"
)

var validPaymentKinds = []PaymentKind{
	PaymentKindTicket,
	PaymentKindDonation,
}

// String implements fmt.Stringer.
func (p PaymentKind) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentKind.
func (p PaymentKind) IsValid() bool {
	for _, candidate := range validPaymentKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentKind converts raw input into a PaymentKind.
func ParsePaymentKind(value string) (PaymentKind, error) {
	for _, candidate := range validPaymentKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment kind %q", value)
}
