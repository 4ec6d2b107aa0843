package enums

import "fmt"

// GuestStatus tracks the lifecycle of an issued guest ticket. Paid
// registrations only exist after webhook fulfillment, so there is no
// persisted pending state.
type GuestStatus string

const (
	GuestStatusIssued            GuestStatus = "issued"
	GuestStatusRefunded          GuestStatus = "refunded"
	GuestStatusPartiallyRefunded GuestStatus = "partially_refunded"
)

var validGuestStatuses = []GuestStatus{
	GuestStatusIssued,
	GuestStatusRefunded,
	GuestStatusPartiallyRefunded,
}

// String implements fmt.Stringer.
func (g GuestStatus) String() string {
	return string(g)
}

// IsValid reports whether the value is a known GuestStatus.
func (g GuestStatus) IsValid() bool {
	for _, candidate := range validGuestStatuses {
		if candidate == g {
			return true
		}
	}
	return false
}

// ParseGuestStatus converts raw input into a GuestStatus.
func ParseGuestStatus(value string) (GuestStatus, error) {
	for _, candidate := range validGuestStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid guest status %q", value)
}
