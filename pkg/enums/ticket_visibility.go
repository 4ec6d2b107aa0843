package enums

import "fmt"

// TicketVisibility controls whether a ticket appears on the public
// registration form or is reachable only through its private key.
type TicketVisibility string

const (
	TicketVisibilityPublic  TicketVisibility = "public"
	TicketVisibilityPrivate TicketVisibility = "private"
)

var validTicketVisibilities = []TicketVisibility{
	TicketVisibilityPublic,
	TicketVisibilityPrivate,
}

// String implements fmt.Stringer.
func (v TicketVisibility) String() string {
	return string(v)
}

// IsValid reports whether the value is a known TicketVisibility.
func (v TicketVisibility) IsValid() bool {
	for _, candidate := range validTicketVisibilities {
		if candidate == v {
			return true
		}
	}
	return false
}

// ParseTicketVisibility converts raw input into a TicketVisibility.
func ParseTicketVisibility(value string) (TicketVisibility, error) {
	for _, candidate := range validTicketVisibilities {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid ticket visibility %q", value)
}
