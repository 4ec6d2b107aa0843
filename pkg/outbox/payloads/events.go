package payloads

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// GuestIssued is emitted when a guest ticket is created, free or paid.
type GuestIssued struct {
	GuestID    uuid.UUID `json:"guestId"`
	EventID    uuid.UUID `json:"eventId"`
	TicketID   uuid.UUID `json:"ticketId"`
	EventName  string    `json:"eventName"`
	TicketName string    `json:"ticketName"`
	FirstName  string    `json:"firstName"`
	LastName   string    `json:"lastName"`
	Email      string    `json:"email"`
	Quantity   int       `json:"quantity"`
	EventKey   string    `json:"eventKey"`
	GuestKey   string    `json:"guestKey"`
}

// ReceiptRecorded is emitted after a paid registration is fulfilled.
type ReceiptRecorded struct {
	ReceiptID  uuid.UUID       `json:"receiptId"`
	GuestID    uuid.UUID       `json:"guestId"`
	EventName  string          `json:"eventName"`
	TicketName string          `json:"ticketName"`
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	Email      string          `json:"email"`
	Quantity   int             `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unitPrice"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
}

// RefundRecorded is emitted when a Stripe refund is confirmed.
type RefundRecorded struct {
	RefundID  uuid.UUID       `json:"refundId"`
	ReceiptID uuid.UUID       `json:"receiptId"`
	EventName string          `json:"eventName"`
	FirstName string          `json:"firstName"`
	LastName  string          `json:"lastName"`
	Email     string          `json:"email"`
	Amount    decimal.Decimal `json:"amount"`
}

// DonationRecorded is emitted when a donation checkout is fulfilled.
type DonationRecorded struct {
	DonationID uuid.UUID       `json:"donationId"`
	EventName  string          `json:"eventName"`
	FirstName  string          `json:"firstName"`
	LastName   string          `json:"lastName"`
	Email      string          `json:"email"`
	TotalPaid  decimal.Decimal `json:"totalPaid"`
}
