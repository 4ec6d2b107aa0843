package enums

import "fmt"

// OutboxAggregateType maps to the aggregate_type enum in Postgres.
type OutboxAggregateType string

const (
	AggregateGuest           OutboxAggregateType = "guest"
	AggregateTicketReceipt   OutboxAggregateType = "ticket_receipt"
	AggregateRefundReceipt   OutboxAggregateType = "refund_receipt"
	AggregateDonationReceipt OutboxAggregateType = "donation_receipt"
)

var validAggregateTypes = []OutboxAggregateType{
	AggregateGuest,
	AggregateTicketReceipt,
	AggregateRefundReceipt,
	AggregateDonationReceipt,
}

// IsValid reports whether the value matches the canonical aggregate_type enum.
func (a OutboxAggregateType) IsValid() bool {
	for _, candidate := range validAggregateTypes {
		if candidate == a {
			return true
		}
	}
	return false
}

// ParseOutboxAggregateType converts raw input into OutboxAggregateType.
func ParseOutboxAggregateType(value string) (OutboxAggregateType, error) {
	for _, candidate := range validAggregateTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid aggregate type %q", value)
}

// OutboxEventType maps to the event_type enum in Postgres.
type OutboxEventType string

const (
	EventGuestIssued      OutboxEventType = "guest_issued"
	EventReceiptRecorded  OutboxEventType = "receipt_recorded"
	EventRefundRecorded   OutboxEventType = "refund_recorded"
	EventDonationRecorded OutboxEventType = "donation_recorded"
)

var validOutboxEventTypes = []OutboxEventType{
	EventGuestIssued,
	EventReceiptRecorded,
	EventRefundRecorded,
	EventDonationRecorded,
}

// IsValid reports whether the value matches the canonical event_type enum.
func (e OutboxEventType) IsValid() bool {
	for _, candidate := range validOutboxEventTypes {
		if candidate == e {
			return true
		}
	}
	return false
}

// ParseOutboxEventType converts raw input into OutboxEventType.
func ParseOutboxEventType(value string) (OutboxEventType, error) {
	for _, candidate := range validOutboxEventTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid event type %q", value)
}
