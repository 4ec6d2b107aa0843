package payments

// Checkout session metadata keys. Webhook fulfillment reads these back, so
// the names are part of the wire contract with Stripe.
const (
	MetaGuestFirstName   = "guest_first_name"
	MetaGuestLastName    = "guest_last_name"
	MetaGuestEmail       = "guest_email"
	MetaGuestPhoneNumber = "guest_phone_number"
	MetaEventID          = "event_id"
	MetaTicketID         = "ticket_id"
	MetaQuantity         = "quantity"
	MetaHostID           = "host_id"
	MetaHostStripeID     = "host_stripe_id"
	MetaUnitPrice        = "unit_price"
	MetaType             = "type"
	MetaFee              = "fee"
	MetaReceiptID        = "receipt_id"
)
