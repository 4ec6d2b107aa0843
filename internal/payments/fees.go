package payments

import "github.com/shopspring/decimal"

// Platform fee schedule. Ticket sales carry a 5% fee with a floor,
// donations carry 3.1% plus a fixed 40 cents.
var (
	ticketFeePercent   = decimal.NewFromFloat(0.05)
	donationFeePercent = decimal.NewFromFloat(0.031)
	donationFeeFixed   = decimal.NewFromFloat(0.40)
)

const minTicketFeeCents int64 = 150

// Cents converts a dollar amount to whole cents, truncating sub-cent dust.
func Cents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).IntPart()
}

// Dollars converts whole cents back to a dollar amount.
func Dollars(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}

// TicketFeeCents returns the platform fee for a ticket order. The fee is 5%
// of the order total and never less than minTicketFeeCents.
func TicketFeeCents(unitPrice decimal.Decimal, quantity int) int64 {
	total := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
	fee := Cents(total.Mul(ticketFeePercent))
	if fee < minTicketFeeCents {
		return minTicketFeeCents
	}
	return fee
}

// DonationFeeCents returns the platform fee for a donation.
func DonationFeeCents(amount decimal.Decimal) int64 {
	return Cents(amount.Mul(donationFeePercent).Add(donationFeeFixed))
}
