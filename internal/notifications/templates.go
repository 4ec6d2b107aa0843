package notifications

import (
	"fmt"

	"github.com/avaldez-dev/gatepass-backend/pkg/outbox/payloads"
)

type renderedEmail struct {
	subject string
	html    string
	text    string
}

func renderGuestTicket(payload payloads.GuestIssued, ticketURL string) renderedEmail {
	subject := fmt.Sprintf("Your tickets for %s", payload.EventName)
	text := fmt.Sprintf(
		"Hi %s,\n\nYou're in! %d x %s for %s.\n\nView your ticket here: %s\n\nPresent the QR code on that page at the door.",
		payload.FirstName, payload.Quantity, payload.TicketName, payload.EventName, ticketURL,
	)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>You're in! <strong>%d x %s</strong> for <strong>%s</strong>.</p><p><a href="%s">View your ticket</a> and present the QR code at the door.</p>`,
		payload.FirstName, payload.Quantity, payload.TicketName, payload.EventName, ticketURL,
	)
	return renderedEmail{subject: subject, html: html, text: text}
}

func renderPaymentReceipt(payload payloads.ReceiptRecorded) renderedEmail {
	subject := fmt.Sprintf("Receipt for %s", payload.EventName)
	total := payload.TotalPaid.StringFixed(2)
	unit := payload.UnitPrice.StringFixed(2)
	text := fmt.Sprintf(
		"Hi %s,\n\nThanks for your purchase.\n\n%d x %s at $%s\nTotal paid (incl. fees): $%s\n\nYour tickets arrive in a separate email.",
		payload.FirstName, payload.Quantity, payload.TicketName, unit, total,
	)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Thanks for your purchase.</p><p>%d x %s at $%s<br/>Total paid (incl. fees): <strong>$%s</strong></p><p>Your tickets arrive in a separate email.</p>`,
		payload.FirstName, payload.Quantity, payload.TicketName, unit, total,
	)
	return renderedEmail{subject: subject, html: html, text: text}
}

func renderRefundReceipt(payload payloads.RefundRecorded) renderedEmail {
	subject := fmt.Sprintf("Refund issued for %s", payload.EventName)
	amount := payload.Amount.StringFixed(2)
	text := fmt.Sprintf(
		"Hi %s,\n\nA refund of $%s for %s has been issued. Depending on your bank it can take 5-10 business days to appear.",
		payload.FirstName, amount, payload.EventName,
	)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>A refund of <strong>$%s</strong> for %s has been issued. Depending on your bank it can take 5-10 business days to appear.</p>`,
		payload.FirstName, amount, payload.EventName,
	)
	return renderedEmail{subject: subject, html: html, text: text}
}

func renderDonationReceipt(payload payloads.DonationRecorded) renderedEmail {
	subject := fmt.Sprintf("Thank you for supporting %s", payload.EventName)
	total := payload.TotalPaid.StringFixed(2)
	text := fmt.Sprintf(
		"Hi %s,\n\nThank you for your donation of $%s to %s.",
		payload.FirstName, total, payload.EventName,
	)
	html := fmt.Sprintf(
		`<p>Hi %s,</p><p>Thank you for your donation of <strong>$%s</strong> to %s.</p>`,
		payload.FirstName, total, payload.EventName,
	)
	return renderedEmail{subject: subject, html: html, text: text}
}
