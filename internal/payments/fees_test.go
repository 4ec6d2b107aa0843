package payments

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestTicketFeeCents(t *testing.T) {
	cases := []struct {
		name     string
		price    string
		quantity int
		want     int64
	}{
		{"floor applies to small orders", "10.00", 2, 150},
		{"five percent above the floor", "40.00", 2, 400},
		{"exactly at the floor", "30.00", 1, 150},
		{"free ticket still hits the floor", "0.00", 5, 150},
		{"large order", "125.50", 4, 2510},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			price, err := decimal.NewFromString(tc.price)
			if err != nil {
				t.Fatalf("bad price fixture: %v", err)
			}
			if got := TicketFeeCents(price, tc.quantity); got != tc.want {
				t.Fatalf("TicketFeeCents(%s, %d) = %d, want %d", tc.price, tc.quantity, got, tc.want)
			}
		})
	}
}

func TestDonationFeeCents(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		want   int64
	}{
		{"hundred dollar donation", "100.00", 350},
		{"ten dollar donation", "10.00", 71},
		{"one dollar donation", "1.00", 43},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			amount, err := decimal.NewFromString(tc.amount)
			if err != nil {
				t.Fatalf("bad amount fixture: %v", err)
			}
			if got := DonationFeeCents(amount); got != tc.want {
				t.Fatalf("DonationFeeCents(%s) = %d, want %d", tc.amount, got, tc.want)
			}
		})
	}
}

func TestCentsRoundTrip(t *testing.T) {
	amount := decimal.RequireFromString("12.34")
	cents := Cents(amount)
	if cents != 1234 {
		t.Fatalf("expected 1234 cents, got %d", cents)
	}
	if !Dollars(cents).Equal(amount) {
		t.Fatalf("expected %s back, got %s", amount, Dollars(cents))
	}
}
