package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	if got := NormalizeLimit(0); got != DefaultLimit {
		t.Fatalf("expected default limit, got %d", got)
	}
	if got := NormalizeLimit(-5); got != DefaultLimit {
		t.Fatalf("expected default limit for negative, got %d", got)
	}
	if got := NormalizeLimit(MaxLimit + 50); got != MaxLimit {
		t.Fatalf("expected max limit cap, got %d", got)
	}
	if got := NormalizeLimit(10); got != 10 {
		t.Fatalf("expected passthrough, got %d", got)
	}
	if got := LimitWithBuffer(10); got != 11 {
		t.Fatalf("expected buffered limit 11, got %d", got)
	}
}

func TestCursorRoundTrip(t *testing.T) {
	want := Cursor{CreatedAt: time.Now().UTC().Truncate(time.Microsecond), ID: uuid.New()}
	encoded := EncodeCursor(want)

	got, err := ParseCursor(encoded)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if got == nil {
		t.Fatal("expected cursor, got nil")
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || got.ID != want.ID {
		t.Fatalf("cursor mismatch: got %+v want %+v", got, want)
	}
}

func TestParseCursorEdgeCases(t *testing.T) {
	if c, err := ParseCursor("   "); err != nil || c != nil {
		t.Fatalf("blank cursor should return nil, nil; got %v, %v", c, err)
	}
	if _, err := ParseCursor("not-base64!!"); err == nil {
		t.Fatal("expected error for invalid base64")
	}
}
