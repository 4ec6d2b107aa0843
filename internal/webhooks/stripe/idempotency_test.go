package stripewebhook

import (
	"context"
	"testing"
	"time"
)

type fakeIdempotencyStore struct {
	keys    map[string]bool
	deleted []string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{keys: map[string]bool{}}
}

func (f *fakeIdempotencyStore) SetNX(_ context.Context, key string, _ any, _ time.Duration) (bool, error) {
	if f.keys[key] {
		return false, nil
	}
	f.keys[key] = true
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return "gp:idempotency:" + scope + ":" + id
}

func (f *fakeIdempotencyStore) Del(_ context.Context, keys ...string) error {
	for _, key := range keys {
		delete(f.keys, key)
		f.deleted = append(f.deleted, key)
	}
	return nil
}

func TestIdempotencyGuardMarksOnce(t *testing.T) {
	store := newFakeIdempotencyStore()
	guard, err := NewIdempotencyGuard(store, time.Hour, "stripe-payments")
	if err != nil {
		t.Fatalf("NewIdempotencyGuard failed: %v", err)
	}

	seen, err := guard.CheckAndMark(context.Background(), "evt_123")
	if err != nil {
		t.Fatalf("first mark failed: %v", err)
	}
	if seen {
		t.Fatal("first delivery must not read as seen")
	}

	seen, err = guard.CheckAndMark(context.Background(), "evt_123")
	if err != nil {
		t.Fatalf("second mark failed: %v", err)
	}
	if !seen {
		t.Fatal("redelivery must read as seen")
	}
}

func TestIdempotencyGuardDeleteReleases(t *testing.T) {
	store := newFakeIdempotencyStore()
	guard, _ := NewIdempotencyGuard(store, time.Hour, "stripe-payments")

	if _, err := guard.CheckAndMark(context.Background(), "evt_123"); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	if err := guard.Delete(context.Background(), "evt_123"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	seen, err := guard.CheckAndMark(context.Background(), "evt_123")
	if err != nil {
		t.Fatalf("remark failed: %v", err)
	}
	if seen {
		t.Fatal("released event must be reprocessable")
	}

	if _, err := guard.CheckAndMark(context.Background(), ""); err == nil {
		t.Fatal("expected error for blank event id")
	}
}
