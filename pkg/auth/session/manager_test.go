package session

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
)

type fakeStore struct {
	values map[string]string
}

func newFakeStore() *fakeStore {
	return &fakeStore{values: map[string]string{}}
}

func (f *fakeStore) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.values[key] = value.(string)
	return nil
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	v, ok := f.values[key]
	if !ok {
		return "", redislib.Nil
	}
	return v, nil
}

func (f *fakeStore) Del(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(f.values, k)
	}
	return nil
}

type fakeKeyer struct{}

func (fakeKeyer) SessionKey(accessID string) string { return "gp:session:access:" + accessID }

func newTestManager() (*Manager, *fakeStore) {
	store := newFakeStore()
	return &Manager{store: store, keyer: fakeKeyer{}, ttl: time.Hour}, store
}

func TestSessionLifecycle(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()
	accessID := NewAccessID()
	hostID := uuid.New()

	if err := m.Create(ctx, accessID, hostID); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	ok, err := m.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session failed: %v", err)
	}
	if !ok {
		t.Fatal("expected live session after create")
	}

	if err := m.Revoke(ctx, accessID); err != nil {
		t.Fatalf("revoke failed: %v", err)
	}

	ok, err = m.HasSession(ctx, accessID)
	if err != nil {
		t.Fatalf("has session after revoke failed: %v", err)
	}
	if ok {
		t.Fatal("expected session gone after revoke")
	}
}

func TestSessionRequiresAccessID(t *testing.T) {
	m, _ := newTestManager()
	ctx := context.Background()

	if err := m.Create(ctx, "  ", uuid.New()); err == nil {
		t.Fatal("expected error for blank access id")
	}
	if _, err := m.HasSession(ctx, ""); err == nil {
		t.Fatal("expected error for blank access id")
	}
	if err := m.Revoke(ctx, ""); err == nil {
		t.Fatal("expected error for blank access id")
	}
}
