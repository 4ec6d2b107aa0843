package events

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
)

type stubEventRepo struct {
	byID     map[uuid.UUID]*models.Event
	byKey    map[string]*models.Event
	created  *models.Event
	updated  *models.Event
	deleted  uuid.UUID
	listRows []models.Event
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{
		byID:  map[uuid.UUID]*models.Event{},
		byKey: map[string]*models.Event{},
	}
}

func (s *stubEventRepo) Create(_ context.Context, event *models.Event) error {
	event.ID = uuid.New()
	s.created = event
	s.byID[event.ID] = event
	return nil
}

func (s *stubEventRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	if e, ok := s.byID[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubEventRepo) FindByPublicKey(_ context.Context, key string) (*models.Event, error) {
	if e, ok := s.byKey[key]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubEventRepo) ListByHost(_ context.Context, _ uuid.UUID) ([]models.Event, error) {
	return s.listRows, nil
}

func (s *stubEventRepo) Update(_ context.Context, event *models.Event) error {
	s.updated = event
	return nil
}

func (s *stubEventRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = id
	return nil
}

func validInput() CreateEventInput {
	start := time.Now().Add(24 * time.Hour)
	return CreateEventInput{
		Name:    "Launch Party",
		StartAt: start,
		EndAt:   start.Add(4 * time.Hour),
	}
}

func TestCreateGeneratesKeyPair(t *testing.T) {
	repo := newStubEventRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}

	hostID := uuid.New()
	dto, err := svc.Create(context.Background(), hostID, validInput())
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if dto.PublicKey == "" || dto.PrivateKey == "" {
		t.Fatal("expected generated key pair")
	}
	if dto.PublicKey == dto.PrivateKey {
		t.Fatal("public and private keys must differ")
	}
	if repo.created.HostID != hostID {
		t.Fatalf("expected host id %s, got %s", hostID, repo.created.HostID)
	}
}

func TestCreateValidatesWindow(t *testing.T) {
	svc, _ := NewService(newStubEventRepo())

	input := validInput()
	input.EndAt = input.StartAt.Add(-time.Hour)
	_, err := svc.Create(context.Background(), uuid.New(), input)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}

	input = validInput()
	input.Name = "  "
	if _, err := svc.Create(context.Background(), uuid.New(), input); err == nil {
		t.Fatal("expected validation error for blank name")
	}
}

func TestOwnershipEnforced(t *testing.T) {
	repo := newStubEventRepo()
	owner := uuid.New()
	event := &models.Event{ID: uuid.New(), HostID: owner, Name: "Gig", StartAt: time.Now(), EndAt: time.Now().Add(time.Hour)}
	repo.byID[event.ID] = event
	svc, _ := NewService(repo)

	_, err := svc.GetForHost(context.Background(), uuid.New(), event.ID)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}

	err = svc.Delete(context.Background(), uuid.New(), event.ID)
	typed = pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden on delete, got %v", err)
	}

	if _, err := svc.GetForHost(context.Background(), owner, event.ID); err != nil {
		t.Fatalf("owner access failed: %v", err)
	}
}

func TestGetByPublicKeyHidesPrivateFields(t *testing.T) {
	repo := newStubEventRepo()
	event := &models.Event{
		ID:         uuid.New(),
		HostID:     uuid.New(),
		Name:       "Gig",
		PublicKey:  "pub",
		PrivateKey: "priv",
		StartAt:    time.Now(),
		EndAt:      time.Now().Add(time.Hour),
	}
	repo.byKey["pub"] = event
	svc, _ := NewService(repo)

	dto, err := svc.GetByPublicKey(context.Background(), "pub")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if dto.PublicKey != "pub" {
		t.Fatalf("unexpected public key %q", dto.PublicKey)
	}

	if _, err := svc.GetByPublicKey(context.Background(), "missing"); pkgerrors.As(err) == nil {
		t.Fatal("expected not found error")
	}
}

func TestUpdateRejectsInvertedWindow(t *testing.T) {
	repo := newStubEventRepo()
	owner := uuid.New()
	start := time.Now()
	event := &models.Event{ID: uuid.New(), HostID: owner, Name: "Gig", StartAt: start, EndAt: start.Add(time.Hour)}
	repo.byID[event.ID] = event
	svc, _ := NewService(repo)

	bad := start.Add(-time.Hour)
	_, err := svc.Update(context.Background(), owner, event.ID, UpdateEventInput{EndAt: &bad})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}
