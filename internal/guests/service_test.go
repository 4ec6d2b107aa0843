package guests

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
	pkgerrors "github.com/avaldez-dev/gatepass-backend/pkg/errors"
	"github.com/avaldez-dev/gatepass-backend/pkg/pagination"
)

type stubGuestRepo struct {
	byID       map[uuid.UUID]*models.Guest
	byPrivate  map[string]*models.Guest
	byPublic   map[string]*models.Guest
	listRows   []models.Guest
	scanned    uuid.UUID
	scannedAt  time.Time
	updated    *models.Guest
	deleted    uuid.UUID
	lastFilter ListFilter
}

func newStubGuestRepo() *stubGuestRepo {
	return &stubGuestRepo{
		byID:      map[uuid.UUID]*models.Guest{},
		byPrivate: map[string]*models.Guest{},
		byPublic:  map[string]*models.Guest{},
	}
}

func (s *stubGuestRepo) add(g *models.Guest) {
	s.byID[g.ID] = g
	if g.PrivateKey != "" {
		s.byPrivate[g.PrivateKey] = g
	}
	if g.PublicKey != "" {
		s.byPublic[g.PublicKey] = g
	}
}

func (s *stubGuestRepo) Create(_ context.Context, guest *models.Guest) error {
	guest.ID = uuid.New()
	s.add(guest)
	return nil
}

func (s *stubGuestRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Guest, error) {
	if g, ok := s.byID[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubGuestRepo) FindByPrivateKey(_ context.Context, key string) (*models.Guest, error) {
	if g, ok := s.byPrivate[key]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubGuestRepo) FindForEventByPublicKey(_ context.Context, eventID uuid.UUID, key string) (*models.Guest, error) {
	if g, ok := s.byPublic[key]; ok && g.EventID == eventID {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubGuestRepo) List(_ context.Context, filter ListFilter, _ pagination.Params) ([]models.Guest, error) {
	s.lastFilter = filter
	return s.listRows, nil
}

func (s *stubGuestRepo) Update(_ context.Context, guest *models.Guest) error {
	s.updated = guest
	return nil
}

func (s *stubGuestRepo) RecordScan(_ context.Context, id uuid.UUID, scannedAt time.Time) error {
	s.scanned = id
	s.scannedAt = scannedAt
	return nil
}

func (s *stubGuestRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deleted = id
	return nil
}

type stubEvents struct {
	byID  map[uuid.UUID]*models.Event
	byKey map[string]*models.Event
}

func (s *stubEvents) FindByID(_ context.Context, id uuid.UUID) (*models.Event, error) {
	if e, ok := s.byID[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubEvents) FindByPublicKey(_ context.Context, key string) (*models.Event, error) {
	if e, ok := s.byKey[key]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubTickets struct {
	byID map[uuid.UUID]*models.Ticket
}

func (s *stubTickets) FindByID(_ context.Context, id uuid.UUID) (*models.Ticket, error) {
	if t, ok := s.byID[id]; ok {
		return t, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type guestFixture struct {
	svc    Service
	repo   *stubGuestRepo
	hostID uuid.UUID
	event  *models.Event
	ticket *models.Ticket
	guest  *models.Guest
}

func newGuestFixture(t *testing.T) *guestFixture {
	t.Helper()

	repo := newStubGuestRepo()
	hostID := uuid.New()
	event := &models.Event{
		ID:        uuid.New(),
		HostID:    hostID,
		Name:      "Warehouse Show",
		Location:  "401 Pine St",
		PublicKey: "evt-pub",
		StartAt:   time.Now().Add(time.Hour),
		EndAt:     time.Now().Add(5 * time.Hour),
	}
	ticket := &models.Ticket{ID: uuid.New(), EventID: event.ID, Name: "GA"}
	guest := &models.Guest{
		ID:         uuid.New(),
		EventID:    event.ID,
		TicketID:   ticket.ID,
		FirstName:  "Ada",
		LastName:   "Li",
		Email:      "ada@example.com",
		Quantity:   2,
		Status:     enums.GuestStatusIssued,
		PublicKey:  "guest-pub",
		PrivateKey: "guest-priv",
	}
	repo.add(guest)

	events := &stubEvents{
		byID:  map[uuid.UUID]*models.Event{event.ID: event},
		byKey: map[string]*models.Event{event.PublicKey: event},
	}
	tickets := &stubTickets{byID: map[uuid.UUID]*models.Ticket{ticket.ID: ticket}}

	svc, err := NewService(repo, events, tickets)
	if err != nil {
		t.Fatalf("NewService failed: %v", err)
	}
	return &guestFixture{svc: svc, repo: repo, hostID: hostID, event: event, ticket: ticket, guest: guest}
}

func TestLookupReturnsTicketView(t *testing.T) {
	f := newGuestFixture(t)

	view, err := f.svc.Lookup(context.Background(), "evt-pub", "guest-priv")
	if err != nil {
		t.Fatalf("lookup failed: %v", err)
	}
	if view.EventName != "Warehouse Show" || view.TicketName != "GA" {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.GuestKey != "guest-pub" {
		t.Fatalf("expected scannable key in view, got %q", view.GuestKey)
	}
}

func TestLookupMismatchedKeysReadAsNotFound(t *testing.T) {
	f := newGuestFixture(t)

	other := &models.Guest{
		ID: uuid.New(), EventID: uuid.New(), TicketID: uuid.New(),
		PrivateKey: "other-priv", PublicKey: "other-pub", Quantity: 1,
	}
	f.repo.add(other)

	cases := []struct {
		name     string
		eventKey string
		guestKey string
	}{
		{"unknown event", "nope", "guest-priv"},
		{"unknown guest", "evt-pub", "nope"},
		{"guest from another event", "evt-pub", "other-priv"},
		{"blank keys", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Lookup(context.Background(), tc.eventKey, tc.guestKey)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
				t.Fatalf("expected not found, got %v", err)
			}
		})
	}
}

func TestValidateIncrementsAndStamps(t *testing.T) {
	f := newGuestFixture(t)

	res, err := f.svc.Validate(context.Background(), f.hostID, f.event.ID, "guest-pub")
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if res.UsedQuantity != 1 {
		t.Fatalf("expected used quantity 1, got %d", res.UsedQuantity)
	}
	if f.repo.scanned != f.guest.ID {
		t.Fatal("expected scan recorded against guest")
	}
	if f.repo.scannedAt.IsZero() {
		t.Fatal("expected scan timestamp")
	}
}

func TestValidateRejectsExhaustedGuest(t *testing.T) {
	f := newGuestFixture(t)
	f.guest.UsedQuantity = f.guest.Quantity

	_, err := f.svc.Validate(context.Background(), f.hostID, f.event.ID, "guest-pub")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
	if f.repo.scanned != uuid.Nil {
		t.Fatal("no scan should be recorded for an exhausted guest")
	}
}

func TestValidateRequiresEventOwnership(t *testing.T) {
	f := newGuestFixture(t)

	_, err := f.svc.Validate(context.Background(), uuid.New(), f.event.ID, "guest-pub")
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestListForHostPagesAndScopes(t *testing.T) {
	f := newGuestFixture(t)

	now := time.Now()
	for i := 0; i < 3; i++ {
		f.repo.listRows = append(f.repo.listRows, models.Guest{
			ID:        uuid.New(),
			EventID:   f.event.ID,
			CreatedAt: now.Add(-time.Duration(i) * time.Minute),
		})
	}

	dtos, next, err := f.svc.ListForHost(context.Background(), f.hostID, ListFilter{EventID: &f.event.ID}, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(dtos) != 2 {
		t.Fatalf("expected 2 guests, got %d", len(dtos))
	}
	if next == "" {
		t.Fatal("expected next cursor")
	}

	if _, _, err := f.svc.ListForHost(context.Background(), f.hostID, ListFilter{}, pagination.Params{}); err == nil {
		t.Fatal("expected validation error without event id")
	}

	otherEvent := uuid.New()
	_, _, err = f.svc.ListForHost(context.Background(), f.hostID, ListFilter{EventID: &otherEvent}, pagination.Params{})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown event, got %v", err)
	}
}

func TestUpdateGuestValidatesEmail(t *testing.T) {
	f := newGuestFixture(t)

	bad := "not-an-email"
	if _, err := f.svc.Update(context.Background(), f.hostID, f.guest.ID, UpdateGuestInput{Email: &bad}); err == nil {
		t.Fatal("expected validation error")
	}

	good := "  Ada.Li@Example.COM "
	dto, err := f.svc.Update(context.Background(), f.hostID, f.guest.ID, UpdateGuestInput{Email: &good})
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if dto.Email != "ada.li@example.com" {
		t.Fatalf("expected normalized email, got %q", dto.Email)
	}
}

func TestCreateForHostIssuesCompGuest(t *testing.T) {
	f := newGuestFixture(t)

	dto, err := f.svc.CreateForHost(context.Background(), f.hostID, f.event.ID, f.ticket.ID, CreateGuestInput{
		FirstName: "  Grace ",
		LastName:  "Hopper",
		Email:     "Grace@Example.com",
		Quantity:  3,
	})
	if err != nil {
		t.Fatalf("CreateForHost failed: %v", err)
	}
	if dto.Email != "grace@example.com" || dto.FirstName != "Grace" {
		t.Fatalf("input not normalized: %+v", dto)
	}
	if dto.Status != enums.GuestStatusIssued {
		t.Fatalf("expected issued status, got %s", dto.Status)
	}
	if dto.PublicKey == "" || dto.PrivateKey == "" || dto.PublicKey == dto.PrivateKey {
		t.Fatal("expected a fresh distinct key pair")
	}
}

func TestCreateForHostGuards(t *testing.T) {
	f := newGuestFixture(t)

	valid := CreateGuestInput{FirstName: "A", LastName: "B", Email: "a@b.c", Quantity: 1}

	if _, err := f.svc.CreateForHost(context.Background(), uuid.New(), f.event.ID, f.ticket.ID, valid); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeForbidden {
		t.Fatalf("expected forbidden for foreign host, got %v", err)
	}
	if _, err := f.svc.CreateForHost(context.Background(), f.hostID, f.event.ID, uuid.New(), valid); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found for unknown ticket, got %v", err)
	}
	if _, err := f.svc.CreateForHost(context.Background(), f.hostID, f.event.ID, f.ticket.ID, CreateGuestInput{FirstName: "A", LastName: "B", Email: "a@b.c"}); pkgerrors.As(err) == nil || pkgerrors.As(err).Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation for zero quantity, got %v", err)
	}
}
