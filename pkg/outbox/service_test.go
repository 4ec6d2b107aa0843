package outbox

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/enums"
	"github.com/avaldez-dev/gatepass-backend/pkg/logger"
)

func setupOutboxTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	schema := `
CREATE TABLE IF NOT EXISTS outbox_events (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(16)))),
  event_type TEXT NOT NULL,
  aggregate_type TEXT NOT NULL,
  aggregate_id TEXT NOT NULL,
  payload TEXT NOT NULL,
  created_at DATETIME,
  published_at DATETIME,
  attempt_count INTEGER NOT NULL DEFAULT 0,
  last_error TEXT
);`
	require.NoError(t, db.Exec(schema).Error)
	return db
}

func seedOutboxEvent(t *testing.T, db *gorm.DB, createdAt time.Time, attempts int, published bool) models.OutboxEvent {
	t.Helper()

	row := models.OutboxEvent{
		ID:            uuid.New(),
		EventType:     enums.EventGuestIssued,
		AggregateType: enums.AggregateGuest,
		AggregateID:   uuid.New(),
		Payload:       []byte(`{"version":1}`),
		CreatedAt:     createdAt,
		AttemptCount:  attempts,
	}
	if published {
		now := time.Now()
		row.PublishedAt = &now
	}
	require.NoError(t, db.Create(&row).Error)
	return row
}

func TestEmitWrapsPayloadInEnvelope(t *testing.T) {
	db := setupOutboxTestDB(t)
	svc := NewService(NewRepository(db), logger.New(logger.Options{ServiceName: "test"}))

	aggregateID := uuid.New()
	err := svc.Emit(nil, db, DomainEvent{
		EventType:     enums.EventGuestIssued,
		AggregateType: enums.AggregateGuest,
		AggregateID:   aggregateID,
		Data:          map[string]string{"guest_name": "Ada"},
		Version:       1,
	})
	require.NoError(t, err)

	var row models.OutboxEvent
	require.NoError(t, db.Where("aggregate_id = ?", aggregateID).First(&row).Error)
	assert.Equal(t, enums.EventGuestIssued, row.EventType)
	assert.Nil(t, row.PublishedAt)

	var envelope PayloadEnvelope
	require.NoError(t, json.Unmarshal(row.Payload, &envelope))
	assert.Equal(t, 1, envelope.Version)
	assert.NotEmpty(t, envelope.EventID)
	assert.False(t, envelope.OccurredAt.IsZero())
	assert.JSONEq(t, `{"guest_name":"Ada"}`, string(envelope.Data))
}

func TestEmitRequiresTransaction(t *testing.T) {
	db := setupOutboxTestDB(t)
	svc := NewService(NewRepository(db), nil)

	err := svc.Emit(nil, nil, DomainEvent{EventType: enums.EventGuestIssued})
	require.Error(t, err)
}

func TestFetchUnpublishedSkipsPublishedAndExhausted(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)
	base := time.Now().Add(-time.Hour)

	fresh := seedOutboxEvent(t, db, base, 0, false)
	seedOutboxEvent(t, db, base.Add(time.Minute), 5, false)
	seedOutboxEvent(t, db, base.Add(2*time.Minute), 0, true)

	rows, err := repo.FetchUnpublished(10, 5)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, fresh.ID, rows[0].ID)
}

func TestMarkPublishedAndFailed(t *testing.T) {
	db := setupOutboxTestDB(t)
	repo := NewRepository(db)
	base := time.Now().Add(-time.Hour)

	delivered := seedOutboxEvent(t, db, base, 0, false)
	broken := seedOutboxEvent(t, db, base.Add(time.Minute), 0, false)

	require.NoError(t, repo.MarkPublished(delivered.ID))
	require.NoError(t, repo.MarkFailed(broken.ID, errors.New("ses throttled")))

	rows, err := repo.FetchUnpublished(10, 10)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, broken.ID, rows[0].ID)
	assert.Equal(t, 1, rows[0].AttemptCount)
	require.NotNil(t, rows[0].LastError)
	assert.Equal(t, "ses throttled", *rows[0].LastError)
}
