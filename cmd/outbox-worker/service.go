package main

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/avaldez-dev/gatepass-backend/pkg/config"
	"github.com/avaldez-dev/gatepass-backend/pkg/db/models"
	"github.com/avaldez-dev/gatepass-backend/pkg/logger"
)

const (
	defaultBatchSize    = 50
	defaultPollInterval = 500 * time.Millisecond
	defaultMaxAttempts  = 10
	maxBackoff          = 10 * time.Second
	jitterWindow        = 250 * time.Millisecond
)

var jitterSource = rand.New(rand.NewSource(time.Now().UnixNano()))

type dbPinger interface {
	Ping(context.Context) error
}

type outboxRepository interface {
	FetchUnpublished(limit, maxAttempts int) ([]models.OutboxEvent, error)
	MarkPublished(id uuid.UUID) error
	MarkFailed(id uuid.UUID, err error) error
}

type eventDispatcher interface {
	Dispatch(ctx context.Context, event models.OutboxEvent) error
}

type ServiceParams struct {
	Config     *config.Config
	Logger     *logger.Logger
	DB         dbPinger
	Repository outboxRepository
	Dispatcher eventDispatcher
}

// Service drains the outbox table and hands each event to the notification
// dispatcher. Delivery is at-least-once: a send that fails is marked and
// retried on a later poll until MaxAttempts is exhausted.
type Service struct {
	cfg          *config.Config
	logg         *logger.Logger
	db           dbPinger
	repo         outboxRepository
	dispatcher   eventDispatcher
	batchSize    int
	maxAttempts  int
	pollInterval time.Duration
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Config == nil {
		return nil, errors.New("config is required")
	}
	if params.Logger == nil {
		return nil, errors.New("logger is required")
	}
	if params.DB == nil {
		return nil, errors.New("database client is required")
	}
	if params.Repository == nil {
		return nil, errors.New("outbox repository is required")
	}
	if params.Dispatcher == nil {
		return nil, errors.New("dispatcher is required")
	}

	batch := params.Config.Outbox.BatchSize
	if batch <= 0 {
		batch = defaultBatchSize
	}
	interval := params.Config.Outbox.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	maxAttempts := params.Config.Outbox.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultMaxAttempts
	}

	return &Service{
		cfg:          params.Config,
		logg:         params.Logger,
		db:           params.DB,
		repo:         params.Repository,
		dispatcher:   params.Dispatcher,
		batchSize:    batch,
		maxAttempts:  maxAttempts,
		pollInterval: interval,
	}, nil
}

func (s *Service) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}

	if err := s.db.Ping(ctx); err != nil {
		s.logg.Error(ctx, "database ping failed", err)
		return err
	}

	interval := s.pollInterval
	backoff := interval

	for {
		select {
		case <-ctx.Done():
			s.logg.Info(ctx, "outbox worker context canceled")
			return ctx.Err()
		default:
		}

		processed, err := s.processBatch(ctx)
		if err != nil {
			s.logg.Error(ctx, "outbox worker batch error", err)
			backoff = nextBackoff(backoff, interval, maxBackoff)
			if err := s.sleep(ctx, withJitter(backoff)); err != nil {
				return err
			}
			continue
		}

		backoff = interval

		if processed {
			continue
		}

		if err := s.sleep(ctx, withJitter(interval)); err != nil {
			return err
		}
	}
}

func (s *Service) processBatch(ctx context.Context) (bool, error) {
	events, err := s.repo.FetchUnpublished(s.batchSize, s.maxAttempts)
	if err != nil {
		return false, err
	}
	if len(events) == 0 {
		return false, nil
	}

	for _, event := range events {
		fields := s.eventFields(event)
		if err := s.dispatcher.Dispatch(ctx, event); err != nil {
			ctxWithFields := s.logg.WithFields(ctx, fields)
			ctxWithFields = s.logg.WithField(ctxWithFields, "error", err.Error())
			if event.AttemptCount+1 >= s.maxAttempts {
				s.logg.Error(ctxWithFields, "outbox event exhausted delivery attempts", err)
			} else {
				s.logg.Warn(ctxWithFields, "outbox delivery failed")
			}
			if markErr := s.repo.MarkFailed(event.ID, err); markErr != nil {
				return true, markErr
			}
			continue
		}

		if markErr := s.repo.MarkPublished(event.ID); markErr != nil {
			return true, markErr
		}
		s.logg.Info(s.logg.WithFields(ctx, fields), "outbox event delivered")
	}
	return true, nil
}

func (s *Service) eventFields(event models.OutboxEvent) map[string]any {
	fields := map[string]any{
		"outbox_id":      event.ID.String(),
		"event_type":     event.EventType,
		"aggregate_type": event.AggregateType,
		"aggregate_id":   event.AggregateID.String(),
		"attempt_count":  event.AttemptCount,
	}
	if event.LastError != nil {
		fields["last_error"] = *event.LastError
	}
	return fields
}

func (s *Service) sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func nextBackoff(current, base, max time.Duration) time.Duration {
	if current <= 0 {
		current = base
	}
	next := current * 2
	if next > max {
		return max
	}
	return next
}

func withJitter(d time.Duration) time.Duration {
	if d <= 0 {
		return 0
	}
	jitter := time.Duration(jitterSource.Int63n(int64(jitterWindow)))
	return d + jitter
}
