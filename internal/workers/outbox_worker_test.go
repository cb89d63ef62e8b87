package workers

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/gradlink/alumni/internal/app/models"
	"github.com/gradlink/alumni/internal/pkg/messaging"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FetchUnprocessed(ctx context.Context, limit, maxRetries int) ([]models.OutboxEvent, error) {
	args := m.Called(ctx, limit, maxRetries)
	events, _ := args.Get(0).([]models.OutboxEvent)
	return events, args.Error(1)
}

func (m *mockStore) MarkProcessed(ctx context.Context, id uuid.UUID, at time.Time) error {
	return m.Called(ctx, id, at).Error(0)
}

func (m *mockStore) MarkFailed(ctx context.Context, id uuid.UUID, cause string) error {
	return m.Called(ctx, id, cause).Error(0)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, msg messaging.Message) error {
	return m.Called(ctx, msg).Error(0)
}

func (m *mockPublisher) Close() error { return nil }

func outboxEvent(eventType string) models.OutboxEvent {
	return models.OutboxEvent{
		ID:        uuid.New(),
		EventType: eventType,
		Payload:   json.RawMessage(`{"ok":true}`),
	}
}

func TestProcessBatch(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clk := clock.NewMock()
	clk.Set(now)

	ok := outboxEvent(models.EventEventRegistered)
	bad := outboxEvent(models.EventJobApplied)

	store := &mockStore{}
	store.On("FetchUnprocessed", mock.Anything, 50, 5).Return([]models.OutboxEvent{ok, bad}, nil)
	store.On("MarkProcessed", mock.Anything, ok.ID, now).Return(nil).Once()
	store.On("MarkFailed", mock.Anything, bad.ID, "broker down").Return(nil).Once()

	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(m messaging.Message) bool {
		return m.RoutingKey == "gradlink.event.registered" && m.ID == ok.ID.String()
	})).Return(nil)
	pub.On("Publish", mock.Anything, mock.MatchedBy(func(m messaging.Message) bool {
		return m.RoutingKey == "gradlink.job.applied"
	})).Return(errors.New("broker down"))

	w := NewOutboxWorker(OutboxConfig{RoutingPrefix: "gradlink"}, store, pub, clk, zerolog.Nop())
	published, failed, err := w.ProcessBatch(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 1, published)
	assert.Equal(t, 1, failed)
	store.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestProcessBatch_FetchError(t *testing.T) {
	store := &mockStore{}
	store.On("FetchUnprocessed", mock.Anything, 10, 3).Return(nil, errors.New("db gone"))

	w := NewOutboxWorker(OutboxConfig{BatchSize: 10, MaxRetries: 3}, store, &mockPublisher{}, nil, zerolog.Nop())
	_, _, err := w.ProcessBatch(context.Background())
	assert.ErrorContains(t, err, "db gone")
}

func TestProcessBatch_MarkProcessedFailureNotCounted(t *testing.T) {
	e := outboxEvent(models.EventMessageSent)

	store := &mockStore{}
	store.On("FetchUnprocessed", mock.Anything, 50, 5).Return([]models.OutboxEvent{e}, nil)
	store.On("MarkProcessed", mock.Anything, e.ID, mock.Anything).Return(errors.New("write failed"))

	pub := &mockPublisher{}
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	w := NewOutboxWorker(OutboxConfig{}, store, pub, nil, zerolog.Nop())
	published, failed, err := w.ProcessBatch(context.Background())
	require.NoError(t, err)
	assert.Zero(t, published)
	assert.Zero(t, failed)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	w := NewOutboxWorker(OutboxConfig{Schedule: "every now and then"}, &mockStore{}, &mockPublisher{}, nil, zerolog.Nop())
	assert.Error(t, w.Start())
}

func TestStartStop(t *testing.T) {
	w := NewOutboxWorker(OutboxConfig{Schedule: "@every 1h"}, &mockStore{}, &mockPublisher{}, nil, zerolog.Nop())
	require.NoError(t, w.Start())

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	w.Stop(ctx)
	assert.NoError(t, ctx.Err())
}
