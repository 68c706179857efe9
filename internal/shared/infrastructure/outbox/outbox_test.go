package outbox_test

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/eventbus"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/migrations"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/outbox"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	_ "modernc.org/sqlite"
)

type overrideToggled struct {
	domain.BaseEvent
	Date    string `json:"date"`
	Present bool   `json:"present"`
}

func newToggled(t *testing.T, correlationID string) *overrideToggled {
	t.Helper()
	e := &overrideToggled{
		BaseEvent: domain.NewBaseEvent(uuid.New(), "delivery_ledger", "delivery.override.toggled", time.Now()),
		Date:      "2026-05-01",
		Present:   true,
	}
	e.SetMetadata(domain.EventMetadata{CorrelationID: correlationID})
	return e
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	require.NoError(t, migrations.RunSQLite(context.Background(), db))
	return db
}

func TestNewMessage(t *testing.T) {
	event := newToggled(t, "corr-1")

	msg, err := outbox.NewMessage(event)
	require.NoError(t, err)

	assert.Equal(t, event.EventID(), msg.EventID)
	assert.Equal(t, "delivery.override.toggled", msg.RoutingKey)
	assert.Equal(t, "delivery_ledger", msg.AggregateType)
	assert.JSONEq(t, `{"date":"2026-05-01","present":true}`, string(msg.Payload))
	assert.Equal(t, "corr-1", msg.CorrelationID())
	assert.False(t, msg.IsPublished())

	env := msg.Envelope()
	assert.Equal(t, msg.EventID, env.EventID)
	assert.Equal(t, msg.CreatedAt, env.OccurredAt)
}

func TestSQLiteRepository_Lifecycle(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	repo := outbox.NewSQLiteRepository(db)

	msgs, err := outbox.NewMessages([]domain.DomainEvent{newToggled(t, "a"), newToggled(t, "b")})
	require.NoError(t, err)
	require.NoError(t, repo.SaveBatch(ctx, msgs))
	assert.NotZero(t, msgs[0].ID)
	assert.NotEqual(t, msgs[0].ID, msgs[1].ID)

	due, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	require.Len(t, due, 2)
	assert.Equal(t, msgs[0].EventID, due[0].EventID)
	assert.Equal(t, "a", due[0].CorrelationID())

	require.NoError(t, repo.MarkPublished(ctx, due[0].ID))
	require.NoError(t, repo.MarkFailed(ctx, due[1].ID, "broker down", time.Now().Add(time.Hour)))

	due, err = repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, due, "published and backed-off messages are not due")

	deleted, err := repo.DeleteOld(ctx, time.Now().Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestSQLiteRepository_SaveBatchJoinsTransaction(t *testing.T) {
	ctx := context.Background()
	db := openDB(t)
	repo := outbox.NewSQLiteRepository(db)
	uow := persistence.NewSQLiteUnitOfWork(db)

	txCtx, err := uow.Begin(ctx)
	require.NoError(t, err)
	msgs, err := outbox.NewMessages([]domain.DomainEvent{newToggled(t, "x")})
	require.NoError(t, err)
	require.NoError(t, repo.SaveBatch(txCtx, msgs))
	require.NoError(t, uow.Rollback(txCtx))

	due, err := repo.GetUnpublished(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, due)
}

type mockRepo struct {
	mock.Mock
}

func (m *mockRepo) SaveBatch(ctx context.Context, msgs []*outbox.Message) error {
	return m.Called(ctx, msgs).Error(0)
}

func (m *mockRepo) GetUnpublished(ctx context.Context, limit int) ([]*outbox.Message, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*outbox.Message), args.Error(1)
}

func (m *mockRepo) MarkPublished(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *mockRepo) MarkFailed(ctx context.Context, id int64, errMsg string, next time.Time) error {
	return m.Called(ctx, id, errMsg, next).Error(0)
}

func (m *mockRepo) MarkDead(ctx context.Context, id int64, reason string) error {
	return m.Called(ctx, id, reason).Error(0)
}

func (m *mockRepo) DeleteOld(ctx context.Context, before time.Time) (int64, error) {
	args := m.Called(ctx, before)
	return args.Get(0).(int64), args.Error(1)
}

type mockPublisher struct {
	mock.Mock
}

func (m *mockPublisher) Publish(ctx context.Context, routingKey string, body []byte) error {
	return m.Called(ctx, routingKey, body).Error(0)
}

func (m *mockPublisher) Close() error { return nil }

func message(id int64, key string, retries int) *outbox.Message {
	return &outbox.Message{
		ID:         id,
		EventID:    uuid.New(),
		RoutingKey: key,
		Payload:    json.RawMessage(`{}`),
		CreatedAt:  time.Now(),
		RetryCount: retries,
	}
}

func TestProcessor_PublishesAndMarks(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	pub := &mockPublisher{}

	ok := message(1, "payments.attempt.succeeded", 0)
	flaky := message(2, "payments.attempt.failed", 0)
	doomed := message(3, "delivery.override.toggled", 4)
	repo.On("GetUnpublished", ctx, 100).Return([]*outbox.Message{ok, flaky, doomed}, nil)
	repo.On("MarkPublished", ctx, int64(1)).Return(nil)
	repo.On("MarkFailed", ctx, int64(2), "broker down", mock.AnythingOfType("time.Time")).Return(nil)
	repo.On("MarkDead", ctx, int64(3), "broker down").Return(nil)

	pub.On("Publish", ctx, "payments.attempt.succeeded", mock.MatchedBy(func(body []byte) bool {
		var env eventbus.Envelope
		return json.Unmarshal(body, &env) == nil && env.EventID == ok.EventID
	})).Return(nil)
	pub.On("Publish", ctx, mock.Anything, mock.Anything).Return(errors.New("broker down"))

	p := outbox.NewProcessor(repo, pub, outbox.DefaultProcessorConfig(), quietLogger())
	n, err := p.ProcessOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	stats := p.Stats()
	assert.Equal(t, uint64(1), stats.Published)
	assert.Equal(t, uint64(1), stats.Failed)
	assert.Equal(t, uint64(1), stats.Dead)
	assert.Equal(t, "broker down", stats.LastError)
	repo.AssertExpectations(t)
}

func TestProcessor_LoadFailure(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("GetUnpublished", ctx, 100).Return(nil, errors.New("disk full"))

	p := outbox.NewProcessor(repo, &mockPublisher{}, outbox.DefaultProcessorConfig(), quietLogger())
	_, err := p.ProcessOnce(ctx)
	assert.ErrorContains(t, err, "disk full")
}

func TestProcessor_Backoff(t *testing.T) {
	p := outbox.NewProcessor(nil, nil, outbox.ProcessorConfig{
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  10 * time.Second,
	}, quietLogger())

	assert.Equal(t, time.Second, p.Backoff(1))
	assert.Equal(t, 2*time.Second, p.Backoff(2))
	assert.Equal(t, 8*time.Second, p.Backoff(4))
	assert.Equal(t, 10*time.Second, p.Backoff(5))
	assert.Equal(t, 10*time.Second, p.Backoff(60))
}

func TestProcessor_StartStop(t *testing.T) {
	repo := &mockRepo{}
	repo.On("GetUnpublished", mock.Anything, mock.Anything).Return([]*outbox.Message{}, nil)

	cfg := outbox.DefaultProcessorConfig()
	cfg.PollInterval = 5 * time.Millisecond
	p := outbox.NewProcessor(repo, &mockPublisher{}, cfg, quietLogger())

	p.Start(context.Background())
	p.Start(context.Background())
	assert.True(t, p.IsRunning())
	assert.Eventually(t, func() bool { return p.Stats().LastProcessedAt != nil }, time.Second, 5*time.Millisecond)

	p.Stop()
	p.Stop()
	assert.False(t, p.IsRunning())
}

func TestProcessor_Cleanup(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepo{}
	repo.On("DeleteOld", ctx, mock.AnythingOfType("time.Time")).Return(int64(3), nil)

	p := outbox.NewProcessor(repo, &mockPublisher{}, outbox.DefaultProcessorConfig(), quietLogger())
	n, err := p.Cleanup(ctx, 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(3), n)
}
