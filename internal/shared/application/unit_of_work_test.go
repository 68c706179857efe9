package application

import (
	"context"
	"errors"
	"testing"

	"github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/Animesh0711/DailyEase/pkg/observability"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type mockUnitOfWork struct {
	mock.Mock
}

func (m *mockUnitOfWork) Begin(ctx context.Context) (context.Context, error) {
	args := m.Called(ctx)
	return args.Get(0).(context.Context), args.Error(1)
}

func (m *mockUnitOfWork) Commit(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func (m *mockUnitOfWork) Rollback(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type txKey struct{}

func TestWithUnitOfWork(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(nil)

		var got context.Context
		err := WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
			got = ctx
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, txCtx, got)
		uow.AssertExpectations(t)
	})

	t.Run("rolls back and returns fn error unchanged", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")

		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)

		fnErr := domain.NewError(domain.KindValidation, "pause", "days must be positive")
		err := WithUnitOfWork(ctx, uow, func(ctx context.Context) error { return fnErr })

		assert.Equal(t, fnErr, err)
		uow.AssertNotCalled(t, "Commit", mock.Anything)
	})

	t.Run("begin failure is a persistence error", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		uow.On("Begin", ctx).Return(ctx, errors.New("db down"))

		called := false
		err := WithUnitOfWork(ctx, uow, func(ctx context.Context) error {
			called = true
			return nil
		})

		assert.False(t, called)
		assert.True(t, errors.Is(err, domain.ErrPersistence))
	})

	t.Run("commit failure is a persistence error", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Commit", txCtx).Return(errors.New("serialization failure"))

		err := WithUnitOfWork(ctx, uow, func(ctx context.Context) error { return nil })

		assert.True(t, errors.Is(err, domain.ErrPersistence))
	})

	t.Run("rolls back on panic", func(t *testing.T) {
		uow := new(mockUnitOfWork)
		ctx := context.Background()
		txCtx := context.WithValue(ctx, txKey{}, "tx")
		uow.On("Begin", ctx).Return(txCtx, nil)
		uow.On("Rollback", txCtx).Return(nil)

		assert.Panics(t, func() {
			_ = WithUnitOfWork(ctx, uow, func(ctx context.Context) error { panic("boom") })
		})
		uow.AssertCalled(t, "Rollback", txCtx)
	})
}

type metaEvent struct {
	domain.BaseEvent
}

func TestEventMetadata(t *testing.T) {
	subscriber := uuid.New()

	t.Run("uses correlation id from context", func(t *testing.T) {
		ctx := observability.WithCorrelationID(context.Background(), "corr-1")
		md := EventMetadataFromContext(ctx, subscriber)
		assert.Equal(t, "corr-1", md.CorrelationID)
		assert.Equal(t, subscriber, md.SubscriberID)
	})

	t.Run("generates correlation id", func(t *testing.T) {
		md := EventMetadataFromContext(context.Background(), subscriber)
		assert.NotEmpty(t, md.CorrelationID)
	})

	t.Run("applies to events", func(t *testing.T) {
		ev := &metaEvent{}
		md := domain.EventMetadata{CorrelationID: "corr-2", SubscriberID: subscriber}
		ApplyEventMetadata([]domain.DomainEvent{ev}, md)
		assert.Equal(t, md, ev.Metadata())
	})
}
