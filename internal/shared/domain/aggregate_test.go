package domain_test

import (
	"testing"
	"time"

	"github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type testAggregate struct {
	domain.BaseAggregateRoot
}

type testEvent struct {
	domain.BaseEvent
}

func TestNewBaseAggregateRoot(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	t.Run("keeps given id", func(t *testing.T) {
		id := uuid.New()
		agg := domain.NewBaseAggregateRoot(id, now)
		assert.Equal(t, id, agg.ID())
		assert.Equal(t, now, agg.CreatedAt())
		assert.Empty(t, agg.DomainEvents())
	})

	t.Run("generates id when nil", func(t *testing.T) {
		agg := domain.NewBaseAggregateRoot(uuid.Nil, now)
		assert.NotEqual(t, uuid.Nil, agg.ID())
	})
}

func TestBaseAggregateRoot_Events(t *testing.T) {
	now := time.Now()
	agg := &testAggregate{BaseAggregateRoot: domain.NewBaseAggregateRoot(uuid.New(), now)}

	agg.AddDomainEvent(&testEvent{BaseEvent: domain.NewBaseEvent(agg.ID(), "test", "test.thing.happened", now)})
	agg.AddDomainEvent(&testEvent{BaseEvent: domain.NewBaseEvent(agg.ID(), "test", "test.thing.happened", now)})
	assert.Len(t, agg.DomainEvents(), 2)
	assert.Equal(t, "test.thing.happened", agg.DomainEvents()[0].RoutingKey())

	agg.ClearDomainEvents()
	assert.Empty(t, agg.DomainEvents())
}

func TestBaseEntity_Touch(t *testing.T) {
	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	e := domain.NewBaseEntity(uuid.New(), created)

	e.Touch(created.Add(time.Hour))

	assert.Equal(t, created, e.CreatedAt())
	assert.Equal(t, created.Add(time.Hour), e.UpdatedAt())
}

func TestFixedClock(t *testing.T) {
	at := time.Date(2025, 6, 1, 8, 0, 0, 0, time.UTC)
	clock := &domain.FixedClock{At: at}

	clock.Advance(24 * time.Hour)

	assert.Equal(t, at.AddDate(0, 0, 1), clock.Now())
}
