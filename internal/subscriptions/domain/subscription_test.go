package domain

import (
	"errors"
	"testing"
	"time"

	pricingDomain "github.com/Animesh0711/DailyEase/internal/pricing/domain"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2026, 4, 1, 9, 0, 0, 0, time.UTC)

func testTerms(t *testing.T) Terms {
	t.Helper()
	sel, err := pricingDomain.NewSelectionSet([]string{"sakal"}, nil)
	require.NoError(t, err)
	return Terms{
		ID:           uuid.New(),
		SubscriberID: uuid.New(),
		Selection:    sel,
		Frequency:    pricingDomain.FrequencyDaily,
		Total:        pricingDomain.Price(sel, pricingDomain.FrequencyDaily).Total,
	}
}

func keys(s *Subscription) []string {
	var out []string
	for _, e := range s.DomainEvents() {
		out = append(out, e.RoutingKey())
	}
	return out
}

func TestNewSubscription(t *testing.T) {
	terms := testTerms(t)
	s, err := NewSubscription(terms, true, t0)
	require.NoError(t, err)

	assert.Equal(t, terms.ID, s.ID())
	assert.Equal(t, PaymentPaid, s.PaymentState())
	require.NotNil(t, s.ActivatedAt())
	assert.Equal(t, t0, *s.ActivatedAt())
	assert.False(t, s.IsPaused())
	assert.Equal(t, []string{RoutingKeyActivated}, keys(s))

	t.Run("awaiting payment", func(t *testing.T) {
		s, err := NewSubscription(testTerms(t), false, t0)
		require.NoError(t, err)
		assert.Equal(t, PaymentAwaiting, s.PaymentState())
	
		s.ClearDomainEvents()
		assert.True(t, s.Settle(t0.Add(time.Hour)))
		assert.Equal(t, PaymentPaid, s.PaymentState())
		assert.False(t, s.Settle(t0.Add(2*time.Hour)))
		assert.Equal(t, []string{RoutingKeyActivated}, keys(s))
	})

	t.Run("rejects missing selection", func(t *testing.T) {
		terms := testTerms(t)
		terms.Selection = pricingDomain.SelectionSet{}
		_, err := NewSubscription(terms, true, t0)
		assert.True(t, errors.Is(err, sharedDomain.ErrValidation))
	})

	t.Run("rejects unknown frequency", func(t *testing.T) {
		terms := testTerms(t)
		terms.Frequency = "yearly"
		_, err := NewSubscription(terms, true, t0)
		assert.True(t, errors.Is(err, sharedDomain.ErrValidation))
	})
}

func TestPauseResume(t *testing.T) {
	s, err := NewSubscription(testTerms(t), true, t0)
	require.NoError(t, err)
	s.ClearDomainEvents()

	for _, days := range []int{0, -3} {
		err := s.Pause(days, t0)
		assert.True(t, errors.Is(err, sharedDomain.ErrValidation))
	}
	assert.False(t, s.IsPaused())

	assert.False(t, s.Resume(t0))
	assert.Empty(t, s.DomainEvents())

	require.NoError(t, s.Pause(7, t0))
	assert.True(t, s.IsPaused())
	assert.Equal(t, t0, *s.PausedFrom())
	assert.Equal(t, t0.AddDate(0, 0, 7), *s.PausedUntil())

	assert.True(t, s.Resume(t0.Add(time.Hour)))
	assert.False(t, s.IsPaused())
	assert.Nil(t, s.PausedFrom())
	assert.Nil(t, s.PausedUntil())
	assert.Equal(t, []string{RoutingKeyPaused, RoutingKeyResumed}, keys(s))
}

func TestSnapshotRoundTrip(t *testing.T) {
	s, err := NewSubscription(testTerms(t), false, t0)
	require.NoError(t, err)
	require.NoError(t, s.Pause(3, t0.Add(time.Hour)))

	back := Rehydrate(s.Snapshot())
	assert.Equal(t, s.Snapshot(), back.Snapshot())
	assert.Empty(t, back.DomainEvents())
}
