package application

import (
	"context"
	"log/slog"
	"time"

	"github.com/Animesh0711/DailyEase/internal/payments/domain"
	sharedApplication "github.com/Animesh0711/DailyEase/internal/shared/application"
	sharedDomain "github.com/Animesh0711/DailyEase/internal/shared/domain"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/lock"
	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/outbox"
)

// SweeperConfig controls the stale-attempt sweep.
type SweeperConfig struct {
	// TTL is how long a created or pending attempt may sit idle.
	TTL       time.Duration
	BatchSize int
}

// DefaultSweeperConfig returns the worker defaults.
func DefaultSweeperConfig() SweeperConfig {
	return SweeperConfig{TTL: 24 * time.Hour, BatchSize: 100}
}

// Sweeper expires attempts that were never completed. Manual attempts are
// left alone; they wait for an operator.
type Sweeper struct {
	attempts   domain.Repository
	outboxRepo outbox.Repository
	uow        sharedApplication.UnitOfWork
	locker     lock.Locker
	cfg        SweeperConfig
	clock      sharedDomain.Clock
	logger     *slog.Logger
}

// NewSweeper creates a Sweeper.
func NewSweeper(
	attempts domain.Repository,
	outboxRepo outbox.Repository,
	uow sharedApplication.UnitOfWork,
	locker lock.Locker,
	cfg SweeperConfig,
	clock sharedDomain.Clock,
	logger *slog.Logger,
) *Sweeper {
	defaults := DefaultSweeperConfig()
	if cfg.TTL <= 0 {
		cfg.TTL = defaults.TTL
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = defaults.BatchSize
	}
	if clock == nil {
		clock = sharedDomain.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Sweeper{
		attempts:   attempts,
		outboxRepo: outboxRepo,
		uow:        uow,
		locker:     locker,
		cfg:        cfg,
		clock:      clock,
		logger:     logger.With("component", "payment_sweeper"),
	}
}

// SweepOnce expires one batch of stale attempts and returns how many it
// failed. An attempt that moved on since it was listed is skipped.
func (s *Sweeper) SweepOnce(ctx context.Context) (int, error) {
	cutoff := s.clock.Now().Add(-s.cfg.TTL)
	stale, err := s.attempts.ListStale(ctx, cutoff, s.cfg.BatchSize)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, listed := range stale {
		if ctx.Err() != nil {
			return expired, ctx.Err()
		}
		done, err := s.expire(ctx, listed, cutoff)
		if err != nil {
			s.logger.ErrorContext(ctx, "failed to expire attempt", "attempt_id", listed.ID(), "error", err)
			continue
		}
		if done {
			expired++
		}
	}
	if expired > 0 {
		s.logger.InfoContext(ctx, "expired stale payment attempts", "count", expired)
	}
	return expired, nil
}

func (s *Sweeper) expire(ctx context.Context, listed *domain.Attempt, cutoff time.Time) (bool, error) {
	unlock, err := s.locker.Lock(ctx, lock.SubscriptionKey(listed.SubscriptionID()))
	if err != nil {
		return false, err
	}
	defer unlock()

	expired := false
	err = sharedApplication.WithUnitOfWork(ctx, s.uow, func(txCtx context.Context) error {
		a, err := s.attempts.FindByID(txCtx, listed.ID())
		if err != nil {
			return err
		}
		if a.Status() != domain.StatusCreated && a.Status() != domain.StatusPending {
			return nil
		}
		if a.UpdatedAt().After(cutoff) {
			return nil
		}
		if err := a.Fail(domain.ReasonExpired, s.clock.Now()); err != nil {
			return err
		}
		if err := saveAttempt(txCtx, s.attempts, s.outboxRepo, a); err != nil {
			return err
		}
		expired = true
		return nil
	})
	return expired, err
}

// Run sweeps every interval until ctx is done.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("payment sweeper started", "interval", interval, "ttl", s.cfg.TTL)
	for {
		if _, err := s.SweepOnce(ctx); err != nil && ctx.Err() == nil {
			s.logger.ErrorContext(ctx, "sweep failed", "error", err)
		}
		select {
		case <-ctx.Done():
			s.logger.Info("payment sweeper stopped")
			return
		case <-ticker.C:
		}
	}
}
