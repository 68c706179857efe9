package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Animesh0711/DailyEase/internal/shared/infrastructure/eventbus"
)

// ProcessorConfig tunes polling and retry behavior.
type ProcessorConfig struct {
	PollInterval     time.Duration
	BatchSize        int
	MaxRetries       int
	RetryBackoffBase time.Duration
	RetryBackoffMax  time.Duration
}

func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		PollInterval:     time.Second,
		BatchSize:        100,
		MaxRetries:       5,
		RetryBackoffBase: time.Second,
		RetryBackoffMax:  time.Minute,
	}
}

// Processor relays due outbox messages to a publisher. A message that keeps
// failing is retried with exponential backoff and dead-lettered after
// MaxRetries attempts.
type Processor struct {
	repo      Repository
	publisher eventbus.Publisher
	config    ProcessorConfig
	logger    *slog.Logger
	now       func() time.Time

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	wg      sync.WaitGroup

	statsMu sync.Mutex
	stats   Stats
}

// Stats counts what the processor has done since it was created.
type Stats struct {
	Published       uint64
	Failed          uint64
	Dead            uint64
	LastError       string
	LastErrorAt     *time.Time
	LastProcessedAt *time.Time
}

func NewProcessor(repo Repository, publisher eventbus.Publisher, config ProcessorConfig, logger *slog.Logger) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		repo:      repo,
		publisher: publisher,
		config:    config,
		logger:    logger,
		now:       time.Now,
	}
}

// Start polls in the background until ctx ends or Stop is called.
func (p *Processor) Start(ctx context.Context) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.running {
		return
	}
	p.running = true
	p.stop = make(chan struct{})

	p.wg.Add(1)
	go p.loop(ctx, p.stop)
	p.logger.Info("outbox processor started",
		"poll_interval", p.config.PollInterval,
		"batch_size", p.config.BatchSize,
	)
}

// Stop waits for the current batch to finish.
func (p *Processor) Stop() {
	p.mu.Lock()
	if !p.running {
		p.mu.Unlock()
		return
	}
	p.running = false
	close(p.stop)
	p.mu.Unlock()

	p.wg.Wait()
	p.logger.Info("outbox processor stopped")
}

func (p *Processor) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

func (p *Processor) loop(ctx context.Context, stop <-chan struct{}) {
	defer p.wg.Done()
	ticker := time.NewTicker(p.config.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case <-ticker.C:
			if _, err := p.ProcessOnce(ctx); err != nil {
				p.logger.Error("outbox batch failed", "error", err)
			}
		}
	}
}

// ProcessOnce publishes one batch and returns how many messages went out.
// Per-message publish failures are recorded on the message, not returned.
func (p *Processor) ProcessOnce(ctx context.Context) (int, error) {
	msgs, err := p.repo.GetUnpublished(ctx, p.config.BatchSize)
	if err != nil {
		p.recordError(err)
		return 0, fmt.Errorf("load outbox batch: %w", err)
	}
	p.touch()

	published := 0
	for _, msg := range msgs {
		if err := p.publish(ctx, msg); err != nil {
			p.handleFailure(ctx, msg, err)
			continue
		}
		if err := p.repo.MarkPublished(ctx, msg.ID); err != nil {
			p.logger.Error("mark outbox message published", "id", msg.ID, "error", err)
			continue
		}
		published++
		p.statsMu.Lock()
		p.stats.Published++
		p.statsMu.Unlock()
	}
	return published, nil
}

func (p *Processor) publish(ctx context.Context, msg *Message) error {
	body, err := json.Marshal(msg.Envelope())
	if err != nil {
		return fmt.Errorf("encode envelope: %w", err)
	}
	return p.publisher.Publish(ctx, msg.RoutingKey, body)
}

func (p *Processor) handleFailure(ctx context.Context, msg *Message, err error) {
	p.logger.Warn("publish outbox message",
		"id", msg.ID,
		"routing_key", msg.RoutingKey,
		"event_id", msg.EventID,
		"correlation_id", msg.CorrelationID(),
		"retry_count", msg.RetryCount,
		"error", err,
	)

	if p.config.MaxRetries <= 0 || msg.RetryCount+1 >= p.config.MaxRetries {
		p.recordError(err)
		p.statsMu.Lock()
		p.stats.Dead++
		p.statsMu.Unlock()
		if markErr := p.repo.MarkDead(ctx, msg.ID, err.Error()); markErr != nil {
			p.logger.Error("dead-letter outbox message", "id", msg.ID, "error", markErr)
		}
		return
	}

	p.recordError(err)
	p.statsMu.Lock()
	p.stats.Failed++
	p.statsMu.Unlock()
	next := p.now().Add(p.Backoff(msg.RetryCount + 1))
	if markErr := p.repo.MarkFailed(ctx, msg.ID, err.Error(), next); markErr != nil {
		p.logger.Error("mark outbox message failed", "id", msg.ID, "error", markErr)
	}
}

// Backoff is the delay before the nth retry: base doubled per attempt and
// capped at RetryBackoffMax.
func (p *Processor) Backoff(attempt int) time.Duration {
	base := p.config.RetryBackoffBase
	if base <= 0 {
		base = time.Second
	}
	limit := p.config.RetryBackoffMax
	if limit <= 0 {
		limit = time.Minute
	}
	d := base
	for i := 1; i < attempt; i++ {
		d *= 2
		if d >= limit {
			return limit
		}
	}
	if d > limit {
		return limit
	}
	return d
}

// Cleanup deletes published messages older than retention.
func (p *Processor) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	n, err := p.repo.DeleteOld(ctx, p.now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("delete old outbox messages: %w", err)
	}
	if n > 0 {
		p.logger.Info("outbox cleanup", "deleted", n, "retention", retention)
	}
	return n, nil
}

func (p *Processor) Stats() Stats {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	return p.stats
}

func (p *Processor) touch() {
	now := p.now()
	p.statsMu.Lock()
	p.stats.LastProcessedAt = &now
	p.statsMu.Unlock()
}

func (p *Processor) recordError(err error) {
	now := p.now()
	p.statsMu.Lock()
	p.stats.LastError = err.Error()
	p.stats.LastErrorAt = &now
	p.statsMu.Unlock()
}
