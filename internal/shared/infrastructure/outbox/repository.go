package outbox

import (
	"context"
	"time"
)

// Repository persists outbox messages. SaveBatch joins the transaction in ctx
// when there is one.
type Repository interface {
	SaveBatch(ctx context.Context, msgs []*Message) error

	// GetUnpublished returns messages that are due, oldest first.
	GetUnpublished(ctx context.Context, limit int) ([]*Message, error)

	MarkPublished(ctx context.Context, id int64) error
	MarkFailed(ctx context.Context, id int64, errMsg string, nextRetryAt time.Time) error
	MarkDead(ctx context.Context, id int64, reason string) error

	// DeleteOld removes published messages older than the cutoff.
	DeleteOld(ctx context.Context, before time.Time) (int64, error)
}
