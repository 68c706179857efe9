package application

import (
	"context"
	"fmt"

	"github.com/Animesh0711/DailyEase/internal/shared/domain"
)

// UnitOfWork scopes repository calls to one transaction carried in the context.
type UnitOfWork interface {
	Begin(ctx context.Context) (context.Context, error)
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// UnitOfWorkFunc runs inside a transaction context.
type UnitOfWorkFunc func(ctx context.Context) error

// WithUnitOfWork runs fn in a transaction. The transaction is rolled back when
// fn returns an error or panics. Begin and Commit failures are classified as
// persistence errors; errors from fn are returned unchanged.
func WithUnitOfWork(ctx context.Context, uow UnitOfWork, fn UnitOfWorkFunc) (err error) {
	txCtx, err := uow.Begin(ctx)
	if err != nil {
		return domain.Wrap(domain.KindPersistence, "begin transaction", err)
	}

	defer func() {
		if r := recover(); r != nil {
			_ = uow.Rollback(txCtx)
			panic(r)
		}
	}()

	if err := fn(txCtx); err != nil {
		if rbErr := uow.Rollback(txCtx); rbErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rbErr)
		}
		return err
	}

	if err := uow.Commit(txCtx); err != nil {
		return domain.Wrap(domain.KindPersistence, "commit transaction", err)
	}
	return nil
}
