package repositories

import "context"

// TransactionManager runs work inside a single database transaction.
// The transaction travels in ctx, so every repository call made with the
// ctx passed to fn joins it.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
