package repositories

import "context"

// UnitOfWork runs fn inside a single atomic database transaction.
// A non-nil error from fn rolls back every write made through tx.
type UnitOfWork interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx PostingTx) error) error
}
