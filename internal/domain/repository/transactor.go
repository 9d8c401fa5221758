package repository

import "context"

// Transactor runs fn inside a single database transaction. Repositories
// called with the ctx passed to fn participate in that transaction, so a
// check-then-write sequence (recording a payment, assigning a document
// number, advancing a schedule) commits or rolls back as one unit.
type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
