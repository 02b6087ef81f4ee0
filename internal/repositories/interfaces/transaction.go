package interfaces

import "context"

// TransactionRunner executes fn atomically. Implementations back it with a
// MongoDB session transaction; tests substitute a pass-through runner.
type TransactionRunner interface {
	RunInTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
