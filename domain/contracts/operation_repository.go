package contracts

import (
	"context"
	"time"

	"spfs/domain/journal"
)

// OperationRepository persists the operation journal.
type OperationRepository interface {
	// Record stores op and returns its assigned ID.
	Record(ctx context.Context, op journal.Operation) (int64, error)

	// Recent returns the newest operations first.
	Recent(ctx context.Context, limit int) ([]journal.Operation, error)

	// ForPath returns operations whose source or target is path, newest first.
	ForPath(ctx context.Context, path string, limit int) ([]journal.Operation, error)

	// Prune deletes operations recorded before cutoff and returns how many were removed.
	Prune(ctx context.Context, cutoff time.Time) (int64, error)
}
