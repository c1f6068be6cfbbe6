package ranking

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrBatchNotFound indicates the batch does not exist.
	ErrBatchNotFound = errors.New("ranking batch not found")
	// ErrResultNotFound indicates the result does not exist.
	ErrResultNotFound = errors.New("ranking result not found")
)

// BatchRepo defines persistence operations for ranking batches.
type BatchRepo interface {
	Create(ctx context.Context, batch Batch) error
	GetByID(ctx context.Context, batchID string) (Batch, error)
	UpdateStatus(ctx context.Context, batchID, status string) error
	MarkCompleted(ctx context.Context, batchID string, completedAt time.Time) error
}

// ResultRepo defines persistence operations for ranking results. Upsert is
// keyed on (batch, job, resume) so reprocessing a batch overwrites rather
// than duplicates.
type ResultRepo interface {
	Upsert(ctx context.Context, result Result) error
	GetByID(ctx context.Context, resultID string) (Result, error)
	ListByBatch(ctx context.Context, batchID string) ([]Result, error)
}
