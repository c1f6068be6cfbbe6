package ranking

import (
	"context"
	"sort"
	"sync"
	"time"
)

// MemoryBatchRepo is an in-memory implementation of BatchRepo.
type MemoryBatchRepo struct {
	mu   sync.RWMutex
	data map[string]Batch
}

// NewMemoryBatchRepo constructs a MemoryBatchRepo.
func NewMemoryBatchRepo() *MemoryBatchRepo {
	return &MemoryBatchRepo{data: make(map[string]Batch)}
}

// Create stores a batch.
func (r *MemoryBatchRepo) Create(ctx context.Context, batch Batch) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[batch.ID] = batch
	return nil
}

// GetByID returns a batch by ID.
func (r *MemoryBatchRepo) GetByID(ctx context.Context, batchID string) (Batch, error) {
	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	batch, ok := r.data[batchID]
	if !ok {
		return Batch{}, ErrBatchNotFound
	}
	return batch, nil
}

// UpdateStatus sets only the batch status.
func (r *MemoryBatchRepo) UpdateStatus(ctx context.Context, batchID, status string) error {
	return r.update(ctx, batchID, func(batch *Batch) {
		batch.Status = status
	})
}

// MarkCompleted sets the terminal completed status and timestamp.
func (r *MemoryBatchRepo) MarkCompleted(ctx context.Context, batchID string, completedAt time.Time) error {
	return r.update(ctx, batchID, func(batch *Batch) {
		batch.Status = BatchStatusCompleted
		batch.CompletedAt = &completedAt
	})
}

func (r *MemoryBatchRepo) update(ctx context.Context, batchID string, mutate func(*Batch)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	batch, ok := r.data[batchID]
	if !ok {
		return ErrBatchNotFound
	}
	mutate(&batch)
	r.data[batchID] = batch
	return nil
}

// MemoryResultRepo is an in-memory implementation of ResultRepo.
type MemoryResultRepo struct {
	mu   sync.RWMutex
	data map[string]Result
	// keyIndex maps batch|job|resume to the result ID so upserts keep the
	// original row identity.
	keyIndex map[string]string
}

// NewMemoryResultRepo constructs a MemoryResultRepo.
func NewMemoryResultRepo() *MemoryResultRepo {
	return &MemoryResultRepo{
		data:     make(map[string]Result),
		keyIndex: make(map[string]string),
	}
}

func resultKey(result Result) string {
	return result.BatchID + "|" + result.JobID + "|" + result.ResumeID
}

// Upsert inserts or overwrites the result for (batch, job, resume).
func (r *MemoryResultRepo) Upsert(ctx context.Context, result Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := resultKey(result)
	if existingID, ok := r.keyIndex[key]; ok {
		existing := r.data[existingID]
		result.ID = existing.ID
		result.CreatedAt = existing.CreatedAt
	}
	r.data[result.ID] = result
	r.keyIndex[key] = result.ID
	return nil
}

// GetByID returns a result by ID.
func (r *MemoryResultRepo) GetByID(ctx context.Context, resultID string) (Result, error) {
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	result, ok := r.data[resultID]
	if !ok {
		return Result{}, ErrResultNotFound
	}
	return result, nil
}

// ListByBatch returns a batch's results ordered by score descending with ID
// as the deterministic tiebreaker.
func (r *MemoryResultRepo) ListByBatch(ctx context.Context, batchID string) ([]Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	out := make([]Result, 0)
	for _, result := range r.data {
		if result.BatchID == batchID {
			out = append(out, result)
		}
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

var (
	_ BatchRepo  = (*MemoryBatchRepo)(nil)
	_ ResultRepo = (*MemoryResultRepo)(nil)
)
