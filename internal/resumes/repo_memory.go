package resumes

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu   sync.RWMutex
	data map[string]Resume
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{data: make(map[string]Resume)}
}

// Create stores a resume record.
func (r *MemoryRepo) Create(ctx context.Context, resume Resume) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[resume.ID] = resume
	return nil
}

// GetByID returns a resume by ID.
func (r *MemoryRepo) GetByID(ctx context.Context, resumeID string) (Resume, error) {
	if err := ctx.Err(); err != nil {
		return Resume{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	resume, ok := r.data[resumeID]
	if !ok {
		return Resume{}, ErrNotFound
	}
	return resume, nil
}

// ListByIDs returns the resumes it can find, in the order requested. Missing
// IDs are skipped rather than erroring.
func (r *MemoryRepo) ListByIDs(ctx context.Context, resumeIDs []string) ([]Resume, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Resume, 0, len(resumeIDs))
	for _, id := range resumeIDs {
		if resume, ok := r.data[id]; ok {
			out = append(out, resume)
		}
	}
	return out, nil
}

// UpdateStatus sets only the status column.
func (r *MemoryRepo) UpdateStatus(ctx context.Context, resumeID, status string) error {
	return r.update(ctx, resumeID, func(resume *Resume) {
		resume.Status = status
	})
}

// UpdateExtractedText caches the extraction result without touching status.
func (r *MemoryRepo) UpdateExtractedText(ctx context.Context, resumeID, text string) error {
	return r.update(ctx, resumeID, func(resume *Resume) {
		resume.ExtractedText = text
	})
}

// UpdateParsed stores derived fields and moves the resume to parsed.
func (r *MemoryRepo) UpdateParsed(ctx context.Context, resumeID string, extracted map[string]any) error {
	return r.update(ctx, resumeID, func(resume *Resume) {
		resume.Extracted = extracted
		resume.Status = StatusParsed
		resume.ErrorMessage = ""
	})
}

// MarkFailed records a failure message and moves the resume to failed.
func (r *MemoryRepo) MarkFailed(ctx context.Context, resumeID, message string) error {
	return r.update(ctx, resumeID, func(resume *Resume) {
		resume.Status = StatusFailed
		resume.ErrorMessage = message
	})
}

func (r *MemoryRepo) update(ctx context.Context, resumeID string, mutate func(*Resume)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	resume, ok := r.data[resumeID]
	if !ok {
		return ErrNotFound
	}
	mutate(&resume)
	r.data[resumeID] = resume
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
