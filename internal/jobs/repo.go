package jobs

import (
	"context"
	"errors"
)

// ErrNotFound indicates the job description does not exist.
var ErrNotFound = errors.New("job description not found")

// Repo defines persistence operations for job descriptions.
type Repo interface {
	Create(ctx context.Context, job JobDescription) error
	GetByID(ctx context.Context, jobID string) (JobDescription, error)
	List(ctx context.Context, limit, offset int) ([]JobDescription, error)
}
