package resumes

import (
	"context"
	"errors"
)

// ErrNotFound indicates the resume does not exist.
var ErrNotFound = errors.New("resume not found")

// Repo defines persistence operations for resumes. Update methods write only
// the named fields so concurrent pipeline steps never clobber each other.
type Repo interface {
	Create(ctx context.Context, resume Resume) error
	GetByID(ctx context.Context, resumeID string) (Resume, error)
	ListByIDs(ctx context.Context, resumeIDs []string) ([]Resume, error)
	UpdateStatus(ctx context.Context, resumeID, status string) error
	UpdateExtractedText(ctx context.Context, resumeID, text string) error
	UpdateParsed(ctx context.Context, resumeID string, extracted map[string]any) error
	MarkFailed(ctx context.Context, resumeID, message string) error
}
