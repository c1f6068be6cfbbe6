// Package uploads accepts resume files for a job and creates the ranking
// batch that the worker will process.
package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"resume-ranker/internal/jobs"
	"resume-ranker/internal/queue"
	"resume-ranker/internal/ranking"
	"resume-ranker/internal/resumes"
	"resume-ranker/internal/shared/storage/object"
	"resume-ranker/internal/shared/telemetry"
	"resume-ranker/internal/shared/util"
)

var (
	// ErrInvalidInput covers missing job IDs, empty uploads, and bad filenames.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnsupportedFile indicates a file that is neither PDF nor DOCX.
	ErrUnsupportedFile = errors.New("unsupported file type, only PDF/DOCX supported")
)

// UploadedFile is one incoming resume document.
type UploadedFile struct {
	Name   string
	Reader io.Reader
}

// Service stores uploads, records batch membership, and enqueues the batch.
type Service struct {
	Jobs    jobs.Repo
	Resumes resumes.Repo
	Batches ranking.BatchRepo
	Store   object.ObjectStore
	Queue   queue.Client

	now func() time.Time
}

// NewService wires the upload boundary.
func NewService(jobRepo jobs.Repo, resumeRepo resumes.Repo, batchRepo ranking.BatchRepo,
	store object.ObjectStore, queueClient queue.Client) *Service {
	return &Service{
		Jobs:    jobRepo,
		Resumes: resumeRepo,
		Batches: batchRepo,
		Store:   store,
		Queue:   queueClient,
		now:     time.Now,
	}
}

// CreateBatch validates and stores the uploads, creates the resume rows and
// the batch, then enqueues one message for the worker. All files must pass
// the extension check before anything is written.
func (s *Service) CreateBatch(ctx context.Context, jobID, requestID string,
	files []UploadedFile) (ranking.Batch, []resumes.Resume, error) {
	if jobID == "" {
		return ranking.Batch{}, nil, fmt.Errorf("%w: jobId is required", ErrInvalidInput)
	}
	if len(files) == 0 {
		return ranking.Batch{}, nil, fmt.Errorf("%w: at least one resume file is required", ErrInvalidInput)
	}
	if _, err := s.Jobs.GetByID(ctx, jobID); err != nil {
		if errors.Is(err, jobs.ErrNotFound) {
			return ranking.Batch{}, nil, fmt.Errorf("%w: job %s not found", ErrInvalidInput, jobID)
		}
		return ranking.Batch{}, nil, fmt.Errorf("load job: %w", err)
	}
	for _, f := range files {
		switch util.FileExt(f.Name) {
		case "pdf", "docx":
		default:
			return ranking.Batch{}, nil, fmt.Errorf("%w: %s", ErrUnsupportedFile, f.Name)
		}
	}

	batchID := uuid.NewString()
	createdAt := s.now().UTC()
	stored := make([]resumes.Resume, 0, len(files))

	for _, f := range files {
		name, err := util.SanitizeFileName(f.Name)
		if err != nil {
			return ranking.Batch{}, nil, fmt.Errorf("%w: %s", ErrInvalidInput, err.Error())
		}
		storageKey, sizeBytes, mimeType, err := s.Store.Save(ctx, batchID, name, f.Reader)
		if err != nil {
			return ranking.Batch{}, nil, fmt.Errorf("store %s: %w", name, err)
		}
		resume := resumes.Resume{
			ID:               uuid.NewString(),
			OriginalFilename: name,
			StorageKey:       storageKey,
			SizeBytes:        sizeBytes,
			MimeType:         mimeType,
			Status:           resumes.StatusUploaded,
			CreatedAt:        createdAt,
		}
		if err := s.Resumes.Create(ctx, resume); err != nil {
			return ranking.Batch{}, nil, fmt.Errorf("create resume row: %w", err)
		}
		stored = append(stored, resume)
	}

	batch := ranking.Batch{
		ID:        batchID,
		JobID:     jobID,
		Status:    ranking.BatchStatusQueued,
		CreatedAt: createdAt,
	}
	for _, r := range stored {
		batch.ResumeIDs = append(batch.ResumeIDs, r.ID)
	}
	if err := s.Batches.Create(ctx, batch); err != nil {
		return ranking.Batch{}, nil, fmt.Errorf("create batch: %w", err)
	}

	if err := s.Queue.Enqueue(ctx, queue.NewMessage(batchID, requestID)); err != nil {
		return ranking.Batch{}, nil, fmt.Errorf("enqueue batch: %w", err)
	}
	telemetry.Info("uploads.batch.enqueued", map[string]any{
		"batchId": batchID,
		"jobId":   jobID,
		"resumes": len(stored),
	})
	return batch, stored, nil
}
