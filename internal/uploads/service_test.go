package uploads

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"resume-ranker/internal/jobs"
	"resume-ranker/internal/queue"
	"resume-ranker/internal/ranking"
	"resume-ranker/internal/resumes"
)

type fakeStore struct {
	saved map[string][]byte
	err   error
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: map[string][]byte{}}
}

func (s *fakeStore) Save(ctx context.Context, ownerID, fileName string, r io.Reader) (string, int64, string, error) {
	if s.err != nil {
		return "", 0, "", s.err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := ownerID + "/" + fileName
	s.saved[key] = data
	return key, int64(len(data)), "application/octet-stream", nil
}

func (s *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	data, ok := s.saved[storageKey]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(strings.NewReader(string(data))), nil
}

type fakeQueue struct {
	messages []queue.Message
	err      error
}

func (q *fakeQueue) Enqueue(ctx context.Context, msg queue.Message) error {
	if q.err != nil {
		return q.err
	}
	q.messages = append(q.messages, msg)
	return nil
}

func newTestService(t *testing.T) (*Service, *fakeStore, *fakeQueue, *ranking.MemoryBatchRepo, *resumes.MemoryRepo) {
	t.Helper()
	jobRepo := jobs.NewMemoryRepo()
	if err := jobRepo.Create(context.Background(), jobs.JobDescription{
		ID:        "job-1",
		Title:     "Backend Engineer",
		RawText:   "Python and SQL.",
		CreatedAt: time.Now(),
	}); err != nil {
		t.Fatalf("seed job: %v", err)
	}
	resumeRepo := resumes.NewMemoryRepo()
	batchRepo := ranking.NewMemoryBatchRepo()
	store := newFakeStore()
	q := &fakeQueue{}
	svc := NewService(jobRepo, resumeRepo, batchRepo, store, q)
	return svc, store, q, batchRepo, resumeRepo
}

func TestCreateBatchStoresFilesAndEnqueues(t *testing.T) {
	svc, store, q, batchRepo, resumeRepo := newTestService(t)

	files := []UploadedFile{
		{Name: "alice.pdf", Reader: strings.NewReader("pdf-bytes")},
		{Name: "bob.docx", Reader: strings.NewReader("docx-bytes")},
	}
	batch, stored, err := svc.CreateBatch(context.Background(), "job-1", "req-1", files)
	if err != nil {
		t.Fatalf("CreateBatch: %v", err)
	}
	if batch.Status != ranking.BatchStatusQueued {
		t.Fatalf("batch status = %q, want queued", batch.Status)
	}
	if len(batch.ResumeIDs) != 2 || len(stored) != 2 {
		t.Fatalf("batch resumes = %v, stored = %d", batch.ResumeIDs, len(stored))
	}
	if len(store.saved) != 2 {
		t.Fatalf("stored objects = %d, want 2", len(store.saved))
	}

	persisted, err := batchRepo.GetByID(context.Background(), batch.ID)
	if err != nil {
		t.Fatalf("get batch: %v", err)
	}
	if persisted.JobID != "job-1" {
		t.Fatalf("batch jobId = %q", persisted.JobID)
	}

	for _, r := range stored {
		got, err := resumeRepo.GetByID(context.Background(), r.ID)
		if err != nil {
			t.Fatalf("get resume: %v", err)
		}
		if got.Status != resumes.StatusUploaded {
			t.Fatalf("resume status = %q, want uploaded", got.Status)
		}
		if got.StorageKey == "" || got.SizeBytes == 0 {
			t.Fatalf("resume not stored: %+v", got)
		}
	}

	if len(q.messages) != 1 {
		t.Fatalf("enqueued %d messages, want 1", len(q.messages))
	}
	if q.messages[0].BatchID != batch.ID || q.messages[0].RequestID != "req-1" {
		t.Fatalf("message = %+v", q.messages[0])
	}
}

func TestCreateBatchRejectsUnsupportedExtensions(t *testing.T) {
	svc, store, q, _, _ := newTestService(t)

	files := []UploadedFile{
		{Name: "ok.pdf", Reader: strings.NewReader("pdf")},
		{Name: "notes.txt", Reader: strings.NewReader("txt")},
	}
	_, _, err := svc.CreateBatch(context.Background(), "job-1", "", files)
	if !errors.Is(err, ErrUnsupportedFile) {
		t.Fatalf("err = %v, want ErrUnsupportedFile", err)
	}
	// Validation happens before any write.
	if len(store.saved) != 0 {
		t.Fatalf("stored %d objects before validation failure", len(store.saved))
	}
	if len(q.messages) != 0 {
		t.Fatal("message enqueued despite validation failure")
	}
}

func TestCreateBatchRequiresJobAndFiles(t *testing.T) {
	svc, _, _, _, _ := newTestService(t)

	if _, _, err := svc.CreateBatch(context.Background(), "", "", []UploadedFile{{Name: "a.pdf", Reader: strings.NewReader("x")}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for empty job", err)
	}
	if _, _, err := svc.CreateBatch(context.Background(), "job-1", "", nil); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for no files", err)
	}
	if _, _, err := svc.CreateBatch(context.Background(), "job-missing", "", []UploadedFile{{Name: "a.pdf", Reader: strings.NewReader("x")}}); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("err = %v, want ErrInvalidInput for unknown job", err)
	}
}

func TestCreateBatchPropagatesQueueFailure(t *testing.T) {
	svc, _, q, _, _ := newTestService(t)
	q.err = errors.New("sqs down")

	_, _, err := svc.CreateBatch(context.Background(), "job-1", "", []UploadedFile{
		{Name: "a.pdf", Reader: strings.NewReader("x")},
	})
	if err == nil || !strings.Contains(err.Error(), "enqueue batch") {
		t.Fatalf("err = %v, want enqueue failure", err)
	}
}
