package resumes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

const resumeColumns = `id, original_filename, storage_key, size_bytes, mime_type,
	status, extracted_text, extracted, error_message, created_at`

// Create inserts a new resume record.
func (r *PGRepo) Create(ctx context.Context, resume Resume) error {
	extracted, err := marshalExtracted(resume.Extracted)
	if err != nil {
		return err
	}
	const query = `
INSERT INTO resumes (id, original_filename, storage_key, size_bytes, mime_type,
	status, extracted_text, extracted, error_message, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.DB.ExecContext(ctx, query,
		resume.ID, resume.OriginalFilename, resume.StorageKey, resume.SizeBytes, resume.MimeType,
		resume.Status, resume.ExtractedText, extracted, resume.ErrorMessage, resume.CreatedAt)
	return err
}

// GetByID returns a resume by ID.
func (r *PGRepo) GetByID(ctx context.Context, resumeID string) (Resume, error) {
	query := fmt.Sprintf(`SELECT %s FROM resumes WHERE id = $1`, resumeColumns)
	resume, err := scanResume(r.DB.QueryRowContext(ctx, query, resumeID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Resume{}, ErrNotFound
		}
		return Resume{}, err
	}
	return resume, nil
}

// ListByIDs returns the resumes matching the given IDs, creation order.
func (r *PGRepo) ListByIDs(ctx context.Context, resumeIDs []string) ([]Resume, error) {
	if len(resumeIDs) == 0 {
		return []Resume{}, nil
	}
	placeholders := make([]string, len(resumeIDs))
	args := make([]any, len(resumeIDs))
	for i, id := range resumeIDs {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
		args[i] = id
	}
	query := fmt.Sprintf(`SELECT %s FROM resumes WHERE id IN (%s) ORDER BY created_at ASC, id ASC`,
		resumeColumns, strings.Join(placeholders, ", "))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Resume, 0, len(resumeIDs))
	for rows.Next() {
		resume, err := scanResume(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, resume)
	}
	return out, rows.Err()
}

// UpdateStatus sets only the status column.
func (r *PGRepo) UpdateStatus(ctx context.Context, resumeID, status string) error {
	const query = `UPDATE resumes SET status = $2 WHERE id = $1`
	return r.exec(ctx, query, resumeID, status)
}

// UpdateExtractedText caches the extraction result without touching status.
func (r *PGRepo) UpdateExtractedText(ctx context.Context, resumeID, text string) error {
	const query = `UPDATE resumes SET extracted_text = $2 WHERE id = $1`
	return r.exec(ctx, query, resumeID, text)
}

// UpdateParsed stores derived fields and moves the resume to parsed.
func (r *PGRepo) UpdateParsed(ctx context.Context, resumeID string, extracted map[string]any) error {
	payload, err := marshalExtracted(extracted)
	if err != nil {
		return err
	}
	const query = `UPDATE resumes SET extracted = $2, status = $3, error_message = '' WHERE id = $1`
	return r.exec(ctx, query, resumeID, payload, StatusParsed)
}

// MarkFailed records a failure message and moves the resume to failed.
func (r *PGRepo) MarkFailed(ctx context.Context, resumeID, message string) error {
	const query = `UPDATE resumes SET status = $2, error_message = $3 WHERE id = $1`
	return r.exec(ctx, query, resumeID, StatusFailed, message)
}

func (r *PGRepo) exec(ctx context.Context, query string, args ...any) error {
	res, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResume(row rowScanner) (Resume, error) {
	var resume Resume
	var extracted []byte
	err := row.Scan(&resume.ID, &resume.OriginalFilename, &resume.StorageKey, &resume.SizeBytes,
		&resume.MimeType, &resume.Status, &resume.ExtractedText, &extracted,
		&resume.ErrorMessage, &resume.CreatedAt)
	if err != nil {
		return Resume{}, err
	}
	if len(extracted) > 0 {
		if err := json.Unmarshal(extracted, &resume.Extracted); err != nil {
			return Resume{}, fmt.Errorf("decode extracted fields: %w", err)
		}
	}
	return resume, nil
}

func marshalExtracted(extracted map[string]any) ([]byte, error) {
	if extracted == nil {
		return []byte(`{}`), nil
	}
	return json.Marshal(extracted)
}

var _ Repo = (*PGRepo)(nil)
