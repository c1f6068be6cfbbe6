package jobs

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a new job description.
func (r *PGRepo) Create(ctx context.Context, job JobDescription) error {
	const query = `
INSERT INTO job_descriptions (id, title, raw_text, created_at)
VALUES ($1, $2, $3, $4)`
	_, err := r.DB.ExecContext(ctx, query, job.ID, job.Title, job.RawText, job.CreatedAt)
	return err
}

// GetByID returns a job description by ID.
func (r *PGRepo) GetByID(ctx context.Context, jobID string) (JobDescription, error) {
	const query = `
SELECT id, title, raw_text, created_at
FROM job_descriptions
WHERE id = $1`
	var job JobDescription
	err := r.DB.QueryRowContext(ctx, query, jobID).Scan(&job.ID, &job.Title, &job.RawText, &job.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return JobDescription{}, ErrNotFound
		}
		return JobDescription{}, err
	}
	return job, nil
}

// List returns job descriptions newest-first.
func (r *PGRepo) List(ctx context.Context, limit, offset int) ([]JobDescription, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT id, title, raw_text, created_at
FROM job_descriptions
ORDER BY created_at DESC, id ASC
LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []JobDescription
	for rows.Next() {
		var job JobDescription
		if err := rows.Scan(&job.ID, &job.Title, &job.RawText, &job.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, job)
	}
	return out, rows.Err()
}

var _ Repo = (*PGRepo)(nil)
