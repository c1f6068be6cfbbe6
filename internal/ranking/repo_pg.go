package ranking

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// PGBatchRepo implements BatchRepo using Postgres.
type PGBatchRepo struct {
	DB *sql.DB
}

// Create inserts the batch and its resume membership in one transaction.
func (r *PGBatchRepo) Create(ctx context.Context, batch Batch) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	const insertBatch = `
INSERT INTO ranking_batches (id, job_id, status, created_at)
VALUES ($1, $2, $3, $4)`
	if _, err := tx.ExecContext(ctx, insertBatch, batch.ID, batch.JobID, batch.Status, batch.CreatedAt); err != nil {
		return err
	}

	const insertMember = `
INSERT INTO ranking_batch_resumes (batch_id, resume_id, position)
VALUES ($1, $2, $3)`
	for i, resumeID := range batch.ResumeIDs {
		if _, err := tx.ExecContext(ctx, insertMember, batch.ID, resumeID, i); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// GetByID returns the batch with its resume IDs in upload order.
func (r *PGBatchRepo) GetByID(ctx context.Context, batchID string) (Batch, error) {
	const query = `
SELECT id, job_id, status, created_at, completed_at
FROM ranking_batches
WHERE id = $1`
	var batch Batch
	var completedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, batchID).
		Scan(&batch.ID, &batch.JobID, &batch.Status, &batch.CreatedAt, &completedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Batch{}, ErrBatchNotFound
		}
		return Batch{}, err
	}
	if completedAt.Valid {
		t := completedAt.Time
		batch.CompletedAt = &t
	}

	const members = `
SELECT resume_id
FROM ranking_batch_resumes
WHERE batch_id = $1
ORDER BY position ASC, resume_id ASC`
	rows, err := r.DB.QueryContext(ctx, members, batchID)
	if err != nil {
		return Batch{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var resumeID string
		if err := rows.Scan(&resumeID); err != nil {
			return Batch{}, err
		}
		batch.ResumeIDs = append(batch.ResumeIDs, resumeID)
	}
	return batch, rows.Err()
}

// UpdateStatus sets only the batch status.
func (r *PGBatchRepo) UpdateStatus(ctx context.Context, batchID, status string) error {
	const query = `UPDATE ranking_batches SET status = $2 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, batchID, status)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrBatchNotFound
	}
	return nil
}

// MarkCompleted sets the terminal completed status and timestamp.
func (r *PGBatchRepo) MarkCompleted(ctx context.Context, batchID string, completedAt time.Time) error {
	const query = `UPDATE ranking_batches SET status = $2, completed_at = $3 WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, batchID, BatchStatusCompleted, completedAt)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrBatchNotFound
	}
	return nil
}

// PGResultRepo implements ResultRepo using Postgres.
type PGResultRepo struct {
	DB *sql.DB
}

// Upsert inserts the result or, when a row for (batch, job, resume) already
// exists, overwrites its ranking fields while keeping the original ID.
func (r *PGResultRepo) Upsert(ctx context.Context, result Result) error {
	breakdown, err := marshalJSONObject(result.Breakdown)
	if err != nil {
		return err
	}
	modelMeta, err := marshalJSONObject(result.ModelMeta)
	if err != nil {
		return err
	}
	missing, err := marshalJSONList(result.MissingRequired)
	if err != nil {
		return err
	}
	strengths, err := marshalJSONList(result.Strengths)
	if err != nil {
		return err
	}
	suggestions, err := marshalJSONList(result.Suggestions)
	if err != nil {
		return err
	}

	const query = `
INSERT INTO ranking_results (id, batch_id, job_id, resume_id, score, score_breakdown,
	reasoning, missing_required, strengths, candidate_suggestions, model_meta, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
ON CONFLICT ON CONSTRAINT uniq_result_per_batch DO UPDATE SET
	score = EXCLUDED.score,
	score_breakdown = EXCLUDED.score_breakdown,
	reasoning = EXCLUDED.reasoning,
	missing_required = EXCLUDED.missing_required,
	strengths = EXCLUDED.strengths,
	candidate_suggestions = EXCLUDED.candidate_suggestions,
	model_meta = EXCLUDED.model_meta`
	_, err = r.DB.ExecContext(ctx, query,
		result.ID, result.BatchID, result.JobID, result.ResumeID, result.Score, breakdown,
		result.Reasoning, missing, strengths, suggestions, modelMeta, result.CreatedAt)
	return err
}

const resultColumns = `id, batch_id, job_id, resume_id, score, score_breakdown,
	reasoning, missing_required, strengths, candidate_suggestions, model_meta, created_at`

// GetByID returns a result by ID.
func (r *PGResultRepo) GetByID(ctx context.Context, resultID string) (Result, error) {
	query := fmt.Sprintf(`SELECT %s FROM ranking_results WHERE id = $1`, resultColumns)
	result, err := scanResult(r.DB.QueryRowContext(ctx, query, resultID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, ErrResultNotFound
		}
		return Result{}, err
	}
	return result, nil
}

// ListByBatch returns a batch's results ordered by score descending with ID
// as the deterministic tiebreaker.
func (r *PGResultRepo) ListByBatch(ctx context.Context, batchID string) ([]Result, error) {
	query := fmt.Sprintf(`
SELECT %s
FROM ranking_results
WHERE batch_id = $1
ORDER BY score DESC, id ASC`, resultColumns)

	rows, err := r.DB.QueryContext(ctx, query, batchID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]Result, 0)
	for rows.Next() {
		result, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, result)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanResult(row rowScanner) (Result, error) {
	var result Result
	var breakdown, missing, strengths, suggestions, modelMeta []byte
	err := row.Scan(&result.ID, &result.BatchID, &result.JobID, &result.ResumeID, &result.Score,
		&breakdown, &result.Reasoning, &missing, &strengths, &suggestions, &modelMeta, &result.CreatedAt)
	if err != nil {
		return Result{}, err
	}
	for _, pair := range []struct {
		raw  []byte
		dest any
	}{
		{breakdown, &result.Breakdown},
		{missing, &result.MissingRequired},
		{strengths, &result.Strengths},
		{suggestions, &result.Suggestions},
		{modelMeta, &result.ModelMeta},
	} {
		if len(pair.raw) == 0 {
			continue
		}
		if err := json.Unmarshal(pair.raw, pair.dest); err != nil {
			return Result{}, fmt.Errorf("decode result fields: %w", err)
		}
	}
	return result, nil
}

func marshalJSONObject(m map[string]any) ([]byte, error) {
	if m == nil {
		return []byte(`{}`), nil
	}
	return json.Marshal(m)
}

func marshalJSONList(list []string) ([]byte, error) {
	if list == nil {
		return []byte(`[]`), nil
	}
	return json.Marshal(list)
}

var (
	_ BatchRepo  = (*PGBatchRepo)(nil)
	_ ResultRepo = (*PGResultRepo)(nil)
)
