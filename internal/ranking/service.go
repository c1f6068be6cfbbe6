package ranking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"resume-ranker/internal/explain"
	"resume-ranker/internal/jobs"
	"resume-ranker/internal/match"
	"resume-ranker/internal/parse"
	"resume-ranker/internal/resumes"
	"resume-ranker/internal/shared/metrics"
	"resume-ranker/internal/shared/telemetry"
)

// TextExtractor converts a stored resume document into plain text.
type TextExtractor interface {
	Extract(ctx context.Context, storageKey, fileName string) (string, error)
}

// maxMetaSkills bounds how many matched skills are echoed into model_meta.
const maxMetaSkills = 12

// Service runs ranking batches end to end.
type Service struct {
	Jobs      jobs.Repo
	Resumes   resumes.Repo
	Batches   BatchRepo
	Results   ResultRepo
	Extractor TextExtractor
	Provider  explain.Provider

	// now is swappable in tests.
	now func() time.Time
}

// NewService wires the batch orchestrator.
func NewService(jobRepo jobs.Repo, resumeRepo resumes.Repo, batchRepo BatchRepo,
	resultRepo ResultRepo, extractor TextExtractor, provider explain.Provider) *Service {
	return &Service{
		Jobs:      jobRepo,
		Resumes:   resumeRepo,
		Batches:   batchRepo,
		Results:   resultRepo,
		Extractor: extractor,
		Provider:  provider,
		now:       time.Now,
	}
}

// ResumeOutcome reports how one resume fared within a batch run.
type ResumeOutcome struct {
	ResumeID string
	Err      error
}

// BatchReport summarizes a batch run.
type BatchReport struct {
	BatchID   string
	Outcomes  []ResumeOutcome
	Processed int
	Failed    int
}

// ProcessBatch ranks every resume in the batch against its job description.
// A failure on one resume marks that resume failed and moves on; the batch
// itself always reaches completed unless batch-level reads or writes fail.
func (s *Service) ProcessBatch(ctx context.Context, batchID string) (BatchReport, error) {
	report := BatchReport{BatchID: batchID}

	batch, err := s.Batches.GetByID(ctx, batchID)
	if err != nil {
		return report, fmt.Errorf("load batch %s: %w", batchID, err)
	}
	if err := s.Batches.UpdateStatus(ctx, batchID, BatchStatusRunning); err != nil {
		return report, fmt.Errorf("mark batch running: %w", err)
	}
	metrics.IncBatchesStarted()
	started := s.now()
	telemetry.Info("ranking.batch.started", map[string]any{
		"batchId": batchID,
		"jobId":   batch.JobID,
		"resumes": len(batch.ResumeIDs),
	})

	job, err := s.Jobs.GetByID(ctx, batch.JobID)
	if err != nil {
		return report, fmt.Errorf("load job %s: %w", batch.JobID, err)
	}
	jobDoc := parse.Document(job.RawText)

	for _, resumeID := range batch.ResumeIDs {
		err := s.processResume(ctx, job, jobDoc, batch, resumeID)
		if err != nil {
			if markErr := s.Resumes.MarkFailed(ctx, resumeID, err.Error()); markErr != nil {
				telemetry.Error("ranking.resume.mark_failed_error", map[string]any{
					"batchId":  batchID,
					"resumeId": resumeID,
					"error":    markErr.Error(),
				})
			}
			metrics.IncResumesFailed()
			report.Failed++
			telemetry.Error("ranking.resume.failed", map[string]any{
				"batchId":  batchID,
				"resumeId": resumeID,
				"error":    err.Error(),
			})
		} else {
			metrics.IncResumesProcessed()
			report.Processed++
		}
		report.Outcomes = append(report.Outcomes, ResumeOutcome{ResumeID: resumeID, Err: err})
	}

	completedAt := s.now().UTC()
	if err := s.Batches.MarkCompleted(ctx, batchID, completedAt); err != nil {
		return report, fmt.Errorf("mark batch completed: %w", err)
	}
	metrics.IncBatchesCompleted()
	metrics.ObserveBatchDurationMs(float64(completedAt.Sub(started).Milliseconds()))
	telemetry.Info("ranking.batch.completed", map[string]any{
		"batchId":   batchID,
		"processed": report.Processed,
		"failed":    report.Failed,
	})
	return report, nil
}

func (s *Service) processResume(ctx context.Context, job jobs.JobDescription,
	jobDoc parse.StructuredDocument, batch Batch, resumeID string) error {
	resume, err := s.Resumes.GetByID(ctx, resumeID)
	if err != nil {
		return fmt.Errorf("load resume: %w", err)
	}

	// Extraction is cached: a resume ranked in an earlier batch keeps its
	// text and never touches the object store again.
	if strings.TrimSpace(resume.ExtractedText) == "" {
		if err := s.Resumes.UpdateStatus(ctx, resume.ID, resumes.StatusExtracting); err != nil {
			return fmt.Errorf("mark extracting: %w", err)
		}
		text, err := s.Extractor.Extract(ctx, resume.StorageKey, resume.OriginalFilename)
		if err != nil {
			return fmt.Errorf("extract text: %w", err)
		}
		if err := s.Resumes.UpdateExtractedText(ctx, resume.ID, text); err != nil {
			return fmt.Errorf("save extracted text: %w", err)
		}
		resume.ExtractedText = text
	}

	if !parse.HasDerivedFields(resume.Extracted) {
		doc := parse.Document(resume.ExtractedText)
		extracted := resumes.ExtractedFromDocument(doc)
		if err := s.Resumes.UpdateParsed(ctx, resume.ID, extracted); err != nil {
			return fmt.Errorf("save parsed fields: %w", err)
		}
		resume.Extracted = extracted
	} else if resume.Status != resumes.StatusParsed {
		if err := s.Resumes.UpdateStatus(ctx, resume.ID, resumes.StatusParsed); err != nil {
			return fmt.Errorf("mark parsed: %w", err)
		}
	}

	scored := match.Score(jobDoc.Skills, resume.ExtractedSkills())

	explanation := s.Provider.Explain(ctx, explain.Input{
		JobTitle:          job.Title,
		JobText:           job.RawText,
		ResumeText:        resume.ExtractedText,
		Score:             scored.Score,
		MissingSkills:     scored.MissingSkills,
		MatchedCategories: resume.ExtractedCategories(),
	})

	modelMeta := map[string]any{
		"matched_skills": capList(scored.MatchedSkills, maxMetaSkills),
	}
	for k, v := range explanation.Meta {
		modelMeta[k] = v
	}

	strengths := explanation.Strengths
	if years := resume.ExtractedExperienceYears(); years != nil && len(strengths) > 0 {
		strengths = append(strengths, fmt.Sprintf("Estimated experience: ~%.1f years", *years))
	}

	result := Result{
		ID:              uuid.NewString(),
		BatchID:         batch.ID,
		JobID:           job.ID,
		ResumeID:        resume.ID,
		Score:           scored.Score,
		Breakdown:       scored.Breakdown(),
		Reasoning:       explanation.Reasoning,
		MissingRequired: scored.MissingSkills,
		Strengths:       strengths,
		Suggestions:     explanation.Suggestions,
		ModelMeta:       modelMeta,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.Results.Upsert(ctx, result); err != nil {
		return fmt.Errorf("save result: %w", err)
	}
	return nil
}

func capList(list []string, limit int) []string {
	if list == nil {
		return []string{}
	}
	if len(list) <= limit {
		return list
	}
	return list[:limit]
}
