package ranking

import "time"

// Batch lifecycle states. There is no failed terminal state for a batch;
// individual resume failures are recorded on their rows and the batch still
// completes.
const (
	BatchStatusQueued    = "queued"
	BatchStatusRunning   = "running"
	BatchStatusCompleted = "completed"
)

// Batch groups a set of resumes to rank against one job description.
type Batch struct {
	ID          string     `json:"id"`
	JobID       string     `json:"jobId"`
	ResumeIDs   []string   `json:"resumeIds"`
	Status      string     `json:"status"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Result is the ranking outcome for one resume within one batch.
type Result struct {
	ID              string         `json:"id"`
	BatchID         string         `json:"batchId"`
	JobID           string         `json:"jobId"`
	ResumeID        string         `json:"resumeId"`
	Score           int            `json:"score"`
	Breakdown       map[string]any `json:"scoreBreakdown"`
	Reasoning       string         `json:"reasoning"`
	MissingRequired []string       `json:"missingRequired"`
	Strengths       []string       `json:"strengths"`
	Suggestions     []string       `json:"candidateSuggestions"`
	ModelMeta       map[string]any `json:"modelMeta"`
	CreatedAt       time.Time      `json:"createdAt"`
}
