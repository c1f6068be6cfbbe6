package jobs

import "time"

// JobDescription is a job posting resumes are ranked against.
type JobDescription struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	RawText   string    `json:"rawText"`
	CreatedAt time.Time `json:"createdAt"`
}
