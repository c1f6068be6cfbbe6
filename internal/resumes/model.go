package resumes

import (
	"encoding/json"
	"time"

	"resume-ranker/internal/parse"
)

// Resume processing states. Failed is terminal for a run but the row stays
// eligible for reprocessing on a later batch.
const (
	StatusUploaded   = "uploaded"
	StatusExtracting = "extracting"
	StatusParsed     = "parsed"
	StatusFailed     = "failed"
)

// Resume is an uploaded candidate document plus its cached derived data.
type Resume struct {
	ID               string         `json:"id"`
	OriginalFilename string         `json:"originalFilename"`
	StorageKey       string         `json:"storageKey"`
	SizeBytes        int64          `json:"sizeBytes"`
	MimeType         string         `json:"mimeType"`
	Status           string         `json:"status"`
	ExtractedText    string         `json:"-"`
	Extracted        map[string]any `json:"extracted,omitempty"`
	ErrorMessage     string         `json:"errorMessage,omitempty"`
	CreatedAt        time.Time      `json:"createdAt"`
}

// ExtractedFromDocument flattens parsed fields into the persisted JSON shape.
func ExtractedFromDocument(doc parse.StructuredDocument) map[string]any {
	skills := doc.Skills
	if skills == nil {
		skills = []string{}
	}
	categories := doc.ProjectCategories
	if categories == nil {
		categories = []string{}
	}
	out := map[string]any{
		"skills":             skills,
		"project_categories": categories,
	}
	if doc.ExperienceYears != nil {
		out["total_years_experience"] = *doc.ExperienceYears
	} else {
		out["total_years_experience"] = nil
	}
	return out
}

// ExtractedSkills returns the cached skill list, empty when absent.
func (r Resume) ExtractedSkills() []string {
	return stringList(r.Extracted["skills"])
}

// ExtractedCategories returns the cached project categories, empty when absent.
func (r Resume) ExtractedCategories() []string {
	return stringList(r.Extracted["project_categories"])
}

// ExtractedExperienceYears returns the cached experience estimate, nil when
// unknown or absent.
func (r Resume) ExtractedExperienceYears() *float64 {
	v, ok := r.Extracted["total_years_experience"]
	if !ok || v == nil {
		return nil
	}
	switch n := v.(type) {
	case float64:
		return &n
	case int:
		f := float64(n)
		return &f
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return nil
		}
		return &f
	}
	return nil
}

func stringList(v any) []string {
	switch list := v.(type) {
	case []string:
		out := make([]string, len(list))
		copy(out, list)
		return out
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return []string{}
}
