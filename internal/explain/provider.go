// Package explain produces human-readable reasoning, strengths, and
// improvement suggestions for a scored resume. The remote provider asks an
// external generative model and degrades to deterministic heuristics on any
// failure; augmentation never fails a resume.
package explain

import (
	"context"
	"fmt"
	"strings"
)

const maxSuggestions = 10

// Input carries everything a provider needs to explain a match.
type Input struct {
	JobTitle          string
	JobText           string
	ResumeText        string
	Score             int
	MissingSkills     []string
	MatchedCategories []string
}

// Explanation is the provider output merged into the persisted result.
type Explanation struct {
	Reasoning   string
	Strengths   []string
	Suggestions []string
	// Meta carries provider metadata, including failure tags when the remote
	// call degraded to heuristics.
	Meta map[string]any
}

// Provider generates an explanation for a scored resume. Implementations must
// always return a usable explanation; remote failures degrade internally.
type Provider interface {
	Explain(ctx context.Context, in Input) Explanation
}

// HeuristicProvider produces deterministic, non-personalized output. It is
// both the default provider and the fallback for the remote one.
type HeuristicProvider struct{}

const fallbackReasoning = "Score computed using skill overlap between job description keywords and extracted resume skills."

// Explain builds the deterministic explanation.
func (HeuristicProvider) Explain(ctx context.Context, in Input) Explanation {
	_ = ctx
	return Explanation{
		Reasoning:   fallbackReasoning,
		Strengths:   nil,
		Suggestions: Suggestions(in.MissingSkills, in.JobTitle, in.MatchedCategories),
		Meta:        map[string]any{"mode": "heuristic"},
	}
}

// Suggestions returns the fixed suggestion policy: missing skills first (up to
// 8, with an ellipsis marker beyond that), then general resume tips, then
// category-specific tips, capped at 10 total.
func Suggestions(missing []string, jobTitle string, categories []string) []string {
	var tips []string
	if len(missing) > 0 {
		shown := missing
		marker := ""
		if len(shown) > 8 {
			shown = shown[:8]
			marker = "..."
		}
		tips = append(tips, "Add evidence for missing skills: "+strings.Join(shown, ", ")+marker)
	}

	if jobTitle == "" {
		jobTitle = "Job"
	}
	tips = append(tips,
		fmt.Sprintf("Tailor your resume summary to the '%s' role using the same JD keywords.", jobTitle),
		"Quantify impact in projects/experience (e.g., latency reduced 30%, served 10k users/day).",
		"Add 2-4 relevant projects with tech stack + outcome + GitHub link.",
		"Move the most relevant skills/projects to page 1.",
		"Use consistent formatting and short bullets (1-2 lines) for readability.",
	)

	matched := make(map[string]struct{}, len(categories))
	for _, c := range categories {
		matched[c] = struct{}{}
	}
	if _, ok := matched["Backend"]; ok {
		tips = append(tips, "Highlight backend depth: REST APIs, auth (JWT/OAuth), DB schema/indexing, caching, testing.")
	}
	if _, ok := matched["Cloud/DevOps"]; ok {
		tips = append(tips, "Add deployment details: Docker, CI/CD, cloud services used, monitoring/logging.")
	}
	_, data := matched["Data/Analytics"]
	_, aiml := matched["AI/ML"]
	if data || aiml {
		tips = append(tips, "Mention datasets, metrics, evaluation approach, and any deployment/inference details.")
	}

	if len(tips) > maxSuggestions {
		tips = tips[:maxSuggestions]
	}
	return tips
}

var _ Provider = HeuristicProvider{}
