// Package match scores a candidate's structured document against a job's
// required skills using Jaccard similarity over normalized skill sets.
package match

import (
	"math"
	"sort"
	"strings"
)

// Result is the outcome of scoring one candidate against one job.
type Result struct {
	// Score is an integer in [0,100] derived from OverlapRatio.
	Score int
	// MatchedSkills and MissingSkills are sorted, lower-cased, and disjoint.
	MatchedSkills []string
	MissingSkills []string
	// OverlapRatio is the raw Jaccard coefficient in [0,1].
	OverlapRatio float64
}

// Breakdown returns the persisted score-breakdown record with the raw
// coefficient and set counts.
func (r Result) Breakdown() map[string]any {
	return map[string]any{
		"skill_overlap":        r.OverlapRatio,
		"matched_skills_count": len(r.MatchedSkills),
		"missing_skills_count": len(r.MissingSkills),
	}
}

// Score compares the job's required skills against the candidate's skills.
// It is a pure function: identical inputs always yield identical output.
func Score(jobSkills, candidateSkills []string) Result {
	job := normalizeSet(jobSkills)
	candidate := normalizeSet(candidateSkills)

	var matched, missing []string
	for skill := range job {
		if _, ok := candidate[skill]; ok {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	sort.Strings(matched)
	sort.Strings(missing)

	ratio := jaccard(job, candidate)

	return Result{
		Score:         int(math.Round(ratio * 100)),
		MatchedSkills: matched,
		MissingSkills: missing,
		OverlapRatio:  ratio,
	}
}

// jaccard computes |A∩B| / |A∪B|, defined as 0.0 when both sets are empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0.0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

func normalizeSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, item := range items {
		trimmed := strings.ToLower(strings.TrimSpace(item))
		if trimmed != "" {
			set[trimmed] = struct{}{}
		}
	}
	return set
}
