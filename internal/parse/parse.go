// Package parse derives structured fields (skills, experience, project
// categories) from unstructured resume or job-description text using
// keyword heuristics.
package parse

import (
	"regexp"
	"sort"
	"strings"
	"time"
	"unicode"
)

// StructuredDocument is the derived record for either a resume or a job
// description. ExperienceYears is nil when the document gives no usable
// signal; a fresher is 0.0, which is distinct from unknown.
type StructuredDocument struct {
	Skills            []string `json:"skills"`
	ExperienceYears   *float64 `json:"total_years_experience"`
	ProjectCategories []string `json:"project_categories"`
}

// HasDerivedFields reports whether all required derived keys are present in a
// raw extracted map, deciding whether a cached parse can be reused.
func HasDerivedFields(extracted map[string]any) bool {
	if extracted == nil {
		return false
	}
	for _, key := range []string{"skills", "project_categories", "total_years_experience"} {
		if _, ok := extracted[key]; !ok {
			return false
		}
	}
	return true
}

// Document runs all extraction passes over the given text.
func Document(text string) StructuredDocument {
	skills := Skills(text)
	return StructuredDocument{
		Skills:            skills,
		ExperienceYears:   EstimateExperienceYears(text, time.Now()),
		ProjectCategories: Categories(text, skills),
	}
}

var whitespaceRe = regexp.MustCompile(`\s+`)

func normalize(s string) string {
	return whitespaceRe.ReplaceAllString(strings.ToLower(strings.TrimSpace(s)), " ")
}

// Skills returns the known skill keywords found in the text, in vocabulary
// order, deduplicated, rendered in title case. Matching is deliberately
// substring-based: "java" inside "javascript" counts, and scoring calibration
// depends on that behavior.
func Skills(text string) []string {
	normalized := normalize(text)

	var found []string
	seen := make(map[string]struct{})
	for _, kw := range skillKeywords {
		key := normalize(kw)
		if !strings.Contains(normalized, key) {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		found = append(found, displaySkill(kw))
	}
	return found
}

// displaySkill renders an all-lowercase vocabulary entry in title case,
// leaving mixed-case entries untouched.
func displaySkill(kw string) string {
	if kw != strings.ToLower(kw) {
		return kw
	}
	var b strings.Builder
	prevLetter := false
	for _, r := range kw {
		if unicode.IsLetter(r) && !prevLetter {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(r)
		}
		prevLetter = unicode.IsLetter(r)
	}
	return b.String()
}

// Categories returns the sorted set of project categories whose trigger
// keywords appear in the text or in the already-extracted skill list.
func Categories(text string, skills []string) []string {
	var sb strings.Builder
	sb.WriteString(normalize(text))
	for _, s := range skills {
		sb.WriteString(" ")
		sb.WriteString(normalize(s))
	}
	signals := sb.String()

	var cats []string
	for cat, triggers := range categoryRules {
		for _, trigger := range triggers {
			if strings.Contains(signals, normalize(trigger)) {
				cats = append(cats, cat)
				break
			}
		}
	}
	sort.Strings(cats)
	return cats
}
