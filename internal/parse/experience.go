package parse

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const monthNames = `jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec|` +
	`january|february|march|april|june|july|august|september|october|november|december`

var (
	sectionStartRe = regexp.MustCompile(`(?i)^(work\s+experience|experience|employment|professional\s+experience)\b`)
	sectionEndRe   = regexp.MustCompile(`(?i)^(education|projects?|skills?|certifications?|achievements?|summary|profile)\b`)

	explicitTotalRe = regexp.MustCompile(`total\s+experience\s*[:\-]?\s*(\d+(?:\.\d+)?)\s*(?:years|yrs)\b`)

	dateRangeRe = regexp.MustCompile(`(?i)((?:` + monthNames + `)\s+\d{4}|\d{4})` +
		`\s*(?:-|–|to)\s*` +
		`(present|current|(?:` + monthNames + `)\s+\d{4}|\d{4})`)

	bareYearRe  = regexp.MustCompile(`^\d{4}$`)
	monthYearRe = regexp.MustCompile(`^([a-z]+)\s+(\d{4})$`)
)

// maxSpanMonths guards against OCR/typo garbage: any single range longer than
// a plausible career is discarded.
const maxSpanMonths = 12 * 50

// EstimateExperienceYears estimates total professional experience from resume
// text, evaluated against now for open-ended ranges. Precedence:
//  1. an explicit "total experience: X years" phrase wins outright (max of all),
//  2. otherwise date ranges inside the Experience section are unioned by month
//     so overlapping employments are not double-counted,
//  3. otherwise a fresher signal yields 0.0, and anything else is unknown (nil).
func EstimateExperienceYears(text string, now time.Time) *float64 {
	raw := strings.TrimSpace(text)
	low := strings.ToLower(raw)

	saysFresher := false
	for _, signal := range fresherSignals {
		if strings.Contains(low, signal) {
			saysFresher = true
			break
		}
	}

	if matches := explicitTotalRe.FindAllStringSubmatch(low, -1); len(matches) > 0 {
		best := 0.0
		for _, m := range matches {
			if v, err := strconv.ParseFloat(m[1], 64); err == nil && v > best {
				best = v
			}
		}
		return &best
	}

	expLines := experienceSectionLines(raw)
	if len(expLines) == 0 {
		if saysFresher {
			zero := 0.0
			return &zero
		}
		return nil
	}

	months := make(map[int]struct{})

	for _, line := range expLines {
		for _, m := range dateRangeRe.FindAllStringSubmatch(line, -1) {
			start, ok := parseMonthYear(m[1])
			if !ok {
				continue
			}

			var end monthYear
			endTok := strings.ToLower(m[2])
			if endTok == "present" || endTok == "current" {
				end = monthYear{year: now.Year(), month: int(now.Month())}
			} else {
				end, ok = parseMonthYear(m[2])
				if !ok {
					continue
				}
			}

			startIdx := monthIndex(start.year, start.month)
			endIdx := monthIndex(end.year, end.month)

			if endIdx <= startIdx {
				continue
			}
			if endIdx-startIdx > maxSpanMonths {
				continue
			}

			// Union months so overlapping employments don't double-count.
			for i := startIdx; i < endIdx; i++ {
				months[i] = struct{}{}
			}
		}
	}

	if len(months) == 0 {
		if saysFresher {
			zero := 0.0
			return &zero
		}
		return nil
	}

	years := math.Round(float64(len(months))/12.0*10) / 10
	return &years
}

// experienceSectionLines returns the non-empty lines between a recognized
// Experience header and the next recognized section header (or end of text).
func experienceSectionLines(text string) []string {
	var out []string
	inSection := false
	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if sectionStartRe.MatchString(line) {
			inSection = true
			continue
		}
		if inSection && sectionEndRe.MatchString(line) {
			break
		}
		if inSection {
			out = append(out, line)
		}
	}
	return out
}

type monthYear struct {
	year  int
	month int
}

// parseMonthYear accepts "Jan 2022", "January 2022", or a bare "2022"
// (interpreted as January).
func parseMonthYear(token string) (monthYear, bool) {
	tok := normalize(token)
	if bareYearRe.MatchString(tok) {
		year, err := strconv.Atoi(tok)
		if err != nil {
			return monthYear{}, false
		}
		return monthYear{year: year, month: 1}, true
	}

	m := monthYearRe.FindStringSubmatch(tok)
	if m == nil {
		return monthYear{}, false
	}
	month, ok := monthsByName[m[1]]
	if !ok {
		return monthYear{}, false
	}
	year, err := strconv.Atoi(m[2])
	if err != nil {
		return monthYear{}, false
	}
	return monthYear{year: year, month: month}, true
}

func monthIndex(year, month int) int {
	return year*12 + (month - 1)
}
