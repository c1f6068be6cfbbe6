package parse

import (
	"testing"
	"time"
)

var evalTime = time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

func years(t *testing.T, text string) *float64 {
	t.Helper()
	return EstimateExperienceYears(text, evalTime)
}

func wantYears(t *testing.T, text string, want float64) {
	t.Helper()
	got := years(t, text)
	if got == nil {
		t.Fatalf("expected %.1f, got unknown", want)
	}
	if *got != want {
		t.Errorf("expected %.1f, got %.1f", want, *got)
	}
}

func TestExplicitTotalExperienceWins(t *testing.T) {
	text := `Total Experience: 5 years
Experience
Jan 2020 - Jun 2021 Backend Engineer`
	wantYears(t, text, 5.0)
}

func TestExplicitTotalExperienceTakesMax(t *testing.T) {
	text := "Total experience: 3 yrs\nsome text\ntotal experience - 7.5 years"
	wantYears(t, text, 7.5)
}

func TestNoSectionNoFresherIsUnknown(t *testing.T) {
	if got := years(t, "Just a list of skills: Python, SQL"); got != nil {
		t.Errorf("expected unknown, got %.1f", *got)
	}
}

func TestNoSectionWithFresherIsZero(t *testing.T) {
	wantYears(t, "Objective: seeking an opportunity as a Fresher", 0.0)
}

func TestOverlappingRangesAreUnioned(t *testing.T) {
	text := `Experience
Jan 2020 - Jun 2021 Backend Engineer at A
Mar 2021 - Dec 2021 Backend Engineer at B`
	// Jan 2020..Dec 2021 minus the shared months counted once: 23 months ~ 1.9y,
	// not the 17+9=26 months a naive sum would give.
	wantYears(t, text, 1.9)
}

func TestInvertedRangeDiscarded(t *testing.T) {
	text := `Experience
Jun 2021 - Jan 2020 Time traveler`
	if got := years(t, text); got != nil {
		t.Errorf("expected unknown (no valid range), got %.1f", *got)
	}
}

func TestImplausiblyLongRangeDiscarded(t *testing.T) {
	text := `Experience
1900 - 2024 Apparently a vampire`
	if got := years(t, text); got != nil {
		t.Errorf("expected unknown (range over cap), got %.1f", *got)
	}
}

func TestPresentEndUsesEvaluationTime(t *testing.T) {
	text := `Work Experience
Jun 2023 - Present Software Engineer`
	// Jun 2023 .. Jun 2024 = 12 months.
	wantYears(t, text, 1.0)
}

func TestBareYearRange(t *testing.T) {
	text := `Employment
2019 - 2021 Analyst`
	// Jan 2019 .. Jan 2021 = 24 months.
	wantYears(t, text, 2.0)
}

func TestEnDashSeparator(t *testing.T) {
	text := "Professional Experience\nJan 2022 – Jan 2023 Engineer"
	wantYears(t, text, 1.0)
}

func TestSectionStopsAtNextHeader(t *testing.T) {
	text := `Experience
Jan 2022 - Jan 2023 Engineer
Education
2010 - 2014 University`
	// The education range must not count.
	wantYears(t, text, 1.0)
}

func TestDatesOutsideSectionIgnored(t *testing.T) {
	text := `Projects
Jan 2010 - Jan 2020 Side project
Experience
Jan 2023 - Jan 2024 Engineer`
	// The projects header precedes the experience header, so scanning starts
	// at the experience section only.
	wantYears(t, text, 1.0)
}

func TestFresherWithEmptyishSectionIsZero(t *testing.T) {
	text := `Fresher
Experience
No professional experience yet`
	wantYears(t, text, 0.0)
}
