package match

import (
	"reflect"
	"testing"
)

func TestScoreEndToEndExample(t *testing.T) {
	job := []string{"python", "django", "sql"}
	candidate := []string{"python", "sql", "react"}

	res := Score(job, candidate)

	if res.OverlapRatio != 0.5 {
		t.Errorf("OverlapRatio = %v, want 0.5", res.OverlapRatio)
	}
	if res.Score != 50 {
		t.Errorf("Score = %d, want 50", res.Score)
	}
	if want := []string{"python", "sql"}; !reflect.DeepEqual(res.MatchedSkills, want) {
		t.Errorf("MatchedSkills = %v, want %v", res.MatchedSkills, want)
	}
	if want := []string{"django"}; !reflect.DeepEqual(res.MissingSkills, want) {
		t.Errorf("MissingSkills = %v, want %v", res.MissingSkills, want)
	}
}

func TestScoreIdenticalSets(t *testing.T) {
	skills := []string{"Python", "SQL", "Docker"}
	res := Score(skills, []string{"docker", "python", "sql"})
	if res.Score != 100 {
		t.Errorf("Score = %d, want 100", res.Score)
	}
	if len(res.MissingSkills) != 0 {
		t.Errorf("MissingSkills = %v, want empty", res.MissingSkills)
	}
	if res.OverlapRatio != 1.0 {
		t.Errorf("OverlapRatio = %v, want 1.0", res.OverlapRatio)
	}
}

func TestScoreDisjointSets(t *testing.T) {
	res := Score([]string{"python"}, []string{"react"})
	if res.Score != 0 {
		t.Errorf("Score = %d, want 0", res.Score)
	}
	if res.OverlapRatio != 0.0 {
		t.Errorf("OverlapRatio = %v, want 0.0", res.OverlapRatio)
	}
}

func TestScoreBothEmpty(t *testing.T) {
	res := Score(nil, nil)
	if res.Score != 0 || res.OverlapRatio != 0.0 {
		t.Errorf("empty sets: Score=%d ratio=%v, want 0/0.0", res.Score, res.OverlapRatio)
	}
}

func TestScoreSymmetricCoefficient(t *testing.T) {
	a := []string{"python", "django", "aws"}
	b := []string{"python", "react"}
	if Score(a, b).OverlapRatio != Score(b, a).OverlapRatio {
		t.Error("Jaccard coefficient should be symmetric")
	}
}

func TestScoreBoundsAndDeterminism(t *testing.T) {
	cases := [][2][]string{
		{{"a"}, {"a", "b", "c"}},
		{{"a", "b"}, {"b", "c"}},
		{{"x", "y", "z"}, nil},
		{{"a", "A", " a "}, {"a"}}, // normalization collapses duplicates
	}
	for _, tc := range cases {
		first := Score(tc[0], tc[1])
		second := Score(tc[0], tc[1])
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Score not deterministic for %v", tc)
		}
		if first.Score < 0 || first.Score > 100 {
			t.Errorf("Score %d out of [0,100] for %v", first.Score, tc)
		}
		if first.OverlapRatio < 0 || first.OverlapRatio > 1 {
			t.Errorf("OverlapRatio %v out of [0,1] for %v", first.OverlapRatio, tc)
		}
	}
}

func TestScoreMatchedAndMissingDisjoint(t *testing.T) {
	res := Score([]string{"a", "b", "c"}, []string{"b", "d"})
	seen := map[string]bool{}
	for _, s := range res.MatchedSkills {
		seen[s] = true
	}
	for _, s := range res.MissingSkills {
		if seen[s] {
			t.Errorf("skill %q in both matched and missing", s)
		}
	}
	if len(res.MatchedSkills)+len(res.MissingSkills) != 3 {
		t.Errorf("matched+missing should cover the job set exactly")
	}
}

func TestBreakdownRetainsCoefficientAndCounts(t *testing.T) {
	res := Score([]string{"a", "b", "c"}, []string{"b"})
	bd := res.Breakdown()
	if bd["skill_overlap"] != res.OverlapRatio {
		t.Errorf("breakdown overlap = %v, want %v", bd["skill_overlap"], res.OverlapRatio)
	}
	if bd["matched_skills_count"] != 1 || bd["missing_skills_count"] != 2 {
		t.Errorf("breakdown counts = %v", bd)
	}
}
