package report_test

import (
	"testing"

	"jobinsights-engine/internal/report"
)

// ── TopSkills ──────────────────────────────────────────────────────────────

func TestTopSkills_FrequencyOrder(t *testing.T) {
	got := report.TopSkills([]string{"go", "go", "rust", "go", "rust"}, 20)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].Name != "go" || got[0].Count != 3 {
		t.Errorf("top entry = %+v, want go:3", got[0])
	}
	if got[1].Name != "rust" || got[1].Count != 2 {
		t.Errorf("second entry = %+v, want rust:2", got[1])
	}
}

func TestTopSkills_TieBrokenByFirstSeen(t *testing.T) {
	got := report.TopSkills([]string{"b", "a", "b", "a"}, 20)
	if got[0].Name != "b" || got[1].Name != "a" {
		t.Errorf("tie order = %s,%s, want b,a (first seen wins)", got[0].Name, got[1].Name)
	}
}

func TestTopSkills_Limit(t *testing.T) {
	got := report.TopSkills([]string{"a", "b", "c", "d"}, 2)
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestTopSkills_Empty(t *testing.T) {
	if got := report.TopSkills(nil, 20); len(got) != 0 {
		t.Errorf("TopSkills(nil) = %v, want empty", got)
	}
}

// ── Descriptive statistics ─────────────────────────────────────────────────

func TestSalaryStatistics(t *testing.T) {
	xs := []float64{100, 200, 300}
	if got := report.Mean(xs); got != 200 {
		t.Errorf("Mean = %v, want 200", got)
	}
	if got := report.Median(xs); got != 200 {
		t.Errorf("Median = %v, want 200", got)
	}
}

func TestMedian_EvenCount(t *testing.T) {
	if got := report.Median([]float64{100, 200, 300, 400}); got != 250 {
		t.Errorf("Median = %v, want 250", got)
	}
}

func TestMode_TieTakesSmallestValue(t *testing.T) {
	if got := report.Mode([]float64{300, 100, 300, 100, 200}); got != 100 {
		t.Errorf("Mode = %v, want 100", got)
	}
	if got := report.Mode([]float64{5, 5, 2}); got != 5 {
		t.Errorf("Mode = %v, want 5", got)
	}
}
