package aggregate_test

import (
	"testing"

	"jobinsights-engine/internal/aggregate"
	"jobinsights-engine/internal/listing"
)

func intp(v int) *int { return &v }

func TestRecord_SkipsMidpointWithoutSalary(t *testing.T) {
	s := aggregate.New()
	s.Record(listing.Record{Title: "a", Skills: []string{"go"}})
	s.Record(listing.Record{Title: "b", SalaryFrom: intp(100), SalaryTo: intp(200)})

	midpoints, skills := s.Snapshot()
	if len(midpoints) != 1 || midpoints[0] != 150 {
		t.Errorf("midpoints = %v, want [150]", midpoints)
	}
	if len(skills) != 1 || skills[0] != "go" {
		t.Errorf("skills = %v, want [go]", skills)
	}
}

func TestRecord_KeepsSkillDuplicates(t *testing.T) {
	s := aggregate.New()
	s.Record(listing.Record{Skills: []string{"go", "sql"}})
	s.Record(listing.Record{Skills: []string{"go"}})

	_, skills := s.Snapshot()
	want := []string{"go", "sql", "go"}
	if len(skills) != len(want) {
		t.Fatalf("skills = %v, want %v", skills, want)
	}
	for i := range want {
		if skills[i] != want[i] {
			t.Errorf("skills[%d] = %q, want %q", i, skills[i], want[i])
		}
	}
}

func TestSnapshot_ReturnsCopies(t *testing.T) {
	s := aggregate.New()
	s.Record(listing.Record{SalaryFrom: intp(100), Skills: []string{"go"}})

	midpoints, skills := s.Snapshot()
	midpoints[0] = -1
	skills[0] = "mutated"

	m2, s2 := s.Snapshot()
	if m2[0] != 100 || s2[0] != "go" {
		t.Error("Snapshot must not share backing arrays with the caller")
	}
}
