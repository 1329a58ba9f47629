// Package aggregate is the append-only collector feeding the report's
// summary views. It computes no statistics itself.
package aggregate

import "jobinsights-engine/internal/listing"

// State belongs to one pipeline run and is discarded with it.
type State struct {
	midpoints []float64
	skills    []string
}

func New() *State {
	return &State{}
}

// Record accumulates one listing. Records without any salary bound
// contribute no midpoint; skills keep source order and duplicates.
func (s *State) Record(rec listing.Record) {
	if rec.HasSalary() {
		s.midpoints = append(s.midpoints, rec.Midpoint())
	}
	s.skills = append(s.skills, rec.Skills...)
}

// Snapshot returns copies of the accumulated sequences.
func (s *State) Snapshot() (midpoints []float64, skills []string) {
	midpoints = make([]float64, len(s.midpoints))
	copy(midpoints, s.midpoints)
	skills = make([]string, len(s.skills))
	copy(skills, s.skills)
	return midpoints, skills
}
