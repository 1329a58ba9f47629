// Package listing normalizes one raw vacancy detail into a flat typed record.
package listing

import (
	"regexp"
	"time"

	"jobinsights-engine/internal/hh"
)

// The schedule label must match the source string exactly; the flag is a
// localization dependency of the upstream API.
const remoteSchedule = "Удаленная работа"

// Net multiplier applied to gross amounts inside the domestic tax
// jurisdiction (13% income tax).
const grossNetRate = 0.87

var firstDigit = regexp.MustCompile(`\d`)

// Layout of published_at / initial_created_at ('2023-07-27T10:53:02+0300').
const stampLayout = "2006-01-02T15:04:05-0700"

// RegionSet answers whether an area id belongs to the domestic tax
// jurisdiction. *directory.Directory satisfies it.
type RegionSet interface {
	Domestic(id string) bool
}

// Record is one normalized listing. It is built once per raw item and
// immutable afterwards.
type Record struct {
	Title              string
	SalaryFrom         *int // net, converted to the base currency; nil when absent
	SalaryTo           *int
	YearsExperience    int
	Remote             bool
	DaysSincePublished int
	DaysSinceCreated   int
	Employer           string
	URL                string
	Skills             []string
	Snippet            string // plain text derived from the html description
}

// HasSalary reports whether at least one bound is present.
func (r Record) HasSalary() bool {
	return r.SalaryFrom != nil || r.SalaryTo != nil
}

// Midpoint is the mean of the present salary bounds. Valid only when
// HasSalary is true.
func (r Record) Midpoint() float64 {
	switch {
	case r.SalaryFrom != nil && r.SalaryTo != nil:
		return float64(*r.SalaryFrom+*r.SalaryTo) / 2
	case r.SalaryFrom != nil:
		return float64(*r.SalaryFrom)
	case r.SalaryTo != nil:
		return float64(*r.SalaryTo)
	}
	return 0
}

// FromVacancy builds a Record from a raw detail document. now anchors the
// recency fields; future timestamps produce negative day counts uncorrected.
func FromVacancy(v hh.Vacancy, rates map[string]float64, regions RegionSet, now time.Time) Record {
	rec := Record{
		Title:              v.Name,
		Remote:             v.Schedule.Name == remoteSchedule,
		DaysSincePublished: daysSince(v.PublishedAt, now),
		DaysSinceCreated:   daysSince(v.CreatedAt, now),
		Employer:           v.Employer.Name,
		URL:                v.AlternateURL,
		YearsExperience:    experienceYears(v.Experience.Name),
		Snippet:            Snippet(v.Description),
	}

	if v.Salary != nil {
		k := 1.0
		if v.Salary.Gross && regions.Domestic(v.Area.ID) {
			k = grossNetRate
		}
		rate := rates[v.Salary.Currency]
		rec.SalaryFrom = netBound(v.Salary.From, k, rate)
		rec.SalaryTo = netBound(v.Salary.To, k, rate)
	}

	for _, s := range v.KeySkills {
		rec.Skills = append(rec.Skills, s.Name)
	}

	return rec
}

// netBound converts one salary bound to a net amount in the base currency,
// truncated to an integer. Zero or missing bounds stay absent, as does a
// bound in a currency the directory has no rate for.
func netBound(bound *int, k, rate float64) *int {
	if bound == nil || *bound == 0 || rate <= 0 {
		return nil
	}
	n := int(k * float64(*bound) / rate)
	return &n
}

// experienceYears extracts the first digit of the free-text experience label.
// This is a heuristic, not a guaranteed-correct parse: "От 1 года до 3 лет"
// yields 1, and a label with no digit yields the entry-level default 0.
func experienceYears(label string) int {
	m := firstDigit.FindString(label)
	if m == "" {
		return 0
	}
	return int(m[0] - '0')
}

// daysSince returns the calendar-day difference between now and the stamp,
// computed on dates in the stamp's own offset. Unparseable stamps count as 0.
func daysSince(stamp string, now time.Time) int {
	t, err := time.Parse(stampLayout, stamp)
	if err != nil {
		return 0
	}
	return int(midnight(now.In(t.Location())).Sub(midnight(t)).Hours() / 24)
}

func midnight(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
