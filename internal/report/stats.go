package report

import "sort"

// Mean is the arithmetic mean. Callers guard against empty input.
func Mean(xs []float64) float64 {
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs))
}

// Median returns the middle value, or the mean of the two middle values for
// an even count.
func Median(xs []float64) float64 {
	s := make([]float64, len(xs))
	copy(s, xs)
	sort.Float64s(s)
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

// Mode returns the most frequent value. Multiple modes are possible; the
// smallest value wins the tie.
func Mode(xs []float64) float64 {
	counts := make(map[float64]int, len(xs))
	for _, x := range xs {
		counts[x]++
	}
	var best float64
	bestN := 0
	for x, n := range counts {
		if n > bestN || (n == bestN && x < best) {
			best, bestN = x, n
		}
	}
	return best
}

// SkillCount is one entry of the skill frequency table.
type SkillCount struct {
	Name  string
	Count int
}

// TopSkills counts occurrences and returns the n most frequent tags ordered
// by descending frequency, ties broken by first-seen order.
func TopSkills(occurrences []string, n int) []SkillCount {
	counts := make(map[string]int)
	firstSeen := make(map[string]int)
	var order []string
	for i, s := range occurrences {
		if _, ok := counts[s]; !ok {
			firstSeen[s] = i
			order = append(order, s)
		}
		counts[s]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if counts[order[i]] != counts[order[j]] {
			return counts[order[i]] > counts[order[j]]
		}
		return firstSeen[order[i]] < firstSeen[order[j]]
	})

	if len(order) > n {
		order = order[:n]
	}
	out := make([]SkillCount, len(order))
	for i, s := range order {
		out[i] = SkillCount{Name: s, Count: counts[s]}
	}
	return out
}
