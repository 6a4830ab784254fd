package diagnosis

import (
	"github.com/fyrsmithlabs/faultdx/internal/knowledge"
)

// Score is the number of candidates declaring an attribute.
type Score struct {
	Attribute knowledge.Attribute `json:"attribute"`
	Count     int                 `json:"count"`
}

// Scores counts, for every unresolved attribute declared by some candidate,
// how many candidates declare it. Entries appear in first-encounter order:
// candidates ascending, then each fault's declared attribute order.
func Scores(faults []knowledge.Fault, candidates []int, resolved AttributeSet) []Score {
	pos := make(map[knowledge.Attribute]int)
	var out []Score
	for _, i := range candidates {
		for _, a := range faults[i].Attributes {
			if resolved.Has(a) {
				continue
			}
			if p, seen := pos[a]; seen {
				out[p].Count++
				continue
			}
			pos[a] = len(out)
			out = append(out, Score{Attribute: a, Count: 1})
		}
	}
	return out
}

// SelectNext returns the attribute shared by the most candidates, breaking ties
// by first encounter. ok is false when no unresolved attribute remains.
func SelectNext(faults []knowledge.Fault, candidates []int, resolved AttributeSet) (best Score, ok bool) {
	for _, s := range Scores(faults, candidates, resolved) {
		if !ok || s.Count > best.Count {
			best, ok = s, true
		}
	}
	return best, ok
}
