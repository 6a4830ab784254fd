package diagnosis

import (
	"github.com/fyrsmithlabs/faultdx/internal/knowledge"
)

// InitialFilter returns the indices of faults declaring at least one extracted
// attribute. With nothing extracted every fault is a candidate.
func InitialFilter(faults []knowledge.Fault, extracted AttributeSet) []int {
	out := make([]int, 0, len(faults))
	for i := range faults {
		if len(extracted) == 0 || sharesAny(&faults[i], extracted) {
			out = append(out, i)
		}
	}
	return out
}

func sharesAny(f *knowledge.Fault, set AttributeSet) bool {
	for _, a := range f.Attributes {
		if set.Has(a) {
			return true
		}
	}
	return false
}

// ApplyAnswer keeps the candidates that declare attr on Yes and those lacking
// it on No. Order is preserved and the input slice is not modified.
func ApplyAnswer(faults []knowledge.Fault, candidates []int, attr knowledge.Attribute, answer Answer) []int {
	out := make([]int, 0, len(candidates))
	for _, i := range candidates {
		if faults[i].Has(attr) == bool(answer) {
			out = append(out, i)
		}
	}
	return out
}
