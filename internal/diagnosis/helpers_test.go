package diagnosis

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/fyrsmithlabs/faultdx/internal/knowledge"
)

func attrs(names ...string) []knowledge.Attribute {
	out := make([]knowledge.Attribute, len(names))
	for i, n := range names {
		out[i] = knowledge.Attribute(n)
	}
	return out
}

func fault(name string, a ...string) knowledge.Fault {
	return knowledge.Fault{Name: name, Attributes: attrs(a...), Causes: []string{"causa " + name}}
}

func newBase(t *testing.T, faults []knowledge.Fault, keywords knowledge.KeywordMap, questions knowledge.QuestionBank) *knowledge.Base {
	t.Helper()
	kb, err := knowledge.New(faults, keywords, questions)
	require.NoError(t, err)
	return kb
}

func newEngine(t *testing.T, kb *knowledge.Base) *Engine {
	t.Helper()
	e, err := NewEngine(kb)
	require.NoError(t, err)
	return e
}

// scenarioBase is F1{A,B}, F2{A}, F3{C} with A revealed by "no enciende".
func scenarioBase(t *testing.T) *knowledge.Base {
	return newBase(t,
		[]knowledge.Fault{fault("F1", "A", "B"), fault("F2", "A"), fault("F3", "C")},
		knowledge.KeywordMap{"A": {"no enciende"}},
		knowledge.QuestionBank{"B": "¿Se escucha un zumbido?"},
	)
}
