package knowledge

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// document is the persisted shape shared by every supported format. Field
// aliases cover the older catalogue layout (falla/sintomas/solucion).
type document struct {
	Faults    []faultRecord       `json:"fallas" yaml:"fallas" toml:"fallas"`
	Keywords  map[string][]string `json:"mapeo_palabras_clave" yaml:"mapeo_palabras_clave" toml:"mapeo_palabras_clave"`
	Questions map[string]string   `json:"preguntas" yaml:"preguntas" toml:"preguntas"`
}

type faultRecord struct {
	ID         string     `json:"id" yaml:"id" toml:"id"`
	Name       string     `json:"nombre" yaml:"nombre" toml:"nombre"`
	LegacyName string     `json:"falla" yaml:"falla" toml:"falla"`
	Attributes []string   `json:"atributos" yaml:"atributos" toml:"atributos"`
	Symptoms   []string   `json:"sintomas" yaml:"sintomas" toml:"sintomas"`
	Causes     stringList `json:"causas" yaml:"causas" toml:"causas"`
	Solutions  stringList `json:"soluciones" yaml:"soluciones" toml:"soluciones"`
	Solution   stringList `json:"solucion" yaml:"solucion" toml:"solucion"`
	Reference  string     `json:"referencia" yaml:"referencia" toml:"referencia"`
}

func (r faultRecord) fault() Fault {
	f := Fault{
		ID:        r.ID,
		Name:      r.Name,
		Causes:    r.Causes,
		Solutions: append(append([]string{}, r.Solutions...), r.Solution...),
		Reference: r.Reference,
	}
	if f.Name == "" {
		f.Name = r.LegacyName
	}
	attrs := r.Attributes
	if len(attrs) == 0 {
		attrs = r.Symptoms
	}
	for _, a := range attrs {
		f.Attributes = append(f.Attributes, Attribute(a))
	}
	return f
}

func (d *document) tables() ([]Fault, KeywordMap, QuestionBank) {
	faults := make([]Fault, 0, len(d.Faults))
	for _, r := range d.Faults {
		faults = append(faults, r.fault())
	}
	keywords := make(KeywordMap, len(d.Keywords))
	for attr, phrases := range d.Keywords {
		keywords[Attribute(attr)] = phrases
	}
	questions := make(QuestionBank, len(d.Questions))
	for attr, q := range d.Questions {
		questions[Attribute(attr)] = q
	}
	return faults, keywords, questions
}

// stringList accepts either a single string or a list of strings.
type stringList []string

func (l *stringList) UnmarshalJSON(data []byte) error {
	var one string
	if err := json.Unmarshal(data, &one); err == nil {
		*l = stringList{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(data, &many); err != nil {
		return fmt.Errorf("expected string or list of strings: %w", err)
	}
	*l = many
	return nil
}

func (l *stringList) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var one string
		if err := value.Decode(&one); err != nil {
			return err
		}
		*l = stringList{one}
		return nil
	case yaml.SequenceNode:
		var many []string
		if err := value.Decode(&many); err != nil {
			return err
		}
		*l = many
		return nil
	default:
		return fmt.Errorf("line %d: expected string or list of strings", value.Line)
	}
}

func (l *stringList) UnmarshalTOML(v interface{}) error {
	switch t := v.(type) {
	case string:
		*l = stringList{t}
		return nil
	case []interface{}:
		out := make(stringList, 0, len(t))
		for i, item := range t {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("item %d: expected string, got %T", i, item)
			}
			out = append(out, s)
		}
		*l = out
		return nil
	default:
		return fmt.Errorf("expected string or list of strings, got %T", v)
	}
}
