package knowledge

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path    string
		want    Format
		wantErr bool
	}{
		{"kb.json", FormatJSON, false},
		{"KB.JSON", FormatJSON, false},
		{"kb.yaml", FormatYAML, false},
		{"kb.yml", FormatYAML, false},
		{"/etc/faultdx/kb.toml", FormatTOML, false},
		{"kb.xml", "", true},
		{"kb", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, err := FormatFromPath(tt.path)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParse_JSON(t *testing.T) {
	kb, err := Parse([]byte(sampleJSON), FormatJSON)
	require.NoError(t, err)

	require.Equal(t, 2, kb.Len())
	f, ok := kb.Fault(0)
	require.True(t, ok)
	assert.Equal(t, 0, f.Index)
	assert.Equal(t, "fusible-quemado", f.ID)
	assert.Equal(t, "Fusible quemado", f.Name)
	assert.Equal(t, []Attribute{"sin_energia", "olor_quemado"}, f.Attributes)
	assert.Equal(t, "Manual 3.2", f.Reference)

	f, _ = kb.Fault(1)
	assert.Equal(t, 1, f.Index)
	assert.Equal(t, []string{"Cable flojo"}, f.Causes, "single string accepted")
	assert.Equal(t, []string{"Conectar el cable"}, f.Solutions)
	assert.Equal(t, DefaultReference, f.Reference)

	assert.Equal(t, []string{"muerto", "no enciende"}, kb.Keywords()["sin_energia"], "lowercased and sorted")
	assert.Equal(t, "¿Huele a quemado?", kb.Question("olor_quemado"))
	assert.Equal(t, "¿Se cumple la condición 'sin_energia'?", kb.Question("sin_energia"))
	assert.True(t, kb.HasQuestion("olor_quemado"))
	assert.False(t, kb.HasQuestion("sin_energia"))
	assert.NotEmpty(t, kb.Version())
	assert.Empty(t, kb.Source())
}

func TestParse_SameVersionAcrossFormats(t *testing.T) {
	j, err := Parse([]byte(sampleJSON), FormatJSON)
	require.NoError(t, err)
	y, err := Parse([]byte(sampleYAML), FormatYAML)
	require.NoError(t, err)
	tm, err := Parse([]byte(sampleTOML), FormatTOML)
	require.NoError(t, err)

	assert.Equal(t, j.Version(), y.Version())
	assert.Equal(t, j.Version(), tm.Version())
	assert.Equal(t, j.Faults(), y.Faults())
	assert.Equal(t, j.Faults(), tm.Faults())
}

func TestParse_VersionTracksContent(t *testing.T) {
	a, err := Parse([]byte(sampleJSON), FormatJSON)
	require.NoError(t, err)
	b, err := Parse([]byte(strings.Replace(sampleJSON, "Sobrecarga", "Cortocircuito", 1)), FormatJSON)
	require.NoError(t, err)
	assert.NotEqual(t, a.Version(), b.Version())
}

func TestParse_LegacyFieldNames(t *testing.T) {
	doc := `{
	  "fallas": [
	    {"falla": "Bomba trabada", "sintomas": ["ruido"], "causas": "Sarro", "solucion": "Limpiar la bomba"}
	  ]
	}`
	kb, err := Parse([]byte(doc), FormatJSON)
	require.NoError(t, err)

	f, _ := kb.Fault(0)
	assert.Equal(t, "Bomba trabada", f.Name)
	assert.Equal(t, []Attribute{"ruido"}, f.Attributes)
	assert.Equal(t, []string{"Limpiar la bomba"}, f.Solutions)
	assert.Empty(t, kb.Keywords())
}

func TestParse_Normalizes(t *testing.T) {
	doc := `{
	  "fallas": [
	    {"id": " pump ", "nombre": "  Bomba  ", "atributos": ["a", " a", "b"], "causas": ["", " x "]}
	  ],
	  "mapeo_palabras_clave": {"a": ["Ruido", "RUIDO", " No "]}
	}`
	kb, err := Parse([]byte(doc), FormatJSON)
	require.NoError(t, err)

	f, _ := kb.Fault(0)
	assert.Equal(t, "pump", f.ID)
	assert.Equal(t, "Bomba", f.Name)
	assert.Equal(t, []Attribute{"a", "b"}, f.Attributes)
	assert.Equal(t, []string{"x"}, f.Causes)
	assert.Equal(t, []string{}, f.Solutions)
	assert.Equal(t, []string{" no ", "ruido"}, kb.Keywords()["a"])
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name   string
		doc    string
		format Format
		paths  []string
	}{
		{name: "empty", doc: "  \n", format: FormatJSON},
		{name: "malformed json", doc: `{"fallas": [`, format: FormatJSON},
		{name: "malformed yaml", doc: "fallas: [\n", format: FormatYAML},
		{name: "causes of wrong type", doc: `{"fallas": [{"nombre": "x", "causas": 3}]}`, format: FormatJSON},
		{name: "no faults", doc: `{"fallas": []}`, format: FormatJSON, paths: []string{"fallas"}},
		{
			name:   "missing name and empty attribute",
			doc:    `{"fallas": [{"atributos": ["a", ""]}]}`,
			format: FormatJSON,
			paths:  []string{"fallas[0].nombre", "fallas[0].atributos[1]"},
		},
		{
			name:   "duplicate ids",
			doc:    `{"fallas": [{"nombre": "Bomba"}, {"nombre": "bomba"}]}`,
			format: FormatJSON,
			paths:  []string{"fallas[1].id"},
		},
		{
			name:   "empty keyword and question",
			doc:    `{"fallas": [{"nombre": "x"}], "mapeo_palabras_clave": {"a": [" "]}, "preguntas": {"a": ""}}`,
			format: FormatJSON,
			paths:  []string{`mapeo_palabras_clave["a"][0]`, `preguntas["a"]`},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc), tt.format)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidKnowledgeBase)

			if len(tt.paths) == 0 {
				return
			}
			var verr *ValidationError
			require.True(t, errors.As(err, &verr))
			got := make([]string, 0, len(verr.Problems))
			for _, p := range verr.Problems {
				got = append(got, p.Path)
			}
			assert.ElementsMatch(t, tt.paths, got)
		})
	}
}

func TestParse_UnsupportedFormat(t *testing.T) {
	_, err := Parse([]byte(sampleJSON), Format("xml"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()

	t.Run("sets source", func(t *testing.T) {
		path := writeFile(t, dir, "kb.yaml", sampleYAML)
		kb, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, path, kb.Source())
		assert.False(t, kb.LoadedAt().IsZero())
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "missing.json"))
		assert.ErrorIs(t, err, os.ErrNotExist)
	})

	t.Run("directory", func(t *testing.T) {
		sub := filepath.Join(dir, "sub.json")
		require.NoError(t, os.Mkdir(sub, 0o755))
		_, err := Load(sub)
		assert.ErrorContains(t, err, "is a directory")
	})

	t.Run("invalid content names the file", func(t *testing.T) {
		path := writeFile(t, dir, "bad.json", `{"fallas": []}`)
		_, err := Load(path)
		assert.ErrorIs(t, err, ErrInvalidKnowledgeBase)
		assert.ErrorContains(t, err, path)
	})
}

func TestSlug(t *testing.T) {
	tests := map[string]string{
		"Fusible quemado":       "fusible-quemado",
		"  Bomba -- trabada!! ": "bomba-trabada",
		"Presión baja (2)":      "presión-baja-2",
		"***":                   "",
	}
	for in, want := range tests {
		assert.Equal(t, want, slug(in), in)
	}
}
