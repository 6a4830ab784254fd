package knowledge

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
)

const maxDocumentSize = 8 * 1024 * 1024 // 8MB

// Format identifies a knowledge base encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnsupportedFormat is returned for files whose extension maps to no Format.
var ErrUnsupportedFormat = errors.New("unsupported knowledge base format")

// versionNamespace scopes content fingerprints so they never collide with other
// name-based UUIDs.
var versionNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/fyrsmithlabs/faultdx/knowledge"))

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Load reads and validates the knowledge base at path.
func Load(path string) (*Base, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open knowledge base: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat knowledge base: %w", err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("knowledge base %s is a directory", path)
	}
	if info.Size() > maxDocumentSize {
		return nil, fmt.Errorf("knowledge base too large: %d bytes (max %d)", info.Size(), maxDocumentSize)
	}

	data, err := io.ReadAll(io.LimitReader(f, maxDocumentSize+1))
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	base, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	base.source = path
	return base, nil
}

// Parse decodes and validates a knowledge base document.
func Parse(data []byte, format Format) (*Base, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrInvalidKnowledgeBase)
	}

	var doc document
	var err error
	switch format {
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatTOML:
		_, err = toml.Decode(string(data), &doc)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %w", ErrInvalidKnowledgeBase, format, err)
	}

	return New(doc.tables())
}

// New builds a Base from in-memory tables. Input is normalized (names and
// attributes trimmed, keywords lowercased but not trimmed, duplicates dropped)
// and validated; every
// problem found is reported in a single *ValidationError.
func New(faults []Fault, keywords KeywordMap, questions QuestionBank) (*Base, error) {
	v := &validator{}

	b := &Base{
		faults:    make([]Fault, 0, len(faults)),
		keywords:  make(KeywordMap, len(keywords)),
		questions: make(QuestionBank, len(questions)),
		known:     make(map[Attribute]struct{}),
	}

	if len(faults) == 0 {
		v.add("fallas", "at least one fault is required")
	}

	ids := make(map[string]int, len(faults))
	for i, in := range faults {
		f := normalizeFault(v, i, in)
		if prev, dup := ids[f.ID]; dup && f.ID != "" {
			v.add(fmt.Sprintf("fallas[%d].id", i), fmt.Sprintf("duplicate id %q (also fallas[%d])", f.ID, prev))
		} else {
			ids[f.ID] = i
		}
		for _, a := range f.Attributes {
			b.known[a] = struct{}{}
		}
		b.faults = append(b.faults, f)
	}

	for attr, phrases := range keywords {
		key := Attribute(strings.TrimSpace(string(attr)))
		path := fmt.Sprintf("mapeo_palabras_clave[%q]", attr)
		if key == "" {
			v.add(path, "attribute name is required")
			continue
		}
		seen := make(map[string]struct{}, len(phrases))
		clean := make([]string, 0, len(phrases))
		for j, p := range phrases {
			// Surrounding spaces are kept: " no " only matches the whole word.
			p = strings.ToLower(p)
			if strings.TrimSpace(p) == "" {
				v.add(fmt.Sprintf("%s[%d]", path, j), "keyword cannot be empty")
				continue
			}
			if _, dup := seen[p]; dup {
				continue
			}
			seen[p] = struct{}{}
			clean = append(clean, p)
		}
		b.keywords[key] = append(b.keywords[key], clean...)
		b.known[key] = struct{}{}
	}

	for attr, q := range questions {
		key := Attribute(strings.TrimSpace(string(attr)))
		path := fmt.Sprintf("preguntas[%q]", attr)
		if key == "" {
			v.add(path, "attribute name is required")
			continue
		}
		q = strings.TrimSpace(q)
		if q == "" {
			v.add(path, "question cannot be empty")
			continue
		}
		b.questions[key] = q
	}

	if err := v.err(); err != nil {
		return nil, err
	}
	for attr := range b.keywords {
		sort.Strings(b.keywords[attr])
	}

	version, err := fingerprint(b)
	if err != nil {
		return nil, err
	}
	b.version = version
	b.loadedAt = time.Now()
	return b, nil
}

func normalizeFault(v *validator, i int, in Fault) Fault {
	path := fmt.Sprintf("fallas[%d]", i)
	f := Fault{
		Index:      i,
		ID:         strings.TrimSpace(in.ID),
		Name:       strings.TrimSpace(in.Name),
		Attributes: make([]Attribute, 0, len(in.Attributes)),
		Causes:     compact(in.Causes),
		Solutions:  compact(in.Solutions),
		Reference:  strings.TrimSpace(in.Reference),
	}
	if f.Name == "" {
		v.add(path+".nombre", "name is required")
	}
	if f.ID == "" {
		f.ID = slug(f.Name)
	}
	if f.Reference == "" {
		f.Reference = DefaultReference
	}

	seen := make(map[Attribute]struct{}, len(in.Attributes))
	for j, a := range in.Attributes {
		a = Attribute(strings.TrimSpace(string(a)))
		if a == "" {
			v.add(fmt.Sprintf("%s.atributos[%d]", path, j), "attribute cannot be empty")
			continue
		}
		if _, dup := seen[a]; dup {
			continue
		}
		seen[a] = struct{}{}
		f.Attributes = append(f.Attributes, a)
	}
	return f
}

// compact trims entries and drops empty ones. The result is never nil.
func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// slug derives a stable identifier from a fault name.
func slug(name string) string {
	var sb strings.Builder
	dash := false
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			dash = false
			continue
		}
		if !dash && sb.Len() > 0 {
			sb.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(sb.String(), "-")
}

// fingerprint hashes the normalized tables. encoding/json sorts map keys, so
// equal content always produces the same bytes.
func fingerprint(b *Base) (string, error) {
	canonical, err := json.Marshal(struct {
		Faults    []Fault      `json:"f"`
		Keywords  KeywordMap   `json:"k"`
		Questions QuestionBank `json:"q"`
	}{b.faults, b.keywords, b.questions})
	if err != nil {
		return "", fmt.Errorf("fingerprint knowledge base: %w", err)
	}
	return uuid.NewSHA1(versionNamespace, canonical).String(), nil
}
