package fixture

import (
	"cmp"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/abelbrown/releasebase/internal/catalog"
	"github.com/abelbrown/releasebase/internal/merge"
	"github.com/abelbrown/releasebase/internal/normalize"
	"github.com/abelbrown/releasebase/internal/stats"
)

//go:embed data/catalog.json
var defaultCatalog []byte

// Dataset is the catalog a fixture server answers from. Records are kept in
// their wire form so the server returns exactly what the file holds.
type Dataset struct {
	Manifest merge.Manifest
	records  []record
}

type record struct {
	raw    json.RawMessage
	fields normalize.RawItem
	people []string
}

type jsonFile struct {
	Manifest  merge.Manifest    `json:"manifest"`
	Documents []json.RawMessage `json:"documents"`
}

type yamlFile struct {
	Manifest  merge.Manifest   `yaml:"manifest"`
	Documents []map[string]any `yaml:"documents"`
}

// Default returns the embedded demo catalog.
func Default() (*Dataset, error) {
	return ParseJSON(defaultCatalog)
}

// LoadDataset reads a catalog file. .yaml and .yml files are parsed as YAML,
// everything else as JSON.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: read %s: %w", path, err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return ParseYAML(data)
	default:
		return ParseJSON(data)
	}
}

// ParseJSON builds a Dataset from {"manifest": ..., "documents": [...]}.
func ParseJSON(data []byte) (*Dataset, error) {
	var f jsonFile
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fixture: parse catalog: %w", err)
	}
	return build(f.Manifest, f.Documents)
}

// ParseYAML builds a Dataset from the YAML form of the catalog file.
func ParseYAML(data []byte) (*Dataset, error) {
	var f yamlFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("fixture: parse catalog: %w", err)
	}
	docs := make([]json.RawMessage, 0, len(f.Documents))
	for i, d := range f.Documents {
		b, err := json.Marshal(d)
		if err != nil {
			return nil, fmt.Errorf("fixture: document %d: %w", i, err)
		}
		docs = append(docs, b)
	}
	return build(f.Manifest, docs)
}

func build(m merge.Manifest, docs []json.RawMessage) (*Dataset, error) {
	ds := &Dataset{Manifest: m, records: make([]record, 0, len(docs))}
	for i, raw := range docs {
		var fields normalize.RawItem
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("fixture: document %d: %w", i, err)
		}
		meta := normalize.ParseMetadata(fields.Metadata)
		people := normalize.MergePeople(
			fields.People,
			catalog.StringList(meta["people"]),
			catalog.StringList(meta["detected_people"]),
		)
		ds.records = append(ds.records, record{raw: raw, fields: fields, people: people})
	}
	return ds, nil
}

// Len is the number of records.
func (d *Dataset) Len() int {
	return len(d.records)
}

// isFlightlog matches the backend's rule: an image whose storage path
// mentions flight logs or contact books.
func (r record) isFlightlog() bool {
	if !strings.EqualFold(r.fields.Type, string(catalog.TypeImage)) {
		return false
	}
	p := strings.ToLower(r.fields.FilePath)
	return strings.Contains(p, "flight") || strings.Contains(p, "contact")
}

func (r record) hasType(t string) bool {
	return t == "" || t == "all" || strings.EqualFold(r.fields.Type, t)
}

// Stats aggregates the catalog the way GET /api/stats reports it. Flight
// log images are counted separately and left out of by_type.
func (d *Dataset) Stats() stats.Response {
	resp := stats.Response{
		TotalDocuments: len(d.records),
		ByType:         map[string]int{},
		BySource:       map[string]int{},
	}
	for _, r := range d.records {
		if r.fields.Source != "" {
			resp.BySource[r.fields.Source]++
		}
		if r.isFlightlog() {
			resp.Flightlogs++
			continue
		}
		if r.fields.Type != "" {
			resp.ByType[r.fields.Type]++
		}
	}
	return resp
}

// Query selects records for GET /api/documents.
type Query struct {
	Type       string
	Flightlogs *bool
}

// Select returns the matching records in file order.
func (d *Dataset) Select(q Query) []json.RawMessage {
	out := []json.RawMessage{}
	for _, r := range d.records {
		if !r.hasType(q.Type) {
			continue
		}
		if q.Flightlogs != nil && r.isFlightlog() != *q.Flightlogs {
			continue
		}
		out = append(out, r.raw)
	}
	return out
}

// Find looks up a record by its id as text.
func (d *Dataset) Find(id string) (json.RawMessage, bool) {
	for _, r := range d.records {
		if rid := r.fields.ID.String(); rid != "" && rid == id {
			return r.raw, true
		}
	}
	return nil, false
}

// Person is one entry of GET /api/people.
type Person struct {
	ID          int     `json:"id"`
	Name        string  `json:"name"`
	Description *string `json:"description"`
	DocCount    int     `json:"doc_count"`
}

// People counts documents per person over records of type t ("" for all),
// most documents first, ties by name.
func (d *Dataset) People(t string, limit int) []Person {
	counts := map[string]int{}
	for _, r := range d.records {
		if !r.hasType(t) {
			continue
		}
		for _, p := range r.people {
			counts[p]++
		}
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	slices.SortFunc(names, func(a, b string) int {
		if c := cmp.Compare(counts[b], counts[a]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}

	out := make([]Person, 0, len(names))
	for i, name := range names {
		out = append(out, Person{ID: i, Name: name, DocCount: counts[name]})
	}
	return out
}
