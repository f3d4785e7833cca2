package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/syssam/domainschema/compiler/load"
	"github.com/syssam/domainschema/schema"
)

// SnapshotVersion is the version written by Snapshot.
const SnapshotVersion = 1

// Format is a snapshot encoding.
type Format string

// Snapshot encodings.
const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatMsgpack Format = "msgpack"
)

// ParseFormat parses a format name. "yml" and "mp" are accepted as aliases.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	case "msgpack", "mp":
		return FormatMsgpack, nil
	default:
		return "", fmt.Errorf("graph: unknown snapshot format %q", s)
	}
}

type (
	// Snapshot is the flat, name addressed form of a graph.
	Snapshot struct {
		Version int            `json:"version" yaml:"version" msgpack:"version"`
		Types   []SnapshotType `json:"types" yaml:"types" msgpack:"types"`
	}

	// SnapshotType is one schema of a snapshot.
	SnapshotType struct {
		ID        string          `json:"id" yaml:"id" msgpack:"id"`
		Name      string          `json:"name" yaml:"name" msgpack:"name"`
		Transient bool            `json:"transient,omitempty" yaml:"transient,omitempty" msgpack:"transient,omitempty"`
		Exclude   bool            `json:"exclude,omitempty" yaml:"exclude,omitempty" msgpack:"exclude,omitempty"`
		Blackbox  bool            `json:"blackbox,omitempty" yaml:"blackbox,omitempty" msgpack:"blackbox,omitempty"`
		Extra     map[string]any  `json:"extra,omitempty" yaml:"extra,omitempty" msgpack:"extra,omitempty"`
		Fields    []SnapshotField `json:"fields" yaml:"fields" msgpack:"fields"`
	}

	// SnapshotField is one field of a snapshot type. Type is a type
	// expression such as Integer, Product or [Product].
	SnapshotField struct {
		Name        string         `json:"name" yaml:"name" msgpack:"name"`
		Type        string         `json:"type" yaml:"type" msgpack:"type"`
		Optional    bool           `json:"optional,omitempty" yaml:"optional,omitempty" msgpack:"optional,omitempty"`
		Unique      bool           `json:"unique,omitempty" yaml:"unique,omitempty" msgpack:"unique,omitempty"`
		Default     any            `json:"default,omitempty" yaml:"default,omitempty" msgpack:"default,omitempty"`
		Max         int            `json:"max,omitempty" yaml:"max,omitempty" msgpack:"max,omitempty"`
		Private     bool           `json:"private,omitempty" yaml:"private,omitempty" msgpack:"private,omitempty"`
		Transient   bool           `json:"transient,omitempty" yaml:"transient,omitempty" msgpack:"transient,omitempty"`
		External    bool           `json:"external,omitempty" yaml:"external,omitempty" msgpack:"external,omitempty"`
		Blackbox    bool           `json:"blackbox,omitempty" yaml:"blackbox,omitempty" msgpack:"blackbox,omitempty"`
		Annotations map[string]any `json:"annotations,omitempty" yaml:"annotations,omitempty" msgpack:"annotations,omitempty"`
	}
)

// Snapshot returns the flat form of the graph.
func (g *Graph) Snapshot() *Snapshot {
	snap := &Snapshot{Version: SnapshotVersion, Types: make([]SnapshotType, 0, len(g.Nodes))}
	for _, n := range g.Nodes {
		meta := n.Schema.Meta()
		t := SnapshotType{
			ID:        n.ID.String(),
			Name:      meta.Name,
			Transient: meta.Transient,
			Exclude:   meta.Exclude,
			Blackbox:  meta.Blackbox,
			Extra:     meta.Extra,
		}
		for _, v := range n.Schema.Values() {
			t.Fields = append(t.Fields, SnapshotField{
				Name:        v.Name,
				Type:        v.Type.String(),
				Optional:    v.Optional,
				Unique:      v.Unique,
				Default:     v.Default,
				Max:         v.Max,
				Private:     v.Private,
				Transient:   v.Transient,
				External:    v.External,
				Blackbox:    v.Blackbox,
				Annotations: v.Annotations,
			})
		}
		snap.Types = append(snap.Types, t)
	}
	return snap
}

// Encode writes the snapshot in the given format.
func Encode(w io.Writer, snap *Snapshot, format Format) error {
	var err error
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		err = enc.Encode(snap)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err = enc.Encode(snap); err == nil {
			err = enc.Close()
		}
	case FormatMsgpack:
		err = msgpack.NewEncoder(w).Encode(snap)
	default:
		return fmt.Errorf("graph: unknown snapshot format %q", format)
	}
	if err != nil {
		return fmt.Errorf("graph: encode %s snapshot: %w", format, err)
	}
	return nil
}

// Decode reads a snapshot in the given format.
func Decode(r io.Reader, format Format) (*Snapshot, error) {
	snap := &Snapshot{}
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(snap)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(snap)
	case FormatMsgpack:
		err = msgpack.NewDecoder(r).Decode(snap)
	default:
		return nil, fmt.Errorf("graph: unknown snapshot format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("graph: decode %s snapshot: %w", format, err)
	}
	if snap.Version > SnapshotVersion {
		return nil, fmt.Errorf("graph: unsupported snapshot version %d", snap.Version)
	}
	return snap, nil
}

// Definitions rebuilds loaded definitions from the snapshot. Normalizing
// them yields a graph equivalent to the one the snapshot was taken from.
func (s *Snapshot) Definitions() ([]*load.Document, error) {
	docs := make([]*load.Document, len(s.Types))
	byName := make(map[string]*load.Document, len(s.Types))
	for i, t := range s.Types {
		docs[i] = load.NewDocument(schema.Meta{
			Name:      t.Name,
			Transient: t.Transient,
			Exclude:   t.Exclude,
			Blackbox:  t.Blackbox,
			Extra:     t.Extra,
		})
		byName[t.Name] = docs[i]
	}
	lookup := func(name string) (schema.Definition, bool) {
		d, ok := byName[name]
		return d, ok
	}
	for i, t := range s.Types {
		for _, f := range t.Fields {
			typ, err := load.ParseType(f.Type, lookup)
			if err != nil {
				return nil, fmt.Errorf("graph: field %s.%s: %w", t.Name, f.Name, err)
			}
			docs[i].AddField(&schema.Declaration{
				Name:        f.Name,
				Type:        typ,
				Optional:    f.Optional,
				Unique:      f.Unique,
				Default:     f.Default,
				Max:         f.Max,
				Private:     f.Private,
				Transient:   f.Transient,
				External:    f.External,
				Blackbox:    f.Blackbox,
				Annotations: f.Annotations,
			})
		}
	}
	return docs, nil
}
