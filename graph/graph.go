package graph

import (
	"fmt"
	"log/slog"
	"slices"

	"github.com/google/uuid"

	"github.com/syssam/domainschema/schema"
)

// Namespace is the UUID namespace of node identifiers. Node IDs are
// version 5 UUIDs of the schema name in this namespace, so they are stable
// across runs and processes.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/syssam/domainschema"))

// NodeID returns the identifier of the schema with the given name.
func NodeID(name string) uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte(name))
}

// Graph is the flattened, name addressed view of the schemas reachable from
// a set of roots.
type Graph struct {
	// Nodes holds all reachable schemas in depth-first declaration order.
	Nodes []*Node

	byName map[string]*Node
}

// Node is a schema of the graph.
type Node struct {
	ID     uuid.UUID
	Schema *schema.Schema

	refs []string
}

// Name returns the schema name.
func (n *Node) Name() string { return n.Schema.Name() }

// Refs returns the distinct names of the schemas referenced by the node's
// fields, in declaration order.
func (n *Node) Refs() []string { return slices.Clone(n.refs) }

// ConflictError is returned when two distinct schemas share a name.
type ConflictError struct {
	Name string
}

// Error implements the error interface.
func (e *ConflictError) Error() string {
	return fmt.Sprintf("graph: two distinct schemas are named %q", e.Name)
}

// New collects every schema reachable from roots. Arrays of schemas are
// followed like singular references, and each schema is visited once.
func New(roots ...*schema.Schema) (*Graph, error) {
	g := &Graph{byName: make(map[string]*Node)}
	seen := make(map[*schema.Schema]bool)
	var visit func(*schema.Schema) error
	visit = func(s *schema.Schema) error {
		if seen[s] {
			return nil
		}
		seen[s] = true
		if prev, ok := g.byName[s.Name()]; ok && prev.Schema != s {
			return &ConflictError{Name: s.Name()}
		}
		n := &Node{ID: NodeID(s.Name()), Schema: s}
		g.byName[s.Name()] = n
		g.Nodes = append(g.Nodes, n)
		slog.Debug("graph node", "schema", s.Name(), "id", n.ID)
		for _, v := range s.Values() {
			ref := v.Type.Underlying().Schema()
			if ref == nil {
				continue
			}
			if !slices.Contains(n.refs, ref.Name()) {
				n.refs = append(n.refs, ref.Name())
			}
			if err := visit(ref); err != nil {
				return err
			}
		}
		return nil
	}
	for _, r := range roots {
		if r == nil {
			continue
		}
		if err := visit(r); err != nil {
			return nil, err
		}
	}
	return g, nil
}

// Load normalizes the given definitions with a shared registry and builds
// the graph of their schemas.
func Load(defs ...schema.Definition) (*Graph, error) {
	r := schema.NewRegistry()
	roots := make([]*schema.Schema, 0, len(defs))
	for _, d := range defs {
		s, err := r.Normalize(d)
		if err != nil {
			return nil, err
		}
		roots = append(roots, s)
	}
	return New(roots...)
}

// Node returns the node with the given name.
func (g *Graph) Node(name string) (*Node, bool) {
	n, ok := g.byName[name]
	return n, ok
}

// Names returns the node names in graph order.
func (g *Graph) Names() []string {
	names := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		names[i] = n.Name()
	}
	return names
}

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// Cycles reports whether any reference cycle exists.
func (g *Graph) Cycles() bool {
	return g.Cycle() != nil
}

// Cycle returns the names along the first reference cycle found, starting
// and ending with the same name, or nil.
func (g *Graph) Cycle() []string {
	states := make(map[string]visitState, len(g.Nodes))
	var (
		path  []string
		cycle []string
	)
	var visit func(name string) bool
	visit = func(name string) bool {
		switch states[name] {
		case stateVisiting:
			start := slices.Index(path, name)
			cycle = append(slices.Clone(path[start:]), name)
			return true
		case stateDone:
			return false
		}
		n, ok := g.byName[name]
		if !ok {
			return false
		}
		states[name] = stateVisiting
		path = append(path, name)
		for _, next := range n.refs {
			if visit(next) {
				return true
			}
		}
		path = path[:len(path)-1]
		states[name] = stateDone
		return false
	}
	for _, n := range g.Nodes {
		if visit(n.Name()) {
			return cycle
		}
	}
	return nil
}
