package load

import (
	"fmt"
	"slices"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/syssam/domainschema/schema"
)

// Marshal encodes normalized schemas into the document format read by
// Parse. References are written by name, so every referenced schema must
// be marshaled alongside for the output to load again.
func Marshal(schemas ...*schema.Schema) ([]byte, error) {
	root := &yaml.Node{Kind: yaml.SequenceNode}
	for _, s := range schemas {
		n, err := MarshalNode(s)
		if err != nil {
			return nil, err
		}
		root.Content = append(root.Content, n)
	}
	return yaml.Marshal(root)
}

// MarshalNode encodes one schema as a definition mapping.
func MarshalNode(s *schema.Schema) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	meta, err := metaNode(s.Meta())
	if err != nil {
		return nil, fmt.Errorf("load: schema %s: %w", s.Name(), err)
	}
	n.Content = append(n.Content, str(schema.MetaKey), meta)
	for _, v := range s.Values() {
		fn, err := fieldNode(v)
		if err != nil {
			return nil, fmt.Errorf("load: field %s.%s: %w", s.Name(), v.Name, err)
		}
		n.Content = append(n.Content, str(v.Name), fn)
	}
	return n, nil
}

func metaNode(m schema.Meta) (*yaml.Node, error) {
	n := &yaml.Node{Kind: yaml.MappingNode}
	n.Content = append(n.Content, str(metaName), str(m.Name))
	for _, flag := range []struct {
		key string
		set bool
	}{
		{metaTransient, m.Transient},
		{metaExclude, m.Exclude},
		{metaBlackbox, m.Blackbox},
	} {
		if flag.set {
			n.Content = append(n.Content, str(flag.key), boolNode(true))
		}
	}
	if err := appendMap(n, m.Extra); err != nil {
		return nil, err
	}
	return n, nil
}

// fieldNode writes a bare type when the field carries no metadata, and a
// descriptor mapping otherwise.
func fieldNode(d schema.Descriptor) (*yaml.Node, error) {
	typ := typeNode(d.Type)
	n := &yaml.Node{Kind: yaml.MappingNode}
	n.Content = append(n.Content, str(keyType), typ)
	for _, flag := range []struct {
		key string
		set bool
	}{
		{keyOptional, d.Optional},
		{keyUnique, d.Unique},
		{keyPrivate, d.Private},
		{keyTransient, d.Transient},
		{keyExternal, d.External},
		{keyBlackbox, d.Blackbox},
	} {
		if flag.set {
			n.Content = append(n.Content, str(flag.key), boolNode(true))
		}
	}
	if d.Max != 0 {
		n.Content = append(n.Content, str(keyMax), &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: strconv.Itoa(d.Max)})
	}
	if d.Default != nil {
		dv := &yaml.Node{}
		if err := dv.Encode(d.Default); err != nil {
			return nil, fmt.Errorf("default: %w", err)
		}
		n.Content = append(n.Content, str(keyDefault), dv)
	}
	if err := appendMap(n, d.Annotations); err != nil {
		return nil, err
	}
	if len(n.Content) == 2 {
		return typ, nil
	}
	return n, nil
}

func typeNode(t schema.FieldType) *yaml.Node {
	if t.IsArray() {
		return &yaml.Node{
			Kind:    yaml.SequenceNode,
			Style:   yaml.FlowStyle,
			Content: []*yaml.Node{typeNode(t.Elem())},
		}
	}
	return str(t.String())
}

// appendMap appends the entries of m in key order.
func appendMap(n *yaml.Node, m map[string]any) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		v := &yaml.Node{}
		if err := v.Encode(m[k]); err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		n.Content = append(n.Content, str(k), v)
	}
	return nil
}

func str(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}

func boolNode(b bool) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(b)}
}
