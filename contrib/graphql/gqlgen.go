package graphql

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/vektah/gqlparser/v2/ast"
	"gopkg.in/yaml.v3"
)

// GQLGenConfig represents a subset of gqlgen.yml configuration.
// This is used to read and update gqlgen configuration for model bindings.
type GQLGenConfig struct {
	// SchemaFilename is the path(s) to the GraphQL schema file(s).
	SchemaFilename StringList `yaml:"schema,omitempty"`

	// Exec configures the generated executor.
	Exec PackageConfig `yaml:"exec,omitempty"`

	// Model configures the generated models.
	Model PackageConfig `yaml:"model,omitempty"`

	// Autobind is a list of packages to autobind types from.
	Autobind []string `yaml:"autobind,omitempty"`

	// Models is a map of GraphQL type name to model configuration.
	Models map[string]TypeMapEntry `yaml:"models,omitempty"`

	// OmitSliceElementPointers removes pointers from slice elements.
	OmitSliceElementPointers bool `yaml:"omit_slice_element_pointers,omitempty"`
}

// PackageConfig configures a generated package.
type PackageConfig struct {
	Filename string `yaml:"filename,omitempty"`
	Package  string `yaml:"package,omitempty"`
}

// TypeMapEntry is the configuration for a single GraphQL type.
type TypeMapEntry struct {
	// Model is the Go model(s) to bind to this GraphQL type.
	Model StringList `yaml:"model,omitempty"`

	// Fields configures field-level mappings.
	Fields map[string]TypeMapField `yaml:"fields,omitempty"`
}

// TypeMapField is the configuration for a single field.
type TypeMapField struct {
	// Resolver indicates if this field needs a resolver.
	Resolver bool `yaml:"resolver,omitempty"`

	// FieldName is the Go struct field name.
	FieldName string `yaml:"fieldName,omitempty"`
}

// StringList is a YAML type that can be either a string or a list of strings.
type StringList []string

// UnmarshalYAML implements yaml.Unmarshaler for StringList.
func (s *StringList) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*s = []string{node.Value}
		return nil
	case yaml.SequenceNode:
		var list []string
		if err := node.Decode(&list); err != nil {
			return err
		}
		*s = list
		return nil
	default:
		return fmt.Errorf("expected string or list, got %v", node.Kind)
	}
}

// MarshalYAML implements yaml.Marshaler for StringList.
func (s StringList) MarshalYAML() (any, error) {
	if len(s) == 1 {
		return s[0], nil
	}
	return []string(s), nil
}

// LoadGQLGenConfig loads a gqlgen.yml configuration file.
func LoadGQLGenConfig(path string) (*GQLGenConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Return empty config if file doesn't exist
			return &GQLGenConfig{
				Models: make(map[string]TypeMapEntry),
			}, nil
		}
		return nil, fmt.Errorf("read gqlgen config: %w", err)
	}

	var cfg GQLGenConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse gqlgen config: %w", err)
	}

	if cfg.Models == nil {
		cfg.Models = make(map[string]TypeMapEntry)
	}

	return &cfg, nil
}

// SaveGQLGenConfig saves a gqlgen.yml configuration file.
func SaveGQLGenConfig(path string, cfg *GQLGenConfig) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal gqlgen config: %w", err)
	}

	// Ensure directory exists
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}

	return os.WriteFile(path, data, 0o644)
}

// AddSchemaPath adds a schema path to the configuration if not already present.
func (c *GQLGenConfig) AddSchemaPath(path string) {
	if !slices.Contains(c.SchemaFilename, path) {
		c.SchemaFilename = append(c.SchemaFilename, path)
	}
}

// AddAutobind adds a package to the autobind list if not already present.
func (c *GQLGenConfig) AddAutobind(pkg string) {
	if !slices.Contains(c.Autobind, pkg) {
		c.Autobind = append(c.Autobind, pkg)
	}
}

// SetModel sets the model binding for a GraphQL type.
func (c *GQLGenConfig) SetModel(typeName string, modelPath string) {
	if c.Models == nil {
		c.Models = make(map[string]TypeMapEntry)
	}
	entry := c.Models[typeName]
	if !slices.Contains(entry.Model, modelPath) {
		entry.Model = append(entry.Model, modelPath)
	}
	c.Models[typeName] = entry
}

// Bind binds every object type of doc to the model of the same name in
// modelPkg. The JSON scalar is bound to gqlgen's map type.
func (c *GQLGenConfig) Bind(doc *ast.SchemaDocument, modelPkg string) {
	for _, name := range Types(doc) {
		c.SetModel(name, modelPkg+"."+name)
	}
	for _, def := range doc.Definitions {
		if def.Kind == ast.Scalar && def.Name == ScalarJSON {
			c.SetModel(ScalarJSON, "github.com/99designs/gqlgen/graphql.Map")
		}
	}
}

// WriteGQLGenConfig updates the gqlgen.yml file at path with the schema path
// and the model bindings of doc.
func WriteGQLGenConfig(path, schemaPath, modelPkg string, doc *ast.SchemaDocument) error {
	cfg, err := LoadGQLGenConfig(path)
	if err != nil {
		return err
	}
	if schemaPath != "" {
		cfg.AddSchemaPath(schemaPath)
	}
	if modelPkg != "" {
		cfg.Bind(doc, modelPkg)
	}
	return SaveGQLGenConfig(path, cfg)
}

// Types returns the names of the object types of doc, in document order.
func Types(doc *ast.SchemaDocument) []string {
	var names []string
	for _, def := range doc.Definitions {
		if def.Kind == ast.Object {
			names = append(names, def.Name)
		}
	}
	return names
}
