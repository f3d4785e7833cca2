package gen

import (
	"go/token"
	"log/slog"
	"runtime"
)

// DefaultHeader is the header comment of generated files.
const DefaultHeader = "Code generated by domainschema. DO NOT EDIT."

// Config holds the generator settings.
type Config struct {
	// Package is the name of the generated package.
	Package string
	// Header is the comment at the top of every file.
	Header string
	// UUIDIDs types ID fields as uuid.UUID instead of string.
	UUIDIDs bool
	// Workers bounds the files rendered in parallel.
	Workers int
	Logger  *slog.Logger
}

// Option configures code generation.
type Option func(*Config) error

// WithPackage sets the name of the generated package. Defaults to "models".
func WithPackage(name string) Option {
	return func(c *Config) error {
		if !token.IsIdentifier(name) {
			return &ConfigError{Option: "Package", Value: name, Message: "not a valid package name"}
		}
		c.Package = name
		return nil
	}
}

// WithHeader sets the header comment of generated files. An empty header
// is allowed.
func WithHeader(header string) Option {
	return func(c *Config) error {
		c.Header = header
		return nil
	}
}

// WithUUIDIDs types ID fields as github.com/google/uuid.UUID.
func WithUUIDIDs(enabled bool) Option {
	return func(c *Config) error {
		c.UUIDIDs = enabled
		return nil
	}
}

// WithWorkers sets the number of files rendered in parallel.
func WithWorkers(n int) Option {
	return func(c *Config) error {
		if n <= 0 {
			return &ConfigError{Option: "Workers", Value: n, Message: "must be positive"}
		}
		c.Workers = n
		return nil
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Config) error {
		if l == nil {
			return &ConfigError{Option: "Logger", Message: "logger cannot be nil"}
		}
		c.Logger = l
		return nil
	}
}

// NewConfig returns the default configuration with opts applied.
func NewConfig(opts ...Option) (*Config, error) {
	c := &Config{
		Package: "models",
		Header:  DefaultHeader,
		Workers: runtime.GOMAXPROCS(0),
		Logger:  slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}
