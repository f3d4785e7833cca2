package gen

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMissingConfig indicates an invalid generator option.
	ErrMissingConfig = errors.New("gen: invalid configuration")
	// ErrGenerationFailed indicates a code generation failure.
	ErrGenerationFailed = errors.New("gen: code generation failed")
)

// ConfigError reports an invalid option value.
type ConfigError struct {
	Option  string
	Value   any
	Message string
}

func (e *ConfigError) Error() string {
	if e.Value != nil {
		return fmt.Sprintf("gen: option %s (value: %v): %s", e.Option, e.Value, e.Message)
	}
	return fmt.Sprintf("gen: option %s: %s", e.Option, e.Message)
}

// Is reports whether target is ErrMissingConfig.
func (e *ConfigError) Is(target error) bool {
	return target == ErrMissingConfig
}

// Phase is the step of the generation a GenerationError comes from.
type Phase string

// Generation phases.
const (
	PhaseNormalize Phase = "normalize"
	PhaseModel     Phase = "model"
	PhaseRender    Phase = "render"
	PhaseFormat    Phase = "format"
	PhaseWrite     Phase = "write"
)

// GenerationError wraps the failure of one generation phase.
type GenerationError struct {
	Phase  Phase
	Schema string
	File   string
	Cause  error
}

func (e *GenerationError) Error() string {
	var b strings.Builder
	b.WriteString("gen: ")
	b.WriteString(string(e.Phase))
	if e.Schema != "" {
		b.WriteString(" " + e.Schema)
	}
	if e.File != "" {
		b.WriteString(" (" + e.File + ")")
	}
	if e.Cause != nil {
		b.WriteString(": " + e.Cause.Error())
	}
	return b.String()
}

func (e *GenerationError) Unwrap() error { return e.Cause }

// Is reports whether target is ErrGenerationFailed.
func (e *GenerationError) Is(target error) bool {
	return target == ErrGenerationFailed
}

// IsGenerationError reports whether err is or wraps a *GenerationError.
func IsGenerationError(err error) bool {
	var e *GenerationError
	return errors.As(err, &e)
}
