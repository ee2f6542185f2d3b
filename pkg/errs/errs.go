// Package errs defines the generator's fatal/advisory error taxonomy. Each kind is a
// concrete type rather than a sentinel, so callers can carry the offending operation id,
// schema name, or file path alongside the message, and errors.As can discriminate kinds.
package errs

import "fmt"

// ConfigError signals a problem with the resolved configuration itself: an unsupported
// target type, an invalid tag-filter regex, or an unreadable template override path.
type ConfigError struct {
	Phase string // e.g. "client typescript-client"
	Cause error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("config error (%s): %v", e.Phase, e.Cause)
}

func (e *ConfigError) Unwrap() error { return e.Cause }

// InputError signals a problem acquiring or parsing the OpenAPI document: not found,
// an HTTP error fetching it, invalid JSON, or an unsupported openapi version.
type InputError struct {
	Input string
	Cause error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input error (%s): %v", e.Input, e.Cause)
}

func (e *InputError) Unwrap() error { return e.Cause }

// IRError signals a malformed input or a generator bug discovered while building the
// intermediate representation: an unresolved schema ref, or an internal invariant
// violation (e.g. a model-name collision).
type IRError struct {
	// Subject names the offending operation id or schema name.
	Subject string
	Cause   error
}

func (e *IRError) Error() string {
	return fmt.Sprintf("IR error (%s): %v", e.Subject, e.Cause)
}

func (e *IRError) Unwrap() error { return e.Cause }

// EmitError signals a template-not-found, template-render, or file-write failure during
// emission.
type EmitError struct {
	File  string
	Cause error
}

func (e *EmitError) Error() string {
	return fmt.Sprintf("emit error (%s): %v", e.File, e.Cause)
}

func (e *EmitError) Unwrap() error { return e.Cause }

// FormatterWarning is the one deliberate non-fatal exception in the taxonomy: the
// external formatter was missing or returned non-zero. Generation is still considered
// successful; callers log this, they never propagate it as a failure.
type FormatterWarning struct {
	Formatter string
	Cause     error
}

func (e *FormatterWarning) Error() string {
	return fmt.Sprintf("formatter warning (%s): %v", e.Formatter, e.Cause)
}

func (e *FormatterWarning) Unwrap() error { return e.Cause }
