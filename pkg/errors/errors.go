// Package errors provides the orchestrator's error taxonomy and wrapping
// helpers on top of the standard library errors package.
package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for the orchestrator's error-kind taxonomy (spec §7). A
// node or agent that fails wraps one of these with Wrap/Wrapf so callers
// can classify the failure with errors.Is regardless of added context.
var (
	ErrInvalidInput        = errors.New("invalid input")
	ErrSymbolNotFound      = errors.New("symbol not found")
	ErrNoContext           = errors.New("no context")
	ErrTransientExternal   = errors.New("transient external failure")
	ErrPermanentExternal   = errors.New("permanent external failure")
	ErrTimeout             = errors.New("operation timeout")
	ErrCancelled           = errors.New("cancelled")
	ErrRequiredAgentFailed = errors.New("required agent failed")
	ErrInternal            = errors.New("internal error")

	// ErrRenderFailed marks a chart render failure; VisualizationAgent never
	// raises on this, it reports success=false with this kind instead.
	ErrRenderFailed = errors.New("chart render failed")

	// ErrNotFound and ErrUnavailable are generic collaborator-adapter
	// conditions; the calling agent maps them onto the taxonomy above
	// before writing state.Error.
	ErrNotFound    = errors.New("resource not found")
	ErrUnavailable = errors.New("service unavailable")
)

// Kind classifies a DomainError by the spec §7 taxonomy; it is the value
// that ends up in State.Error.Kind and AgentResult.Error.Kind.
type Kind string

const (
	KindInvalidInput        Kind = "invalid_input"
	KindSymbolNotFound      Kind = "symbol_not_found"
	KindNoContext           Kind = "no_context"
	KindTransientExternal   Kind = "transient_external"
	KindPermanentExternal   Kind = "permanent_external"
	KindTimeout             Kind = "timeout"
	KindCancelled           Kind = "cancelled"
	KindRequiredAgentFailed Kind = "required_agent_failed"
	KindRenderFailed        Kind = "render_failed"
	KindInternal            Kind = "internal"
)

var kindBySentinel = map[error]Kind{
	ErrInvalidInput:        KindInvalidInput,
	ErrSymbolNotFound:      KindSymbolNotFound,
	ErrNoContext:           KindNoContext,
	ErrTransientExternal:   KindTransientExternal,
	ErrPermanentExternal:   KindPermanentExternal,
	ErrTimeout:             KindTimeout,
	ErrCancelled:           KindCancelled,
	ErrRequiredAgentFailed: KindRequiredAgentFailed,
	ErrRenderFailed:        KindRenderFailed,
	ErrInternal:            KindInternal,
}

// KindOf classifies err against the known sentinels, defaulting to
// KindInternal when nothing in its chain matches.
func KindOf(err error) Kind {
	for sentinel, kind := range kindBySentinel {
		if errors.Is(err, sentinel) {
			return kind
		}
	}
	return KindInternal
}

// DomainError wraps an error with a taxonomy code and a human-readable
// message.
type DomainError struct {
	Code    Kind
	Message string
	Err     error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError creates a DomainError, inferring the taxonomy code from
// err when code is empty.
func NewDomainError(code Kind, message string, err error) *DomainError {
	if code == "" {
		code = KindOf(err)
	}
	return &DomainError{Code: code, Message: message, Err: err}
}

// ValidationError represents a single invalid-field condition.
type ValidationError struct {
	Field   string
	Message string
	Value   interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: field '%s': %s (value: %v)", e.Field, e.Message, e.Value)
}

func NewValidationError(field, message string, value interface{}) *ValidationError {
	return &ValidationError{Field: field, Message: message, Value: value}
}

// MultiError aggregates independent failures, e.g. several agents in a
// stage failing at once.
type MultiError struct {
	Errors []error
}

func (m *MultiError) Error() string {
	switch len(m.Errors) {
	case 0:
		return "no errors"
	case 1:
		return m.Errors[0].Error()
	default:
		return fmt.Sprintf("multiple errors (%d): %v", len(m.Errors), m.Errors[0])
	}
}

func (m *MultiError) Add(err error) {
	if err != nil {
		m.Errors = append(m.Errors, err)
	}
}

func (m *MultiError) HasErrors() bool {
	return len(m.Errors) > 0
}

func (m *MultiError) ToError() error {
	if !m.HasErrors() {
		return nil
	}
	return m
}

// Is reports whether err is or wraps target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain matching target's type.
func As(err error, target interface{}) bool { return errors.As(err, target) }

// Wrap adds static context to err, preserving its chain for errors.Is/As.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf adds formatted context to err.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

func New(message string) error { return errors.New(message) }

func Newf(format string, args ...interface{}) error { return fmt.Errorf(format, args...) }
