// internal/errors/service.go
package errors

import (
	"context"
	"errors"
	"fmt"

	"github.com/valpere/BiDiConformer/internal/session"
)

// Category classifies a failure for reporting and exit-code purposes.
type Category string

const (
	CategoryAssertion Category = "assertion"
	CategoryConfig    Category = "config"
	CategorySession   Category = "session"
	CategoryFixture   Category = "fixture"
	CategoryInternal  Category = "internal"
)

// Exit codes by failure category. Conformance failures (assertions) use the
// conventional failing-test exit code.
const (
	ExitAssertion = 1
	ExitConfig    = 2
	ExitSession   = 3
	ExitFixture   = 4
	ExitInternal  = 5
)

// AssertionError is a conformance expectation that did not hold. It is a
// finding about the session under test, not a harness defect.
type AssertionError struct {
	Check   string
	Message string
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	if e.Check == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Check, e.Message)
}

// NewAssertion creates an assertion failure for the named check.
func NewAssertion(check, format string, args ...interface{}) *AssertionError {
	return &AssertionError{
		Check:   check,
		Message: fmt.Sprintf(format, args...),
	}
}

// ConfigError marks a configuration problem surfaced before any check ran.
type ConfigError struct {
	Err error
}

func (e *ConfigError) Error() string { return e.Err.Error() }

func (e *ConfigError) Unwrap() error { return e.Err }

// WrapConfig tags err as a configuration failure.
func WrapConfig(err error) error {
	if err == nil {
		return nil
	}
	return &ConfigError{Err: err}
}

// Service converts harness failures into user-facing CLI output. The
// conformance policy is fail-fast: there is no retry or recovery here, only
// classification and formatting.
type Service struct {
	verbose bool
}

// NewService creates an error service.
func NewService() *Service {
	return &Service{}
}

// WithVerbose returns a service that includes technical detail in output.
func (s *Service) WithVerbose(verbose bool) *Service {
	return &Service{verbose: verbose}
}

// Classify determines the failure category of an error.
func (s *Service) Classify(err error) Category {
	var assertion *AssertionError
	if errors.As(err, &assertion) {
		return CategoryAssertion
	}

	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return CategoryConfig
	}

	var sessionErr *session.Error
	if errors.As(err, &sessionErr) {
		return CategorySession
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return CategoryFixture
	}

	return CategoryInternal
}

// GetExitCode maps an error to a process exit code.
func (s *Service) GetExitCode(err error) int {
	switch s.Classify(err) {
	case CategoryAssertion:
		return ExitAssertion
	case CategoryConfig:
		return ExitConfig
	case CategorySession:
		return ExitSession
	case CategoryFixture:
		return ExitFixture
	default:
		return ExitInternal
	}
}

// FormatErrorForCLI renders an error for terminal output.
func (s *Service) FormatErrorForCLI(err error) string {
	if err == nil {
		return ""
	}

	category := s.Classify(err)

	var headline string
	switch category {
	case CategoryAssertion:
		headline = "Conformance failure"
	case CategoryConfig:
		headline = "Configuration error"
	case CategorySession:
		headline = "Session error"
	case CategoryFixture:
		headline = "Fixture timeout"
	default:
		headline = "Error"
	}

	if s.verbose {
		return fmt.Sprintf("%s: %v\n  category: %s\n", headline, err, category)
	}
	return fmt.Sprintf("%s: %v\n", headline, err)
}
