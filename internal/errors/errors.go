// Package errors defines the five error kinds the analysis core can
// surface (spec §7): configuration, I/O, parse, external-index, and
// cancellation. Configuration and cancellation errors abort the run; I/O
// and parse errors are recorded and recovered from where possible.
package errors

import (
	"context"
	"fmt"
	"time"

	"github.com/standardbeagle/swa/internal/types"
)

// ErrorKind names one of the five error kinds spec §7 defines.
type ErrorKind string

const (
	KindConfiguration ErrorKind = "configuration"
	KindIO            ErrorKind = "io"
	KindParse         ErrorKind = "parse"
	KindExternalIndex ErrorKind = "external_index"
	KindCancellation  ErrorKind = "cancellation"
)

// ConfigurationError reports an invalid enum value, negative threshold, or
// out-of-range similarity. Always aborts the run.
type ConfigurationError struct {
	Field      string
	Value      string
	Underlying error
	Timestamp  time.Time
}

// NewConfigurationError builds a ConfigurationError for the given field.
func NewConfigurationError(field, value string, err error) *ConfigurationError {
	return &ConfigurationError{Field: field, Value: value, Underlying: err, Timestamp: time.Now()}
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration error: field %q value %q: %v", e.Field, e.Value, e.Underlying)
}

func (e *ConfigurationError) Unwrap() error { return e.Underlying }

// IOError reports a file-level failure. Recoverable errors cause that file
// to be skipped with a warning record; non-recoverable ones (e.g. a cache
// directory that cannot be written) degrade a whole feature but let the run
// continue (spec §7).
type IOError struct {
	Path        string
	Operation   string
	Underlying  error
	Recoverable bool
	Timestamp   time.Time
}

// NewIOError builds an IOError; Recoverable defaults to true since
// single-file errors are the common case.
func NewIOError(op, path string, err error) *IOError {
	return &IOError{Operation: op, Path: path, Underlying: err, Recoverable: true, Timestamp: time.Now()}
}

// WithRecoverable overrides the default recoverable classification.
func (e *IOError) WithRecoverable(recoverable bool) *IOError {
	e.Recoverable = recoverable
	return e
}

func (e *IOError) Error() string {
	return fmt.Sprintf("io %s failed for %s: %v", e.Operation, e.Path, e.Underlying)
}

func (e *IOError) Unwrap() error { return e.Underlying }

// ParseError reports a malformed node the tree walker could not interpret.
// Never fatal: the walker records one per recovered node and continues
// with the partial tree (spec §7).
type ParseError struct {
	FileID     types.FileID
	File       string
	Line       int
	Column     int
	Token      string
	Underlying error
	Timestamp  time.Time
}

// NewParseError builds a ParseError at the given source position.
func NewParseError(fileID types.FileID, file string, line, column int, token string, err error) *ParseError {
	return &ParseError{
		FileID: fileID, File: file, Line: line, Column: column,
		Token: token, Underlying: err, Timestamp: time.Now(),
	}
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at %s:%d:%d (near token %q): %v", e.File, e.Line, e.Column, e.Token, e.Underlying)
}

func (e *ParseError) Unwrap() error { return e.Underlying }

// ExternalIndexError reports a stale or unsupported external compiler
// index. When the external index returns an error, the symbol resolver
// falls back to syntax-only resolution rather than failing the run (spec
// §7); it records no informational Notice of the downgrade.
type ExternalIndexError struct {
	Reason     string
	Underlying error
	Timestamp  time.Time
}

// NewExternalIndexError builds an ExternalIndexError.
func NewExternalIndexError(reason string, err error) *ExternalIndexError {
	return &ExternalIndexError{Reason: reason, Underlying: err, Timestamp: time.Now()}
}

func (e *ExternalIndexError) Error() string {
	if e.Underlying != nil {
		return fmt.Sprintf("external compiler index unavailable (%s): %v", e.Reason, e.Underlying)
	}
	return fmt.Sprintf("external compiler index unavailable: %s", e.Reason)
}

func (e *ExternalIndexError) Unwrap() error { return e.Underlying }

// CancellationError wraps context.Canceled so every long-running operation
// in the engine surfaces the same error identity. errors.Is(err,
// context.Canceled) holds for any CancellationError.
type CancellationError struct {
	Stage string // "bfs", "clone-detection", "ingestion", ...
}

// NewCancellationError builds a CancellationError tagged with the stage
// that observed the cancellation.
func NewCancellationError(stage string) *CancellationError {
	return &CancellationError{Stage: stage}
}

func (e *CancellationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, context.Canceled)
}

func (e *CancellationError) Unwrap() error { return context.Canceled }

// MultiError aggregates several non-fatal records (e.g. many recoverable
// IOErrors from one run) into a single error value.
type MultiError struct {
	Errors []error
}

// NewMultiError filters nil errors and wraps the rest.
func NewMultiError(errs []error) *MultiError {
	filtered := make([]error, 0, len(errs))
	for _, err := range errs {
		if err != nil {
			filtered = append(filtered, err)
		}
	}
	return &MultiError{Errors: filtered}
}

func (e *MultiError) Error() string {
	switch len(e.Errors) {
	case 0:
		return "no errors"
	case 1:
		return e.Errors[0].Error()
	default:
		return fmt.Sprintf("%d errors: %v", len(e.Errors), e.Errors)
	}
}

func (e *MultiError) Unwrap() []error { return e.Errors }

// IsRecoverable reports whether err leaves the run able to continue: every
// kind except ConfigurationError and a non-recoverable IOError is
// recoverable, and CancellationError never is.
func IsRecoverable(err error) bool {
	switch e := err.(type) {
	case *ConfigurationError:
		return false
	case *CancellationError:
		return false
	case *IOError:
		return e.Recoverable
	case *ParseError:
		return true
	case *ExternalIndexError:
		return true
	default:
		return true
	}
}

// KindOf classifies err into one of the five kinds, or "" if err does not
// match any of them.
func KindOf(err error) ErrorKind {
	switch err.(type) {
	case *ConfigurationError:
		return KindConfiguration
	case *IOError:
		return KindIO
	case *ParseError:
		return KindParse
	case *ExternalIndexError:
		return KindExternalIndex
	case *CancellationError:
		return KindCancellation
	default:
		return ""
	}
}
