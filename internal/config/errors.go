package config

import (
	"errors"
	"fmt"
)

// Errors returned by configuration operations.
var (
	// ErrUnknownFormat indicates a file extension with no decoder.
	ErrUnknownFormat = errors.New("unknown config format")

	// ErrInvalidValue indicates a setting holds a value of the wrong type.
	ErrInvalidValue = errors.New("invalid value")

	// ErrUnknownPath indicates a toggle for a rule or group that does not exist.
	ErrUnknownPath = errors.New("unknown rule path")

	// ErrIncompleteRule indicates a new rule without an icon or query.
	ErrIncompleteRule = errors.New("rule needs an icon and a query")
)

// ParseError represents an error while parsing a configuration file.
type ParseError struct {
	// Path is the file path that failed to parse.
	Path string
	// Message describes the parse error.
	Message string
	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Path, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// EntryError ties a failure to the rule path that caused it.
type EntryError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *EntryError) Error() string {
	return fmt.Sprintf("icons.%s: %v", e.Path, e.Err)
}

// Unwrap returns the underlying error.
func (e *EntryError) Unwrap() error {
	return e.Err
}
