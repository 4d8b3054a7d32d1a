package errors

import (
	"errors"
	"fmt"
)

// Code classifies a domain error
type Code string

const (
	// CodeInvalidFormat indicates an input path without a recognized archive extension
	CodeInvalidFormat Code = "invalid_format"
	// CodeArchiveRead indicates a corrupt or unreadable archive
	CodeArchiveRead Code = "archive_read"
	// CodeNotFound indicates no candidate tabular file was discovered
	CodeNotFound Code = "not_found"
	// CodeAmbiguousInput indicates more than one candidate tabular file was discovered
	CodeAmbiguousInput Code = "ambiguous_input"
	// CodeUnsupportedFormat indicates no ingestor is registered for an extension
	CodeUnsupportedFormat Code = "unsupported_format"
	// CodeTypeMismatch indicates training input of the wrong container kind
	CodeTypeMismatch Code = "type_mismatch"
	// CodeShapeMismatch indicates misaligned feature/target shapes
	CodeShapeMismatch Code = "shape_mismatch"
)

// DomainError represents a classified pipeline error
type DomainError struct {
	Code    Code                   `json:"code"`
	Message string                 `json:"message"`
	Cause   error                  `json:"-"`
	Context map[string]interface{} `json:"context,omitempty"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e == nil {
		return "unknown domain error"
	}
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *DomainError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// New creates a new DomainError with the given code and message
func New(code Code, message string) *DomainError {
	return &DomainError{Code: code, Message: message}
}

// Wrap creates a new DomainError wrapping an underlying cause
func Wrap(code Code, message string, cause error) *DomainError {
	return &DomainError{Code: code, Message: message, Cause: cause}
}

// HasCode reports whether err (or anything it wraps) is a DomainError with the given code
func HasCode(err error, code Code) bool {
	var de *DomainError
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// NewInvalidFormat creates an error for a path without a recognized archive extension
func NewInvalidFormat(path string) *DomainError {
	return &DomainError{
		Code:    CodeInvalidFormat,
		Message: fmt.Sprintf("file %s is not a recognized archive", path),
		Context: map[string]interface{}{"path": path},
	}
}

// NewArchiveRead creates an error for a corrupt or unreadable archive
func NewArchiveRead(path string, cause error) *DomainError {
	return &DomainError{
		Code:    CodeArchiveRead,
		Message: fmt.Sprintf("failed to read archive %s", path),
		Cause:   cause,
		Context: map[string]interface{}{"path": path},
	}
}

// NewArchiveMissing creates an error for an input archive that does not exist
func NewArchiveMissing(path string) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("archive %s does not exist", path),
		Context: map[string]interface{}{"path": path},
	}
}

// NewNotFound creates an error for a directory containing no tabular files
func NewNotFound(dir string) *DomainError {
	return &DomainError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("no CSV files found in %s", dir),
		Context: map[string]interface{}{"directory": dir},
	}
}

// NewAmbiguousInput creates an error for a directory containing multiple tabular files
func NewAmbiguousInput(dir string, count int) *DomainError {
	return &DomainError{
		Code:    CodeAmbiguousInput,
		Message: fmt.Sprintf("found %d CSV files in %s, expected exactly one", count, dir),
		Context: map[string]interface{}{"directory": dir, "count": count},
	}
}

// NewUnsupportedFormat creates an error for an extension with no registered ingestor
func NewUnsupportedFormat(extension string) *DomainError {
	return &DomainError{
		Code:    CodeUnsupportedFormat,
		Message: fmt.Sprintf("no ingestor available for file extension %q", extension),
		Context: map[string]interface{}{"extension": extension},
	}
}

// NewTypeMismatch creates an error for training input of the wrong container kind
func NewTypeMismatch(message string) *DomainError {
	return &DomainError{Code: CodeTypeMismatch, Message: message}
}

// NewShapeMismatch creates an error for misaligned feature/target shapes
func NewShapeMismatch(featureRows, targetLen int) *DomainError {
	return &DomainError{
		Code:    CodeShapeMismatch,
		Message: fmt.Sprintf("feature matrix has %d rows but target has %d values", featureRows, targetLen),
		Context: map[string]interface{}{"feature_rows": featureRows, "target_len": targetLen},
	}
}
