package oxfmt

import (
	"errors"
	"fmt"
)

// Error is the kind of an oxfmt failure. Every error returned by this
// package wraps exactly one of the sentinel values below, so callers can
// branch with errors.Is.
type Error struct {
	kind    string
	message string
}

func (e *Error) Error() string {
	return e.message
}

// Kind returns a stable snake_case label for the error, suitable for logs
// and metric labels.
func (e *Error) Kind() string {
	return e.kind
}

// Structural preconditions
var (
	ErrInvalidHeader          = &Error{"invalid_header", "buffer does not start with header"}
	ErrVersionMismatch        = &Error{"version_mismatch", "version does not match"}
	ErrInvalidArchitectureTag = &Error{"invalid_architecture_tag", "invalid architecture tag"}
	ErrArchitectureNotSet     = &Error{"architecture_not_set", "no architecture specified"}
)

// Malformed or insufficient bytes
var (
	ErrTruncatedBuffer    = &Error{"truncated_buffer", "not enough bytes"}
	ErrUnterminatedString = &Error{"unterminated_string", "unterminated c-string"}
	ErrSizeOverflow       = &Error{"size_overflow", "size does not fit"}
	ErrInvalidUTF8        = &Error{"invalid_utf8", "string is not valid utf-8"}
	ErrTrailingBytes      = &Error{"trailing_bytes", "unread bytes after record"}
)

// Reconstruction failures
var (
	ErrInvalidDiscriminant = &Error{"invalid_discriminant", "invalid enum discriminant"}
	ErrTypeMismatch        = &Error{"type_mismatch", "decoded value has wrong kind"}
)

// Encoding failures
var (
	ErrEmbeddedNUL      = &Error{"embedded_nul", "string contains a zero byte"}
	ErrOptionalMismatch = &Error{"optional_mismatch", "optional presence disagrees with its discriminant"}
)

// DecodeError locates a decode failure in the source buffer.
type DecodeError struct {
	Offset int    // byte offset where the failing read started
	Field  string // dotted field path, empty for header reads
	Err    error
}

func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("oxfmt: offset %d: %v", e.Offset, e.Err)
	}
	return fmt.Sprintf("oxfmt: offset %d: field %s: %v", e.Offset, e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// ErrorKind maps err to the label of the oxfmt error it wraps, or "other"
// when it wraps none.
func ErrorKind(err error) string {
	var oe *Error
	if errors.As(err, &oe) {
		return oe.kind
	}
	return "other"
}

// errorf wraps a sentinel with extra detail while keeping errors.Is intact.
func errorf(kind *Error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
