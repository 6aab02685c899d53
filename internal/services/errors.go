package services

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies a conversion failure. The set is closed.
type Kind string

const (
	KindFileNotFound      Kind = "file_not_found"
	KindUnsupportedFormat Kind = "unsupported_format"
	KindConversionFailed  Kind = "conversion_failed"
	KindIO                Kind = "io_error"
	KindMarkitdown        Kind = "markitdown_error"
	KindInvalidPath       Kind = "invalid_path"
)

// Markers usable with errors.Is against any *Error of the matching kind.
var (
	ErrFileNotFound      = errors.New("file not found")
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrConversionFailed  = errors.New("conversion failed")
	ErrIO                = errors.New("io error")
	ErrMarkitdown        = errors.New("markitdown command failed")
	ErrInvalidPath       = errors.New("invalid file path")
)

// Kinds lists every error kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindFileNotFound,
		KindUnsupportedFormat,
		KindConversionFailed,
		KindIO,
		KindMarkitdown,
		KindInvalidPath,
	}
}

func (k Kind) marker() error {
	switch k {
	case KindFileNotFound:
		return ErrFileNotFound
	case KindUnsupportedFormat:
		return ErrUnsupportedFormat
	case KindConversionFailed:
		return ErrConversionFailed
	case KindIO:
		return ErrIO
	case KindMarkitdown:
		return ErrMarkitdown
	case KindInvalidPath:
		return ErrInvalidPath
	default:
		return nil
	}
}

// Label returns the display prefix used when rendering an error of this kind.
func (k Kind) Label() string {
	switch k {
	case KindFileNotFound:
		return "File not found"
	case KindUnsupportedFormat:
		return "Unsupported file format"
	case KindConversionFailed:
		return "Conversion failed"
	case KindIO:
		return "IO error"
	case KindMarkitdown:
		return "Markitdown command failed"
	case KindInvalidPath:
		return "Invalid file path"
	default:
		return "Error"
	}
}

// Error is a classified conversion failure. Detail holds the path, token, or
// diagnostic text associated with the kind.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

// NewError builds a classified error. err may be nil.
func NewError(kind Kind, detail string, err error) *Error {
	return &Error{Kind: kind, Detail: strings.TrimRight(detail, "\n"), Err: err}
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Detail == "" && e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind.Label(), e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind.Label(), e.Detail)
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Is matches the kind marker so callers can write errors.Is(err, ErrMarkitdown).
func (e *Error) Is(target error) bool {
	if e == nil {
		return false
	}
	marker := e.Kind.marker()
	return marker != nil && target == marker
}

// KindOf returns the classification of err, or "" when err carries none.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) && classified != nil {
		return classified.Kind
	}
	return ""
}

// FileNotFound reports a missing input path.
func FileNotFound(path string) *Error {
	return NewError(KindFileNotFound, path, nil)
}

// UnsupportedFormat reports an unrecognized token or an unsupported pair.
func UnsupportedFormat(token string) *Error {
	return NewError(KindUnsupportedFormat, token, nil)
}

// InvalidPath reports a path whose format cannot be derived.
func InvalidPath(path string) *Error {
	return NewError(KindInvalidPath, path, nil)
}
