package bcerrors

import (
	"errors"
	"fmt"
)

// Kind identifies the high level class of an error surfaced by biosconfig.
type Kind string

const (
	// KindValidation indicates a settings document violates a structural invariant.
	KindValidation Kind = "validation"
	// KindParse indicates a native settings document could not be decoded.
	KindParse Kind = "parse"
	// KindRender indicates a settings document could not be serialized.
	KindRender Kind = "render"
	// KindUnknownSetting indicates a requested setting, option or feature id is not
	// known by the vendor tool.
	KindUnknownSetting Kind = "unknown_setting"
	// KindTool indicates the vendor tool exited non-zero or could not be started.
	KindTool Kind = "tool"
	// KindUsage indicates invalid command line arguments.
	KindUsage Kind = "usage"
	// KindUnsupported indicates a feature the backend does not handle.
	KindUnsupported Kind = "unsupported"
	// KindInternal indicates an unexpected or internal error.
	KindInternal Kind = "internal"
)

// Error wraps an underlying error and tags it with a Kind so callers can branch on
// the class of failure.
type Error struct {
	Kind Kind
	Err  error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err == nil {
		return string(e.Kind)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

// Unwrap lets errors.Is/As reach the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates an error of the given Kind.
func New(kind Kind, err error) error {
	if err == nil {
		err = errors.New(string(kind))
	}
	return &Error{Kind: kind, Err: err}
}

// Newf is New with a formatted message.
func Newf(kind Kind, format string, args ...any) error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

// KindOf returns the Kind of the outermost *Error in err's chain, or KindInternal
// when err carries no Kind.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// Is reports whether err carries the given Kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	for err != nil {
		var e *Error
		if !errors.As(err, &e) {
			return false
		}
		if e.Kind == kind {
			return true
		}
		err = e.Err
	}
	return false
}
