// Package diag defines the error type shared by the expression engine and the
// argument binder.
//
// Every failure is a [*Error] derived from one of four sentinels describing
// its class. Derived errors keep the sentinel's message, so [errors.Is]
// matches them against the sentinel regardless of the cause or attributes
// attached along the way:
//
//	err := diag.ErrType.Wrap(fmt.Errorf("$number: %s is not a number.", v))
//	errors.Is(err, diag.ErrType) // true
package diag

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
)

// Error classes.
var (
	// ErrSyntax reports a malformed parameter list, argument list, or
	// expression.
	ErrSyntax = NewError("syntax error")
	// ErrBinding reports a call site that cannot be matched to the callee's
	// declared parameters.
	ErrBinding = NewError("binding error")
	// ErrType reports a value of the wrong variant or unit.
	ErrType = NewError("type error")
	// ErrArithmetic reports an operator applied to incompatible operands.
	ErrArithmetic = NewError("arithmetic error")
)

// Position locates a token in its source text.
// Line and Column are 1-based; the zero Position means "unknown".
type Position struct {
	Offset int
	Line   int
	Column int
}

// IsValid reports whether p refers to a real source location.
func (p Position) IsValid() bool { return p.Line > 0 }

func (p Position) String() string {
	if !p.IsValid() {
		return "-"
	}

	return strconv.Itoa(p.Line) + ":" + strconv.Itoa(p.Column)
}

// Error represents an error with optional structured logging attributes and
// source position. It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error
	pos   Position
	attrs []slog.Attr
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// Errorf creates a new Error with a formatted message.
func Errorf(format string, args ...any) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// WrapError returns err as an Error, either by extracting one from the chain
// or by wrapping it.
func WrapError(err error) *Error {
	if err == nil {
		return nil
	}

	var ee *Error
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message is "<msg>: <cause>" with either part omitted when empty.
func (e *Error) Error() string {
	part := make([]string, 0, 2)

	if e.msg != "" {
		part = append(part, e.msg)
	}

	if e.err != nil {
		part = append(part, e.err.Error())
	}

	return strings.Join(part, ": ")
}

// Cause returns the innermost human-readable message, without the class
// prefix. It is what a user-facing diagnostic should print.
func (e *Error) Cause() string {
	if e.err == nil {
		return e.msg
	}

	var inner *Error
	if errors.As(e.err, &inner) {
		return inner.Cause()
	}

	return e.err.Error()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is an Error with the same message, so values
// derived from a sentinel by [Error.Wrap], [Error.With], or
// [Error.WithPosition] all match that sentinel.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.msg != "" && t.msg == e.msg
}

// Position returns the source position attached to e, if any.
func (e *Error) Position() Position { return e.pos }

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	if e.pos.IsValid() {
		attrs = append(attrs, slog.String("position", e.pos.String()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	return &Error{
		msg:   e.msg,
		err:   err,
		pos:   e.pos,
		attrs: e.attrs,
	}
}

// Wrapf creates a new Error wrapping a formatted message.
func (e *Error) Wrapf(format string, args ...any) *Error {
	return e.Wrap(fmt.Errorf(format, args...))
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	newAttrs := make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(newAttrs, e.attrs)
	copy(newAttrs[len(e.attrs):], attrs)

	return &Error{
		msg:   e.msg,
		err:   e.err,
		pos:   e.pos,
		attrs: newAttrs,
	}
}

// WithPosition returns a copy of e located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		pos:   pos,
		attrs: e.attrs,
	}
}
