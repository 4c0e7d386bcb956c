package main

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures raised by the string library
type ErrorKind int

const (
	KindMalformedDirective ErrorKind = iota + 1
	KindUnterminatedDirective
	KindInvalidConversion
	KindArgumentOutOfRange
	KindBadArgument
	KindAllocationFailure
)

// Sentinels for errors.Is; every *Error unwraps to the one matching its Kind
var (
	ErrMalformedDirective    = errors.New("malformed directive")
	ErrUnterminatedDirective = errors.New("unterminated directive")
	ErrInvalidConversion     = errors.New("invalid conversion")
	ErrArgumentOutOfRange    = errors.New("argument out of range")
	ErrBadArgument           = errors.New("bad argument")
	ErrAllocationFailure     = errors.New("allocation failure")
)

func (k ErrorKind) String() string {
	switch k {
	case KindMalformedDirective:
		return "MalformedDirective"
	case KindUnterminatedDirective:
		return "UnterminatedDirective"
	case KindInvalidConversion:
		return "InvalidConversion"
	case KindArgumentOutOfRange:
		return "ArgumentOutOfRange"
	case KindBadArgument:
		return "BadArgument"
	case KindAllocationFailure:
		return "AllocationFailure"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// parseErrorKind maps a kind name back to its ErrorKind, or 0 when unknown
func parseErrorKind(name string) ErrorKind {
	for k := KindMalformedDirective; k <= KindAllocationFailure; k++ {
		if k.String() == name {
			return k
		}
	}
	return 0
}

func (k ErrorKind) sentinel() error {
	switch k {
	case KindMalformedDirective:
		return ErrMalformedDirective
	case KindUnterminatedDirective:
		return ErrUnterminatedDirective
	case KindInvalidConversion:
		return ErrInvalidConversion
	case KindArgumentOutOfRange:
		return ErrArgumentOutOfRange
	case KindBadArgument:
		return ErrBadArgument
	case KindAllocationFailure:
		return ErrAllocationFailure
	}
	return nil
}

// Error is raised by the format interpreter, the string utilities and the
// host natives. Func and Arg identify the failing call and argument index
// (1-based, counting the template); Pos is the template byte offset of the
// offending directive, or -1.
type Error struct {
	Kind ErrorKind
	Func string
	Arg  int
	Pos  int
	Msg  string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindArgumentOutOfRange, KindBadArgument:
		return fmt.Sprintf("bad argument #%d to '%s' (%s)", e.Arg, e.Func, e.Msg)
	}
	return e.Msg
}

// Unwrap exposes the kind sentinel
func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

// KindOf returns the kind of a library error, or 0 when err is not one
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func malformedError(pos int, msg string) *Error {
	return &Error{Kind: KindMalformedDirective, Func: "format", Pos: pos, Msg: "invalid format (" + msg + ")"}
}

func unterminatedError(pos int) *Error {
	return &Error{Kind: KindUnterminatedDirective, Func: "format", Pos: pos, Msg: "invalid format (unterminated directive)"}
}

func invalidConversionError(pos int, c byte) *Error {
	return &Error{Kind: KindInvalidConversion, Func: "format", Pos: pos, Msg: fmt.Sprintf("invalid option '%%%c' to 'format'", c)}
}

func noValueError(fn string, arg int) *Error {
	return &Error{Kind: KindArgumentOutOfRange, Func: fn, Arg: arg, Pos: -1, Msg: "no value"}
}

func typeError(fn string, arg int, expected string, got Value) *Error {
	return &Error{Kind: KindBadArgument, Func: fn, Arg: arg, Pos: -1, Msg: fmt.Sprintf("%s expected, got %s", expected, got.TypeName())}
}

func badArgError(fn string, arg int, msg string) *Error {
	return &Error{Kind: KindBadArgument, Func: fn, Arg: arg, Pos: -1, Msg: msg}
}

func allocError(fn string, limit int) *Error {
	return &Error{Kind: KindAllocationFailure, Func: fn, Pos: -1, Msg: fmt.Sprintf("unable to allocate memory (limit %d bytes)", limit)}
}
