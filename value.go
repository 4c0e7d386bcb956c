package main

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ValueTag identifies the dynamic type carried by a Value
type ValueTag int

const (
	NilTag ValueTag = iota
	BoolTag
	IntTag
	NumTag
	StrTag
	TableTag
	FuncTag
	UserdataTag
)

// Value is a dynamically typed host value. Data holds bool, int64, float64,
// string, *Table, *Native or *Userdata depending on Tag.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Native is a host function implemented in Go
type Native struct {
	Name string
	Fn   NativeFunc
	host *Host // set by Host.Register
}

// NativeFunc is the calling convention for functions registered in the host
type NativeFunc func(h *Host, args []Value) ([]Value, error)

// Userdata is an opaque host object that scripts can pass around but not inspect
type Userdata struct {
	Name    string
	Payload interface{}
}

// Nil is the absent value
var Nil = Value{Tag: NilTag}

// Bool wraps a boolean
func Bool(b bool) Value { return Value{Tag: BoolTag, Data: b} }

// Int wraps a 64-bit integer
func Int(i int64) Value { return Value{Tag: IntTag, Data: i} }

// Num wraps a double
func Num(f float64) Value { return Value{Tag: NumTag, Data: f} }

// Str wraps a string
func Str(s string) Value { return Value{Tag: StrTag, Data: s} }

// TableVal wraps a table
func TableVal(t *Table) Value { return Value{Tag: TableTag, Data: t} }

// FuncVal wraps a native function
func FuncVal(name string, fn NativeFunc) Value {
	return Value{Tag: FuncTag, Data: &Native{Name: name, Fn: fn}}
}

// UserdataVal wraps an opaque payload
func UserdataVal(name string, payload interface{}) Value {
	return Value{Tag: UserdataTag, Data: &Userdata{Name: name, Payload: payload}}
}

// IsNil reports whether v is the absent value
func (v Value) IsNil() bool { return v.Tag == NilTag }

// TypeName returns the host type name of the value
func (v Value) TypeName() string {
	switch v.Tag {
	case NilTag:
		return "nil"
	case BoolTag:
		return "boolean"
	case IntTag, NumTag:
		return "number"
	case StrTag:
		return "string"
	case TableTag:
		return "table"
	case FuncTag:
		return "function"
	default:
		return "userdata"
	}
}

// String renders the value the way the host's tostring does. A __tostring
// metamethod runs on the host that registered it; see ToString.
func (v Value) String() string {
	return v.ToString(nil)
}

// ToString is String with __tostring metamethods run on h. A nil h falls back
// to the metamethod's owning host, and to the plain address form without one.
func (v Value) ToString(h *Host) string {
	switch v.Tag {
	case NilTag:
		return "nil"
	case BoolTag:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case IntTag:
		return strconv.FormatInt(v.Data.(int64), 10)
	case NumTag:
		return formatHostNumber(v.Data.(float64))
	case StrTag:
		return v.Data.(string)
	case TableTag:
		t := v.Data.(*Table)
		if s, ok := t.metaToString(h); ok {
			return s
		}
		return fmt.Sprintf("table: %p", t)
	case FuncTag:
		return fmt.Sprintf("function: %p", v.Data.(*Native))
	default:
		return fmt.Sprintf("userdata: %p", v.Data.(*Userdata))
	}
}

// formatHostNumber mirrors the host's "%.14g" number format
func formatHostNumber(f float64) string {
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return fmt.Sprintf("%.14g", f)
}

// isSerializable reports whether the value survives scrubbing
func (v Value) isSerializable() bool {
	switch v.Tag {
	case TableTag, FuncTag, UserdataTag:
		return false
	}
	return true
}

// ============================================================================
// Coercions
// ============================================================================

// toNumber converts numbers and numeric strings to a double
func (v Value) toNumber() (float64, bool) {
	switch v.Tag {
	case IntTag:
		return float64(v.Data.(int64)), true
	case NumTag:
		return v.Data.(float64), true
	case StrTag:
		return parseHostNumber(v.Data.(string))
	}
	return 0, false
}

// toInteger converts to an int64, truncating doubles toward zero
func (v Value) toInteger() (int64, bool) {
	switch v.Tag {
	case IntTag:
		return v.Data.(int64), true
	case StrTag:
		s := strings.TrimSpace(v.Data.(string))
		if i, err := strconv.ParseInt(s, 10, 64); err == nil {
			return i, true
		}
	}
	f, ok := v.toNumber()
	if !ok {
		return 0, false
	}
	return floatToInteger(f)
}

// toUnsigned converts to a uint64; negative integers wrap as C casts do
func (v Value) toUnsigned() (uint64, bool) {
	if v.Tag == NumTag {
		f := math.Trunc(v.Data.(float64))
		if f >= 1<<63 && f < 1<<64 {
			return uint64(f), true
		}
	}
	i, ok := v.toInteger()
	return uint64(i), ok
}

// toLString converts strings and numbers to a string
func (v Value) toLString() (string, bool) {
	switch v.Tag {
	case StrTag:
		return v.Data.(string), true
	case IntTag, NumTag:
		return v.String(), true
	}
	return "", false
}

func floatToInteger(f float64) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	f = math.Trunc(f)
	if f < -(1<<63) || f >= 1<<63 {
		return 0, false
	}
	return int64(f), true
}

// parseHostNumber accepts what the host's string-to-number conversion accepts:
// decimal and exponent forms, inf/nan, and 0x-prefixed hex integers, with
// surrounding whitespace.
func parseHostNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	body, neg := s, false
	if body[0] == '-' || body[0] == '+' {
		neg = body[0] == '-'
		body = body[1:]
	}
	if len(body) > 2 && body[0] == '0' && (body[1] == 'x' || body[1] == 'X') {
		if u, err := strconv.ParseUint(body[2:], 16, 64); err == nil {
			f := float64(u)
			if neg {
				f = -f
			}
			return f, true
		}
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		// ParseFloat reports range errors with +-Inf, which the host accepts
		if ne, ok := err.(*strconv.NumError); ok && ne.Err == strconv.ErrRange {
			return f, true
		}
		return 0, false
	}
	return f, true
}
