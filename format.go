package main

import (
	"math"
	"strings"
)

// longStringBypass is the length from which an unprecisioned %s argument is
// appended as-is instead of going through the item buffer
const longStringBypass = 100

// Library holds the limits shared by the format interpreter and the string
// utilities.
type Library struct {
	// MaxOutput caps the size of any produced string in bytes; 0 means no cap
	MaxOutput int
}

var defaultLibrary = &Library{}

// Format renders template against args with no output limit. See Library.Format.
func Format(template string, args ...Value) (string, error) {
	return defaultLibrary.Format(template, args...)
}

// Format renders template, substituting one argument per directive.
//
// The argument list is 1-based with the template itself at index 1, so the
// first value in args is index 2. Directives consume arguments in order; a
// directive written "%N$..." reads the Nth value after the template instead.
// Either way the sequential cursor moves one slot per directive, so
// "%2$s %s" prints the second value followed by the second value again.
func (l *Library) Format(template string, args ...Value) (string, error) {
	st := &formatState{
		tpl:    template,
		args:   args,
		cursor: 2,
		out:    newOutputBuffer("format", len(template)+len(args)*8, l.MaxOutput),
	}
	if err := st.run(); err != nil {
		return "", err
	}
	return st.out.result(), nil
}

// formatState is the private per-call state of one Format invocation
type formatState struct {
	tpl        string
	pos        int
	args       []Value
	cursor     int
	directives int
	out        *outputBuffer
	item       itemBuffer
}

func (st *formatState) run() error {
	end := len(st.tpl)
	for st.pos < end {
		if st.tpl[st.pos] != escapeChar {
			next := strings.IndexByte(st.tpl[st.pos:], escapeChar)
			if next < 0 {
				next = end
			} else {
				next += st.pos
			}
			if err := st.out.appendString(st.tpl[st.pos:next]); err != nil {
				return err
			}
			st.pos = next
			continue
		}
		if st.pos+1 < end && st.tpl[st.pos+1] == escapeChar {
			if err := st.out.appendByte(escapeChar); err != nil {
				return err
			}
			st.pos += 2
			continue
		}

		d, next, err := scanDirective(st.tpl, st.pos)
		if err != nil {
			return err
		}
		st.pos = next
		st.directives++
		if err := st.render(&d); err != nil {
			return err
		}
	}
	return nil
}

// arg returns the argument at 1-based index idx, the template being index 1
func (st *formatState) arg(idx int) (Value, error) {
	switch {
	case idx == 1:
		return Str(st.tpl), nil
	case idx >= 2 && idx-2 < len(st.args):
		return st.args[idx-2], nil
	}
	return Nil, noValueError("format", idx)
}

// selectArg resolves the directive's argument and advances the cursor
func (st *formatState) selectArg(d *directive) (int, Value, error) {
	idx := st.cursor
	if d.explicit {
		idx = d.argIndex
	}
	st.cursor++
	v, err := st.arg(idx)
	return idx, v, err
}

func (st *formatState) render(d *directive) error {
	idx, v, err := st.selectArg(d)
	if err != nil {
		return err
	}
	st.item.reset()

	switch d.verb {
	case 'c':
		i, ok := v.toInteger()
		if !ok {
			return integerArgError(idx, v)
		}
		st.item.pad(string([]byte{byte(i)}), d.width, d.hasFlag('-'))

	case 'd', 'i':
		i, ok := v.toInteger()
		if !ok {
			return integerArgError(idx, v)
		}
		st.item.printf(d.goForm('d', "", -1), i)

	case 'o', 'u', 'x', 'X':
		u, ok := v.toUnsigned()
		if !ok {
			return integerArgError(idx, v)
		}
		verb := d.verb
		if verb == 'u' {
			verb = 'd'
		}
		drop := "+ "
		if u == 0 {
			drop = "+ #"
		}
		st.item.printf(d.goForm(verb, drop, -1), u)

	case 'e', 'E', 'f', 'g', 'G':
		f, ok := v.toNumber()
		if !ok {
			return typeError("format", idx, "number", v)
		}
		if math.IsInf(f, 0) || math.IsNaN(f) {
			st.item.pad(nonFinite(d, f), d.width, d.hasFlag('-'))
			break
		}
		prec := -1
		if d.verb == 'g' || d.verb == 'G' {
			prec = 6
		}
		st.item.printf(d.goForm(d.verb, "", prec), f)

	case 'q':
		s, ok := v.toLString()
		if !ok {
			return typeError("format", idx, "string", v)
		}
		return appendQuoted(st.out, s)

	case 's':
		s, ok := v.toLString()
		if !ok {
			return typeError("format", idx, "string", v)
		}
		if !d.hasPrec && len(s) >= longStringBypass {
			return st.out.appendString(s)
		}
		if d.hasPrec && len(s) > d.precision {
			s = s[:d.precision]
		}
		st.item.pad(s, d.width, d.hasFlag('-'))
	}

	return st.out.appendBytes(st.item.bytes())
}

// integerArgError distinguishes non-numbers from numbers with no integer form
func integerArgError(idx int, v Value) error {
	if _, ok := v.toNumber(); ok {
		return badArgError("format", idx, "number has no integer representation")
	}
	return typeError("format", idx, "number", v)
}

// nonFinite spells infinities and NaN the way C printf does
func nonFinite(d *directive, f float64) string {
	body := "inf"
	if math.IsNaN(f) {
		body = "nan"
	}
	if d.verb == 'E' || d.verb == 'G' {
		body = strings.ToUpper(body)
	}
	switch {
	case math.IsInf(f, -1):
		return "-" + body
	case d.hasFlag('+'):
		return "+" + body
	case d.hasFlag(' '):
		return " " + body
	}
	return body
}
