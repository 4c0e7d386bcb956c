package main

import (
	"strconv"
	"strings"
)

const (
	escapeChar     = '%'
	positionalChar = '$'

	// flagChars are the valid flags of a directive
	flagChars = "-+ #0"
	maxFlags  = len(flagChars)

	// conversions are the accepted conversion characters
	conversions = "cdioxXueEfgGqs"

	// maxFormat is the longest Go verb a directive translates to ("%-+ #099.99d")
	maxFormat = 1 + maxFlags + 2 + 1 + 2 + 1
)

// directive is one parsed '%...' sequence
type directive struct {
	pos       int // template offset of the '%'
	explicit  bool
	argIndex  int // argument-list index chosen by an N$ prefix
	flags     string
	width     int
	hasWidth  bool
	precision int
	hasPrec   bool
	verb      byte
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

// scanDirective parses the directive whose '%' sits at tpl[pos] and returns it
// with the offset just past its conversion character. A leading "N$" picks
// argument N counting from the first value after the template.
func scanDirective(tpl string, pos int) (directive, int, error) {
	d := directive{pos: pos}
	p := pos + 1
	end := len(tpl)

	if p+1 < end && isDigit(tpl[p]) && tpl[p+1] == positionalChar {
		d.explicit = true
		d.argIndex = int(tpl[p]-'0') + 1
		p += 2
	}

	start := p
	for p < end && strings.IndexByte(flagChars, tpl[p]) >= 0 {
		p++
	}
	if p-start > maxFlags {
		return d, 0, malformedError(pos, "repeated flags")
	}
	d.flags = tpl[start:p]

	d.width, d.hasWidth, p = scanDigits(tpl, p)
	if p < end && tpl[p] == '.' {
		p++
		d.precision, _, p = scanDigits(tpl, p)
		d.hasPrec = true
	}
	if p < end && isDigit(tpl[p]) {
		return d, 0, malformedError(pos, "width or precision too long")
	}
	if p >= end {
		return d, 0, unterminatedError(pos)
	}

	d.verb = tpl[p]
	if strings.IndexByte(conversions, d.verb) < 0 {
		return d, 0, invalidConversionError(pos, d.verb)
	}
	return d, p + 1, nil
}

// scanDigits reads at most two decimal digits
func scanDigits(tpl string, p int) (int, bool, int) {
	n, seen := 0, false
	for i := 0; i < 2 && p < len(tpl) && isDigit(tpl[p]); i++ {
		n = n*10 + int(tpl[p]-'0')
		seen = true
		p++
	}
	return n, seen, p
}

func (d *directive) hasFlag(c byte) bool {
	return strings.IndexByte(d.flags, c) >= 0
}

// goForm translates the directive into a fmt verb. Flags listed in drop are
// left out; precision is forced to prec when prec >= 0 and none was given.
func (d *directive) goForm(verb byte, drop string, prec int) string {
	var buf [maxFormat]byte
	form := append(buf[:0], escapeChar)
	for i := 0; i < len(d.flags); i++ {
		if strings.IndexByte(drop, d.flags[i]) < 0 {
			form = append(form, d.flags[i])
		}
	}
	if d.hasWidth {
		form = strconv.AppendInt(form, int64(d.width), 10)
	}
	switch {
	case d.hasPrec:
		form = append(form, '.')
		form = strconv.AppendInt(form, int64(d.precision), 10)
	case prec >= 0:
		form = append(form, '.')
		form = strconv.AppendInt(form, int64(prec), 10)
	}
	form = append(form, verb)
	return string(form)
}
