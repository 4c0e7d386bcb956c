package main

import (
	"strconv"
	"strings"
	"unicode/utf8"
)

// SplitFormat splits input on any byte of sep and renders the pieces through
// template, so "%2$s %1$s" with sep "," turns "a,b" into "b a".
// If lineBased is true, each line is split and formatted on its own.
func (l *Library) SplitFormat(input, sep, template string, lineBased bool) (string, error) {
	render := func(text string) (string, error) {
		parts := Split(sep, text, 0)
		return l.Format(template, strValues(parts)...)
	}

	if lineBased {
		return applyLineBased(render, input)
	}
	return render(input)
}

// applyLineBased applies an operation to each line of the input text individually
func applyLineBased(op func(line string) (string, error), input string) (string, error) {
	if input == "" {
		return input, nil
	}

	lines := strings.Split(input, "\n")
	result := make([]string, len(lines))

	for i, line := range lines {
		out, err := op(line)
		if err != nil {
			return "", err
		}
		result[i] = out
	}

	return strings.Join(result, "\n"), nil
}

// processEscapeSequences converts backslash escapes typed on a command line or
// at the REPL prompt into the bytes they stand for. \xHH yields a single raw
// byte; \u and \U yield the UTF-8 encoding of the code point.
func processEscapeSequences(s string) string {
	if strings.IndexByte(s, '\\') < 0 {
		return s
	}

	var result strings.Builder
	result.Grow(len(s))

	for i := 0; i < len(s); i++ {
		if s[i] != '\\' || i+1 >= len(s) {
			result.WriteByte(s[i])
			continue
		}

		switch next := s[i+1]; next {
		case 'n':
			result.WriteByte('\n')
			i++
		case 'r':
			result.WriteByte('\r')
			i++
		case 't':
			result.WriteByte('\t')
			i++
		case 'f':
			result.WriteByte('\f')
			i++
		case 'v':
			result.WriteByte('\v')
			i++
		case 'b':
			result.WriteByte('\b')
			i++
		case 'a':
			result.WriteByte('\a')
			i++
		case '0':
			result.WriteByte(0)
			i++
		case '\\', '"', '\'':
			result.WriteByte(next)
			i++
		case 'x':
			if val, ok := parseHexEscape(s, i+2, 2, 8); ok {
				result.WriteByte(byte(val))
				i += 3
			} else {
				result.WriteByte(s[i])
			}
		case 'u':
			if val, ok := parseHexEscape(s, i+2, 4, 32); ok && utf8.ValidRune(rune(val)) {
				result.WriteRune(rune(val))
				i += 5
			} else {
				result.WriteByte(s[i])
			}
		case 'U':
			if val, ok := parseHexEscape(s, i+2, 8, 32); ok && utf8.ValidRune(rune(val)) {
				result.WriteRune(rune(val))
				i += 9
			} else {
				result.WriteByte(s[i])
			}
		default:
			// Not a recognized escape sequence, keep the backslash
			result.WriteByte(s[i])
		}
	}

	return result.String()
}

// parseHexEscape reads exactly n hex digits starting at s[start]
func parseHexEscape(s string, start, n, bits int) (uint64, bool) {
	if start+n > len(s) {
		return 0, false
	}
	val, err := strconv.ParseUint(s[start:start+n], 16, bits)
	if err != nil {
		return 0, false
	}
	return val, true
}
