package main

import "strings"

// DefaultTrimCutset is what strtrim strips when called without a cutset
const DefaultTrimCutset = "\t\n\r "

// Trim strips leading and trailing bytes found in cutset
func Trim(s, cutset string) string {
	front, back := 0, len(s)
	for front < back && strings.IndexByte(cutset, s[front]) >= 0 {
		front++
	}
	for back > front && strings.IndexByte(cutset, s[back-1]) >= 0 {
		back--
	}
	return s[front:back]
}

// Split breaks s at every byte contained in sep. With limit > 1, splitting
// stops after limit-1 pieces and the remainder becomes the last element; a
// limit of 0 means no limit, and 1 or less returns s whole.
func Split(sep, s string, limit int) []string {
	var parts []string
	if limit == 0 || limit > 1 {
		start := 0
		for i := 0; i < len(s); i++ {
			if strings.IndexByte(sep, s[i]) < 0 {
				continue
			}
			parts = append(parts, s[start:i])
			start = i + 1
			if len(parts) == limit-1 {
				break
			}
		}
		s = s[start:]
	}
	return append(parts, s)
}

// Join renders values with their string form and places sep between them.
// Values must be strings or numbers.
func (l *Library) Join(sep string, values ...Value) (string, error) {
	if sep == "" {
		return l.concat("strjoin", 2, values)
	}
	switch len(values) {
	case 0:
		return "", nil
	case 1:
		s, ok := values[0].toLString()
		if !ok {
			return "", typeError("strjoin", 2, "string", values[0])
		}
		return s, nil
	}

	b := newOutputBuffer("strjoin", 0, l.MaxOutput)
	for i, v := range values {
		s, ok := v.toLString()
		if !ok {
			return "", typeError("strjoin", i+2, "string", v)
		}
		if err := b.appendString(s); err != nil {
			return "", err
		}
		if i < len(values)-1 {
			if err := b.appendString(sep); err != nil {
				return "", err
			}
		}
	}
	return b.result(), nil
}

// Concat joins the string forms of values with nothing in between
func (l *Library) Concat(values ...Value) (string, error) {
	return l.concat("strconcat", 1, values)
}

func (l *Library) concat(fn string, firstArg int, values []Value) (string, error) {
	b := newOutputBuffer(fn, 0, l.MaxOutput)
	for i, v := range values {
		s, ok := v.toLString()
		if !ok {
			return "", typeError(fn, firstArg+i, "string", v)
		}
		if err := b.appendString(s); err != nil {
			return "", err
		}
	}
	return b.result(), nil
}

// Replace substitutes every non-overlapping occurrence of search, scanning
// left to right, and reports how many were found. An empty search matches
// nothing.
func (l *Library) Replace(subject, search, replacement string) (string, int, error) {
	if search == "" {
		return subject, 0, nil
	}
	count := strings.Count(subject, search)
	if count == 0 {
		return subject, 0, nil
	}

	b := newOutputBuffer("strreplace", 0, l.MaxOutput)
	if err := b.reserve(len(subject) + count*(len(replacement)-len(search))); err != nil {
		return "", 0, err
	}
	rest := subject
	for {
		i := strings.Index(rest, search)
		if i < 0 {
			break
		}
		if err := b.appendString(rest[:i]); err != nil {
			return "", 0, err
		}
		if err := b.appendString(replacement); err != nil {
			return "", 0, err
		}
		rest = rest[i+len(search):]
	}
	if err := b.appendString(rest); err != nil {
		return "", 0, err
	}
	return b.result(), count, nil
}

// Join, Concat and Replace on the unlimited default library

func Join(sep string, values ...Value) (string, error) {
	return defaultLibrary.Join(sep, values...)
}

func Concat(values ...Value) (string, error) {
	return defaultLibrary.Concat(values...)
}

func Replace(subject, search, replacement string) (string, int, error) {
	return defaultLibrary.Replace(subject, search, replacement)
}
