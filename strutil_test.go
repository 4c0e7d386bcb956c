package main

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestTrim(t *testing.T) {
	tests := []struct {
		input    string
		cutset   string
		expected string
	}{
		{"  hello  ", DefaultTrimCutset, "hello"},
		{"\t\n hello world \r\n", DefaultTrimCutset, "hello world"},
		{"xxhixx", "x", "hi"},
		{"abcHELLOcba", "abc", "HELLO"},
		{"   ", DefaultTrimCutset, ""},
		{"", DefaultTrimCutset, ""},
		{"  keep  ", "", "  keep  "},
		{"inner  space", " ", "inner  space"},
	}

	for _, test := range tests {
		t.Run(test.input, func(t *testing.T) {
			result := Trim(test.input, test.cutset)
			if result != test.expected {
				t.Errorf("Trim(%q, %q): expected %q, got %q", test.input, test.cutset, test.expected, result)
			}
		})
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		desc     string
		sep      string
		input    string
		limit    int
		expected []string
	}{
		{"single separator", ",", "a,b,c", 0, []string{"a", "b", "c"}},
		{"any byte separates", ", ", "a, b,c", 0, []string{"a", "", "b", "c"}},
		{"empty fields kept", ",", ",a,,b,", 0, []string{"", "a", "", "b", ""}},
		{"no separator found", ",", "abc", 0, []string{"abc"}},
		{"empty input", ",", "", 0, []string{""}},
		{"limit keeps remainder", ",", "a,b,c,d", 2, []string{"a", "b,c,d"}},
		{"limit three", ",", "a,b,c,d", 3, []string{"a", "b", "c,d"}},
		{"limit larger than pieces", ",", "a,b", 10, []string{"a", "b"}},
		{"limit one returns whole", ",", "a,b,c", 1, []string{"a,b,c"}},
		{"negative limit returns whole", ",", "a,b,c", -1, []string{"a,b,c"}},
		{"empty separator set", "", "a,b", 0, []string{"a,b"}},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			result := Split(test.sep, test.input, test.limit)
			if diff := cmp.Diff(test.expected, result); diff != "" {
				t.Errorf("Split(%q, %q, %d) mismatch (-want +got):\n%s", test.sep, test.input, test.limit, diff)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	tests := []struct {
		desc     string
		sep      string
		values   []Value
		expected string
	}{
		{"strings", ", ", []Value{Str("a"), Str("b"), Str("c")}, "a, b, c"},
		{"numbers", "-", []Value{Int(1), Num(2.5), Int(3)}, "1-2.5-3"},
		{"single value", ",", []Value{Str("only")}, "only"},
		{"no values", ",", nil, ""},
		{"empty separator concatenates", "", []Value{Str("a"), Str("b")}, "ab"},
		{"empty strings", ",", []Value{Str(""), Str("")}, ","},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			result, err := Join(test.sep, test.values...)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != test.expected {
				t.Errorf("Expected %q, got %q", test.expected, result)
			}
		})
	}
}

func TestJoinRejectsNonStrings(t *testing.T) {
	_, err := Join(",", Str("a"), Bool(true))
	if !errors.Is(err, ErrBadArgument) {
		t.Fatalf("Expected BadArgument, got %v", err)
	}
	expected := "bad argument #3 to 'strjoin' (string expected, got boolean)"
	if err.Error() != expected {
		t.Errorf("Expected %q, got %q", expected, err.Error())
	}

	if _, err := Join(",", Nil); !errors.Is(err, ErrBadArgument) {
		t.Errorf("Expected BadArgument for a single nil, got %v", err)
	}
}

func TestConcat(t *testing.T) {
	result, err := Concat(Str("a"), Int(1), Str("b"), Num(0.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != "a1b0.5" {
		t.Errorf("Expected %q, got %q", "a1b0.5", result)
	}

	if result, _ := Concat(); result != "" {
		t.Errorf("Expected empty concat, got %q", result)
	}

	_, err = Concat(Str("a"), TableVal(NewTable()))
	var e *Error
	if !errors.As(err, &e) || e.Arg != 2 || e.Func != "strconcat" {
		t.Errorf("Expected bad argument #2 to strconcat, got %v", err)
	}
}

func TestReplace(t *testing.T) {
	tests := []struct {
		desc        string
		subject     string
		search      string
		replacement string
		expected    string
		count       int
	}{
		{"simple", "hello world", "o", "0", "hell0 w0rld", 2},
		{"longer replacement", "a-b-c", "-", "--", "a--b--c", 2},
		{"shorter replacement", "aaaa", "aa", "b", "bb", 2},
		{"non-overlapping", "aaa", "aa", "x", "xa", 1},
		{"remove", "a,b,c", ",", "", "abc", 2},
		{"not found", "abc", "z", "y", "abc", 0},
		{"empty search", "abc", "", "x", "abc", 0},
		{"whole subject", "abc", "abc", "", "", 1},
		{"empty subject", "", "a", "b", "", 0},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			result, count, err := Replace(test.subject, test.search, test.replacement)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if result != test.expected || count != test.count {
				t.Errorf("Replace(%q, %q, %q): expected (%q, %d), got (%q, %d)",
					test.subject, test.search, test.replacement, test.expected, test.count, result, count)
			}
		})
	}
}

func TestStringUtilitiesOutputLimit(t *testing.T) {
	lib := &Library{MaxOutput: 8}

	if _, err := lib.Join(",", Str("abcd"), Str("efgh")); KindOf(err) != KindAllocationFailure {
		t.Errorf("Join: expected AllocationFailure, got %v", err)
	}
	if _, err := lib.Concat(Str("abcd"), Str("efghi")); KindOf(err) != KindAllocationFailure {
		t.Errorf("Concat: expected AllocationFailure, got %v", err)
	}
	if _, _, err := lib.Replace("aaaa", "a", "xyz"); KindOf(err) != KindAllocationFailure {
		t.Errorf("Replace: expected AllocationFailure, got %v", err)
	}
	if out, _, err := lib.Replace("aaaa", "a", "xy"); err != nil || out != "xyxyxyxy" {
		t.Errorf("Replace at the limit: got %q (%v)", out, err)
	}
}
