package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		input    string
		expected []argToken
		desc     string
	}{
		{`a b  c`, []argToken{{"a", false}, {"b", false}, {"c", false}}, "Plain words"},
		{`"%s has %d" bag 3`, []argToken{{"%s has %d", true}, {"bag", false}, {"3", false}}, "Double quoted"},
		{`'single quoted' x`, []argToken{{"single quoted", true}, {"x", false}}, "Single quoted"},
		{`trim '' x`, []argToken{{"trim", false}, {"", true}, {"x", false}}, "Empty quoted string"},
		{`"say \"hi\""`, []argToken{{`say \"hi\"`, true}}, "Escaped quote inside quotes"},
		{`a\ b`, []argToken{{`a\ b`, false}}, "Escaped space"},
		{`"it's"`, []argToken{{"it's", true}}, "Other quote inside quotes"},
		{"a\tb", []argToken{{"a", false}, {"b", false}}, "Tab separated"},
	}

	for _, test := range tests {
		t.Run(test.desc, func(t *testing.T) {
			got, err := splitArgs(test.input)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(test.expected, got); diff != "" {
				t.Errorf("splitArgs(%q) mismatch (-want +got):\n%s", test.input, diff)
			}
		})
	}
}

func TestSplitArgsUnterminatedQuote(t *testing.T) {
	if _, err := splitArgs(`format "abc`); err == nil {
		t.Error("Expected an error for an unterminated quote")
	}
}

func TestParseCommand(t *testing.T) {
	cmd, err := ParseCommand(`  FORMAT "%s!" hi  `)
	if err != nil {
		t.Fatalf("ParseCommand failed: %v", err)
	}
	if cmd.Verb != "format" {
		t.Errorf("Expected verb 'format', got %q", cmd.Verb)
	}
	if len(cmd.Args) != 2 || cmd.Args[0].Str() != "%s!" {
		t.Errorf("Unexpected args: %v", cmd.Args)
	}

	if _, err := ParseCommand("   "); err == nil {
		t.Error("Expected an error for an empty command")
	}
}

func TestArgTokenValue(t *testing.T) {
	tests := []struct {
		token    argToken
		expected Value
	}{
		{argToken{"nil", false}, Nil},
		{argToken{"true", false}, Bool(true)},
		{argToken{"false", false}, Bool(false)},
		{argToken{"42", false}, Int(42)},
		{argToken{"-7", false}, Int(-7)},
		{argToken{"0x10", false}, Int(16)},
		{argToken{"2.5", false}, Num(2.5)},
		{argToken{"1e3", false}, Num(1000)},
		{argToken{"abc", false}, Str("abc")},
		{argToken{"42", true}, Str("42")},
		{argToken{"nil", true}, Str("nil")},
		{argToken{`a\tb`, true}, Str("a\tb")},
	}

	for _, test := range tests {
		t.Run(test.token.Text, func(t *testing.T) {
			if got := test.token.Value(); got != test.expected {
				t.Errorf("Expected %#v, got %#v", test.expected, got)
			}
		})
	}
}

func TestSuggest(t *testing.T) {
	got := suggest("fromat", replVerbs)
	if len(got) == 0 || got[0] != "format" {
		t.Errorf("Expected 'format' as the first suggestion, got %v", got)
	}

	got = suggest("lst", replVerbs)
	if len(got) == 0 || got[0] != "list" {
		t.Errorf("Expected 'list' as the first suggestion, got %v", got)
	}

	if got := suggest("zzzzzzzz", replVerbs); len(got) != 0 {
		t.Errorf("Expected no suggestions, got %v", got)
	}

	if got := suggest("format", replVerbs); len(got) > 3 {
		t.Errorf("Expected at most three suggestions, got %v", got)
	}
}

// ============================================================================
// Command Execution Tests
// ============================================================================

// runREPLLine executes one line against a fresh local core and returns the output
func runREPLLine(t *testing.T, cmds StringHostCommands, line string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	session := &REPLSession{
		cmds:      cmds,
		formatter: NewREPLFormatter(&buf, false),
	}
	err := session.ExecuteLine(line)
	return buf.String(), err
}

func TestREPLCommands(t *testing.T) {
	tests := []struct {
		line     string
		expected string
	}{
		{`format "%s has %d items" bag 3`, "bag has 3 items\n"},
		{`format "%2$s %1$s" world hello`, "hello world\n"},
		{`format "%5.1f|" 3.14159`, "  3.1|\n"},
		{`format "tab\there"`, "tab\there\n"},
		{`trim "  x  "`, "\"x\"\n"},
		{`trim "--x--" -`, "\"x\"\n"},
		{`join , a 1 2.5`, "a,1,2.5\n"},
		{`replace a.b.c . /`, "a/b/c\nℹ 2 replacement(s)\n"},
		{`set LEVEL 60`, "✓ LEVEL = 60\n"},
		{`set NAME "Thrall"`, "✓ NAME = \"Thrall\"\n"},
		{`get MISSING`, "MISSING = nil (nil)\n"},
		{`stack`, "stack traceback:\n"},
		{`call setglobal X 1`, "ℹ (no results)\n"},
	}

	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			got, err := runREPLLine(t, NewStringHostCore(0), test.line)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != test.expected {
				t.Errorf("Line: %s", test.line)
				t.Errorf("Expected: %q", test.expected)
				t.Errorf("Got: %q", got)
			}
		})
	}
}

func TestREPLSetThenGet(t *testing.T) {
	core := NewStringHostCore(0)

	if _, err := runREPLLine(t, core, `set LEVEL 60`); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, _ := runREPLLine(t, core, `get LEVEL`)
	if got != "LEVEL = 60 (number)\n" {
		t.Errorf("Expected 'LEVEL = 60 (number)', got %q", got)
	}

	if _, err := runREPLLine(t, core, `set LEVEL nil`); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	got, _ = runREPLLine(t, core, `get LEVEL`)
	if got != "LEVEL = nil (nil)\n" {
		t.Errorf("Expected nil after removal, got %q", got)
	}
}

func TestREPLTables(t *testing.T) {
	core := NewStringHostCore(0)

	got, _ := runREPLLine(t, core, `split , "a,b,c"`)
	for _, want := range []string{`"a"`, `"b"`, `"c"`} {
		if !strings.Contains(got, want) {
			t.Errorf("Expected split table to contain %s, got:\n%s", want, got)
		}
	}

	got, _ = runREPLLine(t, core, `call strsplit , "x,y"`)
	if !strings.Contains(got, `"x"`) || !strings.Contains(got, `"y"`) || !strings.Contains(got, "string") {
		t.Errorf("Expected call results table, got:\n%s", got)
	}

	got, _ = runREPLLine(t, core, `list functions strtrim`)
	if !strings.Contains(got, "strtrim") || strings.Contains(got, "math.floor") {
		t.Errorf("Expected filtered function list, got:\n%s", got)
	}

	runREPLLine(t, core, `set REALM Azeroth`)
	got, _ = runREPLLine(t, core, `list globals REALM`)
	if !strings.Contains(got, "Azeroth") || !strings.Contains(got, "1 global(s)") {
		t.Errorf("Expected REALM in globals list, got:\n%s", got)
	}
}

func TestREPLErrors(t *testing.T) {
	core := NewStringHostCore(0)

	got, _ := runREPLLine(t, core, `format %d abc`)
	if !strings.HasPrefix(got, "✗ Error: bad argument #2 to 'format'") {
		t.Errorf("Expected a format error, got %q", got)
	}

	got, _ = runREPLLine(t, core, `call strtirm x`)
	if !strings.Contains(got, "attempt to call") || !strings.Contains(got, "Did you mean") || !strings.Contains(got, "strtrim") {
		t.Errorf("Expected an error with suggestions, got %q", got)
	}

	got, _ = runREPLLine(t, core, `fromat x`)
	if !strings.Contains(got, "Unknown command: fromat") || !strings.Contains(got, "Did you mean: format") {
		t.Errorf("Expected an unknown command error with suggestion, got %q", got)
	}

	got, _ = runREPLLine(t, core, `split ,`)
	if !strings.Contains(got, "split requires separators and text") {
		t.Errorf("Expected a usage error, got %q", got)
	}

	got, _ = runREPLLine(t, core, `format "unterminated`)
	if !strings.Contains(got, "unterminated quote") {
		t.Errorf("Expected a parse error, got %q", got)
	}

	got, _ = runREPLLine(t, core, `list nothing`)
	if !strings.Contains(got, "list requires 'functions' or 'globals'") {
		t.Errorf("Expected a list usage error, got %q", got)
	}
}

func TestREPLHelpAndQuit(t *testing.T) {
	core := NewStringHostCore(0)

	got, _ := runREPLLine(t, core, `help`)
	if !strings.Contains(got, "Available commands") {
		t.Errorf("Expected main help, got %q", got)
	}

	got, _ = runREPLLine(t, core, `help format`)
	if !strings.Contains(got, "%N$") {
		t.Errorf("Expected format help, got %q", got)
	}

	got, _ = runREPLLine(t, core, `help nothing`)
	if !strings.Contains(got, "No help available for 'nothing'") {
		t.Errorf("Expected missing help message, got %q", got)
	}

	for _, verb := range []string{"quit", "exit", "QUIT"} {
		if _, err := runREPLLine(t, core, verb); !errors.Is(err, errExit) {
			t.Errorf("Expected %s to return errExit, got %v", verb, err)
		}
	}

	if got, err := runREPLLine(t, core, "   "); err != nil || got != "" {
		t.Errorf("Expected a blank line to do nothing, got %q (%v)", got, err)
	}
}

func TestShortenString(t *testing.T) {
	if got := shortenString("short", 10); got != "short" {
		t.Errorf("Expected unchanged string, got %q", got)
	}
	if got := shortenString("0123456789abc", 10); got != "0123456..." {
		t.Errorf("Expected truncated string, got %q", got)
	}
}
