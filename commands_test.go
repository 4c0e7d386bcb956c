package main

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// execute runs a command through the core and decodes the response
func execute(t *testing.T, core *StringHostCore, cmdJSON string) map[string]interface{} {
	t.Helper()
	var resp map[string]interface{}
	if err := json.Unmarshal([]byte(core.ExecuteCommand(cmdJSON)), &resp); err != nil {
		t.Fatalf("Response is not valid JSON: %v", err)
	}
	return resp
}

// result extracts the result object of a successful response
func result(t *testing.T, resp map[string]interface{}) map[string]interface{} {
	t.Helper()
	if success, ok := resp["success"].(bool); !ok || !success {
		t.Fatalf("Expected successful response, got: %v", resp)
	}
	res, ok := resp["result"].(map[string]interface{})
	if !ok {
		t.Fatalf("Expected a result object, got: %v", resp)
	}
	return res
}

// ============================================================================
// Formatting Command Tests
// ============================================================================

func TestCommandFormat(t *testing.T) {
	core := NewStringHostCore(0)

	res := result(t, execute(t, core, `{"action":"format","params":{"template":"%2$s has %1$d","args":[3,"bag"]}}`))
	if res["output"] != "bag has 3" {
		t.Errorf("Expected 'bag has 3', got %v", res["output"])
	}
}

func TestCommandFormatKeepsIntegers(t *testing.T) {
	core := NewStringHostCore(0)

	res := result(t, execute(t, core, `{"action":"format","params":{"template":"%d","args":[9007199254740993]}}`))
	if res["output"] != "9007199254740993" {
		t.Errorf("Expected exact integer, got %v", res["output"])
	}
}

func TestCommandFormatError(t *testing.T) {
	core := NewStringHostCore(0)

	resp := execute(t, core, `{"action":"format","params":{"template":"%d","args":[]}}`)
	if success, _ := resp["success"].(bool); success {
		t.Fatalf("Expected failure, got %v", resp)
	}
	if resp["kind"] != "ArgumentOutOfRange" {
		t.Errorf("Expected kind ArgumentOutOfRange, got %v", resp["kind"])
	}
	if resp["error"] != "bad argument #2 to 'format' (no value)" {
		t.Errorf("Unexpected error message: %v", resp["error"])
	}
}

func TestCommandTrimSplitJoinReplace(t *testing.T) {
	core := NewStringHostCore(0)

	res := result(t, execute(t, core, `{"action":"trim","params":{"text":"  x  "}}`))
	if res["output"] != "x" {
		t.Errorf("trim: expected 'x', got %v", res["output"])
	}

	res = result(t, execute(t, core, `{"action":"trim","params":{"text":"--x--","cutset":"-"}}`))
	if res["output"] != "x" {
		t.Errorf("trim with cutset: expected 'x', got %v", res["output"])
	}

	res = result(t, execute(t, core, `{"action":"split","params":{"separators":",","text":"a,b,c","limit":2}}`))
	if diff := cmp.Diff([]interface{}{"a", "b,c"}, res["parts"]); diff != "" {
		t.Errorf("split mismatch (-want +got):\n%s", diff)
	}

	res = result(t, execute(t, core, `{"action":"join","params":{"separator":"-","args":["a",1,2.5]}}`))
	if res["output"] != "a-1-2.5" {
		t.Errorf("join: expected 'a-1-2.5', got %v", res["output"])
	}

	res = result(t, execute(t, core, `{"action":"replace","params":{"subject":"a.b.c","search":".","replacement":"/"}}`))
	if res["output"] != "a/b/c" || res["count"] != float64(2) {
		t.Errorf("replace: expected ('a/b/c', 2), got (%v, %v)", res["output"], res["count"])
	}
}

// ============================================================================
// Host Command Tests
// ============================================================================

func TestCommandCall(t *testing.T) {
	core := NewStringHostCore(0)

	res := result(t, execute(t, core, `{"action":"call","params":{"function":"strsplit","args":[",","x,y"]}}`))
	if diff := cmp.Diff([]interface{}{"x", "y"}, res["results"]); diff != "" {
		t.Errorf("call mismatch (-want +got):\n%s", diff)
	}

	res = result(t, execute(t, core, `{"action":"call","params":{"function":"setglobal","args":["X",1]}}`))
	if diff := cmp.Diff([]interface{}{}, res["results"]); diff != "" {
		t.Errorf("Expected empty results (-want +got):\n%s", diff)
	}

	resp := execute(t, core, `{"action":"call","params":{"function":"nosuch"}}`)
	if success, _ := resp["success"].(bool); success {
		t.Errorf("Expected calling an undefined function to fail, got %v", resp)
	}
}

func TestCommandGlobals(t *testing.T) {
	core := NewStringHostCore(0)

	result(t, execute(t, core, `{"action":"set_global","params":{"name":"REALM","value":"Azeroth"}}`))

	res := result(t, execute(t, core, `{"action":"get_global","params":{"name":"REALM"}}`))
	if res["value"] != "Azeroth" || res["type"] != "string" {
		t.Errorf("Expected REALM = Azeroth (string), got %v (%v)", res["value"], res["type"])
	}

	res = result(t, execute(t, core, `{"action":"list_globals","params":{}}`))
	globals, _ := res["globals"].([]interface{})
	found := false
	for _, g := range globals {
		if m, ok := g.(map[string]interface{}); ok && m["name"] == "REALM" {
			found = m["type"] == "string" && m["value"] == "Azeroth"
		}
	}
	if !found {
		t.Errorf("Expected REALM in list_globals, got %v", globals)
	}

	res = result(t, execute(t, core, `{"action":"get_global","params":{"name":"MISSING"}}`))
	if res["value"] != nil || res["type"] != "nil" {
		t.Errorf("Expected nil for missing global, got %v (%v)", res["value"], res["type"])
	}
}

func TestCommandListFunctions(t *testing.T) {
	core := NewStringHostCore(0)

	res := result(t, execute(t, core, `{"action":"list_functions","params":{}}`))
	functions, _ := res["functions"].([]interface{})
	var names []string
	for _, f := range functions {
		names = append(names, f.(string))
	}
	joined := "," + strings.Join(names, ",") + ","
	for _, want := range []string{"strtrim", "string.format", "math.floor"} {
		if !strings.Contains(joined, ","+want+",") {
			t.Errorf("Expected %s in list_functions", want)
		}
	}
}

func TestCommandDebugStack(t *testing.T) {
	core := NewStringHostCore(0)
	core.Host().PushFrame(Frame{Name: "OnUpdate", Source: "UI.lua", Line: 3})

	res := result(t, execute(t, core, `{"action":"debug_stack","params":{"start":1}}`))
	expected := "\nstack traceback:\n\tUI.lua:3: in function 'OnUpdate'"
	if res["traceback"] != expected {
		t.Errorf("Expected %q, got %v", expected, res["traceback"])
	}
}

// ============================================================================
// Dispatcher Tests
// ============================================================================

func TestCommandInvalidInput(t *testing.T) {
	core := NewStringHostCore(0)

	tests := []struct {
		cmd      string
		contains string
	}{
		{`not json`, "Invalid JSON"},
		{`{"action":"explode","params":{}}`, "Unknown action: explode"},
		{`{"action":"format","params":{}}`, "Missing required parameter: template"},
		{`{"action":"call","params":{}}`, "Missing required parameter: function"},
		{`{"action":"split","params":{"text":"a"}}`, "Missing required parameter: separators"},
		{`{"action":"get_global","params":{}}`, "Missing required parameter: name"},
		{`{"action":"split","params":{"separators":",","text":"a","limit":true}}`, "parameter limit"},
	}

	for _, test := range tests {
		t.Run(test.cmd, func(t *testing.T) {
			resp := execute(t, core, test.cmd)
			if success, _ := resp["success"].(bool); success {
				t.Fatalf("Expected failure, got %v", resp)
			}
			msg, _ := resp["error"].(string)
			if !strings.Contains(msg, test.contains) {
				t.Errorf("Expected error containing %q, got %q", test.contains, msg)
			}
		})
	}
}

func TestCommandCallRepeatOverflow(t *testing.T) {
	core := NewStringHostCore(1000)

	resp := execute(t, core, `{"action":"call","params":{"function":"strrep","args":["ab",4611686018427387904]}}`)
	if resp["kind"] != "AllocationFailure" {
		t.Errorf("Expected AllocationFailure, got %v", resp)
	}

	// The core keeps serving after the failed call
	res := result(t, execute(t, core, `{"action":"call","params":{"function":"strrep","args":["ab",2]}}`))
	if diff := cmp.Diff([]interface{}{"abab"}, res["results"]); diff != "" {
		t.Errorf("call mismatch (-want +got):\n%s", diff)
	}
}

func TestCommandOutputLimit(t *testing.T) {
	core := NewStringHostCore(4)

	resp := execute(t, core, `{"action":"format","params":{"template":"%s","args":["12345"]}}`)
	if resp["kind"] != "AllocationFailure" {
		t.Errorf("Expected AllocationFailure, got %v", resp)
	}
}
