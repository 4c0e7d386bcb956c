package main

import (
	"encoding/json"
	"fmt"
)

// SocketClientCommands wraps a SocketClient to implement the StringHostCommands interface.
// This allows the REPL and CLI to use the same interface whether connected to a
// socket server or using StringHostCore directly.
type SocketClientCommands struct {
	client *SocketClient
}

// NewSocketClientCommands creates a new socket client wrapper
func NewSocketClientCommands(client *SocketClient) *SocketClientCommands {
	return &SocketClientCommands{client: client}
}

// RemoteError is a library or host error reported by the server
type RemoteError struct {
	Kind    ErrorKind
	Message string
}

func (e *RemoteError) Error() string {
	return e.Message
}

// Unwrap lets errors.Is match the sentinel for the reported kind
func (e *RemoteError) Unwrap() error {
	return e.Kind.sentinel()
}

// call sends one action and decodes its result into out (when non-nil)
func (s *SocketClientCommands) call(action string, params map[string]interface{}, out interface{}) error {
	cmdJSON, err := json.Marshal(Command{Action: action, Params: params})
	if err != nil {
		return fmt.Errorf("%s: encoding request: %w", action, err)
	}

	resp, err := s.client.Execute(string(cmdJSON))
	if err != nil {
		return fmt.Errorf("socket error: %w", err)
	}

	if !resp.Success {
		if resp.Kind != "" {
			return &RemoteError{Kind: parseErrorKind(resp.Kind), Message: resp.Error}
		}
		if resp.Error != "" {
			return fmt.Errorf("%s error: %s", action, resp.Error)
		}
		return fmt.Errorf("%s failed with unknown error", action)
	}

	if out == nil {
		return nil
	}

	// Convert interface{} back to the typed result
	resultJSON, err := json.Marshal(resp.Result)
	if err != nil {
		return fmt.Errorf("%s: re-encoding result: %w", action, err)
	}
	if err := json.Unmarshal(resultJSON, out); err != nil {
		return fmt.Errorf("%s: decoding result: %w", action, err)
	}
	return nil
}

// ============================================================================
// Formatting and string utilities
// ============================================================================

// Format implements StringHostCommands.Format
func (s *SocketClientCommands) Format(template string, args []Value) (string, error) {
	var result struct {
		Output string `json:"output"`
	}
	err := s.call("format", map[string]interface{}{
		"template": template,
		"args":     nonNilValues(args),
	}, &result)
	return result.Output, err
}

// Trim implements StringHostCommands.Trim
func (s *SocketClientCommands) Trim(text, cutset string) (string, error) {
	var result struct {
		Output string `json:"output"`
	}
	err := s.call("trim", map[string]interface{}{
		"text":   text,
		"cutset": cutset,
	}, &result)
	return result.Output, err
}

// Split implements StringHostCommands.Split
func (s *SocketClientCommands) Split(sep, text string, limit int) ([]string, error) {
	var result struct {
		Parts []string `json:"parts"`
	}
	err := s.call("split", map[string]interface{}{
		"separators": sep,
		"text":       text,
		"limit":      limit,
	}, &result)
	return result.Parts, err
}

// Join implements StringHostCommands.Join
func (s *SocketClientCommands) Join(sep string, values []Value) (string, error) {
	var result struct {
		Output string `json:"output"`
	}
	err := s.call("join", map[string]interface{}{
		"separator": sep,
		"args":      nonNilValues(values),
	}, &result)
	return result.Output, err
}

// Replace implements StringHostCommands.Replace
func (s *SocketClientCommands) Replace(subject, search, replacement string) (string, int, error) {
	var result struct {
		Output string `json:"output"`
		Count  int    `json:"count"`
	}
	err := s.call("replace", map[string]interface{}{
		"subject":     subject,
		"search":      search,
		"replacement": replacement,
	}, &result)
	return result.Output, result.Count, err
}

// ============================================================================
// Host Methods
// ============================================================================

// Call implements StringHostCommands.Call
func (s *SocketClientCommands) Call(function string, args []Value) ([]Value, error) {
	var result struct {
		Results []Value `json:"results"`
	}
	err := s.call("call", map[string]interface{}{
		"function": function,
		"args":     nonNilValues(args),
	}, &result)
	return result.Results, err
}

// GetGlobal implements StringHostCommands.GetGlobal
func (s *SocketClientCommands) GetGlobal(name string) (Value, error) {
	var result struct {
		Value Value `json:"value"`
	}
	err := s.call("get_global", map[string]interface{}{
		"name": name,
	}, &result)
	return result.Value, err
}

// SetGlobal implements StringHostCommands.SetGlobal
func (s *SocketClientCommands) SetGlobal(name string, value Value) error {
	return s.call("set_global", map[string]interface{}{
		"name":  name,
		"value": value,
	}, nil)
}

// ListFunctions implements StringHostCommands.ListFunctions
func (s *SocketClientCommands) ListFunctions() ([]string, error) {
	var result struct {
		Functions []string `json:"functions"`
	}
	err := s.call("list_functions", map[string]interface{}{}, &result)
	return result.Functions, err
}

// ListGlobals implements StringHostCommands.ListGlobals
func (s *SocketClientCommands) ListGlobals() ([]GlobalInfo, error) {
	var result struct {
		Globals []GlobalInfo `json:"globals"`
	}
	err := s.call("list_globals", map[string]interface{}{}, &result)
	return result.Globals, err
}

// DebugStack implements StringHostCommands.DebugStack
func (s *SocketClientCommands) DebugStack(start int) (string, error) {
	var result struct {
		Traceback string `json:"traceback"`
	}
	err := s.call("debug_stack", map[string]interface{}{
		"start": start,
	}, &result)
	return result.Traceback, err
}

// nonNilValues keeps an empty argument list encoding as [] rather than null
func nonNilValues(values []Value) []Value {
	if values == nil {
		return []Value{}
	}
	return values
}
