package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Command represents a JSON command for scripts and tools
type Command struct {
	Action string                 `json:"action"`
	Params map[string]interface{} `json:"params"`
}

// Response represents a JSON response from command execution
type Response struct {
	Success bool        `json:"success"`
	Result  interface{} `json:"result,omitempty"`
	Error   string      `json:"error,omitempty"`
	Kind    string      `json:"kind,omitempty"`
}

// ExecuteCommand executes a JSON command and returns a JSON response
func (c *StringHostCore) ExecuteCommand(cmdJSON string) string {
	var cmd Command
	dec := json.NewDecoder(bytes.NewReader([]byte(cmdJSON)))
	dec.UseNumber()
	if err := dec.Decode(&cmd); err != nil {
		return errorResponse("Invalid JSON: " + err.Error())
	}

	switch cmd.Action {
	case "format":
		return c.cmdFormat(cmd.Params)
	case "call":
		return c.cmdCall(cmd.Params)
	case "trim":
		return c.cmdTrim(cmd.Params)
	case "split":
		return c.cmdSplit(cmd.Params)
	case "join":
		return c.cmdJoin(cmd.Params)
	case "replace":
		return c.cmdReplace(cmd.Params)
	case "get_global":
		return c.cmdGetGlobal(cmd.Params)
	case "set_global":
		return c.cmdSetGlobal(cmd.Params)
	case "list_functions":
		return c.cmdListFunctions(cmd.Params)
	case "list_globals":
		return c.cmdListGlobals(cmd.Params)
	case "debug_stack":
		return c.cmdDebugStack(cmd.Params)
	default:
		return errorResponse("Unknown action: " + cmd.Action)
	}
}

// ============================================================================
// Command Handlers
// ============================================================================

// cmdFormat renders a template
func (c *StringHostCore) cmdFormat(params map[string]interface{}) string {
	template, ok := params["template"].(string)
	if !ok {
		return errorResponse("Missing required parameter: template")
	}

	output, err := c.Format(template, valuesFromJSON(params["args"]))
	if err != nil {
		return failureResponse(err)
	}
	return successResponse(map[string]interface{}{
		"output": output,
	})
}

// cmdCall invokes a host function
func (c *StringHostCore) cmdCall(params map[string]interface{}) string {
	function := getStr(params, "function", "")
	if function == "" {
		return errorResponse("Missing required parameter: function")
	}

	results, err := c.Call(function, valuesFromJSON(params["args"]))
	if err != nil {
		return failureResponse(err)
	}
	if results == nil {
		results = []Value{}
	}
	return successResponse(map[string]interface{}{
		"results": results,
	})
}

// cmdTrim strips a cutset from both ends of text
func (c *StringHostCore) cmdTrim(params map[string]interface{}) string {
	output, err := c.Trim(getStr(params, "text", ""), getStr(params, "cutset", ""))
	if err != nil {
		return failureResponse(err)
	}
	return successResponse(map[string]interface{}{
		"output": output,
	})
}

// cmdSplit splits text on separator bytes
func (c *StringHostCore) cmdSplit(params map[string]interface{}) string {
	sep := getStr(params, "separators", "")
	if sep == "" {
		return errorResponse("Missing required parameter: separators")
	}
	limit, err := getInt(params, "limit", 0)
	if err != nil {
		return errorResponse(err.Error())
	}

	parts, err := c.Split(sep, getStr(params, "text", ""), limit)
	if err != nil {
		return failureResponse(err)
	}
	return successResponse(map[string]interface{}{
		"parts": parts,
	})
}

// cmdJoin joins values with a separator
func (c *StringHostCore) cmdJoin(params map[string]interface{}) string {
	output, err := c.Join(getStr(params, "separator", ""), valuesFromJSON(params["args"]))
	if err != nil {
		return failureResponse(err)
	}
	return successResponse(map[string]interface{}{
		"output": output,
	})
}

// cmdReplace substitutes occurrences of search
func (c *StringHostCore) cmdReplace(params map[string]interface{}) string {
	output, count, err := c.Replace(
		getStr(params, "subject", ""),
		getStr(params, "search", ""),
		getStr(params, "replacement", ""),
	)
	if err != nil {
		return failureResponse(err)
	}
	return successResponse(map[string]interface{}{
		"output": output,
		"count":  count,
	})
}

// cmdGetGlobal reads a global
func (c *StringHostCore) cmdGetGlobal(params map[string]interface{}) string {
	name := getStr(params, "name", "")
	if name == "" {
		return errorResponse("Missing required parameter: name")
	}

	value, err := c.GetGlobal(name)
	if err != nil {
		return failureResponse(err)
	}
	return successResponse(map[string]interface{}{
		"value": value,
		"type":  value.TypeName(),
	})
}

// cmdSetGlobal writes a global
func (c *StringHostCore) cmdSetGlobal(params map[string]interface{}) string {
	name := getStr(params, "name", "")
	if name == "" {
		return errorResponse("Missing required parameter: name")
	}

	if err := c.SetGlobal(name, valueFromJSON(params["value"])); err != nil {
		return failureResponse(err)
	}
	return successResponse(map[string]interface{}{
		"success": true,
	})
}

// cmdListFunctions lists callable globals
func (c *StringHostCore) cmdListFunctions(params map[string]interface{}) string {
	functions, err := c.ListFunctions()
	if err != nil {
		return failureResponse(err)
	}
	return successResponse(map[string]interface{}{
		"functions": functions,
	})
}

// cmdListGlobals describes all globals
func (c *StringHostCore) cmdListGlobals(params map[string]interface{}) string {
	globals, err := c.ListGlobals()
	if err != nil {
		return failureResponse(err)
	}
	return successResponse(map[string]interface{}{
		"globals": globals,
	})
}

// cmdDebugStack formats the host call stack
func (c *StringHostCore) cmdDebugStack(params map[string]interface{}) string {
	start, err := getInt(params, "start", 1)
	if err != nil {
		return errorResponse(err.Error())
	}

	traceback, err := c.DebugStack(start)
	if err != nil {
		return failureResponse(err)
	}
	return successResponse(map[string]interface{}{
		"traceback": traceback,
	})
}

// ============================================================================
// Helper Functions
// ============================================================================

// getStr safely extracts a string parameter, with a default value
func getStr(params map[string]interface{}, key, defaultValue string) string {
	if val, ok := params[key]; ok {
		if strVal, ok := val.(string); ok {
			return strVal
		}
	}
	return defaultValue
}

// getInt extracts an integer parameter given as a JSON number or a numeric string
func getInt(params map[string]interface{}, key string, defaultValue int) (int, error) {
	val, ok := params[key]
	if !ok || val == nil {
		return defaultValue, nil
	}
	switch v := val.(type) {
	case json.Number:
		i, err := v.Int64()
		if err != nil {
			return 0, err
		}
		return int(i), nil
	case float64:
		return int(v), nil
	case string:
		return strconv.Atoi(v)
	}
	return 0, fmt.Errorf("parameter %s must be an integer", key)
}

// successResponse creates a successful response
func successResponse(result interface{}) string {
	resp := Response{
		Success: true,
		Result:  result,
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

// errorResponse creates an error response
func errorResponse(errorMsg string) string {
	resp := Response{
		Success: false,
		Error:   errorMsg,
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

// failureResponse reports a library or host error, tagging its kind
func failureResponse(err error) string {
	resp := Response{
		Success: false,
		Error:   err.Error(),
	}
	if kind := KindOf(err); kind != 0 {
		resp.Kind = kind.String()
	}
	data, _ := json.Marshal(resp)
	return string(data)
}
