package main

// StringHostCore is the headless core: a host environment with the string
// library installed, and no terminal or socket dependencies
type StringHostCore struct {
	host *Host
	lib  *Library
}

// NewStringHostCore creates a core whose produced strings are capped at
// maxOutput bytes (0 for no cap)
func NewStringHostCore(maxOutput int) *StringHostCore {
	lib := &Library{MaxOutput: maxOutput}
	return &StringHostCore{
		host: NewHost(lib),
		lib:  lib,
	}
}

// Host exposes the underlying host environment
func (c *StringHostCore) Host() *Host {
	return c.host
}

// ============================================================================
// Formatting and string utilities
// ============================================================================

// Format renders template against args
func (c *StringHostCore) Format(template string, args []Value) (string, error) {
	return c.lib.Format(template, args...)
}

// Trim strips cutset bytes from both ends of s
func (c *StringHostCore) Trim(s, cutset string) (string, error) {
	if cutset == "" {
		cutset = DefaultTrimCutset
	}
	return Trim(s, cutset), nil
}

// Split breaks s on any byte of sep
func (c *StringHostCore) Split(sep, s string, limit int) ([]string, error) {
	return Split(sep, s, limit), nil
}

// Join renders values separated by sep
func (c *StringHostCore) Join(sep string, values []Value) (string, error) {
	return c.lib.Join(sep, values...)
}

// Replace substitutes every occurrence of search in subject
func (c *StringHostCore) Replace(subject, search, replacement string) (string, int, error) {
	return c.lib.Replace(subject, search, replacement)
}

// ============================================================================
// Host Methods
// ============================================================================

// Call invokes a host function by name
func (c *StringHostCore) Call(function string, args []Value) ([]Value, error) {
	return c.host.Call(function, args...)
}

// GetGlobal reads a global variable
func (c *StringHostCore) GetGlobal(name string) (Value, error) {
	return c.host.GetGlobal(name), nil
}

// SetGlobal writes a global variable
func (c *StringHostCore) SetGlobal(name string, value Value) error {
	c.host.SetGlobal(name, value)
	return nil
}

// ListFunctions returns every callable global path
func (c *StringHostCore) ListFunctions() ([]string, error) {
	return c.host.FunctionNames(), nil
}

// ListGlobals describes every global variable
func (c *StringHostCore) ListGlobals() ([]GlobalInfo, error) {
	names := c.host.GlobalNames()
	infos := make([]GlobalInfo, 0, len(names))
	for _, name := range names {
		v := c.host.GetGlobal(name)
		infos = append(infos, GlobalInfo{Name: name, Type: v.TypeName(), Value: v.ToString(c.host)})
	}
	return infos, nil
}

// DebugStack formats the host call stack
func (c *StringHostCore) DebugStack(start int) (string, error) {
	return c.host.DebugStack(start), nil
}
