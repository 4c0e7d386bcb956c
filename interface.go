package main

// StringHostCommands defines the operations the string host exposes.
// Both StringHostCore (direct implementation) and SocketClientCommands (socket wrapper)
// implement this interface, so the REPL and the CLI work the same way against
// an in-process core or a running server.
type StringHostCommands interface {
	// =========================================================================
	// Formatting and string utilities
	// =========================================================================

	// Format renders a template against an argument list
	Format(template string, args []Value) (string, error)

	// Trim strips cutset bytes from both ends; an empty cutset means "\t\n\r "
	Trim(s, cutset string) (string, error)

	// Split breaks s on any byte of sep, with an optional piece limit (0 = none)
	Split(sep, s string, limit int) ([]string, error)

	// Join renders values separated by sep
	Join(sep string, values []Value) (string, error)

	// Replace substitutes every occurrence of search and reports the count
	Replace(subject, search, replacement string) (string, int, error)

	// =========================================================================
	// Host - Globals, calls and introspection
	// =========================================================================

	// Call invokes a host function by its (possibly dotted) global name
	Call(function string, args []Value) ([]Value, error)

	// GetGlobal reads a global variable
	GetGlobal(name string) (Value, error)

	// SetGlobal writes a global variable; Nil removes it
	SetGlobal(name string, value Value) error

	// ListFunctions returns every callable global path, sorted
	ListFunctions() ([]string, error)

	// ListGlobals describes every global variable, sorted by name
	ListGlobals() ([]GlobalInfo, error)

	// DebugStack formats the host call stack starting at level start
	DebugStack(start int) (string, error)
}

// GlobalInfo describes one global variable
type GlobalInfo struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
}
