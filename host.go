package main

import (
	"fmt"
	"log"
	"math/rand"
	"sort"
	"strings"
	"time"
)

// Traceback truncation: first levelsTop frames, an ellipsis, then the last levelsBottom frames
const (
	levelsTop    = 12
	levelsBottom = 10
)

// Frame is one entry of the host call stack. Natives have an empty Source.
type Frame struct {
	Name   string
	Source string
	Line   int
}

// Host is the scripting environment the string library is registered into:
// a globals table, a call stack and the library limits. A Host is not safe
// for concurrent use.
type Host struct {
	globals *Table
	frames  []Frame
	lib     *Library
	rng     *rand.Rand
	now     func() time.Time
}

// NewHost creates a host with the wow library, the helper libraries and the
// global aliases installed
func NewHost(lib *Library) *Host {
	if lib == nil {
		lib = &Library{}
	}
	h := &Host{
		globals: NewTable(),
		lib:     lib,
		rng:     rand.New(rand.NewSource(1)),
		now:     time.Now,
	}
	h.openLibs()
	if err := h.applyAliases(aliases); err != nil {
		log.Printf("host: %v", err)
	}
	return h
}

// Library returns the limits the host's natives run with
func (h *Host) Library() *Library {
	return h.lib
}

// ============================================================================
// Globals
// ============================================================================

// GetGlobal reads a global by its exact name
func (h *Host) GetGlobal(name string) Value {
	return h.globals.GetString(name)
}

// SetGlobal writes a global by its exact name; Nil removes it
func (h *Host) SetGlobal(name string, v Value) {
	h.globals.SetString(name, v)
}

// Lookup resolves a dotted path such as "string.format" through nested tables
func (h *Host) Lookup(path string) Value {
	cur := TableVal(h.globals)
	for _, part := range strings.Split(path, ".") {
		if cur.Tag != TableTag {
			return Nil
		}
		cur = cur.Data.(*Table).GetString(part)
	}
	return cur
}

// assign stores v at a dotted path, creating intermediate tables
func (h *Host) assign(path string, v Value) {
	parts := strings.Split(path, ".")
	t := h.globals
	for _, part := range parts[:len(parts)-1] {
		next := t.GetString(part)
		if next.Tag != TableTag {
			next = TableVal(NewTable())
			t.SetString(part, next)
		}
		t = next.Data.(*Table)
	}
	t.SetString(parts[len(parts)-1], v)
}

// GlobalNames returns the global names in sorted order
func (h *Host) GlobalNames() []string {
	var names []string
	for _, k := range h.globals.Keys() {
		if k.Tag == StrTag {
			names = append(names, k.Data.(string))
		}
	}
	sort.Strings(names)
	return names
}

// FunctionNames lists every callable path: plain globals and members of
// global tables, sorted
func (h *Host) FunctionNames() []string {
	var names []string
	for _, name := range h.GlobalNames() {
		v := h.GetGlobal(name)
		switch v.Tag {
		case FuncTag:
			names = append(names, name)
		case TableTag:
			for _, k := range v.Data.(*Table).Keys() {
				if k.Tag == StrTag && v.Data.(*Table).Get(k).Tag == FuncTag {
					names = append(names, name+"."+k.Data.(string))
				}
			}
		}
	}
	sort.Strings(names)
	return names
}

// ============================================================================
// Calls
// ============================================================================

// Register installs a native under a dotted path
func (h *Host) Register(path string, fn NativeFunc) {
	name := path[strings.LastIndexByte(path, '.')+1:]
	h.assign(path, Value{Tag: FuncTag, Data: &Native{Name: name, Fn: fn, host: h}})
}

// Call invokes the function found at a dotted path
func (h *Host) Call(path string, args ...Value) ([]Value, error) {
	fn := h.Lookup(path)
	if fn.Tag != FuncTag {
		return nil, fmt.Errorf("attempt to call '%s' (a %s value)", path, fn.TypeName())
	}
	return h.CallValue(fn, args...)
}

// CallValue invokes a function value with a frame pushed for its duration
func (h *Host) CallValue(fn Value, args ...Value) ([]Value, error) {
	if fn.Tag != FuncTag {
		return nil, fmt.Errorf("attempt to call a %s value", fn.TypeName())
	}
	native := fn.Data.(*Native)
	h.PushFrame(Frame{Name: native.Name})
	defer h.PopFrame()
	return native.Fn(h, args)
}

// PushFrame records a call on the host stack
func (h *Host) PushFrame(f Frame) {
	h.frames = append(h.frames, f)
}

// PopFrame drops the innermost call
func (h *Host) PopFrame() {
	if len(h.frames) > 0 {
		h.frames = h.frames[:len(h.frames)-1]
	}
}

// DebugStack formats the call stack innermost first, starting at level start
// (level 1 is the innermost frame)
func (h *Host) DebugStack(start int) string {
	if start < 1 {
		start = 1
	}
	var b strings.Builder
	b.WriteString("\nstack traceback:")

	var levels []Frame
	for i := len(h.frames) - start; i >= 0; i-- {
		levels = append(levels, h.frames[i])
	}
	for i, f := range levels {
		if len(levels) > levelsTop+levelsBottom && i == levelsTop {
			b.WriteString("\n\t...")
		}
		if len(levels) > levelsTop+levelsBottom && i >= levelsTop && i < len(levels)-levelsBottom {
			continue
		}
		if f.Source == "" {
			fmt.Fprintf(&b, "\n\t[C]: in function '%s'", f.Name)
		} else {
			fmt.Fprintf(&b, "\n\t%s:%d: in function '%s'", f.Source, f.Line, f.Name)
		}
	}
	return b.String()
}

// ============================================================================
// Host-boundary utilities
// ============================================================================

// Scrub replaces values that cannot be serialized (tables, functions,
// userdata) with Nil
func Scrub(values []Value) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		if v.isSerializable() {
			out[i] = v
		} else {
			out[i] = Nil
		}
	}
	return out
}

// ToStringAll converts every value to its tostring form
func (h *Host) ToStringAll(values []Value) []Value {
	out := make([]Value, len(values))
	for i, v := range values {
		out[i] = Str(v.ToString(h))
	}
	return out
}
