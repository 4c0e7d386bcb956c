package main

import "math"

// Table is the host's associative array. Iteration follows insertion order.
type Table struct {
	index     map[Value]int
	keys      []Value
	vals      []Value
	metatable *Table
}

// NewTable creates an empty table
func NewTable() *Table {
	return &Table{index: make(map[Value]int)}
}

// NewSequence creates a table holding values at keys 1..n
func NewSequence(values ...Value) *Table {
	t := NewTable()
	for i, v := range values {
		t.Set(Int(int64(i+1)), v)
	}
	return t
}

// normalizeKey maps integral doubles to integer keys so 1 and 1.0 address the same slot
func normalizeKey(k Value) Value {
	if k.Tag == NumTag {
		f := k.Data.(float64)
		if f == math.Trunc(f) && !math.IsInf(f, 0) {
			if i, ok := floatToInteger(f); ok {
				return Int(i)
			}
		}
	}
	return k
}

// validKey reports whether k can index a table
func validKey(k Value) bool {
	switch k.Tag {
	case NilTag:
		return false
	case NumTag:
		return !math.IsNaN(k.Data.(float64))
	}
	return true
}

// Get returns the value stored under k, or Nil
func (t *Table) Get(k Value) Value {
	if i, ok := t.index[normalizeKey(k)]; ok {
		return t.vals[i]
	}
	return Nil
}

// GetString is Get with a string key
func (t *Table) GetString(k string) Value {
	return t.Get(Str(k))
}

// Set stores v under k. Storing Nil removes the entry. Nil and NaN are not
// valid keys and are ignored.
func (t *Table) Set(k, v Value) {
	if !validKey(k) {
		return
	}
	k = normalizeKey(k)
	i, ok := t.index[k]
	if v.IsNil() {
		if ok {
			t.remove(i)
		}
		return
	}
	if ok {
		t.vals[i] = v
		return
	}
	t.index[k] = len(t.keys)
	t.keys = append(t.keys, k)
	t.vals = append(t.vals, v)
}

// SetString is Set with a string key
func (t *Table) SetString(k string, v Value) {
	t.Set(Str(k), v)
}

func (t *Table) remove(i int) {
	delete(t.index, t.keys[i])
	t.keys = append(t.keys[:i], t.keys[i+1:]...)
	t.vals = append(t.vals[:i], t.vals[i+1:]...)
	for j := i; j < len(t.keys); j++ {
		t.index[t.keys[j]] = j
	}
}

// Len returns the border of the array part: the largest n with 1..n all present
func (t *Table) Len() int {
	n := 0
	for {
		if _, ok := t.index[Int(int64(n+1))]; !ok {
			return n
		}
		n++
	}
}

// Count returns the number of entries
func (t *Table) Count() int {
	return len(t.keys)
}

// Keys returns a copy of the keys in iteration order
func (t *Table) Keys() []Value {
	return append([]Value{}, t.keys...)
}

// Next returns the entry after k in iteration order. Passing Nil starts the
// traversal; ok is false when there are no more entries.
func (t *Table) Next(k Value) (key, val Value, ok bool) {
	pos := 0
	if !k.IsNil() {
		i, found := t.index[normalizeKey(k)]
		if !found {
			return Nil, Nil, false
		}
		pos = i + 1
	}
	if pos >= len(t.keys) {
		return Nil, Nil, false
	}
	return t.keys[pos], t.vals[pos], true
}

// Wipe removes every entry, keeping the metatable
func (t *Table) Wipe() {
	t.index = make(map[Value]int)
	t.keys = nil
	t.vals = nil
}

// Insert places v at position pos (1-based), shifting later elements up
func (t *Table) Insert(pos int, v Value) {
	n := t.Len()
	for i := n; i >= pos; i-- {
		t.Set(Int(int64(i+1)), t.Get(Int(int64(i))))
	}
	t.Set(Int(int64(pos)), v)
}

// RemoveAt removes and returns the element at pos, shifting later elements down
func (t *Table) RemoveAt(pos int) Value {
	n := t.Len()
	if n == 0 || pos < 1 || pos > n {
		return Nil
	}
	v := t.Get(Int(int64(pos)))
	for i := pos; i < n; i++ {
		t.Set(Int(int64(i)), t.Get(Int(int64(i+1))))
	}
	t.Set(Int(int64(n)), Nil)
	return v
}

// SetMetatable attaches mt (or detaches it when nil)
func (t *Table) SetMetatable(mt *Table) {
	t.metatable = mt
}

// Metatable returns the attached metatable, if any
func (t *Table) Metatable() *Table {
	return t.metatable
}

// metaToString runs a __tostring metamethod when one is set
func (t *Table) metaToString(h *Host) (string, bool) {
	if t.metatable == nil {
		return "", false
	}
	fn := t.metatable.GetString("__tostring")
	if fn.Tag != FuncTag {
		return "", false
	}
	if h == nil {
		h = fn.Data.(*Native).host
	}
	if h == nil {
		return "", false
	}
	res, err := h.CallValue(fn, TableVal(t))
	if err != nil || len(res) == 0 {
		return "", false
	}
	s, ok := res[0].toLString()
	return s, ok
}
