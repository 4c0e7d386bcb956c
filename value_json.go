package main

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
)

// MarshalJSON encodes the value in its wire form. Tables that are pure
// sequences become arrays, other tables objects keyed by tostring of the key.
// Functions, userdata and non-finite numbers travel as their tostring form.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.wire(map[*Table]bool{}))
}

func (v Value) wire(seen map[*Table]bool) interface{} {
	switch v.Tag {
	case NilTag:
		return nil
	case BoolTag:
		return v.Data.(bool)
	case IntTag:
		return v.Data.(int64)
	case NumTag:
		f := v.Data.(float64)
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return v.String()
		}
		return f
	case StrTag:
		return v.Data.(string)
	case TableTag:
		t := v.Data.(*Table)
		if seen[t] {
			return v.String()
		}
		seen[t] = true
		defer delete(seen, t)
		if n := t.Len(); n > 0 && n == t.Count() {
			arr := make([]interface{}, n)
			for i := 1; i <= n; i++ {
				arr[i-1] = t.Get(Int(int64(i))).wire(seen)
			}
			return arr
		}
		obj := make(map[string]interface{}, t.Count())
		for _, k := range t.Keys() {
			obj[k.String()] = t.Get(k).wire(seen)
		}
		return obj
	}
	return v.String()
}

// UnmarshalJSON decodes the wire form. Numbers without a fraction or exponent
// become integers; arrays become 1-based sequences.
func (v *Value) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw interface{}
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	*v = valueFromJSON(raw)
	return nil
}

// valueFromJSON converts a decoded JSON document (with json.Number numbers)
func valueFromJSON(raw interface{}) Value {
	switch x := raw.(type) {
	case nil:
		return Nil
	case bool:
		return Bool(x)
	case string:
		return Str(x)
	case json.Number:
		if !strings.ContainsAny(string(x), ".eE") {
			if i, err := x.Int64(); err == nil {
				return Int(i)
			}
		}
		f, _ := x.Float64()
		return Num(f)
	case float64:
		return Num(x)
	case []interface{}:
		t := NewTable()
		for i, item := range x {
			t.Set(Int(int64(i+1)), valueFromJSON(item))
		}
		return TableVal(t)
	case map[string]interface{}:
		t := NewTable()
		for k, item := range x {
			t.SetString(k, valueFromJSON(item))
		}
		return TableVal(t)
	}
	return Nil
}

// valuesFromJSON converts a decoded JSON array of arguments
func valuesFromJSON(raw interface{}) []Value {
	items, ok := raw.([]interface{})
	if !ok {
		if raw == nil {
			return nil
		}
		return []Value{valueFromJSON(raw)}
	}
	out := make([]Value, len(items))
	for i, item := range items {
		out[i] = valueFromJSON(item)
	}
	return out
}
