package main

import (
	"math"
	"strings"
)

// ============================================================================
// Argument helpers (1-based, as reported in error messages)
// ============================================================================

func argAt(args []Value, i int) Value {
	if i-1 < len(args) {
		return args[i-1]
	}
	return Nil
}

func checkString(fn string, args []Value, i int) (string, error) {
	v := argAt(args, i)
	s, ok := v.toLString()
	if !ok {
		return "", typeError(fn, i, "string", v)
	}
	return s, nil
}

func optString(fn string, args []Value, i int, def string) (string, error) {
	if argAt(args, i).IsNil() {
		return def, nil
	}
	return checkString(fn, args, i)
}

func checkNumber(fn string, args []Value, i int) (float64, error) {
	v := argAt(args, i)
	f, ok := v.toNumber()
	if !ok {
		return 0, typeError(fn, i, "number", v)
	}
	return f, nil
}

func optNumber(fn string, args []Value, i int, def float64) (float64, error) {
	if argAt(args, i).IsNil() {
		return def, nil
	}
	return checkNumber(fn, args, i)
}

func checkInteger(fn string, args []Value, i int) (int, error) {
	v := argAt(args, i)
	n, ok := v.toInteger()
	if !ok {
		if _, isNum := v.toNumber(); isNum {
			return 0, badArgError(fn, i, "number has no integer representation")
		}
		return 0, typeError(fn, i, "number", v)
	}
	return int(n), nil
}

func optInteger(fn string, args []Value, i int, def int) (int, error) {
	if argAt(args, i).IsNil() {
		return def, nil
	}
	return checkInteger(fn, args, i)
}

func checkTable(fn string, args []Value, i int) (*Table, error) {
	v := argAt(args, i)
	if v.Tag != TableTag {
		return nil, typeError(fn, i, "table", v)
	}
	return v.Data.(*Table), nil
}

func strValues(parts []string) []Value {
	out := make([]Value, len(parts))
	for i, p := range parts {
		out[i] = Str(p)
	}
	return out
}

func one(v Value) []Value { return []Value{v} }

// ============================================================================
// Library registration
// ============================================================================

func (h *Host) openLibs() {
	h.openWowLib()
	h.openMathLib()
	h.openStringLib()
	h.openTableLib()
	h.openOSLib()
}

// openWowLib installs the wow table
func (h *Host) openWowLib() {
	h.Register("wow.strformat", wowStrFormat)
	h.Register("wow.strtrim", wowStrTrim)
	h.Register("wow.strsplit", wowStrSplit)
	h.Register("wow.strjoin", wowStrJoin)
	h.Register("wow.strconcat", wowStrConcat)
	h.Register("wow.strreplace", wowStrReplace)
	h.Register("wow.getglobal", wowGetGlobal)
	h.Register("wow.setglobal", wowSetGlobal)
	h.Register("wow.debugstack", wowDebugStack)
	h.Register("wow.scrub", wowScrub)
	h.Register("wow.tostringall", wowToStringAll)
	h.Register("wow.wipe", wowWipe)
}

func wowStrFormat(h *Host, args []Value) ([]Value, error) {
	tpl, err := checkString("format", args, 1)
	if err != nil {
		return nil, err
	}
	s, err := h.lib.Format(tpl, args[1:]...)
	if err != nil {
		return nil, err
	}
	return one(Str(s)), nil
}

func wowStrTrim(h *Host, args []Value) ([]Value, error) {
	s, err := checkString("strtrim", args, 1)
	if err != nil {
		return nil, err
	}
	cutset, err := optString("strtrim", args, 2, DefaultTrimCutset)
	if err != nil {
		return nil, err
	}
	return one(Str(Trim(s, cutset))), nil
}

func wowStrSplit(h *Host, args []Value) ([]Value, error) {
	sep, err := checkString("strsplit", args, 1)
	if err != nil {
		return nil, err
	}
	s, err := checkString("strsplit", args, 2)
	if err != nil {
		return nil, err
	}
	limit, err := optInteger("strsplit", args, 3, 0)
	if err != nil {
		return nil, err
	}
	return strValues(Split(sep, s, limit)), nil
}

func wowStrJoin(h *Host, args []Value) ([]Value, error) {
	sep, err := checkString("strjoin", args, 1)
	if err != nil {
		return nil, err
	}
	s, err := h.lib.Join(sep, args[1:]...)
	if err != nil {
		return nil, err
	}
	return one(Str(s)), nil
}

func wowStrConcat(h *Host, args []Value) ([]Value, error) {
	s, err := h.lib.Concat(args...)
	if err != nil {
		return nil, err
	}
	return one(Str(s)), nil
}

func wowStrReplace(h *Host, args []Value) ([]Value, error) {
	var strs [3]string
	for i := range strs {
		s, err := checkString("strreplace", args, i+1)
		if err != nil {
			return nil, err
		}
		strs[i] = s
	}
	s, n, err := h.lib.Replace(strs[0], strs[1], strs[2])
	if err != nil {
		return nil, err
	}
	return []Value{Str(s), Int(int64(n))}, nil
}

func wowGetGlobal(h *Host, args []Value) ([]Value, error) {
	name, err := checkString("getglobal", args, 1)
	if err != nil {
		return nil, err
	}
	return one(h.GetGlobal(name)), nil
}

func wowSetGlobal(h *Host, args []Value) ([]Value, error) {
	name, err := checkString("setglobal", args, 1)
	if err != nil {
		return nil, err
	}
	h.SetGlobal(name, argAt(args, 2))
	return nil, nil
}

// wowDebugStack accepts (start, top, bottom); top and bottom are ignored and
// the host's own truncation applies
func wowDebugStack(h *Host, args []Value) ([]Value, error) {
	start, err := optInteger("debugstack", args, 1, 1)
	if err != nil {
		return nil, err
	}
	return one(Str(h.DebugStack(start))), nil
}

func wowScrub(h *Host, args []Value) ([]Value, error) {
	return Scrub(args), nil
}

func wowToStringAll(h *Host, args []Value) ([]Value, error) {
	return h.ToStringAll(args), nil
}

func wowWipe(h *Host, args []Value) ([]Value, error) {
	t, err := checkTable("wipe", args, 1)
	if err != nil {
		return nil, err
	}
	t.Wipe()
	return one(TableVal(t)), nil
}

// ============================================================================
// math
// ============================================================================

func mathFunc1(name string, f func(float64) float64) NativeFunc {
	return func(h *Host, args []Value) ([]Value, error) {
		x, err := checkNumber(name, args, 1)
		if err != nil {
			return nil, err
		}
		return one(Num(f(x))), nil
	}
}

func (h *Host) openMathLib() {
	h.assign("math.pi", Num(math.Pi))
	h.assign("math.huge", Num(math.Inf(1)))
	h.Register("math.abs", mathFunc1("abs", math.Abs))
	h.Register("math.ceil", mathFunc1("ceil", math.Ceil))
	h.Register("math.floor", mathFunc1("floor", math.Floor))
	h.Register("math.sqrt", mathFunc1("sqrt", math.Sqrt))
	h.Register("math.exp", mathFunc1("exp", math.Exp))
	h.Register("math.log", mathFunc1("log", math.Log))
	h.Register("math.log10", mathFunc1("log10", math.Log10))
	h.Register("math.sin", mathFunc1("sin", math.Sin))
	h.Register("math.cos", mathFunc1("cos", math.Cos))
	h.Register("math.tan", mathFunc1("tan", math.Tan))
	h.Register("math.asin", mathFunc1("asin", math.Asin))
	h.Register("math.acos", mathFunc1("acos", math.Acos))
	h.Register("math.atan", mathFunc1("atan", math.Atan))
	h.Register("math.deg", mathFunc1("deg", func(x float64) float64 { return x * 180 / math.Pi }))
	h.Register("math.rad", mathFunc1("rad", func(x float64) float64 { return x * math.Pi / 180 }))
	h.Register("math.atan2", func(h *Host, args []Value) ([]Value, error) {
		y, err := checkNumber("atan2", args, 1)
		if err != nil {
			return nil, err
		}
		x, err := checkNumber("atan2", args, 2)
		if err != nil {
			return nil, err
		}
		return one(Num(math.Atan2(y, x))), nil
	})
	h.Register("math.fmod", func(h *Host, args []Value) ([]Value, error) {
		x, err := checkNumber("fmod", args, 1)
		if err != nil {
			return nil, err
		}
		y, err := checkNumber("fmod", args, 2)
		if err != nil {
			return nil, err
		}
		return one(Num(math.Mod(x, y))), nil
	})
	h.Register("math.ldexp", func(h *Host, args []Value) ([]Value, error) {
		m, err := checkNumber("ldexp", args, 1)
		if err != nil {
			return nil, err
		}
		e, err := checkInteger("ldexp", args, 2)
		if err != nil {
			return nil, err
		}
		return one(Num(math.Ldexp(m, e))), nil
	})
	h.Register("math.frexp", func(h *Host, args []Value) ([]Value, error) {
		x, err := checkNumber("frexp", args, 1)
		if err != nil {
			return nil, err
		}
		frac, exp := math.Frexp(x)
		return []Value{Num(frac), Int(int64(exp))}, nil
	})
	h.Register("math.max", mathFold("max", math.Max))
	h.Register("math.min", mathFold("min", math.Min))
	h.Register("math.random", mathRandom)
	h.Register("math.randomseed", func(h *Host, args []Value) ([]Value, error) {
		seed, err := checkInteger("randomseed", args, 1)
		if err != nil {
			return nil, err
		}
		h.rng.Seed(int64(seed))
		return nil, nil
	})
}

func mathFold(name string, f func(a, b float64) float64) NativeFunc {
	return func(h *Host, args []Value) ([]Value, error) {
		acc, err := checkNumber(name, args, 1)
		if err != nil {
			return nil, err
		}
		for i := 2; i <= len(args); i++ {
			x, err := checkNumber(name, args, i)
			if err != nil {
				return nil, err
			}
			acc = f(acc, x)
		}
		return one(Num(acc)), nil
	}
}

// mathRandom follows the host contract: no arguments yields [0,1), one
// argument m yields [1,m], two yield [m,n]
func mathRandom(h *Host, args []Value) ([]Value, error) {
	r := h.rng.Float64()
	switch len(args) {
	case 0:
		return one(Num(r)), nil
	case 1:
		m, err := checkInteger("random", args, 1)
		if err != nil {
			return nil, err
		}
		if m < 1 {
			return nil, badArgError("random", 1, "interval is empty")
		}
		return one(Num(math.Floor(r*float64(m)) + 1)), nil
	case 2:
		m, err := checkInteger("random", args, 1)
		if err != nil {
			return nil, err
		}
		n, err := checkInteger("random", args, 2)
		if err != nil {
			return nil, err
		}
		if m > n {
			return nil, badArgError("random", 2, "interval is empty")
		}
		return one(Num(math.Floor(r*float64(n-m+1)) + float64(m))), nil
	}
	return nil, badArgError("random", 3, "wrong number of arguments")
}

// degrees wraps a radian function so it takes degrees
func degrees(fn string, f func(float64) float64) NativeFunc {
	return mathFunc1(fn, func(x float64) float64 { return f(x * math.Pi / 180) })
}

// toDegrees wraps an inverse trig function so it returns degrees
func toDegrees(fn string, f func(float64) float64) NativeFunc {
	return mathFunc1(fn, func(x float64) float64 { return f(x) * 180 / math.Pi })
}

func atan2Degrees(h *Host, args []Value) ([]Value, error) {
	res, err := h.Call("math.atan2", args...)
	if err != nil {
		return nil, err
	}
	r, _ := res[0].toNumber()
	return one(Num(r * 180 / math.Pi)), nil
}

// ============================================================================
// string
// ============================================================================

// strRange converts host string indices (1-based, negative from the end)
// into a byte range of a string of length n
func strRange(i, j, n int) (int, int) {
	if i < 0 {
		i = n + i + 1
	}
	if j < 0 {
		j = n + j + 1
	}
	if i < 1 {
		i = 1
	}
	if j > n {
		j = n
	}
	return i, j
}

func (h *Host) openStringLib() {
	h.Register("string.len", func(h *Host, args []Value) ([]Value, error) {
		s, err := checkString("len", args, 1)
		if err != nil {
			return nil, err
		}
		return one(Int(int64(len(s)))), nil
	})
	h.Register("string.lower", func(h *Host, args []Value) ([]Value, error) {
		s, err := checkString("lower", args, 1)
		if err != nil {
			return nil, err
		}
		return one(Str(mapBytes(s, 'A', 'Z', 'a'-'A'))), nil
	})
	h.Register("string.upper", func(h *Host, args []Value) ([]Value, error) {
		s, err := checkString("upper", args, 1)
		if err != nil {
			return nil, err
		}
		return one(Str(mapBytes(s, 'a', 'z', 'A'-'a'))), nil
	})
	h.Register("string.rep", func(h *Host, args []Value) ([]Value, error) {
		s, err := checkString("rep", args, 1)
		if err != nil {
			return nil, err
		}
		n, err := checkInteger("rep", args, 2)
		if err != nil {
			return nil, err
		}
		if n <= 0 {
			return one(Str("")), nil
		}
		limit := h.lib.MaxOutput
		if limit == 0 {
			limit = math.MaxInt
		}
		if len(s) > 0 && n > limit/len(s) {
			return nil, allocError("rep", limit)
		}
		return one(Str(strings.Repeat(s, n))), nil
	})
	h.Register("string.reverse", func(h *Host, args []Value) ([]Value, error) {
		s, err := checkString("reverse", args, 1)
		if err != nil {
			return nil, err
		}
		b := []byte(s)
		for i, j := 0, len(b)-1; i < j; i, j = i+1, j-1 {
			b[i], b[j] = b[j], b[i]
		}
		return one(Str(string(b))), nil
	})
	h.Register("string.sub", func(h *Host, args []Value) ([]Value, error) {
		s, err := checkString("sub", args, 1)
		if err != nil {
			return nil, err
		}
		i, err := optInteger("sub", args, 2, 1)
		if err != nil {
			return nil, err
		}
		j, err := optInteger("sub", args, 3, -1)
		if err != nil {
			return nil, err
		}
		i, j = strRange(i, j, len(s))
		if i > j {
			return one(Str("")), nil
		}
		return one(Str(s[i-1 : j])), nil
	})
	h.Register("string.byte", func(h *Host, args []Value) ([]Value, error) {
		s, err := checkString("byte", args, 1)
		if err != nil {
			return nil, err
		}
		i, err := optInteger("byte", args, 2, 1)
		if err != nil {
			return nil, err
		}
		j, err := optInteger("byte", args, 3, i)
		if err != nil {
			return nil, err
		}
		i, j = strRange(i, j, len(s))
		var out []Value
		for k := i; k <= j; k++ {
			out = append(out, Int(int64(s[k-1])))
		}
		return out, nil
	})
	h.Register("string.char", func(h *Host, args []Value) ([]Value, error) {
		b := make([]byte, len(args))
		for i := range args {
			c, err := checkInteger("char", args, i+1)
			if err != nil {
				return nil, err
			}
			if c < 0 || c > 255 {
				return nil, badArgError("char", i+1, "invalid value")
			}
			b[i] = byte(c)
		}
		return one(Str(string(b))), nil
	})
}

// mapBytes shifts bytes within [lo,hi] by delta; the host's case mapping is byte-wise
func mapBytes(s string, lo, hi byte, delta int) string {
	b := []byte(s)
	for i, c := range b {
		if c >= lo && c <= hi {
			b[i] = byte(int(c) + delta)
		}
	}
	return string(b)
}

// ============================================================================
// table and os
// ============================================================================

func (h *Host) openTableLib() {
	h.Register("table.getn", func(h *Host, args []Value) ([]Value, error) {
		t, err := checkTable("getn", args, 1)
		if err != nil {
			return nil, err
		}
		return one(Int(int64(t.Len()))), nil
	})
	h.Register("table.insert", func(h *Host, args []Value) ([]Value, error) {
		t, err := checkTable("insert", args, 1)
		if err != nil {
			return nil, err
		}
		switch len(args) {
		case 2:
			t.Insert(t.Len()+1, args[1])
		case 3:
			pos, err := checkInteger("insert", args, 2)
			if err != nil {
				return nil, err
			}
			t.Insert(pos, args[2])
		default:
			return nil, badArgError("insert", len(args), "wrong number of arguments to 'insert'")
		}
		return nil, nil
	})
	h.Register("table.remove", func(h *Host, args []Value) ([]Value, error) {
		t, err := checkTable("remove", args, 1)
		if err != nil {
			return nil, err
		}
		pos, err := optInteger("remove", args, 2, t.Len())
		if err != nil {
			return nil, err
		}
		v := t.RemoveAt(pos)
		if v.IsNil() {
			return nil, nil
		}
		return one(v), nil
	})
}

func (h *Host) openOSLib() {
	h.Register("os.time", func(h *Host, args []Value) ([]Value, error) {
		return one(Int(h.now().Unix())), nil
	})
	h.Register("os.difftime", func(h *Host, args []Value) ([]Value, error) {
		t2, err := checkNumber("difftime", args, 1)
		if err != nil {
			return nil, err
		}
		t1, err := optNumber("difftime", args, 2, 0)
		if err != nil {
			return nil, err
		}
		return one(Num(t2 - t1)), nil
	})
}
