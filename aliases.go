package main

import (
	"fmt"
	"math"
)

// alias binds a public global name either to the value found at target or,
// when wrap is set, to a wrapper function
type alias struct {
	name   string
	target string
	wrap   NativeFunc
}

// aliases are the global short names installed when a host starts
var aliases = []alias{
	// string format
	{name: "string.format", target: "wow.strformat"},

	// os
	{name: "time", target: "os.time"},
	{name: "difftime", target: "os.difftime"},

	// math; trigonometry works in degrees
	{name: "abs", target: "math.abs"},
	{name: "acos", wrap: toDegrees("acos", math.Acos)},
	{name: "asin", wrap: toDegrees("asin", math.Asin)},
	{name: "atan", wrap: toDegrees("atan", math.Atan)},
	{name: "atan2", wrap: atan2Degrees},
	{name: "ceil", target: "math.ceil"},
	{name: "cos", wrap: degrees("cos", math.Cos)},
	{name: "deg", target: "math.deg"},
	{name: "exp", target: "math.exp"},
	{name: "floor", target: "math.floor"},
	{name: "frexp", target: "math.frexp"},
	{name: "ldexp", target: "math.ldexp"},
	{name: "log", target: "math.log"},
	{name: "log10", target: "math.log10"},
	{name: "max", target: "math.max"},
	{name: "min", target: "math.min"},
	{name: "mod", target: "math.fmod"},
	{name: "PI", target: "math.pi"},
	{name: "rad", target: "math.rad"},
	{name: "random", target: "math.random"},
	{name: "randomseed", target: "math.randomseed"},
	{name: "sin", wrap: degrees("sin", math.Sin)},
	{name: "sqrt", target: "math.sqrt"},
	{name: "tan", wrap: degrees("tan", math.Tan)},

	// string
	{name: "format", target: "string.format"},
	{name: "strbyte", target: "string.byte"},
	{name: "strchar", target: "string.char"},
	{name: "strlen", target: "string.len"},
	{name: "strlower", target: "string.lower"},
	{name: "strrep", target: "string.rep"},
	{name: "strrev", target: "string.reverse"},
	{name: "strsub", target: "string.sub"},
	{name: "strupper", target: "string.upper"},

	// table
	{name: "getn", target: "table.getn"},
	{name: "tinsert", target: "table.insert"},
	{name: "tremove", target: "table.remove"},

	// wow
	{name: "strtrim", target: "wow.strtrim"},
	{name: "strsplit", target: "wow.strsplit"},
	{name: "strjoin", target: "wow.strjoin"},
	{name: "strconcat", target: "wow.strconcat"},
	{name: "strreplace", target: "wow.strreplace"},
	{name: "getglobal", target: "wow.getglobal"},
	{name: "setglobal", target: "wow.setglobal"},
	{name: "debugstack", target: "wow.debugstack"},
	{name: "scrub", target: "wow.scrub"},
	{name: "tostringall", target: "wow.tostringall"},
	{name: "wipe", target: "wow.wipe"},
	{name: "string.trim", target: "wow.strtrim"},
	{name: "string.split", target: "wow.strsplit"},
	{name: "string.join", target: "wow.strjoin"},
}

// applyAliases installs the table in order, so later entries may refer to
// names bound by earlier ones
func (h *Host) applyAliases(table []alias) error {
	for _, a := range table {
		if a.wrap != nil {
			h.assign(a.name, FuncVal(a.name, a.wrap))
			continue
		}
		v := h.Lookup(a.target)
		if v.IsNil() {
			return fmt.Errorf("alias %s: target %s is not defined", a.name, a.target)
		}
		h.assign(a.name, v)
	}
	return nil
}
