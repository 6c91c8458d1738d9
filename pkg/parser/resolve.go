package parser

import (
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-paramform/pkg/widgets"
)

// FlagItem is the only flag text that influences type resolution.
const FlagItem = "item"

// tagTypes maps execution-model element names to base widget types.
var tagTypes = map[string]widgets.Type{
	"boolean":             widgets.TypeBoolean,
	"integer":             widgets.TypeInteger,
	"float":               widgets.TypeNumber,
	"double":              widgets.TypeNumber,
	"range":               widgets.TypeRange,
	"color":               widgets.TypeColor,
	"string":              widgets.TypeString,
	"string-vector":       widgets.TypeStringVector,
	"integer-vector":      widgets.TypeNumberVector,
	"float-vector":        widgets.TypeNumberVector,
	"double-vector":       widgets.TypeNumberVector,
	"string-enumeration":  widgets.TypeStringEnumeration,
	"integer-enumeration": widgets.TypeNumberEnumeration,
	"float-enumeration":   widgets.TypeNumberEnumeration,
	"double-enumeration":  widgets.TypeNumberEnumeration,
	"file":                widgets.TypeFile,
	"image":               widgets.TypeImage,
	"directory":           widgets.TypeDirectory,
	"item":                widgets.TypeItem,
	"region":              widgets.TypeRegion,
}

// BaseType looks up the widget type for an element name. ok is false for
// unmapped names.
func BaseType(tag string) (t widgets.Type, ok bool) {
	t, ok = tagTypes[tag]
	return t, ok
}

// ResolveType applies the type decision table. It is a pure function of the
// element name, channel and flag; unmapped names resolve to TypeUnknown.
func ResolveType(tag string, channel widgets.Channel, flag string) widgets.Type {
	base, ok := BaseType(tag)
	if !ok {
		return widgets.TypeUnknown
	}
	item := flag == FlagItem
	switch {
	case base == widgets.TypeDirectory && channel == widgets.ChannelInput:
		if item {
			return widgets.TypeItem
		}
		return widgets.TypeDirectory
	case (base == widgets.TypeFile || base == widgets.TypeImage) && channel == widgets.ChannelOutput:
		return widgets.TypeNewFile
	case base == widgets.TypeDirectory && channel == widgets.ChannelOutput:
		if item {
			return widgets.TypeNewItem
		}
		return widgets.TypeNewDirectory
	}
	return base
}

// resolveConstraints reads min/max/step from a constraints element. Both the
// short names and the minimum/maximum spelling are accepted. Types that do
// not take numeric bounds get an empty set.
func resolveConstraints(t widgets.Type, constraints *node) widgets.Constraints {
	var out widgets.Constraints
	if constraints == nil || !t.AcceptsConstraints() {
		return out
	}
	out.Min = boundFrom(constraints, "minimum", "min")
	out.Max = boundFrom(constraints, "maximum", "max")
	out.Step = boundFrom(constraints, "step")
	return out
}

func boundFrom(n *node, names ...string) *float64 {
	for _, name := range names {
		text, ok := n.childText(name)
		if !ok {
			continue
		}
		v := widgets.ParseNumber(text)
		if math.IsNaN(v) {
			continue
		}
		return widgets.Float(v)
	}
	return nil
}

// resolveDefault turns default element text into the typed default. Absent
// or blank text yields the type's absence value.
func resolveDefault(t widgets.Type, text string, present bool, rules widgets.Rules) any {
	if !present || (t != widgets.TypeString && strings.TrimSpace(text) == "") {
		return absentDefault(t)
	}
	switch {
	case t == widgets.TypeBoolean:
		if b, err := strconv.ParseBool(strings.TrimSpace(text)); err == nil {
			return b
		}
		return widgets.Truthy(text)
	case t == widgets.TypeString:
		return text
	case t.IsReference(), t == widgets.TypeUnknown:
		// References are resolved by a selection workflow, never from text.
		return widgets.Unset
	}
	return widgets.Coerce(t, text, rules)
}

func absentDefault(t widgets.Type) any {
	switch t {
	case widgets.TypeBoolean:
		return false
	case widgets.TypeString:
		return ""
	}
	return widgets.Unset
}

// DefaultFromText resolves default text for type t the way a <default>
// element would be read.
func DefaultFromText(t widgets.Type, text string, rules widgets.Rules) any {
	return resolveDefault(t, text, true, rules)
}
