package widgets

import (
	"strings"

	json "github.com/goccy/go-json"
)

// Payload key suffixes understood by the job-execution endpoint.
const (
	SuffixFileID   = "_girderFileId"
	SuffixItemID   = "_girderItemId"
	SuffixFolderID = "_girderFolderId"
	SuffixName     = "_name"
)

// Rules carries the per-parameter data the coercion and validity rules need.
type Rules struct {
	Constraints Constraints
	Candidates  []any
}

// Entry is one flattened submission key/value pair.
type Entry struct {
	Key   string
	Value string
}

type definition struct {
	caps   Capability
	coerce func(raw any, rules Rules) any
	valid  func(raw any, rules Rules) bool
	encode func(t Type, id string, value any) []Entry
}

var definitions = [...]definition{
	TypeUnknown: {
		coerce: func(raw any, _ Rules) any { return raw },
		valid:  func(any, Rules) bool { return false },
		encode: func(Type, string, any) []Entry { return nil },
	},
	TypeRange:   numericDefinition(false),
	TypeNumber:  numericDefinition(false),
	TypeInteger: numericDefinition(true),
	TypeBoolean: {
		caps:   CapBoolean,
		coerce: func(raw any, _ Rules) any { return Truthy(raw) },
		valid:  func(any, Rules) bool { return true },
		encode: encodeJSON,
	},
	TypeString: {
		caps:   CapScalar,
		coerce: func(raw any, _ Rules) any { return Stringify(raw) },
		valid:  func(any, Rules) bool { return true },
		encode: encodeJSON,
	},
	TypeColor: {
		caps: CapScalar | CapColor,
		coerce: func(raw any, _ Rules) any {
			if hex, ok := ParseColor(raw); ok {
				return hex
			}
			return strings.TrimSpace(Stringify(raw))
		},
		valid: func(raw any, _ Rules) bool {
			_, ok := ParseColor(raw)
			return ok
		},
		encode: encodeJSON,
	},
	TypeStringVector: {
		caps:   CapVector,
		coerce: func(raw any, _ Rules) any { return StringVector(raw) },
		valid:  func(any, Rules) bool { return true },
		encode: encodeJSON,
	},
	TypeNumberVector: {
		caps: CapVector | CapNumeric,
		coerce: func(raw any, _ Rules) any {
			out, _ := NumberVector(raw)
			return out
		},
		valid: func(raw any, _ Rules) bool {
			_, ok := NumberVector(raw)
			return ok
		},
		encode: encodeJSON,
	},
	TypeStringEnumeration: {
		caps:   CapEnumeration,
		coerce: func(raw any, _ Rules) any { return Stringify(raw) },
		valid: func(raw any, rules Rules) bool {
			return containsString(rules.Candidates, Stringify(raw))
		},
		encode: encodeJSON,
	},
	TypeNumberEnumeration: {
		caps:   CapEnumeration | CapNumeric,
		coerce: func(raw any, _ Rules) any { return ParseNumber(raw) },
		valid: func(raw any, rules Rules) bool {
			return containsNumber(rules.Candidates, ParseNumber(raw))
		},
		encode: encodeJSON,
	},
	TypeFile:         referenceDefinition(TypeFile, CapFile),
	TypeItem:         referenceDefinition(TypeItem, CapItem),
	TypeImage:        referenceDefinition(TypeImage, CapFile),
	TypeDirectory:    referenceDefinition(TypeDirectory, 0),
	TypeNewFile:      compositeDefinition(TypeNewFile),
	TypeNewItem:      compositeDefinition(TypeNewItem),
	TypeNewDirectory: compositeDefinition(TypeNewDirectory),
	TypeRegion: {
		caps: CapReference | CapRegion,
		coerce: func(raw any, _ Rules) any {
			if region, ok := asRegion(raw); ok {
				return region
			}
			return nil
		},
		valid: func(raw any, _ Rules) bool {
			region, ok := asRegion(raw)
			return ok && region.complete()
		},
		encode: func(_ Type, id string, value any) []Entry {
			region, ok := value.(Region)
			if !ok || !region.complete() {
				return nil
			}
			return []Entry{{Key: id, Value: jsonText([]float64(region))}}
		},
	},
}

// Fails to compile when a Type is added without a registry entry.
var _ = [1]struct{}{}[len(definitions)-int(typeCount)]

func numericDefinition(wholeOnly bool) definition {
	return definition{
		caps:   CapNumeric,
		coerce: func(raw any, _ Rules) any { return ParseNumber(raw) },
		valid: func(raw any, rules Rules) bool {
			return numberValid(ParseNumber(raw), rules.Constraints, wholeOnly)
		},
		encode: encodeJSON,
	}
}

func referenceDefinition(t Type, extra Capability) definition {
	return definition{
		caps: CapReference | extra,
		coerce: func(raw any, _ Rules) any {
			if ref, ok := asReference(raw); ok {
				return ref
			}
			return nil
		},
		valid: func(raw any, _ Rules) bool {
			ref, ok := asReference(raw)
			return ok && strings.TrimSpace(ref.ID()) != "" && KindFits(t, ref.Kind())
		},
		encode: func(t Type, id string, value any) []Entry {
			ref, ok := asReference(value)
			if !ok || !KindFits(t, ref.Kind()) {
				return nil
			}
			return []Entry{{Key: id + referenceSuffix(t), Value: ref.ID()}}
		},
	}
}

func compositeDefinition(t Type) definition {
	return definition{
		caps: CapReference | CapComposite,
		coerce: func(raw any, _ Rules) any {
			if target, ok := asTarget(raw); ok {
				return target
			}
			return nil
		},
		valid: func(raw any, _ Rules) bool {
			target, ok := asTarget(raw)
			return ok && target.complete() && KindFits(t, target.Parent.Kind())
		},
		encode: func(t Type, id string, value any) []Entry {
			target, ok := asTarget(value)
			if !ok || !target.complete() || !KindFits(t, target.Parent.Kind()) {
				return nil
			}
			return []Entry{
				{Key: id + parentSuffix(t, target.Parent.Kind()), Value: target.Parent.ID()},
				{Key: id + SuffixName, Value: target.TargetName},
			}
		},
	}
}

// KindFits reports whether a reference of kind can fill a parameter of type t.
// The key suffix follows the parameter type: file and image take files, item
// takes items, directory takes folders. Composite outputs need a folder parent
// and new-item also accepts an item. An empty kind fits every reference type.
func KindFits(t Type, kind ResourceKind) bool {
	switch t {
	case TypeFile, TypeImage:
		return kind == "" || kind == KindFile
	case TypeItem:
		return kind == "" || kind == KindItem
	case TypeDirectory, TypeNewFile, TypeNewDirectory:
		return kind == "" || kind == KindFolder
	case TypeNewItem:
		return kind == "" || kind == KindFolder || kind == KindItem
	}
	return false
}

func referenceSuffix(t Type) string {
	switch t {
	case TypeItem:
		return SuffixItemID
	case TypeDirectory:
		return SuffixFolderID
	default:
		return SuffixFileID
	}
}

func parentSuffix(t Type, kind ResourceKind) string {
	switch kind {
	case KindItem:
		return SuffixItemID
	case KindFolder:
		return SuffixFolderID
	}
	if t == TypeNewItem {
		return SuffixItemID
	}
	return SuffixFolderID
}

func encodeJSON(_ Type, id string, value any) []Entry {
	return []Entry{{Key: id, Value: jsonText(value)}}
}

// jsonText encodes a coerced value as JSON text. Non-finite numbers encode as
// null since JSON has no representation for them.
func jsonText(value any) string {
	switch v := value.(type) {
	case float64:
		if !finite(v) {
			return "null"
		}
		return FormatNumber(v)
	case []float64:
		parts := make([]string, len(v))
		for i, f := range v {
			parts[i] = jsonText(f)
		}
		return "[" + strings.Join(parts, ",") + "]"
	case nil:
		return "null"
	}
	out, err := json.MarshalNoEscape(value)
	if err != nil {
		return "null"
	}
	return string(out)
}

func lookup(t Type) definition {
	if t >= typeCount {
		return definitions[TypeUnknown]
	}
	return definitions[t]
}

// Capabilities returns the capability flags of t.
func (t Type) Capabilities() Capability {
	return lookup(t).caps
}

// IsNumeric reports numeric-family types (range, number, integer, number
// vectors and number enumerations).
func (t Type) IsNumeric() bool { return t.Capabilities().Has(CapNumeric) }

// IsBoolean reports the boolean type.
func (t Type) IsBoolean() bool { return t.Capabilities().Has(CapBoolean) }

// IsVector reports vector types.
func (t Type) IsVector() bool { return t.Capabilities().Has(CapVector) }

// IsColor reports the color type.
func (t Type) IsColor() bool { return t.Capabilities().Has(CapColor) }

// IsEnumeration reports enumeration types.
func (t Type) IsEnumeration() bool { return t.Capabilities().Has(CapEnumeration) }

// IsFile reports file-backed input references (file, image).
func (t Type) IsFile() bool { return t.Capabilities().Has(CapFile) }

// IsItem reports the item input reference.
func (t Type) IsItem() bool { return t.Capabilities().Has(CapItem) }

// IsReference reports types whose value is an opaque remote reference,
// including composites and regions.
func (t Type) IsReference() bool { return t.Capabilities().Has(CapReference) }

// IsComposite reports the new-file, new-item and new-directory outputs.
func (t Type) IsComposite() bool { return t.Capabilities().Has(CapComposite) }

// AcceptsConstraints reports whether numeric constraints apply to t.
func (t Type) AcceptsConstraints() bool {
	return t.IsNumeric() && !t.IsEnumeration() && !t.IsVector()
}

// Coerce converts raw into the typed representation of t. It never panics;
// input that cannot be read produces NaN, an empty value or nil.
func Coerce(t Type, raw any, rules Rules) any {
	def := lookup(t)
	if IsUnset(raw) {
		switch t {
		case TypeBoolean:
			return false
		case TypeString:
			return ""
		case TypeUnknown:
			return raw
		}
	}
	return def.coerce(raw, rules)
}

// Valid reports whether raw is an acceptable value for t. Unset values are only
// valid for boolean and string.
func Valid(t Type, raw any, rules Rules) bool {
	if IsUnset(raw) && t != TypeBoolean && t != TypeString {
		return false
	}
	return lookup(t).valid(raw, rules)
}

// Encode flattens raw into submission entries for the parameter id. Reference
// and composite types contribute nothing until they hold a usable value.
func Encode(t Type, id string, raw any, rules Rules) []Entry {
	return lookup(t).encode(t, id, Coerce(t, raw, rules))
}

// Keys lists the payload keys a parameter of type t contributes when its
// references carry no explicit kind.
func Keys(t Type, id string) []string {
	switch {
	case t == TypeUnknown || t >= typeCount:
		return nil
	case t.IsComposite():
		return []string{id + parentSuffix(t, ""), id + SuffixName}
	case t.IsReference() && t != TypeRegion:
		return []string{id + referenceSuffix(t)}
	}
	return []string{id}
}
