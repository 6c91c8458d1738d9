package widgets

import "strings"

// Type identifies a parameter widget variant. The set is closed: every value
// between TypeUnknown and typeCount has an entry in the definitions table.
type Type uint8

const (
	TypeUnknown Type = iota
	TypeRange
	TypeNumber
	TypeInteger
	TypeBoolean
	TypeString
	TypeColor
	TypeStringVector
	TypeNumberVector
	TypeStringEnumeration
	TypeNumberEnumeration
	TypeFile
	TypeItem
	TypeImage
	TypeDirectory
	TypeNewFile
	TypeNewItem
	TypeNewDirectory
	TypeRegion

	typeCount
)

var typeNames = [...]string{
	TypeUnknown:           "unknown",
	TypeRange:             "range",
	TypeNumber:            "number",
	TypeInteger:           "integer",
	TypeBoolean:           "boolean",
	TypeString:            "string",
	TypeColor:             "color",
	TypeStringVector:      "string-vector",
	TypeNumberVector:      "number-vector",
	TypeStringEnumeration: "string-enumeration",
	TypeNumberEnumeration: "number-enumeration",
	TypeFile:              "file",
	TypeItem:              "item",
	TypeImage:             "image",
	TypeDirectory:         "directory",
	TypeNewFile:           "new-file",
	TypeNewItem:           "new-item",
	TypeNewDirectory:      "new-directory",
	TypeRegion:            "region",
}

// Fails to compile when a Type is added without a name.
var _ = [1]struct{}{}[len(typeNames)-int(typeCount)]

// String returns the canonical widget name ("number-vector", "new-file", ...).
func (t Type) String() string {
	if t >= typeCount {
		return typeNames[TypeUnknown]
	}
	return typeNames[t]
}

// MarshalText encodes the canonical name so specs serialise readably.
func (t Type) MarshalText() ([]byte, error) {
	return []byte(t.String()), nil
}

// UnmarshalText decodes a canonical name. Unrecognised names decode to
// TypeUnknown rather than failing.
func (t *Type) UnmarshalText(text []byte) error {
	*t = ParseType(string(text))
	return nil
}

// ParseType maps a canonical widget name back to its Type. Unknown names map
// to TypeUnknown.
func ParseType(name string) Type {
	trimmed := strings.ToLower(strings.TrimSpace(name))
	for idx, candidate := range typeNames {
		if candidate == trimmed {
			return Type(idx)
		}
	}
	return TypeUnknown
}

// Channel is the direction of a parameter.
type Channel string

const (
	ChannelInput  Channel = "input"
	ChannelOutput Channel = "output"
)

// ParseChannel normalises channel text. Anything other than "output" is an
// input, matching the schema default.
func ParseChannel(raw string) Channel {
	if strings.EqualFold(strings.TrimSpace(raw), string(ChannelOutput)) {
		return ChannelOutput
	}
	return ChannelInput
}

// Capability is a bit set describing what a widget type can hold.
type Capability uint16

const (
	CapNumeric Capability = 1 << iota
	CapBoolean
	CapScalar
	CapColor
	CapVector
	CapEnumeration
	CapReference
	CapComposite
	CapFile
	CapItem
	CapRegion
)

// Has reports whether every bit in want is set.
func (c Capability) Has(want Capability) bool {
	return want != 0 && c&want == want
}

type unset struct{}

func (unset) String() string { return "<unset>" }

// Unset marks a parameter that has no value yet. Defaults resolve to Unset for
// every type except boolean and string.
var Unset any = unset{}

// IsUnset reports whether raw carries no value (nil or Unset).
func IsUnset(raw any) bool {
	if raw == nil {
		return true
	}
	_, ok := raw.(unset)
	return ok
}
