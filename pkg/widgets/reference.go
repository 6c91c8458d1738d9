package widgets

import (
	"errors"
	"math"
	"reflect"
	"strings"
)

// ResourceKind names the remote object category a reference points at.
type ResourceKind string

const (
	KindFile       ResourceKind = "file"
	KindItem       ResourceKind = "item"
	KindFolder     ResourceKind = "folder"
	KindCollection ResourceKind = "collection"
	KindUser       ResourceKind = "user"
)

// Reference is an already-resolved remote object. The core only reads its
// identifier, display name and category.
type Reference interface {
	ID() string
	Name() string
	Kind() ResourceKind
}

// Ref is a plain Reference value, used by selectors and configuration files
// that do not carry richer remote models.
type Ref struct {
	RefID   string       `json:"id" yaml:"id"`
	RefName string       `json:"name,omitempty" yaml:"name,omitempty"`
	RefKind ResourceKind `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// NewRef builds a Ref.
func NewRef(kind ResourceKind, id, name string) Ref {
	return Ref{RefID: strings.TrimSpace(id), RefName: name, RefKind: kind}
}

func (r Ref) ID() string         { return r.RefID }
func (r Ref) Name() string       { return r.RefName }
func (r Ref) Kind() ResourceKind { return r.RefKind }

// Target is the composite value held by new-file, new-item and new-directory
// parameters: the name to create and the container it goes into.
type Target struct {
	TargetName string
	Parent     Reference
}

var (
	ErrTargetNameRequired = errors.New("widgets: a name must be provided for the new output")
	ErrTargetParent       = errors.New("widgets: outputs cannot be added under this container")
)

// NewTarget validates a selection for a composite output type. new-file and
// new-directory need a name and a folder parent; new-item needs an item or
// folder parent and takes its name from the parent when none is given.
func NewTarget(t Type, name string, parent Reference) (Target, error) {
	name = strings.TrimSpace(name)
	if isNil(parent) || strings.TrimSpace(parent.ID()) == "" {
		return Target{}, ErrTargetParent
	}
	switch t {
	case TypeNewFile, TypeNewDirectory:
		if name == "" {
			return Target{}, ErrTargetNameRequired
		}
		if parent.Kind() != KindFolder {
			return Target{}, ErrTargetParent
		}
	case TypeNewItem:
		if parent.Kind() != KindFolder && parent.Kind() != KindItem {
			return Target{}, ErrTargetParent
		}
		if name == "" {
			name = parent.Name()
		}
		if name == "" {
			return Target{}, ErrTargetNameRequired
		}
	default:
		return Target{}, errors.New("widgets: " + t.String() + " is not a composite output type")
	}
	return Target{TargetName: name, Parent: parent}, nil
}

// Name returns the chosen name for the new output.
func (t Target) Name() string { return t.TargetName }

func (t Target) complete() bool {
	return strings.TrimSpace(t.TargetName) != "" && !isNil(t.Parent) && strings.TrimSpace(t.Parent.ID()) != ""
}

// Region is a geometric reference (center coordinates followed by radii).
type Region []float64

func (r Region) complete() bool {
	if len(r) == 0 {
		return false
	}
	for _, v := range r {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// AsReference extracts a usable Reference from raw, rejecting nil and typed
// nil values.
func AsReference(raw any) (Reference, bool) {
	return asReference(raw)
}

func asReference(raw any) (Reference, bool) {
	ref, ok := raw.(Reference)
	if !ok || isNil(ref) {
		return nil, false
	}
	return ref, true
}

// isNil catches typed nil pointers hidden behind an interface.
func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func:
		return rv.IsNil()
	}
	return false
}

func asTarget(raw any) (Target, bool) {
	switch v := raw.(type) {
	case Target:
		return v, true
	case *Target:
		if v == nil {
			return Target{}, false
		}
		return *v, true
	}
	return Target{}, false
}

func asRegion(raw any) (Region, bool) {
	switch v := raw.(type) {
	case Region:
		return v, true
	case []float64:
		return Region(v), true
	}
	return nil, false
}
