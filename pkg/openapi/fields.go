package openapi

import (
	"fmt"
	"sort"

	"github.com/goliatone/go-paramform/pkg/model"
	"github.com/goliatone/go-paramform/pkg/widgets"
)

// Field is one form field accepted by the run endpoint.
type Field struct {
	Key         string
	Param       string
	Description string
	// WorkerType is the value type the job worker reads the field as.
	WorkerType string
	Required   bool
	Default    *string
	Enum       []string
}

// Fields lists the run endpoint's form fields for specs. Positional
// parameters come first in index order and are required; flagged parameters
// follow in document order. Unknown parameters contribute nothing.
func Fields(specs []*model.Spec) []Field {
	var indexed, optional []*model.Spec
	for _, spec := range specs {
		if spec == nil || spec.Type == widgets.TypeUnknown {
			continue
		}
		if spec.Index != nil {
			indexed = append(indexed, spec)
			continue
		}
		optional = append(optional, spec)
	}
	sort.SliceStable(indexed, func(i, j int) bool {
		return *indexed[i].Index < *indexed[j].Index
	})

	var out []Field
	for _, spec := range indexed {
		out = append(out, specFields(spec, true)...)
	}
	for _, spec := range optional {
		out = append(out, specFields(spec, false)...)
	}
	return out
}

func specFields(spec *model.Spec, required bool) []Field {
	keys := widgets.Keys(spec.Type, spec.ID)
	switch {
	case spec.Type.IsComposite():
		return []Field{
			{
				Key:         keys[0],
				Param:       spec.ID,
				Description: fmt.Sprintf("ID of the parent container for output %s - %s: %s", spec.SourceTag, spec.ID, spec.Description),
				WorkerType:  "string",
				Required:    required,
			},
			{
				Key:         keys[1],
				Param:       spec.ID,
				Description: fmt.Sprintf("Name of output %s - %s: %s", spec.SourceTag, spec.ID, spec.Description),
				WorkerType:  "string",
				Required:    required,
			},
		}
	case spec.Type.IsReference() && spec.Type != widgets.TypeRegion:
		return []Field{{
			Key:         keys[0],
			Param:       spec.ID,
			Description: fmt.Sprintf("ID of input %s - %s: %s", spec.SourceTag, spec.ID, spec.Description),
			WorkerType:  "string",
			Required:    required,
		}}
	}

	field := Field{
		Key:         spec.ID,
		Param:       spec.ID,
		Description: spec.Description,
		WorkerType:  workerType(spec),
		Required:    required,
	}
	if !required && spec.HasDefault() {
		if entries := widgets.Encode(spec.Type, spec.ID, spec.Default, spec.Rules()); len(entries) == 1 {
			text := entries[0].Value
			field.Default = &text
		}
	}
	if spec.Type.IsEnumeration() {
		for _, candidate := range spec.Candidates {
			for _, entry := range widgets.Encode(spec.Type, spec.ID, candidate, spec.Rules()) {
				field.Enum = append(field.Enum, entry.Value)
			}
		}
	}
	return []Field{field}
}

func workerType(spec *model.Spec) string {
	switch spec.Type {
	case widgets.TypeBoolean:
		return "boolean"
	case widgets.TypeInteger:
		return "integer"
	case widgets.TypeNumber, widgets.TypeRange:
		return "number"
	case widgets.TypeStringVector:
		return "string_list"
	case widgets.TypeNumberVector:
		if spec.SourceTag == "integer-vector" {
			return "integer_list"
		}
		return "number_list"
	case widgets.TypeRegion:
		return "number_list"
	case widgets.TypeNumberEnumeration:
		if spec.SourceTag == "integer-enumeration" {
			return "integer"
		}
		return "number"
	default:
		return "string"
	}
}
