package render

import (
	"math"

	"github.com/goliatone/go-paramform/pkg/model"
	"github.com/goliatone/go-paramform/pkg/parser"
	"github.com/goliatone/go-paramform/pkg/widgets"
)

// View is the renderer-neutral shape of a description plus current values.
// Structured renderers serialise it directly; template renderers receive it as
// their context.
type View struct {
	Title            string              `json:"title" yaml:"title"`
	Category         string              `json:"category,omitempty" yaml:"category,omitempty"`
	Description      string              `json:"description,omitempty" yaml:"description,omitempty"`
	Version          string              `json:"version,omitempty" yaml:"version,omitempty"`
	DocumentationURL string              `json:"documentationUrl,omitempty" yaml:"documentationUrl,omitempty"`
	License          string              `json:"license,omitempty" yaml:"license,omitempty"`
	Contributor      string              `json:"contributor,omitempty" yaml:"contributor,omitempty"`
	Acknowledgements string              `json:"acknowledgements,omitempty" yaml:"acknowledgements,omitempty"`
	Panels           []PanelView         `json:"panels" yaml:"panels"`
	Diagnostics      []parser.Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
	Invalid          []string            `json:"invalid,omitempty" yaml:"invalid,omitempty"`
}

// PanelView is one rendered panel.
type PanelView struct {
	ID          string      `json:"id" yaml:"id"`
	Label       string      `json:"label,omitempty" yaml:"label,omitempty"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Advanced    bool        `json:"advanced,omitempty" yaml:"advanced,omitempty"`
	Params      []ParamView `json:"params" yaml:"params"`
}

// ParamView is one rendered parameter. Entries hold the payload fields the
// current value flattens into.
type ParamView struct {
	ID          string      `json:"id" yaml:"id"`
	Title       string      `json:"title" yaml:"title"`
	Description string      `json:"description,omitempty" yaml:"description,omitempty"`
	Type        string      `json:"type" yaml:"type"`
	Channel     string      `json:"channel" yaml:"channel"`
	Flag        string      `json:"flag,omitempty" yaml:"flag,omitempty"`
	LongFlag    string      `json:"longflag,omitempty" yaml:"longflag,omitempty"`
	Index       *int        `json:"index,omitempty" yaml:"index,omitempty"`
	Extensions  string      `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Candidates  []string    `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Min         *float64    `json:"min,omitempty" yaml:"min,omitempty"`
	Max         *float64    `json:"max,omitempty" yaml:"max,omitempty"`
	Step        *float64    `json:"step,omitempty" yaml:"step,omitempty"`
	Hidden      bool        `json:"hidden,omitempty" yaml:"hidden,omitempty"`
	Valid       bool        `json:"valid" yaml:"valid"`
	Entries     []EntryView `json:"entries,omitempty" yaml:"entries,omitempty"`
}

// EntryView is one payload key/value pair.
type EntryView struct {
	Key   string `json:"key" yaml:"key"`
	Value string `json:"value" yaml:"value"`
}

// NewView projects exe and the current values into a View.
func NewView(exe *parser.Executable, options RenderOptions) View {
	if exe == nil {
		return View{}
	}
	view := View{
		Title:            exe.Title,
		Category:         exe.Category,
		Description:      exe.Description,
		Version:          exe.Version,
		DocumentationURL: exe.DocumentationURL,
		License:          exe.License,
		Contributor:      exe.Contributor,
		Acknowledgements: exe.Acknowledgements,
		Diagnostics:      exe.Diagnostics,
		Panels:           make([]PanelView, 0, len(exe.Panels)),
	}

	for _, panel := range exe.Panels {
		if panel.Advanced && !options.Advanced {
			continue
		}
		pv := PanelView{
			ID:          panel.ID,
			Label:       panel.Label,
			Description: panel.Description,
			Advanced:    panel.Advanced,
			Params:      make([]ParamView, 0, len(panel.Params)),
		}
		for _, spec := range panel.Params {
			if spec == nil || (spec.Hidden && !options.ShowHidden) {
				continue
			}
			param := lookupParam(options.Params, spec)
			view.Invalid = appendInvalid(view.Invalid, param)
			pv.Params = append(pv.Params, newParamView(spec, param))
		}
		view.Panels = append(view.Panels, pv)
	}
	return view
}

func lookupParam(lookup ParamLookup, spec *model.Spec) *model.Param {
	if lookup != nil {
		if p, ok := lookup.Param(spec.ID); ok && p != nil {
			return p
		}
	}
	return model.New(spec)
}

func appendInvalid(ids []string, p *model.Param) []string {
	if p.IsValid() {
		return ids
	}
	return append(ids, p.ID())
}

func newParamView(spec *model.Spec, p *model.Param) ParamView {
	pv := ParamView{
		ID:          spec.ID,
		Title:       spec.Label(),
		Description: spec.Description,
		Type:        spec.Type.String(),
		Channel:     string(spec.Channel),
		Flag:        spec.Flag,
		LongFlag:    spec.LongFlag,
		Index:       spec.Index,
		Extensions:  spec.Extensions,
		Min:         finiteOrNil(spec.Constraints.Min),
		Max:         finiteOrNil(spec.Constraints.Max),
		Step:        finiteOrNil(spec.Constraints.Step),
		Hidden:      spec.Hidden,
		Valid:       p.IsValid(),
	}
	for _, candidate := range spec.Candidates {
		pv.Candidates = append(pv.Candidates, widgets.Stringify(candidate))
	}
	for _, entry := range p.Entries() {
		pv.Entries = append(pv.Entries, EntryView{Key: entry.Key, Value: entry.Value})
	}
	return pv
}

// finiteOrNil drops bounds that cannot be serialised as JSON numbers.
func finiteOrNil(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}
