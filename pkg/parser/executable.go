package parser

import (
	"github.com/goliatone/go-paramform/pkg/model"
)

// Executable is a parsed analysis description.
type Executable struct {
	Category         string `json:"category,omitempty" yaml:"category,omitempty"`
	Title            string `json:"title,omitempty" yaml:"title,omitempty"`
	Description      string `json:"description,omitempty" yaml:"description,omitempty"`
	Version          string `json:"version,omitempty" yaml:"version,omitempty"`
	DocumentationURL string `json:"documentationUrl,omitempty" yaml:"documentationUrl,omitempty"`
	License          string `json:"license,omitempty" yaml:"license,omitempty"`
	Contributor      string `json:"contributor,omitempty" yaml:"contributor,omitempty"`
	Acknowledgements string `json:"acknowledgements,omitempty" yaml:"acknowledgements,omitempty"`

	Panels      []Panel      `json:"panels" yaml:"panels"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty" yaml:"diagnostics,omitempty"`
}

// Panel is one labelled group of parameters. Advanced panels are collapsed by
// editors until the user asks for them.
type Panel struct {
	ID          string        `json:"id" yaml:"id"`
	Label       string        `json:"label,omitempty" yaml:"label,omitempty"`
	Description string        `json:"description,omitempty" yaml:"description,omitempty"`
	Advanced    bool          `json:"advanced,omitempty" yaml:"advanced,omitempty"`
	Params      []*model.Spec `json:"parameters" yaml:"parameters"`
}

// Diagnostic records a non-fatal problem found while parsing.
type Diagnostic struct {
	Tag     string `json:"tag" yaml:"tag"`
	ID      string `json:"id,omitempty" yaml:"id,omitempty"`
	Message string `json:"message" yaml:"message"`
}

// Specs returns every parameter spec across panels in document order.
func (e *Executable) Specs() []*model.Spec {
	if e == nil {
		return nil
	}
	var out []*model.Spec
	for _, panel := range e.Panels {
		out = append(out, panel.Params...)
	}
	return out
}

// Panel returns the panel with the given id.
func (e *Executable) Panel(id string) (Panel, bool) {
	if e == nil {
		return Panel{}, false
	}
	for _, panel := range e.Panels {
		if panel.ID == id {
			return panel, true
		}
	}
	return Panel{}, false
}
