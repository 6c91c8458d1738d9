package model

import (
	"github.com/goliatone/go-paramform/pkg/widgets"
)

// Spec describes one schema element. It is built by the parser and never
// mutated afterwards; every Param created from it shares the same pointer.
type Spec struct {
	Type        widgets.Type        `json:"type" yaml:"type"`
	SourceTag   string              `json:"sourceTag" yaml:"sourceTag"`
	ID          string              `json:"id" yaml:"id"`
	Title       string              `json:"title,omitempty" yaml:"title,omitempty"`
	Description string              `json:"description,omitempty" yaml:"description,omitempty"`
	Channel     widgets.Channel     `json:"channel" yaml:"channel"`
	Flag        string              `json:"flag,omitempty" yaml:"flag,omitempty"`
	Extensions  string              `json:"extensions,omitempty" yaml:"extensions,omitempty"`
	Candidates  []any               `json:"candidates,omitempty" yaml:"candidates,omitempty"`
	Constraints widgets.Constraints `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Default     any                 `json:"-" yaml:"-"`

	// Positional index for arguments declared without a flag.
	Index    *int   `json:"index,omitempty" yaml:"index,omitempty"`
	LongFlag string `json:"longflag,omitempty" yaml:"longflag,omitempty"`
	Hidden   bool   `json:"hidden,omitempty" yaml:"hidden,omitempty"`
}

// Rules returns the coercion and validity inputs for the registry.
func (s *Spec) Rules() widgets.Rules {
	if s == nil {
		return widgets.Rules{}
	}
	return widgets.Rules{Constraints: s.Constraints, Candidates: s.Candidates}
}

// Label is the display name: the title, or the id when no title is set.
func (s *Spec) Label() string {
	if s == nil {
		return ""
	}
	if s.Title != "" {
		return s.Title
	}
	return s.ID
}

// HasDefault reports whether the schema declared a default value.
func (s *Spec) HasDefault() bool {
	return s != nil && !widgets.IsUnset(s.Default)
}

// DefaultValue returns the default in its coerced form.
func (s *Spec) DefaultValue() any {
	if s == nil {
		return nil
	}
	return widgets.Coerce(s.Type, s.Default, s.Rules())
}
