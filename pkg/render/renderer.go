package render

import (
	"context"

	"github.com/goliatone/go-paramform/pkg/model"
	"github.com/goliatone/go-paramform/pkg/parser"
)

// Renderer converts a parsed analysis description into a byte representation
// (plain text, JSON, YAML).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, exe *parser.Executable, options RenderOptions) ([]byte, error)
}

// ParamLookup resolves the live param for an id. *orchestrator.Orchestrator
// satisfies it.
type ParamLookup interface {
	Param(id string) (*model.Param, bool)
}

// RenderOptions carries per-call data renderers use without mutating the
// description.
type RenderOptions struct {
	// Params supplies current values. When nil, or when an id is missing, the
	// spec default is rendered.
	Params ParamLookup
	// Advanced includes panels marked advanced. Hidden params are always
	// skipped unless ShowHidden is set.
	Advanced   bool
	ShowHidden bool
}
