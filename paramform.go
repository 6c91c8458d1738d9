// Package paramform turns command-line analysis descriptions (Slicer
// execution-model XML) into typed, editable parameters and flattens their
// values into the form payload a job-execution endpoint consumes.
//
// The root package only wires defaults together; the building blocks live
// under pkg/.
package paramform

import (
	"context"
	"fmt"

	"github.com/goliatone/go-paramform/internal/schema/loader"
	"github.com/goliatone/go-paramform/pkg/orchestrator"
	"github.com/goliatone/go-paramform/pkg/parser"
	"github.com/goliatone/go-paramform/pkg/render"
	"github.com/goliatone/go-paramform/pkg/renderers/structured"
	"github.com/goliatone/go-paramform/pkg/renderers/text"
	"github.com/goliatone/go-paramform/pkg/schema"
)

// NewLoader constructs a loader using the internal implementation while keeping
// the concrete type hidden from consumers.
func NewLoader(options ...schema.LoaderOption) schema.Loader {
	return loader.New(schema.NewLoaderOptions(options...))
}

// NewParser constructs a description parser.
func NewParser(options ...parser.Option) *parser.Parser {
	return parser.New(options...)
}

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Parse loads src with the default loader (HTTP allowed) and parses it.
func Parse(ctx context.Context, src schema.Source, options ...parser.Option) (*parser.Executable, error) {
	doc, err := NewLoader(schema.WithHTTPFallback(0)).Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return parser.New(options...).Parse(ctx, doc)
}

// NewRenderRegistry returns a registry holding the built-in text, json and
// yaml renderers.
func NewRenderRegistry(options ...text.Option) (*render.Registry, error) {
	textRenderer, err := text.New(options...)
	if err != nil {
		return nil, fmt.Errorf("paramform: text renderer: %w", err)
	}
	return render.NewRegistry(textRenderer, structured.NewJSON(), structured.NewYAML())
}
