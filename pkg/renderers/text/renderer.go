package text

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/goliatone/go-paramform/pkg/parser"
	"github.com/goliatone/go-paramform/pkg/render"
	"github.com/goliatone/go-paramform/pkg/render/template"
	"github.com/goliatone/go-paramform/pkg/render/template/pongo"
)

//go:embed templates/*.tpl
var embedded embed.FS

// DefaultTemplate is the template used by Render.
const DefaultTemplate = "describe"

// Option configures the text renderer.
type Option func(*Renderer)

// WithTemplateRenderer swaps the template engine, for example one loading
// customised templates from disk.
func WithTemplateRenderer(engine template.TemplateRenderer) Option {
	return func(r *Renderer) {
		if engine != nil {
			r.engine = engine
		}
	}
}

// WithTemplate selects the template name rendered.
func WithTemplate(name string) Option {
	return func(r *Renderer) {
		if name != "" {
			r.template = name
		}
	}
}

// Renderer prints a human-readable summary of a description and its values.
type Renderer struct {
	engine   template.TemplateRenderer
	template string
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs a text renderer backed by the embedded templates.
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{template: DefaultTemplate}
	for _, opt := range options {
		if opt != nil {
			opt(r)
		}
	}
	if r.engine == nil {
		engine, err := pongo.New(pongo.WithFS(Templates()))
		if err != nil {
			return nil, fmt.Errorf("text: create engine: %w", err)
		}
		r.engine = engine
	}
	return r, nil
}

// Templates exposes the embedded templates so callers can start custom
// template sets from them.
func Templates() fs.FS {
	sub, err := fs.Sub(embedded, "templates")
	if err != nil {
		return embedded
	}
	return sub
}

func (r *Renderer) Name() string { return "text" }

func (r *Renderer) ContentType() string { return "text/plain; charset=utf-8" }

// Render executes the configured template with the View of exe.
func (r *Renderer) Render(ctx context.Context, exe *parser.Executable, options render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("text: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if exe == nil {
		return nil, errors.New("text: executable is nil")
	}
	out, err := r.engine.RenderTemplate(r.template, render.NewView(exe, options))
	if err != nil {
		return nil, fmt.Errorf("text: render: %w", err)
	}
	return []byte(out), nil
}
