// Package structured renders descriptions as JSON or YAML documents built from
// render.View.
package structured

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-paramform/pkg/parser"
	"github.com/goliatone/go-paramform/pkg/render"
)

// Format selects the encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// Renderer encodes render.View in one format.
type Renderer struct {
	format Format
	indent int
}

var _ render.Renderer = (*Renderer)(nil)

// NewJSON returns the JSON renderer.
func NewJSON() *Renderer { return &Renderer{format: FormatJSON, indent: 2} }

// NewYAML returns the YAML renderer.
func NewYAML() *Renderer { return &Renderer{format: FormatYAML, indent: 2} }

func (r *Renderer) Name() string { return string(r.format) }

func (r *Renderer) ContentType() string {
	if r.format == FormatYAML {
		return "application/yaml"
	}
	return "application/json"
}

// Render encodes the View of exe.
func (r *Renderer) Render(ctx context.Context, exe *parser.Executable, options render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("structured: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if exe == nil {
		return nil, errors.New("structured: executable is nil")
	}
	view := render.NewView(exe, options)

	switch r.format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(r.indent)
		if err := enc.Encode(view); err != nil {
			return nil, fmt.Errorf("structured: encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("structured: encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		out, err := json.MarshalIndentWithOption(view, "", "  ", json.DisableHTMLEscape())
		if err != nil {
			return nil, fmt.Errorf("structured: encode json: %w", err)
		}
		return append(out, '\n'), nil
	}
}
