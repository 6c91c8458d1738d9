package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/goliatone/go-paramform/pkg/model"
	"github.com/goliatone/go-paramform/pkg/parser"
)

// Transformer rewrites a parsed description before panels are built.
// Implementations can relabel parameters, hide them, or replace defaults.
type Transformer interface {
	Transform(ctx context.Context, exe *parser.Executable) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, exe *parser.Executable) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, exe *parser.Executable) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, exe)
}

// PresetTransformer applies declarative overrides loaded from a JSON file:
//
//	{
//	  "title": "Custom title",
//	  "parameters": {
//	    "lower": {"label": "Lower bound", "default": "1.5"},
//	    "roi": {"hidden": true}
//	  },
//	  "panels": {"Thresholds": {"advanced": false}}
//	}
type PresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Title      string                `json:"title"`
	Parameters map[string]paramPatch `json:"parameters"`
	Panels     map[string]panelPatch `json:"panels"`
}

type paramPatch struct {
	Label       string  `json:"label"`
	Description string  `json:"description"`
	Default     *string `json:"default"`
	Hidden      *bool   `json:"hidden"`
}

type panelPatch struct {
	Label    string `json:"label"`
	Advanced *bool  `json:"advanced"`
}

// NewPresetTransformer constructs a transformer from raw JSON bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}
	return &PresetTransformer{document: document}, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the patches. Specs are shared read-only, so patched
// parameters are replaced by modified copies. Unknown parameter ids fail the
// transform.
func (t *PresetTransformer) Transform(ctx context.Context, exe *parser.Executable) error {
	if exe == nil {
		return errors.New("preset transformer: executable is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Title != "" {
		exe.Title = t.document.Title
	}

	seen := make(map[string]bool, len(t.document.Parameters))
	for i := range exe.Panels {
		panel := &exe.Panels[i]
		if patch, ok := t.document.Panels[panel.Label]; ok {
			if patch.Label != "" {
				panel.Label = patch.Label
			}
			if patch.Advanced != nil {
				panel.Advanced = *patch.Advanced
			}
		}
		for j, spec := range panel.Params {
			patch, ok := t.document.Parameters[spec.ID]
			if !ok {
				continue
			}
			seen[spec.ID] = true
			panel.Params[j] = applyParamPatch(spec, patch)
		}
	}

	for id := range t.document.Parameters {
		if !seen[id] {
			return fmt.Errorf("preset transformer: parameter %q not found", id)
		}
	}
	return nil
}

func applyParamPatch(spec *model.Spec, patch paramPatch) *model.Spec {
	clone := *spec
	if patch.Label != "" {
		clone.Title = patch.Label
	}
	if patch.Description != "" {
		clone.Description = patch.Description
	}
	if patch.Hidden != nil {
		clone.Hidden = *patch.Hidden
	}
	if patch.Default != nil {
		clone.Default = parser.DefaultFromText(clone.Type, *patch.Default, clone.Rules())
	}
	return &clone
}
