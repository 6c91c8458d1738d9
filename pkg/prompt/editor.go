package prompt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/goliatone/go-paramform/pkg/model"
	"github.com/goliatone/go-paramform/pkg/orchestrator"
	"github.com/goliatone/go-paramform/pkg/widgets"
)

// Option configures an Editor.
type Option func(*Editor)

// WithDriver overrides the prompt driver.
func WithDriver(driver Driver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// WithSelector resolves reference-typed params through a selection workflow
// instead of asking for raw ids.
func WithSelector(selector model.Selector) Option {
	return func(e *Editor) {
		e.selector = selector
	}
}

// WithAdvanced edits advanced panels without asking first.
func WithAdvanced(enabled bool) Option {
	return func(e *Editor) {
		e.advanced = enabled
	}
}

// WithHidden includes params the description marks hidden.
func WithHidden(enabled bool) Option {
	return func(e *Editor) {
		e.hidden = enabled
	}
}

// WithOnlyInvalid limits prompting to params whose value is not valid yet.
func WithOnlyInvalid(enabled bool) Option {
	return func(e *Editor) {
		e.onlyInvalid = enabled
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Editor) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// Editor walks the panels of a loaded analysis and asks for each value.
type Editor struct {
	driver      Driver
	selector    model.Selector
	advanced    bool
	hidden      bool
	onlyInvalid bool
	logger      *slog.Logger
}

// New constructs an Editor backed by the survey driver unless overridden.
func New(options ...Option) *Editor {
	e := &Editor{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.driver == nil {
		e.driver = NewSurveyDriver()
	}
	e.logger = e.logger.With("component", "prompt")
	return e
}

// Edit prompts for every panel of o in order.
func (e *Editor) Edit(ctx context.Context, o *orchestrator.Orchestrator) error {
	if ctx == nil {
		return errors.New("prompt: context is required")
	}
	if o == nil || o.Executable() == nil {
		return orchestrator.ErrNoAnalysis
	}
	for _, panel := range o.Panels() {
		if err := e.EditPanel(ctx, panel); err != nil {
			return err
		}
	}
	return nil
}

// EditPanel prompts for the params of one panel. Advanced panels are
// confirmed first unless WithAdvanced is set.
func (e *Editor) EditPanel(ctx context.Context, panel orchestrator.Panel) error {
	if panel.Params == nil {
		return nil
	}
	params := e.pending(panel.Params.Params())
	if len(params) == 0 {
		return nil
	}

	if panel.Advanced && !e.advanced {
		ok, err := e.driver.Confirm(ctx, ConfirmConfig{
			Message: fmt.Sprintf("Edit advanced parameters in %q?", panel.Label),
			Help:    panel.Description,
		})
		if err != nil {
			return err
		}
		if !ok {
			e.logger.Debug("skip advanced panel", "panel", panel.ID)
			return nil
		}
	}

	for _, p := range params {
		if err := e.EditParam(ctx, p); err != nil {
			return err
		}
	}
	return nil
}

func (e *Editor) pending(params []*model.Param) []*model.Param {
	out := make([]*model.Param, 0, len(params))
	for _, p := range params {
		if p.Spec().Hidden && !e.hidden {
			continue
		}
		if e.onlyInvalid && p.IsValid() {
			continue
		}
		out = append(out, p)
	}
	return out
}

// EditParam asks for a single value, re-prompting until it is acceptable.
func (e *Editor) EditParam(ctx context.Context, p *model.Param) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	e.logger.Debug("prompt param", "id", p.ID(), "type", p.Type().String())

	t := p.Type()
	switch {
	case t == widgets.TypeUnknown:
		return e.driver.Info(ctx, fmt.Sprintf("Skipping %s: unsupported parameter type", p.ID()))
	case t.IsReference() && e.selector != nil:
		return e.promptSelection(ctx, p)
	case t.IsComposite():
		return e.promptTarget(ctx, p)
	case t == widgets.TypeRegion:
		return e.promptRegion(ctx, p)
	case t.IsReference():
		return e.promptReference(ctx, p)
	case t.IsBoolean():
		return e.promptBoolean(ctx, p)
	case t.IsEnumeration():
		return e.promptEnum(ctx, p)
	default:
		return e.promptText(ctx, p)
	}
}

func (e *Editor) promptBoolean(ctx context.Context, p *model.Param) error {
	resp, err := e.driver.Confirm(ctx, ConfirmConfig{
		Message: p.Title(),
		Default: widgets.Truthy(p.Raw()),
		Help:    p.Spec().Description,
	})
	if err != nil {
		return err
	}
	p.Set(resp)
	return nil
}

func (e *Editor) promptEnum(ctx context.Context, p *model.Param) error {
	spec := p.Spec()
	options := make([]string, len(spec.Candidates))
	for i, candidate := range spec.Candidates {
		options[i] = widgets.Stringify(candidate)
	}
	if len(options) == 0 {
		return e.driver.Info(ctx, fmt.Sprintf("Skipping %s: no choices declared", p.ID()))
	}

	defaultIdx := -1
	if p.IsValid() {
		defaultIdx = indexOf(options, widgets.Stringify(p.Value()))
	}

	for {
		idx, err := e.driver.Select(ctx, SelectConfig{
			Message:      p.Title(),
			Options:      options,
			DefaultIndex: defaultIdx,
			Help:         spec.Description,
		})
		if err != nil {
			return err
		}
		if idx < 0 || idx >= len(options) {
			_ = e.driver.Info(ctx, fmt.Sprintf("Invalid %s selection", p.ID()))
			continue
		}
		p.Set(options[idx])
		return nil
	}
}

// promptText covers numbers, strings, colors and vectors: all accept typed
// text that the widget rule validates.
func (e *Editor) promptText(ctx context.Context, p *model.Param) error {
	spec := p.Spec()
	defaultVal := ""
	if p.IsValid() {
		defaultVal = widgets.Stringify(p.Value())
	}

	for {
		input, err := e.driver.Input(ctx, InputConfig{
			Message: p.Title(),
			Default: defaultVal,
			Help:    helpFor(spec),
		})
		if err != nil {
			return err
		}
		input = strings.TrimSpace(input)
		if !widgets.Valid(spec.Type, input, spec.Rules()) {
			_ = e.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", p.ID(), expectation(spec)))
			continue
		}
		p.Set(input)
		return nil
	}
}

func (e *Editor) promptReference(ctx context.Context, p *model.Param) error {
	spec := p.Spec()
	kind := kindFor(spec.Type)
	defaultVal := ""
	if ref, ok := widgets.AsReference(p.Raw()); ok {
		defaultVal = ref.ID()
	}

	for {
		id, err := e.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("%s (%s id)", p.Title(), kind),
			Default: defaultVal,
			Help:    spec.Description,
		})
		if err != nil {
			return err
		}
		id = strings.TrimSpace(id)
		if id == "" {
			_ = e.driver.Info(ctx, fmt.Sprintf("Invalid %s: a %s id is required", p.ID(), kind))
			continue
		}
		p.Set(widgets.NewRef(kind, id, ""))
		return nil
	}
}

func (e *Editor) promptTarget(ctx context.Context, p *model.Param) error {
	spec := p.Spec()
	var (
		defaultName   string
		defaultParent string
	)
	if current, ok := p.Raw().(widgets.Target); ok {
		defaultName = current.TargetName
		if ref, ok := widgets.AsReference(current.Parent); ok {
			defaultParent = ref.ID()
		}
	}

	for {
		name, err := e.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("%s (name)", p.Title()),
			Default: defaultName,
			Help:    helpFor(spec),
		})
		if err != nil {
			return err
		}
		parentID, err := e.driver.Input(ctx, InputConfig{
			Message: fmt.Sprintf("%s (parent folder id)", p.Title()),
			Default: defaultParent,
		})
		if err != nil {
			return err
		}

		target, err := widgets.NewTarget(spec.Type, name, widgets.NewRef(widgets.KindFolder, parentID, ""))
		if err != nil {
			_ = e.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", p.ID(), err))
			continue
		}
		p.Set(target)
		return nil
	}
}

func (e *Editor) promptRegion(ctx context.Context, p *model.Param) error {
	spec := p.Spec()
	defaultVal := ""
	if p.IsValid() {
		defaultVal = widgets.Stringify(p.Value())
	}

	for {
		input, err := e.driver.Input(ctx, InputConfig{
			Message: p.Title(),
			Default: defaultVal,
			Help:    "Comma separated center coordinates followed by radii",
		})
		if err != nil {
			return err
		}
		values, ok := widgets.NumberVector(strings.TrimSpace(input))
		if !ok || len(values) == 0 {
			_ = e.driver.Info(ctx, fmt.Sprintf("Invalid %s: %s", p.ID(), expectation(spec)))
			continue
		}
		p.Set(widgets.Region(values))
		return nil
	}
}

func (e *Editor) promptSelection(ctx context.Context, p *model.Param) error {
	for {
		err := p.Select(ctx, e.selector)
		if err == nil {
			return nil
		}
		if !errors.Is(err, model.ErrSelectionShape) && !errors.Is(err, widgets.ErrTargetNameRequired) && !errors.Is(err, widgets.ErrTargetParent) {
			return err
		}
		_ = e.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", p.ID(), err))
	}
}

func kindFor(t widgets.Type) widgets.ResourceKind {
	switch {
	case t.IsFile():
		return widgets.KindFile
	case t.IsItem():
		return widgets.KindItem
	default:
		return widgets.KindFolder
	}
}

func helpFor(spec *model.Spec) string {
	if spec.Extensions == "" {
		return spec.Description
	}
	if spec.Description == "" {
		return "Extensions: " + spec.Extensions
	}
	return spec.Description + " (extensions: " + spec.Extensions + ")"
}

// expectation describes what the widget rule accepts, for re-prompt messages.
func expectation(spec *model.Spec) string {
	t := spec.Type
	switch {
	case t == widgets.TypeRegion:
		return "expected comma separated numbers"
	case t.IsVector() && t.IsNumeric():
		return "expected comma separated numbers"
	case t.IsColor():
		return "expected a color name, #rrggbb or rgb(r,g,b)"
	case t.IsNumeric():
		c := spec.Constraints
		kind := "a number"
		if t == widgets.TypeInteger {
			kind = "an integer"
		}
		var bounds []string
		if c.Min != nil {
			bounds = append(bounds, ">= "+widgets.FormatNumber(*c.Min))
		}
		if c.Max != nil {
			bounds = append(bounds, "<= "+widgets.FormatNumber(*c.Max))
		}
		if c.Step != nil {
			bounds = append(bounds, "in steps of "+widgets.FormatNumber(*c.Step))
		}
		if len(bounds) == 0 {
			return "expected " + kind
		}
		return "expected " + kind + " " + strings.Join(bounds, ", ")
	}
	return "value rejected"
}
