package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-paramform/internal/schema/loader"
	"github.com/goliatone/go-paramform/pkg/model"
	"github.com/goliatone/go-paramform/pkg/parser"
	"github.com/goliatone/go-paramform/pkg/schema"
	"github.com/goliatone/go-paramform/pkg/submit"
)

// Parser turns a loaded document into an executable description.
type Parser interface {
	Parse(ctx context.Context, doc schema.Document) (*parser.Executable, error)
}

// Submitter posts a payload to a task's run endpoint.
type Submitter interface {
	Submit(ctx context.Context, task string, payload model.Payload) (submit.Job, error)
}

var (
	// ErrNoAnalysis is returned by operations that need a loaded description.
	ErrNoAnalysis = errors.New("orchestrator: no analysis loaded")
	// ErrNoSubmitter is returned by Submit when no submitter is configured.
	ErrNoSubmitter = errors.New("orchestrator: submitter is not configured")
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithLoader injects a custom schema loader.
func WithLoader(l schema.Loader) Option {
	return func(o *Orchestrator) {
		o.loader = l
	}
}

// WithParser injects a custom parser.
func WithParser(p Parser) Option {
	return func(o *Orchestrator) {
		o.parser = p
	}
}

// WithSubmitter injects the job submitter.
func WithSubmitter(s Submitter) Option {
	return func(o *Orchestrator) {
		o.submitter = s
	}
}

// WithClient wires a job-server client as loader, submitter and server base.
func WithClient(client *submit.Client) Option {
	return func(o *Orchestrator) {
		if client == nil {
			return
		}
		o.loader = client.Loader()
		o.submitter = client
		o.base = client.Base()
	}
}

// WithServer sets the base URL task paths are resolved against.
func WithServer(base string) Option {
	return func(o *Orchestrator) {
		o.base = strings.TrimRight(base, "/")
	}
}

// WithTransformer registers a Transformer that runs after parsing and before
// panels are built.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithObserver is attached to every param created by the session.
func WithObserver(observer model.Observer) Option {
	return func(o *Orchestrator) {
		if observer != nil {
			o.observers = append(o.observers, observer)
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Panel is one editable group of params.
type Panel struct {
	ID          string
	Label       string
	Description string
	Advanced    bool
	Params      *model.Collection
}

// Orchestrator holds the state of one editing session: the loaded analysis,
// its panels and their params.
type Orchestrator struct {
	loader      schema.Loader
	parser      Parser
	submitter   Submitter
	transformer Transformer
	observers   []model.Observer
	logger      *slog.Logger
	base        string

	mu     sync.RWMutex
	task   string
	exe    *parser.Executable
	panels []Panel
}

// New constructs an Orchestrator applying any provided options. Missing
// dependencies are initialised with the built-in implementations.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	o.logger = o.logger.With("component", "orchestrator")
	if o.loader == nil {
		o.loader = loader.New(schema.NewLoaderOptions(schema.WithHTTPFallback(0)))
	}
	if o.parser == nil {
		o.parser = parser.New(parser.WithLogger(o.logger))
	}
	return o
}

// SetAnalysis loads "<task>/xmlspec" from the configured server and makes it
// the current analysis. Submissions then go to "<task>/run". An empty task
// resets the session.
func (o *Orchestrator) SetAnalysis(ctx context.Context, task string) error {
	task = strings.Trim(task, "/ ")
	if task == "" {
		o.Reset()
		return nil
	}
	if o.base == "" {
		return errors.New("orchestrator: server base url is not configured")
	}
	return o.load(ctx, task, schema.SourceFromTask(o.base, task), nil)
}

// Load reads src and makes it the current analysis. task names the run
// endpoint used by Submit and may be empty for offline use.
func (o *Orchestrator) Load(ctx context.Context, task string, src schema.Source) error {
	if src == nil {
		return errors.New("orchestrator: source is required")
	}
	return o.load(ctx, strings.Trim(task, "/ "), src, nil)
}

// LoadDocument makes an already loaded document the current analysis.
func (o *Orchestrator) LoadDocument(ctx context.Context, task string, doc schema.Document) error {
	return o.load(ctx, strings.Trim(task, "/ "), nil, &doc)
}

// load parses and builds the new state before swapping it in. Any failure
// leaves the previous analysis and its edited values untouched.
func (o *Orchestrator) load(ctx context.Context, task string, src schema.Source, doc *schema.Document) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	var document schema.Document
	if doc != nil {
		document = *doc
	} else {
		loaded, err := o.loader.Load(ctx, src)
		if err != nil {
			return fmt.Errorf("orchestrator: load document: %w", err)
		}
		document = loaded
	}

	exe, err := o.parser.Parse(ctx, document)
	if err != nil {
		o.logger.Error("invalid analysis description", "location", document.Location(), "error", err)
		return fmt.Errorf("orchestrator: parse document: %w", err)
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, exe); err != nil {
			return fmt.Errorf("orchestrator: transform document: %w", err)
		}
	}

	panels, err := o.buildPanels(exe)
	if err != nil {
		return err
	}

	o.mu.Lock()
	o.task = task
	o.exe = exe
	o.panels = panels
	o.mu.Unlock()

	o.logger.Info("analysis loaded", "title", exe.Title, "panels", len(panels), "diagnostics", len(exe.Diagnostics))
	return nil
}

// buildPanels creates fresh params for every panel. Ids must be unique across
// the whole analysis since all panels flatten into one payload.
func (o *Orchestrator) buildPanels(exe *parser.Executable) ([]Panel, error) {
	opts := make([]model.ParamOption, 0, len(o.observers))
	for _, observer := range o.observers {
		opts = append(opts, model.WithObserver(observer))
	}

	seen := make(map[string]string)
	panels := make([]Panel, 0, len(exe.Panels))
	for _, p := range exe.Panels {
		for _, spec := range p.Params {
			if other, ok := seen[spec.ID]; ok {
				return nil, fmt.Errorf("orchestrator: %w: %q in panels %q and %q", model.ErrDuplicateID, spec.ID, other, p.Label)
			}
			seen[spec.ID] = p.Label
		}
		collection, err := model.FromSpecs(p.Params, opts...)
		if err != nil {
			return nil, fmt.Errorf("orchestrator: panel %q: %w", p.Label, err)
		}
		panels = append(panels, Panel{
			ID:          p.ID,
			Label:       p.Label,
			Description: p.Description,
			Advanced:    p.Advanced,
			Params:      collection,
		})
	}
	return panels, nil
}

// Executable returns the current analysis description, or nil.
func (o *Orchestrator) Executable() *parser.Executable {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.exe
}

// Task returns the current task path.
func (o *Orchestrator) Task() string {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.task
}

// Panels returns the current panels in document order.
func (o *Orchestrator) Panels() []Panel {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return append([]Panel(nil), o.panels...)
}

// Params returns every param, optionally restricted to one panel id.
func (o *Orchestrator) Params(panelID string) []*model.Param {
	var out []*model.Param
	for _, panel := range o.Panels() {
		if panelID != "" && panel.ID != panelID {
			continue
		}
		out = append(out, panel.Params.Params()...)
	}
	return out
}

// Param looks a param up by id across all panels.
func (o *Orchestrator) Param(id string) (*model.Param, bool) {
	for _, panel := range o.Panels() {
		if p, ok := panel.Params.Get(id); ok {
			return p, true
		}
	}
	return nil, false
}

// InvalidParams returns the invalid params, optionally restricted to one panel.
func (o *Orchestrator) InvalidParams(panelID string) []*model.Param {
	var out []*model.Param
	for _, p := range o.Params(panelID) {
		if !p.IsValid() {
			out = append(out, p)
		}
	}
	return out
}

// Validate returns a *model.ValidationError naming every invalid param.
func (o *Orchestrator) Validate() error {
	invalid := o.InvalidParams("")
	if len(invalid) == 0 {
		return nil
	}
	verr := &model.ValidationError{}
	for _, p := range invalid {
		verr.IDs = append(verr.IDs, p.ID())
		verr.Titles = append(verr.Titles, p.Title())
	}
	return verr
}

// Parameters flattens every panel into the submission payload.
func (o *Orchestrator) Parameters() model.Payload {
	panels := o.Panels()
	collections := make([]*model.Collection, 0, len(panels))
	for _, panel := range panels {
		collections = append(collections, panel.Params)
	}
	return model.Merge(collections...)
}

// Apply assigns values by param id across panels and returns the ids that
// matched nothing.
func (o *Orchestrator) Apply(values map[string]any) []string {
	var unknown []string
	for id, raw := range values {
		p, ok := o.Param(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		p.Set(raw)
	}
	sort.Strings(unknown)
	return unknown
}

// Submit validates the session and posts the payload to "<task>/run". Nothing
// is sent while any param is invalid.
func (o *Orchestrator) Submit(ctx context.Context) (submit.Job, error) {
	if o.submitter == nil {
		return submit.Job{}, ErrNoSubmitter
	}
	task := o.Task()
	if o.Executable() == nil {
		return submit.Job{}, ErrNoAnalysis
	}
	if err := o.Validate(); err != nil {
		return submit.Job{}, err
	}
	job, err := o.submitter.Submit(ctx, task, o.Parameters())
	if err != nil {
		return submit.Job{}, fmt.Errorf("orchestrator: submit: %w", err)
	}
	o.logger.Info("job submitted", "task", task, "job", job.ID)
	return job, nil
}

// RemovePanel drops a panel from the session.
func (o *Orchestrator) RemovePanel(id string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	for i, panel := range o.panels {
		if panel.ID == id {
			o.panels = append(o.panels[:i:i], o.panels[i+1:]...)
			return true
		}
	}
	return false
}

// Reload rebuilds every panel from the current analysis, discarding edits.
func (o *Orchestrator) Reload() error {
	exe := o.Executable()
	if exe == nil {
		return ErrNoAnalysis
	}
	panels, err := o.buildPanels(exe)
	if err != nil {
		return err
	}
	o.mu.Lock()
	o.panels = panels
	o.mu.Unlock()
	return nil
}

// Reset removes the analysis and all panels.
func (o *Orchestrator) Reset() {
	o.mu.Lock()
	o.task = ""
	o.exe = nil
	o.panels = nil
	o.mu.Unlock()
}
