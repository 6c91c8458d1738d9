package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/goliatone/go-paramform/pkg/widgets"
)

// Observer is notified after a Param changes. It runs outside the param lock,
// once per mutation, and may read the param freely.
type Observer interface {
	ParamChanged(*Param)
}

// ObserverFunc adapts a function into an Observer.
type ObserverFunc func(*Param)

// ParamChanged calls the underlying function.
func (fn ObserverFunc) ParamChanged(p *Param) {
	fn(p)
}

// ParamOption configures a Param at construction time.
type ParamOption func(*Param)

// WithObserver registers an observer. Nil observers are ignored.
func WithObserver(observer Observer) ParamOption {
	return func(p *Param) {
		if observer != nil {
			p.observers = append(p.observers, observer)
		}
	}
}

// WithValue seeds the param with a previously submitted value instead of the
// schema default.
func WithValue(raw any) ParamOption {
	return func(p *Param) {
		p.raw = raw
	}
}

// Param is the mutable model of one parameter in a form instance.
type Param struct {
	spec *Spec

	mu        sync.RWMutex
	raw       any
	path      []string
	observers []Observer
}

// New returns a Param seeded with the spec's default value. A nil spec
// produces a permanently invalid unknown param.
func New(spec *Spec, opts ...ParamOption) *Param {
	if spec == nil {
		spec = &Spec{Type: widgets.TypeUnknown, Channel: widgets.ChannelInput, Default: widgets.Unset}
	}
	p := &Param{spec: spec, raw: initialValue(spec)}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	return p
}

func initialValue(spec *Spec) any {
	if spec.Default == nil {
		return widgets.Unset
	}
	return spec.Default
}

// Spec returns the shared specification.
func (p *Param) Spec() *Spec { return p.spec }

// ID returns the parameter id.
func (p *Param) ID() string { return p.spec.ID }

// Type returns the widget type.
func (p *Param) Type() widgets.Type { return p.spec.Type }

// Title returns the display label.
func (p *Param) Title() string { return p.spec.Label() }

// Channel returns the parameter direction.
func (p *Param) Channel() widgets.Channel { return p.spec.Channel }

// Raw returns the value last assigned, before coercion.
func (p *Param) Raw() any {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.raw
}

// Path returns the storage breadcrumb set by the selection workflow.
func (p *Param) Path() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if len(p.path) == 0 {
		return nil
	}
	return append([]string(nil), p.path...)
}

// Value returns the raw value coerced through the type rule.
func (p *Param) Value() any {
	return widgets.Coerce(p.spec.Type, p.Raw(), p.spec.Rules())
}

// IsValid reports whether the current value satisfies the type rule.
func (p *Param) IsValid() bool {
	return widgets.Valid(p.spec.Type, p.Raw(), p.spec.Rules())
}

// Entries returns the submission entries for the current value.
func (p *Param) Entries() []widgets.Entry {
	return widgets.Encode(p.spec.Type, p.spec.ID, p.Raw(), p.spec.Rules())
}

// Set stores raw and notifies observers.
func (p *Param) Set(raw any) {
	p.mu.Lock()
	p.raw = raw
	observers := p.snapshotObservers()
	p.mu.Unlock()
	p.notify(observers)
}

// SetPath stores the storage breadcrumb and notifies observers.
func (p *Param) SetPath(path []string) {
	p.mu.Lock()
	p.path = append([]string(nil), path...)
	observers := p.snapshotObservers()
	p.mu.Unlock()
	p.notify(observers)
}

// Assign stores a value together with its breadcrumb as a single mutation.
func (p *Param) Assign(raw any, path []string) {
	p.mu.Lock()
	p.raw = raw
	p.path = append([]string(nil), path...)
	observers := p.snapshotObservers()
	p.mu.Unlock()
	p.notify(observers)
}

// Reset restores the default value and clears the breadcrumb.
func (p *Param) Reset() {
	p.mu.Lock()
	p.raw = initialValue(p.spec)
	p.path = nil
	observers := p.snapshotObservers()
	p.mu.Unlock()
	p.notify(observers)
}

func (p *Param) snapshotObservers() []Observer {
	if len(p.observers) == 0 {
		return nil
	}
	return append([]Observer(nil), p.observers...)
}

func (p *Param) notify(observers []Observer) {
	for _, observer := range observers {
		observer.ParamChanged(p)
	}
}

var ErrSelectionShape = errors.New("model: selection does not match the parameter type")

// Select asks selector for a value and assigns it. Reference types must
// receive a widgets.Reference, composite outputs a widgets.Target that passes
// widgets.NewTarget, and regions a widgets.Region. The param is left untouched
// when the selector fails or returns an unusable value.
func (p *Param) Select(ctx context.Context, selector Selector) error {
	if selector == nil {
		return errors.New("model: selector is required")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	selection, err := selector.Select(ctx, SelectRequest{
		ID:         p.spec.ID,
		Type:       p.spec.Type,
		Channel:    p.spec.Channel,
		Extensions: p.spec.Extensions,
		Current:    p.Raw(),
		Path:       p.Path(),
	})
	if err != nil {
		return fmt.Errorf("model: select %s: %w", p.spec.ID, err)
	}

	value, err := checkSelection(p.spec.Type, selection.Value)
	if err != nil {
		return fmt.Errorf("model: select %s: %w", p.spec.ID, err)
	}
	p.Assign(value, selection.Path)
	return nil
}

func checkSelection(t widgets.Type, value any) (any, error) {
	switch {
	case t.IsComposite():
		var target widgets.Target
		switch v := value.(type) {
		case widgets.Target:
			target = v
		case *widgets.Target:
			if v == nil {
				return nil, ErrSelectionShape
			}
			target = *v
		default:
			return nil, ErrSelectionShape
		}
		return widgets.NewTarget(t, target.TargetName, target.Parent)
	case t == widgets.TypeRegion:
		switch v := value.(type) {
		case widgets.Region:
			return v, nil
		case []float64:
			return widgets.Region(v), nil
		}
		return nil, ErrSelectionShape
	case t.IsReference():
		ref, ok := widgets.AsReference(value)
		if !ok || ref.ID() == "" || !widgets.KindFits(t, ref.Kind()) {
			return nil, ErrSelectionShape
		}
		return ref, nil
	}
	return value, nil
}

// Capability predicates, delegated to the widget type.

func (p *Param) IsNumeric() bool     { return p.spec.Type.IsNumeric() }
func (p *Param) IsBoolean() bool     { return p.spec.Type.IsBoolean() }
func (p *Param) IsVector() bool      { return p.spec.Type.IsVector() }
func (p *Param) IsColor() bool       { return p.spec.Type.IsColor() }
func (p *Param) IsEnumeration() bool { return p.spec.Type.IsEnumeration() }
func (p *Param) IsFile() bool        { return p.spec.Type.IsFile() }
func (p *Param) IsItem() bool        { return p.spec.Type.IsItem() }
func (p *Param) IsReference() bool   { return p.spec.Type.IsReference() }
func (p *Param) IsComposite() bool   { return p.spec.Type.IsComposite() }
