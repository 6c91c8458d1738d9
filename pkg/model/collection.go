package model

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// ErrDuplicateID is returned when a param id is already present in a
// collection.
var ErrDuplicateID = errors.New("model: duplicate parameter id")

// ValidationError lists the params whose current value is invalid.
type ValidationError struct {
	IDs    []string
	Titles []string
}

func (e *ValidationError) Error() string {
	return "Please enter a valid value for: " + strings.Join(e.Titles, ", ")
}

// Collection is an ordered set of params keyed by id.
type Collection struct {
	mu     sync.RWMutex
	params []*Param
	index  map[string]int
}

// NewCollection builds a collection in the given order. It fails on the first
// duplicate id.
func NewCollection(params ...*Param) (*Collection, error) {
	c := &Collection{index: make(map[string]int, len(params))}
	for _, p := range params {
		if err := c.Add(p); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// FromSpecs creates one param per spec, applying opts to each.
func FromSpecs(specs []*Spec, opts ...ParamOption) (*Collection, error) {
	params := make([]*Param, 0, len(specs))
	for _, spec := range specs {
		params = append(params, New(spec, opts...))
	}
	return NewCollection(params...)
}

// Add appends p. Params sharing an id with an existing entry are rejected.
func (c *Collection) Add(p *Param) error {
	if p == nil {
		return errors.New("model: param is required")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.index == nil {
		c.index = make(map[string]int)
	}
	id := p.ID()
	if _, exists := c.index[id]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicateID, id)
	}
	c.index[id] = len(c.params)
	c.params = append(c.params, p)
	return nil
}

// Get returns the param registered under id.
func (c *Collection) Get(id string) (*Param, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	idx, ok := c.index[id]
	if !ok {
		return nil, false
	}
	return c.params[idx], true
}

// Params returns the params in schema order.
func (c *Collection) Params() []*Param {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]*Param(nil), c.params...)
}

// Len returns the number of params.
func (c *Collection) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.params)
}

// Values flattens every param into the submission payload. Reference params
// without a usable value contribute no keys.
func (c *Collection) Values() Payload {
	out := make(Payload)
	for _, p := range c.Params() {
		for _, entry := range p.Entries() {
			out[entry.Key] = entry.Value
		}
	}
	return out
}

// Invalid returns the params whose current value is invalid, in order.
func (c *Collection) Invalid() []*Param {
	var invalid []*Param
	for _, p := range c.Params() {
		if !p.IsValid() {
			invalid = append(invalid, p)
		}
	}
	return invalid
}

// Validate returns a *ValidationError naming every invalid param, or nil.
func (c *Collection) Validate() error {
	invalid := c.Invalid()
	if len(invalid) == 0 {
		return nil
	}
	err := &ValidationError{
		IDs:    make([]string, 0, len(invalid)),
		Titles: make([]string, 0, len(invalid)),
	}
	for _, p := range invalid {
		err.IDs = append(err.IDs, p.ID())
		err.Titles = append(err.Titles, p.Title())
	}
	return err
}

// Apply assigns values by param id and returns the sorted ids that matched
// no param.
func (c *Collection) Apply(values map[string]any) []string {
	var unknown []string
	for id, raw := range values {
		p, ok := c.Get(id)
		if !ok {
			unknown = append(unknown, id)
			continue
		}
		p.Set(raw)
	}
	sort.Strings(unknown)
	return unknown
}

// Reset restores every param to its default.
func (c *Collection) Reset() {
	for _, p := range c.Params() {
		p.Reset()
	}
}

// Merge combines the payloads of several collections. Later collections win
// on key collisions.
func Merge(collections ...*Collection) Payload {
	out := make(Payload)
	for _, c := range collections {
		if c == nil {
			continue
		}
		for key, value := range c.Values() {
			out[key] = value
		}
	}
	return out
}
