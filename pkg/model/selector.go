package model

import (
	"context"

	"github.com/goliatone/go-paramform/pkg/widgets"
)

// SelectRequest describes the parameter a selection workflow is asked to
// populate.
type SelectRequest struct {
	ID         string
	Type       widgets.Type
	Channel    widgets.Channel
	Extensions string
	Current    any
	Path       []string
}

// Selection is the value a selection workflow resolved, with the storage
// breadcrumb the user navigated to reach it.
type Selection struct {
	Value any
	Path  []string
}

// Selector resolves remote objects (files, items, folders, new output
// targets) for reference-typed params. Implementations may perform network
// calls and must honour ctx cancellation.
type Selector interface {
	Select(ctx context.Context, req SelectRequest) (Selection, error)
}

// SelectorFunc adapts a function into a Selector.
type SelectorFunc func(ctx context.Context, req SelectRequest) (Selection, error)

// Select calls the underlying function.
func (fn SelectorFunc) Select(ctx context.Context, req SelectRequest) (Selection, error) {
	return fn(ctx, req)
}
