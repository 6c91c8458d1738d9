package render_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-paramform/pkg/model"
	"github.com/goliatone/go-paramform/pkg/parser"
	"github.com/goliatone/go-paramform/pkg/render"
	"github.com/goliatone/go-paramform/pkg/widgets"
)

type stubRenderer struct{ name string }

func (s stubRenderer) Name() string        { return s.name }
func (s stubRenderer) ContentType() string { return "text/plain" }
func (s stubRenderer) Render(_ context.Context, exe *parser.Executable, _ render.RenderOptions) ([]byte, error) {
	return []byte(s.name + ":" + exe.Title), nil
}

func TestRegistry(t *testing.T) {
	registry, err := render.NewRegistry(stubRenderer{"b"}, stubRenderer{"a"})
	if err != nil {
		t.Fatalf("new registry: %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if err := registry.Register(stubRenderer{"a"}); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(stubRenderer{}); err == nil {
		t.Fatalf("expected error for unnamed renderer")
	}

	out, err := registry.Render(context.Background(), "b", &parser.Executable{Title: "T"}, render.RenderOptions{})
	if err != nil || string(out) != "b:T" {
		t.Fatalf("render = %q, %v", out, err)
	}
	if _, err := registry.Get("html"); err == nil || !strings.Contains(err.Error(), "available: [a b]") {
		t.Fatalf("expected lookup error listing names, got %v", err)
	}
}

func TestNewView(t *testing.T) {
	count := &model.Spec{ID: "count", Title: "Count", Type: widgets.TypeInteger, Channel: widgets.ChannelInput, Default: 2.0}
	secret := &model.Spec{ID: "secret", Type: widgets.TypeString, Channel: widgets.ChannelInput, Hidden: true}
	input := &model.Spec{ID: "input", Type: widgets.TypeFile, Channel: widgets.ChannelInput, Default: widgets.Unset}
	exe := &parser.Executable{
		Title: "Demo",
		Panels: []parser.Panel{
			{ID: "p1", Label: "Main", Params: []*model.Spec{count, secret}},
			{ID: "p2", Label: "Extra", Advanced: true, Params: []*model.Spec{input}},
		},
	}

	view := render.NewView(exe, render.RenderOptions{})
	if len(view.Panels) != 1 || len(view.Panels[0].Params) != 1 {
		t.Fatalf("expected only the visible basic param, got %+v", view.Panels)
	}
	want := render.ParamView{
		ID: "count", Title: "Count", Type: "integer", Channel: "input", Valid: true,
		Entries: []render.EntryView{{Key: "count", Value: "2"}},
	}
	if diff := cmp.Diff(want, view.Panels[0].Params[0]); diff != "" {
		t.Fatalf("param view mismatch (-want +got):\n%s", diff)
	}

	full := render.NewView(exe, render.RenderOptions{Advanced: true, ShowHidden: true})
	if diff := cmp.Diff([]string{"input"}, full.Invalid); diff != "" {
		t.Fatalf("invalid mismatch (-want +got):\n%s", diff)
	}
	if got := len(full.Panels[0].Params); got != 2 {
		t.Fatalf("expected hidden param with ShowHidden, got %d params", got)
	}
	if render.NewView(nil, render.RenderOptions{}).Panels != nil {
		t.Fatalf("nil executable must produce an empty view")
	}
}
