package model_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-paramform/pkg/model"
	"github.com/goliatone/go-paramform/pkg/widgets"
)

func TestParamDefaults(t *testing.T) {
	boolean := model.New(&model.Spec{ID: "flag", Type: widgets.TypeBoolean, Default: false})
	if got := boolean.Value(); got != false {
		t.Fatalf("expected false default, got %v", got)
	}
	if !boolean.IsValid() {
		t.Fatalf("boolean default must be valid")
	}
	boolean.Set(map[string]any{"any": "object"})
	if got := boolean.Value(); got != true {
		t.Fatalf("expected true after assigning an object, got %v", got)
	}

	str := model.New(&model.Spec{ID: "s", Type: widgets.TypeString})
	str.Set(1)
	if got := str.Value(); got != "1" {
		t.Fatalf("expected \"1\", got %v", got)
	}

	number := model.New(&model.Spec{ID: "n", Type: widgets.TypeNumber})
	if number.IsValid() {
		t.Fatalf("number without default must be invalid")
	}
	if !widgets.IsUnset(number.Raw()) {
		t.Fatalf("expected unset raw value, got %v", number.Raw())
	}
}

func TestParamIdempotentReads(t *testing.T) {
	p := model.New(&model.Spec{ID: "v", Type: widgets.TypeNumberVector}, model.WithValue("1,2,3"))
	first := p.Value()
	second := p.Value()
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("Value() not idempotent (-first +second):\n%s", diff)
	}
	before := p.Raw()
	for i := 0; i < 3; i++ {
		p.IsValid()
	}
	if diff := cmp.Diff(before, p.Raw()); diff != "" {
		t.Fatalf("IsValid mutated the raw value:\n%s", diff)
	}
}

func TestParamValidityIsRederived(t *testing.T) {
	p := model.New(&model.Spec{
		ID:          "r",
		Type:        widgets.TypeRange,
		Constraints: widgets.Constraints{Min: widgets.Float(-10), Max: widgets.Float(10), Step: widgets.Float(0.5)},
	})
	p.Set("0.5")
	if !p.IsValid() {
		t.Fatalf("0.5 must be valid")
	}
	p.Set(0.75)
	if p.IsValid() {
		t.Fatalf("0.75 must be invalid after reassignment")
	}
}

func TestParamObserver(t *testing.T) {
	var (
		mu    sync.Mutex
		calls int
		seen  []bool
	)
	observer := model.ObserverFunc(func(p *model.Param) {
		mu.Lock()
		defer mu.Unlock()
		calls++
		seen = append(seen, p.IsValid())
		_ = p.Value()
	})

	p := model.New(&model.Spec{ID: "n", Type: widgets.TypeNumber}, model.WithObserver(observer))
	p.Set("3")
	p.Set("nope")
	p.SetPath([]string{"Collections", "data"})
	p.Reset()

	if calls != 4 {
		t.Fatalf("expected one notification per mutation, got %d", calls)
	}
	if diff := cmp.Diff([]bool{true, false, false, false}, seen); diff != "" {
		t.Fatalf("observed validity mismatch (-want +got):\n%s", diff)
	}
	if p.Path() != nil {
		t.Fatalf("expected reset to clear the path, got %v", p.Path())
	}
}

func TestParamSelect(t *testing.T) {
	folder := widgets.NewRef(widgets.KindFolder, "f1", "Outputs")

	t.Run("composite target", func(t *testing.T) {
		p := model.New(&model.Spec{ID: "out", Type: widgets.TypeNewFile, Channel: widgets.ChannelOutput})
		selector := model.SelectorFunc(func(_ context.Context, req model.SelectRequest) (model.Selection, error) {
			if req.Type != widgets.TypeNewFile || req.Channel != widgets.ChannelOutput {
				t.Fatalf("unexpected request %+v", req)
			}
			return model.Selection{
				Value: widgets.Target{TargetName: "mask.nrrd", Parent: folder},
				Path:  []string{"Collections", "Outputs"},
			}, nil
		})
		if err := p.Select(context.Background(), selector); err != nil {
			t.Fatalf("select: %v", err)
		}
		if !p.IsValid() {
			t.Fatalf("expected param to be valid after selection")
		}
		want := []widgets.Entry{
			{Key: "out_girderFolderId", Value: "f1"},
			{Key: "out_name", Value: "mask.nrrd"},
		}
		if diff := cmp.Diff(want, p.Entries()); diff != "" {
			t.Fatalf("entries mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]string{"Collections", "Outputs"}, p.Path()); diff != "" {
			t.Fatalf("path mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("missing name is rejected", func(t *testing.T) {
		p := model.New(&model.Spec{ID: "out", Type: widgets.TypeNewFile})
		selector := model.SelectorFunc(func(context.Context, model.SelectRequest) (model.Selection, error) {
			return model.Selection{Value: widgets.Target{Parent: folder}}, nil
		})
		if err := p.Select(context.Background(), selector); !errors.Is(err, widgets.ErrTargetNameRequired) {
			t.Fatalf("expected ErrTargetNameRequired, got %v", err)
		}
		if p.IsValid() {
			t.Fatalf("param must stay invalid after a rejected selection")
		}
	})

	t.Run("reference shape", func(t *testing.T) {
		p := model.New(&model.Spec{ID: "in", Type: widgets.TypeFile})
		selector := model.SelectorFunc(func(context.Context, model.SelectRequest) (model.Selection, error) {
			return model.Selection{Value: "not a reference"}, nil
		})
		if err := p.Select(context.Background(), selector); !errors.Is(err, model.ErrSelectionShape) {
			t.Fatalf("expected ErrSelectionShape, got %v", err)
		}
	})

	t.Run("reference kind must fit the type", func(t *testing.T) {
		p := model.New(&model.Spec{ID: "dir", Type: widgets.TypeDirectory})
		selector := model.SelectorFunc(func(context.Context, model.SelectRequest) (model.Selection, error) {
			return model.Selection{Value: widgets.NewRef(widgets.KindItem, "i1", "Slide")}, nil
		})
		if err := p.Select(context.Background(), selector); !errors.Is(err, model.ErrSelectionShape) {
			t.Fatalf("expected ErrSelectionShape, got %v", err)
		}
		if p.IsValid() {
			t.Fatalf("param must stay invalid after a mismatched selection")
		}
		if entries := p.Entries(); len(entries) != 0 {
			t.Fatalf("expected no entries, got %v", entries)
		}
	})

	t.Run("selector failure", func(t *testing.T) {
		p := model.New(&model.Spec{ID: "in", Type: widgets.TypeItem})
		boom := errors.New("boom")
		selector := model.SelectorFunc(func(context.Context, model.SelectRequest) (model.Selection, error) {
			return model.Selection{}, boom
		})
		if err := p.Select(context.Background(), selector); !errors.Is(err, boom) {
			t.Fatalf("expected selector error, got %v", err)
		}
	})
}

func TestUnknownParamNeverValid(t *testing.T) {
	p := model.New(nil)
	p.Set("anything")
	if p.IsValid() {
		t.Fatalf("unknown param must be invalid")
	}
	if entries := p.Entries(); entries != nil {
		t.Fatalf("unknown param must not contribute entries, got %v", entries)
	}
}
