package parser

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-paramform/pkg/widgets"
)

func TestResolveTypeDecisionTable(t *testing.T) {
	in, out := widgets.ChannelInput, widgets.ChannelOutput
	cases := []struct {
		tag     string
		channel widgets.Channel
		flag    string
		want    widgets.Type
	}{
		{"directory", in, "", widgets.TypeDirectory},
		{"directory", in, "item", widgets.TypeItem},
		{"directory", in, "something", widgets.TypeDirectory},
		{"directory", out, "", widgets.TypeNewDirectory},
		{"directory", out, "item", widgets.TypeNewItem},
		{"file", in, "", widgets.TypeFile},
		{"file", out, "", widgets.TypeNewFile},
		{"image", in, "item", widgets.TypeImage},
		{"image", out, "", widgets.TypeNewFile},
		{"item", in, "", widgets.TypeItem},
		{"integer", out, "", widgets.TypeInteger},
		{"float", in, "", widgets.TypeNumber},
		{"double", in, "", widgets.TypeNumber},
		{"range", in, "", widgets.TypeRange},
		{"boolean", in, "", widgets.TypeBoolean},
		{"string", in, "", widgets.TypeString},
		{"color", in, "", widgets.TypeColor},
		{"string-vector", in, "", widgets.TypeStringVector},
		{"integer-vector", in, "", widgets.TypeNumberVector},
		{"float-vector", in, "", widgets.TypeNumberVector},
		{"double-vector", in, "", widgets.TypeNumberVector},
		{"string-enumeration", in, "", widgets.TypeStringEnumeration},
		{"integer-enumeration", in, "", widgets.TypeNumberEnumeration},
		{"float-enumeration", in, "", widgets.TypeNumberEnumeration},
		{"double-enumeration", in, "", widgets.TypeNumberEnumeration},
		{"region", in, "", widgets.TypeRegion},
		{"point", in, "", widgets.TypeUnknown},
		{"", in, "", widgets.TypeUnknown},
	}
	for _, tc := range cases {
		if got := ResolveType(tc.tag, tc.channel, tc.flag); got != tc.want {
			t.Fatalf("ResolveType(%q, %s, %q) = %s, want %s", tc.tag, tc.channel, tc.flag, got, tc.want)
		}
		if again := ResolveType(tc.tag, tc.channel, tc.flag); again != tc.want {
			t.Fatalf("ResolveType is not deterministic for %q", tc.tag)
		}
	}
}

func TestResolveConstraints(t *testing.T) {
	constraints := &node{Nodes: []node{
		leaf("min", "-1"),
		leaf("maximum", "4"),
		leaf("step", "not a number"),
	}}

	got := resolveConstraints(widgets.TypeNumber, constraints)
	want := widgets.Constraints{Min: widgets.Float(-1), Max: widgets.Float(4)}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("constraints mismatch (-want +got):\n%s", diff)
	}

	if got := resolveConstraints(widgets.TypeNumber, nil); !got.IsZero() {
		t.Fatalf("absent node must yield empty constraints, got %+v", got)
	}
	for _, typ := range []widgets.Type{widgets.TypeString, widgets.TypeNumberEnumeration, widgets.TypeNumberVector} {
		if got := resolveConstraints(typ, constraints); !got.IsZero() {
			t.Fatalf("%s must ignore numeric constraints, got %+v", typ, got)
		}
	}
}

func TestResolveDefault(t *testing.T) {
	cases := []struct {
		name    string
		typ     widgets.Type
		text    string
		present bool
		want    any
	}{
		{"absent boolean", widgets.TypeBoolean, "", false, false},
		{"absent string", widgets.TypeString, "", false, ""},
		{"absent number", widgets.TypeNumber, "", false, widgets.Unset},
		{"absent vector", widgets.TypeStringVector, "", false, widgets.Unset},
		{"blank number", widgets.TypeNumber, "  ", true, widgets.Unset},
		{"boolean false", widgets.TypeBoolean, "false", true, false},
		{"boolean True", widgets.TypeBoolean, " True ", true, true},
		{"boolean other", widgets.TypeBoolean, "yes", true, true},
		{"string kept", widgets.TypeString, " padded ", true, " padded "},
		{"number", widgets.TypeNumber, "1e-10", true, 1e-10},
		{"color", widgets.TypeColor, "#FFF", true, "#ffffff"},
		{"file", widgets.TypeFile, "/data/a.tif", true, widgets.Unset},
		{"unknown", widgets.TypeUnknown, "x", true, widgets.Unset},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := resolveDefault(tc.typ, tc.text, tc.present, widgets.Rules{})
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("default mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if got := resolveDefault(widgets.TypeNumber, "abc", true, widgets.Rules{}).(float64); !math.IsNaN(got) {
		t.Fatalf("unparsable numeric default must coerce to NaN, got %v", got)
	}
}

func leaf(name, text string) node {
	n := node{Content: text}
	n.XMLName.Local = name
	return n
}
