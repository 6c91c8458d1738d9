package widgets

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestTypeNamesRoundTrip(t *testing.T) {
	for typ := TypeUnknown + 1; typ < typeCount; typ++ {
		if got := ParseType(typ.String()); got != typ {
			t.Fatalf("ParseType(%q) = %v, want %v", typ.String(), got, typ)
		}
	}
	if got := ParseType("invalid type"); got != TypeUnknown {
		t.Fatalf("expected unknown for unmapped name, got %v", got)
	}
	if int(typeCount)-1 != 18 {
		t.Fatalf("expected 18 variants, got %d", int(typeCount)-1)
	}
}

func TestCapabilities(t *testing.T) {
	type caps struct {
		Numeric, Boolean, Vector, Color, Enumeration, File, Item bool
	}
	cases := map[Type]caps{
		TypeRange:             {Numeric: true},
		TypeNumber:            {Numeric: true},
		TypeInteger:           {Numeric: true},
		TypeBoolean:           {Boolean: true},
		TypeString:            {},
		TypeColor:             {Color: true},
		TypeStringVector:      {Vector: true},
		TypeNumberVector:      {Numeric: true, Vector: true},
		TypeStringEnumeration: {Enumeration: true},
		TypeNumberEnumeration: {Numeric: true, Enumeration: true},
		TypeFile:              {File: true},
		TypeImage:             {File: true},
		TypeItem:              {Item: true},
		TypeDirectory:         {},
		TypeNewFile:           {},
		TypeNewItem:           {},
		TypeNewDirectory:      {},
		TypeRegion:            {},
		TypeUnknown:           {},
	}
	for typ, want := range cases {
		got := caps{
			Numeric:     typ.IsNumeric(),
			Boolean:     typ.IsBoolean(),
			Vector:      typ.IsVector(),
			Color:       typ.IsColor(),
			Enumeration: typ.IsEnumeration(),
			File:        typ.IsFile(),
			Item:        typ.IsItem(),
		}
		if diff := cmp.Diff(want, got); diff != "" {
			t.Fatalf("%s capabilities mismatch (-want +got):\n%s", typ, diff)
		}
	}
}

func TestRangeValidity(t *testing.T) {
	rules := Rules{Constraints: Constraints{Min: Float(-10), Max: Float(10), Step: Float(0.5)}}

	if got := Coerce(TypeRange, "0.5", rules); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	cases := []struct {
		raw  any
		want bool
	}{
		{"0.5", true},
		{"a number", false},
		{-11, false},
		{0.75, false},
		{0, true},
		{10, true},
		{-10, true},
	}
	for _, tc := range cases {
		if got := Valid(TypeRange, tc.raw, rules); got != tc.want {
			t.Fatalf("Valid(range, %v) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestNumberValidity(t *testing.T) {
	whole := Rules{Constraints: Constraints{Step: Float(1)}}
	if got := Coerce(TypeNumber, "0.5", whole); got != 0.5 {
		t.Fatalf("expected 0.5, got %v", got)
	}
	if Valid(TypeNumber, "0.5", whole) {
		t.Fatalf("fractional value must be invalid with a whole step")
	}
	if !Valid(TypeNumber, "-11", whole) {
		t.Fatalf("-11 must be valid with a whole step")
	}

	if got := Coerce(TypeNumber, "1e-10", Rules{}); got != 1e-10 {
		t.Fatalf("expected 1e-10, got %v", got)
	}
	if !Valid(TypeNumber, "1e-10", Rules{}) {
		t.Fatalf("1e-10 must be valid without constraints")
	}
	if Valid(TypeNumber, "a number", Rules{}) {
		t.Fatalf("non numeric text must be invalid")
	}
	if Valid(TypeNumber, Unset, Rules{}) {
		t.Fatalf("unset number must be invalid")
	}
	if Valid(TypeInteger, 1.5, Rules{}) {
		t.Fatalf("integer type must reject fractions")
	}
	if !Valid(TypeInteger, "4", Rules{}) {
		t.Fatalf("integer type must accept whole numbers")
	}
	if got := Coerce(TypeNumber, "bogus", Rules{}).(float64); !math.IsNaN(got) {
		t.Fatalf("expected NaN, got %v", got)
	}
}

func TestBooleanCoercion(t *testing.T) {
	cases := []struct {
		raw  any
		want bool
	}{
		{Unset, false},
		{nil, false},
		{"", false},
		{0, false},
		{0.0, false},
		{false, false},
		{struct{}{}, true},
		{map[string]any{}, true},
		{"yes", true},
		{1, true},
		{true, true},
	}
	for _, tc := range cases {
		if got := Coerce(TypeBoolean, tc.raw, Rules{}); got != tc.want {
			t.Fatalf("Coerce(boolean, %#v) = %v, want %v", tc.raw, got, tc.want)
		}
		if !Valid(TypeBoolean, tc.raw, Rules{}) {
			t.Fatalf("boolean must always be valid (%#v)", tc.raw)
		}
	}
}

func TestStringCoercion(t *testing.T) {
	if got := Coerce(TypeString, 1, Rules{}); got != "1" {
		t.Fatalf("expected \"1\", got %v", got)
	}
	if got := Coerce(TypeString, Unset, Rules{}); got != "" {
		t.Fatalf("expected empty string, got %v", got)
	}
	if !Valid(TypeString, Unset, Rules{}) {
		t.Fatalf("string must be valid when unset")
	}
}

func TestColorCoercion(t *testing.T) {
	cases := []struct {
		raw  any
		want string
	}{
		{"#ffffff", "#ffffff"},
		{"#FFF", "#ffffff"},
		{"red", "#ff0000"},
		{"rgb(0,255,0)", "#00ff00"},
		{"rgb(0, 255, 0)", "#00ff00"},
		{[]any{255, 255, 0}, "#ffff00"},
		{[]float64{255, 255, 0}, "#ffff00"},
	}
	for _, tc := range cases {
		if got := Coerce(TypeColor, tc.raw, Rules{}); got != tc.want {
			t.Fatalf("Coerce(color, %v) = %v, want %v", tc.raw, got, tc.want)
		}
		if !Valid(TypeColor, tc.raw, Rules{}) {
			t.Fatalf("expected %v to be a valid color", tc.raw)
		}
	}
	for _, raw := range []any{"not a color", []any{256, 0, 0}, []any{1, 2}, "rgb(1,2)", Unset, 12} {
		if Valid(TypeColor, raw, Rules{}) {
			t.Fatalf("expected %v to be invalid", raw)
		}
	}
}

func TestStringVector(t *testing.T) {
	if diff := cmp.Diff([]string{"a", "b", "c"}, Coerce(TypeStringVector, "a,b,c", Rules{})); diff != "" {
		t.Fatalf("split mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "1", "2"}, Coerce(TypeStringVector, []any{"a", 1, "2"}, Rules{})); diff != "" {
		t.Fatalf("array mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"one", "two"}, Coerce(TypeStringVector, " one , two ", Rules{})); diff != "" {
		t.Fatalf("trim mismatch (-want +got):\n%s", diff)
	}
	if !Valid(TypeStringVector, "a,b,c", Rules{}) || !Valid(TypeStringVector, []any{"a", 1, "2"}, Rules{}) {
		t.Fatalf("string vectors must be valid once assigned")
	}
}

func TestNumberVector(t *testing.T) {
	for _, raw := range []any{"a,b,c", []any{"a", 1, "2"}, Unset} {
		if Valid(TypeNumberVector, raw, Rules{}) {
			t.Fatalf("expected %v to be invalid", raw)
		}
	}
	cases := []struct {
		raw  any
		want []float64
	}{
		{"1,2,3", []float64{1, 2, 3}},
		{[]any{"0", 1, "2"}, []float64{0, 1, 2}},
	}
	for _, tc := range cases {
		if diff := cmp.Diff(tc.want, Coerce(TypeNumberVector, tc.raw, Rules{})); diff != "" {
			t.Fatalf("coerce %v mismatch (-want +got):\n%s", tc.raw, diff)
		}
		if !Valid(TypeNumberVector, tc.raw, Rules{}) {
			t.Fatalf("expected %v to be valid", tc.raw)
		}
	}
	got := Coerce(TypeNumberVector, "1,x", Rules{})
	if diff := cmp.Diff([]float64{1, math.NaN()}, got, cmpopts.EquateNaNs()); diff != "" {
		t.Fatalf("NaN element mismatch (-want +got):\n%s", diff)
	}
}

func TestEnumerations(t *testing.T) {
	strRules := Rules{Candidates: CoerceCandidates(TypeStringEnumeration, []any{"value 1", "value 2", "value 3"})}
	for raw, want := range map[string]bool{"value 1": true, "value 4": false, "value 3": true} {
		if got := Valid(TypeStringEnumeration, raw, strRules); got != want {
			t.Fatalf("string enumeration %q valid = %v, want %v", raw, got, want)
		}
	}

	numRules := Rules{Candidates: CoerceCandidates(TypeNumberEnumeration, []any{11, 12, "13"})}
	if diff := cmp.Diff([]any{11.0, 12.0, 13.0}, numRules.Candidates); diff != "" {
		t.Fatalf("candidates mismatch (-want +got):\n%s", diff)
	}
	cases := []struct {
		raw  any
		want bool
	}{
		{"11", true},
		{0, false},
		{13, true},
		{"nope", false},
	}
	for _, tc := range cases {
		if got := Valid(TypeNumberEnumeration, tc.raw, numRules); got != tc.want {
			t.Fatalf("number enumeration %v valid = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestReferences(t *testing.T) {
	for _, typ := range []Type{TypeFile, TypeItem, TypeImage, TypeDirectory} {
		if Valid(typ, Unset, Rules{}) {
			t.Fatalf("%s must be invalid until assigned", typ)
		}
		if Valid(typ, "abc", Rules{}) {
			t.Fatalf("%s must not accept plain strings", typ)
		}
		var missing *Ref
		if Valid(typ, missing, Rules{}) {
			t.Fatalf("%s must reject typed nil references", typ)
		}
		ref := NewRef("", "abc", "a.tif")
		if !Valid(typ, ref, Rules{}) {
			t.Fatalf("%s must accept a resolved reference", typ)
		}
		if got := Coerce(typ, ref, Rules{}); got != ref {
			t.Fatalf("%s must pass references through, got %v", typ, got)
		}
	}
}

func TestReferenceKindMustFitType(t *testing.T) {
	cases := []struct {
		typ  Type
		raw  any
		want bool
	}{
		{TypeFile, NewRef(KindFile, "f", ""), true},
		{TypeImage, NewRef(KindFile, "f", ""), true},
		{TypeItem, NewRef(KindItem, "i", ""), true},
		{TypeDirectory, NewRef(KindFolder, "d", ""), true},
		{TypeDirectory, NewRef("", "d", ""), true},
		{TypeFile, NewRef(KindFolder, "d", ""), false},
		{TypeImage, NewRef(KindItem, "i", ""), false},
		{TypeItem, NewRef(KindFile, "f", ""), false},
		{TypeDirectory, NewRef(KindItem, "i", ""), false},
		{TypeDirectory, NewRef(KindCollection, "c", ""), false},
		{TypeNewFile, Target{TargetName: "a", Parent: NewRef(KindItem, "i", "")}, false},
		{TypeNewDirectory, Target{TargetName: "a", Parent: NewRef(KindUser, "u", "")}, false},
		{TypeNewItem, Target{TargetName: "a", Parent: NewRef(KindItem, "i", "")}, true},
		{TypeNewItem, Target{TargetName: "a", Parent: NewRef(KindFile, "f", "")}, false},
	}
	for _, tc := range cases {
		if got := Valid(tc.typ, tc.raw, Rules{}); got != tc.want {
			t.Fatalf("%s with %v valid = %v, want %v", tc.typ, tc.raw, got, tc.want)
		}
		entries := Encode(tc.typ, "p", tc.raw, Rules{})
		if !tc.want && entries != nil {
			t.Fatalf("%s with %v must not encode, got %v", tc.typ, tc.raw, entries)
		}
		if tc.want && len(entries) == 0 {
			t.Fatalf("%s with %v must encode", tc.typ, tc.raw)
		}
	}

	got := Encode(TypeDirectory, "dir", NewRef(KindItem, "i", ""), Rules{})
	if len(got) != 0 {
		t.Fatalf("directory must not emit an item id, got %v", got)
	}
}

func TestComposites(t *testing.T) {
	folder := NewRef(KindFolder, "f1", "Outputs")
	for _, typ := range []Type{TypeNewFile, TypeNewItem, TypeNewDirectory} {
		if Valid(typ, Unset, Rules{}) {
			t.Fatalf("%s must be invalid until assigned", typ)
		}
		if Valid(typ, folder, Rules{}) {
			t.Fatalf("%s must not accept a bare reference", typ)
		}
		target, err := NewTarget(typ, "out.csv", folder)
		if err != nil {
			t.Fatalf("%s target: %v", typ, err)
		}
		if !Valid(typ, target, Rules{}) {
			t.Fatalf("%s must accept a complete target", typ)
		}
	}

	if _, err := NewTarget(TypeNewFile, "", folder); err != ErrTargetNameRequired {
		t.Fatalf("expected name error, got %v", err)
	}
	if _, err := NewTarget(TypeNewFile, "a", NewRef(KindCollection, "c1", "")); err != ErrTargetParent {
		t.Fatalf("expected parent error, got %v", err)
	}
	item, err := NewTarget(TypeNewItem, "", NewRef(KindItem, "i1", "slide.svs"))
	if err != nil {
		t.Fatalf("new-item target: %v", err)
	}
	if item.Name() != "slide.svs" {
		t.Fatalf("expected new-item name from parent, got %q", item.Name())
	}
}

func TestRegion(t *testing.T) {
	if Valid(TypeRegion, Unset, Rules{}) {
		t.Fatalf("region must be invalid until assigned")
	}
	region := Region{1, 2, 0, 5, 5, 0}
	if !Valid(TypeRegion, region, Rules{}) {
		t.Fatalf("region must accept finite coordinates")
	}
	if Valid(TypeRegion, Region{1, math.Inf(1)}, Rules{}) {
		t.Fatalf("region must reject non-finite coordinates")
	}
	want := []Entry{{Key: "roi", Value: "[1,2,0,5,5,0]"}}
	if diff := cmp.Diff(want, Encode(TypeRegion, "roi", region, Rules{})); diff != "" {
		t.Fatalf("region encoding mismatch (-want +got):\n%s", diff)
	}
}

func TestUnknownIsNeverValid(t *testing.T) {
	for _, raw := range []any{Unset, "x", 1, true} {
		if Valid(TypeUnknown, raw, Rules{}) {
			t.Fatalf("unknown must be invalid for %v", raw)
		}
		if got := Coerce(TypeUnknown, raw, Rules{}); got != raw {
			t.Fatalf("unknown coercion must be identity, got %v", got)
		}
	}
	if Valid(Type(200), "x", Rules{}) {
		t.Fatalf("out of range types must behave as unknown")
	}
}

func TestEncode(t *testing.T) {
	cases := []struct {
		name string
		typ  Type
		raw  any
		want []Entry
	}{
		{"range", TypeRange, 0, []Entry{{"range", "0"}}},
		{"number", TypeNumber, "1", []Entry{{"number", "1"}}},
		{"tiny", TypeNumber, "1e-10", []Entry{{"tiny", "1e-10"}}},
		{"boolean", TypeBoolean, "yes", []Entry{{"boolean", "true"}}},
		{"off", TypeBoolean, Unset, []Entry{{"off", "false"}}},
		{"string", TypeString, 0, []Entry{{"string", `"0"`}}},
		{"html", TypeString, "<b>&</b>", []Entry{{"html", `"<b>&</b>"`}}},
		{"color", TypeColor, "red", []Entry{{"color", `"#ff0000"`}}},
		{"sv", TypeStringVector, "a,b,c", []Entry{{"sv", `["a","b","c"]`}}},
		{"nv", TypeNumberVector, "1,2,3", []Entry{{"nv", "[1,2,3]"}}},
		{"se", TypeStringEnumeration, "a", []Entry{{"se", `"a"`}}},
		{"ne", TypeNumberEnumeration, "1", []Entry{{"ne", "1"}}},
		{"file", TypeFile, Ref{RefID: "a"}, []Entry{{"file_girderFileId", "a"}}},
		{"image", TypeImage, Ref{RefID: "d"}, []Entry{{"image_girderFileId", "d"}}},
		{"item", TypeItem, Ref{RefID: "c"}, []Entry{{"item_girderItemId", "c"}}},
		{"dir", TypeDirectory, Ref{RefID: "e"}, []Entry{{"dir_girderFolderId", "e"}}},
		{"fileAsItem", TypeFile, NewRef(KindItem, "i", ""), nil},
		{"typedItem", TypeItem, NewRef(KindItem, "i", ""), []Entry{{"typedItem_girderItemId", "i"}}},
		{"new-file", TypeNewFile, Target{TargetName: "a", Parent: Ref{RefID: "b"}}, []Entry{
			{"new-file_girderFolderId", "b"},
			{"new-file_name", "a"},
		}},
		{"new-item", TypeNewItem, Target{TargetName: "a", Parent: Ref{RefID: "b"}}, []Entry{
			{"new-item_girderItemId", "b"},
			{"new-item_name", "a"},
		}},
		{"pending", TypeNewDirectory, Unset, nil},
		{"nofile", TypeFile, Unset, nil},
		{"bad", TypeUnknown, "x", nil},
	}
	for _, tc := range cases {
		got := Encode(tc.typ, tc.name, tc.raw, Rules{})
		if diff := cmp.Diff(tc.want, got); diff != "" {
			t.Fatalf("%s encoding mismatch (-want +got):\n%s", tc.name, diff)
		}
	}
}

func TestFormatNumber(t *testing.T) {
	cases := map[float64]string{
		0:       "0",
		0.5:     "0.5",
		-11:     "-11",
		1e-10:   "1e-10",
		1e-7:    "1e-7",
		1e21:    "1e+21",
		1000000: "1000000",
	}
	for in, want := range cases {
		if got := FormatNumber(in); got != want {
			t.Fatalf("FormatNumber(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestKeys(t *testing.T) {
	cases := map[Type][]string{
		TypeNumber:       {"p"},
		TypeRegion:       {"p"},
		TypeFile:         {"p_girderFileId"},
		TypeImage:        {"p_girderFileId"},
		TypeItem:         {"p_girderItemId"},
		TypeDirectory:    {"p_girderFolderId"},
		TypeNewFile:      {"p_girderFolderId", "p_name"},
		TypeNewDirectory: {"p_girderFolderId", "p_name"},
		TypeNewItem:      {"p_girderItemId", "p_name"},
		TypeUnknown:      nil,
	}
	for typ, want := range cases {
		if diff := cmp.Diff(want, Keys(typ, "p")); diff != "" {
			t.Fatalf("%s keys mismatch (-want +got):\n%s", typ, diff)
		}
	}
}
