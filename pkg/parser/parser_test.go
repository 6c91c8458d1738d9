package parser_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-paramform/pkg/model"
	"github.com/goliatone/go-paramform/pkg/parser"
	"github.com/goliatone/go-paramform/pkg/schema"
	"github.com/goliatone/go-paramform/pkg/testsupport"
	"github.com/goliatone/go-paramform/pkg/widgets"
)

func parseFixture(t *testing.T) *parser.Executable {
	t.Helper()
	p := parser.New(parser.WithIDGenerator(testsupport.Counter("panel-")))
	exe, err := p.Parse(context.Background(), testsupport.LoadDocument(t, testsupport.ThresholdFixture))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	return exe
}

func TestParseExecutableMetadata(t *testing.T) {
	exe := parseFixture(t)

	got := parser.Executable{
		Category:         exe.Category,
		Title:            exe.Title,
		Description:      exe.Description,
		Version:          exe.Version,
		DocumentationURL: exe.DocumentationURL,
		License:          exe.License,
		Contributor:      exe.Contributor,
		Acknowledgements: exe.Acknowledgements,
	}
	want := parser.Executable{
		Category:         "Segmentation",
		Title:            "Threshold & Mask",
		Description:      "Thresholds an image and writes a mask.",
		Version:          "0.3.1",
		DocumentationURL: "https://example.org/threshold",
		License:          "Apache 2.0",
		Contributor:      "Imaging Lab",
		Acknowledgements: "Funded by the imaging core.",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("metadata mismatch (-want +got):\n%s", diff)
	}
}

func TestParsePanels(t *testing.T) {
	exe := parseFixture(t)

	type panelSummary struct {
		ID, Label, Description string
		Advanced               bool
		IDs                    []string
	}
	var got []panelSummary
	for _, panel := range exe.Panels {
		summary := panelSummary{ID: panel.ID, Label: panel.Label, Description: panel.Description, Advanced: panel.Advanced}
		for _, spec := range panel.Params {
			summary.IDs = append(summary.IDs, spec.ID)
		}
		got = append(got, summary)
	}
	want := []panelSummary{
		{
			ID: "panel-1", Label: "IO", Description: "Input and output locations",
			IDs: []string{"inputImage", "outputMask", "sourceItem", "workFolder", "resultItem", "table"},
		},
		{
			ID: "panel-2", Label: "Thresholds", Description: "Intensity bounds", Advanced: true,
			IDs: []string{"lower", "--sigma", "iterations", "invert", "smooth"},
		},
		{
			ID: "panel-3", Label: "Styling", Advanced: true,
			IDs: []string{"prefix", "maskColor", "tags", "spacing", "method", "bins", "roi", "seed"},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("panels mismatch (-want +got):\n%s", diff)
	}
	if len(exe.Specs()) != 19 {
		t.Fatalf("expected 19 specs, got %d", len(exe.Specs()))
	}
	if _, ok := exe.Panel("panel-3"); !ok {
		t.Fatalf("expected panel lookup by id")
	}
}

func TestParseSpecs(t *testing.T) {
	exe := parseFixture(t)
	specs := make(map[string]*model.Spec)
	for _, spec := range exe.Specs() {
		specs[spec.ID] = spec
	}

	zero, one := 0, 1
	want := map[string]*model.Spec{
		"inputImage": {
			Type: widgets.TypeImage, SourceTag: "image", ID: "inputImage", Title: "Input image",
			Description: "Image to threshold", Channel: widgets.ChannelInput, Default: widgets.Unset, Index: &zero,
		},
		"outputMask": {
			Type: widgets.TypeNewFile, SourceTag: "image", ID: "outputMask", Title: "Output mask",
			Channel: widgets.ChannelOutput, Extensions: ".nrrd,.tif", Default: widgets.Unset, Index: &one,
		},
		"sourceItem": {
			Type: widgets.TypeItem, SourceTag: "directory", ID: "sourceItem", Title: "Source item",
			Channel: widgets.ChannelInput, Flag: "item", Default: widgets.Unset,
		},
		"workFolder": {
			Type: widgets.TypeDirectory, SourceTag: "directory", ID: "workFolder", Title: "Working folder",
			Channel: widgets.ChannelInput, Default: widgets.Unset,
		},
		"resultItem": {
			Type: widgets.TypeNewItem, SourceTag: "directory", ID: "resultItem", Title: "Result item",
			Channel: widgets.ChannelOutput, Flag: "item", Default: widgets.Unset,
		},
		"table": {
			Type: widgets.TypeNewFile, SourceTag: "file", ID: "table", Title: "Statistics table",
			Channel: widgets.ChannelOutput, Default: widgets.Unset,
		},
		"lower": {
			Type: widgets.TypeNumber, SourceTag: "double", ID: "lower", Title: "Lower", LongFlag: "--lower",
			Channel: widgets.ChannelInput, Default: 0.5,
			Constraints: widgets.Constraints{Min: widgets.Float(-10), Max: widgets.Float(10), Step: widgets.Float(0.5)},
		},
		"--sigma": {
			Type: widgets.TypeRange, SourceTag: "range", ID: "--sigma", Title: "Sigma", LongFlag: "--sigma",
			Channel: widgets.ChannelInput, Default: 1.0,
			Constraints: widgets.Constraints{Min: widgets.Float(0), Max: widgets.Float(5)},
		},
		"iterations": {
			Type: widgets.TypeInteger, SourceTag: "integer", ID: "iterations", Title: "Iterations",
			Channel: widgets.ChannelInput, Default: 3.0,
		},
		"invert": {
			Type: widgets.TypeBoolean, SourceTag: "boolean", ID: "invert", Title: "Invert mask",
			Channel: widgets.ChannelInput, Default: false,
		},
		"smooth": {
			Type: widgets.TypeBoolean, SourceTag: "boolean", ID: "smooth", Title: "Smooth",
			Channel: widgets.ChannelInput, Default: false,
		},
		"prefix": {
			Type: widgets.TypeString, SourceTag: "string", ID: "prefix", Title: "Prefix",
			Channel: widgets.ChannelInput, Default: "",
		},
		"maskColor": {
			Type: widgets.TypeColor, SourceTag: "color", ID: "maskColor", Title: "Mask color",
			Channel: widgets.ChannelInput, Default: "#ff0000",
		},
		"tags": {
			Type: widgets.TypeStringVector, SourceTag: "string-vector", ID: "tags", Title: "Tags",
			Channel: widgets.ChannelInput, Default: []string{"a", "b"},
		},
		"spacing": {
			Type: widgets.TypeNumberVector, SourceTag: "double-vector", ID: "spacing", Title: "Spacing",
			Channel: widgets.ChannelInput, Default: []float64{1, 1, 2.5},
		},
		"method": {
			Type: widgets.TypeStringEnumeration, SourceTag: "string-enumeration", ID: "method", Title: "Method",
			Channel: widgets.ChannelInput, Default: "otsu", Candidates: []any{"otsu", "huang", "triangle"},
		},
		"bins": {
			Type: widgets.TypeNumberEnumeration, SourceTag: "integer-enumeration", ID: "bins", Title: "Bins",
			Channel: widgets.ChannelInput, Default: widgets.Unset, Candidates: []any{64.0, 128.0, 256.0},
		},
		"roi": {
			Type: widgets.TypeRegion, SourceTag: "region", ID: "roi", Title: "Region of interest",
			Channel: widgets.ChannelInput, Default: widgets.Unset, Hidden: true,
		},
		"seed": {
			Type: widgets.TypeUnknown, SourceTag: "point", ID: "seed", Title: "Seed point",
			Channel: widgets.ChannelInput, Default: widgets.Unset,
		},
	}

	if diff := cmp.Diff(want, specs, cmpopts.EquateEmpty()); diff != "" {
		t.Fatalf("specs mismatch (-want +got):\n%s", diff)
	}

	wantDiags := []parser.Diagnostic{{Tag: "point", ID: "seed", Message: `unhandled parameter type "point"`}}
	if diff := cmp.Diff(wantDiags, exe.Diagnostics); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestParseFixtureDefaultsValidity(t *testing.T) {
	exe := parseFixture(t)
	collection, err := model.FromSpecs(exe.Specs())
	if err != nil {
		t.Fatalf("collection: %v", err)
	}

	var invalid []string
	for _, p := range collection.Invalid() {
		invalid = append(invalid, p.ID())
	}
	want := []string{"inputImage", "outputMask", "sourceItem", "workFolder", "resultItem", "table", "bins", "roi", "seed"}
	if diff := cmp.Diff(want, invalid); diff != "" {
		t.Fatalf("invalid defaults mismatch (-want +got):\n%s", diff)
	}
}

func TestParseMalformed(t *testing.T) {
	p := parser.New()
	cases := map[string]string{
		"not xml":       "this is not xml",
		"unclosed":      "<executable><parameters>",
		"wrong root":    "<tool><parameters/></tool>",
		"trailing root": "<executable/><executable/>",
	}
	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			exe, err := p.ParseBytes([]byte(raw))
			if !errors.Is(err, parser.ErrMalformedSchema) {
				t.Fatalf("expected ErrMalformedSchema, got %v", err)
			}
			if exe != nil {
				t.Fatalf("expected no partial result")
			}
		})
	}

	doc := schema.MustNewDocument(schema.SourceInline("bad"), []byte("<oops"))
	if _, err := p.Parse(context.Background(), doc); !errors.Is(err, parser.ErrMalformedSchema) {
		t.Fatalf("expected wrapped ErrMalformedSchema, got %v", err)
	}
}

func TestParseExtraDescriptionIsNotAParam(t *testing.T) {
	raw := `<executable><title>T</title><parameters>
		<label>IO</label>
		<description>Inputs</description>
		<integer><name>n</name><default>1</default></integer>
		<description>extra note</description>
	</parameters></executable>`

	exe, err := parser.New().ParseBytes([]byte(raw))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	specs := exe.Specs()
	if len(specs) != 1 || specs[0].ID != "n" {
		t.Fatalf("expected only param n, got %d specs", len(specs))
	}
	if got := exe.Panels[0].Description; got != "Inputs" {
		t.Fatalf("panel description = %q, want %q", got, "Inputs")
	}
	want := []parser.Diagnostic{{Tag: "description", Message: "extra panel description ignored"}}
	if diff := cmp.Diff(want, exe.Diagnostics); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestParseElement(t *testing.T) {
	p := parser.New()
	spec, diags, err := p.ParseElement([]byte(`<directory><longflag>--out</longflag><channel>output</channel><flag>items</flag></directory>`))
	if err != nil {
		t.Fatalf("parse element: %v", err)
	}
	if len(diags) != 0 {
		t.Fatalf("unexpected diagnostics: %v", diags)
	}
	if spec.Type != widgets.TypeNewDirectory {
		t.Fatalf("expected new-directory for non-literal flag, got %s", spec.Type)
	}
	if spec.ID != "--out" || spec.Flag != "" {
		t.Fatalf("unexpected id/flag %q/%q", spec.ID, spec.Flag)
	}

	spec, diags, err = p.ParseElement([]byte(`<widget><label>Nameless</label></widget>`))
	if err != nil {
		t.Fatalf("parse element: %v", err)
	}
	if spec.Type != widgets.TypeUnknown || len(diags) != 2 {
		t.Fatalf("expected unknown spec with two diagnostics, got %s %v", spec.Type, diags)
	}
}

func TestParseRespectsContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := parser.New().Parse(ctx, testsupport.LoadDocument(t, testsupport.ThresholdFixture))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
