package parser

import (
	"bytes"
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-paramform/pkg/model"
	"github.com/goliatone/go-paramform/pkg/schema"
	"github.com/goliatone/go-paramform/pkg/widgets"
)

// ErrMalformedSchema is returned when a document cannot be decoded as an
// execution-model description. Callers must not apply a partial result.
var ErrMalformedSchema = errors.New("parser: malformed schema")

const rootElement = "executable"

// Option configures a Parser.
type Option func(*Parser)

// WithLogger routes diagnostics to logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithIDGenerator overrides panel id generation.
func WithIDGenerator(fn func() string) Option {
	return func(p *Parser) {
		if fn != nil {
			p.newID = fn
		}
	}
}

// Parser turns execution-model XML into parameter specs grouped in panels.
type Parser struct {
	logger *slog.Logger
	policy *bluemonday.Policy
	newID  func() string
}

// New constructs a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		policy: defaultPolicy(),
		newID:  func() string { return "panel-" + uuid.NewString() },
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	p.logger = p.logger.With("component", "parser")
	return p
}

// Parse decodes a loaded document.
func (p *Parser) Parse(ctx context.Context, doc schema.Document) (*Executable, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if doc.IsZero() {
		return nil, errors.New("parser: document is empty")
	}
	exe, err := p.ParseBytes(doc.Raw())
	if err != nil {
		return nil, fmt.Errorf("%w (%s)", err, doc.Location())
	}
	return exe, nil
}

// ParseBytes decodes raw XML.
func (p *Parser) ParseBytes(raw []byte) (*Executable, error) {
	root, err := decode(raw)
	if err != nil {
		return nil, err
	}
	if root.tag() != rootElement {
		return nil, fmt.Errorf("%w: root element is %q, want %q", ErrMalformedSchema, root.tag(), rootElement)
	}

	exe := &Executable{
		Category:         strings.TrimSpace(first(root, "category")),
		Title:            plainText(p.policy, first(root, "title")),
		Description:      plainText(p.policy, first(root, "description")),
		Version:          strings.TrimSpace(first(root, "version")),
		DocumentationURL: strings.TrimSpace(first(root, "documentation-url")),
		License:          strings.TrimSpace(first(root, "license")),
		Contributor:      strings.TrimSpace(first(root, "contributor")),
		Acknowledgements: plainText(p.policy, first(root, "acknowledgements")),
	}

	for i := range root.Nodes {
		section := &root.Nodes[i]
		if section.tag() != "parameters" {
			continue
		}
		exe.Panels = append(exe.Panels, p.panels(section, &exe.Diagnostics)...)
	}
	return exe, nil
}

// ParseElement parses a single parameter element, for callers that build
// forms from fragments.
func (p *Parser) ParseElement(raw []byte) (*model.Spec, []Diagnostic, error) {
	el, err := decode(raw)
	if err != nil {
		return nil, nil, err
	}
	var diags []Diagnostic
	spec := p.spec(el, &diags)
	return spec, diags, nil
}

func decode(raw []byte) (*node, error) {
	if len(bytes.TrimSpace(raw)) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrMalformedSchema)
	}
	var root node
	decoder := xml.NewDecoder(bytes.NewReader(raw))
	decoder.Strict = true
	if err := decoder.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
	}
	// Trailing garbage after the root element is also a structural error.
	for {
		tok, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedSchema, err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			return nil, fmt.Errorf("%w: unexpected element %q after root", ErrMalformedSchema, t.Name.Local)
		case xml.CharData:
			if len(bytes.TrimSpace(t)) > 0 {
				return nil, fmt.Errorf("%w: unexpected text after root", ErrMalformedSchema)
			}
		}
	}
	return &root, nil
}

func first(n *node, name string) string {
	text, _ := n.childText(name)
	return text
}

// panels splits a parameters section into panels. Every label child opens a
// new panel; a description directly after it describes that panel. Further
// descriptions are reported and dropped. All panels inherit the section's
// advanced attribute.
func (p *Parser) panels(section *node, diags *[]Diagnostic) []Panel {
	advanced := section.boolAttr("advanced")

	var (
		out             []Panel
		current         *Panel
		wantDescription bool
	)
	open := func(label string) {
		out = append(out, Panel{
			ID:       p.newID(),
			Label:    plainText(p.policy, label),
			Advanced: advanced,
		})
		current = &out[len(out)-1]
	}

	for i := range section.Nodes {
		el := &section.Nodes[i]
		switch el.tag() {
		case "label":
			open(el.text())
			wantDescription = true
			continue
		case "description":
			if current == nil {
				open("")
			}
			if wantDescription || current.Description == "" {
				current.Description = plainText(p.policy, el.text())
			} else {
				p.report(diags, Diagnostic{Tag: "description", Message: "extra panel description ignored"})
			}
			wantDescription = false
			continue
		}
		if current == nil {
			open("")
		}
		wantDescription = false
		current.Params = append(current.Params, p.spec(el, diags))
	}
	return out
}

// spec assembles the Spec for one parameter element.
func (p *Parser) spec(el *node, diags *[]Diagnostic) *model.Spec {
	tag := el.tag()

	channel := widgets.ChannelInput
	if text, ok := el.childText("channel"); ok {
		channel = widgets.ParseChannel(text)
	}
	flag := ""
	if text, ok := el.childText("flag"); ok && text == FlagItem {
		flag = FlagItem
	}

	t := ResolveType(tag, channel, flag)

	name, _ := el.childText("name")
	longFlag, _ := el.childText("longflag")
	id := strings.TrimSpace(name)
	if id == "" {
		id = strings.TrimSpace(longFlag)
	}

	spec := &model.Spec{
		Type:        t,
		SourceTag:   tag,
		ID:          id,
		Title:       plainText(p.policy, first(el, "label")),
		Description: plainText(p.policy, first(el, "description")),
		Channel:     channel,
		Flag:        flag,
		LongFlag:    strings.TrimSpace(longFlag),
		Hidden:      el.boolAttr("hidden"),
	}
	if t == widgets.TypeNewFile {
		spec.Extensions, _ = el.attr("fileExtensions")
	}
	if text, ok := el.childText("index"); ok {
		if idx, err := strconv.Atoi(strings.TrimSpace(text)); err == nil {
			spec.Index = &idx
		}
	}

	if t.IsEnumeration() {
		elements := el.descendants("element")
		candidates := make([]any, 0, len(elements))
		for _, e := range elements {
			candidates = append(candidates, e.text())
		}
		spec.Candidates = widgets.CoerceCandidates(t, candidates)
	}
	if constraints, ok := el.child("constraints"); ok {
		spec.Constraints = resolveConstraints(t, constraints)
	}
	defaultText, hasDefault := el.childText("default")
	spec.Default = resolveDefault(t, defaultText, hasDefault, spec.Rules())

	if t == widgets.TypeUnknown {
		p.report(diags, Diagnostic{Tag: tag, ID: id, Message: fmt.Sprintf("unhandled parameter type %q", tag)})
	}
	if id == "" {
		p.report(diags, Diagnostic{Tag: tag, Message: "parameter has neither name nor longflag"})
	}
	return spec
}

func (p *Parser) report(diags *[]Diagnostic, d Diagnostic) {
	p.logger.Warn(d.Message, "tag", d.Tag, "id", d.ID)
	if diags != nil {
		*diags = append(*diags, d)
	}
}
