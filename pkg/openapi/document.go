package openapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	json "github.com/goccy/go-json"

	"github.com/goliatone/go-paramform/pkg/parser"
	"github.com/goliatone/go-paramform/pkg/schema"
)

const (
	formContentType  = "application/x-www-form-urlencoded"
	workerTypeKey    = "x-worker-type"
	parameterKey     = "x-parameter"
	defaultVersion   = "0.0.0"
	openAPIVersion   = "3.0.3"
	jobResponseDescr = "The created job"
)

// Options configures Describe.
type Options struct {
	// Server is the API base URL listed under servers.
	Server string
	// Title overrides the executable title.
	Title string
}

// Option mutates Options.
type Option func(*Options)

// WithServer lists base under the document servers.
func WithServer(base string) Option {
	return func(o *Options) {
		o.Server = strings.TrimRight(strings.TrimSpace(base), "/")
	}
}

// WithTitle overrides the document title.
func WithTitle(title string) Option {
	return func(o *Options) {
		o.Title = title
	}
}

// Describe builds and validates the OpenAPI document for task.
func Describe(ctx context.Context, exe *parser.Executable, task string, opts ...Option) (*openapi3.T, error) {
	if exe == nil {
		return nil, errors.New("openapi: executable is nil")
	}
	task = strings.Trim(task, "/ ")
	if task == "" {
		return nil, errors.New("openapi: task is required")
	}

	var options Options
	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	title := options.Title
	if title == "" {
		title = exe.Title
	}
	if title == "" {
		title = task
	}
	version := exe.Version
	if version == "" {
		version = defaultVersion
	}

	doc := &openapi3.T{
		OpenAPI: openAPIVersion,
		Info: &openapi3.Info{
			Title:       title,
			Version:     version,
			Description: exe.Description,
		},
		Paths: openapi3.NewPaths(),
	}
	if exe.License != "" {
		doc.Info.License = &openapi3.License{Name: exe.License}
	}
	if options.Server != "" {
		doc.Servers = openapi3.Servers{&openapi3.Server{URL: options.Server}}
	}
	if exe.DocumentationURL != "" {
		doc.ExternalDocs = &openapi3.ExternalDocs{URL: exe.DocumentationURL}
	}

	tag := exe.Category
	doc.AddOperation("/"+task+"/xmlspec", http.MethodGet, specOperation(task, tag))
	doc.AddOperation("/"+task+"/run", http.MethodPost, runOperation(task, tag, title, Fields(exe.Specs())))

	if err := doc.Validate(ctx); err != nil {
		return nil, fmt.Errorf("openapi: validate: %w", err)
	}
	return doc, nil
}

// Marshal renders doc as indented JSON.
func Marshal(doc *openapi3.T) ([]byte, error) {
	if doc == nil {
		return nil, errors.New("openapi: document is nil")
	}
	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("openapi: marshal: %w", err)
	}
	return out, nil
}

// Load parses an OpenAPI document and returns the run fields declared for task.
func Load(ctx context.Context, raw []byte, task string) ([]Field, error) {
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	item := doc.Paths.Find("/" + strings.Trim(task, "/ ") + "/run")
	if item == nil || item.Post == nil {
		return nil, fmt.Errorf("openapi: no run operation for %q", task)
	}
	body := item.Post.RequestBody
	if body == nil || body.Value == nil {
		return nil, errors.New("openapi: run operation has no request body")
	}
	media := body.Value.Content.Get(formContentType)
	if media == nil || media.Schema == nil || media.Schema.Value == nil {
		return nil, errors.New("openapi: run operation is not form encoded")
	}
	return fieldsFromSchema(media.Schema.Value), nil
}

func specOperation(task, tag string) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = operationID(task, "xmlspec")
	op.Summary = "Get the execution-model description"
	if tag != "" {
		op.Tags = []string{tag}
	}
	op.AddParameter(tokenParameter())

	xml := openapi3.NewResponse().
		WithDescription("Execution-model XML").
		WithContent(openapi3.Content{"application/xml": openapi3.NewMediaType().WithSchema(openapi3.NewStringSchema())})
	op.Responses = openapi3.NewResponses(openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: xml}))
	return op
}

func runOperation(task, tag, title string, fields []Field) *openapi3.Operation {
	op := openapi3.NewOperation()
	op.OperationID = operationID(task, "run")
	op.Summary = "Run " + title
	if tag != "" {
		op.Tags = []string{tag}
	}
	op.AddParameter(tokenParameter())

	form := openapi3.NewObjectSchema()
	for _, field := range fields {
		property := openapi3.NewStringSchema()
		property.Description = strings.TrimSpace(field.Description)
		property.Extensions = map[string]any{
			workerTypeKey: field.WorkerType,
			parameterKey:  field.Param,
		}
		if field.Default != nil && (len(field.Enum) == 0 || contains(field.Enum, *field.Default)) {
			property.Default = *field.Default
		}
		if len(field.Enum) > 0 {
			values := make([]any, len(field.Enum))
			for i, value := range field.Enum {
				values[i] = value
			}
			property.Enum = values
		}
		form.WithProperty(field.Key, property)
		if field.Required {
			form.Required = append(form.Required, field.Key)
		}
	}
	op.RequestBody = &openapi3.RequestBodyRef{
		Value: openapi3.NewRequestBody().
			WithRequired(true).
			WithContent(openapi3.Content{formContentType: openapi3.NewMediaType().WithSchema(form)}),
	}

	job := openapi3.NewObjectSchema().
		WithProperty("_id", openapi3.NewStringSchema()).
		WithProperty("title", openapi3.NewStringSchema()).
		WithProperty("status", openapi3.NewIntegerSchema())
	created := openapi3.NewResponse().WithDescription(jobResponseDescr).WithJSONSchema(job)

	apiError := openapi3.NewObjectSchema().
		WithProperty("message", openapi3.NewStringSchema()).
		WithProperty("type", openapi3.NewStringSchema()).
		WithProperty("field", openapi3.NewStringSchema())
	invalid := openapi3.NewResponse().WithDescription("Invalid parameters").WithJSONSchema(apiError)

	op.Responses = openapi3.NewResponses(
		openapi3.WithStatus(http.StatusOK, &openapi3.ResponseRef{Value: created}),
		openapi3.WithStatus(http.StatusBadRequest, &openapi3.ResponseRef{Value: invalid}),
	)
	return op
}

func tokenParameter() *openapi3.Parameter {
	return openapi3.NewHeaderParameter(schema.TokenHeader).
		WithDescription("Authentication token").
		WithSchema(openapi3.NewStringSchema())
}

func operationID(task, action string) string {
	return strings.ReplaceAll(task, "/", ".") + "." + action
}

func fieldsFromSchema(form *openapi3.Schema) []Field {
	required := make(map[string]bool, len(form.Required))
	for _, key := range form.Required {
		required[key] = true
	}
	keys := make([]string, 0, len(form.Properties))
	for key := range form.Properties {
		keys = append(keys, key)
	}
	sortKeys(keys, form.Required)

	out := make([]Field, 0, len(keys))
	for _, key := range keys {
		ref := form.Properties[key]
		if ref == nil || ref.Value == nil {
			continue
		}
		prop := ref.Value
		field := Field{Key: key, Description: prop.Description, Required: required[key]}
		if v, ok := prop.Extensions[workerTypeKey].(string); ok {
			field.WorkerType = v
		}
		if v, ok := prop.Extensions[parameterKey].(string); ok {
			field.Param = v
		}
		if v, ok := prop.Default.(string); ok {
			field.Default = &v
		}
		for _, value := range prop.Enum {
			if text, ok := value.(string); ok {
				field.Enum = append(field.Enum, text)
			}
		}
		out = append(out, field)
	}
	return out
}

// sortKeys puts required keys first in declared order, then the rest by name.
func sortKeys(keys []string, required []string) {
	rank := make(map[string]int, len(required))
	for i, key := range required {
		rank[key] = i + 1
	}
	sort.Slice(keys, func(i, j int) bool {
		ri, rj := rank[keys[i]], rank[keys[j]]
		switch {
		case ri != 0 && rj != 0:
			return ri < rj
		case ri != 0 || rj != 0:
			return ri != 0
		}
		return keys[i] < keys[j]
	})
}

func contains(values []string, want string) bool {
	for _, value := range values {
		if value == want {
			return true
		}
	}
	return false
}
