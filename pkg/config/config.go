// Package config reads the CLI configuration file: where the job-execution
// server lives, which analysis to run and the values to prefill.
//
//	server:
//	  url: https://girder.example.org/api/v1
//	  token: ${GIRDER_TOKEN}
//	task: slicer_cli_web/threshold/Threshold
//	timeout: 30s
//	preset: presets/threshold.json
//	values:
//	  lower: 1.5
//	  inputImage: {id: 5f1c, kind: file}
//	  outputMask: {name: mask.nrrd, parent: {id: 5f2a, kind: folder}}
//	  roi: [10, 10, 5, 5]
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-paramform/pkg/widgets"
)

// ErrEmpty is returned for a configuration file without content.
var ErrEmpty = errors.New("config: file is empty")

// Server locates the job-execution endpoint.
type Server struct {
	URL   string `json:"url" yaml:"url"`
	Token string `json:"token" yaml:"token"`
}

// Config is the normalised configuration. Values hold Go values ready for
// orchestrator.Apply: reference maps become widgets.Ref, target maps
// widgets.Target, numeric lists []float64.
type Config struct {
	Source  string
	Server  Server
	Task    string
	Schema  string
	Preset  string
	Timeout time.Duration
	Values  map[string]any
}

type file struct {
	Server  Server         `json:"server" yaml:"server"`
	Task    string         `json:"task" yaml:"task"`
	Schema  string         `json:"schema" yaml:"schema"`
	Preset  string         `json:"preset" yaml:"preset"`
	Timeout string         `json:"timeout" yaml:"timeout"`
	Values  map[string]any `json:"values" yaml:"values"`
}

// Load reads a configuration file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadFS reads a configuration file from fsys.
func LoadFS(fsys fs.FS, name string) (*Config, error) {
	if fsys == nil {
		return nil, errors.New("config: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", name, err)
	}
	return Parse(data, name)
}

// Parse decodes JSON or YAML configuration. Environment references in the
// server url and token are expanded.
func Parse(data []byte, source string) (*Config, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, source)
	}

	var raw file
	if err := json.Unmarshal(data, &raw); err != nil {
		raw = file{}
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", source, err)
		}
	}

	cfg := &Config{
		Source: source,
		Server: Server{
			URL:   strings.TrimSpace(os.ExpandEnv(raw.Server.URL)),
			Token: strings.TrimSpace(os.ExpandEnv(raw.Server.Token)),
		},
		Task:   strings.Trim(strings.TrimSpace(raw.Task), "/"),
		Schema: strings.TrimSpace(raw.Schema),
		Preset: strings.TrimSpace(raw.Preset),
	}

	if timeout := strings.TrimSpace(raw.Timeout); timeout != "" {
		d, err := time.ParseDuration(timeout)
		if err != nil {
			return nil, fmt.Errorf("config: %s: timeout: %w", source, err)
		}
		if d < 0 {
			return nil, fmt.Errorf("config: %s: timeout must not be negative", source)
		}
		cfg.Timeout = d
	}

	if len(raw.Values) > 0 {
		cfg.Values = make(map[string]any, len(raw.Values))
		for key, value := range raw.Values {
			id := strings.TrimSpace(key)
			if id == "" {
				return nil, fmt.Errorf("config: %s: values contain an empty parameter id", source)
			}
			converted, err := convertValue(value)
			if err != nil {
				return nil, fmt.Errorf("config: %s: value %q: %w", source, id, err)
			}
			cfg.Values[id] = converted
		}
	}
	return cfg, nil
}

// convertValue maps decoded JSON/YAML shapes onto the value types the widget
// rules understand.
func convertValue(value any) (any, error) {
	switch v := value.(type) {
	case map[string]any:
		if parent, ok := v["parent"]; ok {
			return convertTarget(v, parent)
		}
		return convertRef(v, "")
	case []any:
		if numbers, ok := numericList(v); ok {
			return numbers, nil
		}
		return v, nil
	case int:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case uint64:
		return float64(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return nil, err
		}
		return f, nil
	}
	return value, nil
}

func convertRef(m map[string]any, fallback widgets.ResourceKind) (widgets.Ref, error) {
	id := strings.TrimSpace(widgets.Stringify(m["id"]))
	if id == "" {
		return widgets.Ref{}, errors.New("reference requires an id")
	}
	kind := widgets.ResourceKind(strings.ToLower(strings.TrimSpace(widgets.Stringify(m["kind"]))))
	switch kind {
	case "":
		kind = fallback
	case widgets.KindFile, widgets.KindItem, widgets.KindFolder, widgets.KindCollection, widgets.KindUser:
	default:
		return widgets.Ref{}, fmt.Errorf("unknown reference kind %q", kind)
	}
	return widgets.NewRef(kind, id, widgets.Stringify(m["name"])), nil
}

func convertTarget(m map[string]any, parent any) (widgets.Target, error) {
	pm, ok := parent.(map[string]any)
	if !ok {
		return widgets.Target{}, errors.New("target parent must be a mapping")
	}
	ref, err := convertRef(pm, widgets.KindFolder)
	if err != nil {
		return widgets.Target{}, fmt.Errorf("target parent: %w", err)
	}
	return widgets.Target{TargetName: strings.TrimSpace(widgets.Stringify(m["name"])), Parent: ref}, nil
}

func numericList(values []any) ([]float64, bool) {
	if len(values) == 0 {
		return nil, false
	}
	out := make([]float64, len(values))
	for i, value := range values {
		switch v := value.(type) {
		case float64:
			out[i] = v
		case int:
			out[i] = float64(v)
		case int64:
			out[i] = float64(v)
		case uint64:
			out[i] = float64(v)
		default:
			return nil, false
		}
	}
	return out, true
}

// Merge overlays non-zero fields of override onto c and returns the result.
// Values are merged key by key.
func (c *Config) Merge(override Config) *Config {
	out := Config{}
	if c != nil {
		out = *c
		out.Values = make(map[string]any, len(c.Values)+len(override.Values))
		for k, v := range c.Values {
			out.Values[k] = v
		}
	}
	if override.Server.URL != "" {
		out.Server.URL = override.Server.URL
	}
	if override.Server.Token != "" {
		out.Server.Token = override.Server.Token
	}
	if override.Task != "" {
		out.Task = override.Task
	}
	if override.Schema != "" {
		out.Schema = override.Schema
	}
	if override.Preset != "" {
		out.Preset = override.Preset
	}
	if override.Timeout != 0 {
		out.Timeout = override.Timeout
	}
	for k, v := range override.Values {
		if out.Values == nil {
			out.Values = make(map[string]any, len(override.Values))
		}
		out.Values[k] = v
	}
	return &out
}
