package schema

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
)

// Source identifies where an analysis description originated so loaders can
// read files, fs.FS entries, URLs or task endpoints without leaking
// implementation details.
type Source interface {
	Kind() SourceKind
	Location() string
}

// SourceKind enumerates the loader modalities.
type SourceKind string

const (
	SourceKindFile SourceKind = "file"
	SourceKindFS   SourceKind = "fs"
	SourceKindURL  SourceKind = "url"
	// SourceKindInline marks documents already held in memory, for example a
	// description returned by the job server alongside other data.
	SourceKindInline SourceKind = "inline"
)

type fileSource struct {
	path string
}

func (s fileSource) Location() string { return s.path }
func (s fileSource) Kind() SourceKind { return SourceKindFile }

// SourceFromFile returns a Source pointing to a file path.
func SourceFromFile(path string) Source {
	return fileSource{path: filepath.Clean(path)}
}

type fsSource struct {
	name string
}

func (s fsSource) Location() string { return s.name }
func (s fsSource) Kind() SourceKind { return SourceKindFS }

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return fsSource{name: name}
}

type urlSource struct {
	raw string
}

func (s urlSource) Location() string { return s.raw }
func (s urlSource) Kind() SourceKind { return SourceKindURL }

// SourceFromURL parses the supplied URL string and returns a Source. It panics
// if the URL is invalid to surface configuration mistakes early.
func SourceFromURL(raw string) Source {
	if raw == "" {
		panic("schema: empty URL source")
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		panic(fmt.Sprintf("schema: invalid URL %q: %v", raw, err))
	}
	return urlSource{raw: raw}
}

// SourceFromTask returns the URL Source of a task's execution-model endpoint
// ("<base>/<task>/xmlspec").
func SourceFromTask(base, task string) Source {
	return SourceFromURL(TaskURL(base, task, "xmlspec"))
}

// TaskURL joins a server base URL, a task path and an endpoint suffix.
func TaskURL(base, task, suffix string) string {
	parts := []string{strings.TrimRight(base, "/")}
	if t := strings.Trim(task, "/"); t != "" {
		parts = append(parts, t)
	}
	if s := strings.Trim(suffix, "/"); s != "" {
		parts = append(parts, s)
	}
	return strings.Join(parts, "/")
}

type inlineSource struct {
	name string
}

func (s inlineSource) Location() string { return s.name }
func (s inlineSource) Kind() SourceKind { return SourceKindInline }

// SourceInline names an in-memory document.
func SourceInline(name string) Source {
	if name == "" {
		name = "inline"
	}
	return inlineSource{name: name}
}

// Detect guesses the Source for a CLI argument: http(s) URLs become URL
// sources, everything else a file path.
func Detect(location string) Source {
	lower := strings.ToLower(location)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return SourceFromURL(location)
	}
	return SourceFromFile(location)
}
