// Package testsupport exposes execution-model fixtures shared by package
// tests.
package testsupport

import (
	"embed"
	"fmt"
	"io/fs"
	"testing"

	"github.com/goliatone/go-paramform/pkg/schema"
)

//go:embed testdata/*.xml
var fixtures embed.FS

// ThresholdFixture is a description exercising every widget type, two
// sections (the second advanced) and one unmapped element.
const ThresholdFixture = "testdata/threshold.xml"

// FS returns the embedded fixtures for loaders that read from an fs.FS.
func FS() fs.FS {
	return fixtures
}

// Raw returns the bytes of a fixture.
func Raw(t testing.TB, name string) []byte {
	t.Helper()

	data, err := RawFromPath(name)
	if err != nil {
		t.Fatalf("load fixture: %v", err)
	}
	return data
}

// RawFromPath returns a fixture without requiring testing.T.
func RawFromPath(name string) ([]byte, error) {
	data, err := fixtures.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("testsupport: read fixture: %w", err)
	}
	return data, nil
}

// LoadDocument wraps a fixture in a schema.Document with an fs source.
func LoadDocument(t testing.TB, name string) schema.Document {
	t.Helper()

	doc, err := schema.NewDocument(schema.SourceFromFS(name), Raw(t, name))
	if err != nil {
		t.Fatalf("new document: %v", err)
	}
	return doc
}

// Counter returns a deterministic id generator ("panel-1", "panel-2", ...).
func Counter(prefix string) func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}
