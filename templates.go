package paramform

import (
	"io/fs"

	"github.com/goliatone/go-paramform/pkg/renderers/text"
)

// EmbeddedTemplates exposes the built-in text renderer templates so callers
// can copy or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return text.Templates()
}
