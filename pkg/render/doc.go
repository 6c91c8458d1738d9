// Package render defines the renderer contract used to present an analysis
// description, the View projection shared by all formats, and a name-keyed
// registry. Concrete renderers live under pkg/renderers.
package render
