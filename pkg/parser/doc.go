// Package parser reads execution-model XML (the analysis descriptions served
// at "<task>/xmlspec") into parameter specs grouped in panels.
//
// Each parameter element resolves to exactly one widget type through
// ResolveType. Elements with unmapped names become TypeUnknown specs and are
// reported as diagnostics; documents that are not well-formed XML, or whose
// root is not <executable>, fail with ErrMalformedSchema and produce no
// partial result.
package parser
