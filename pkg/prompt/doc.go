// Package prompt edits parameter values interactively on a terminal, one
// panel at a time.
package prompt
