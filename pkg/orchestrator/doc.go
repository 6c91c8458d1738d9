// Package orchestrator wires the loader → parser → parameter collections →
// submission sequence into a single stateful session: load an analysis
// description, edit the params of each panel, validate, and post the merged
// payload to the task's run endpoint.
package orchestrator
