// Package widgets holds the closed set of parameter widget types and the rules
// attached to each one: capability flags, coercion of raw editor input into a
// typed value, the validity predicate, and the flattening of a value into
// submission entries.
//
// Coercion never fails. Input that cannot be interpreted turns into NaN, an
// empty value or nil and the matching validity predicate reports false, so an
// editing surface can always render an error state.
package widgets
