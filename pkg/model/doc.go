// Package model defines the parameter models built from a parsed analysis
// schema. A Spec is created once per schema element and shared read-only; a
// Param wraps one Spec with the value currently assigned by an editor or a
// selection workflow; a Collection groups params in schema order and
// flattens them into the Payload submitted to the job-execution endpoint.
//
// Param.Value and Param.IsValid are derived from the stored raw value on
// every call. Nothing is cached, so reading them from an Observer callback is
// safe.
package model
