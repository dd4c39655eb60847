// Package model defines the typed form model derived from validation schemas.
// Builders reside in internal/model but return the types defined here. Each
// field carries the kind resolved through the type-to-field mapping, a label
// and sanitized help text, selectable choices for enumerated values, and
// declarative validation rules with string parameters so consumers can map
// numeric bounds (including exclusive limits), textual constraints, and
// regexes onto HTML attributes or runtime checks without sacrificing
// deterministic JSON snapshots. Schema extensions under the `x-schemaform`
// namespace flow into the `Attrs` and `Metadata` maps, letting authors pin
// widgets, placeholders, precision hints, and date bounds per field.
package model
