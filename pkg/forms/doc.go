// Package forms pairs derived form models with their compiled schemas and
// validates submitted data against them.
//
// A Definition is the long-lived pairing of a model.FormModel with a compiled
// *openapi3.Schema plus presentation-independent options (message catalog,
// cleaner hooks, field subsets). Binding a Definition to submitted values
// produces a Form, whose Validate pipeline coerces raw inputs into the shapes
// the schema library expects, delegates constraint checking to
// openapi3.Schema.VisitJSON, translates the reported violations through the
// message catalog, and routes every message to the field that caused it or to
// the form-level bucket under NonFieldKey.
package forms
