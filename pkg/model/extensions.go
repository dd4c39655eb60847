package model

import internalmodel "github.com/goliatone/go-schemaform/internal/model"

// FieldHints re-exports the parsed x-schemaform directive set.
type FieldHints = internalmodel.FieldHints

// HintsFromExtensions collects x-schemaform directives from a schema node's
// extensions map. Decorators can use it to honour custom directives without
// re-parsing raw extension payloads.
func HintsFromExtensions(ext map[string]any) FieldHints {
	return internalmodel.HintsFromExtensions(ext)
}
