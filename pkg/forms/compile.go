package forms

import (
	"encoding/json"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// CompileForm compiles a normalized form entry into the schema the validation
// engine delegates to.
func CompileForm(form schema.Form) *openapi3.Schema {
	return CompileSchema(form.Schema)
}

// CompileSchema translates the canonical IR into an *openapi3.Schema tree.
// Literal values (enum, const, default, example) are normalized to their
// JSON-decoded shapes so equality checks against bound candidates hold
// regardless of the source document format.
func CompileSchema(src schema.Schema) *openapi3.Schema {
	out := openapi3.NewSchema()
	if src.Type != "" {
		out.Type = &openapi3.Types{src.Type}
	}
	out.Format = src.Format
	out.Title = src.Title
	out.Description = src.Description
	out.Nullable = src.Nullable
	out.ReadOnly = src.ReadOnly
	out.Default = jsonShape(src.Default)
	out.Example = jsonShape(src.Example)

	if len(src.Enum) > 0 {
		out.Enum = make([]any, len(src.Enum))
		for i, value := range src.Enum {
			out.Enum[i] = jsonShape(value)
		}
	} else if src.Const != nil {
		// The engine predates const; a single-value enum is equivalent.
		out.Enum = []any{jsonShape(src.Const)}
	}

	if src.Minimum != nil {
		bound := *src.Minimum
		out.Min = &bound
		out.ExclusiveMin = src.ExclusiveMinimum
	}
	if src.Maximum != nil {
		bound := *src.Maximum
		out.Max = &bound
		out.ExclusiveMax = src.ExclusiveMaximum
	}
	if src.MultipleOf != nil {
		step := *src.MultipleOf
		out.MultipleOf = &step
	}
	if src.MinLength != nil && *src.MinLength > 0 {
		out.MinLength = uint64(*src.MinLength)
	}
	if src.MaxLength != nil && *src.MaxLength >= 0 {
		limit := uint64(*src.MaxLength)
		out.MaxLength = &limit
	}
	out.Pattern = src.Pattern
	if src.MinItems != nil && *src.MinItems > 0 {
		out.MinItems = uint64(*src.MinItems)
	}
	if src.MaxItems != nil && *src.MaxItems >= 0 {
		limit := uint64(*src.MaxItems)
		out.MaxItems = &limit
	}
	out.UniqueItems = src.UniqueItems

	if len(src.Required) > 0 {
		out.Required = append([]string(nil), src.Required...)
	}
	if len(src.Properties) > 0 {
		out.Properties = make(openapi3.Schemas, len(src.Properties))
		for name, prop := range src.Properties {
			out.Properties[name] = openapi3.NewSchemaRef("", CompileSchema(prop))
		}
	}
	if src.Items != nil {
		out.Items = openapi3.NewSchemaRef("", CompileSchema(*src.Items))
	}
	return out
}

// jsonShape normalizes scalar literals to the types json.Unmarshal produces,
// recursing into maps and slices. YAML documents decode integers as int, so
// without this an enum of ints would never equal a bound float64 candidate.
func jsonShape(value any) any {
	switch v := value.(type) {
	case nil:
		return nil
	case bool, string, float64:
		return v
	case int:
		return float64(v)
	case int32:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	case float32:
		return float64(v)
	case json.Number:
		if f, err := v.Float64(); err == nil {
			return f
		}
		return v.String()
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = jsonShape(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = jsonShape(item)
		}
		return out
	default:
		return v
	}
}

// schemaAt walks a compiled schema's properties along a dotted path.
func schemaAt(root *openapi3.Schema, path []string) *openapi3.Schema {
	current := root
	for _, segment := range path {
		if current == nil || len(current.Properties) == 0 {
			return nil
		}
		ref, ok := current.Properties[segment]
		if !ok || ref == nil {
			return nil
		}
		current = ref.Value
	}
	return current
}

// itemSchema returns the item schema of an array property, if any.
func itemSchema(s *openapi3.Schema) *openapi3.Schema {
	if s == nil || s.Items == nil {
		return nil
	}
	return s.Items.Value
}
