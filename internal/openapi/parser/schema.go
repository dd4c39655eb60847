package parser

import (
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-schemaform/pkg/openapi"
)

const extensionNamespace = "x-schemaform"

// convertSchema maps a kin-openapi schema tree onto the canonical IR.
func convertSchema(ref *openapi3.SchemaRef) pkgopenapi.Schema {
	if ref == nil {
		return pkgopenapi.Schema{}
	}
	if ref.Value == nil {
		return pkgopenapi.Schema{Ref: ref.Ref}
	}
	src := ref.Value
	out := pkgopenapi.Schema{
		Ref:         ref.Ref,
		Type:        baseSchemaType(src.Type),
		Format:      src.Format,
		Title:       src.Title,
		Description: src.Description,
		Default:     src.Default,
		Example:     src.Example,
		Nullable:    src.Nullable || permitsNull(src.Type),
		ReadOnly:    src.ReadOnly,
	}

	if len(src.Required) > 0 {
		out.Required = append([]string(nil), src.Required...)
	}
	if len(src.Enum) > 0 {
		out.Enum = append([]any(nil), src.Enum...)
	}
	if len(src.Properties) > 0 {
		out.Properties = make(map[string]pkgopenapi.Schema, len(src.Properties))
		for name, property := range src.Properties {
			out.Properties[name] = convertSchema(property)
		}
	}
	if src.Items != nil {
		items := convertSchema(src.Items)
		out.Items = &items
	}

	if src.Min != nil {
		value := *src.Min
		out.Minimum = &value
	}
	if src.Max != nil {
		value := *src.Max
		out.Maximum = &value
	}
	out.ExclusiveMinimum = src.ExclusiveMin
	out.ExclusiveMaximum = src.ExclusiveMax
	if src.MultipleOf != nil {
		value := *src.MultipleOf
		out.MultipleOf = &value
	}
	if src.MinLength != 0 {
		value := int(src.MinLength)
		out.MinLength = &value
	}
	if src.MaxLength != nil {
		value := int(*src.MaxLength)
		out.MaxLength = &value
	}
	out.Pattern = src.Pattern
	if src.MinItems != 0 {
		value := int(src.MinItems)
		out.MinItems = &value
	}
	if src.MaxItems != nil {
		value := int(*src.MaxItems)
		out.MaxItems = &value
	}
	out.UniqueItems = src.UniqueItems

	out.Extensions = extractExtensions(src.Extensions)
	mergeAllOf(&out, src.AllOf)

	if nullable, inner := nullableBranch(src); nullable {
		converted := convertSchema(inner)
		converted.Nullable = true
		if converted.Title == "" {
			converted.Title = out.Title
		}
		if converted.Description == "" {
			converted.Description = out.Description
		}
		if converted.Default == nil {
			converted.Default = out.Default
		}
		if len(out.Extensions) > 0 {
			if converted.Extensions == nil {
				converted.Extensions = make(map[string]any, len(out.Extensions))
			}
			for key, value := range out.Extensions {
				converted.Extensions[key] = value
			}
		}
		return converted
	}

	return out
}

// baseSchemaType reduces a type list to its single non-null member.
func baseSchemaType(types *openapi3.Types) string {
	if types == nil {
		return ""
	}
	var base string
	for _, value := range types.Slice() {
		if value == "null" {
			continue
		}
		if base == "" {
			base = value
		}
	}
	return base
}

func permitsNull(types *openapi3.Types) bool {
	if types == nil {
		return false
	}
	for _, value := range types.Slice() {
		if value == "null" {
			return true
		}
	}
	return false
}

// nullableBranch detects the anyOf/oneOf spelling of an optional value and
// returns its non-null branch.
func nullableBranch(src *openapi3.Schema) (bool, *openapi3.SchemaRef) {
	for _, refs := range []openapi3.SchemaRefs{src.AnyOf, src.OneOf} {
		if len(refs) == 0 {
			continue
		}
		var branch *openapi3.SchemaRef
		sawNull := false
		usable := true
		for _, ref := range refs {
			if ref == nil || ref.Value == nil {
				usable = false
				break
			}
			if ref.Value.Type != nil && ref.Value.Type.Is("null") {
				sawNull = true
				continue
			}
			if branch != nil {
				usable = false
				break
			}
			branch = ref
		}
		if usable && sawNull && branch != nil {
			return true, branch
		}
	}
	return false, nil
}

// extractExtensions keeps the x-schemaform namespace and its dashed variants.
func extractExtensions(raw map[string]any) map[string]any {
	if len(raw) == 0 {
		return nil
	}

	result := make(map[string]any)
	for key, value := range raw {
		switch {
		case key == extensionNamespace:
			if mapped, ok := cloneMap(value); ok && len(mapped) > 0 {
				result[key] = mapped
			}
		case strings.HasPrefix(key, extensionNamespace+"-"):
			result[key] = value
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

// mergeAllOf folds allOf members into the converted schema so composed
// request bodies keep their properties and constraints. Keywords the base
// schema sets win; members fill in the rest. Required names union.
func mergeAllOf(target *pkgopenapi.Schema, refs openapi3.SchemaRefs) {
	if target == nil || len(refs) == 0 {
		return
	}
	for _, ref := range refs {
		if ref == nil || ref.Value == nil {
			continue
		}
		mergeSchema(target, convertSchema(ref))
	}
}

func mergeSchema(target *pkgopenapi.Schema, member pkgopenapi.Schema) {
	if target.Type == "" {
		target.Type = member.Type
	}
	if target.Format == "" {
		target.Format = member.Format
	}
	if target.Title == "" {
		target.Title = member.Title
	}
	if target.Description == "" {
		target.Description = member.Description
	}
	if target.Default == nil {
		target.Default = member.Default
	}
	if target.Example == nil {
		target.Example = member.Example
	}
	target.Nullable = target.Nullable || member.Nullable
	target.ReadOnly = target.ReadOnly || member.ReadOnly

	if len(target.Enum) == 0 {
		target.Enum = member.Enum
	}
	for _, name := range member.Required {
		if !containsName(target.Required, name) {
			target.Required = append(target.Required, name)
		}
	}
	if len(member.Properties) > 0 {
		if target.Properties == nil {
			target.Properties = make(map[string]pkgopenapi.Schema, len(member.Properties))
		}
		for name, property := range member.Properties {
			if _, exists := target.Properties[name]; !exists {
				target.Properties[name] = property
			}
		}
	}
	for _, name := range member.PropertyOrder {
		if !containsName(target.PropertyOrder, name) {
			target.PropertyOrder = append(target.PropertyOrder, name)
		}
	}
	if target.Items == nil {
		target.Items = member.Items
	}

	if target.Minimum == nil {
		target.Minimum = member.Minimum
		target.ExclusiveMinimum = member.ExclusiveMinimum
	}
	if target.Maximum == nil {
		target.Maximum = member.Maximum
		target.ExclusiveMaximum = member.ExclusiveMaximum
	}
	if target.MultipleOf == nil {
		target.MultipleOf = member.MultipleOf
	}
	if target.MinLength == nil {
		target.MinLength = member.MinLength
	}
	if target.MaxLength == nil {
		target.MaxLength = member.MaxLength
	}
	if target.Pattern == "" {
		target.Pattern = member.Pattern
	}
	if target.MinItems == nil {
		target.MinItems = member.MinItems
	}
	if target.MaxItems == nil {
		target.MaxItems = member.MaxItems
	}
	target.UniqueItems = target.UniqueItems || member.UniqueItems

	if len(member.Extensions) > 0 {
		if target.Extensions == nil {
			target.Extensions = make(map[string]any, len(member.Extensions))
		}
		for key, value := range member.Extensions {
			if _, exists := target.Extensions[key]; !exists {
				target.Extensions[key] = value
			}
		}
	}
}

func containsName(names []string, name string) bool {
	for _, existing := range names {
		if existing == name {
			return true
		}
	}
	return false
}

func cloneMap(value any) (map[string]any, bool) {
	mapped, ok := value.(map[string]any)
	if !ok {
		return nil, false
	}
	cloned := make(map[string]any, len(mapped))
	for k, v := range mapped {
		cloned[k] = v
	}
	return cloned, true
}
