package schema

import (
	"context"
	"sort"
	"strconv"
	"strings"
)

// NormalizeOptions supplies optional hints to adapters during normalization.
type NormalizeOptions struct {
	// FallbackFormID provides a fallback identifier for form discovery when
	// the document carries no $id or title.
	FallbackFormID string
	// FormID optionally pins normalization to a specific form identifier.
	FormID string
}

// Form describes a normalized form entry extracted from a source document.
// A form is a named object schema selected for field derivation.
type Form struct {
	ID          string
	Title       string
	Description string
	Schema      Schema
	Extensions  map[string]any
}

// Schema represents the canonical schema IR consumed by form model builders.
type Schema struct {
	Ref              string
	Type             string
	Format           string
	Title            string
	Description      string
	Default          any
	Example          any
	Enum             []any
	Const            any
	Required         []string
	Properties       map[string]Schema
	PropertyOrder    []string
	Items            *Schema
	Nullable         bool
	ReadOnly         bool
	Minimum          *float64
	Maximum          *float64
	ExclusiveMinimum bool
	ExclusiveMaximum bool
	MultipleOf       *float64
	MinLength        *int
	MaxLength        *int
	Pattern          string
	MinItems         *int
	MaxItems         *int
	UniqueItems      bool
	Extensions       map[string]any
}

// Clone creates a deep copy of the schema tree to avoid accidental mutation.
func (s Schema) Clone() Schema {
	cloned := s
	if len(s.Required) > 0 {
		cloned.Required = append([]string(nil), s.Required...)
	}
	if len(s.Enum) > 0 {
		cloned.Enum = append([]any(nil), s.Enum...)
	}
	if len(s.PropertyOrder) > 0 {
		cloned.PropertyOrder = append([]string(nil), s.PropertyOrder...)
	}
	if len(s.Properties) > 0 {
		cloned.Properties = make(map[string]Schema, len(s.Properties))
		for k, v := range s.Properties {
			cloned.Properties[k] = v.Clone()
		}
	}
	if s.Items != nil {
		items := s.Items.Clone()
		cloned.Items = &items
	}
	if len(s.Extensions) > 0 {
		cloned.Extensions = make(map[string]any, len(s.Extensions))
		for k, v := range s.Extensions {
			cloned.Extensions[k] = v
		}
	}
	return cloned
}

// DebugString renders the schema for logging without exposing internals.
func (s Schema) DebugString() string {
	summary := "type=" + s.Type
	if s.Ref != "" {
		summary += ",ref=" + s.Ref
	}
	if len(s.Required) > 0 {
		summary += ",required=" + strconv.Itoa(len(s.Required))
	}
	if len(s.Properties) > 0 {
		summary += ",properties=" + strconv.Itoa(len(s.Properties))
	}
	if s.Items != nil {
		summary += ",items=true"
	}
	if s.Nullable {
		summary += ",nullable=true"
	}
	return summary
}

// OrderedProperties returns property names in document order, falling back to
// sorted names when the adapter recorded no order.
func (s Schema) OrderedProperties() []string {
	if len(s.Properties) == 0 {
		return nil
	}
	if len(s.PropertyOrder) > 0 {
		seen := make(map[string]struct{}, len(s.PropertyOrder))
		names := make([]string, 0, len(s.Properties))
		for _, name := range s.PropertyOrder {
			if _, ok := s.Properties[name]; !ok {
				continue
			}
			if _, dup := seen[name]; dup {
				continue
			}
			seen[name] = struct{}{}
			names = append(names, name)
		}
		// Properties missing from the recorded order sort after it.
		rest := make([]string, 0)
		for name := range s.Properties {
			if _, ok := seen[name]; !ok {
				rest = append(rest, name)
			}
		}
		sort.Strings(rest)
		return append(names, rest...)
	}
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// RequiresProperty reports whether name appears in the schema's required list.
func (s Schema) RequiresProperty(name string) bool {
	for _, req := range s.Required {
		if req == name {
			return true
		}
	}
	return false
}

// SchemaIR is the normalized schema set produced by adapters.
type SchemaIR struct {
	Forms map[string]Form
}

// FormRef provides minimal metadata about an available form.
type FormRef struct {
	ID          string
	Title       string
	Description string
}

// NewSchemaIR constructs an empty schema IR container.
func NewSchemaIR() SchemaIR {
	return SchemaIR{Forms: make(map[string]Form)}
}

// Form looks up a form by id.
func (ir SchemaIR) Form(id string) (Form, bool) {
	if ir.Forms == nil {
		return Form{}, false
	}
	form, ok := ir.Forms[id]
	return form, ok
}

// FormRefs returns a sorted list of available form references.
func (ir SchemaIR) FormRefs() []FormRef {
	if len(ir.Forms) == 0 {
		return nil
	}
	ids := make([]string, 0, len(ir.Forms))
	for id := range ir.Forms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	refs := make([]FormRef, 0, len(ids))
	for _, id := range ids {
		form := ir.Forms[id]
		refID := form.ID
		if strings.TrimSpace(refID) == "" {
			refID = id
		}
		refs = append(refs, FormRef{
			ID:          refID,
			Title:       strings.TrimSpace(form.Title),
			Description: form.Description,
		})
	}
	return refs
}

// FormatAdapter normalizes source documents into the canonical IR.
type FormatAdapter interface {
	Name() string
	Detect(src Source, raw []byte) bool
	Load(ctx context.Context, src Source) (Document, error)
	Normalize(ctx context.Context, doc Document, opts NormalizeOptions) (SchemaIR, error)
	Forms(ctx context.Context, ir SchemaIR) ([]FormRef, error)
}
