package model

// FieldKind enumerates the input control a schema property maps onto.
type FieldKind string

const (
	FieldKindText        FieldKind = "text"
	FieldKindTextarea    FieldKind = "textarea"
	FieldKindEmail       FieldKind = "email"
	FieldKindURL         FieldKind = "url"
	FieldKindPassword    FieldKind = "password"
	FieldKindInteger     FieldKind = "integer"
	FieldKindNumber      FieldKind = "number"
	FieldKindDecimal     FieldKind = "decimal"
	FieldKindBoolean     FieldKind = "boolean"
	FieldKindDate        FieldKind = "date"
	FieldKindDateTime    FieldKind = "datetime"
	FieldKindTime        FieldKind = "time"
	FieldKindDuration    FieldKind = "duration"
	FieldKindUUID        FieldKind = "uuid"
	FieldKindChoice      FieldKind = "choice"
	FieldKindMultiChoice FieldKind = "multichoice"
	FieldKindFile        FieldKind = "file"
	FieldKindImage       FieldKind = "image"
	FieldKindJSON        FieldKind = "json"
	FieldKindHidden      FieldKind = "hidden"
	FieldKindObject      FieldKind = "object"
	FieldKindArray       FieldKind = "array"
)

const (
	ValidationRuleMin           = "min"
	ValidationRuleMax           = "max"
	ValidationRuleMinLength     = "minLength"
	ValidationRuleMaxLength     = "maxLength"
	ValidationRulePattern       = "pattern"
	ValidationRuleMultipleOf    = "multipleOf"
	ValidationRuleMaxDigits     = "maxDigits"
	ValidationRuleDecimalPlaces = "decimalPlaces"
	ValidationRuleMinItems      = "minItems"
	ValidationRuleMaxItems      = "maxItems"
	ValidationRuleRequired      = "required"
)

// ValidationRule represents a single declarative constraint applied to a
// field. Use the ValidationRule* constants to reference canonical kinds.
// Numeric bounds and length limits encode their threshold in Params["value"]
// while pattern rules preserve the original expression in Params["pattern"].
// Boolean flags such as exclusivity are encoded as string values to keep JSON
// snapshots stable.
type ValidationRule struct {
	Kind   string            `json:"kind"`
	Params map[string]string `json:"params,omitempty"`
}

// Choice is one selectable option of a choice or multichoice field.
type Choice struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Field models an individual input inside a derived form. Struct fields are
// annotated so consumers can serialise models directly when needed.
type Field struct {
	Name        string            `json:"name"`
	Kind        FieldKind         `json:"kind"`
	Format      string            `json:"format,omitempty"`
	Required    bool              `json:"required"`
	Nullable    bool              `json:"nullable,omitempty"`
	Label       string            `json:"label,omitempty"`
	HelpText    string            `json:"helpText,omitempty"`
	Placeholder string            `json:"placeholder,omitempty"`
	Default     any               `json:"default,omitempty"`
	Choices     []Choice          `json:"choices,omitempty"`
	Items       *Field            `json:"items,omitempty"`
	Fields      []Field           `json:"fields,omitempty"`
	Validations []ValidationRule  `json:"validations,omitempty"`
	Attrs       map[string]string `json:"attrs,omitempty"`
	Metadata    map[string]any    `json:"metadata,omitempty"`
}

// FormModel is the top-level representation binders and renderers consume.
type FormModel struct {
	ID          string         `json:"id"`
	Title       string         `json:"title,omitempty"`
	Description string         `json:"description,omitempty"`
	Fields      []Field        `json:"fields"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

// FieldByName returns a pointer to the top-level field with the given name.
func (m *FormModel) FieldByName(name string) (*Field, bool) {
	for i := range m.Fields {
		if m.Fields[i].Name == name {
			return &m.Fields[i], true
		}
	}
	return nil, false
}

// Rule returns the first validation rule of the given kind.
func (f Field) Rule(kind string) (ValidationRule, bool) {
	for _, rule := range f.Validations {
		if rule.Kind == kind {
			return rule, true
		}
	}
	return ValidationRule{}, false
}

// HasRule reports whether the field carries a validation rule of the given
// kind.
func (f Field) HasRule(kind string) bool {
	_, ok := f.Rule(kind)
	return ok
}
