package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// emptyChoiceLabel is prepended to optional choice fields so a select control
// has a neutral first option.
const emptyChoiceLabel = "---------"

// Builder converts normalized schema forms into form models.
type Builder struct {
	opts Options
}

// New creates a Builder with the supplied options.
func New(options Options) *Builder {
	opts := defaultOptions()
	if options.Labeler != nil {
		opts.Labeler = options.Labeler
	}
	if options.Sanitizer != nil {
		opts.Sanitizer = options.Sanitizer
	}
	if options.Clock != nil {
		opts.Clock = options.Clock
	}
	return &Builder{opts: opts}
}

// Build transforms a normalized form schema into a FormModel. Field order
// follows the schema's recorded property order, with an x-schemaform order
// directive taking precedence for the names it lists.
func (b *Builder) Build(form schema.Form) (FormModel, error) {
	if err := validateForm(form); err != nil {
		return FormModel{}, err
	}

	out := FormModel{
		ID:          form.ID,
		Title:       SanitizeLabel(form.Title),
		Description: b.opts.Sanitizer(form.Description),
	}
	if out.Title == "" {
		out.Title = b.opts.Labeler(form.ID)
	}

	fields, err := b.objectFields(form.Schema)
	if err != nil {
		return FormModel{}, err
	}
	out.Fields = fields

	metadata := cloneAnyMap(form.Extensions)
	rootHints := HintsFromExtensions(form.Schema.Extensions)
	for key, value := range rootHints.Extra {
		if metadata == nil {
			metadata = make(map[string]any)
		}
		metadata[key] = value
	}
	out.Metadata = metadata

	return out, nil
}

func (b *Builder) objectFields(node schema.Schema) ([]Field, error) {
	hints := HintsFromExtensions(node.Extensions)
	names := orderedNames(node, hints.Order)

	fields := make([]Field, 0, len(names))
	for _, name := range names {
		prop, ok := node.Properties[name]
		if !ok {
			continue
		}
		field, err := b.fieldFromSchema(name, prop, node.RequiresProperty(name))
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

func (b *Builder) fieldFromSchema(name string, node schema.Schema, required bool) (Field, error) {
	hints := HintsFromExtensions(node.Extensions)

	field := Field{
		Name:     name,
		Format:   node.Format,
		Nullable: node.Nullable,
		Required: required && !node.Nullable,
		Label:    fieldLabel(b.opts.Labeler, name, node.Title),
		HelpText: b.opts.Sanitizer(node.Description),
		Default:  node.Default,
	}
	field.Kind = resolveKind(node, hints)

	switch field.Kind {
	case FieldKindChoice:
		field.Choices = choicesFromValues(enumValues(node), !field.Required)
	case FieldKindMultiChoice:
		if node.Items != nil {
			field.Choices = choicesFromValues(node.Items.Enum, false)
		}
	case FieldKindObject:
		nested, err := b.objectFields(node)
		if err != nil {
			return Field{}, fmt.Errorf("field %q: %w", name, err)
		}
		field.Fields = nested
	case FieldKindArray:
		item, err := b.fieldFromSchema(name+"Item", *node.Items, false)
		if err != nil {
			return Field{}, err
		}
		field.Items = &item
	}

	b.applyConstraints(&field, node, hints)
	b.applyAttrs(&field, node, hints)
	applyPlaceholder(&field, node, hints)
	applyMetadata(&field, node, hints)

	return field, nil
}

// resolveKind implements the type-to-field mapping. A hidden directive or an
// explicit widget naming a field kind overrides the derived mapping.
func resolveKind(node schema.Schema, hints FieldHints) FieldKind {
	if hints.Hidden {
		return FieldKindHidden
	}
	if kind, ok := kindNamed(hints.Widget); ok {
		return kind
	}

	if len(enumValues(node)) > 0 && node.Type != "array" && node.Type != "object" {
		return FieldKindChoice
	}

	switch node.Type {
	case "integer":
		return FieldKindInteger
	case "number":
		if isDecimal(node, hints) {
			return FieldKindDecimal
		}
		return FieldKindNumber
	case "boolean":
		return FieldKindBoolean
	case "array":
		if node.Items != nil && len(node.Items.Enum) > 0 {
			return FieldKindMultiChoice
		}
		return FieldKindArray
	case "object":
		if len(node.Properties) == 0 {
			return FieldKindJSON
		}
		return FieldKindObject
	case "string":
		return stringKind(node, hints)
	case "":
		if len(node.Properties) > 0 {
			return FieldKindObject
		}
		return FieldKindJSON
	default:
		return FieldKindText
	}
}

func stringKind(node schema.Schema, hints FieldHints) FieldKind {
	switch strings.ToLower(node.Format) {
	case "email", "idn-email":
		return FieldKindEmail
	case "uri", "url", "iri", "uri-reference", "iri-reference":
		return FieldKindURL
	case "password":
		return FieldKindPassword
	case "date":
		return FieldKindDate
	case "date-time", "datetime", "datetime-local":
		return FieldKindDateTime
	case "time":
		return FieldKindTime
	case "duration":
		return FieldKindDuration
	case "uuid":
		return FieldKindUUID
	case "decimal":
		return FieldKindDecimal
	case "binary", "byte":
		return FieldKindFile
	case "image":
		return FieldKindImage
	}
	if isDecimal(node, hints) {
		return FieldKindDecimal
	}
	if hints.Rows > 0 {
		return FieldKindTextarea
	}
	return FieldKindText
}

func isDecimal(node schema.Schema, hints FieldHints) bool {
	if strings.EqualFold(node.Format, "decimal") {
		return true
	}
	return hints.MaxDigits != nil || hints.DecimalPlaces != nil
}

// kindNamed maps a widget directive onto a field kind when it names one
// directly. Other widget values stay as rendering hints.
func kindNamed(widget string) (FieldKind, bool) {
	switch kind := FieldKind(widget); kind {
	case FieldKindText, FieldKindTextarea, FieldKindEmail, FieldKindURL,
		FieldKindPassword, FieldKindInteger, FieldKindNumber, FieldKindDecimal,
		FieldKindBoolean, FieldKindDate, FieldKindDateTime, FieldKindTime,
		FieldKindDuration, FieldKindUUID, FieldKindChoice, FieldKindMultiChoice,
		FieldKindFile, FieldKindImage, FieldKindJSON, FieldKindHidden:
		return kind, true
	}
	return "", false
}

func fieldLabel(labeler func(string) string, name, title string) string {
	if cleaned := SanitizeLabel(title); cleaned != "" {
		return cleaned
	}
	return labeler(name)
}

func enumValues(node schema.Schema) []any {
	if len(node.Enum) > 0 {
		return node.Enum
	}
	if node.Const != nil {
		return []any{node.Const}
	}
	return nil
}

func choicesFromValues(values []any, includeEmpty bool) []Choice {
	if len(values) == 0 {
		return nil
	}
	choices := make([]Choice, 0, len(values)+1)
	if includeEmpty {
		choices = append(choices, Choice{Value: "", Label: emptyChoiceLabel})
	}
	for _, value := range values {
		if value == nil {
			continue
		}
		str := choiceValue(value)
		choices = append(choices, Choice{Value: str, Label: str})
	}
	return choices
}

func choiceValue(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case json.Number:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (b *Builder) applyConstraints(field *Field, node schema.Schema, hints FieldHints) {
	if node.Minimum != nil {
		params := map[string]string{"value": formatFloat(*node.Minimum)}
		if node.ExclusiveMinimum {
			params["exclusive"] = "true"
		}
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMin,
			Params: params,
		})
	}

	if node.Maximum != nil {
		params := map[string]string{"value": formatFloat(*node.Maximum)}
		if node.ExclusiveMaximum {
			params["exclusive"] = "true"
		}
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMax,
			Params: params,
		})
	}

	if node.MinLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMinLength,
			Params: map[string]string{"value": strconv.Itoa(*node.MinLength)},
		})
	}

	if node.MaxLength != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMaxLength,
			Params: map[string]string{"value": strconv.Itoa(*node.MaxLength)},
		})
	}

	if node.Pattern != "" {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRulePattern,
			Params: map[string]string{"pattern": node.Pattern},
		})
	}

	if node.MultipleOf != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMultipleOf,
			Params: map[string]string{"value": formatFloat(*node.MultipleOf)},
		})
	}

	if node.MinItems != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMinItems,
			Params: map[string]string{"value": strconv.Itoa(*node.MinItems)},
		})
	}

	if node.MaxItems != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMaxItems,
			Params: map[string]string{"value": strconv.Itoa(*node.MaxItems)},
		})
	}

	if hints.MaxDigits != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleMaxDigits,
			Params: map[string]string{"value": strconv.Itoa(*hints.MaxDigits)},
		})
	}

	if hints.DecimalPlaces != nil {
		field.Validations = append(field.Validations, ValidationRule{
			Kind:   ValidationRuleDecimalPlaces,
			Params: map[string]string{"value": strconv.Itoa(*hints.DecimalPlaces)},
		})
	}

	if len(field.Validations) == 0 {
		field.Validations = nil
	}
}

func (b *Builder) applyAttrs(field *Field, node schema.Schema, hints FieldHints) {
	attrs := make(map[string]string)

	if inputType := inputTypeFor(field.Kind); inputType != "" {
		attrs["type"] = inputType
	}

	switch field.Kind {
	case FieldKindInteger, FieldKindNumber, FieldKindDecimal:
		if node.Minimum != nil {
			attrs["min"] = formatFloat(*node.Minimum)
		}
		if node.Maximum != nil {
			attrs["max"] = formatFloat(*node.Maximum)
		}
		if step := numericStep(field.Kind, node, hints); step != "" {
			attrs["step"] = step
		}
	case FieldKindText, FieldKindTextarea, FieldKindEmail, FieldKindURL, FieldKindPassword:
		if node.MinLength != nil {
			attrs["minlength"] = strconv.Itoa(*node.MinLength)
		}
		if node.MaxLength != nil {
			attrs["maxlength"] = strconv.Itoa(*node.MaxLength)
		}
		if node.Pattern != "" {
			attrs["pattern"] = node.Pattern
		}
	case FieldKindDate:
		if hints.PastDate {
			attrs["max"] = b.opts.Clock().Format("2006-01-02")
		}
		if hints.FutureDate {
			attrs["min"] = b.opts.Clock().Format("2006-01-02")
		}
	case FieldKindDateTime:
		if hints.PastDate {
			attrs["max"] = b.opts.Clock().Format("2006-01-02T15:04")
		}
		if hints.FutureDate {
			attrs["min"] = b.opts.Clock().Format("2006-01-02T15:04")
		}
	case FieldKindFile, FieldKindImage:
		accept := hints.Accept
		if accept == "" && field.Kind == FieldKindImage {
			accept = "image/*"
		}
		if accept != "" {
			attrs["accept"] = accept
		}
	}

	if field.Kind == FieldKindTextarea && hints.Rows > 0 {
		attrs["rows"] = strconv.Itoa(hints.Rows)
	}
	if hints.Autocomplete != "" {
		attrs["autocomplete"] = hints.Autocomplete
	}
	if hints.Widget != "" {
		attrs["widget"] = hints.Widget
	}
	if node.ReadOnly {
		attrs["readonly"] = "readonly"
	}

	if len(attrs) == 0 {
		return
	}
	field.Attrs = attrs
}

func inputTypeFor(kind FieldKind) string {
	switch kind {
	case FieldKindEmail:
		return "email"
	case FieldKindURL:
		return "url"
	case FieldKindPassword:
		return "password"
	case FieldKindInteger, FieldKindNumber, FieldKindDecimal:
		return "number"
	case FieldKindBoolean:
		return "checkbox"
	case FieldKindDate:
		return "date"
	case FieldKindDateTime:
		return "datetime-local"
	case FieldKindTime:
		return "time"
	case FieldKindFile, FieldKindImage:
		return "file"
	case FieldKindHidden:
		return "hidden"
	default:
		return ""
	}
}

// numericStep derives the step attribute. An explicit step hint wins, then
// multipleOf, then the decimal precision for decimal fields. Plain number
// fields fall back to free-form stepping.
func numericStep(kind FieldKind, node schema.Schema, hints FieldHints) string {
	if hints.Step != "" {
		return hints.Step
	}
	if node.MultipleOf != nil {
		return formatFloat(*node.MultipleOf)
	}
	if kind == FieldKindDecimal {
		places := 2
		if hints.DecimalPlaces != nil {
			places = *hints.DecimalPlaces
		}
		if places <= 0 {
			return "1"
		}
		return "0." + strings.Repeat("0", places-1) + "1"
	}
	if kind == FieldKindNumber {
		return "any"
	}
	return ""
}

func applyPlaceholder(field *Field, node schema.Schema, hints FieldHints) {
	if hints.Placeholder != "" {
		field.Placeholder = hints.Placeholder
		return
	}
	if node.Example == nil {
		return
	}
	if str, ok := CanonicalizeExtensionValue(node.Example); ok {
		field.Placeholder = str
	}
}

func applyMetadata(field *Field, node schema.Schema, hints FieldHints) {
	meta := make(map[string]any)
	if node.Ref != "" {
		meta["$ref"] = node.Ref
	}
	for key, value := range hints.Extra {
		meta[key] = value
	}
	if len(meta) == 0 {
		return
	}
	field.Metadata = meta
}

// orderedNames resolves the final property walk order. Names listed by the
// order directive come first, remaining properties keep the recorded order.
func orderedNames(node schema.Schema, explicit []string) []string {
	recorded := node.OrderedProperties()
	if len(explicit) == 0 {
		return recorded
	}

	seen := make(map[string]struct{}, len(explicit))
	out := make([]string, 0, len(recorded))
	for _, name := range explicit {
		if _, ok := node.Properties[name]; !ok {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	for _, name := range recorded {
		if _, ok := seen[name]; ok {
			continue
		}
		out = append(out, name)
	}
	return out
}

func formatFloat(value float64) string {
	return strconv.FormatFloat(value, 'f', -1, 64)
}

func cloneAnyMap(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}
