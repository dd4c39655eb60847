package forms

import (
	"errors"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemaform/pkg/model"
)

// ErrNilSchema reports a definition constructed without a compiled schema to
// delegate validation to.
var ErrNilSchema = errors.New("forms: definition requires a compiled schema")

// Subset narrows the set of top-level fields a definition binds and
// validates. A non-empty Include list pins the visible set and takes
// precedence over Exclude; unknown names are ignored. Required reports for
// fields outside the subset are suppressed.
type Subset struct {
	Include []string
	Exclude []string
}

func (s Subset) narrows() bool {
	return len(s.Include) > 0 || len(s.Exclude) > 0
}

func (s Subset) allows(name string) bool {
	if len(s.Include) > 0 {
		for _, candidate := range s.Include {
			if candidate == name {
				return true
			}
		}
		return false
	}
	for _, candidate := range s.Exclude {
		if candidate == name {
			return false
		}
	}
	return true
}

// HiddenField threads host-framework state (CSRF tokens, version markers)
// through a rendered form without widening the schema.
type HiddenField struct {
	Name  string
	Value string
}

// MergeHiddenFields merges extra hidden fields into existing ones. Later
// entries win on name collisions and the result is sorted by name so
// rendered output stays deterministic.
func MergeHiddenFields(existing []HiddenField, extras ...HiddenField) []HiddenField {
	merged := make(map[string]string, len(existing)+len(extras))
	for _, field := range existing {
		if name := strings.TrimSpace(field.Name); name != "" {
			merged[name] = field.Value
		}
	}
	for _, field := range extras {
		if name := strings.TrimSpace(field.Name); name != "" {
			merged[name] = field.Value
		}
	}
	if len(merged) == 0 {
		return nil
	}
	names := make([]string, 0, len(merged))
	for name := range merged {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]HiddenField, 0, len(names))
	for _, name := range names {
		out = append(out, HiddenField{Name: name, Value: merged[name]})
	}
	return out
}

// Option configures a Definition.
type Option func(*Definition)

// WithMessages replaces the default message catalog. Codes missing from the
// override still resolve against the built-in templates.
func WithMessages(messages Messages) Option {
	return func(d *Definition) {
		if messages != nil {
			d.messages = messages
		}
	}
}

// WithTranslator installs a locale-aware message resolver consulted before
// the catalog.
func WithTranslator(tr Translator) Option {
	return func(d *Definition) {
		d.translator = tr
	}
}

// WithLocale sets the locale handed to the translator.
func WithLocale(locale string) Option {
	return func(d *Definition) {
		d.locale = strings.TrimSpace(locale)
	}
}

// WithCleaner registers a per-field hook that runs after delegated
// validation for fields without errors. The field name is a dotted path for
// nested fields.
func WithCleaner(field string, fn CleanerFunc) Option {
	return func(d *Definition) {
		field = strings.TrimSpace(field)
		if field == "" || fn == nil {
			return
		}
		if d.cleaners == nil {
			d.cleaners = make(map[string]CleanerFunc)
		}
		d.cleaners[field] = fn
	}
}

// WithFormCleaner registers a cross-field hook that runs after every field
// cleaner. Multiple cleaners run in registration order.
func WithFormCleaner(fn FormCleanerFunc) Option {
	return func(d *Definition) {
		if fn != nil {
			d.formCleaners = append(d.formCleaners, fn)
		}
	}
}

// WithSubset narrows the definition to a subset of its top-level fields.
func WithSubset(subset Subset) Option {
	return func(d *Definition) {
		d.subset = subset
	}
}

// WithHiddenFields records hidden fields the host wants rendered with the
// form.
func WithHiddenFields(fields ...HiddenField) Option {
	return func(d *Definition) {
		d.hidden = MergeHiddenFields(d.hidden, fields...)
	}
}

// Definition is the immutable pairing of a derived form model with the
// compiled schema that validates its submissions.
type Definition struct {
	formModel    model.FormModel
	compiled     *openapi3.Schema
	fields       []model.Field
	fieldPaths   map[string]struct{}
	messages     Messages
	translator   Translator
	locale       string
	cleaners     map[string]CleanerFunc
	formCleaners []FormCleanerFunc
	subset       Subset
	hidden       []HiddenField
}

// NewDefinition pairs a form model with its compiled schema. The compiled
// schema is required; everything else has usable defaults.
func NewDefinition(formModel model.FormModel, compiled *openapi3.Schema, opts ...Option) (*Definition, error) {
	if compiled == nil {
		return nil, ErrNilSchema
	}
	def := &Definition{
		formModel: formModel,
		messages:  DefaultMessages(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(def)
		}
	}
	def.fields = visibleFields(formModel.Fields, def.subset)
	def.compiled = subsetSchema(compiled, def.subset, def.fields)
	def.fieldPaths = make(map[string]struct{})
	collectFieldPaths(def.fields, "", def.fieldPaths)
	return def, nil
}

// Model returns the underlying form model, including fields outside any
// configured subset.
func (d *Definition) Model() model.FormModel {
	return d.formModel
}

// Schema returns the compiled schema submissions are validated against.
func (d *Definition) Schema() *openapi3.Schema {
	return d.compiled
}

// Fields returns the top-level fields the definition binds, after
// subsetting.
func (d *Definition) Fields() []model.Field {
	return append([]model.Field(nil), d.fields...)
}

// Field looks up a visible top-level field by name.
func (d *Definition) Field(name string) (model.Field, bool) {
	for _, field := range d.fields {
		if field.Name == name {
			return field, true
		}
	}
	return model.Field{}, false
}

// HiddenFields returns the hidden fields configured for the definition.
func (d *Definition) HiddenFields() []HiddenField {
	return append([]HiddenField(nil), d.hidden...)
}

// Bind attaches submitted values and files to the definition. The returned
// form is unvalidated; call Validate to run the pipeline.
func (d *Definition) Bind(values url.Values, files Files) *Form {
	if values == nil {
		values = url.Values{}
	}
	return &Form{def: d, values: values, files: files, bound: true}
}

// Initial seeds an unbound form with display values for rendering. Unbound
// forms cannot be validated.
func (d *Definition) Initial(values map[string]any) *Form {
	initial := make(map[string]any, len(values))
	for name, value := range values {
		initial[name] = value
	}
	return &Form{def: d, initial: initial}
}

// MapErrors routes an out-of-band error payload (for example a backend
// response) onto the definition's fields using the same path matching as the
// validation pipeline.
func (d *Definition) MapErrors(payload map[string]any) ErrorMapping {
	return mapPayload(d.fieldPaths, payload)
}

func visibleFields(fields []model.Field, subset Subset) []model.Field {
	if !subset.narrows() {
		return fields
	}
	out := make([]model.Field, 0, len(fields))
	for _, field := range fields {
		if subset.allows(field.Name) {
			out = append(out, field)
		}
	}
	return out
}

// subsetSchema suppresses required reports for fields hidden by the subset.
// The copy is shallow; property schemas are shared with the input.
func subsetSchema(compiled *openapi3.Schema, subset Subset, visible []model.Field) *openapi3.Schema {
	if !subset.narrows() {
		return compiled
	}
	names := make(map[string]struct{}, len(visible))
	for _, field := range visible {
		names[field.Name] = struct{}{}
	}
	filtered := *compiled
	filtered.Required = nil
	for _, name := range compiled.Required {
		if _, ok := names[name]; ok {
			filtered.Required = append(filtered.Required, name)
		}
	}
	return &filtered
}
