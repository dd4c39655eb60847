package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	internaljsloader "github.com/goliatone/go-schemaform/internal/jsonschema/loader"
	internalloader "github.com/goliatone/go-schemaform/internal/openapi/loader"
	internalparser "github.com/goliatone/go-schemaform/internal/openapi/parser"
	"github.com/goliatone/go-schemaform/pkg/forms"
	pkgjsonschema "github.com/goliatone/go-schemaform/pkg/jsonschema"
	"github.com/goliatone/go-schemaform/pkg/model"
	pkgopenapi "github.com/goliatone/go-schemaform/pkg/openapi"
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/widgets"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithAdapter registers an additional format adapter. An adapter sharing a
// built-in name replaces the built-in.
func WithAdapter(adapter schema.FormatAdapter) Option {
	return func(o *Orchestrator) {
		if adapter != nil {
			o.extraAdapters = append(o.extraAdapters, adapter)
		}
	}
}

// WithModelBuilder injects a custom form model builder. Builder-level options
// such as WithLabeler and WithClock only affect the default builder.
func WithModelBuilder(builder model.Builder) Option {
	return func(o *Orchestrator) {
		o.builder = builder
	}
}

// WithLabeler overrides the name-to-label conversion of the default builder.
func WithLabeler(labeler func(string) string) Option {
	return func(o *Orchestrator) {
		if labeler != nil {
			o.builderOpts = append(o.builderOpts, model.WithLabeler(labeler))
		}
	}
}

// WithClock fixes the time source the default builder uses for relative date
// bounds.
func WithClock(clock func() time.Time) Option {
	return func(o *Orchestrator) {
		if clock != nil {
			o.builderOpts = append(o.builderOpts, model.WithClock(clock))
		}
	}
}

// WithDecorators registers decorators that run against built form models.
// They run after the schema transformer and before widget resolution.
func WithDecorators(decorators ...model.Decorator) Option {
	return func(o *Orchestrator) {
		if len(decorators) == 0 {
			return
		}
		o.decorators = append(o.decorators, decorators...)
	}
}

// WithWidgetRegistry replaces the built-in widget registry. Pass nil to skip
// widget resolution entirely.
func WithWidgetRegistry(registry *widgets.Registry) Option {
	return func(o *Orchestrator) {
		o.widgets = registry
		o.widgetsSpecified = true
	}
}

// WithSchemaTransformer registers a Transformer that can mutate form models
// after building but before decorators run.
func WithSchemaTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithMessages replaces the validation message catalog handed to derived
// definitions.
func WithMessages(messages forms.Messages) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, forms.WithMessages(messages))
	}
}

// WithTranslator installs a message translator on derived definitions.
func WithTranslator(tr forms.Translator) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, forms.WithTranslator(tr))
	}
}

// WithLocale sets the locale derived definitions hand to the translator.
func WithLocale(locale string) Option {
	return func(o *Orchestrator) {
		o.formOptions = append(o.formOptions, forms.WithLocale(locale))
	}
}

// WithDetectionLoader replaces the loader that fetches raw bytes for format
// detection before an adapter has been chosen, for example to permit remote
// sources.
func WithDetectionLoader(loader DocumentLoader) Option {
	return func(o *Orchestrator) {
		if loader != nil {
			o.detectLoader = loader
		}
	}
}

// WithDefaultFormat names the adapter used when detection finds no match.
func WithDefaultFormat(name string) Option {
	return func(o *Orchestrator) {
		o.defaultFormat = strings.TrimSpace(name)
	}
}

// Orchestrator coordinates the pipeline from schema document to bound-ready
// form definition: adapter detection, loading, normalization, model building,
// decoration, and definition construction. Missing dependencies initialise to
// the built-in implementations so a bare New() is usable.
type Orchestrator struct {
	adapterRegistry  *AdapterRegistry
	extraAdapters    []schema.FormatAdapter
	detectLoader     DocumentLoader
	builder          model.Builder
	builderOpts      []model.BuilderOption
	decorators       []model.Decorator
	widgets          *widgets.Registry
	widgetsSpecified bool
	transformer      Transformer
	formOptions      []forms.Option
	defaultFormat    string
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes the inputs required to derive a form.
type Request struct {
	// Source identifies where the schema document lives. Optional when
	// Document is supplied.
	Source schema.Source

	// Document bypasses loading when the caller already has the payload.
	Document *schema.Document

	// FormID selects which form to derive. Optional when the document
	// normalizes to exactly one form.
	FormID string

	// Format pins the adapter by name and skips detection. Optional.
	Format string

	// Options carries per-request definition configuration such as field
	// cleaners, subsets, or hidden fields.
	Options []forms.Option
}

// Forms lists the forms a source document can derive.
func (o *Orchestrator) Forms(ctx context.Context, src schema.Source) ([]schema.FormRef, error) {
	if ctx == nil {
		return nil, errors.New("orchestrator: context is required")
	}
	req := Request{Source: src}
	adapter, err := o.resolveAdapter(ctx, req)
	if err != nil {
		return nil, err
	}
	doc, err := o.resolveDocument(ctx, req, adapter)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ir, err := adapter.Normalize(ctx, doc, schema.NormalizeOptions{
		FallbackFormID: fallbackFormID(doc),
	})
	if err != nil {
		return nil, fmt.Errorf("orchestrator: normalize document: %w", err)
	}
	refs, err := adapter.Forms(ctx, ir)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: list forms: %w", err)
	}
	return refs, nil
}

// Model derives the form model for a request without constructing a
// definition.
func (o *Orchestrator) Model(ctx context.Context, req Request) (model.FormModel, error) {
	form, err := o.normalizeForm(ctx, req)
	if err != nil {
		return model.FormModel{}, err
	}
	return o.buildModel(ctx, form)
}

// Definition derives the form model and pairs it with the compiled schema,
// returning a definition ready to bind submissions. Orchestrator-level form
// options apply first; request options can override them.
func (o *Orchestrator) Definition(ctx context.Context, req Request) (*forms.Definition, error) {
	form, err := o.normalizeForm(ctx, req)
	if err != nil {
		return nil, err
	}
	formModel, err := o.buildModel(ctx, form)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	opts := make([]forms.Option, 0, len(o.formOptions)+len(req.Options))
	opts = append(opts, o.formOptions...)
	opts = append(opts, req.Options...)
	def, err := forms.NewDefinition(formModel, forms.CompileForm(form), opts...)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: new definition: %w", err)
	}
	return def, nil
}

// normalizeForm runs detection, loading, and normalization, then picks the
// requested form out of the IR.
func (o *Orchestrator) normalizeForm(ctx context.Context, req Request) (schema.Form, error) {
	if ctx == nil {
		return schema.Form{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return schema.Form{}, err
	}

	adapter, err := o.resolveAdapter(ctx, req)
	if err != nil {
		return schema.Form{}, err
	}
	doc, err := o.resolveDocument(ctx, req, adapter)
	if err != nil {
		return schema.Form{}, err
	}
	if err := ctx.Err(); err != nil {
		return schema.Form{}, err
	}

	ir, err := adapter.Normalize(ctx, doc, schema.NormalizeOptions{
		FormID:         req.FormID,
		FallbackFormID: fallbackFormID(doc),
	})
	if err != nil {
		return schema.Form{}, fmt.Errorf("orchestrator: normalize document: %w", err)
	}

	if req.FormID != "" {
		form, ok := ir.Form(req.FormID)
		if !ok {
			return schema.Form{}, fmt.Errorf("orchestrator: form %q not found (available: %s)", req.FormID, formatFormRefs(ir.FormRefs()))
		}
		return form, nil
	}

	refs := ir.FormRefs()
	switch len(refs) {
	case 0:
		return schema.Form{}, errors.New("orchestrator: document contains no forms")
	case 1:
		form, _ := ir.Form(refs[0].ID)
		return form, nil
	default:
		return schema.Form{}, fmt.Errorf("orchestrator: document contains multiple forms, set FormID (available: %s)", formatFormRefs(refs))
	}
}

// buildModel runs the builder and the decoration stages. Widget resolution
// runs last so decorators observe schema-derived attrs only.
func (o *Orchestrator) buildModel(ctx context.Context, form schema.Form) (model.FormModel, error) {
	if err := ctx.Err(); err != nil {
		return model.FormModel{}, err
	}
	formModel, err := o.builder.Build(form)
	if err != nil {
		return model.FormModel{}, fmt.Errorf("orchestrator: build form model: %w", err)
	}

	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &formModel); err != nil {
			return model.FormModel{}, fmt.Errorf("orchestrator: transform form: %w", err)
		}
	}
	for _, decorator := range o.decorators {
		if decorator == nil {
			continue
		}
		if err := ctx.Err(); err != nil {
			return model.FormModel{}, err
		}
		if err := decorator.Decorate(&formModel); err != nil {
			return model.FormModel{}, fmt.Errorf("orchestrator: decorate form: %w", err)
		}
	}
	if o.widgets != nil {
		if err := o.widgets.Decorate(&formModel); err != nil {
			return model.FormModel{}, fmt.Errorf("orchestrator: resolve widgets: %w", err)
		}
	}
	return formModel, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.adapterRegistry == nil {
		o.adapterRegistry = NewAdapterRegistry()
	}
	for _, adapter := range o.extraAdapters {
		o.adapterRegistry.MustRegister(adapter)
	}
	o.extraAdapters = nil

	if !o.adapterRegistry.Has(pkgopenapi.DefaultAdapterName) {
		loader := internalloader.New(pkgopenapi.NewLoaderOptions())
		parser := internalparser.New(pkgopenapi.NewParserOptions())
		o.adapterRegistry.MustRegister(pkgopenapi.NewAdapter(loader, parser))
	}
	if !o.adapterRegistry.Has(pkgjsonschema.DefaultAdapterName) {
		loader := internaljsloader.New(pkgjsonschema.NewLoaderOptions())
		o.adapterRegistry.MustRegister(pkgjsonschema.NewAdapter(loader))
	}

	if o.detectLoader == nil {
		o.detectLoader = internaljsloader.New(pkgjsonschema.NewLoaderOptions())
	}

	if o.builder == nil {
		o.builder = model.NewBuilder(o.builderOpts...)
	}
	if !o.widgetsSpecified && o.widgets == nil {
		o.widgets = widgets.NewRegistry()
	}
}

// RegisterWidget adds a matcher to the orchestrator's widget registry. It is
// a no-op when widget resolution was disabled through WithWidgetRegistry(nil).
func (o *Orchestrator) RegisterWidget(name string, priority int, matcher widgets.Matcher) {
	if o.widgets == nil {
		return
	}
	o.widgets.Register(name, priority, matcher)
}

// WidgetRegistry exposes the widget registry in use, nil when resolution is
// disabled.
func (o *Orchestrator) WidgetRegistry() *widgets.Registry {
	return o.widgets
}

// fallbackFormID derives a form identifier from the document origin for
// schemas that carry neither $id nor title.
func fallbackFormID(doc schema.Document) string {
	location := doc.Location()
	if location == "" {
		return ""
	}
	base := path.Base(strings.ReplaceAll(location, "\\", "/"))
	if idx := strings.IndexByte(base, '.'); idx > 0 {
		base = base[:idx]
	}
	return base
}
