package forms

import (
	"context"
	"errors"
	"net/url"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
)

// ErrNotBound reports Validate being called on a form constructed with
// Initial instead of Bind.
var ErrNotBound = errors.New("forms: cannot validate an unbound form")

// Form is one binding of a Definition to submitted data.
type Form struct {
	def     *Definition
	values  url.Values
	files   Files
	initial map[string]any

	bound     bool
	running   bool
	validated bool
	cleaned   map[string]any
	errors    ErrorMapping
}

// Definition returns the definition the form was bound from.
func (f *Form) Definition() *Definition {
	return f.def
}

// IsBound reports whether the form carries submitted data.
func (f *Form) IsBound() bool {
	return f.bound
}

// Validate runs the pipeline once: coerce raw values into the schema
// library's call contract, delegate constraint checking to the compiled
// schema, translate and route the reported violations, then run cleaner
// hooks. Later calls return the first outcome.
//
// The returned error reports pipeline failures (unbound form, cancelled
// context), never validation findings; inspect Errors for those. A context
// error leaves the form unvalidated so the caller may retry.
func (f *Form) Validate(ctx context.Context) error {
	if f.validated || f.running {
		return nil
	}
	if !f.bound {
		return ErrNotBound
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	mapping := ErrorMapping{}
	b := &binder{def: f.def, values: f.values, files: f.files, errors: &mapping}
	candidate, cleaned := b.bind()

	skip := make(map[string]struct{}, len(mapping.Fields))
	for field := range mapping.Fields {
		skip[field] = struct{}{}
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	if err := f.def.compiled.VisitJSON(candidate, openapi3.MultiErrors()); err != nil {
		f.def.routeDelegated(&mapping, skip, err)
	}

	// Hooks observe the form state accumulated so far.
	f.cleaned = cleaned
	f.errors = mapping
	f.running = true
	defer func() { f.running = false }()

	if err := f.runFieldCleaners(ctx); err != nil {
		return err
	}
	if err := f.runFormCleaners(ctx); err != nil {
		return err
	}

	f.prune()
	f.validated = true
	return nil
}

// IsValid validates on first use and reports whether the submission passed.
func (f *Form) IsValid(ctx context.Context) bool {
	if err := f.Validate(ctx); err != nil {
		return false
	}
	return !f.errors.HasErrors()
}

// CleanedData returns the typed values that survived validation, keyed by
// field name with nested objects as nested maps. It is nil until Validate
// runs; fields with errors are removed.
func (f *Form) CleanedData() map[string]any {
	return f.cleaned
}

// Errors returns the messages collected by the last Validate run.
func (f *Form) Errors() *ErrorMapping {
	return &f.errors
}

// Value returns the cleaned value for a dotted field path once validated,
// falling back to the raw submission or initial data so templates can
// re-render what the user entered.
func (f *Form) Value(name string) any {
	if f.validated || f.running {
		if value, ok := f.cleanedAt(name); ok {
			return value
		}
	}
	return f.RawValue(name)
}

// RawValue returns the submitted string(s), upload metadata, or initial
// value for a field without any coercion.
func (f *Form) RawValue(name string) any {
	if !f.bound {
		if f.initial == nil {
			return nil
		}
		return f.initial[name]
	}
	if uploads := f.files[name]; len(uploads) > 0 {
		if len(uploads) == 1 {
			return uploads[0]
		}
		return append([]Upload(nil), uploads...)
	}
	values, ok := f.values[name]
	if !ok || len(values) == 0 {
		return nil
	}
	if len(values) == 1 {
		return values[0]
	}
	return append([]string(nil), values...)
}

// runFieldCleaners applies the per-field hooks in name order. A hook only
// runs when its field collected no errors and produced a cleaned value.
func (f *Form) runFieldCleaners(ctx context.Context) error {
	if len(f.def.cleaners) == 0 {
		return nil
	}
	paths := make([]string, 0, len(f.def.cleaners))
	for path := range f.def.cleaners {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		if f.errors.HasFieldErrors(path) {
			continue
		}
		value, ok := f.cleanedAt(path)
		if !ok {
			continue
		}
		refined, err := f.def.cleaners[path](ctx, f, value)
		if err != nil {
			f.addHookError(path, err)
			continue
		}
		f.setCleaned(path, refined)
	}
	return nil
}

func (f *Form) runFormCleaners(ctx context.Context) error {
	for _, fn := range f.def.formCleaners {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(ctx, f); err != nil {
			f.addHookError(NonFieldKey, err)
		}
	}
	return nil
}

// addHookError attaches a hook error verbatim, honoring FieldError routing.
func (f *Form) addHookError(fallback string, err error) {
	var fieldErr *FieldError
	if errors.As(err, &fieldErr) && strings.TrimSpace(fieldErr.Field) != "" {
		f.errors.Add(fieldErr.Field, fieldErr.Message)
		return
	}
	f.errors.Add(fallback, err.Error())
}

func (f *Form) prune() {
	for field := range f.errors.Fields {
		f.deleteCleaned(field)
	}
}

func (f *Form) cleanedAt(path string) (any, bool) {
	segments := strings.Split(path, ".")
	current := any(f.cleaned)
	for i, segment := range segments {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		value, ok := m[segment]
		if !ok {
			return nil, false
		}
		if i == len(segments)-1 {
			return value, true
		}
		current = value
	}
	return nil, false
}

func (f *Form) setCleaned(path string, value any) {
	if f.cleaned == nil {
		f.cleaned = make(map[string]any)
	}
	segments := strings.Split(path, ".")
	m := f.cleaned
	for _, segment := range segments[:len(segments)-1] {
		next, ok := m[segment].(map[string]any)
		if !ok {
			next = make(map[string]any)
			m[segment] = next
		}
		m = next
	}
	m[segments[len(segments)-1]] = value
}

func (f *Form) deleteCleaned(path string) {
	segments := strings.Split(path, ".")
	m := f.cleaned
	for _, segment := range segments[:len(segments)-1] {
		next, ok := m[segment].(map[string]any)
		if !ok {
			return
		}
		m = next
	}
	delete(m, segments[len(segments)-1])
}
