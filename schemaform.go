package schemaform

import (
	"context"

	"github.com/goliatone/go-schemaform/pkg/forms"
	"github.com/goliatone/go-schemaform/pkg/model"
	"github.com/goliatone/go-schemaform/pkg/orchestrator"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Field aliases the form-model field type so callers can consume derived
// forms without importing pkg/model.
type Field = model.Field

// FormModel is the derived form representation host frameworks render.
type FormModel = model.FormModel

// Choice is one selectable option of a choice field.
type Choice = model.Choice

// Definition pairs a form model with the compiled schema that validates its
// submissions.
type Definition = forms.Definition

// Form is one binding of a Definition to submitted data.
type Form = forms.Form

// ErrorMapping splits validation feedback into field and form-level buckets.
type ErrorMapping = forms.ErrorMapping

// FieldError routes a hook error onto a specific field.
type FieldError = forms.FieldError

// Upload carries submitted file metadata through binding and cleaning.
type Upload = forms.Upload

// Files maps field names to their submitted uploads.
type Files = forms.Files

// Messages maps violation codes to user-facing message templates.
type Messages = forms.Messages

// Source identifies where a schema document originates.
type Source = schema.Source

// Request describes the inputs the orchestrator needs to derive a form.
type Request = orchestrator.Request

// NonFieldKey is the catch-all bucket for errors that target no single field.
const NonFieldKey = forms.NonFieldKey

// SourceFromFile returns a Source pointing at an on-disk schema document.
func SourceFromFile(path string) Source {
	return schema.SourceFromFile(path)
}

// SourceFromFS returns a Source identifying a resource inside an fs.FS.
func SourceFromFS(name string) Source {
	return schema.SourceFromFS(name)
}

// SourceFromURL returns a Source for a remote schema document.
func SourceFromURL(raw string) Source {
	return schema.SourceFromURL(raw)
}

// SourceFromBytes wraps an in-memory schema payload in a Source.
func SourceFromBytes(name string, raw []byte) Source {
	return schema.SourceFromBytes(name, raw)
}

// New exposes the orchestrator constructor from the top-level module so the
// common path stays a single import.
func New(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Derive loads the schema source and returns a bind-ready form definition for
// the requested form. An empty formID works when the document derives exactly
// one form.
func Derive(ctx context.Context, src Source, formID string, options ...orchestrator.Option) (*Definition, error) {
	return orchestrator.New(options...).Definition(ctx, orchestrator.Request{
		Source: src,
		FormID: formID,
	})
}

// DeriveModel stops the pipeline after model building, for callers that only
// need the field structure and never bind submissions.
func DeriveModel(ctx context.Context, src Source, formID string, options ...orchestrator.Option) (FormModel, error) {
	return orchestrator.New(options...).Model(ctx, orchestrator.Request{
		Source: src,
		FormID: formID,
	})
}
