package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/model"
)

// Transformer mutates a FormModel after building and before decorators run.
// Implementations can rename fields, inject metadata, or perform arbitrary
// rewrites.
type Transformer interface {
	Transform(ctx context.Context, form *model.FormModel) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, form *model.FormModel) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, form *model.FormModel) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, form)
}

// JSONPresetTransformer applies declarative overrides loaded from a JSON
// document. The shape supports form-level metadata and per-field patches
// addressed by dotted path (`reporter.phone`, `tags.items`):
//
//	{
//	  "metadata": {"section": "intake"},
//	  "fields": {
//	    "reporter.phone": {"label": "Phone", "attrs": {"autocomplete": "tel"}}
//	  }
//	}
type JSONPresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Metadata map[string]any         `json:"metadata"`
	Fields   map[string]presetPatch `json:"fields"`
}

type presetPatch struct {
	Label       string            `json:"label"`
	HelpText    string            `json:"helpText"`
	Placeholder string            `json:"placeholder"`
	Widget      string            `json:"widget"`
	Rename      string            `json:"rename"`
	Attrs       map[string]string `json:"attrs"`
	Metadata    map[string]any    `json:"metadata"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the declarative patches onto the supplied form.
func (t *JSONPresetTransformer) Transform(ctx context.Context, form *model.FormModel) error {
	if form == nil {
		return errors.New("json preset transformer: form model is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(t.document.Metadata) > 0 {
		form.Metadata = mergeAnyMap(form.Metadata, t.document.Metadata)
	}

	for path, patch := range t.document.Fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		field := findFieldByPath(form.Fields, path)
		if field == nil {
			return fmt.Errorf("json preset transformer: field %q not found", path)
		}
		applyFieldPatch(field, patch)
	}
	return nil
}

func applyFieldPatch(field *model.Field, patch presetPatch) {
	if field == nil {
		return
	}
	if patch.Label != "" {
		field.Label = patch.Label
	}
	if patch.HelpText != "" {
		field.HelpText = patch.HelpText
	}
	if patch.Placeholder != "" {
		field.Placeholder = patch.Placeholder
	}
	if len(patch.Attrs) > 0 {
		field.Attrs = mergeStringMap(field.Attrs, patch.Attrs)
	}
	if patch.Widget != "" {
		if field.Attrs == nil {
			field.Attrs = make(map[string]string, 1)
		}
		field.Attrs["widget"] = patch.Widget
	}
	if len(patch.Metadata) > 0 {
		field.Metadata = mergeAnyMap(field.Metadata, patch.Metadata)
	}
	if renamed := strings.TrimSpace(patch.Rename); renamed != "" {
		field.Name = renamed
	}
}

// findFieldByPath resolves a dotted field path. The segment `items` descends
// into an array's item template.
func findFieldByPath(fields []model.Field, path string) *model.Field {
	if strings.TrimSpace(path) == "" {
		return nil
	}
	return walkFieldsByPath(fields, strings.Split(path, "."))
}

func walkFieldsByPath(fields []model.Field, segments []string) *model.Field {
	if len(segments) == 0 {
		return nil
	}
	head := segments[0]
	for idx := range fields {
		field := &fields[idx]
		if field.Name != head {
			continue
		}
		if len(segments) == 1 {
			return field
		}
		if segments[1] == "items" {
			return descendArray(field, segments[2:])
		}
		return walkFieldsByPath(field.Fields, segments[1:])
	}
	return nil
}

func descendArray(field *model.Field, segments []string) *model.Field {
	if field == nil || field.Items == nil {
		return nil
	}
	if len(segments) == 0 {
		return field.Items
	}
	if segments[0] == "items" {
		return descendArray(field.Items, segments[1:])
	}
	return walkFieldsByPath(field.Items.Fields, segments)
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}

func mergeAnyMap(dst, src map[string]any) map[string]any {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]any, len(src))
	}
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
