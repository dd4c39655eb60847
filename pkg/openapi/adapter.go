package openapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

const DefaultAdapterName = "openapi"

// Adapter wraps the OpenAPI loader/parser flow behind the schema adapter interface.
type Adapter struct {
	loader Loader
	parser Parser
}

// NewAdapter constructs an OpenAPI adapter with the supplied loader and parser.
func NewAdapter(loader Loader, parser Parser) *Adapter {
	return &Adapter{
		loader: loader,
		parser: parser,
	}
}

// Name returns the adapter registry identifier.
func (a *Adapter) Name() string {
	return DefaultAdapterName
}

// Detect reports whether the raw payload appears to be OpenAPI.
func (a *Adapter) Detect(_ schema.Source, raw []byte) bool {
	return detectOpenAPI(raw)
}

// Load fetches the raw OpenAPI document.
func (a *Adapter) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if a == nil || a.loader == nil {
		return schema.Document{}, errors.New("openapi adapter: loader is nil")
	}
	doc, err := a.loader.Load(ctx, src)
	if err != nil {
		return schema.Document{}, err
	}
	return schema.NewDocument(doc.Source(), doc.Raw())
}

// Normalize parses operations and converts them into the canonical schema IR.
func (a *Adapter) Normalize(ctx context.Context, doc schema.Document, opts schema.NormalizeOptions) (schema.SchemaIR, error) {
	if a == nil || a.parser == nil {
		return schema.SchemaIR{}, errors.New("openapi adapter: parser is nil")
	}

	operations, err := a.parser.Operations(ctx, doc)
	if err != nil {
		return schema.SchemaIR{}, err
	}

	ir := schema.NewSchemaIR()
	for id, op := range operations {
		if opts.FormID != "" && opts.FormID != op.ID && opts.FormID != id {
			continue
		}
		form := FormFromOperation(op)
		if form.ID == "" {
			form.ID = id
		}
		ir.Forms[form.ID] = form
	}

	if opts.FormID != "" && len(ir.Forms) == 0 {
		return schema.SchemaIR{}, errors.New("openapi adapter: form " + opts.FormID + " not found")
	}

	return ir, nil
}

// Forms returns the list of operation-backed form references.
func (a *Adapter) Forms(_ context.Context, ir schema.SchemaIR) ([]schema.FormRef, error) {
	return ir.FormRefs(), nil
}

// FormFromOperation converts an OpenAPI operation into a canonical form. The
// operation's method and path travel in the form extensions so hosts keep the
// submission target without the form layer owning it.
func FormFromOperation(op Operation) schema.Form {
	extensions := cloneExtensions(op.Extensions)
	if op.Method != "" || op.Path != "" {
		if extensions == nil {
			extensions = make(map[string]any, 1)
		}
		extensions["x-schemaform-operation"] = map[string]any{
			"method": op.Method,
			"path":   op.Path,
		}
	}
	return schema.Form{
		ID:          op.ID,
		Title:       op.Summary,
		Description: op.Description,
		Schema:      op.RequestBody,
		Extensions:  extensions,
	}
}

func cloneExtensions(in map[string]any) map[string]any {
	if len(in) == 0 {
		return nil
	}
	out := make(map[string]any, len(in))
	for key, value := range in {
		out[key] = value
	}
	return out
}

func detectOpenAPI(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}
	if trimmed[0] == '{' {
		var payload map[string]any
		if err := json.Unmarshal(trimmed, &payload); err == nil {
			if _, ok := payload["openapi"]; ok {
				return true
			}
			if _, ok := payload["swagger"]; ok {
				return true
			}
		}
	}
	lower := strings.ToLower(string(trimmed))
	return strings.Contains(lower, "openapi:") || strings.Contains(lower, "swagger:")
}
