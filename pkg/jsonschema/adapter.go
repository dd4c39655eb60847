package jsonschema

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

const DefaultAdapterName = "jsonschema"

// Adapter wraps JSON Schema parsing and normalization behind the schema
// adapter interface. Payloads may be JSON or YAML.
type Adapter struct {
	loader Loader
}

// NewAdapter constructs a JSON Schema adapter with the supplied loader.
func NewAdapter(loader Loader) *Adapter {
	return &Adapter{loader: loader}
}

// Name returns the adapter registry identifier.
func (a *Adapter) Name() string {
	return DefaultAdapterName
}

// Detect reports whether the raw payload appears to be JSON Schema.
func (a *Adapter) Detect(_ schema.Source, raw []byte) bool {
	return detectJSONSchema(raw)
}

// Load fetches the raw JSON Schema document.
func (a *Adapter) Load(ctx context.Context, src schema.Source) (schema.Document, error) {
	if a == nil || a.loader == nil {
		return schema.Document{}, errors.New("jsonschema adapter: loader is nil")
	}
	doc, err := a.loader.Load(ctx, src)
	if err != nil {
		return schema.Document{}, err
	}
	return schema.NewDocument(doc.Source(), doc.Raw())
}

// Normalize converts a JSON Schema document into the canonical schema IR.
func (a *Adapter) Normalize(ctx context.Context, doc schema.Document, opts schema.NormalizeOptions) (schema.SchemaIR, error) {
	if err := ctx.Err(); err != nil {
		return schema.SchemaIR{}, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return schema.SchemaIR{}, errors.New("jsonschema adapter: empty document")
	}

	payload, err := parseSchemaPayload(raw)
	if err != nil {
		return schema.SchemaIR{}, err
	}

	if err := validateDialect(payload); err != nil {
		return schema.SchemaIR{}, err
	}

	orders := propertyOrders(raw)

	forms, err := DiscoverForms(payload, FormDiscoveryOptions{
		FallbackID: opts.FallbackFormID,
	})
	if err != nil {
		return schema.SchemaIR{}, err
	}

	if opts.FormID != "" {
		filtered := forms[:0:0]
		for _, entry := range forms {
			if entry.ID == opts.FormID {
				filtered = append(filtered, entry)
				break
			}
		}
		if len(filtered) == 0 {
			return schema.SchemaIR{}, fmt.Errorf("jsonschema adapter: form %q not found", opts.FormID)
		}
		forms = filtered
	}

	ir := schema.NewSchemaIR()
	for _, entry := range forms {
		canonical, err := normalizeSchema(entry.Node, payload, entry.Pointer, orders)
		if err != nil {
			return schema.SchemaIR{}, err
		}
		form := schema.Form{
			ID:          entry.ID,
			Title:       firstNonEmpty(entry.Title, canonical.Title),
			Description: firstNonEmpty(entry.Description, canonical.Description),
			Schema:      canonical,
			Extensions:  entry.Extensions,
		}
		ir.Forms[form.ID] = form
	}

	return ir, nil
}

// Forms returns the list of available form references.
func (a *Adapter) Forms(_ context.Context, ir schema.SchemaIR) ([]schema.FormRef, error) {
	return ir.FormRefs(), nil
}

// parseSchemaPayload decodes a JSON or YAML schema document into a generic
// map. YAML documents are re-shaped so map keys are strings throughout.
func parseSchemaPayload(raw []byte) (map[string]any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, errors.New("jsonschema: raw schema is empty")
	}

	if trimmed[0] == '{' {
		var payload map[string]any
		if err := json.Unmarshal(trimmed, &payload); err != nil {
			return nil, fmt.Errorf("jsonschema: parse schema: %w", err)
		}
		if payload == nil {
			return nil, errors.New("jsonschema: schema is nil")
		}
		return payload, nil
	}

	var node any
	if err := yaml.Unmarshal(trimmed, &node); err != nil {
		return nil, fmt.Errorf("jsonschema: parse schema: %w", err)
	}
	payload, ok := jsonify(node).(map[string]any)
	if !ok || payload == nil {
		return nil, errors.New("jsonschema: schema document must be a mapping")
	}
	return payload, nil
}

// jsonify converts yaml.v3 decoded values into the map[string]any shape the
// normalizer expects.
func jsonify(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[key] = jsonify(val)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, val := range typed {
			out[fmt.Sprint(key)] = jsonify(val)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, val := range typed {
			out[i] = jsonify(val)
		}
		return out
	default:
		return value
	}
}

// validateDialect enforces draft 2020-12 when the document declares a dialect.
// Inline schemas routinely omit $schema, so absence is accepted.
func validateDialect(payload map[string]any) error {
	raw, present := payload["$schema"]
	if !present {
		return nil
	}
	value, ok := raw.(string)
	if !ok {
		return errors.New("jsonschema: $schema must be a string")
	}
	if !isDraft202012(value) {
		return fmt.Errorf("jsonschema: unsupported $schema %q", value)
	}
	return nil
}

func isDraft202012(value string) bool {
	trimmed := strings.TrimSpace(value)
	trimmed = strings.TrimSuffix(trimmed, "#")
	switch trimmed {
	case "https://json-schema.org/draft/2020-12/schema", "http://json-schema.org/draft/2020-12/schema":
		return true
	default:
		return false
	}
}

func detectJSONSchema(raw []byte) bool {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return false
	}

	payload, err := parseSchemaPayload(trimmed)
	if err != nil {
		return false
	}
	if _, ok := payload["openapi"]; ok {
		return false
	}
	if _, ok := payload["swagger"]; ok {
		return false
	}
	for _, marker := range []string{"$schema", "$id", "$defs", "properties", "type", "items"} {
		if _, ok := payload[marker]; ok {
			return true
		}
	}
	return false
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
