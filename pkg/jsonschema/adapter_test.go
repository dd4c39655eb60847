package jsonschema_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemaform/pkg/jsonschema"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

func normalize(t *testing.T, raw string, opts schema.NormalizeOptions) schema.SchemaIR {
	t.Helper()
	adapter := jsonschema.NewAdapter(nil)
	doc := jsonschema.MustNewDocument(schema.SourceFromBytes("inline.json", []byte(raw)), []byte(raw))
	ir, err := adapter.Normalize(context.Background(), doc, opts)
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	return ir
}

func TestAdapter_Detect(t *testing.T) {
	adapter := jsonschema.NewAdapter(nil)

	cases := []struct {
		name string
		raw  string
		want bool
	}{
		{"json schema", `{"$schema": "https://json-schema.org/draft/2020-12/schema", "type": "object"}`, true},
		{"bare properties", `{"properties": {"name": {"type": "string"}}}`, true},
		{"yaml schema", "type: object\nproperties:\n  name:\n    type: string\n", true},
		{"openapi", `{"openapi": "3.0.3", "paths": {}}`, false},
		{"swagger", "swagger: \"2.0\"\npaths: {}\n", false},
		{"empty", "", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := adapter.Detect(schema.SourceFromBytes("doc", []byte(tc.raw)), []byte(tc.raw)); got != tc.want {
				t.Fatalf("Detect = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestAdapter_NormalizeRoot(t *testing.T) {
	raw := `{
		"$schema": "https://json-schema.org/draft/2020-12/schema",
		"$id": "https://example.com/schemas/ticket.json",
		"title": "Support Ticket",
		"type": "object",
		"required": ["subject"],
		"properties": {
			"subject": {"type": "string", "minLength": 5, "maxLength": 120},
			"priority": {"type": "string", "enum": ["low", "normal", "high"]},
			"attachments_allowed": {"type": "boolean", "default": true},
			"weight": {"type": "number", "exclusiveMinimum": 0}
		}
	}`

	ir := normalize(t, raw, schema.NormalizeOptions{})
	form, ok := ir.Form("ticket")
	if !ok {
		t.Fatalf("form ids = %v", ir.FormRefs())
	}
	if form.Title != "Support Ticket" {
		t.Fatalf("title = %q", form.Title)
	}

	wantOrder := []string{"subject", "priority", "attachments_allowed", "weight"}
	if diff := cmp.Diff(wantOrder, form.Schema.PropertyOrder); diff != "" {
		t.Fatalf("declaration order lost (-want +got):\n%s", diff)
	}

	subject := form.Schema.Properties["subject"]
	if subject.MinLength == nil || *subject.MinLength != 5 || subject.MaxLength == nil || *subject.MaxLength != 120 {
		t.Fatalf("subject bounds = %+v", subject)
	}
	if !form.Schema.RequiresProperty("subject") || form.Schema.RequiresProperty("priority") {
		t.Fatalf("required = %v", form.Schema.Required)
	}

	weight := form.Schema.Properties["weight"]
	if weight.Minimum == nil || *weight.Minimum != 0 || !weight.ExclusiveMinimum {
		t.Fatalf("numeric exclusiveMinimum = %+v", weight)
	}
}

func TestAdapter_NormalizeYAML(t *testing.T) {
	raw := `$schema: "https://json-schema.org/draft/2020-12/schema"
title: Profile
type: object
properties:
  display_name:
    type: string
  bio:
    type: string
    x-schemaform:
      rows: 4
`
	ir := normalize(t, raw, schema.NormalizeOptions{})
	form, ok := ir.Form("profile")
	if !ok {
		t.Fatalf("form ids = %v", ir.FormRefs())
	}
	if diff := cmp.Diff([]string{"display_name", "bio"}, form.Schema.PropertyOrder); diff != "" {
		t.Fatalf("yaml order lost (-want +got):\n%s", diff)
	}
	bio := form.Schema.Properties["bio"]
	hints, ok := bio.Extensions["x-schemaform"].(map[string]any)
	if !ok || hints["rows"] != 4 {
		t.Fatalf("extension payload = %#v", bio.Extensions)
	}
}

func TestAdapter_RejectsForeignDialect(t *testing.T) {
	raw := `{"$schema": "http://json-schema.org/draft-07/schema#", "type": "object"}`
	adapter := jsonschema.NewAdapter(nil)
	doc := jsonschema.MustNewDocument(schema.SourceFromBytes("inline.json", []byte(raw)), []byte(raw))
	_, err := adapter.Normalize(context.Background(), doc, schema.NormalizeOptions{})
	if err == nil || !strings.Contains(err.Error(), "unsupported $schema") {
		t.Fatalf("err = %v", err)
	}
}

func TestAdapter_RejectsUnknownKeyword(t *testing.T) {
	raw := `{
		"type": "object",
		"properties": {
			"meta": {"type": "object", "patternProperties": {"^x": {"type": "string"}}}
		}
	}`
	adapter := jsonschema.NewAdapter(nil)
	doc := jsonschema.MustNewDocument(schema.SourceFromBytes("inline.json", []byte(raw)), []byte(raw))
	_, err := adapter.Normalize(context.Background(), doc, schema.NormalizeOptions{})
	if err == nil {
		t.Fatalf("expected rejection")
	}
	if !strings.Contains(err.Error(), `"patternProperties"`) || !strings.Contains(err.Error(), "#/properties/meta") {
		t.Fatalf("error should name the keyword and its location: %v", err)
	}
}

func TestAdapter_NullableSpellings(t *testing.T) {
	raw := `{
		"type": "object",
		"title": "Shipment",
		"properties": {
			"tracking_code": {"type": ["string", "null"], "minLength": 8},
			"delivered_at": {
				"title": "Delivered",
				"anyOf": [
					{"type": "string", "format": "date-time"},
					{"type": "null"}
				]
			}
		}
	}`
	ir := normalize(t, raw, schema.NormalizeOptions{})
	form, _ := ir.Form("shipment")

	tracking := form.Schema.Properties["tracking_code"]
	if tracking.Type != "string" || !tracking.Nullable || tracking.MinLength == nil || *tracking.MinLength != 8 {
		t.Fatalf("type-array spelling = %+v", tracking)
	}

	delivered := form.Schema.Properties["delivered_at"]
	if delivered.Type != "string" || delivered.Format != "date-time" || !delivered.Nullable {
		t.Fatalf("anyOf spelling = %+v", delivered)
	}
	if delivered.Title != "Delivered" {
		t.Fatalf("wrapper metadata should survive unwrapping: %+v", delivered)
	}
}

func TestAdapter_ResolvesLocalRefs(t *testing.T) {
	raw := `{
		"type": "object",
		"title": "Order",
		"properties": {
			"billing": {"$ref": "#/$defs/Address", "title": "Billing Address"},
			"shipping": {
				"description": "Where the order ships.",
				"allOf": [{"$ref": "#/$defs/Address"}]
			}
		},
		"$defs": {
			"Address": {
				"type": "object",
				"required": ["street"],
				"properties": {
					"street": {"type": "string"},
					"city": {"type": "string"}
				}
			}
		}
	}`
	ir := normalize(t, raw, schema.NormalizeOptions{})
	form, _ := ir.Form("order")

	billing := form.Schema.Properties["billing"]
	if billing.Ref != "#/$defs/Address" || billing.Type != "object" || len(billing.Properties) != 2 {
		t.Fatalf("billing = %+v", billing)
	}
	if billing.Title != "Billing Address" {
		t.Fatalf("sibling title should overlay the target's: %q", billing.Title)
	}
	if !billing.RequiresProperty("street") {
		t.Fatalf("required list lost through $ref: %v", billing.Required)
	}

	shipping := form.Schema.Properties["shipping"]
	if shipping.Ref != "#/$defs/Address" || shipping.Description != "Where the order ships." {
		t.Fatalf("allOf wrapper = %+v", shipping)
	}
}

func TestAdapter_FormsExtension(t *testing.T) {
	raw := `{
		"$id": "https://example.com/schemas/accounts.json",
		"type": "object",
		"x-schemaform": {
			"forms": [
				{"id": "signup", "title": "Sign Up", "ref": "#/$defs/Signup"},
				{"id": "login", "ref": "#/$defs/Login"}
			]
		},
		"$defs": {
			"Signup": {
				"type": "object",
				"required": ["email", "password"],
				"properties": {
					"email": {"type": "string", "format": "email"},
					"password": {"type": "string", "format": "password", "minLength": 8}
				}
			},
			"Login": {
				"type": "object",
				"required": ["email", "password"],
				"properties": {
					"email": {"type": "string", "format": "email"},
					"password": {"type": "string", "format": "password"}
				}
			}
		}
	}`

	ir := normalize(t, raw, schema.NormalizeOptions{})
	refs := ir.FormRefs()
	if len(refs) != 2 || refs[0].ID != "login" || refs[1].ID != "signup" {
		t.Fatalf("refs = %+v", refs)
	}
	if refs[1].Title != "Sign Up" {
		t.Fatalf("declared title lost: %+v", refs[1])
	}

	signup, _ := ir.Form("signup")
	if diff := cmp.Diff([]string{"email", "password"}, signup.Schema.PropertyOrder); diff != "" {
		t.Fatalf("defs order lost (-want +got):\n%s", diff)
	}

	// Pinning a FormID narrows normalization to that entry.
	pinned := normalize(t, raw, schema.NormalizeOptions{FormID: "login"})
	if len(pinned.FormRefs()) != 1 {
		t.Fatalf("pinned refs = %+v", pinned.FormRefs())
	}

	adapter := jsonschema.NewAdapter(nil)
	doc := jsonschema.MustNewDocument(schema.SourceFromBytes("inline.json", []byte(raw)), []byte(raw))
	if _, err := adapter.Normalize(context.Background(), doc, schema.NormalizeOptions{FormID: "reset"}); err == nil || !strings.Contains(err.Error(), `"reset"`) {
		t.Fatalf("unknown form id: %v", err)
	}
}

func TestAdapter_FallbackFormID(t *testing.T) {
	raw := `{"type": "object", "properties": {"q": {"type": "string"}}}`
	ir := normalize(t, raw, schema.NormalizeOptions{FallbackFormID: "search"})
	if _, ok := ir.Form("search"); !ok {
		t.Fatalf("form ids = %v", ir.FormRefs())
	}

	bare := normalize(t, raw, schema.NormalizeOptions{})
	if _, ok := bare.Form("form"); !ok {
		t.Fatalf("form ids = %v", bare.FormRefs())
	}
}
