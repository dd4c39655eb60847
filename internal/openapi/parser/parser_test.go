package parser_test

import (
	"context"
	"testing"

	"github.com/goliatone/go-schemaform/internal/openapi/parser"
	pkgopenapi "github.com/goliatone/go-schemaform/pkg/openapi"
)

const widgetsSpec = `{
  "openapi": "3.0.3",
  "info": {"title": "Widgets API", "version": "1.0.0"},
  "paths": {
    "/widgets": {
      "get": {
        "operationId": "listWidgets",
        "responses": {"200": {"description": "OK"}}
      },
      "post": {
        "operationId": "createWidget",
        "summary": "Create a widget",
        "requestBody": {
          "required": true,
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "required": ["name"],
                "properties": {
                  "name": {"type": "string", "minLength": 3},
                  "tags": {
                    "type": "array",
                    "items": {"type": "string"}
                  },
                  "notes": {
                    "type": "string",
                    "nullable": true,
                    "x-schemaform": {"rows": 4}
                  }
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "Created"}}
      }
    },
    "/widgets/{id}": {
      "put": {
        "parameters": [
          {
            "name": "id",
            "in": "path",
            "required": true,
            "schema": {"type": "string"}
          }
        ],
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {"name": {"type": "string"}}
              }
            }
          }
        },
        "responses": {"200": {"description": "OK"}}
      }
    }
  }
}`

func operations(t *testing.T, raw string, options ...pkgopenapi.ParserOption) map[string]pkgopenapi.Operation {
	t.Helper()
	p := parser.New(pkgopenapi.NewParserOptions(options...))
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromBytes("inline.json", []byte(raw)), []byte(raw))
	ops, err := p.Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	return ops
}

func TestParser_Operations(t *testing.T) {
	ops := operations(t, widgetsSpec)

	// The bodyless GET contributes nothing; the PUT falls back to a
	// method:path identifier.
	if len(ops) != 2 {
		t.Fatalf("operation count = %d (%v)", len(ops), opIDs(ops))
	}

	create, ok := ops["createWidget"]
	if !ok {
		t.Fatalf("missing createWidget: %v", opIDs(ops))
	}
	if create.Method != "POST" || create.Path != "/widgets" || create.Summary != "Create a widget" {
		t.Fatalf("createWidget = %+v", create)
	}
	if !create.RequestBody.RequiresProperty("name") {
		t.Fatalf("required list lost: %v", create.RequestBody.Required)
	}

	name := create.RequestBody.Properties["name"]
	if name.Type != "string" || name.MinLength == nil || *name.MinLength != 3 {
		t.Fatalf("name schema = %+v", name)
	}
	tags := create.RequestBody.Properties["tags"]
	if tags.Type != "array" || tags.Items == nil || tags.Items.Type != "string" {
		t.Fatalf("tags schema = %+v", tags)
	}

	notes := create.RequestBody.Properties["notes"]
	if !notes.Nullable {
		t.Fatalf("nullable flag lost: %+v", notes)
	}
	hints, ok := notes.Extensions["x-schemaform"].(map[string]any)
	if !ok || hints["rows"] != float64(4) {
		t.Fatalf("extension payload = %#v", notes.Extensions)
	}

	if _, ok := ops["put:/widgets/{id}"]; !ok {
		t.Fatalf("fallback id missing: %v", opIDs(ops))
	}
}

func TestParser_NullableUnion(t *testing.T) {
	raw := `{
  "openapi": "3.1.0",
  "info": {"title": "Profiles API", "version": "1.0.0"},
  "paths": {
    "/profiles": {
      "post": {
        "operationId": "createProfile",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "type": "object",
                "properties": {
                  "nickname": {
                    "title": "Nickname",
                    "anyOf": [
                      {"type": "string", "maxLength": 40},
                      {"type": "null"}
                    ]
                  }
                }
              }
            }
          }
        },
        "responses": {"201": {"description": "Created"}}
      }
    }
  }
}`

	ops := operations(t, raw, pkgopenapi.WithReferenceResolution(false))
	nickname := ops["createProfile"].RequestBody.Properties["nickname"]
	if nickname.Type != "string" || !nickname.Nullable {
		t.Fatalf("union not unwrapped: %+v", nickname)
	}
	if nickname.MaxLength == nil || *nickname.MaxLength != 40 {
		t.Fatalf("branch constraints lost: %+v", nickname)
	}
	if nickname.Title != "Nickname" {
		t.Fatalf("wrapper metadata lost: %+v", nickname)
	}
}

func TestParser_AllOfComposition(t *testing.T) {
	raw := `{
  "openapi": "3.0.3",
  "info": {"title": "Orders API", "version": "1.0.0"},
  "paths": {
    "/orders": {
      "post": {
        "operationId": "createOrder",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "allOf": [
                  {
                    "type": "object",
                    "required": ["sku"],
                    "properties": {
                      "sku": {"type": "string", "minLength": 4}
                    }
                  },
                  {
                    "type": "object",
                    "required": ["quantity"],
                    "properties": {
                      "quantity": {"type": "integer", "minimum": 1}
                    }
                  }
                ]
              }
            }
          }
        },
        "responses": {"201": {"description": "Created"}}
      }
    }
  }
}`

	ops := operations(t, raw)
	body := ops["createOrder"].RequestBody
	if body.Type != "object" {
		t.Fatalf("composed body type = %q", body.Type)
	}
	if len(body.Properties) != 2 {
		t.Fatalf("composed body lost properties: %+v", body.Properties)
	}
	if !body.RequiresProperty("sku") || !body.RequiresProperty("quantity") {
		t.Fatalf("required names not unioned: %v", body.Required)
	}
	sku := body.Properties["sku"]
	if sku.MinLength == nil || *sku.MinLength != 4 {
		t.Fatalf("member constraints lost: %+v", sku)
	}
	quantity := body.Properties["quantity"]
	if quantity.Minimum == nil || *quantity.Minimum != 1 {
		t.Fatalf("member constraints lost: %+v", quantity)
	}
}

func TestParser_EmptyDocuments(t *testing.T) {
	raw := `{
  "openapi": "3.0.3",
  "info": {"title": "Components Only", "version": "1.0.0"},
  "paths": {},
  "components": {"schemas": {"Thing": {"type": "object"}}}
}`

	p := parser.New(pkgopenapi.NewParserOptions())
	doc := pkgopenapi.MustNewDocument(pkgopenapi.SourceFromBytes("inline.json", []byte(raw)), []byte(raw))
	if _, err := p.Operations(context.Background(), doc); err == nil {
		t.Fatalf("component-only documents should be rejected by default")
	}

	ops := operations(t, raw, pkgopenapi.WithPartialDocuments(true))
	if len(ops) != 0 {
		t.Fatalf("partial document operations = %v", opIDs(ops))
	}
}

func opIDs(ops map[string]pkgopenapi.Operation) []string {
	ids := make([]string, 0, len(ops))
	for id := range ops {
		ids = append(ids, id)
	}
	return ids
}
