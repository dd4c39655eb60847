package openapi

import (
	"errors"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Document wraps the raw OpenAPI payload and its origin. This is an alias to
// the canonical schema.Document so loaders can be shared between adapters.
type Document = schema.Document

// Schema is an alias to the canonical IR node; the parser emits it directly.
type Schema = schema.Schema

// NewDocument constructs a Document wrapper while validating the inputs.
func NewDocument(src Source, raw []byte) (Document, error) {
	return schema.NewDocument(src, raw)
}

// MustNewDocument panics if the document cannot be created. Useful for tests.
func MustNewDocument(src Source, raw []byte) Document {
	return schema.MustNewDocument(src, raw)
}

// Operation models the subset of OpenAPI operation metadata needed to derive
// forms. The request body arrives already normalized into the canonical IR.
type Operation struct {
	ID          string
	Method      string
	Path        string
	Summary     string
	Description string
	RequestBody schema.Schema
	Extensions  map[string]any
}

// NewOperation validates core fields before constructing an Operation.
func NewOperation(id, method, path string, request schema.Schema) (Operation, error) {
	if id == "" {
		return Operation{}, errors.New("openapi: operation id is required")
	}
	if method == "" {
		return Operation{}, errors.New("openapi: operation method is required")
	}
	if path == "" {
		return Operation{}, errors.New("openapi: operation path is required")
	}

	return Operation{
		ID:          id,
		Method:      method,
		Path:        path,
		RequestBody: request,
	}, nil
}

// MustNewOperation panics when construction fails, assisting fixtures/tests.
func MustNewOperation(id, method, path string, request schema.Schema) Operation {
	op, err := NewOperation(id, method, path, request)
	if err != nil {
		panic(err)
	}
	return op
}
