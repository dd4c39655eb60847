package schemaform

import (
	internalJSLoader "github.com/goliatone/go-schemaform/internal/jsonschema/loader"
	internalLoader "github.com/goliatone/go-schemaform/internal/openapi/loader"
	internalParser "github.com/goliatone/go-schemaform/internal/openapi/parser"
	pkgjsonschema "github.com/goliatone/go-schemaform/pkg/jsonschema"
	pkgopenapi "github.com/goliatone/go-schemaform/pkg/openapi"
)

// NewOpenAPILoader constructs an OpenAPI document loader using the internal
// implementation while keeping the concrete type hidden from consumers.
func NewOpenAPILoader(options ...pkgopenapi.LoaderOption) pkgopenapi.Loader {
	cfg := pkgopenapi.NewLoaderOptions(options...)
	return internalLoader.New(cfg)
}

// NewOpenAPIParser constructs a parser backed by the internal kin-openapi
// implementation.
func NewOpenAPIParser(options ...pkgopenapi.ParserOption) pkgopenapi.Parser {
	cfg := pkgopenapi.NewParserOptions(options...)
	return internalParser.New(cfg)
}

// NewJSONSchemaLoader constructs a JSON Schema document loader backed by the
// internal implementation.
func NewJSONSchemaLoader(options ...pkgjsonschema.LoaderOption) pkgjsonschema.Loader {
	cfg := pkgjsonschema.NewLoaderOptions(options...)
	return internalJSLoader.New(cfg)
}

// NewOpenAPIAdapter wires the loader and parser into a registrable format
// adapter, useful when callers want to tweak loader behaviour (custom fs.FS,
// HTTP clients) before handing the adapter to an orchestrator.
func NewOpenAPIAdapter(loaderOpts []pkgopenapi.LoaderOption, parserOpts []pkgopenapi.ParserOption) *pkgopenapi.Adapter {
	return pkgopenapi.NewAdapter(NewOpenAPILoader(loaderOpts...), NewOpenAPIParser(parserOpts...))
}

// NewJSONSchemaAdapter wires a loader into a registrable JSON Schema adapter.
func NewJSONSchemaAdapter(options ...pkgjsonschema.LoaderOption) *pkgjsonschema.Adapter {
	return pkgjsonschema.NewAdapter(NewJSONSchemaLoader(options...))
}
