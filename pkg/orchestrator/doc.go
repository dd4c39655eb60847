// Package orchestrator wires the adapter, normalizer, model builder, and
// decorator stages behind a single entry point. It detects the document
// format, derives the form model, and pairs it with the compiled schema as a
// bound-ready definition, while staying open to dependency injection for
// consumers that replace individual stages.
package orchestrator
