package model

// Decorator mutates a built form model before it is handed to callers.
// Decorators run after schema derivation, so they see final field names and
// kinds and may add attrs, relabel, or reorder.
type Decorator interface {
	Decorate(*FormModel) error
}

// DecoratorFunc adapts a function into a Decorator.
type DecoratorFunc func(*FormModel) error

// Decorate calls the underlying function.
func (fn DecoratorFunc) Decorate(form *FormModel) error {
	return fn(form)
}
