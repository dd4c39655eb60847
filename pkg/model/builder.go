package model

import (
	"time"

	internalmodel "github.com/goliatone/go-schemaform/internal/model"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Builder converts normalized schema forms into form models.
type Builder interface {
	Build(form schema.Form) (FormModel, error)
}

// BuilderOption configures the builder behaviour.
type BuilderOption func(*builderOptions)

type builderOptions struct {
	labeler   func(string) string
	sanitizer func(string) string
	clock     func() time.Time
}

// WithLabeler overrides the default label generation function.
func WithLabeler(labeler func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.labeler = labeler
	}
}

// WithSanitizer overrides the help-text sanitizer applied to schema
// descriptions.
func WithSanitizer(sanitizer func(string) string) BuilderOption {
	return func(opts *builderOptions) {
		opts.sanitizer = sanitizer
	}
}

// WithClock fixes the time source used for past/future date bound attributes.
func WithClock(clock func() time.Time) BuilderOption {
	return func(opts *builderOptions) {
		opts.clock = clock
	}
}

// NewBuilder returns a Builder backed by the internal implementation.
func NewBuilder(options ...BuilderOption) Builder {
	cfg := builderOptions{}
	for _, opt := range options {
		opt(&cfg)
	}

	internalOpts := internalmodel.Options{}
	if cfg.labeler != nil {
		internalOpts.Labeler = cfg.labeler
	}
	if cfg.sanitizer != nil {
		internalOpts.Sanitizer = cfg.sanitizer
	}
	if cfg.clock != nil {
		internalOpts.Clock = cfg.clock
	}

	return internalmodel.New(internalOpts)
}

// DefaultLabeler exposes the built-in name-to-label conversion.
func DefaultLabeler(name string) string {
	return internalmodel.DefaultLabeler(name)
}
