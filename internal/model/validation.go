package model

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

var (
	errFormIDMissing = errors.New("model builder: form id is required")
	errRootNotObject = errors.New("model builder: form schema must be an object")
)

func validateForm(form schema.Form) error {
	if form.ID == "" {
		return errFormIDMissing
	}
	if form.Schema.Type != "" && form.Schema.Type != "object" {
		return errRootNotObject
	}
	if err := validateSchema(form.Schema); err != nil {
		return fmt.Errorf("model builder: invalid form schema: %w", err)
	}
	return nil
}

func validateSchema(node schema.Schema) error {
	if node.Type == "array" && node.Items == nil {
		return errors.New("array schema requires items")
	}
	for _, nested := range node.Properties {
		if err := validateSchema(nested); err != nil {
			return err
		}
	}
	if node.Items != nil {
		return validateSchema(*node.Items)
	}
	return nil
}
