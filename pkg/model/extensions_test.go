package model_test

import (
	"testing"

	"github.com/goliatone/go-schemaform/pkg/model"
)

func TestHintsFromExtensions(t *testing.T) {
	extensions := map[string]any{
		"x-schemaform": map[string]any{
			"widget":        "textarea",
			"placeholder":   "Tell us more",
			"rows":          float64(6),
			"decimalPlaces": float64(2),
			"pastDate":      true,
			"theme":         "compact",
		},
		"x-schemaform-autocomplete": "street-address",
	}

	hints := model.HintsFromExtensions(extensions)

	if hints.Widget != "textarea" {
		t.Fatalf("expected textarea widget, got %q", hints.Widget)
	}
	if hints.Placeholder != "Tell us more" {
		t.Fatalf("expected placeholder hint, got %q", hints.Placeholder)
	}
	if hints.Rows != 6 {
		t.Fatalf("expected 6 rows, got %d", hints.Rows)
	}
	if hints.DecimalPlaces == nil || *hints.DecimalPlaces != 2 {
		t.Fatalf("expected decimalPlaces hint, got %v", hints.DecimalPlaces)
	}
	if !hints.PastDate {
		t.Fatal("expected pastDate hint to be set")
	}
	if hints.FutureDate {
		t.Fatal("expected futureDate hint to stay unset")
	}
	if hints.Autocomplete != "street-address" {
		t.Fatalf("expected flattened autocomplete hint, got %q", hints.Autocomplete)
	}
	if got := hints.Extra["theme"]; got != "compact" {
		t.Fatalf("expected theme to survive in Extra, got %q", got)
	}
}

func TestHintsFromExtensionsFlattenedWins(t *testing.T) {
	extensions := map[string]any{
		"x-schemaform": map[string]any{
			"widget": "select",
		},
		"x-schemaform-widget": "radio",
	}

	hints := model.HintsFromExtensions(extensions)
	if hints.Widget != "radio" {
		t.Fatalf("expected flattened key to win, got %q", hints.Widget)
	}
}

func TestHintsFromExtensionsEmpty(t *testing.T) {
	hints := model.HintsFromExtensions(nil)
	if hints.Widget != "" || hints.Extra != nil || hints.Order != nil {
		t.Fatalf("expected zero hints, got %+v", hints)
	}
}
