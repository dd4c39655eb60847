package widgets

import (
	"testing"

	"github.com/goliatone/go-schemaform/pkg/model"
)

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	field := model.Field{
		Kind: model.FieldKindBoolean,
		Attrs: map[string]string{
			"widget": "custom-toggle",
		},
	}

	if got, ok := reg.Resolve(field); !ok || got != "custom-toggle" {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		field  model.Field
		expect string
	}{
		{
			name:   "boolean toggle",
			field:  model.Field{Kind: model.FieldKindBoolean},
			expect: WidgetToggle,
		},
		{
			name:   "choice select",
			field:  model.Field{Kind: model.FieldKindChoice},
			expect: WidgetSelect,
		},
		{
			name:   "multichoice multiselect",
			field:  model.Field{Kind: model.FieldKindMultiChoice},
			expect: WidgetMultiSelect,
		},
		{
			name:   "date picker",
			field:  model.Field{Kind: model.FieldKindDate},
			expect: WidgetDatePicker,
		},
		{
			name:   "datetime picker",
			field:  model.Field{Kind: model.FieldKindDateTime},
			expect: WidgetDateTimePicker,
		},
		{
			name:   "file dropzone",
			field:  model.Field{Kind: model.FieldKindImage},
			expect: WidgetFileDropzone,
		},
		{
			name:   "textarea kind",
			field:  model.Field{Kind: model.FieldKindTextarea},
			expect: WidgetTextarea,
		},
		{
			name:   "unbounded text goes long form",
			field:  model.Field{Kind: model.FieldKindText},
			expect: WidgetTextarea,
		},
		{
			name: "long bounded text goes long form",
			field: model.Field{
				Kind: model.FieldKindText,
				Validations: []model.ValidationRule{
					{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "2000"}},
				},
			},
			expect: WidgetTextarea,
		},
		{
			name:   "json editor",
			field:  model.Field{Kind: model.FieldKindJSON},
			expect: WidgetJSONEditor,
		},
		{
			name: "scalar array chips",
			field: model.Field{
				Kind:  model.FieldKindArray,
				Items: &model.Field{Kind: model.FieldKindText},
			},
			expect: WidgetChips,
		},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, ok := reg.Resolve(tc.field)
			if !ok {
				t.Fatalf("expected resolution for %s", tc.name)
			}
			if got != tc.expect {
				t.Fatalf("resolve %s: want %q, got %q", tc.name, tc.expect, got)
			}
		})
	}
}

func TestResolve_ShortTextHasNoWidget(t *testing.T) {
	reg := NewRegistry()
	field := model.Field{
		Kind: model.FieldKindText,
		Validations: []model.ValidationRule{
			{Kind: model.ValidationRuleMaxLength, Params: map[string]string{"value": "64"}},
		},
	}

	if got, ok := reg.Resolve(field); ok {
		t.Fatalf("expected no widget for short text, got %q", got)
	}
}

func TestResolve_PriorityOverride(t *testing.T) {
	reg := NewRegistry()
	reg.Register("custom", 999, func(field model.Field) bool {
		return field.Kind == model.FieldKindBoolean
	})

	got, ok := reg.Resolve(model.Field{Kind: model.FieldKindBoolean})
	if !ok || got != "custom" {
		t.Fatalf("priority matcher should win, got %q (ok=%v)", got, ok)
	}
}

func TestDecorator_AppliesWidgetAttrs(t *testing.T) {
	reg := NewRegistry()

	form := model.FormModel{
		Fields: []model.Field{
			{
				Name: "enabled",
				Kind: model.FieldKindBoolean,
			},
			{
				Name: "status",
				Kind: model.FieldKindChoice,
				Attrs: map[string]string{
					"widget": "radio",
				},
			},
			{
				Name: "shipping",
				Kind: model.FieldKindObject,
				Fields: []model.Field{
					{Name: "express", Kind: model.FieldKindBoolean},
				},
			},
		},
	}

	if err := reg.Decorate(&form); err != nil {
		t.Fatalf("decorate: %v", err)
	}

	byName := func(name string) model.Field {
		for _, f := range form.Fields {
			if f.Name == name {
				return f
			}
		}
		t.Fatalf("field %q not found", name)
		return model.Field{}
	}

	if got := byName("enabled").Attrs["widget"]; got != WidgetToggle {
		t.Fatalf("enabled widget not applied: %q", got)
	}

	// Directive-set widgets survive decoration.
	if got := byName("status").Attrs["widget"]; got != "radio" {
		t.Fatalf("status widget should stay radio, got %q", got)
	}

	shipping := byName("shipping")
	if len(shipping.Fields) != 1 {
		t.Fatalf("nested fields lost: %d", len(shipping.Fields))
	}
	if got := shipping.Fields[0].Attrs["widget"]; got != WidgetToggle {
		t.Fatalf("nested toggle not applied: %q", got)
	}
}
