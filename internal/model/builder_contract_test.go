package model_test

import (
	"testing"
	"time"

	pkgmodel "github.com/goliatone/go-schemaform/pkg/model"
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/testsupport"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func fixedClock() func() time.Time {
	return func() time.Time {
		return time.Date(2024, 5, 17, 9, 30, 0, 0, time.UTC)
	}
}

func profileForm() schema.Form {
	return schema.Form{
		ID:          "user-profile",
		Title:       "User profile",
		Description: "Personal details shown on the public page.",
		Schema: schema.Schema{
			Type:     "object",
			Required: []string{"full_name", "email", "age", "homepage"},
			PropertyOrder: []string{
				"full_name", "email", "homepage", "age", "height", "birth_date",
				"status", "tags", "bio", "settings", "address",
			},
			Properties: map[string]schema.Schema{
				"full_name": {
					Type:      "string",
					MinLength: intPtr(2),
					MaxLength: intPtr(64),
				},
				"email": {
					Type:   "string",
					Format: "email",
				},
				"homepage": {
					Type:     "string",
					Format:   "uri",
					Nullable: true,
				},
				"age": {
					Type:    "integer",
					Minimum: floatPtr(13),
					Maximum: floatPtr(120),
				},
				"height": {
					Type:       "number",
					Minimum:    floatPtr(0.5),
					MultipleOf: floatPtr(0.01),
				},
				"birth_date": {
					Type:   "string",
					Format: "date",
					Extensions: map[string]any{
						"x-schemaform": map[string]any{"pastDate": true},
					},
				},
				"status": {
					Type: "string",
					Enum: []any{"active", "paused", "retired"},
				},
				"tags": {
					Type:     "array",
					MinItems: intPtr(1),
					MaxItems: intPtr(5),
					Items: &schema.Schema{
						Type: "string",
						Enum: []any{"go", "python", "rust"},
					},
				},
				"bio": {
					Type:        "string",
					Description: "Supports <strong>inline</strong> markup <script>alert(1)</script>.",
					Extensions: map[string]any{
						"x-schemaform": map[string]any{"rows": float64(4)},
					},
				},
				"settings": {
					Type: "object",
				},
				"address": {
					Type:     "object",
					Required: []string{"city"},
					Properties: map[string]schema.Schema{
						"city":   {Type: "string"},
						"street": {Type: "string"},
					},
					PropertyOrder: []string{"street", "city"},
				},
			},
		},
	}
}

func TestBuilder_FieldKinds(t *testing.T) {
	builder := pkgmodel.NewBuilder(pkgmodel.WithClock(fixedClock()))
	form, err := builder.Build(profileForm())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if form.ID != "user-profile" {
		t.Fatalf("form id mismatch: %q", form.ID)
	}
	if form.Title != "User profile" {
		t.Fatalf("form title mismatch: %q", form.Title)
	}

	wantOrder := []string{
		"full_name", "email", "homepage", "age", "height", "birth_date",
		"status", "tags", "bio", "settings", "address",
	}
	if len(form.Fields) != len(wantOrder) {
		t.Fatalf("expected %d fields, got %d", len(wantOrder), len(form.Fields))
	}
	for i, name := range wantOrder {
		if form.Fields[i].Name != name {
			t.Fatalf("field %d: expected %q, got %q", i, name, form.Fields[i].Name)
		}
	}

	wantKinds := map[string]pkgmodel.FieldKind{
		"full_name":  pkgmodel.FieldKindText,
		"email":      pkgmodel.FieldKindEmail,
		"homepage":   pkgmodel.FieldKindURL,
		"age":        pkgmodel.FieldKindInteger,
		"height":     pkgmodel.FieldKindNumber,
		"birth_date": pkgmodel.FieldKindDate,
		"status":     pkgmodel.FieldKindChoice,
		"tags":       pkgmodel.FieldKindMultiChoice,
		"bio":        pkgmodel.FieldKindTextarea,
		"settings":   pkgmodel.FieldKindJSON,
		"address":    pkgmodel.FieldKindObject,
	}
	for _, field := range form.Fields {
		if want := wantKinds[field.Name]; field.Kind != want {
			t.Fatalf("field %q: expected kind %q, got %q", field.Name, want, field.Kind)
		}
	}
}

func TestBuilder_RequiredAndNullable(t *testing.T) {
	builder := pkgmodel.NewBuilder()
	form, err := builder.Build(profileForm())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	field := mustField(t, form, "full_name")
	if !field.Required {
		t.Fatal("full_name should be required")
	}

	// Nullable properties stay optional even when listed as required.
	field = mustField(t, form, "homepage")
	if field.Required {
		t.Fatal("nullable homepage should not be required")
	}
	if !field.Nullable {
		t.Fatal("homepage should keep its nullable flag")
	}

	field = mustField(t, form, "status")
	if field.Required {
		t.Fatal("status should be optional")
	}
}

func TestBuilder_ChoiceFields(t *testing.T) {
	builder := pkgmodel.NewBuilder()
	form, err := builder.Build(profileForm())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	status := mustField(t, form, "status")
	wantChoices := []pkgmodel.Choice{
		{Value: "", Label: "---------"},
		{Value: "active", Label: "active"},
		{Value: "paused", Label: "paused"},
		{Value: "retired", Label: "retired"},
	}
	if diff := testsupport.CompareGolden(wantChoices, status.Choices); diff != "" {
		t.Fatalf("status choices mismatch (-want +got):\n%s", diff)
	}

	tags := mustField(t, form, "tags")
	wantTags := []pkgmodel.Choice{
		{Value: "go", Label: "go"},
		{Value: "python", Label: "python"},
		{Value: "rust", Label: "rust"},
	}
	if diff := testsupport.CompareGolden(wantTags, tags.Choices); diff != "" {
		t.Fatalf("tags choices mismatch (-want +got):\n%s", diff)
	}
	wantRules := []pkgmodel.ValidationRule{
		{Kind: pkgmodel.ValidationRuleMinItems, Params: map[string]string{"value": "1"}},
		{Kind: pkgmodel.ValidationRuleMaxItems, Params: map[string]string{"value": "5"}},
	}
	if diff := testsupport.CompareGolden(wantRules, tags.Validations); diff != "" {
		t.Fatalf("tags validations mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_ConstraintRulesAndAttrs(t *testing.T) {
	builder := pkgmodel.NewBuilder(pkgmodel.WithClock(fixedClock()))
	form, err := builder.Build(profileForm())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	name := mustField(t, form, "full_name")
	wantRules := []pkgmodel.ValidationRule{
		{Kind: pkgmodel.ValidationRuleMinLength, Params: map[string]string{"value": "2"}},
		{Kind: pkgmodel.ValidationRuleMaxLength, Params: map[string]string{"value": "64"}},
	}
	if diff := testsupport.CompareGolden(wantRules, name.Validations); diff != "" {
		t.Fatalf("full_name validations mismatch (-want +got):\n%s", diff)
	}
	if got := name.Attrs["maxlength"]; got != "64" {
		t.Fatalf("full_name maxlength attr mismatch: %q", got)
	}

	age := mustField(t, form, "age")
	if got := age.Attrs["min"]; got != "13" {
		t.Fatalf("age min attr mismatch: %q", got)
	}
	if got := age.Attrs["max"]; got != "120" {
		t.Fatalf("age max attr mismatch: %q", got)
	}
	if got := age.Attrs["type"]; got != "number" {
		t.Fatalf("age type attr mismatch: %q", got)
	}

	height := mustField(t, form, "height")
	if got := height.Attrs["step"]; got != "0.01" {
		t.Fatalf("height step attr mismatch: %q", got)
	}

	birth := mustField(t, form, "birth_date")
	if got := birth.Attrs["max"]; got != "2024-05-17" {
		t.Fatalf("birth_date max attr mismatch: %q", got)
	}
	if got := birth.Attrs["type"]; got != "date" {
		t.Fatalf("birth_date type attr mismatch: %q", got)
	}
}

func TestBuilder_LabelsAndHelpText(t *testing.T) {
	builder := pkgmodel.NewBuilder()
	form, err := builder.Build(profileForm())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	if got := mustField(t, form, "full_name").Label; got != "Full Name" {
		t.Fatalf("full_name label mismatch: %q", got)
	}
	if got := mustField(t, form, "birth_date").Label; got != "Birth Date" {
		t.Fatalf("birth_date label mismatch: %q", got)
	}

	bio := mustField(t, form, "bio")
	want := "Supports <strong>inline</strong> markup ."
	if bio.HelpText != want {
		t.Fatalf("bio help text mismatch: %q", bio.HelpText)
	}
	if got := bio.Attrs["rows"]; got != "4" {
		t.Fatalf("bio rows attr mismatch: %q", got)
	}
}

func TestBuilder_NestedObjectOrder(t *testing.T) {
	builder := pkgmodel.NewBuilder()
	form, err := builder.Build(profileForm())
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	address := mustField(t, form, "address")
	if len(address.Fields) != 2 {
		t.Fatalf("expected 2 nested fields, got %d", len(address.Fields))
	}
	if address.Fields[0].Name != "street" || address.Fields[1].Name != "city" {
		t.Fatalf("nested order mismatch: %q, %q", address.Fields[0].Name, address.Fields[1].Name)
	}
	if !address.Fields[1].Required {
		t.Fatal("address.city should be required")
	}
}

func TestBuilder_WidgetDirectives(t *testing.T) {
	form := schema.Form{
		ID: "widget-overrides",
		Schema: schema.Schema{
			Type:          "object",
			PropertyOrder: []string{"notes", "priority", "token"},
			Properties: map[string]schema.Schema{
				"notes": {
					Type: "string",
					Extensions: map[string]any{
						"x-schemaform": map[string]any{"widget": "textarea", "rows": float64(8)},
					},
				},
				"priority": {
					Type: "string",
					Enum: []any{"low", "high"},
					Extensions: map[string]any{
						"x-schemaform": map[string]any{"widget": "radio"},
					},
				},
				"token": {
					Type: "string",
					Extensions: map[string]any{
						"x-schemaform": map[string]any{"hidden": true},
					},
				},
			},
		},
	}

	builder := pkgmodel.NewBuilder()
	built, err := builder.Build(form)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	notes := mustField(t, built, "notes")
	if notes.Kind != pkgmodel.FieldKindTextarea {
		t.Fatalf("notes kind mismatch: %q", notes.Kind)
	}
	if got := notes.Attrs["rows"]; got != "8" {
		t.Fatalf("notes rows attr mismatch: %q", got)
	}

	// A widget that does not name a field kind stays a rendering hint.
	priority := mustField(t, built, "priority")
	if priority.Kind != pkgmodel.FieldKindChoice {
		t.Fatalf("priority kind mismatch: %q", priority.Kind)
	}
	if got := priority.Attrs["widget"]; got != "radio" {
		t.Fatalf("priority widget attr mismatch: %q", got)
	}

	token := mustField(t, built, "token")
	if token.Kind != pkgmodel.FieldKindHidden {
		t.Fatalf("token kind mismatch: %q", token.Kind)
	}
	if got := token.Attrs["type"]; got != "hidden" {
		t.Fatalf("token type attr mismatch: %q", got)
	}
}

func TestBuilder_DecimalPrecision(t *testing.T) {
	form := schema.Form{
		ID: "pricing",
		Schema: schema.Schema{
			Type:          "object",
			Required:      []string{"price"},
			PropertyOrder: []string{"price"},
			Properties: map[string]schema.Schema{
				"price": {
					Type:    "number",
					Minimum: floatPtr(0),
					Extensions: map[string]any{
						"x-schemaform": map[string]any{
							"maxDigits":     float64(8),
							"decimalPlaces": float64(2),
						},
					},
				},
			},
		},
	}

	builder := pkgmodel.NewBuilder()
	built, err := builder.Build(form)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	price := mustField(t, built, "price")
	if price.Kind != pkgmodel.FieldKindDecimal {
		t.Fatalf("price kind mismatch: %q", price.Kind)
	}
	if got := price.Attrs["step"]; got != "0.01" {
		t.Fatalf("price step attr mismatch: %q", got)
	}

	wantRules := []pkgmodel.ValidationRule{
		{Kind: pkgmodel.ValidationRuleMin, Params: map[string]string{"value": "0"}},
		{Kind: pkgmodel.ValidationRuleMaxDigits, Params: map[string]string{"value": "8"}},
		{Kind: pkgmodel.ValidationRuleDecimalPlaces, Params: map[string]string{"value": "2"}},
	}
	if diff := testsupport.CompareGolden(wantRules, price.Validations); diff != "" {
		t.Fatalf("price validations mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_OrderDirective(t *testing.T) {
	form := schema.Form{
		ID: "ordered",
		Schema: schema.Schema{
			Type:          "object",
			PropertyOrder: []string{"a", "b", "c"},
			Extensions: map[string]any{
				"x-schemaform": map[string]any{
					"order": []any{"c", "a"},
				},
			},
			Properties: map[string]schema.Schema{
				"a": {Type: "string"},
				"b": {Type: "string"},
				"c": {Type: "string"},
			},
		},
	}

	builder := pkgmodel.NewBuilder()
	built, err := builder.Build(form)
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	want := []string{"c", "a", "b"}
	for i, name := range want {
		if built.Fields[i].Name != name {
			t.Fatalf("field %d: expected %q, got %q", i, name, built.Fields[i].Name)
		}
	}
}

func TestBuilder_RejectsInvalidForms(t *testing.T) {
	builder := pkgmodel.NewBuilder()

	if _, err := builder.Build(schema.Form{}); err == nil {
		t.Fatal("expected error for missing form id")
	}

	_, err := builder.Build(schema.Form{
		ID:     "scalar-root",
		Schema: schema.Schema{Type: "string"},
	})
	if err == nil {
		t.Fatal("expected error for non-object root schema")
	}
}

func mustField(t *testing.T, form pkgmodel.FormModel, name string) pkgmodel.Field {
	t.Helper()
	field, ok := form.FieldByName(name)
	if !ok {
		t.Fatalf("expected field %q in form model", name)
	}
	return *field
}
