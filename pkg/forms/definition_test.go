package forms_test

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemaform/pkg/forms"
	"github.com/goliatone/go-schemaform/pkg/model"
)

func TestNewDefinition_RequiresSchema(t *testing.T) {
	formModel, err := model.NewBuilder().Build(ticketForm())
	if err != nil {
		t.Fatalf("build form model: %v", err)
	}
	if _, err := forms.NewDefinition(formModel, nil); !errors.Is(err, forms.ErrNilSchema) {
		t.Fatalf("NewDefinition = %v, want ErrNilSchema", err)
	}
}

func TestDefinition_SubsetInclude(t *testing.T) {
	def := newTicketDefinition(t, forms.WithSubset(forms.Subset{
		Include: []string{"subject", "email"},
	}))

	fields := def.Fields()
	if len(fields) != 2 || fields[0].Name != "subject" || fields[1].Name != "email" {
		t.Fatalf("subset fields = %v", fieldNames(fields))
	}
	if _, ok := def.Field("priority"); ok {
		t.Fatalf("excluded field should not resolve")
	}

	form := def.Bind(url.Values{
		"subject": {"Cannot log in"},
		"email":   {"jane@example.com"},
	}, nil)
	if !form.IsValid(context.Background()) {
		t.Fatalf("hidden required fields must not report: %v", form.Errors().All())
	}
}

func TestDefinition_SubsetExclude(t *testing.T) {
	def := newTicketDefinition(t, forms.WithSubset(forms.Subset{
		Exclude: []string{"priority"},
	}))

	if _, ok := def.Field("priority"); ok {
		t.Fatalf("excluded field should not resolve")
	}
	if _, ok := def.Field("subject"); !ok {
		t.Fatalf("remaining fields should resolve")
	}

	form := def.Bind(url.Values{"email": {"jane@example.com"}}, nil)
	if form.IsValid(context.Background()) {
		t.Fatalf("visible required fields still report")
	}
	if got := form.Errors().ByField("subject"); len(got) != 1 || got[0] != "This field is required." {
		t.Fatalf("subject errors = %v", got)
	}
	if got := form.Errors().ByField("priority"); len(got) != 0 {
		t.Fatalf("excluded field reported: %v", got)
	}
}

func TestDefinition_HiddenFields(t *testing.T) {
	def := newTicketDefinition(t,
		forms.WithHiddenFields(
			forms.HiddenField{Name: "csrf_token", Value: "stale"},
			forms.HiddenField{Name: "version", Value: "7"},
		),
		forms.WithHiddenFields(forms.HiddenField{Name: "csrf_token", Value: "fresh"}),
	)

	want := []forms.HiddenField{
		{Name: "csrf_token", Value: "fresh"},
		{Name: "version", Value: "7"},
	}
	if diff := cmp.Diff(want, def.HiddenFields()); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
}

func TestDefinition_MessageOverrides(t *testing.T) {
	def := newTicketDefinition(t, forms.WithMessages(forms.Messages{
		forms.CodeRequired: "Field required!",
	}))

	values := validTicketValues()
	values.Del("subject")
	values.Set("email", "nope")

	form := def.Bind(values, nil)
	if form.IsValid(context.Background()) {
		t.Fatalf("expected errors")
	}
	if got := form.Errors().ByField("subject"); len(got) != 1 || got[0] != "Field required!" {
		t.Fatalf("override not applied: %v", got)
	}
	if got := form.Errors().ByField("email"); len(got) != 1 || got[0] != "Enter a valid email address." {
		t.Fatalf("codes outside the override should keep their defaults: %v", got)
	}
}

func TestDefinition_Translator(t *testing.T) {
	var seenLocale string
	translate := forms.TranslatorFunc(func(locale, code string, _ ...any) (string, error) {
		seenLocale = locale
		if code == forms.CodeRequired {
			return "Requerido.", nil
		}
		return "", errors.New("unknown code")
	})

	def := newTicketDefinition(t,
		forms.WithTranslator(translate),
		forms.WithLocale("es"),
	)

	values := validTicketValues()
	values.Del("subject")
	values.Set("email", "nope")

	form := def.Bind(values, nil)
	if form.IsValid(context.Background()) {
		t.Fatalf("expected errors")
	}
	if seenLocale != "es" {
		t.Fatalf("translator locale = %q", seenLocale)
	}
	if got := form.Errors().ByField("subject"); len(got) != 1 || got[0] != "Requerido." {
		t.Fatalf("translated message = %v", got)
	}
	if got := form.Errors().ByField("email"); len(got) != 1 || got[0] != "Enter a valid email address." {
		t.Fatalf("declined codes should fall back to the catalog: %v", got)
	}
}

func TestDefinition_MapErrors(t *testing.T) {
	def := newTicketDefinition(t)

	mapping := def.MapErrors(map[string]any{
		"/reporter/phone": "Unreachable number.",
		"subject":         []string{"Too vague."},
		"":                "Backend rejected the submission.",
	})

	wantFields := map[string][]string{
		"reporter.phone": {"Unreachable number."},
		"subject":        {"Too vague."},
	}
	if diff := cmp.Diff(wantFields, mapping.Fields); diff != "" {
		t.Fatalf("field routing mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Backend rejected the submission."}, mapping.Form); diff != "" {
		t.Fatalf("form routing mismatch (-want +got):\n%s", diff)
	}
}

func fieldNames(fields []model.Field) []string {
	names := make([]string, 0, len(fields))
	for _, field := range fields {
		names = append(names, field.Name)
	}
	return names
}
