package forms_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-schemaform/pkg/forms"
	"github.com/goliatone/go-schemaform/pkg/model"
)

func contactModel() model.FormModel {
	return model.FormModel{
		ID: "contact",
		Fields: []model.Field{
			{Name: "name", Kind: model.FieldKindText},
			{
				Name: "owner",
				Kind: model.FieldKindObject,
				Fields: []model.Field{
					{Name: "email", Kind: model.FieldKindEmail},
					{Name: "phone", Kind: model.FieldKindText},
				},
			},
			{Name: "tags", Kind: model.FieldKindMultiChoice},
		},
	}
}

func TestMapErrorPayload_PointerCompatibility(t *testing.T) {
	payload := map[string]any{
		"/body/name":                 []string{"Name is required"},
		"body.owner.email":           "Email invalid",
		"$.body.tags[0]":             []any{"Tags must be unique"},
		"request.payload.owner":      []string{"Owner missing"},
		"non_field_errors":           "Form level error",
		"body/owner/phone/~1number":  errors.New("Phone malformed"),
		"request/body/unknown-field": []string{"Should fall back to form errors"},
		"":                           []string{"Unscoped form error"},
	}

	mapped := forms.MapErrorPayload(contactModel(), payload)

	wantFields := map[string][]string{
		"name":        {"Name is required"},
		"owner.email": {"Email invalid"},
		"tags":        {"Tags must be unique"},
		"owner":       {"Owner missing"},
		"owner.phone": {"Phone malformed"},
	}
	if diff := cmp.Diff(wantFields, mapped.Fields); diff != "" {
		t.Fatalf("field errors mismatch (-want +got):\n%s", diff)
	}

	wantForm := []string{"Form level error", "Should fall back to form errors", "Unscoped form error"}
	if diff := cmp.Diff(wantForm, mapped.Form, cmpopts.SortSlices(func(a, b string) bool { return a < b })); diff != "" {
		t.Fatalf("form errors mismatch (-want +got):\n%s", diff)
	}
}

func TestErrorMapping_AddRoutesFormAliases(t *testing.T) {
	mapping := forms.ErrorMapping{}
	mapping.Add("name", " Too short ")
	mapping.Add("name", "Too short")
	mapping.Add(forms.NonFieldKey, "Conflicting dates")
	mapping.Add("", "Anonymous problem")
	mapping.AddForm("Conflicting dates")

	if got := mapping.ByField("name"); len(got) != 1 || got[0] != "Too short" {
		t.Fatalf("expected deduplicated field message, got %v", got)
	}
	wantForm := []string{"Conflicting dates", "Anonymous problem"}
	if diff := cmp.Diff(wantForm, mapping.Form); diff != "" {
		t.Fatalf("form bucket mismatch (-want +got):\n%s", diff)
	}
	if got := mapping.ByField(forms.NonFieldKey); len(got) != 2 {
		t.Fatalf("ByField(NonFieldKey) should expose the form bucket, got %v", got)
	}
	if !mapping.HasErrors() || !mapping.HasFieldErrors("name") || mapping.HasFieldErrors("missing") {
		t.Fatalf("presence checks misbehaved: %+v", mapping)
	}
}

func TestErrorMapping_MergeAndAll(t *testing.T) {
	base := forms.ErrorMapping{}
	base.Add("name", "Too short")

	extra := forms.ErrorMapping{}
	extra.Add("name", "Too short")
	extra.Add("owner.email", "Invalid")
	extra.AddForm("Try again")

	base.Merge(extra)

	want := map[string][]string{
		"name":            {"Too short"},
		"owner.email":     {"Invalid"},
		forms.NonFieldKey: {"Try again"},
	}
	if diff := cmp.Diff(want, base.All()); diff != "" {
		t.Fatalf("All mismatch (-want +got):\n%s", diff)
	}

	var empty forms.ErrorMapping
	if empty.All() != nil {
		t.Fatalf("empty mapping should flatten to nil")
	}
}

func TestMergeFormErrors(t *testing.T) {
	merged := forms.MergeFormErrors([]string{" First ", "Second"}, "Second", "third", "  ")
	want := []string{"First", "Second", "third"}

	if diff := cmp.Diff(want, merged); diff != "" {
		t.Fatalf("merged form errors mismatch (-want +got):\n%s", diff)
	}
}
