package forms_test

import (
	"errors"
	"testing"

	"github.com/goliatone/go-schemaform/pkg/forms"
)

func TestMessagesFormat(t *testing.T) {
	cases := []struct {
		name   string
		code   string
		params map[string]string
		want   string
	}{
		{
			name: "no params",
			code: forms.CodeRequired,
			want: "This field is required.",
		},
		{
			name:   "interpolated",
			code:   forms.CodeMinLength,
			params: map[string]string{"min_length": "5"},
			want:   "Ensure this value has at least 5 characters.",
		},
		{
			name:   "exclusive bound",
			code:   forms.CodeExclusiveMaximum,
			params: map[string]string{"lt": "10"},
			want:   "Ensure this value is less than 10.",
		},
		{
			name: "missing param stays literal",
			code: forms.CodeMaximum,
			want: "Ensure this value is less than or equal to {le}.",
		},
		{
			name: "unknown code falls back to invalid",
			code: "no_such_code",
			want: "Enter a valid value.",
		},
	}

	catalog := forms.DefaultMessages()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := catalog.Format(tc.code, tc.params); got != tc.want {
				t.Fatalf("Format(%q) = %q, want %q", tc.code, got, tc.want)
			}
		})
	}
}

func TestMessagesOverrideKeepsDefaults(t *testing.T) {
	catalog := forms.Messages{forms.CodeRequired: "Cannot be blank."}

	if got := catalog.Format(forms.CodeRequired, nil); got != "Cannot be blank." {
		t.Fatalf("override ignored: %q", got)
	}
	if got := catalog.Format(forms.CodeDateParsing, nil); got != "Enter a valid date." {
		t.Fatalf("missing codes should resolve against the built-ins, got %q", got)
	}
}

func TestDefaultMessagesIsACopy(t *testing.T) {
	first := forms.DefaultMessages()
	first[forms.CodeRequired] = "mutated"

	if got := forms.DefaultMessages()[forms.CodeRequired]; got != "This field is required." {
		t.Fatalf("DefaultMessages leaked a shared map: %q", got)
	}
}

func TestTranslatorFunc(t *testing.T) {
	tr := forms.TranslatorFunc(func(locale, code string, params ...any) (string, error) {
		if locale != "es" {
			t.Fatalf("unexpected locale %q", locale)
		}
		if code == forms.CodeRequired {
			return "Este campo es obligatorio.", nil
		}
		return "", errors.New("missing translation")
	})

	msg, err := tr.Translate("es", forms.CodeRequired)
	if err != nil || msg != "Este campo es obligatorio." {
		t.Fatalf("Translate = %q, %v", msg, err)
	}
	if _, err := tr.Translate("es", forms.CodePattern); err == nil {
		t.Fatalf("expected error for untranslated code")
	}
}
