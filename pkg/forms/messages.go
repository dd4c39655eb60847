package forms

import "strings"

// Violation codes shared by the binder and the schema error translator.
// Delegated constraint violations reuse the schema keyword as their code;
// coercion failures use `<kind>_parsing` codes.
const (
	CodeRequired         = "required"
	CodeInvalid          = "invalid"
	CodeEnum             = "enum"
	CodePattern          = "pattern"
	CodeMinimum          = "minimum"
	CodeMaximum          = "maximum"
	CodeExclusiveMinimum = "exclusiveMinimum"
	CodeExclusiveMaximum = "exclusiveMaximum"
	CodeMultipleOf       = "multipleOf"
	CodeMinLength        = "minLength"
	CodeMaxLength        = "maxLength"
	CodeMinItems         = "minItems"
	CodeMaxItems         = "maxItems"
	CodeUniqueItems      = "uniqueItems"
	CodeMaxDigits        = "maxDigits"
	CodeDecimalPlaces    = "decimalPlaces"

	CodeIntegerParsing  = "integer_parsing"
	CodeNumberParsing   = "number_parsing"
	CodeDecimalParsing  = "decimal_parsing"
	CodeDateParsing     = "date_parsing"
	CodeDateTimeParsing = "datetime_parsing"
	CodeTimeParsing     = "time_parsing"
	CodeDurationParsing = "duration_parsing"
	CodeUUIDParsing     = "uuid_parsing"
	CodeEmailParsing    = "email_parsing"
	CodeURLParsing      = "url_parsing"
	CodeJSONParsing     = "json_parsing"
	CodeMissingFile     = "missing_file"
	CodeEmptyFile       = "empty_file"
)

// Messages maps violation codes to user-facing templates. Templates may carry
// `{param}` placeholders interpolated from the failing constraint's metadata;
// placeholders without a matching param are left verbatim.
type Messages map[string]string

var defaultMessages = Messages{
	CodeRequired:         "This field is required.",
	CodeInvalid:          "Enter a valid value.",
	CodeEnum:             "Select a valid choice.",
	CodePattern:          "Enter a valid value.",
	CodeMinimum:          "Ensure this value is greater than or equal to {ge}.",
	CodeMaximum:          "Ensure this value is less than or equal to {le}.",
	CodeExclusiveMinimum: "Ensure this value is greater than {gt}.",
	CodeExclusiveMaximum: "Ensure this value is less than {lt}.",
	CodeMultipleOf:       "Ensure this value is a multiple of {multiple_of}.",
	CodeMinLength:        "Ensure this value has at least {min_length} characters.",
	CodeMaxLength:        "Ensure this value has at most {max_length} characters.",
	CodeMinItems:         "Select at least {min_items} choices.",
	CodeMaxItems:         "Select no more than {max_items} choices.",
	CodeUniqueItems:      "Remove the duplicate choices.",
	CodeMaxDigits:        "Ensure that there are no more than {max_digits} digits in total.",
	CodeDecimalPlaces:    "Ensure that there are no more than {decimal_places} decimal places.",
	CodeIntegerParsing:   "Enter a whole number.",
	CodeNumberParsing:    "Enter a number.",
	CodeDecimalParsing:   "Enter a number.",
	CodeDateParsing:      "Enter a valid date.",
	CodeDateTimeParsing:  "Enter a valid date and time.",
	CodeTimeParsing:      "Enter a valid time.",
	CodeDurationParsing:  "Enter a valid duration.",
	CodeUUIDParsing:      "Enter a valid UUID.",
	CodeEmailParsing:     "Enter a valid email address.",
	CodeURLParsing:       "Enter a valid URL.",
	CodeJSONParsing:      "Enter valid JSON.",
	CodeMissingFile:      "No file was submitted.",
	CodeEmptyFile:        "The submitted file is empty.",
}

// DefaultMessages returns a copy of the built-in English catalog, suitable as
// a starting point for catalog overrides.
func DefaultMessages() Messages {
	out := make(Messages, len(defaultMessages))
	for code, template := range defaultMessages {
		out[code] = template
	}
	return out
}

// Format resolves a code against the catalog, falling back to the built-in
// templates and finally to the generic invalid message, then interpolates the
// params into `{param}` placeholders.
func (m Messages) Format(code string, params map[string]string) string {
	template, ok := m[code]
	if !ok {
		template, ok = defaultMessages[code]
	}
	if !ok {
		template = defaultMessages[CodeInvalid]
	}
	return interpolate(template, params)
}

func interpolate(template string, params map[string]string) string {
	if len(params) == 0 || !strings.Contains(template, "{") {
		return template
	}
	out := template
	for key, value := range params {
		out = strings.ReplaceAll(out, "{"+key+"}", value)
	}
	return out
}

// Translator resolves violation codes into localized text. Implementations
// receive the interpolation params as the sole variadic argument and may
// return an empty string or an error to fall back to the catalog.
type Translator interface {
	Translate(locale, code string, params ...any) (string, error)
}

// TranslatorFunc adapts a plain function to the Translator interface.
type TranslatorFunc func(locale, code string, params ...any) (string, error)

// Translate implements Translator.
func (fn TranslatorFunc) Translate(locale, code string, params ...any) (string, error) {
	return fn(locale, code, params...)
}

// resolveMessage runs the translator first and falls back to the catalog when
// it declines a code.
func resolveMessage(tr Translator, locale string, catalog Messages, code string, params map[string]string) string {
	if tr != nil {
		args := make([]any, 0, 1)
		if len(params) > 0 {
			args = append(args, params)
		}
		if msg, err := tr.Translate(locale, code, args...); err == nil && strings.TrimSpace(msg) != "" {
			return interpolate(msg, params)
		}
	}
	return catalog.Format(code, params)
}
