package forms

import (
	"encoding/json"
	"net/mail"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/uuid"

	"github.com/goliatone/go-schemaform/pkg/model"
)

// Accepted submission layouts per temporal kind. Parsed values re-emit in
// one canonical layout each: full-date for dates, RFC 3339 for datetimes
// (the schema library checks format: date-time against RFC 3339, and
// datetime-local inputs submit without a zone), HH:MM:SS for times.
var (
	dateLayout      = "2006-01-02"
	dateTimeLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04"}
	timeLayouts     = []string{"15:04:05", "15:04"}
)

// binder shapes raw submissions into the JSON-typed candidate the schema
// library validates. Coercion failures attach a catalog message to the field
// and withhold the value so the library does not report the same problem as
// a type violation.
type binder struct {
	def    *Definition
	values url.Values
	files  Files
	errors *ErrorMapping
}

// bind returns the candidate document for delegated validation alongside the
// typed cleaned values keyed the same way.
func (b *binder) bind() (map[string]any, map[string]any) {
	candidate := make(map[string]any)
	cleaned := make(map[string]any)
	b.bindFields(b.def.fields, "", candidate, cleaned)
	return candidate, cleaned
}

func (b *binder) bindFields(fields []model.Field, prefix string, candidate, cleaned map[string]any) {
	for _, field := range fields {
		path := joinPath(prefix, field.Name)
		if field.Kind == model.FieldKindObject {
			childCandidate := make(map[string]any)
			childCleaned := make(map[string]any)
			b.bindFields(field.Fields, path, childCandidate, childCleaned)
			if len(childCandidate) > 0 {
				candidate[field.Name] = childCandidate
				cleaned[field.Name] = childCleaned
			}
			continue
		}
		candValue, cleanValue, ok := b.bindField(field, path)
		if !ok {
			continue
		}
		candidate[field.Name] = candValue
		cleaned[field.Name] = cleanValue
	}
}

// bindField coerces one submitted field. The first return value is the
// JSON-shaped candidate, the second the typed cleaned value; ok is false when
// the field was omitted or failed coercion.
func (b *binder) bindField(field model.Field, path string) (any, any, bool) {
	switch field.Kind {
	case model.FieldKindBoolean:
		value := parseCheckbox(b.first(path))
		return value, value, true
	case model.FieldKindMultiChoice:
		return b.bindList(path, CodeEnum)
	case model.FieldKindArray:
		return b.bindList(path, "")
	case model.FieldKindFile, model.FieldKindImage:
		return b.bindFile(path)
	}

	raw, ok := b.present(path)
	if !ok {
		return nil, nil, false
	}

	switch field.Kind {
	case model.FieldKindInteger:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return b.fail(path, CodeIntegerParsing, nil)
		}
		return float64(n), n, true
	case model.FieldKindNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return b.fail(path, CodeNumberParsing, nil)
		}
		return f, f, true
	case model.FieldKindDecimal:
		return b.bindDecimal(field, path, raw)
	case model.FieldKindDate:
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return b.fail(path, CodeDateParsing, nil)
		}
		canonical := t.Format(dateLayout)
		return canonical, canonical, true
	case model.FieldKindDateTime:
		for _, layout := range dateTimeLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				canonical := t.UTC().Format(time.RFC3339)
				return canonical, canonical, true
			}
		}
		return b.fail(path, CodeDateTimeParsing, nil)
	case model.FieldKindTime:
		for _, layout := range timeLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				canonical := t.Format("15:04:05")
				return canonical, canonical, true
			}
		}
		return b.fail(path, CodeTimeParsing, nil)
	case model.FieldKindDuration:
		d, ok := parseDuration(raw)
		if !ok {
			return b.fail(path, CodeDurationParsing, nil)
		}
		canonical := d.String()
		return canonical, canonical, true
	case model.FieldKindUUID:
		id, err := uuid.Parse(raw)
		if err != nil {
			return b.fail(path, CodeUUIDParsing, nil)
		}
		canonical := id.String()
		return canonical, canonical, true
	case model.FieldKindEmail:
		addr, err := mail.ParseAddress(raw)
		if err != nil || addr.Address != raw {
			return b.fail(path, CodeEmailParsing, nil)
		}
		return raw, raw, true
	case model.FieldKindURL:
		parsed, err := url.Parse(raw)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return b.fail(path, CodeURLParsing, nil)
		}
		return raw, raw, true
	case model.FieldKindJSON:
		var decoded any
		if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
			return b.fail(path, CodeJSONParsing, nil)
		}
		return decoded, decoded, true
	case model.FieldKindChoice:
		candValue, cleanValue, ok := coerceToSchema(raw, b.property(path))
		if !ok {
			return b.fail(path, CodeEnum, nil)
		}
		return candValue, cleanValue, true
	case model.FieldKindHidden:
		candValue, cleanValue, ok := coerceToSchema(raw, b.property(path))
		if !ok {
			return b.fail(path, CodeInvalid, nil)
		}
		return candValue, cleanValue, true
	default:
		return raw, raw, true
	}
}

// bindDecimal validates the decimal lexically and enforces the digit-count
// rules the schema library cannot express. The candidate stays a string
// unless the compiled property is numeric.
func (b *binder) bindDecimal(field model.Field, path, raw string) (any, any, bool) {
	digits, places, ok := decimalDigits(raw)
	if !ok {
		return b.fail(path, CodeDecimalParsing, nil)
	}
	if rule, ok := field.Rule(model.ValidationRuleMaxDigits); ok {
		if limit, err := strconv.Atoi(rule.Params["value"]); err == nil && digits > limit {
			return b.fail(path, CodeMaxDigits, map[string]string{"max_digits": rule.Params["value"]})
		}
	}
	if rule, ok := field.Rule(model.ValidationRuleDecimalPlaces); ok {
		if limit, err := strconv.Atoi(rule.Params["value"]); err == nil && places > limit {
			return b.fail(path, CodeDecimalPlaces, map[string]string{"decimal_places": rule.Params["value"]})
		}
	}
	if prop := b.property(path); prop != nil && (typeIs(prop, "number") || typeIs(prop, "integer")) {
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return b.fail(path, CodeDecimalParsing, nil)
		}
		return f, raw, true
	}
	return raw, raw, true
}

// bindList coerces repeated values. failCode overrides the per-type parsing
// code when set, which lets multichoice report invalid selections as enum
// violations.
func (b *binder) bindList(path, failCode string) (any, any, bool) {
	raws := b.nonEmpty(path)
	if len(raws) == 0 {
		return nil, nil, false
	}
	item := itemSchema(b.property(path))
	code := failCode
	if code == "" {
		code = itemParsingCode(item)
	}
	candidate := make([]any, 0, len(raws))
	cleaned := make([]any, 0, len(raws))
	for _, raw := range raws {
		candValue, cleanValue, ok := coerceToSchema(raw, item)
		if !ok {
			return b.fail(path, code, nil)
		}
		candidate = append(candidate, candValue)
		cleaned = append(cleaned, cleanValue)
	}
	return candidate, cleaned, true
}

// bindFile records the upload metadata as the cleaned value and its filename
// as the string candidate. A value submitted through the regular form body
// means the request missed its multipart encoding.
func (b *binder) bindFile(path string) (any, any, bool) {
	upload, ok := b.files.First(path)
	if !ok {
		if _, present := b.present(path); present {
			return b.fail(path, CodeMissingFile, nil)
		}
		return nil, nil, false
	}
	if upload.Size == 0 {
		return b.fail(path, CodeEmptyFile, nil)
	}
	return upload.Name, upload, true
}

func (b *binder) fail(path, code string, params map[string]string) (any, any, bool) {
	b.errors.Add(path, b.def.message(code, params))
	return nil, nil, false
}

func (b *binder) first(path string) string {
	values := b.values[path]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// present returns the trimmed first value. Empty submissions count as
// omitted so the compiled schema reports missing required properties.
func (b *binder) present(path string) (string, bool) {
	values, ok := b.values[path]
	if !ok || len(values) == 0 {
		return "", false
	}
	raw := strings.TrimSpace(values[0])
	if raw == "" {
		return "", false
	}
	return raw, true
}

func (b *binder) nonEmpty(path string) []string {
	values := b.values[path]
	out := make([]string, 0, len(values))
	for _, raw := range values {
		raw = strings.TrimSpace(raw)
		if raw == "" {
			continue
		}
		out = append(out, raw)
	}
	return out
}

func (b *binder) property(path string) *openapi3.Schema {
	return schemaAt(b.def.compiled, strings.Split(path, "."))
}

func parseCheckbox(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}

// coerceToSchema converts a raw string to the compiled property's type,
// returning the JSON-shaped candidate and the typed cleaned value.
func coerceToSchema(raw string, prop *openapi3.Schema) (any, any, bool) {
	switch {
	case typeIs(prop, "integer"):
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, nil, false
		}
		return float64(n), n, true
	case typeIs(prop, "number"):
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, nil, false
		}
		return f, f, true
	case typeIs(prop, "boolean"):
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, nil, false
		}
		return v, v, true
	default:
		return raw, raw, true
	}
}

func typeIs(s *openapi3.Schema, typ string) bool {
	return s != nil && s.Type != nil && s.Type.Is(typ)
}

func itemParsingCode(item *openapi3.Schema) string {
	switch {
	case typeIs(item, "integer"):
		return CodeIntegerParsing
	case typeIs(item, "number"):
		return CodeNumberParsing
	default:
		return CodeInvalid
	}
}

// decimalDigits counts significant digits and decimal places of a lexically
// valid decimal literal. Leading zeros do not count as digits.
func decimalDigits(raw string) (int, int, bool) {
	s := raw
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	if s == "" || s == "." {
		return 0, 0, false
	}
	intPart, fracPart, dotted := strings.Cut(s, ".")
	if dotted && fracPart == "" {
		return 0, 0, false
	}
	for _, r := range intPart + fracPart {
		if r < '0' || r > '9' {
			return 0, 0, false
		}
	}
	trimmed := strings.TrimLeft(intPart, "0")
	digits := len(trimmed) + len(fracPart)
	if trimmed == "" {
		digits = len(strings.TrimLeft(fracPart, "0"))
	}
	return digits, len(fracPart), true
}

var isoDurationPattern = regexp.MustCompile(`^P(?:(\d+)D)?(?:T(?:(\d+)H)?(?:(\d+)M)?(?:(\d+(?:\.\d+)?)S)?)?$`)

// parseDuration accepts Go duration syntax plus the ISO 8601 day/time forms
// (`PT1H30M`, `P2DT4H`).
func parseDuration(raw string) (time.Duration, bool) {
	if d, err := time.ParseDuration(raw); err == nil {
		return d, true
	}
	match := isoDurationPattern.FindStringSubmatch(strings.ToUpper(raw))
	if match == nil {
		return 0, false
	}
	if match[1] == "" && match[2] == "" && match[3] == "" && match[4] == "" {
		return 0, false
	}
	var total time.Duration
	if match[1] != "" {
		n, _ := strconv.Atoi(match[1])
		total += time.Duration(n) * 24 * time.Hour
	}
	if match[2] != "" {
		n, _ := strconv.Atoi(match[2])
		total += time.Duration(n) * time.Hour
	}
	if match[3] != "" {
		n, _ := strconv.Atoi(match[3])
		total += time.Duration(n) * time.Minute
	}
	if match[4] != "" {
		f, _ := strconv.ParseFloat(match[4], 64)
		total += time.Duration(f * float64(time.Second))
	}
	return total, true
}
