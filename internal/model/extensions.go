package model

import (
	"encoding/json"
	"strconv"
	"strings"
)

const extensionNamespace = "x-schemaform"

// FieldHints carries the vendor-extension directives a schema author can set
// per property. Unrecognised namespace keys survive in Extra so decorators can
// consume custom directives without re-parsing raw extension payloads.
type FieldHints struct {
	Widget        string
	Placeholder   string
	Autocomplete  string
	Accept        string
	Step          string
	Rows          int
	MaxDigits     *int
	DecimalPlaces *int
	Hidden        bool
	PastDate      bool
	FutureDate    bool
	Order         []string
	Extra         map[string]string
}

// HintsFromExtensions collects x-schemaform directives from a schema node's
// extensions. Both the namespaced map form (`x-schemaform: {widget: ...}`) and
// the flattened form (`x-schemaform-widget: ...`) are honoured, with the
// flattened form winning on conflicts.
func HintsFromExtensions(ext map[string]any) FieldHints {
	var hints FieldHints
	if len(ext) == 0 {
		return hints
	}

	if nested, ok := ext[extensionNamespace].(map[string]any); ok {
		for key, value := range nested {
			hints.apply(key, value)
		}
	}
	for key, value := range ext {
		if !strings.HasPrefix(key, extensionNamespace+"-") {
			continue
		}
		hints.apply(strings.TrimPrefix(key, extensionNamespace+"-"), value)
	}
	return hints
}

func (h *FieldHints) apply(key string, value any) {
	switch key {
	case "widget":
		h.Widget = toHintString(value)
	case "placeholder":
		h.Placeholder = toHintString(value)
	case "autocomplete":
		h.Autocomplete = toHintString(value)
	case "accept":
		h.Accept = toHintString(value)
	case "step":
		h.Step = toHintString(value)
	case "rows":
		if n, ok := toHintInt(value); ok {
			h.Rows = n
		}
	case "maxDigits":
		if n, ok := toHintInt(value); ok {
			h.MaxDigits = &n
		}
	case "decimalPlaces":
		if n, ok := toHintInt(value); ok {
			h.DecimalPlaces = &n
		}
	case "hidden":
		h.Hidden = toHintBool(value)
	case "pastDate":
		h.PastDate = toHintBool(value)
	case "futureDate":
		h.FutureDate = toHintBool(value)
	case "order":
		h.Order = toHintStrings(value)
	case "forms":
		// Form discovery directive, consumed by the format adapters.
	default:
		str, ok := CanonicalizeExtensionValue(value)
		if !ok {
			return
		}
		if h.Extra == nil {
			h.Extra = make(map[string]string)
		}
		h.Extra[key] = str
	}
}

// CanonicalizeExtensionValue turns an extension value into a deterministic
// string. Returns false when the value cannot be represented that way.
func CanonicalizeExtensionValue(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		if v == "" {
			return "", false
		}
		return v, true
	case bool:
		return strconv.FormatBool(v), true
	case int:
		return strconv.Itoa(v), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case json.Number:
		return v.String(), true
	case map[string]any, []any, []string:
		payload, err := json.Marshal(v)
		if err != nil || string(payload) == "{}" || string(payload) == "[]" {
			return "", false
		}
		return string(payload), true
	default:
		return "", false
	}
}

func toHintString(value any) string {
	str, ok := value.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(str)
}

func toHintInt(value any) (int, bool) {
	switch v := value.(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return 0, false
		}
		return int(n), true
	case string:
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

func toHintBool(value any) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		parsed, err := strconv.ParseBool(strings.TrimSpace(v))
		return err == nil && parsed
	default:
		return false
	}
}

func toHintStrings(value any) []string {
	switch v := value.(type) {
	case []string:
		if len(v) == 0 {
			return nil
		}
		return append([]string(nil), v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok || str == "" {
				continue
			}
			out = append(out, str)
		}
		if len(out) == 0 {
			return nil
		}
		return out
	default:
		return nil
	}
}
