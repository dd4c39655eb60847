package forms

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/model"
)

// NonFieldKey is the catch-all bucket name used when rendering form-level
// messages alongside field errors.
const NonFieldKey = "__all__"

// ErrorMapping splits validation feedback into field-level and form-level
// messages keyed by the dotted field paths used throughout the pipeline.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// Add appends a message to the named field, trimming whitespace and skipping
// duplicates. Form-level aliases (empty name, NonFieldKey, etc.) land in the
// form bucket instead.
func (m *ErrorMapping) Add(field, message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	if isFormLevelKey(field) {
		m.AddForm(message)
		return
	}
	field = strings.TrimSpace(field)
	if m.Fields == nil {
		m.Fields = make(map[string][]string)
	}
	for _, existing := range m.Fields[field] {
		if existing == message {
			return
		}
	}
	m.Fields[field] = append(m.Fields[field], message)
}

// AddForm appends a form-level message, trimming whitespace and skipping
// duplicates.
func (m *ErrorMapping) AddForm(message string) {
	message = strings.TrimSpace(message)
	if message == "" {
		return
	}
	for _, existing := range m.Form {
		if existing == message {
			return
		}
	}
	m.Form = append(m.Form, message)
}

// Merge folds another mapping into this one, keeping insertion order and
// dropping duplicates.
func (m *ErrorMapping) Merge(other ErrorMapping) {
	for field, messages := range other.Fields {
		for _, message := range messages {
			m.Add(field, message)
		}
	}
	for _, message := range other.Form {
		m.AddForm(message)
	}
}

// HasErrors reports whether any field-level or form-level message is present.
func (m *ErrorMapping) HasErrors() bool {
	if m == nil {
		return false
	}
	return len(m.Fields) > 0 || len(m.Form) > 0
}

// HasFieldErrors reports whether the named field collected any messages.
func (m *ErrorMapping) HasFieldErrors(field string) bool {
	if m == nil || len(m.Fields) == 0 {
		return false
	}
	return len(m.Fields[field]) > 0
}

// ByField returns the messages collected for the named field. NonFieldKey
// (and the other form-level aliases) return the form bucket.
func (m *ErrorMapping) ByField(field string) []string {
	if m == nil {
		return nil
	}
	if isFormLevelKey(field) {
		return m.Form
	}
	return m.Fields[field]
}

// All flattens the mapping into a single payload with form-level messages
// under NonFieldKey, the shape most HTTP handlers serialize.
func (m *ErrorMapping) All() map[string][]string {
	if !m.HasErrors() {
		return nil
	}
	out := make(map[string][]string, len(m.Fields)+1)
	for field, messages := range m.Fields {
		out[field] = append([]string(nil), messages...)
	}
	if len(m.Form) > 0 {
		out[NonFieldKey] = append([]string(nil), m.Form...)
	}
	return out
}

// MergeFormErrors concatenates and normalises form-level error slices,
// trimming whitespace and removing duplicates while preserving order.
func MergeFormErrors(existing []string, extras ...string) []string {
	combined := make([]string, 0, len(existing)+len(extras))
	combined = append(combined, existing...)
	combined = append(combined, extras...)
	return normalizeMessages(combined)
}

// MapErrorPayload normalises server error payloads (JSON pointer or dotted
// paths, message values as strings, string slices, or errors) into the dotted
// field identifiers of the supplied form model. Unknown paths are treated as
// form-level errors so messages are not lost.
func MapErrorPayload(form model.FormModel, payload map[string]any) ErrorMapping {
	fieldPaths := make(map[string]struct{})
	collectFieldPaths(form.Fields, "", fieldPaths)
	return mapPayload(fieldPaths, payload)
}

func mapPayload(fieldPaths map[string]struct{}, payload map[string]any) ErrorMapping {
	mapping := ErrorMapping{}
	if len(payload) == 0 {
		return mapping
	}

	for rawPath, value := range payload {
		messages := normalizeMessages(coerceMessages(value))
		if len(messages) == 0 {
			continue
		}

		mapped, formLevel := mapErrorPath(rawPath, fieldPaths)
		for _, message := range messages {
			if formLevel || mapped == "" {
				mapping.AddForm(message)
				continue
			}
			mapping.Add(mapped, message)
		}
	}
	return mapping
}

func coerceMessages(value any) []string {
	switch v := value.(type) {
	case nil:
		return nil
	case string:
		return []string{v}
	case []string:
		return v
	case error:
		return []string{v.Error()}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, coerceMessages(item)...)
		}
		return out
	default:
		return []string{fmt.Sprint(v)}
	}
}

func normalizeMessages(messages []string) []string {
	if len(messages) == 0 {
		return nil
	}

	out := make([]string, 0, len(messages))
	seen := make(map[string]struct{}, len(messages))

	for _, message := range messages {
		trimmed := strings.TrimSpace(message)
		if trimmed == "" {
			continue
		}
		if _, exists := seen[trimmed]; exists {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}

	if len(out) == 0 {
		return nil
	}
	return out
}

func mapErrorPath(raw string, fieldPaths map[string]struct{}) (string, bool) {
	trimmed := strings.TrimSpace(raw)
	if isFormLevelKey(trimmed) {
		return "", true
	}
	return mapSegments(parsePathSegments(trimmed), fieldPaths)
}

func mapSegments(segments []string, fieldPaths map[string]struct{}) (string, bool) {
	if len(segments) == 0 {
		return "", true
	}

	best := ""
	for _, variant := range buildSegmentVariants(segments) {
		if path := longestMatchingPath(variant, fieldPaths); path != "" {
			if len(pathSegments(path)) > len(pathSegments(best)) {
				best = path
			}
		}
	}

	if best != "" {
		return best, false
	}
	return "", true
}

func parsePathSegments(path string) []string {
	if path == "" {
		return nil
	}

	clean := strings.TrimSpace(path)
	clean = strings.TrimPrefix(clean, "#/")
	clean = strings.TrimPrefix(clean, "$/")
	clean = strings.TrimPrefix(clean, "$.")
	for strings.HasPrefix(clean, "#") || strings.HasPrefix(clean, "/") || strings.HasPrefix(clean, ".") || strings.HasPrefix(clean, "$") {
		clean = strings.TrimPrefix(clean, "#")
		clean = strings.TrimPrefix(clean, "/")
		clean = strings.TrimPrefix(clean, ".")
		clean = strings.TrimPrefix(clean, "$")
	}

	replacer := strings.NewReplacer("[", ".", "]", "", "//", "/")
	clean = replacer.Replace(clean)
	clean = strings.Trim(clean, "./")
	if clean == "" {
		return nil
	}

	parts := strings.FieldsFunc(clean, func(r rune) bool {
		return r == '.' || r == '/'
	})

	out := make([]string, 0, len(parts))
	for _, part := range parts {
		segment := strings.TrimSpace(part)
		if segment == "" {
			continue
		}
		segment = strings.ReplaceAll(segment, "~1", "/")
		segment = strings.ReplaceAll(segment, "~0", "~")
		out = append(out, segment)
	}
	return out
}

func buildSegmentVariants(segments []string) [][]string {
	var variants [][]string
	seen := make(map[string]struct{}, 4)

	appendVariant := func(candidate []string) {
		if len(candidate) == 0 {
			return
		}
		key := strings.Join(candidate, ".")
		if _, exists := seen[key]; exists {
			return
		}
		seen[key] = struct{}{}
		var copyCandidate []string
		copyCandidate = append(copyCandidate, candidate...)
		variants = append(variants, copyCandidate)
	}

	appendVariant(segments)

	noWrappers := dropWrapperSegments(segments)
	appendVariant(noWrappers)
	appendVariant(stripNumericSegments(segments))
	appendVariant(stripNumericSegments(noWrappers))

	return variants
}

func dropWrapperSegments(segments []string) []string {
	if len(segments) == 0 {
		return segments
	}

	wrappers := map[string]struct{}{
		"body":       {},
		"request":    {},
		"payload":    {},
		"data":       {},
		"attributes": {},
	}

	out := segments
	for len(out) > 0 {
		if _, ok := wrappers[strings.ToLower(out[0])]; ok {
			out = out[1:]
			continue
		}
		break
	}
	return out
}

func stripNumericSegments(segments []string) []string {
	if len(segments) == 0 {
		return segments
	}

	out := make([]string, 0, len(segments))
	for _, segment := range segments {
		if _, err := strconv.Atoi(segment); err == nil {
			continue
		}
		out = append(out, segment)
	}
	return out
}

func longestMatchingPath(segments []string, fieldPaths map[string]struct{}) string {
	if len(segments) == 0 || len(fieldPaths) == 0 {
		return ""
	}

	for end := len(segments); end > 0; end-- {
		candidate := strings.Join(segments[:end], ".")
		if _, ok := fieldPaths[candidate]; ok {
			return candidate
		}
	}
	return ""
}

func pathSegments(path string) []string {
	if path == "" {
		return nil
	}
	return strings.Split(path, ".")
}

func collectFieldPaths(fields []model.Field, prefix string, dest map[string]struct{}) {
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		path := joinPath(prefix, name)
		dest[path] = struct{}{}

		if len(field.Fields) > 0 {
			collectFieldPaths(field.Fields, path, dest)
		}
		if field.Items != nil {
			collectItemPaths(field.Items, path, dest)
		}
	}
}

func collectItemPaths(item *model.Field, prefix string, dest map[string]struct{}) {
	if item == nil {
		return
	}
	if len(item.Fields) > 0 {
		collectFieldPaths(item.Fields, prefix, dest)
	}
	if item.Items != nil {
		collectItemPaths(item.Items, prefix, dest)
	}
}

func joinPath(parent, child string) string {
	parent = strings.TrimSpace(parent)
	child = strings.TrimSpace(child)
	if parent == "" {
		return child
	}
	if child == "" {
		return parent
	}
	return parent + "." + child
}

func isFormLevelKey(key string) bool {
	switch strings.ToLower(strings.TrimSpace(key)) {
	case "", ".", "/", "#", "$", "form", "base", NonFieldKey, "non_field_errors", "non-field-errors":
		return true
	default:
		return false
	}
}
