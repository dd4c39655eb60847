package jsonschema

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

const maxRefDepth = 32

var supportedSchemaKeys = map[string]struct{}{
	"$schema":              {},
	"$id":                  {},
	"$defs":                {},
	"$ref":                 {},
	"$anchor":              {},
	"$comment":             {},
	"type":                 {},
	"properties":           {},
	"required":             {},
	"items":                {},
	"anyOf":                {},
	"oneOf":                {},
	"allOf":                {},
	"enum":                 {},
	"const":                {},
	"title":                {},
	"description":          {},
	"default":              {},
	"examples":             {},
	"example":              {},
	"minimum":              {},
	"maximum":              {},
	"exclusiveMinimum":     {},
	"exclusiveMaximum":     {},
	"multipleOf":           {},
	"minLength":            {},
	"maxLength":            {},
	"pattern":              {},
	"minItems":             {},
	"maxItems":             {},
	"uniqueItems":          {},
	"format":               {},
	"readOnly":             {},
	"additionalProperties": {},
}

// normalizer converts raw schema payloads into the canonical IR while
// resolving in-document references.
type normalizer struct {
	root   map[string]any
	orders map[string][]string
}

func newNormalizer(root map[string]any, orders map[string][]string) *normalizer {
	return &normalizer{root: root, orders: orders}
}

// normalizeSchema is the package-level entry point used by the adapter.
func normalizeSchema(node map[string]any, root map[string]any, pointer string, orders map[string][]string) (schema.Schema, error) {
	n := newNormalizer(root, orders)
	return n.normalize(node, pointer, 0)
}

func (n *normalizer) normalize(node any, path string, depth int) (schema.Schema, error) {
	if depth > maxRefDepth {
		return schema.Schema{}, fmt.Errorf("jsonschema: reference depth exceeded at %s", path)
	}
	if node == nil {
		return schema.Schema{}, fmt.Errorf("jsonschema: schema is nil at %s", path)
	}
	payload, ok := node.(map[string]any)
	if !ok {
		return schema.Schema{}, fmt.Errorf("jsonschema: schema must be an object at %s", path)
	}

	if ref := strings.TrimSpace(readString(payload, "$ref")); ref != "" {
		return n.normalizeRef(payload, ref, path, depth)
	}
	if wrapped, ok, err := singleAllOfRef(payload, path); err != nil {
		return schema.Schema{}, err
	} else if ok {
		return n.normalizeRef(wrapped, strings.TrimSpace(readString(wrapped, "$ref")), path, depth)
	}

	extensions := extractExtensions(payload)
	if err := validateKeywords(payload, path); err != nil {
		return schema.Schema{}, err
	}

	out := schema.Schema{
		Title:       strings.TrimSpace(readString(payload, "title")),
		Description: strings.TrimSpace(readString(payload, "description")),
		Default:     payload["default"],
		Const:       payload["const"],
		Format:      strings.TrimSpace(readString(payload, "format")),
		Extensions:  extensions,
	}

	if example, ok := payload["example"]; ok {
		out.Example = example
	} else if list, ok := payload["examples"].([]any); ok && len(list) > 0 {
		out.Example = list[0]
	}

	if readOnly, ok := payload["readOnly"].(bool); ok {
		out.ReadOnly = readOnly
	}

	if err := n.applyType(&out, payload, path); err != nil {
		return schema.Schema{}, err
	}

	if union, ok, err := n.nullableUnion(payload, path, depth); err != nil {
		return schema.Schema{}, err
	} else if ok {
		// Keyword metadata on the wrapper (title, default, extensions)
		// overrides whatever the unwrapped branch carried.
		merged := union
		merged.Nullable = true
		overlayMetadata(&merged, out)
		return merged, nil
	}
	if _, ok := payload["anyOf"]; ok {
		return schema.Schema{}, fmt.Errorf("jsonschema: anyOf is only supported for nullable unions at %s", path)
	}
	if _, ok := payload["oneOf"]; ok {
		return schema.Schema{}, fmt.Errorf("jsonschema: oneOf is only supported for nullable unions at %s", path)
	}

	if enumRaw, ok := payload["enum"]; ok {
		enumList, ok := enumRaw.([]any)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: enum must be an array at %s", path)
		}
		out.Enum = append([]any(nil), enumList...)
	}

	if requiredRaw, ok := payload["required"]; ok {
		list, ok := requiredRaw.([]any)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: required must be an array at %s", path)
		}
		required := make([]string, 0, len(list))
		for idx, item := range list {
			str, ok := item.(string)
			if !ok || strings.TrimSpace(str) == "" {
				return schema.Schema{}, fmt.Errorf("jsonschema: required[%d] must be a string at %s", idx, path)
			}
			required = append(required, str)
		}
		out.Required = required
	}

	if err := applyNumericBounds(&out, payload, path); err != nil {
		return schema.Schema{}, err
	}
	if err := applyStringBounds(&out, payload, path); err != nil {
		return schema.Schema{}, err
	}
	if err := applyArrayBounds(&out, payload, path); err != nil {
		return schema.Schema{}, err
	}

	if defsRaw, ok := payload["$defs"]; ok {
		defs, ok := defsRaw.(map[string]any)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: $defs must be an object at %s", path)
		}
		for _, key := range sortedKeys(defs) {
			childPath := joinPath(path, "$defs", key)
			if _, err := n.normalize(defs[key], childPath, depth+1); err != nil {
				return schema.Schema{}, err
			}
		}
	}

	if propertiesRaw, ok := payload["properties"]; ok {
		props, ok := propertiesRaw.(map[string]any)
		if !ok {
			return schema.Schema{}, fmt.Errorf("jsonschema: properties must be an object at %s", path)
		}
		out.Properties = make(map[string]schema.Schema, len(props))
		for _, key := range sortedKeys(props) {
			childPath := joinPath(path, "properties", key)
			converted, err := n.normalize(props[key], childPath, depth+1)
			if err != nil {
				return schema.Schema{}, err
			}
			out.Properties[key] = converted
		}
		out.PropertyOrder = n.orderFor(path, props)
	}

	if itemsRaw, ok := payload["items"]; ok {
		switch typed := itemsRaw.(type) {
		case map[string]any:
			childPath := joinPath(path, "items")
			converted, err := n.normalize(typed, childPath, depth+1)
			if err != nil {
				return schema.Schema{}, err
			}
			out.Items = &converted
		case []any:
			return schema.Schema{}, fmt.Errorf("jsonschema: tuple items are not supported at %s", path)
		default:
			return schema.Schema{}, fmt.Errorf("jsonschema: items must be an object at %s", path)
		}
	}

	return out, nil
}

// normalizeRef resolves an in-document reference and overlays any sibling
// metadata the referencing node declares.
func (n *normalizer) normalizeRef(payload map[string]any, ref, path string, depth int) (schema.Schema, error) {
	if !strings.HasPrefix(ref, "#") {
		return schema.Schema{}, fmt.Errorf("jsonschema: external $ref %q is not supported at %s", ref, path)
	}
	target, err := resolveLocalPointer(n.root, ref)
	if err != nil {
		return schema.Schema{}, fmt.Errorf("jsonschema: %v at %s", err, path)
	}

	resolved, err := n.normalize(target, ref, depth+1)
	if err != nil {
		return schema.Schema{}, err
	}

	overlay := schema.Schema{
		Title:       strings.TrimSpace(readString(payload, "title")),
		Description: strings.TrimSpace(readString(payload, "description")),
		Default:     payload["default"],
		Extensions:  extractExtensions(payload),
	}
	overlayMetadata(&resolved, overlay)
	resolved.Ref = ref
	return resolved, nil
}

// singleAllOfRef unwraps the `allOf: [{"$ref": …}]` wrapper some generators
// emit when attaching metadata to a reference.
func singleAllOfRef(payload map[string]any, path string) (map[string]any, bool, error) {
	raw, ok := payload["allOf"]
	if !ok {
		return nil, false, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, false, fmt.Errorf("jsonschema: allOf must be an array at %s", path)
	}
	if len(list) != 1 {
		return nil, false, fmt.Errorf("jsonschema: allOf is only supported as a single-reference wrapper at %s", path)
	}
	entry, ok := list[0].(map[string]any)
	if !ok || strings.TrimSpace(readString(entry, "$ref")) == "" {
		return nil, false, fmt.Errorf("jsonschema: allOf is only supported as a single-reference wrapper at %s", path)
	}

	merged := make(map[string]any, len(payload))
	for key, value := range payload {
		if key == "allOf" {
			continue
		}
		merged[key] = value
	}
	merged["$ref"] = entry["$ref"]
	return merged, true, nil
}

// nullableUnion recognises the two spellings of an optional value: a type
// array containing "null", or an anyOf/oneOf pairing a schema with
// {"type": "null"}.
func (n *normalizer) nullableUnion(payload map[string]any, path string, depth int) (schema.Schema, bool, error) {
	for _, keyword := range []string{"anyOf", "oneOf"} {
		raw, ok := payload[keyword]
		if !ok {
			continue
		}
		list, ok := raw.([]any)
		if !ok {
			return schema.Schema{}, false, fmt.Errorf("jsonschema: %s must be an array at %s", keyword, path)
		}
		branches := make([]map[string]any, 0, len(list))
		sawNull := false
		for idx, entry := range list {
			branch, ok := entry.(map[string]any)
			if !ok {
				return schema.Schema{}, false, fmt.Errorf("jsonschema: %s[%d] must be an object at %s", keyword, idx, path)
			}
			if readString(branch, "type") == "null" {
				sawNull = true
				continue
			}
			branches = append(branches, branch)
		}
		if !sawNull || len(branches) != 1 {
			return schema.Schema{}, false, nil
		}
		resolved, err := n.normalize(branches[0], joinPath(path, keyword, "0"), depth+1)
		if err != nil {
			return schema.Schema{}, false, err
		}
		return resolved, true, nil
	}
	return schema.Schema{}, false, nil
}

func (n *normalizer) applyType(out *schema.Schema, payload map[string]any, path string) error {
	raw, ok := payload["type"]
	if !ok {
		return nil
	}
	switch typed := raw.(type) {
	case string:
		value := strings.TrimSpace(typed)
		if value != "" && !isAllowedType(value) {
			return fmt.Errorf("jsonschema: unsupported type %q at %s", value, path)
		}
		out.Type = value
	case []any:
		var base string
		sawNull := false
		for _, entry := range typed {
			name, ok := entry.(string)
			if !ok {
				return fmt.Errorf("jsonschema: type entries must be strings at %s", path)
			}
			if name == "null" {
				sawNull = true
				continue
			}
			if base != "" {
				return fmt.Errorf("jsonschema: multi-type unions are not supported at %s", path)
			}
			base = name
		}
		if base == "" {
			return fmt.Errorf("jsonschema: type array must include a non-null type at %s", path)
		}
		if !isAllowedType(base) {
			return fmt.Errorf("jsonschema: unsupported type %q at %s", base, path)
		}
		out.Type = base
		out.Nullable = out.Nullable || sawNull
	default:
		return fmt.Errorf("jsonschema: type must be a string or array at %s", path)
	}
	return nil
}

func applyNumericBounds(out *schema.Schema, payload map[string]any, path string) error {
	if minRaw, ok := payload["minimum"]; ok {
		value, ok := toFloat(minRaw)
		if !ok {
			return fmt.Errorf("jsonschema: minimum must be a number at %s", path)
		}
		out.Minimum = &value
	}

	if maxRaw, ok := payload["maximum"]; ok {
		value, ok := toFloat(maxRaw)
		if !ok {
			return fmt.Errorf("jsonschema: maximum must be a number at %s", path)
		}
		out.Maximum = &value
	}

	if exclusiveMinRaw, ok := payload["exclusiveMinimum"]; ok {
		switch value := exclusiveMinRaw.(type) {
		case bool:
			out.ExclusiveMinimum = value
		default:
			number, ok := toFloat(exclusiveMinRaw)
			if !ok {
				return fmt.Errorf("jsonschema: exclusiveMinimum must be a number at %s", path)
			}
			if out.Minimum != nil {
				return fmt.Errorf("jsonschema: minimum conflicts with exclusiveMinimum at %s", path)
			}
			out.Minimum = &number
			out.ExclusiveMinimum = true
		}
	}

	if exclusiveMaxRaw, ok := payload["exclusiveMaximum"]; ok {
		switch value := exclusiveMaxRaw.(type) {
		case bool:
			out.ExclusiveMaximum = value
		default:
			number, ok := toFloat(exclusiveMaxRaw)
			if !ok {
				return fmt.Errorf("jsonschema: exclusiveMaximum must be a number at %s", path)
			}
			if out.Maximum != nil {
				return fmt.Errorf("jsonschema: maximum conflicts with exclusiveMaximum at %s", path)
			}
			out.Maximum = &number
			out.ExclusiveMaximum = true
		}
	}

	if multipleRaw, ok := payload["multipleOf"]; ok {
		value, ok := toFloat(multipleRaw)
		if !ok || value <= 0 {
			return fmt.Errorf("jsonschema: multipleOf must be a positive number at %s", path)
		}
		out.MultipleOf = &value
	}

	return nil
}

func applyStringBounds(out *schema.Schema, payload map[string]any, path string) error {
	if minLenRaw, ok := payload["minLength"]; ok {
		value, ok := toInt(minLenRaw)
		if !ok || value < 0 {
			return fmt.Errorf("jsonschema: minLength must be a non-negative integer at %s", path)
		}
		out.MinLength = &value
	}

	if maxLenRaw, ok := payload["maxLength"]; ok {
		value, ok := toInt(maxLenRaw)
		if !ok || value < 0 {
			return fmt.Errorf("jsonschema: maxLength must be a non-negative integer at %s", path)
		}
		out.MaxLength = &value
	}

	if patternRaw, ok := payload["pattern"]; ok {
		pattern, ok := patternRaw.(string)
		if !ok {
			return fmt.Errorf("jsonschema: pattern must be a string at %s", path)
		}
		out.Pattern = pattern
	}

	return nil
}

func applyArrayBounds(out *schema.Schema, payload map[string]any, path string) error {
	if minRaw, ok := payload["minItems"]; ok {
		value, ok := toInt(minRaw)
		if !ok || value < 0 {
			return fmt.Errorf("jsonschema: minItems must be a non-negative integer at %s", path)
		}
		out.MinItems = &value
	}

	if maxRaw, ok := payload["maxItems"]; ok {
		value, ok := toInt(maxRaw)
		if !ok || value < 0 {
			return fmt.Errorf("jsonschema: maxItems must be a non-negative integer at %s", path)
		}
		out.MaxItems = &value
	}

	if uniqueRaw, ok := payload["uniqueItems"]; ok {
		value, ok := uniqueRaw.(bool)
		if !ok {
			return fmt.Errorf("jsonschema: uniqueItems must be a boolean at %s", path)
		}
		out.UniqueItems = value
	}

	return nil
}

// orderFor prefers the recorded document order for a properties block and
// falls back to sorted names.
func (n *normalizer) orderFor(path string, props map[string]any) []string {
	if order, ok := n.orders[joinPath(path, "properties")]; ok && len(order) > 0 {
		return append([]string(nil), order...)
	}
	return sortedKeys(props)
}

// overlayMetadata copies non-empty metadata from src onto dst.
func overlayMetadata(dst *schema.Schema, src schema.Schema) {
	if src.Title != "" {
		dst.Title = src.Title
	}
	if src.Description != "" {
		dst.Description = src.Description
	}
	if src.Default != nil {
		dst.Default = src.Default
	}
	if len(src.Extensions) > 0 {
		if dst.Extensions == nil {
			dst.Extensions = make(map[string]any, len(src.Extensions))
		}
		for key, value := range src.Extensions {
			dst.Extensions[key] = value
		}
	}
}

func validateKeywords(payload map[string]any, path string) error {
	for _, key := range sortedKeys(payload) {
		if isVendorExtension(key) {
			continue
		}
		if _, ok := supportedSchemaKeys[key]; ok {
			continue
		}
		return fmt.Errorf("jsonschema: unsupported keyword %q at %s", key, path)
	}
	return nil
}

func isVendorExtension(key string) bool {
	return strings.HasPrefix(strings.ToLower(strings.TrimSpace(key)), "x-")
}

func extractExtensions(payload map[string]any) map[string]any {
	var extensions map[string]any
	for _, key := range sortedKeys(payload) {
		if !isVendorExtension(key) {
			continue
		}
		if extensions == nil {
			extensions = make(map[string]any)
		}
		extensions[key] = payload[key]
	}
	return extensions
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	default:
		return 0, false
	}
}

func toInt(value any) (int, bool) {
	switch v := value.(type) {
	case float64:
		if v == math.Trunc(v) {
			return int(v), true
		}
		return 0, false
	case float32:
		if v == float32(math.Trunc(float64(v))) {
			return int(v), true
		}
		return 0, false
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

func isAllowedType(value string) bool {
	switch value {
	case "object", "array", "string", "integer", "number", "boolean":
		return true
	default:
		return false
	}
}

func joinPath(path string, segments ...string) string {
	if path == "" || path == "#" {
		path = "#"
	}
	for _, segment := range segments {
		if segment == "" {
			continue
		}
		path = path + "/" + escapeJSONPointer(segment)
	}
	return path
}

func escapeJSONPointer(value string) string {
	replacer := strings.NewReplacer("~", "~0", "/", "~1")
	return replacer.Replace(value)
}

func unescapeJSONPointer(value string) string {
	replacer := strings.NewReplacer("~1", "/", "~0", "~")
	return replacer.Replace(value)
}

func sortedKeys(payload map[string]any) []string {
	keys := make([]string, 0, len(payload))
	for key := range payload {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
