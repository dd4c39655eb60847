package jsonschema

import (
	"errors"
	"fmt"
	"strings"
)

// ExtensionNamespace is the vendor extension key recognised throughout the
// module.
const ExtensionNamespace = "x-schemaform"

// FormDiscoveryOptions configures fallback naming when the document carries
// no explicit form declarations.
type FormDiscoveryOptions struct {
	// FallbackID names the root form when neither $id nor title yields one.
	FallbackID string
}

// FormEntry identifies a schema node selected for form derivation.
type FormEntry struct {
	ID          string
	Title       string
	Description string
	// Pointer locates the node within the document, e.g. "#" or
	// "#/$defs/Address".
	Pointer string
	// Node is the raw schema payload for the entry.
	Node map[string]any
	// Extensions carries the declaring x-schemaform entry, if any.
	Extensions map[string]any
}

// DiscoverForms derives the set of forms a schema document declares. An
// x-schemaform.forms extension wins; otherwise the document root itself is
// the single form.
func DiscoverForms(payload map[string]any, opts FormDiscoveryOptions) ([]FormEntry, error) {
	if payload == nil {
		return nil, errors.New("jsonschema: schema is nil")
	}

	if entries, ok, err := formsFromExtension(payload); err != nil {
		return nil, err
	} else if ok {
		return entries, nil
	}

	id := slugify(readString(payload, "$id"))
	if id == "" {
		id = slugify(readString(payload, "title"))
	}
	if id == "" {
		id = slugify(opts.FallbackID)
	}
	if id == "" {
		id = "form"
	}

	return []FormEntry{{
		ID:      id,
		Pointer: "#",
		Node:    payload,
	}}, nil
}

func formsFromExtension(payload map[string]any) ([]FormEntry, bool, error) {
	raw, ok := payload[ExtensionNamespace]
	if !ok {
		return nil, false, nil
	}
	meta, ok := raw.(map[string]any)
	if !ok {
		return nil, true, errors.New("jsonschema: " + ExtensionNamespace + " must be an object")
	}

	formsRaw, ok := meta["forms"]
	if !ok {
		return nil, false, nil
	}

	list, ok := formsRaw.([]any)
	if !ok {
		return nil, true, errors.New("jsonschema: " + ExtensionNamespace + ".forms must be an array")
	}
	if len(list) == 0 {
		return nil, true, errors.New("jsonschema: " + ExtensionNamespace + ".forms is empty")
	}

	entries := make([]FormEntry, 0, len(list))
	for idx, item := range list {
		decl, ok := item.(map[string]any)
		if !ok {
			return nil, true, fmt.Errorf("jsonschema: %s.forms[%d] must be an object", ExtensionNamespace, idx)
		}
		id := strings.TrimSpace(readString(decl, "id"))
		if id == "" {
			return nil, true, fmt.Errorf("jsonschema: %s.forms[%d].id is required", ExtensionNamespace, idx)
		}

		pointer := strings.TrimSpace(readString(decl, "ref"))
		if pointer == "" {
			pointer = "#"
		}
		node, err := resolveLocalPointer(payload, pointer)
		if err != nil {
			return nil, true, fmt.Errorf("jsonschema: %s.forms[%d]: %w", ExtensionNamespace, idx, err)
		}

		entries = append(entries, FormEntry{
			ID:          id,
			Title:       strings.TrimSpace(readString(decl, "title")),
			Description: strings.TrimSpace(readString(decl, "description")),
			Pointer:     pointer,
			Node:        node,
			Extensions:  map[string]any{ExtensionNamespace: decl},
		})
	}
	return entries, true, nil
}

// resolveLocalPointer follows an in-document JSON pointer ("#/$defs/X") and
// returns the schema object it targets.
func resolveLocalPointer(root map[string]any, pointer string) (map[string]any, error) {
	trimmed := strings.TrimSpace(pointer)
	if trimmed == "" || trimmed == "#" {
		return root, nil
	}
	if !strings.HasPrefix(trimmed, "#/") {
		return nil, fmt.Errorf("only in-document pointers are supported, got %q", pointer)
	}

	var current any = root
	for _, segment := range strings.Split(trimmed[2:], "/") {
		key := unescapeJSONPointer(segment)
		node, ok := current.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("pointer %q traverses a non-object", pointer)
		}
		next, ok := node[key]
		if !ok {
			return nil, fmt.Errorf("pointer %q not found", pointer)
		}
		current = next
	}

	target, ok := current.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("pointer %q does not target a schema object", pointer)
	}
	return target, nil
}

func readString(payload map[string]any, key string) string {
	if payload == nil {
		return ""
	}
	value, ok := payload[key]
	if !ok {
		return ""
	}
	str, ok := value.(string)
	if !ok {
		return ""
	}
	return str
}

// slugify reduces an identifier or URI to a lowercase slug suitable as a form
// id. URL fragments and file extensions are stripped first.
func slugify(raw string) string {
	value := strings.TrimSpace(raw)
	if value == "" {
		return ""
	}
	if idx := strings.LastIndexAny(value, "/#"); idx >= 0 {
		value = value[idx+1:]
	}
	for _, ext := range []string{".json", ".yaml", ".yml", ".schema"} {
		value = strings.TrimSuffix(value, ext)
	}

	var sb strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(value) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				sb.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.Trim(sb.String(), "-")
}
