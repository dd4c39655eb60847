package widgets

import (
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/goliatone/go-schemaform/pkg/model"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetToggle         = "toggle"
	WidgetSelect         = "select"
	WidgetMultiSelect    = "multiselect"
	WidgetTextarea       = "textarea"
	WidgetChips          = "chips"
	WidgetJSONEditor     = "json-editor"
	WidgetDatePicker     = "date-picker"
	WidgetTimePicker     = "time-picker"
	WidgetDateTimePicker = "datetime-picker"
	WidgetFileDropzone   = "file-dropzone"
)

// longTextThreshold is the maxLength above which a plain text field is
// treated as long-form content.
const longTextThreshold = 256

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(field model.Field) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widgets for fields based on explicit hints or registered
// matchers. Higher priority wins; ties fall back to registration order. An
// empty registry never resolves a widget.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in widget matchers
// registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// NewEmptyRegistry constructs a registry without built-in matchers for callers
// that want full control over widget selection.
func NewEmptyRegistry() *Registry {
	return &Registry{}
}

// Register adds a widget matcher with the provided name and priority. Higher
// priority values take precedence. Callers should avoid duplicate names; the
// latest registration wins during resolution.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the widget name for a field. An explicit widget attr set by
// a schema directive is honoured before matcher evaluation.
func (r *Registry) Resolve(field model.Field) (string, bool) {
	if explicit := explicitWidget(field); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	if len(r.rules) == 0 {
		r.mu.RUnlock()
		return "", false
	}
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(field) {
			return entry.name, true
		}
	}
	return "", false
}

// Decorate implements model.Decorator, applying registry resolution to every
// field in the form. A resolved widget lands in Attrs["widget"], preserving
// values already set by schema directives.
func (r *Registry) Decorate(form *model.FormModel) error {
	if r == nil || form == nil {
		return nil
	}
	form.Fields = r.decorateFields(form.Fields)
	return nil
}

func (r *Registry) decorateFields(fields []model.Field) []model.Field {
	if len(fields) == 0 {
		return fields
	}
	decorated := make([]model.Field, len(fields))
	for idx, field := range fields {
		decorated[idx] = r.decorateField(field)
	}
	return decorated
}

func (r *Registry) decorateField(field model.Field) model.Field {
	if widget, ok := r.Resolve(field); ok && widget != "" {
		if field.Attrs == nil {
			field.Attrs = make(map[string]string)
		}
		if field.Attrs["widget"] == "" {
			field.Attrs["widget"] = widget
		}
	}

	if field.Items != nil {
		item := r.decorateField(*field.Items)
		field.Items = &item
	}
	if len(field.Fields) > 0 {
		field.Fields = r.decorateFields(field.Fields)
	}
	return field
}

func explicitWidget(field model.Field) string {
	if field.Attrs == nil {
		return ""
	}
	return strings.TrimSpace(field.Attrs["widget"])
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetToggle, 90, func(field model.Field) bool {
		return field.Kind == model.FieldKindBoolean
	})

	r.Register(WidgetMultiSelect, 85, func(field model.Field) bool {
		return field.Kind == model.FieldKindMultiChoice
	})

	r.Register(WidgetSelect, 80, func(field model.Field) bool {
		return field.Kind == model.FieldKindChoice
	})

	r.Register(WidgetDatePicker, 70, func(field model.Field) bool {
		return field.Kind == model.FieldKindDate
	})

	r.Register(WidgetTimePicker, 70, func(field model.Field) bool {
		return field.Kind == model.FieldKindTime
	})

	r.Register(WidgetDateTimePicker, 70, func(field model.Field) bool {
		return field.Kind == model.FieldKindDateTime
	})

	r.Register(WidgetFileDropzone, 65, func(field model.Field) bool {
		return field.Kind == model.FieldKindFile || field.Kind == model.FieldKindImage
	})

	r.Register(WidgetTextarea, 60, func(field model.Field) bool {
		if field.Kind == model.FieldKindTextarea {
			return true
		}
		return field.Kind == model.FieldKindText && isLongText(field)
	})

	r.Register(WidgetJSONEditor, 50, func(field model.Field) bool {
		return field.Kind == model.FieldKindJSON
	})

	r.Register(WidgetChips, 40, func(field model.Field) bool {
		if field.Kind != model.FieldKindArray || field.Items == nil {
			return false
		}
		switch field.Items.Kind {
		case model.FieldKindObject, model.FieldKindArray, model.FieldKindJSON:
			return false
		}
		return true
	})
}

// isLongText mirrors the convention that unbounded strings render as
// long-form content while bounded ones stay single-line inputs.
func isLongText(field model.Field) bool {
	rule, ok := field.Rule(model.ValidationRuleMaxLength)
	if !ok {
		return true
	}
	limit, err := strconv.Atoi(rule.Params["value"])
	if err != nil {
		return false
	}
	return limit > longTextThreshold
}
