package forms

import (
	"errors"
	"strconv"

	"github.com/getkin/kin-openapi/openapi3"
)

func (d *Definition) message(code string, params map[string]string) string {
	return resolveMessage(d.translator, d.locale, d.messages, code, params)
}

// routeDelegated translates schema library findings into catalog messages
// and attaches them to the fields their JSON pointers name. Fields listed in
// skip already collected coercion errors, so their withheld values must not
// also surface as missing properties.
func (d *Definition) routeDelegated(mapping *ErrorMapping, skip map[string]struct{}, err error) {
	if err == nil {
		return
	}
	switch typed := err.(type) {
	case openapi3.MultiError:
		for _, item := range typed {
			d.routeDelegated(mapping, skip, item)
		}
	case *openapi3.SchemaError:
		d.routeSchemaError(mapping, skip, typed)
	default:
		var schemaErr *openapi3.SchemaError
		if errors.As(err, &schemaErr) {
			d.routeSchemaError(mapping, skip, schemaErr)
			return
		}
		mapping.AddForm(err.Error())
	}
}

func (d *Definition) routeSchemaError(mapping *ErrorMapping, skip map[string]struct{}, schemaErr *openapi3.SchemaError) {
	code, params := classifySchemaError(schemaErr)
	field, formLevel := mapSegments(schemaErr.JSONPointer(), d.fieldPaths)
	if formLevel || field == "" {
		mapping.AddForm(d.message(code, params))
		return
	}
	if _, errored := skip[field]; errored {
		return
	}
	mapping.Add(field, d.message(code, params))
}

// classifySchemaError maps a schema library finding onto a catalog code and
// the interpolation params its template expects.
func classifySchemaError(err *openapi3.SchemaError) (string, map[string]string) {
	s := err.Schema
	switch err.SchemaField {
	case "required", "nullable":
		return CodeRequired, nil
	case "enum":
		return CodeEnum, nil
	case "pattern":
		return CodePattern, nil
	case "minimum":
		if s != nil && s.Min != nil {
			bound := formatBound(*s.Min)
			if s.ExclusiveMin {
				return CodeExclusiveMinimum, map[string]string{"gt": bound}
			}
			return CodeMinimum, map[string]string{"ge": bound}
		}
		return CodeMinimum, nil
	case "maximum":
		if s != nil && s.Max != nil {
			bound := formatBound(*s.Max)
			if s.ExclusiveMax {
				return CodeExclusiveMaximum, map[string]string{"lt": bound}
			}
			return CodeMaximum, map[string]string{"le": bound}
		}
		return CodeMaximum, nil
	case "multipleOf":
		if s != nil && s.MultipleOf != nil {
			return CodeMultipleOf, map[string]string{"multiple_of": formatBound(*s.MultipleOf)}
		}
		return CodeMultipleOf, nil
	case "minLength":
		if s != nil {
			return CodeMinLength, map[string]string{"min_length": strconv.FormatUint(s.MinLength, 10)}
		}
		return CodeMinLength, nil
	case "maxLength":
		if s != nil && s.MaxLength != nil {
			return CodeMaxLength, map[string]string{"max_length": strconv.FormatUint(*s.MaxLength, 10)}
		}
		return CodeMaxLength, nil
	case "minItems":
		if s != nil {
			return CodeMinItems, map[string]string{"min_items": strconv.FormatUint(s.MinItems, 10)}
		}
		return CodeMinItems, nil
	case "maxItems":
		if s != nil && s.MaxItems != nil {
			return CodeMaxItems, map[string]string{"max_items": strconv.FormatUint(*s.MaxItems, 10)}
		}
		return CodeMaxItems, nil
	case "uniqueItems":
		return CodeUniqueItems, nil
	case "type":
		return delegatedTypeCode(s), nil
	default:
		return CodeInvalid, nil
	}
}

// delegatedTypeCode picks the parsing message matching the expected type.
// Type violations on string-typed schemas only reach here through initial or
// JSON-fed data, where the generic message fits.
func delegatedTypeCode(s *openapi3.Schema) string {
	switch {
	case typeIs(s, "integer"):
		return CodeIntegerParsing
	case typeIs(s, "number"):
		return CodeNumberParsing
	default:
		return CodeInvalid
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
