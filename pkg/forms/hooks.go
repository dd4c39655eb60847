package forms

import "context"

// CleanerFunc refines one field's cleaned value after delegated validation.
// It only runs when the field collected no errors; the returned value
// replaces the cleaned entry and a returned error attaches its text to the
// field verbatim.
type CleanerFunc func(ctx context.Context, form *Form, value any) (any, error)

// FormCleanerFunc runs after every field cleaner for cross-field checks.
// Returned errors land in the form-level bucket unless they unwrap to a
// FieldError, which routes the message to its field.
type FormCleanerFunc func(ctx context.Context, form *Form) error

// FieldError attaches a cross-field validation message to a specific field.
type FieldError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *FieldError) Error() string {
	if e == nil {
		return ""
	}
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}
