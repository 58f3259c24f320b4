package schema

import (
	"fmt"
	"strings"
)

// MissingFieldError reports a required field none of whose aliases carried
// a value.
type MissingFieldError struct {
	Entity     string
	Field      string
	FirstAlias string
	Checked    []string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("%s: missing required field %q (first alias %q, checked %s)",
		e.Entity, e.Field, e.FirstAlias, strings.Join(e.Checked, ", "))
}

// FieldTypeError reports a value that cannot be coerced to the type the
// canonical field requires.
type FieldTypeError struct {
	Field string
	Want  string
	Value interface{}
}

func (e *FieldTypeError) Error() string {
	return fmt.Sprintf("field %q: cannot use %T(%v) as %s", e.Field, e.Value, e.Value, e.Want)
}
