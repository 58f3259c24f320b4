// Package schema normalizes raw records whose column names drifted between
// snake_case and camelCase across migrations. Each entity declares its alias
// groups once; business code only ever sees canonical field names.
package schema

import "reflect"

// Record is a raw row: field name to driver value.
type Record map[string]interface{}

// AliasGroup lists the field names that carry one semantic attribute.
// Aliases are consulted in order and the first non-nil value wins, so a row
// carrying both forms after a partial migration resolves deterministically.
type AliasGroup struct {
	Canonical string
	Aliases   []string
	Required  bool
}

// FieldSpec is the declared alias table of one entity.
type FieldSpec struct {
	Entity string
	Groups []AliasGroup
}

// Resolve maps rec onto the canonical names of fields. Canonical fields with
// no non-nil alias are left absent unless the group is required, in which
// case a *MissingFieldError is returned. rec is never modified.
func Resolve(rec Record, fields FieldSpec) (Record, error) {
	out := make(Record, len(fields.Groups))
	for _, g := range fields.Groups {
		v, ok := lookup(rec, g.Aliases)
		if !ok {
			if g.Required {
				return nil, &MissingFieldError{
					Entity:     fields.Entity,
					Field:      g.Canonical,
					FirstAlias: first(g.Aliases),
					Checked:    append([]string(nil), g.Aliases...),
				}
			}
			continue
		}
		out[g.Canonical] = v
	}
	return out, nil
}

func lookup(rec Record, aliases []string) (interface{}, bool) {
	for _, a := range aliases {
		v, ok := rec[a]
		if !ok || isNil(v) {
			continue
		}
		return v, true
	}
	return nil, false
}

func isNil(v interface{}) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

func first(aliases []string) string {
	if len(aliases) == 0 {
		return ""
	}
	return aliases[0]
}

// Has reports whether the canonical field resolved.
func (r Record) Has(field string) bool {
	_, ok := r[field]
	return ok
}
