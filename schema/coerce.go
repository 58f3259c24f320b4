package schema

import (
	"math"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
}

func (r Record) need(field string) (interface{}, error) {
	v, ok := r[field]
	if !ok {
		return nil, &MissingFieldError{Field: field, FirstAlias: field, Checked: []string{field}}
	}
	return v, nil
}

// Uint reads a non-negative integer id.
func (r Record) Uint(field string) (uint, error) {
	v, err := r.need(field)
	if err != nil {
		return 0, err
	}
	n, ok := toInt64(v)
	if !ok || n < 0 {
		return 0, &FieldTypeError{Field: field, Want: "uint", Value: v}
	}
	return uint(n), nil
}

func (r Record) OptUint(field string) (*uint, error) {
	if !r.Has(field) {
		return nil, nil
	}
	n, err := r.Uint(field)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

func (r Record) Int(field string) (int, error) {
	v, err := r.need(field)
	if err != nil {
		return 0, err
	}
	n, ok := toInt64(v)
	if !ok {
		return 0, &FieldTypeError{Field: field, Want: "int", Value: v}
	}
	return int(n), nil
}

// String returns "" for an absent field; strings are never required to be
// non-empty at this layer.
func (r Record) String(field string) (string, error) {
	v, ok := r[field]
	if !ok {
		return "", nil
	}
	if s, ok := toString(v); ok {
		return s, nil
	}
	return "", &FieldTypeError{Field: field, Want: "string", Value: v}
}

func (r Record) OptString(field string) (*string, error) {
	if !r.Has(field) {
		return nil, nil
	}
	s, err := r.String(field)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r Record) Decimal(field string) (decimal.Decimal, error) {
	v, err := r.need(field)
	if err != nil {
		return decimal.Zero, err
	}
	d, ok := toDecimal(v)
	if !ok {
		return decimal.Zero, &FieldTypeError{Field: field, Want: "decimal", Value: v}
	}
	return d, nil
}

func (r Record) OptDecimal(field string) (*decimal.Decimal, error) {
	if !r.Has(field) {
		return nil, nil
	}
	d, err := r.Decimal(field)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func (r Record) Time(field string) (time.Time, error) {
	v, err := r.need(field)
	if err != nil {
		return time.Time{}, err
	}
	ts, ok := toTime(v)
	if !ok {
		return time.Time{}, &FieldTypeError{Field: field, Want: "time", Value: v}
	}
	return ts, nil
}

func (r Record) OptTime(field string) (*time.Time, error) {
	if !r.Has(field) {
		return nil, nil
	}
	ts, err := r.Time(field)
	if err != nil {
		return nil, err
	}
	return &ts, nil
}

// indirect unwraps pointers so *uint, *string and friends coerce like their
// element types. A nil pointer yields nil.
func indirect(v interface{}) interface{} {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if !rv.IsValid() {
		return nil
	}
	return rv.Interface()
}

func toInt64(v interface{}) (int64, bool) {
	v = indirect(v)
	if b, ok := v.([]byte); ok {
		n, err := strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
		return n, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, false
		}
		return int64(u), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) || math.IsInf(f, 0) || math.IsNaN(f) {
			return 0, false
		}
		return int64(f), true
	case reflect.String:
		n, err := strconv.ParseInt(strings.TrimSpace(rv.String()), 10, 64)
		return n, err == nil
	}
	return 0, false
}

// toString accepts named string types such as models.TableStatus, which is
// what gorm hands back when a map scan is typed by a model.
func toString(v interface{}) (string, bool) {
	v = indirect(v)
	if b, ok := v.([]byte); ok {
		return string(b), true
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.String {
		return rv.String(), true
	}
	return "", false
}

func toDecimal(v interface{}) (decimal.Decimal, bool) {
	v = indirect(v)
	switch t := v.(type) {
	case decimal.Decimal:
		return t, true
	case []byte:
		d, err := decimal.NewFromString(strings.TrimSpace(string(t)))
		return d, err == nil
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return decimal.NewFromInt(rv.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(rv.Uint()), 0), true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsInf(f, 0) || math.IsNaN(f) {
			return decimal.Zero, false
		}
		// Shortest representation, so a REAL column holding 8.1 reads as 8.1.
		return decimal.NewFromFloat(f), true
	case reflect.String:
		d, err := decimal.NewFromString(strings.TrimSpace(rv.String()))
		return d, err == nil
	}
	return decimal.Zero, false
}

func toTime(v interface{}) (time.Time, bool) {
	v = indirect(v)
	switch t := v.(type) {
	case time.Time:
		return t, true
	case []byte:
		return parseTime(string(t))
	}
	if s, ok := toString(v); ok {
		return parseTime(s)
	}
	return time.Time{}, false
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if ts, err := time.Parse(layout, s); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
