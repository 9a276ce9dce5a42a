package filters

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/spf13/cast"
	inf "gopkg.in/inf.v0"
)

var errInvalidValue = errors.New("invalid value")

// coerce converts a raw value into the Go type of the field kind:
// string, int, float64, bool, time.Time, *inf.Dec, []string, []int, []float64
// or *Filter.
func coerce(field Field, raw interface{}) (interface{}, error) {
	switch field.Kind {
	case Nested:
		return coerceNested(field, raw)
	case StringList, IntList, FloatList:
		items := toList(raw)
		return coerceList(field.Kind, items)
	}
	return coerceScalar(field.Kind, raw)
}

func coerceScalar(kind Kind, raw interface{}) (interface{}, error) {
	switch kind {
	case String:
		return cast.ToStringE(raw)
	case Int:
		if s, ok := raw.(string); ok {
			raw = strings.TrimSpace(s)
		}
		return cast.ToIntE(raw)
	case Float:
		return cast.ToFloat64E(raw)
	case Bool:
		return cast.ToBoolE(raw)
	case Time:
		return cast.ToTimeE(raw)
	case Decimal:
		return toDecimal(raw)
	}
	return nil, fmt.Errorf("unsupported kind %s", kind)
}

func coerceList(kind Kind, items []interface{}) (interface{}, error) {
	switch kind {
	case StringList:
		out := make([]string, 0, len(items))
		for _, item := range items {
			v, err := cast.ToStringE(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case IntList:
		out := make([]int, 0, len(items))
		for _, item := range items {
			v, err := coerceScalar(Int, item)
			if err != nil {
				return nil, err
			}
			out = append(out, v.(int))
		}
		return out, nil
	case FloatList:
		out := make([]float64, 0, len(items))
		for _, item := range items {
			v, err := cast.ToFloat64E(item)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	}
	return nil, fmt.Errorf("unsupported kind %s", kind)
}

// toList wraps scalars in a single element list
func toList(raw interface{}) []interface{} {
	v := reflect.ValueOf(raw)
	if v.Kind() != reflect.Slice && v.Kind() != reflect.Array {
		return []interface{}{raw}
	}
	items := make([]interface{}, v.Len())
	for i := range items {
		items[i] = v.Index(i).Interface()
	}
	return items
}

func toDecimal(raw interface{}) (*inf.Dec, error) {
	switch v := raw.(type) {
	case *inf.Dec:
		return v, nil
	case inf.Dec:
		return &v, nil
	}

	s, err := cast.ToStringE(raw)
	if err != nil {
		return nil, err
	}
	d, ok := new(inf.Dec).SetString(strings.TrimSpace(s))
	if !ok {
		return nil, errInvalidValue
	}
	return d, nil
}

func coerceNested(field Field, raw interface{}) (interface{}, error) {
	switch v := raw.(type) {
	case *Filter:
		if v.schema != field.Schema {
			return nil, fmt.Errorf("expected a %s filter, got %s", field.Schema.name, v.schema.name)
		}
		return v, nil
	case map[string]interface{}:
		return field.Schema.New(v)
	}
	return nil, errInvalidValue
}

// fieldErrors describes a coercion failure. Nested validation errors are
// reported with the parent field name as prefix.
func fieldErrors(field Field, raw interface{}, err error) []FieldError {
	var nested *ValidationError
	if errors.As(err, &nested) {
		errs := make([]FieldError, 0, len(nested.Errors))
		for _, fe := range nested.Errors {
			fe.Field = field.Name + PrefixSeparator + fe.Field
			errs = append(errs, fe)
		}
		return errs
	}

	return []FieldError{{
		Field:   field.Name,
		Message: fmt.Sprintf("%s must be a valid %s", field.Name, field.Kind),
		Value:   raw,
	}}
}
