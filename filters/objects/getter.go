package objects

import (
	"reflect"
	"strings"

	"github.com/restviews/restviews/config"
	"github.com/restviews/restviews/filters"
)

// Getter reads a possibly prefixed field ("owner__name") from an item, nil
// when the item has no such field.
type Getter func(item interface{}, field string) interface{}

// AttrGetter reads struct fields and map keys. Struct fields are matched by
// the converted Go name, then by json tag, then case insensitively.
func AttrGetter(naming config.NamingConvention) Getter {
	return func(item interface{}, field string) interface{} {
		value := reflect.ValueOf(item)
		for _, part := range strings.Split(field, filters.PrefixSeparator) {
			value = lookup(indirect(value), part, naming)
			if !value.IsValid() {
				return nil
			}
		}

		value = indirect(value)
		if !value.IsValid() || !value.CanInterface() {
			return nil
		}
		return value.Interface()
	}
}

func indirect(value reflect.Value) reflect.Value {
	for value.IsValid() && (value.Kind() == reflect.Ptr || value.Kind() == reflect.Interface) {
		if value.IsNil() {
			return reflect.Value{}
		}
		value = value.Elem()
	}
	return value
}

func lookup(value reflect.Value, name string, naming config.NamingConvention) reflect.Value {
	if !value.IsValid() {
		return value
	}

	switch value.Kind() {
	case reflect.Map:
		if value.Type().Key().Kind() != reflect.String {
			return reflect.Value{}
		}
		return value.MapIndex(reflect.ValueOf(name).Convert(value.Type().Key()))
	case reflect.Struct:
		typ := value.Type()
		if f, ok := typ.FieldByName(naming.ToGoField(name)); ok && f.PkgPath == "" {
			return value.FieldByIndex(f.Index)
		}

		folded := strings.Replace(name, "_", "", -1)
		for i := 0; i < typ.NumField(); i++ {
			f := typ.Field(i)
			if f.PkgPath != "" {
				continue
			}
			tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if tag == name || strings.EqualFold(f.Name, folded) {
				return value.Field(i)
			}
		}
	}
	return reflect.Value{}
}
