package objects

import (
	"reflect"
	"strings"

	"github.com/restviews/restviews/filters"
	"github.com/spf13/cast"
)

// Comparator tests an item value against the values of a filter operation
type Comparator func(value, arg interface{}) bool

func defaultOperators() map[filters.Operator]Comparator {
	return map[filters.Operator]Comparator{
		filters.OpEq:     equal,
		filters.OpNe:     func(value, arg interface{}) bool { return !equal(value, arg) },
		filters.OpLt:     ordered(func(c int) bool { return c < 0 }),
		filters.OpLe:     ordered(func(c int) bool { return c <= 0 }),
		filters.OpGt:     ordered(func(c int) bool { return c > 0 }),
		filters.OpGe:     ordered(func(c int) bool { return c >= 0 }),
		filters.OpIn:     contains,
		filters.OpNotIn:  func(value, arg interface{}) bool { return !contains(value, arg) },
		filters.OpIsNull: isNull,
		filters.OpLike:   like(false),
		filters.OpILike:  like(true),
	}
}

func ordered(test func(c int) bool) Comparator {
	return func(value, arg interface{}) bool {
		c, ok := compare(value, arg)
		return ok && test(c)
	}
}

func contains(value, arg interface{}) bool {
	items := reflect.ValueOf(arg)
	if items.Kind() != reflect.Slice && items.Kind() != reflect.Array {
		return equal(value, arg)
	}
	for i := 0; i < items.Len(); i++ {
		if equal(value, items.Index(i).Interface()) {
			return true
		}
	}
	return false
}

func isNull(value, arg interface{}) bool {
	return (deref(value) == nil) == cast.ToBool(arg)
}

func like(fold bool) Comparator {
	return func(value, arg interface{}) bool {
		value = deref(value)
		if value == nil {
			return false
		}
		s, err := cast.ToStringE(value)
		if err != nil {
			return false
		}
		substr := cast.ToString(deref(arg))
		if fold {
			return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
		}
		return strings.Contains(s, substr)
	}
}
