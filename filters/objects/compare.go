package objects

import (
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	inf "gopkg.in/inf.v0"
)

// compare orders a and b, ok is false when the values are not comparable
func compare(a, b interface{}) (int, bool) {
	a, b = deref(a), deref(b)
	if a == nil || b == nil {
		return 0, false
	}

	if da, ok := a.(*inf.Dec); ok {
		if db, ok := toDec(b); ok {
			return da.Cmp(db), true
		}
		return 0, false
	}
	if db, ok := b.(*inf.Dec); ok {
		if da, ok := toDec(a); ok {
			return da.Cmp(db), true
		}
		return 0, false
	}

	switch va := a.(type) {
	case time.Time:
		vb, ok := b.(time.Time)
		if !ok {
			return 0, false
		}
		switch {
		case va.Before(vb):
			return -1, true
		case va.After(vb):
			return 1, true
		}
		return 0, true
	case string:
		vb, ok := b.(string)
		if !ok {
			return 0, false
		}
		return strings.Compare(va, vb), true
	case bool:
		vb, ok := b.(bool)
		if !ok {
			return 0, false
		}
		switch {
		case va == vb:
			return 0, true
		case !va:
			return -1, true
		}
		return 1, true
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	switch {
	case isInt(ra) && isInt(rb):
		return compareInt64(ra.Int(), rb.Int()), true
	case isUint(ra) && isUint(rb):
		return compareUint64(ra.Uint(), rb.Uint()), true
	case isNumber(ra) && isNumber(rb):
		return compareFloat64(toFloat(ra), toFloat(rb))
	case ra.Kind() == reflect.String && rb.Kind() == reflect.String:
		return strings.Compare(ra.String(), rb.String()), true
	}
	return 0, false
}

// equal reports whether a and b are the same value, nil only equals nil
func equal(a, b interface{}) bool {
	a, b = deref(a), deref(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if c, ok := compare(a, b); ok {
		return c == 0
	}
	return reflect.DeepEqual(a, b)
}

func deref(v interface{}) interface{} {
	if v == nil {
		return nil
	}
	if _, ok := v.(*inf.Dec); ok {
		return v
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return nil
		}
		rv = rv.Elem()
	}
	if d, ok := rv.Interface().(inf.Dec); ok {
		return &d
	}
	return rv.Interface()
}

func toDec(v interface{}) (*inf.Dec, bool) {
	switch n := v.(type) {
	case *inf.Dec:
		return n, true
	case float32, float64:
		return new(inf.Dec).SetString(strconv.FormatFloat(cast.ToFloat64(n), 'f', -1, 64))
	}
	rv := reflect.ValueOf(v)
	switch {
	case isInt(rv):
		return inf.NewDec(rv.Int(), 0), true
	case isUint(rv):
		return new(inf.Dec).SetString(strconv.FormatUint(rv.Uint(), 10))
	}
	return nil, false
}

func isInt(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUint(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

func isNumber(v reflect.Value) bool {
	return isInt(v) || isUint(v) || v.Kind() == reflect.Float32 || v.Kind() == reflect.Float64
}

func toFloat(v reflect.Value) float64 {
	switch {
	case isInt(v):
		return float64(v.Int())
	case isUint(v):
		return float64(v.Uint())
	}
	return v.Float()
}

func compareInt64(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareUint64(a, b uint64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// compareFloat64 orders a and b, NaN is not comparable
func compareFloat64(a, b float64) (int, bool) {
	switch {
	case math.IsNaN(a) || math.IsNaN(b):
		return 0, false
	case a < b:
		return -1, true
	case a > b:
		return 1, true
	}
	return 0, true
}
