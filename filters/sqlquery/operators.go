package sqlquery

import (
	"fmt"
	"reflect"

	sq "github.com/Masterminds/squirrel"
	"github.com/restviews/restviews/filters"
	"github.com/spf13/cast"
	inf "gopkg.in/inf.v0"
)

// Expression builds the predicate of an operator for a qualified column
type Expression func(column string, value interface{}) (sq.Sqlizer, error)

func defaultOperators() map[filters.Operator]Expression {
	return map[filters.Operator]Expression{
		filters.OpEq: func(column string, value interface{}) (sq.Sqlizer, error) {
			return sq.Eq{column: value}, nil
		},
		filters.OpNe: func(column string, value interface{}) (sq.Sqlizer, error) {
			return sq.NotEq{column: value}, nil
		},
		filters.OpLt: func(column string, value interface{}) (sq.Sqlizer, error) {
			return sq.Lt{column: value}, nil
		},
		filters.OpLe: func(column string, value interface{}) (sq.Sqlizer, error) {
			return sq.LtOrEq{column: value}, nil
		},
		filters.OpGt: func(column string, value interface{}) (sq.Sqlizer, error) {
			return sq.Gt{column: value}, nil
		},
		filters.OpGe: func(column string, value interface{}) (sq.Sqlizer, error) {
			return sq.GtOrEq{column: value}, nil
		},
		filters.OpIn: func(column string, value interface{}) (sq.Sqlizer, error) {
			if !isList(value) {
				return nil, fmt.Errorf("in operator on %s requires a list", column)
			}
			return sq.Eq{column: value}, nil
		},
		filters.OpNotIn: func(column string, value interface{}) (sq.Sqlizer, error) {
			if !isList(value) {
				return nil, fmt.Errorf("not_in operator on %s requires a list", column)
			}
			return sq.NotEq{column: value}, nil
		},
		filters.OpIsNull: func(column string, value interface{}) (sq.Sqlizer, error) {
			isNull, err := cast.ToBoolE(value)
			if err != nil {
				return nil, fmt.Errorf("is_null operator on %s requires a boolean", column)
			}
			if isNull {
				return sq.Eq{column: nil}, nil
			}
			return sq.NotEq{column: nil}, nil
		},
		filters.OpLike: func(column string, value interface{}) (sq.Sqlizer, error) {
			return sq.Like{column: fmt.Sprintf("%%%v%%", value)}, nil
		},
		filters.OpILike: func(column string, value interface{}) (sq.Sqlizer, error) {
			return sq.ILike{column: fmt.Sprintf("%%%v%%", value)}, nil
		},
	}
}

func isList(value interface{}) bool {
	kind := reflect.ValueOf(value).Kind()
	return kind == reflect.Slice || kind == reflect.Array
}

// sqlValue converts values the database driver can not bind
func sqlValue(value interface{}) interface{} {
	switch v := value.(type) {
	case *inf.Dec:
		if v == nil {
			return nil
		}
		return v.String()
	}
	return value
}
