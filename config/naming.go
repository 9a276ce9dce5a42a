package config

import "github.com/iancoleman/strcase"

// NamingConvention converts between filter field names and the names used by
// Go values and database columns.
type NamingConvention interface {
	ToGoField(name string) string
	ToColumn(name string) string
	ToParam(name string) string
}

type defaultNaming struct {
}

func NewDefaultNaming() *defaultNaming {
	return &defaultNaming{}
}

func (n *defaultNaming) ToGoField(name string) string {
	return strcase.ToCamel(name)
}

func (n *defaultNaming) ToColumn(name string) string {
	return strcase.ToSnake(name)
}

func (n *defaultNaming) ToParam(name string) string {
	return strcase.ToSnake(name)
}
