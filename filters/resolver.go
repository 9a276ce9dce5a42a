package filters

import (
	"errors"
	"fmt"
)

// RootRelation is the Relations key that overrides the root model of a resolver
const RootRelation = ""

// Relations maps aliases of already joined relations to backend handles, it
// is supplied by the caller for a single ApplyFilter call.
type Relations map[string]interface{}

// Resolver applies the operations of a Filter to a backend specific queryset.
// Resolvers are stateless between calls and safe for concurrent use.
type Resolver[Q any] interface {
	// ApplyFilter filters, sorts and paginates queryset, skipping the excluded stages.
	ApplyFilter(f *Filter, queryset Q, exclude Stages, relations Relations) (Q, error)
}

// ErrNotImplemented is returned for a capability a resolver does not support.
var ErrNotImplemented = errors.New("not implemented")

// UnknownOperatorError is returned by resolvers for operators missing from their operator table.
type UnknownOperatorError struct {
	Field    string
	Operator Operator
}

func (e *UnknownOperatorError) Error() string {
	return fmt.Sprintf("unknown operator '%s' for field '%s'", e.Operator, e.Field)
}

// UnresolvedFieldError is returned when a field or relation prefix cannot be
// located in the backend.
type UnresolvedFieldError struct {
	Field  string
	Reason string
}

func (e *UnresolvedFieldError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("could not resolve field '%s'", e.Field)
	}
	return fmt.Sprintf("could not resolve field '%s': %s", e.Field, e.Reason)
}
