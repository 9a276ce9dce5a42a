package objects

import (
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/restviews/restviews/config"
	"github.com/restviews/restviews/filters"
	"github.com/restviews/restviews/log"
)

// Predicate is a compiled filter operation
type Predicate func(item interface{}) bool

// Resolver applies filters to in-memory slices. Relations are ignored: nested
// fields are read directly through the getter.
type Resolver[T any] struct {
	getter    Getter
	operators map[filters.Operator]Comparator
	logger    log.Logger
}

var _ filters.Resolver[[]int] = &Resolver[int]{}

func NewResolver[T any](cfg config.Config) *Resolver[T] {
	return &Resolver[T]{
		getter:    AttrGetter(cfg.Naming()),
		operators: defaultOperators(),
		logger:    cfg.Logger(),
	}
}

func (r *Resolver[T]) WithGetter(getter Getter) *Resolver[T] {
	r.getter = getter
	return r
}

func (r *Resolver[T]) WithLogger(logger log.Logger) *Resolver[T] {
	r.logger = logger
	return r
}

// WithOperator adds or replaces the comparator of an operator
func (r *Resolver[T]) WithOperator(op filters.Operator, cmp Comparator) *Resolver[T] {
	r.operators[op] = cmp
	return r
}

// Resolve compiles a filter or logical operation into a predicate.
func (r *Resolver[T]) Resolve(op filters.Operation) (Predicate, error) {
	switch o := op.(type) {
	case *filters.FilterOperation:
		cmp, ok := r.operators[o.Operator]
		if !ok {
			return nil, &filters.UnknownOperatorError{Field: o.Field, Operator: o.Operator}
		}
		field, arg := o.Field, o.Values
		return func(item interface{}) bool {
			return cmp(r.getter(item, field), arg)
		}, nil
	case *filters.LogicalOperation:
		predicates := make([]Predicate, 0, len(o.Values))
		for _, child := range o.Values {
			p, err := r.Resolve(child)
			if err != nil {
				return nil, err
			}
			predicates = append(predicates, p)
		}
		switch o.Operator {
		case filters.And:
			return allOf(predicates), nil
		case filters.Or:
			return anyOf(predicates), nil
		}
		return nil, fmt.Errorf("unknown logical operator '%s'", o.Operator)
	}
	return nil, fmt.Errorf("operation %T can not be resolved to a predicate", op)
}

// ResolveSort returns the less function of a sort operation. Descending keys
// keep equal items in their current order.
func (r *Resolver[T]) ResolveSort(op *filters.SortOperation) func(a, b interface{}) bool {
	field, desc := op.Field, op.Descending
	return func(a, b interface{}) bool {
		c, ok := compare(r.getter(a, field), r.getter(b, field))
		if !ok {
			return false
		}
		if desc {
			return c > 0
		}
		return c < 0
	}
}

// ApplyFilter filters, sorts and paginates items into a new slice, items is
// never modified. Sort keys are applied one after another with a stable sort,
// so the last key of the sort parameter has the highest precedence.
func (r *Resolver[T]) ApplyFilter(
	f *filters.Filter, items []T, exclude filters.Stages, _ filters.Relations) ([]T, error) {
	result := make([]T, 0, len(items))

	if exclude.Has(filters.StageFilter) {
		result = append(result, items...)
	} else {
		ops := f.Filters()
		predicates := make([]Predicate, 0, len(ops))
		for _, op := range ops {
			p, err := r.Resolve(op)
			if err != nil {
				return nil, err
			}
			predicates = append(predicates, p)
		}
		match := allOf(predicates)
		for _, item := range items {
			if match(item) {
				result = append(result, item)
			}
		}
		r.logger.Debug("filtered items", "schema", f.Schema().Name(), "operations", len(ops),
			"total", len(items), "matched", len(result))
	}

	if !exclude.Has(filters.StageSort) && f.IsOrdered() {
		for _, op := range f.OrderBy() {
			less := r.ResolveSort(op)
			sort.SliceStable(result, func(i, j int) bool {
				return less(result[i], result[j])
			})
		}
	}

	if exclude.Has(filters.StagePaginate) {
		return result, nil
	}

	switch {
	case f.IsPaginated():
		return window(result, f.Offset(), f.Limit()), nil
	case f.IsTokenPaginated():
		offset, err := TokenOffset(f)
		if err != nil {
			return nil, err
		}
		return window(result, offset, f.PageSize()), nil
	}
	return result, nil
}

// TokenOffset reads the offset carried by the page token, 0 without token.
// The offset of the following page must fit in an int.
func TokenOffset(f *filters.Filter) (int, error) {
	token, ok := f.PageToken()
	if !ok || token == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(token)
	if err != nil || offset < 0 || offset > math.MaxInt-f.PageSize() {
		return 0, &filters.ValidationError{Schema: f.Schema().Name(), Errors: []filters.FieldError{{
			Field:   filters.PageTokenField,
			Message: "page_token is not a valid page token",
			Value:   token,
		}}}
	}
	return offset, nil
}

// PageTokens returns the encoded tokens of the pages around the current one,
// empty when there is no such page.
func PageTokens(f *filters.Filter, total int) (next, previous string, err error) {
	offset, err := TokenOffset(f)
	if err != nil {
		return "", "", err
	}
	size := f.PageSize()
	if offset+size < total {
		next = filters.EncodeCursor(strconv.Itoa(offset + size))
	}
	if offset > 0 {
		prev := offset - size
		if prev < 0 {
			prev = 0
		}
		previous = filters.EncodeCursor(strconv.Itoa(prev))
	}
	return next, previous, nil
}

func window[T any](items []T, offset, limit int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func allOf(predicates []Predicate) Predicate {
	return func(item interface{}) bool {
		for _, p := range predicates {
			if !p(item) {
				return false
			}
		}
		return true
	}
}

func anyOf(predicates []Predicate) Predicate {
	return func(item interface{}) bool {
		for _, p := range predicates {
			if p(item) {
				return true
			}
		}
		return false
	}
}
