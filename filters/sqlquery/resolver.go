package sqlquery

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/restviews/restviews/config"
	"github.com/restviews/restviews/filters"
	"github.com/restviews/restviews/log"
)

// Resolver translates filters into squirrel expressions on a select builder.
//
// A prefixed field "owner__name" is resolved against the relation joined
// under the alias "owner" when the caller provides it, otherwise against the
// registry table named "owner". The Relations value of the RootRelation key
// replaces the root model. Relation values may be a *Table or a table name.
type Resolver struct {
	model     *Table
	registry  *Registry
	naming    config.NamingConvention
	operators map[filters.Operator]Expression
	logger    log.Logger
}

var _ filters.Resolver[sq.SelectBuilder] = &Resolver{}

func NewResolver(model *Table, registry *Registry, cfg config.Config) *Resolver {
	if registry == nil {
		registry = NewRegistry(model)
	}
	return &Resolver{
		model:     model,
		registry:  registry,
		naming:    cfg.Naming(),
		operators: defaultOperators(),
		logger:    cfg.Logger(),
	}
}

// WithOperator adds or replaces the expression of an operator
func (r *Resolver) WithOperator(op filters.Operator, expr Expression) *Resolver {
	r.operators[op] = expr
	return r
}

func (r *Resolver) Registry() *Registry {
	return r.registry
}

// Resolve translates a filter or logical operation into a predicate.
func (r *Resolver) Resolve(op filters.Operation, relations filters.Relations) (sq.Sqlizer, error) {
	switch o := op.(type) {
	case *filters.FilterOperation:
		expr, ok := r.operators[o.Operator]
		if !ok {
			return nil, &filters.UnknownOperatorError{Field: o.Field, Operator: o.Operator}
		}
		column, err := r.resolveField(o.Field, relations)
		if err != nil {
			return nil, err
		}
		return expr(column, sqlValue(o.Values))
	case *filters.LogicalOperation:
		parts := make([]sq.Sqlizer, 0, len(o.Values))
		for _, child := range o.Values {
			part, err := r.Resolve(child, relations)
			if err != nil {
				return nil, err
			}
			parts = append(parts, part)
		}
		switch o.Operator {
		case filters.And:
			return sq.And(parts), nil
		case filters.Or:
			return sq.Or(parts), nil
		}
		return nil, fmt.Errorf("unknown logical operator '%s'", o.Operator)
	}
	return nil, fmt.Errorf("operation %T can not be resolved to an expression", op)
}

// ResolveSort returns the ORDER BY clause of a sort operation.
func (r *Resolver) ResolveSort(op *filters.SortOperation, relations filters.Relations) (string, error) {
	column, err := r.resolveField(op.Field, relations)
	if err != nil {
		return "", err
	}
	if op.Descending {
		return column + " DESC", nil
	}
	return column, nil
}

// GetFilters resolves every filter operation of f.
func (r *Resolver) GetFilters(f *filters.Filter, relations filters.Relations) ([]sq.Sqlizer, error) {
	ops := f.Filters()
	exprs := make([]sq.Sqlizer, 0, len(ops))
	for _, op := range ops {
		expr, err := r.Resolve(op, relations)
		if err != nil {
			return nil, err
		}
		exprs = append(exprs, expr)
	}
	return exprs, nil
}

// GetOrderBy resolves the sort operations of f, followed by extra clauses,
// typically a unique column to make pagination deterministic.
func (r *Resolver) GetOrderBy(f *filters.Filter, relations filters.Relations, extra ...string) ([]string, error) {
	ops := f.OrderBy()
	clauses := make([]string, 0, len(ops)+len(extra))
	for _, op := range ops {
		clause, err := r.ResolveSort(op, relations)
		if err != nil {
			return nil, err
		}
		clauses = append(clauses, clause)
	}
	return append(clauses, extra...), nil
}

// ApplyFilter adds the WHERE, ORDER BY, OFFSET and LIMIT clauses of f to builder.
// Page token pagination is not supported.
func (r *Resolver) ApplyFilter(
	f *filters.Filter,
	builder sq.SelectBuilder,
	exclude filters.Stages,
	relations filters.Relations,
) (sq.SelectBuilder, error) {
	if !exclude.Has(filters.StageFilter) {
		exprs, err := r.GetFilters(f, relations)
		if err != nil {
			return builder, err
		}
		for _, expr := range exprs {
			builder = builder.Where(expr)
		}
	}

	if !exclude.Has(filters.StageSort) && f.IsOrdered() {
		clauses, err := r.GetOrderBy(f, relations)
		if err != nil {
			return builder, err
		}
		if len(clauses) > 0 {
			builder = builder.OrderBy(clauses...)
		}
	}

	if !exclude.Has(filters.StagePaginate) {
		switch {
		case f.IsTokenPaginated():
			return builder, fmt.Errorf("page token pagination of %s: %w", f.Schema().Name(), filters.ErrNotImplemented)
		case f.IsPaginated():
			builder = builder.Offset(uint64(f.Offset())).Limit(uint64(f.Limit()))
		}
	}

	r.logger.Debug("applied filter", "schema", f.Schema().Name(), "table", r.root(relations).Name)
	return builder, nil
}

func (r *Resolver) root(relations filters.Relations) *Table {
	if handle, ok := relations[filters.RootRelation]; ok {
		if table, ok := toTable(handle); ok {
			return table
		}
	}
	return r.model
}

func (r *Resolver) resolveField(field string, relations filters.Relations) (string, error) {
	i := strings.Index(field, filters.PrefixSeparator)
	if i < 0 {
		return r.root(relations).Column(r.naming.ToColumn(field))
	}

	prefix, name := field[:i], field[i+len(filters.PrefixSeparator):]
	if strings.Contains(name, filters.PrefixSeparator) {
		return "", &filters.UnresolvedFieldError{Field: field, Reason: "only one relation level can be resolved"}
	}

	table, err := r.relation(prefix, relations)
	if err != nil {
		return "", &filters.UnresolvedFieldError{Field: field, Reason: err.Error()}
	}
	return table.Column(r.naming.ToColumn(name))
}

func (r *Resolver) relation(prefix string, relations filters.Relations) (*Table, error) {
	if handle, ok := relations[prefix]; ok {
		if table, ok := toTable(handle); ok {
			return table, nil
		}
		return nil, fmt.Errorf("unsupported relation handle %T for '%s'", handle, prefix)
	}
	if table, ok := r.registry.Lookup(prefix); ok {
		return table, nil
	}
	return nil, fmt.Errorf("no relation or table named '%s'", prefix)
}

func toTable(handle interface{}) (*Table, bool) {
	switch h := handle.(type) {
	case *Table:
		return h, h != nil
	case Table:
		return &h, true
	case string:
		return &Table{Name: h}, h != ""
	}
	return nil, false
}
