package rest

import (
	"context"

	sq "github.com/Masterminds/squirrel"
	"github.com/restviews/restviews/db"
	"github.com/restviews/restviews/filters"
	"github.com/restviews/restviews/filters/objects"
	"github.com/restviews/restviews/filters/sqlquery"
)

// Page is one page of a filtered collection. Tokens are only set for page
// token pagination, they are already encoded.
type Page struct {
	Items    []interface{}
	Total    int
	Next     string
	Previous string
}

// Source provides the filtered pages of a list endpoint
type Source interface {
	Page(ctx context.Context, f *filters.Filter) (*Page, error)
}

// ObjectSource serves a collection held in memory
type ObjectSource[T any] struct {
	items    func(ctx context.Context) ([]T, error)
	resolver *objects.Resolver[T]
}

func NewObjectSource[T any](resolver *objects.Resolver[T], items func(ctx context.Context) ([]T, error)) *ObjectSource[T] {
	return &ObjectSource[T]{items: items, resolver: resolver}
}

func (s *ObjectSource[T]) Page(ctx context.Context, f *filters.Filter) (*Page, error) {
	items, err := s.items(ctx)
	if err != nil {
		return nil, err
	}

	filtered, err := s.resolver.ApplyFilter(f, items, filters.StagePaginate, nil)
	if err != nil {
		return nil, err
	}
	page, err := s.resolver.ApplyFilter(f, filtered, filters.StageFilter|filters.StageSort, nil)
	if err != nil {
		return nil, err
	}

	result := &Page{Items: make([]interface{}, 0, len(page)), Total: len(filtered)}
	for _, item := range page {
		result.Items = append(result.Items, item)
	}

	if f.IsTokenPaginated() {
		result.Next, result.Previous, err = objects.PageTokens(f, result.Total)
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// QuerySource serves the rows of a select query
type QuerySource struct {
	db        *db.Db
	resolver  *sqlquery.Resolver
	query     func() sq.SelectBuilder
	relations filters.Relations
}

// NewQuerySource creates a source for the rows of query, relations are passed
// to the resolver and must match the joins of query
func NewQuerySource(
	db *db.Db,
	resolver *sqlquery.Resolver,
	query func() sq.SelectBuilder,
	relations filters.Relations,
) *QuerySource {
	return &QuerySource{
		db:        db,
		resolver:  resolver,
		query:     query,
		relations: relations,
	}
}

func (s *QuerySource) Page(ctx context.Context, f *filters.Filter) (*Page, error) {
	builder, err := s.resolver.ApplyFilter(f, s.query(), filters.NoStages, s.relations)
	if err != nil {
		return nil, err
	}
	rows, err := s.db.Rows(ctx, builder)
	if err != nil {
		return nil, err
	}

	result := &Page{Items: make([]interface{}, 0, len(rows.Values()))}
	for _, row := range rows.Values() {
		result.Items = append(result.Items, row)
	}

	if !f.IsPaginated() {
		result.Total = len(result.Items)
		return result, nil
	}

	countBuilder, err := s.resolver.ApplyFilter(f, s.query(), filters.StageSort|filters.StagePaginate, s.relations)
	if err != nil {
		return nil, err
	}
	if result.Total, err = s.db.Count(ctx, countBuilder); err != nil {
		return nil, err
	}
	return result, nil
}
