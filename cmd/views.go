package cmd

import (
	"context"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/restviews/restviews/config"
	"github.com/restviews/restviews/db"
	"github.com/restviews/restviews/filters"
	"github.com/restviews/restviews/filters/objects"
	"github.com/restviews/restviews/filters/sqlquery"
	"github.com/restviews/restviews/rest"
	inf "gopkg.in/inf.v0"
)

// addTableViews adds a list view per declared view, each one selecting the
// columns of its table
func addTableViews(generator *rest.RouteGenerator, conn *db.Db, raw interface{}) ([]string, error) {
	views, err := config.DecodeViews(raw)
	if err != nil {
		return nil, err
	}

	tables := make([]*sqlquery.Table, 0, len(views))
	for _, view := range views {
		tables = append(tables, &sqlquery.Table{Name: view.Table, Columns: view.Columns})
	}
	registry := sqlquery.NewRegistry(tables...)

	names := make([]string, 0, len(views))
	for i, view := range views {
		schema, err := view.Schema(cfg)
		if err != nil {
			return nil, err
		}

		table := tables[i]
		resolver := sqlquery.NewResolver(table, registry, cfg)
		generator.AddListView(view.Name, schema, rest.NewQuerySource(conn, resolver, selectTable(table), nil))
		names = append(names, view.Name)

		logger.Debug("added view", "view", view.Name, "table", view.Table)
	}
	return names, nil
}

func selectTable(table *sqlquery.Table) func() sq.SelectBuilder {
	columns := []string{table.Name + ".*"}
	if len(table.Columns) > 0 {
		columns = columns[:0]
		for _, column := range table.Columns {
			columns = append(columns, table.Name+"."+column)
		}
	}
	return func() sq.SelectBuilder {
		return sq.Select(columns...).From(table.Name)
	}
}

type author struct {
	Name    string `json:"name"`
	Country string `json:"country"`
}

type book struct {
	ID        int       `json:"id"`
	Title     string    `json:"title"`
	Price     *inf.Dec  `json:"price"`
	Published time.Time `json:"published"`
	Tags      []string  `json:"tags"`
	Author    *author   `json:"author"`
}

var authorFilter = filters.MustSchema("author", &filters.Model{Fields: []filters.Field{
	{Name: "name", Kind: filters.String},
	{Name: "country__in", Kind: filters.StringList},
}})

var bookFilter = filters.MustSchema("books",
	&filters.Model{Fields: []filters.Field{
		{Name: "title__ilike", Kind: filters.String},
		{Name: "price__le", Kind: filters.Decimal},
		{Name: "published__ge", Kind: filters.Time},
		{Name: "author", Kind: filters.Nested, Schema: authorFilter},
	}},
	&filters.Pagination{},
	&filters.Ordering{Fields: []string{"title", "price", "published"}},
	&filters.Search{Fields: []string{"title", "author__name"}},
	&filters.Projection{},
)

var bookFeed = filters.MustSchema("book_feed",
	&filters.TokenPagination{DefaultPageSize: 2},
	&filters.Ordering{Fields: []string{"published"}},
)

func demoBooks() []book {
	price := func(s string) *inf.Dec {
		d, _ := new(inf.Dec).SetString(s)
		return d
	}
	le := &author{Name: "Ursula K. Le Guin", Country: "US"}
	lem := &author{Name: "Stanislaw Lem", Country: "PL"}
	return []book{
		{ID: 1, Title: "The Dispossessed", Price: price("12.50"), Published: date(1974, 5), Tags: []string{"utopia"}, Author: le},
		{ID: 2, Title: "Solaris", Price: price("9.99"), Published: date(1961, 6), Tags: []string{"contact"}, Author: lem},
		{ID: 3, Title: "The Left Hand of Darkness", Price: price("11.00"), Published: date(1969, 3), Author: le},
		{ID: 4, Title: "The Cyberiad", Price: price("14.25"), Published: date(1965, 1), Tags: []string{"robots"}, Author: lem},
		{ID: 5, Title: "Anonymous Stories", Price: price("5.00"), Published: date(1990, 9)},
	}
}

func date(year int, month time.Month) time.Time {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
}

// addDemoViews adds list views over an in-memory book collection
func addDemoViews(generator *rest.RouteGenerator) []string {
	books := demoBooks()
	source := rest.NewObjectSource(objects.NewResolver[book](cfg), func(context.Context) ([]book, error) {
		return books, nil
	})

	generator.
		AddListView("books", bookFilter, source).
		AddListView("book-feed", bookFeed, source)
	return []string{"books", "book-feed"}
}
