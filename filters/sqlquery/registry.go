package sqlquery

import (
	"strings"
	"sync"

	"github.com/restviews/restviews/filters"
	"go.uber.org/atomic"
)

// Table is a relation a resolver can qualify columns with.
type Table struct {
	Name string
	// Columns lists the filterable columns, any column is accepted when empty.
	Columns []string
}

// Column returns the qualified "table.column" name.
func (t *Table) Column(name string) (string, error) {
	if len(t.Columns) > 0 {
		found := false
		for _, column := range t.Columns {
			if column == name {
				found = true
				break
			}
		}
		if !found {
			return "", &filters.UnresolvedFieldError{
				Field:  name,
				Reason: "no such column in table " + t.Name,
			}
		}
	}
	return t.Name + "." + name, nil
}

// Registry holds the tables reachable from a root model. Lookups by table name
// are memoized for the lifetime of the registry.
type Registry struct {
	tables []*Table
	cache  sync.Map
	hits   atomic.Int64
	misses atomic.Int64
}

func NewRegistry(tables ...*Table) *Registry {
	return &Registry{tables: tables}
}

// Lookup finds a table by name, case insensitively.
func (r *Registry) Lookup(name string) (*Table, bool) {
	if table, ok := r.cache.Load(name); ok {
		r.hits.Inc()
		return table.(*Table), true
	}
	r.misses.Inc()

	for _, table := range r.tables {
		if strings.EqualFold(table.Name, name) {
			// every writer stores the same table for a name
			actual, _ := r.cache.LoadOrStore(name, table)
			return actual.(*Table), true
		}
	}
	return nil, false
}

// Stats returns the cache hits and misses since creation.
func (r *Registry) Stats() (hits int64, misses int64) {
	return r.hits.Load(), r.misses.Load()
}
