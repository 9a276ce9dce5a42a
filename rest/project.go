package rest

import (
	"github.com/restviews/restviews/filters/objects"
)

// Project keeps the requested fields of every item, items are returned
// unchanged when fields is empty. Missing fields are rendered as null.
func Project(items []interface{}, fields []string, get objects.Getter) []interface{} {
	if len(fields) == 0 {
		return items
	}

	projected := make([]interface{}, 0, len(items))
	for _, item := range items {
		values := make(map[string]interface{}, len(fields))
		for _, field := range fields {
			values[field] = get(item, field)
		}
		projected = append(projected, values)
	}
	return projected
}
