package rest

import (
	"net/http"
	"path"

	"github.com/restviews/restviews/config"
	"github.com/restviews/restviews/filters"
	"github.com/restviews/restviews/types"
)

type RouteGenerator struct {
	config config.Config
	views  []namedView
}

type namedView struct {
	name string
	view *ListView
}

func NewRouteGenerator(cfg config.Config) *RouteGenerator {
	return &RouteGenerator{config: cfg}
}

// AddListView registers a list endpoint served under "{prefix}/{name}"
func (g *RouteGenerator) AddListView(name string, schema *filters.Schema, source Source) *RouteGenerator {
	g.views = append(g.views, namedView{name: name, view: NewListView(schema, source, g.config)})
	return g
}

func (g *RouteGenerator) Routes(prefix string) []types.Route {
	routes := make([]types.Route, 0, len(g.views))
	for _, v := range g.views {
		routes = append(routes, types.Route{
			Method:  http.MethodGet,
			Pattern: path.Join("/", prefix, v.name),
			Handler: v.view,
		})
	}
	return routes
}
