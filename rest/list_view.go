package rest

import (
	"net/http"

	"github.com/restviews/restviews/config"
	"github.com/restviews/restviews/filters"
	"github.com/restviews/restviews/filters/objects"
	"github.com/restviews/restviews/log"
	"github.com/restviews/restviews/types"
)

// ListView serves a filtered collection. The response is a types.NumberedPage
// or a types.TokenPage depending on the pagination of the schema, a plain
// array when the schema is not paginated.
type ListView struct {
	schema *filters.Schema
	source Source
	getter objects.Getter
	logger log.Logger
}

func NewListView(schema *filters.Schema, source Source, cfg config.Config) *ListView {
	return &ListView{
		schema: schema,
		source: source,
		getter: objects.AttrGetter(cfg.Naming()),
		logger: cfg.Logger(),
	}
}

func (v *ListView) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f, err := v.schema.Bind(r.URL.Query())
	if err != nil {
		RespondWithError(w, r, err, v.logger)
		return
	}

	page, err := v.source.Page(r.Context(), f)
	if err != nil {
		RespondWithError(w, r, err, v.logger)
		return
	}

	items := Project(page.Items, f.Fields(), v.getter)
	switch {
	case f.IsPaginated():
		RespondJSONObjectWithCode(w, http.StatusOK, types.NumberedPage{
			Items:       items,
			CurrentPage: f.Page(),
			PageSize:    f.PageSize(),
			TotalPages:  totalPages(page.Total, f.PageSize()),
			TotalItems:  page.Total,
		})
	case f.IsTokenPaginated():
		RespondJSONObjectWithCode(w, http.StatusOK, types.TokenPage{
			Items:        items,
			NextPage:     optional(page.Next),
			PreviousPage: optional(page.Previous),
		})
	default:
		RespondJSONObjectWithCode(w, http.StatusOK, items)
	}
}

func totalPages(total, size int) int {
	if size <= 0 {
		return 0
	}
	return (total + size - 1) / size
}

func optional(token string) *string {
	if token == "" {
		return nil
	}
	return &token
}
