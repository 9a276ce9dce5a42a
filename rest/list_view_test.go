package rest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
	"github.com/restviews/restviews/config"
	"github.com/restviews/restviews/filters"
	"github.com/restviews/restviews/filters/objects"
	"github.com/restviews/restviews/internal/testutil"
	resttest "github.com/restviews/restviews/internal/testutil/rest"
	e "github.com/restviews/restviews/rest/errors"
	"github.com/restviews/restviews/types"
)

func userNames(items []interface{}) []string {
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.(map[string]interface{})["name"].(string))
	}
	return names
}

func usersSource(cfg config.Config) Source {
	return NewObjectSource(objects.NewResolver[testutil.User](cfg), func(context.Context) ([]testutil.User, error) {
		return testutil.Users(), nil
	})
}

var _ = Describe("ListView", func() {
	var (
		cfg    *config.ConfigMock
		routes []types.Route
	)

	ownerSchema := filters.MustSchema("owner", &filters.Model{Fields: []filters.Field{
		{Name: "name__in", Kind: filters.StringList},
	}})

	usersSchema := filters.MustSchema("users",
		&filters.Model{Fields: []filters.Field{
			{Name: "name", Kind: filters.String},
			{Name: "age__ge", Kind: filters.Int},
			{Name: "owner", Kind: filters.Nested, Schema: ownerSchema},
		}},
		&filters.Pagination{},
		&filters.Ordering{Fields: []string{"name", "age", "created_at"}},
		&filters.Search{Fields: []string{"name", "email"}},
		&filters.Projection{Allowed: []string{"id", "name", "age"}},
	)

	tokenSchema := filters.MustSchema("users",
		&filters.TokenPagination{DefaultPageSize: 2},
		&filters.Ordering{Fields: []string{"name"}},
	)

	plainSchema := filters.MustSchema("users", &filters.Model{Fields: []filters.Field{
		{Name: "age__lt", Kind: filters.Int},
	}})

	BeforeEach(func() {
		cfg = config.NewConfigMock().Default()
		routes = NewRouteGenerator(cfg).
			AddListView("users", usersSchema, usersSource(cfg)).
			AddListView("tokens", tokenSchema, usersSource(cfg)).
			AddListView("plain", plainSchema, usersSource(cfg)).
			Routes(resttest.Prefix)
	})

	Describe("page number pagination", func() {
		It("Should sort by every sort value", func() {
			var page types.NumberedPage
			code := resttest.ExecuteGet(routes, "/users", url.Values{"sort": {"name,-age"}}, &page)
			Expect(code).To(Equal(http.StatusOK))
			Expect(userNames(page.Items)).To(Equal([]string{"Alice", "Jane", "John"}))
			Expect(page.CurrentPage).To(Equal(1))
			Expect(page.PageSize).To(Equal(filters.DefaultPageSize))
			Expect(page.TotalItems).To(Equal(3))
			Expect(page.TotalPages).To(Equal(1))
		})

		It("Should return the requested page", func() {
			var page types.NumberedPage
			code := resttest.ExecuteGet(routes, "/users",
				url.Values{"page": {"2"}, "page_size": {"1"}, "sort": {"age"}}, &page)
			Expect(code).To(Equal(http.StatusOK))
			Expect(userNames(page.Items)).To(Equal([]string{"Jane"}))
			Expect(page.CurrentPage).To(Equal(2))
			Expect(page.TotalPages).To(Equal(3))
			Expect(page.TotalItems).To(Equal(3))
		})

		It("Should count the filtered items only", func() {
			var page types.NumberedPage
			code := resttest.ExecuteGet(routes, "/users",
				url.Values{"age__ge": {"30"}, "sort": {"-age"}}, &page)
			Expect(code).To(Equal(http.StatusOK))
			Expect(userNames(page.Items)).To(Equal([]string{"Alice", "Jane"}))
			Expect(page.TotalItems).To(Equal(2))
		})

		It("Should search and filter nested fields", func() {
			var page types.NumberedPage
			resttest.ExecuteGet(routes, "/users", url.Values{"q": {"JO"}}, &page)
			Expect(userNames(page.Items)).To(Equal([]string{"John"}))

			resttest.ExecuteGet(routes, "/users", url.Values{"owner__name__in": {"globex,initech"}}, &page)
			Expect(userNames(page.Items)).To(Equal([]string{"Jane"}))
		})

		It("Should project the requested fields", func() {
			var page types.NumberedPage
			code := resttest.ExecuteGet(routes, "/users",
				url.Values{"fields": {"name,age"}, "name": {"Jane"}}, &page)
			Expect(code).To(Equal(http.StatusOK))
			Expect(page.Items).To(HaveLen(1))
			Expect(page.Items[0]).To(Equal(map[string]interface{}{"name": "Jane", "age": float64(30)}))
		})
	})

	Describe("page token pagination", func() {
		It("Should link the pages with tokens", func() {
			var page types.TokenPage
			code := resttest.ExecuteGet(routes, "/tokens", url.Values{"sort": {"name"}}, &page)
			Expect(code).To(Equal(http.StatusOK))
			Expect(userNames(page.Items)).To(Equal([]string{"Alice", "Jane"}))
			Expect(page.PreviousPage).To(BeNil())
			Expect(page.NextPage).NotTo(BeNil())

			var next types.TokenPage
			resttest.ExecuteGet(routes, "/tokens", url.Values{"sort": {"name"}, "page_token": {*page.NextPage}}, &next)
			Expect(userNames(next.Items)).To(Equal([]string{"John"}))
			Expect(next.NextPage).To(BeNil())
			Expect(next.PreviousPage).NotTo(BeNil())
			Expect(filters.DecodeCursor(*next.PreviousPage)).To(Equal("0"))
		})

		It("Should reject an invalid page token", func() {
			var details e.ErrorDetails
			code := resttest.ExecuteGet(routes, "/tokens",
				url.Values{"page_token": {filters.EncodeCursor("first")}}, &details)
			Expect(code).To(Equal(http.StatusBadRequest))
			Expect(details.Errors).To(HaveLen(1))
		})
	})

	Describe("without pagination", func() {
		It("Should return a plain list", func() {
			var items []interface{}
			code := resttest.ExecuteGet(routes, "/plain", url.Values{"age__lt": {"35"}}, &items)
			Expect(code).To(Equal(http.StatusOK))
			Expect(userNames(items)).To(Equal([]string{"John", "Jane"}))
		})
	})

	Describe("validation", func() {
		It("Should answer with problem details", func() {
			var details e.ErrorDetails
			code := resttest.ExecuteGet(routes, "/users", url.Values{"sort": {"unknown"}}, &details)
			Expect(code).To(Equal(http.StatusBadRequest))
			Expect(details.Status).To(Equal(http.StatusBadRequest))
			Expect(details.Title).To(Equal("Bad Request"))
			Expect(details.Detail).To(Equal("Validation error"))
			Expect(details.Instance).To(Equal("/api/users"))
			Expect(details.Errors).To(HaveLen(1))
			Expect(details.Errors[0]).To(HaveKeyWithValue("message",
				"Unknown sort value 'unknown'. Allowed values: name, age, created_at"))
		})

		It("Should reject a page size over the maximum", func() {
			var details e.ErrorDetails
			code := resttest.ExecuteGet(routes, "/users", url.Values{"page_size": {"501"}}, &details)
			Expect(code).To(Equal(http.StatusBadRequest))
			Expect(details.Errors[0]).To(HaveKeyWithValue("field", "page_size"))
		})

		It("Should reject fields that cannot be projected", func() {
			var details e.ErrorDetails
			code := resttest.ExecuteGet(routes, "/users", url.Values{"fields": {"email"}}, &details)
			Expect(code).To(Equal(http.StatusBadRequest))
			Expect(details.Errors[0]).To(HaveKeyWithValue("message", "Unknown field 'email'"))
		})
	})

	Describe("maximum page size below the default page size", func() {
		var smallRoutes []types.Route

		BeforeEach(func() {
			smallRoutes = NewRouteGenerator(cfg).
				AddListView("users", filters.MustSchema("users",
					&filters.Pagination{MaxPageSize: 2},
					&filters.Ordering{Fields: []string{"name"}},
				), usersSource(cfg)).
				AddListView("tokens", filters.MustSchema("users",
					&filters.TokenPagination{MaxPageSize: 2},
				), usersSource(cfg)).
				Routes(resttest.Prefix)
		})

		It("Should accept requests without page size", func() {
			var page types.NumberedPage
			code := resttest.ExecuteGet(smallRoutes, "/users", nil, &page)
			Expect(code).To(Equal(http.StatusOK))
			Expect(page.PageSize).To(Equal(filters.DefaultPageSize))
			Expect(page.TotalItems).To(Equal(3))

			code = resttest.ExecuteGet(smallRoutes, "/users", url.Values{"page": {"2"}, "sort": {"name"}}, &page)
			Expect(code).To(Equal(http.StatusOK))

			var tokenPage types.TokenPage
			code = resttest.ExecuteGet(smallRoutes, "/tokens", nil, &tokenPage)
			Expect(code).To(Equal(http.StatusOK))
			Expect(tokenPage.Items).To(HaveLen(3))
		})

		It("Should reject a requested page size over the maximum", func() {
			var details e.ErrorDetails
			code := resttest.ExecuteGet(smallRoutes, "/users", url.Values{"page_size": {"3"}}, &details)
			Expect(code).To(Equal(http.StatusBadRequest))
			Expect(details.Detail).To(Equal("Validation error"))
			Expect(details.Errors).To(HaveLen(1))
			Expect(details.Errors[0]).To(HaveKeyWithValue("field", "page_size"))

			code = resttest.ExecuteGet(smallRoutes, "/users", url.Values{"page_size": {"2"}}, nil)
			Expect(code).To(Equal(http.StatusOK))

			code = resttest.ExecuteGet(smallRoutes, "/tokens", url.Values{"page_size": {"3"}}, &details)
			Expect(code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("source errors", func() {
		It("Should hide unexpected errors", func() {
			failing := NewObjectSource(objects.NewResolver[testutil.User](cfg), func(context.Context) ([]testutil.User, error) {
				return nil, errors.New("connection reset")
			})
			failingRoutes := NewRouteGenerator(cfg).AddListView("users", usersSchema, failing).Routes(resttest.Prefix)

			var details e.ErrorDetails
			code := resttest.ExecuteGet(failingRoutes, "/users", nil, &details)
			Expect(code).To(Equal(http.StatusInternalServerError))
			Expect(details.Detail).To(Equal("Unhandled server error"))
		})
	})

	Describe("router", func() {
		It("Should answer unknown routes with problem details", func() {
			router := ApiRouter(routes, testutil.TestLogger())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/unknown", nil))
			Expect(w.Code).To(Equal(http.StatusNotFound))
			Expect(w.Header().Get("Content-Type")).To(Equal("application/json; charset=UTF-8"))
			Expect(w.Body.String()).To(ContainSubstring(`"status":404`))
		})

		It("Should answer unsupported methods with problem details", func() {
			router := ApiRouter(routes, testutil.TestLogger())
			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/users", nil))
			Expect(w.Code).To(Equal(http.StatusMethodNotAllowed))
		})

		It("Should set the correlation id", func() {
			handler := NewCorrelationHandler(ApiRouter(routes, testutil.TestLogger()))
			w := httptest.NewRecorder()
			r := httptest.NewRequest(http.MethodGet, "/api/users?sort=unknown", nil)
			r.Header.Set(CorrelationHeader, "3b241101-e2bb-4255-8caf-4136c566a962")
			handler.ServeHTTP(w, r)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Header().Get(CorrelationHeader)).To(Equal("3b241101-e2bb-4255-8caf-4136c566a962"))
			Expect(w.Body.String()).To(ContainSubstring(`"correlation_id":"3b241101-e2bb-4255-8caf-4136c566a962"`))
		})
	})
})
