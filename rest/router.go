package rest

import (
	"net/http"

	"github.com/julienschmidt/httprouter"
	"github.com/restviews/restviews/log"
	"github.com/restviews/restviews/types"
)

// ApiRouter gets the router serving routes, unknown paths and methods are
// answered with problem details
func ApiRouter(routes []types.Route, logger log.Logger) *httprouter.Router {
	router := httprouter.New()
	for _, route := range routes {
		router.Handler(route.Method, route.Pattern, route.Handler)
	}
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RespondWithError(w, r, errNotFound, logger)
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		RespondWithError(w, r, errMethodNotAllowed, logger)
	})
	router.PanicHandler = func(w http.ResponseWriter, r *http.Request, v interface{}) {
		logger.Error("panic serving request", "method", r.Method, "path", r.URL.Path, "panic", v)
		RespondWithError(w, r, errPanic, logger)
	}
	return router
}
