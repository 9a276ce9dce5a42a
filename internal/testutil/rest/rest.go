package rest

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path"
	"reflect"
	"regexp"
	"strings"

	"github.com/julienschmidt/httprouter"
	. "github.com/onsi/gomega"
	e "github.com/restviews/restviews/rest/errors"
	"github.com/restviews/restviews/types"
)

const Prefix = "/api"

// ExecuteGet requests the route matching routeFormat with the query parameters
// and decodes the response into responsePtr
func ExecuteGet(
	routes []types.Route,
	routeFormat string,
	query url.Values,
	responsePtr interface{},
	values ...interface{},
) int {
	return execute(http.MethodGet, routes, routeFormat, query, responsePtr, values...)
}

func execute(
	method string,
	routes []types.Route,
	routeFormat string,
	query url.Values,
	responsePtr interface{},
	values ...interface{},
) int {
	rv := reflect.ValueOf(responsePtr)
	if responsePtr != nil && rv.Kind() != reflect.Ptr {
		panic("Provided value should be a pointer or nil")
	}

	targetPath := path.Join(Prefix, fmt.Sprintf(routeFormat, values...))
	if len(query) > 0 {
		targetPath += "?" + query.Encode()
	}

	r, _ := http.NewRequest(method, targetPath, nil)
	w := httptest.NewRecorder()
	route := lookupRoute(routes, method, routeFormat)

	// Use default router for params to be populated
	router := httprouter.New()
	router.Handler(method, route.Pattern, route.Handler)
	router.ServeHTTP(w, r)

	if w.Code < http.StatusOK || w.Code > http.StatusIMUsed {
		// Not in the 2xx range
		if responsePtr == nil {
			return w.Code
		}
		_, ok := responsePtr.(*e.ErrorDetails)
		if !ok {
			panic(fmt.Sprintf("unexpected http error %d: %s", w.Code, w.Body))
		}
	}

	if w.Code != http.StatusNoContent && responsePtr != nil {
		bodyString := w.Body.String()
		err := json.NewDecoder(bytes.NewBufferString(bodyString)).Decode(responsePtr)
		Expect(err).ToNot(HaveOccurred(),
			fmt.Sprintf("Error decoding response with code %d and body: %s", w.Code, bodyString))
	}

	return w.Code
}

func lookupRoute(routes []types.Route, method, format string) types.Route {
	// Word tokens for parameters
	regexStr := strings.Replace(format, `%s`, `[\w:{}]+`, -1)
	// End of the string
	regexStr += `$`

	re := regexp.MustCompile(regexStr)
	for _, route := range routes {
		if re.MatchString(route.Pattern) && route.Method == method {
			return route
		}
	}

	panic("Route not found")
}
