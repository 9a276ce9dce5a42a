package rest

import (
	"encoding/json"
	"net/http"

	"github.com/restviews/restviews/log"
	"github.com/restviews/restviews/rest/contextutils"
	e "github.com/restviews/restviews/rest/errors"
)

// RespondJSONObjectWithCode writes the object and status header to the response. Important to note that if this is being
// used for an error case then an empty return will need to immediately follow the call to this function
func RespondJSONObjectWithCode(w http.ResponseWriter, code int, obj interface{}) {
	setCommonHeaders(w)
	var err error
	var jsonBytes []byte
	if obj != nil {
		jsonBytes, err = json.Marshal(obj)
	}
	writeJSONBytes(w, jsonBytes, err, code)
}

func writeJSONBytes(w http.ResponseWriter, jsonBytes []byte, err error, code int) {
	if err != nil {
		details := e.NewErrorDetails(http.StatusInternalServerError, "unable to marshal response")
		jsonBytes, _ = json.Marshal(details)
		code = details.Status
	}

	w.WriteHeader(code)
	if jsonBytes != nil {
		_, _ = w.Write(jsonBytes)
	}
}

// RespondWithError writes the problem details of err. Unexpected errors are
// logged and answered with a generic internal server error.
func RespondWithError(w http.ResponseWriter, r *http.Request, err error, logger log.Logger) {
	details, expected := e.FromError(err)
	if !expected {
		logger.Error("unhandled error", "method", r.Method, "path", r.URL.Path, "error", err)
	}
	if details.Instance == "" {
		details.Instance = r.URL.Path
	}
	details.CorrelationID = contextutils.GetCorrelationID(r.Context())
	RespondJSONObjectWithCode(w, details.Status, details)
}

func setCommonHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json; charset=UTF-8")
}

var (
	errNotFound         = e.NewNotFoundError("the requested resource does not exist")
	errMethodNotAllowed = &e.APIError{Detail: "method not allowed", Status: http.StatusMethodNotAllowed}
	errPanic            = e.NewInternalError("Unhandled server error")
)
