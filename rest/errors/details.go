package errors

import (
	"errors"
	"net/http"

	"github.com/restviews/restviews/filters"
)

// ErrorDetails is the problem details body of RFC 9457
type ErrorDetails struct {
	Type          string        `json:"type"`
	Title         string        `json:"title"`
	Status        int           `json:"status"`
	Detail        string        `json:"detail"`
	Instance      string        `json:"instance,omitempty"`
	CorrelationID string        `json:"correlation_id,omitempty"`
	Errors        []interface{} `json:"errors,omitempty"`
}

type problemType struct {
	uri   string
	title string
}

var problemTypes = map[int]problemType{
	http.StatusBadRequest:          {"https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.1", "Bad Request"},
	http.StatusUnauthorized:        {"https://datatracker.ietf.org/doc/html/rfc7235#section-3.1", "Unauthorized"},
	http.StatusForbidden:           {"https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.3", "Forbidden"},
	http.StatusNotFound:            {"https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.4", "Not Found"},
	http.StatusConflict:            {"https://datatracker.ietf.org/doc/html/rfc7231#section-6.5.8", "Conflict"},
	http.StatusUnprocessableEntity: {"https://datatracker.ietf.org/doc/html/rfc4918#section-11.2", "Unprocessable Entity"},
	http.StatusTooManyRequests:     {"https://datatracker.ietf.org/doc/html/rfc6585#section-4", "Too many requests"},
	http.StatusInternalServerError: {"https://datatracker.ietf.org/doc/html/rfc7231#section-6.6.1", "Internal Server Error"},
	http.StatusServiceUnavailable:  {"https://datatracker.ietf.org/doc/html/rfc7231#section-6.6.4", "Service Unavailable"},
}

// NewErrorDetails fills the type and title registered for status, "about:blank"
// and the status text otherwise. An empty detail becomes "Internal Server Error".
func NewErrorDetails(status int, detail string) *ErrorDetails {
	if detail == "" {
		detail = "Internal Server Error"
	}
	details := &ErrorDetails{
		Type:   "about:blank",
		Title:  http.StatusText(status),
		Status: status,
		Detail: detail,
	}
	if t, ok := problemTypes[status]; ok {
		details.Type = t.uri
		details.Title = t.title
	}
	return details
}

// FromError maps an error to its problem details. The second value is false
// for errors that are not expected, they should be logged.
func FromError(err error) (*ErrorDetails, bool) {
	var validationErr *filters.ValidationError
	if errors.As(err, &validationErr) {
		details := NewErrorDetails(http.StatusBadRequest, "Validation error")
		for _, fe := range validationErr.Errors {
			details.Errors = append(details.Errors, fe)
		}
		return details, true
	}

	var operatorErr *filters.UnknownOperatorError
	if errors.As(err, &operatorErr) {
		return NewErrorDetails(http.StatusBadRequest, operatorErr.Error()), true
	}

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		details := NewErrorDetails(apiErr.Status, apiErr.Detail)
		if apiErr.Title != "" {
			details.Title = apiErr.Title
		}
		details.Instance = apiErr.Instance
		return details, true
	}

	if errors.Is(err, filters.ErrNotImplemented) {
		return NewErrorDetails(http.StatusNotImplemented, err.Error()), true
	}

	return NewErrorDetails(http.StatusInternalServerError, "Unhandled server error"), false
}
