package errors

import (
	"fmt"
	"net/http"
)

// APIError is an error with a problem details representation.
type APIError struct {
	Detail   string
	Status   int
	Title    string
	Instance string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

// NewAPIError creates an error with the default title of status
func NewAPIError(detail string, status int) *APIError {
	return &APIError{
		Detail: detail,
		Status: status,
		Title:  defaultTitle(status),
	}
}

func defaultTitle(status int) string {
	switch {
	case status >= http.StatusInternalServerError:
		return "Internal Server Error"
	case status == http.StatusBadRequest:
		return "Bad Request"
	}
	return "Something went wrong"
}

func NewBadRequestError(detail string) error {
	return &APIError{Detail: detail, Status: http.StatusBadRequest, Title: "Bad Request"}
}

func NewNotFoundError(detail string) error {
	return &APIError{Detail: detail, Status: http.StatusNotFound, Title: "Not Found"}
}

func NewConflictError(detail string) error {
	return &APIError{Detail: detail, Status: http.StatusConflict, Title: "Conflict"}
}

func NewThrottledError(detail string) error {
	return &APIError{Detail: detail, Status: http.StatusTooManyRequests, Title: "Too many requests"}
}

func NewUnauthorizedError(detail string) error {
	return &APIError{Detail: detail, Status: http.StatusUnauthorized, Title: "Unauthorized"}
}

func NewForbiddenError(detail string) error {
	return &APIError{Detail: detail, Status: http.StatusForbidden, Title: "Forbidden"}
}

func NewInternalError(detail string) error {
	return &APIError{Detail: detail, Status: http.StatusInternalServerError, Title: "Internal Server Error"}
}
