// types package contains the public API types
// that are shared between the list endpoints and their sources
package types

import "net/http"

// NumberedPage is the response of a page number paginated list
type NumberedPage struct {
	Items       []interface{} `json:"items"`
	CurrentPage int           `json:"current_page"`
	PageSize    int           `json:"page_size"`
	TotalPages  int           `json:"total_pages"`
	TotalItems  int           `json:"total_items"`
}

// TokenPage is the response of a page token paginated list, tokens are encoded
type TokenPage struct {
	Items        []interface{} `json:"items"`
	NextPage     *string       `json:"next_page"`
	PreviousPage *string       `json:"previous_page"`
}

// Route represents a request route to be served
type Route struct {
	Method  string
	Pattern string
	Handler http.Handler
}
