package rest

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/restviews/restviews/rest/contextutils"
)

// CorrelationHeader carries the correlation id of a request and its response
const CorrelationHeader = "X-Correlation-ID"

type correlationHandler struct {
	handler http.Handler
}

// NewCorrelationHandler reuses the correlation id sent by the client or
// generates a new one, it is stored in the request context.
func NewCorrelationHandler(handler http.Handler) http.Handler {
	return &correlationHandler{handler: handler}
}

func (h *correlationHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	id := r.Header.Get(CorrelationHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.New().String()
	}
	w.Header().Set(CorrelationHeader, id)
	h.handler.ServeHTTP(w, r.WithContext(contextutils.WithCorrelationID(r.Context(), id)))
}
