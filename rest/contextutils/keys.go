package contextutils

import (
	"context"
)

// contextKey is the wrapper we use for the names of the keys we store in Contexts
type contextKey struct {
	name string
}

var contextKeyCorrelationID = &contextKey{"correlation_id"}

// WithCorrelationID adds the correlation id of the request to the context
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return withContextKeyVal(ctx, contextKeyCorrelationID, id)
}

func withContextKeyVal(ctx context.Context, key *contextKey, val string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = context.WithValue(ctx, key, val)
	return ctx
}

// GetCorrelationID returns the correlation id stored in the context, empty when there is none.
func GetCorrelationID(ctx context.Context) string {
	return getContextKey(ctx, contextKeyCorrelationID)
}

func getContextKey(ctx context.Context, key *contextKey) string {
	if ctx == nil {
		return ""
	}
	val, ok := ctx.Value(key).(string)
	if ok && val != "" {
		return val
	}
	return ""
}
