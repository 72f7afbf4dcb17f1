package logger

import "context"

type contextKey string

// RequestIDKey is the context key under which the request correlation
// ID travels with a request-scoped context.
const RequestIDKey contextKey = "request_id"

// WithRequestID returns a context carrying the request ID so that
// downstream layers, the SQL logger included, can correlate their
// entries with the HTTP request.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

// GetRequestID returns the request ID from the context, or "" when the
// context carries none.
func GetRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}
