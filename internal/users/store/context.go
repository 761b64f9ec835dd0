package store

import "context"

type sessionKey struct{}

// WithSession attaches h as the request's store scope.
func WithSession(ctx context.Context, h Handle) context.Context {
	return context.WithValue(ctx, sessionKey{}, h)
}

// FromContext returns the scope attached by WithSession, or fallback when the
// request has none (background jobs, tests, bootstrap).
func FromContext(ctx context.Context, fallback Handle) Handle {
	if h, ok := ctx.Value(sessionKey{}).(Handle); ok && h != nil {
		return h
	}
	return fallback
}
