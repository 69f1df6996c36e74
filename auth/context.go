package auth

import "context"

// Verdict is the per-request authentication result. The zero value means
// unauthenticated; UserID and Email are only set when IsAuth is true.
type Verdict struct {
	IsAuth bool
	UserID string
	Email  string
}

type contextKey string

const verdictContextKey contextKey = "auth_verdict"

// NewContextWithVerdict returns a child context carrying the verdict.
func NewContextWithVerdict(ctx context.Context, v Verdict) context.Context {
	return context.WithValue(ctx, verdictContextKey, v)
}

// VerdictFromContext extracts the verdict set by the middleware. A request
// that never passed through the middleware yields the unauthenticated zero
// value, so callers can gate on IsAuth without a presence check.
func VerdictFromContext(ctx context.Context) Verdict {
	v, ok := ctx.Value(verdictContextKey).(Verdict)
	if !ok {
		return Verdict{}
	}
	return v
}
