package auth

import (
	"net/http"
	"strings"
)

// Middleware inspects the Authorization header and attaches an
// authentication verdict to the request context. It is a pass-through
// decorator, not a gate: an absent or invalid token yields the
// unauthenticated verdict and the request continues. Gating is each
// resolver's own responsibility.
func Middleware(service *Service) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			verdict := Verdict{}

			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 && strings.EqualFold(parts[0], "bearer") {
				verdict = service.VerifyToken(parts[1])
			}

			ctx := NewContextWithVerdict(r.Context(), verdict)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
