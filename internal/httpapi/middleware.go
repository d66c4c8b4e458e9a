package httpapi

import (
	"context"
	"net/http"

	"github.com/nikolayk812/cartkeeper/internal/identity"
)

const (
	HeaderSessionID      = "x-session-id"
	HeaderIdempotencyKey = "x-idempotency-key"
)

type contextKey string

const contextKeyIdentity contextKey = "identity"

// IdentityResolver turns request credentials into an identity.
type IdentityResolver interface {
	Resolve(ctx context.Context, authorization, sessionID string) identity.Identity
}

// ResolveIdentity resolves the caller once per request and stores it in the context.
func ResolveIdentity(resolver IdentityResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := resolver.Resolve(r.Context(), r.Header.Get("Authorization"), r.Header.Get(HeaderSessionID))

			ctx := context.WithValue(r.Context(), contextKeyIdentity, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAccount rejects callers without a verified bearer token.
func RequireAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !identityFrom(r.Context()).Owner.IsAccount() {
			writeError(w, http.StatusUnauthorized, "Not authorized, no token")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func identityFrom(ctx context.Context) identity.Identity {
	id, _ := ctx.Value(contextKeyIdentity).(identity.Identity)
	return id
}
