package http

import (
	"context"
	"net/http"

	"github.com/cssclub/privileges-service/internal/domain"
	"github.com/cssclub/privileges-service/internal/ports"
)

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ok")
}

func (h *Handler) readyz(w http.ResponseWriter, _ *http.Request) {
	writeMessage(w, http.StatusOK, "ready")
}

func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw, err := bearerTokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "missing bearer token")
			return
		}

		principal, err := h.verifier.Verify(raw)
		if err != nil {
			status, code, msg := mapDomainError(err)
			writeError(w, status, code, msg)
			return
		}

		next.ServeHTTP(w, r.WithContext(contextWithPrincipal(r.Context(), principal)))
	})
}

// optionalAuthMiddleware resolves a principal when a valid token is present
// and otherwise lets the request through anonymously. An invalid token is
// still rejected so a premium member with an expired token does not silently
// see free-tier prices.
func (h *Handler) optionalAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") == "" {
			next.ServeHTTP(w, r)
			return
		}
		raw, err := bearerTokenFromHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, http.StatusUnauthorized, "UNAUTHORIZED", "malformed bearer token")
			return
		}
		principal, err := h.verifier.Verify(raw)
		if err != nil {
			status, code, msg := mapDomainError(err)
			writeError(w, status, code, msg)
			return
		}
		next.ServeHTTP(w, r.WithContext(contextWithPrincipal(r.Context(), principal)))
	})
}

func contextWithPrincipal(ctx context.Context, principal ports.Principal) context.Context {
	return context.WithValue(ctx, ctxKeyPrincipal, principal)
}

// principalOrAnonymous returns the authenticated principal, or a zero-value
// one whose tier parses as free.
func principalOrAnonymous(r *http.Request) ports.Principal {
	if principal, ok := principalFromContext(r.Context()); ok {
		return principal
	}
	return ports.Principal{Tier: domain.TierFree}
}
