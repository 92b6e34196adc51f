package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/kislikjeka/finsight/internal/platform/session"
	"github.com/kislikjeka/finsight/pkg/logger"
)

// SessionResolver validates a bearer token
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (session.Session, error)
}

// RequireSession rejects requests without a live session and places the
// session into the request context
func RequireSession(resolver SessionResolver, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := BearerToken(r)
			if !ok {
				writeJSONError(w, http.StatusUnauthorized, "missing or malformed authorization header")
				return
			}

			sess, err := resolver.Resolve(r.Context(), token)
			if err != nil {
				switch {
				case errors.Is(err, session.ErrInvalidToken),
					errors.Is(err, session.ErrSessionRevoked),
					errors.Is(err, session.ErrSessionMismatch),
					errors.Is(err, session.ErrMissingToken):
					writeJSONError(w, http.StatusUnauthorized, "invalid or expired session")
				default:
					log.WithContext(r.Context()).Error("session lookup failed", "error", err)
					writeJSONError(w, http.StatusServiceUnavailable, "session store unavailable")
				}
				return
			}

			if info := requestInfoFrom(r.Context()); info != nil {
				info.ownerKey = sess.OwnerKey
			}

			ctx := session.WithSession(r.Context(), sess)
			ctx = context.WithValue(ctx, logger.OwnerKey, sess.OwnerKey)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// BearerToken extracts the token from "Authorization: Bearer <token>"
func BearerToken(r *http.Request) (string, bool) {
	scheme, token, found := strings.Cut(r.Header.Get("Authorization"), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write([]byte(`{"error":"` + message + `"}`))
}
