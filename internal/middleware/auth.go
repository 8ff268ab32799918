package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"lawlow/internal/auth"
	"lawlow/internal/httputil"
)

// AuthMiddleware reads an optional Bearer token. A valid token puts the
// user id in the request context; an invalid one is rejected with 401;
// no token at all lets the request through anonymously.
func AuthMiddleware(verifier auth.JWTVerifier, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid authorization header")
				return
			}

			claims, err := verifier.VerifyToken(token)
			if err != nil {
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			userID, err := uuid.Parse(claims.GetUserID())
			if err != nil {
				logger.Warn("token subject is not a user id", "subject", claims.GetUserID())
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			next.ServeHTTP(w, httputil.WithUserID(r, userID))
		})
	}
}

// RequireAuth rejects anonymous requests with 401
func RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := httputil.GetUserID(r); !ok {
			httputil.RespondError(w, http.StatusUnauthorized, "로그인이 필요합니다.")
			return
		}
		next(w, r)
	}
}
