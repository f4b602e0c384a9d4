package middleware

import (
	"context"
	"log"
	"net/http"
	"strings"

	"campus_media/internal/common"
	"campus_media/internal/common/security"
	"campus_media/internal/platform/metrics"

	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth/v5"
)

type contextKey string

const ClaimsCtxKey contextKey = "claims"

const (
	MsgTokenMissing = "Unauthorized: Access token missing"
	MsgTokenFormat  = "Unauthorized: Invalid token format"
	MsgTokenInvalid = "Forbidden: Error in token authentication"
)

// Authenticator admits requests carrying a valid "Authorization: Bearer <token>".
// A missing header or a header without a bearer token is 401; a token that
// fails signature or expiry checks is 403. The subject is not looked up.
func Authenticator(tokens *security.TokenIssuer, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if strings.TrimSpace(r.Header.Get("Authorization")) == "" {
				m.ObserveTokenRejection(metrics.ReasonMissing)
				common.RespondWithMessage(w, http.StatusUnauthorized, MsgTokenMissing)
				return
			}

			tokenString := strings.TrimSpace(jwtauth.TokenFromHeader(r))
			if tokenString == "" {
				m.ObserveTokenRejection(metrics.ReasonMalformed)
				common.RespondWithMessage(w, http.StatusUnauthorized, MsgTokenFormat)
				return
			}

			claims, err := tokens.Verify(tokenString)
			if err != nil {
				log.Printf("[%s] token authentication failed: %v", chiMiddleware.GetReqID(r.Context()), err)
				m.ObserveTokenRejection(metrics.ReasonBadToken)
				common.RespondWithMessage(w, http.StatusForbidden, MsgTokenInvalid)
				return
			}

			ctx := context.WithValue(r.Context(), ClaimsCtxKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// Helper to get token claims from context
func GetClaimsFromContext(ctx context.Context) (*security.Claims, bool) {
	claims, ok := ctx.Value(ClaimsCtxKey).(*security.Claims)
	return claims, ok
}
