package http

import (
	"context"
	"net/http"
	"strings"

	"github.com/tair/fabstock/internal/domain"
	"github.com/tair/fabstock/pkg/logger"
)

type contextKey string

const memberKey contextKey = "member"

// withMember stores the authenticated member on ctx.
func withMember(ctx context.Context, m domain.TeamMember) context.Context {
	return context.WithValue(ctx, memberKey, m)
}

// MemberFromContext returns the member set by AuthMiddleware.
func MemberFromContext(ctx context.Context) (domain.TeamMember, bool) {
	m, ok := ctx.Value(memberKey).(domain.TeamMember)
	return m, ok
}

// AuthMiddleware validates the bearer session and resolves the member against the current team.
func AuthMiddleware(authn Authenticator) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondError(w, http.StatusUnauthorized, "Authorization header required")
				return
			}

			// Extract token from "Bearer <token>"
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				logger.Logger.Warn().Msg("Invalid authorization header format")
				respondError(w, http.StatusUnauthorized, "Invalid authorization header format")
				return
			}

			member, err := authn.Authenticate(r.Context(), parts[1])
			if err != nil {
				logger.Warn(r.Context()).Err(err).Msg("Session rejected")
				respondError(w, http.StatusUnauthorized, "Invalid or expired session")
				return
			}

			logger.Debug(r.Context()).
				Str("member_id", member.ID).
				Str("role", string(member.Role)).
				Msg("Member authenticated")

			next.ServeHTTP(w, r.WithContext(withMember(r.Context(), member)))
		}
	}
}

// AdminMiddleware requires an authenticated administrator.
func AdminMiddleware(authn Authenticator) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return AuthMiddleware(authn)(func(w http.ResponseWriter, r *http.Request) {
			member, _ := MemberFromContext(r.Context())
			if !member.IsAdmin() {
				logger.Warn(r.Context()).Str("member_id", member.ID).Msg("Admin access denied")
				respondError(w, http.StatusForbidden, "Admin access required")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
