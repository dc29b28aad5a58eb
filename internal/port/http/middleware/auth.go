package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/domain/entity"
	"github.com/Santiagocoggiola/new-sonirama-website-sub001/internal/service"
)

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"error":"` + msg + `"}`))
}

// JWTAuth validates the Bearer token and stores the subject and role under
// typed context keys.
func JWTAuth(auth service.AuthService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				unauthorized(w, "missing or malformed Authorization header")
				return
			}

			claims, err := auth.ParseAccessToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				unauthorized(w, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), UserIDCtxKey, claims.Subject)
			ctx = context.WithValue(ctx, UserRoleCtxKey, claims.Role)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin sits behind JWTAuth and rejects non-admin roles.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role, _ := r.Context().Value(UserRoleCtxKey).(string)
		if role != entity.RoleAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"admin role required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserID extracts the authenticated user ID set by JWTAuth.
func UserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDCtxKey).(string)
	return id
}

// IsAdmin reports whether the authenticated caller carries the admin role.
func IsAdmin(ctx context.Context) bool {
	role, _ := ctx.Value(UserRoleCtxKey).(string)
	return role == entity.RoleAdmin
}
