package auth

import (
	"context"
	"net/http"
	"strings"

	"currency-exchange-go/internal/models"

	"github.com/go-chi/render"
	"go.uber.org/zap"
)

type contextKey string

const userIdKey contextKey = "user_id"

// RequireAuth validates the bearer token and injects the user id into the
// request context.
func RequireAuth(issuer *TokenIssuer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || tokenStr == "" {
				unauthorized(w, r, "missing bearer token")
				return
			}

			claims, err := issuer.ParseAndValidate(tokenStr)
			if err != nil {
				zap.L().Debug("Rejected bearer token", zap.String("path", r.URL.Path), zap.Error(err))
				unauthorized(w, r, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), userIdKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// UserID returns the authenticated user id from the request context, or ""
// outside an authenticated request.
func UserID(ctx context.Context) string {
	userId, _ := ctx.Value(userIdKey).(string)
	return userId
}

// WithUserID injects a user id into a context. Used in handler tests.
func WithUserID(ctx context.Context, userId string) context.Context {
	return context.WithValue(ctx, userIdKey, userId)
}

func unauthorized(w http.ResponseWriter, r *http.Request, message string) {
	render.Status(r, http.StatusUnauthorized)
	render.JSON(w, r, models.ErrorResponse{Message: message})
}
