package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"workerbull/internal/logger"
	"workerbull/internal/utils"
)

type contextKey string

const subjectKey contextKey = "auth_subject"

// SubjectFromContext returns the authenticated subject, or "" outside the
// admin middleware.
func SubjectFromContext(ctx context.Context) string {
	subject, _ := ctx.Value(subjectKey).(string)
	return subject
}

// Middleware guards admin routes with a Bearer JWT.
func Middleware(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				utils.WriteError(w, http.StatusUnauthorized, "Missing bearer token")
				return
			}
			tokenString := strings.TrimPrefix(header, "Bearer ")

			subject, err := VerifyAdminToken(secret, tokenString)
			if err != nil {
				log.Warn("AUTH", fmt.Sprintf("rejected admin token: %v", err))
				utils.WriteError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
