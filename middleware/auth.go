package middleware

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"assetverse/auth"
	"assetverse/utils"
)

type ctxKey string

const emailKey ctxKey = "email"

const unauthorized = "Unauthorized Access!"

// Gate admits requests carrying a verifiable bearer token and stores the
// token's email in the request context.
func Gate(verifier auth.Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	log := logger.Named("auth")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if header == "" || !strings.HasPrefix(header, "Bearer ") {
				utils.RespondWithError(w, http.StatusUnauthorized, unauthorized)
				return
			}

			token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
			email, err := verifier.Verify(r.Context(), token)
			if err != nil {
				log.Debug("token rejected", zap.String("path", r.URL.Path), zap.Error(err))
				utils.RespondWithErrorDetail(w, http.StatusUnauthorized, unauthorized, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithEmail(r.Context(), email)))
		})
	}
}

func WithEmail(ctx context.Context, email string) context.Context {
	return context.WithValue(ctx, emailKey, email)
}

// EmailFromContext returns the verified caller email, or "" on open routes.
func EmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(emailKey).(string)
	return email
}
