package middleware

import (
	"database/sql"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/pocketlist/pocket-todo/internal/database"
	"github.com/pocketlist/pocket-todo/internal/models"
	"github.com/pocketlist/pocket-todo/internal/request"
	"github.com/pocketlist/pocket-todo/internal/services/identity"
	"go.uber.org/zap"
)

// Auth validates the bearer token, resolves the user (creating it on
// first sight), and attaches it to the request context. The opaque
// subject from the identity provider is the only user identity this
// service ever uses.
func Auth(users database.UserStore, verifier *identity.Verifier, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				respondAuthError(w, http.StatusUnauthorized, "Missing Authorization header")
				return
			}

			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || parts[0] != "Bearer" {
				respondAuthError(w, http.StatusUnauthorized, "Invalid Authorization header format")
				return
			}

			ctx := r.Context()
			claims, err := verifier.Verify(ctx, parts[1])
			if err != nil {
				logger.Warn("token_verification_failed", zap.Error(err))
				respondAuthError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			user, err := users.GetByID(ctx, claims.Sub)
			if err != nil {
				if errors.Is(err, sql.ErrNoRows) {
					user = &models.User{
						ID:    claims.Sub,
						Email: claims.Email,
					}
					if claims.Name != "" {
						name := claims.Name
						user.Name = &name
					}
					if err := users.Create(ctx, user); err != nil {
						logger.Error("failed_to_create_user", zap.Error(err))
						respondAuthError(w, http.StatusInternalServerError, "Failed to create user")
						return
					}
				} else {
					logger.Error("failed_to_fetch_user", zap.Error(err))
					respondAuthError(w, http.StatusInternalServerError, "Database error")
					return
				}
			} else if refreshClaims(user, claims) {
				if err := users.Update(ctx, user); err != nil {
					// Stale email/name is not worth failing the request over
					logger.Warn("failed_to_refresh_user", zap.Error(err))
				}
			}

			next.ServeHTTP(w, r.WithContext(request.WithUser(ctx, user)))
		})
	}
}

// refreshClaims copies changed identity fields onto user and reports
// whether anything changed
func refreshClaims(user *models.User, claims *models.IdentityClaims) bool {
	changed := false
	if claims.Email != "" && user.Email != claims.Email {
		user.Email = claims.Email
		changed = true
	}
	if claims.Name != "" && (user.Name == nil || *user.Name != claims.Name) {
		name := claims.Name
		user.Name = &name
		changed = true
	}
	return changed
}

func respondAuthError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"success":   false,
		"error":     http.StatusText(status),
		"message":   message,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
