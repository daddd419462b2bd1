// internal/middleware/authentication.go

package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/frienderapp/friender/internal/auth"
	"github.com/frienderapp/friender/internal/database"
	"github.com/frienderapp/friender/internal/models"
)

type contextKey string

// UserKey is the request-context key under which the authenticated user is stored.
const UserKey contextKey = "user"

// UserLookup loads a user by id; satisfied by *database.Store.
type UserLookup interface {
	GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// Authenticator verifies the request token, loads the principal and puts
// it on the request context. Handlers behind it never see an
// unauthenticated request. The token comes from the x-access-token header
// or the auth_token cookie.
func Authenticator(logger *logrus.Logger, users UserLookup) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get("x-access-token")
			if token == "" {
				if c, err := r.Cookie("auth_token"); err == nil {
					token = c.Value
				}
			}
			if token == "" {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			userIDStr, err := auth.AuthenticateJWT(token)
			if err != nil {
				logger.WithError(err).Debug("token verification failed")
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}
			userID, err := uuid.Parse(userIDStr)
			if err != nil {
				http.Error(w, "Unauthorized", http.StatusUnauthorized)
				return
			}

			u, err := users.GetUserByID(r.Context(), userID)
			if err != nil {
				if errors.Is(err, database.ErrUserNotFound) {
					http.Error(w, "Unauthorized", http.StatusUnauthorized)
				} else {
					logger.WithError(err).Error("failed to load principal")
					http.Error(w, "internal error", http.StatusInternalServerError)
				}
				return
			}

			ctx := context.WithValue(r.Context(), UserKey, u)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// CurrentUser returns the authenticated user stored by Authenticator, or
// nil if the handler is not behind it.
func CurrentUser(r *http.Request) *models.User {
	u, _ := r.Context().Value(UserKey).(*models.User)
	return u
}
