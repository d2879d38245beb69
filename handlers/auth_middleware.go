package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"milkledger/auth"
	"milkledger/models"
	"milkledger/repository"
)

type contextKey string

const userKey contextKey = "user"

// UserFromContext returns the authenticated user, or nil outside RequireAuth.
func UserFromContext(ctx context.Context) *models.AppUser {
	u, _ := ctx.Value(userKey).(*models.AppUser)
	return u
}

func withUser(ctx context.Context, u *models.AppUser) context.Context {
	return context.WithValue(ctx, userKey, u)
}

type AuthMiddleware struct {
	JWT   *auth.JWTManager
	Users repository.UserRepository
}

// RequireAuth validates the bearer token, loads the user it names and
// attaches it to the request context.
func (m *AuthMiddleware) RequireAuth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if header == "" {
			writeErrorMessage(w, http.StatusUnauthorized, "No Authorization header found",
				"Please provide an authentication token")
			return
		}

		token := strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
		if token == "" {
			writeErrorMessage(w, http.StatusUnauthorized, "Invalid token format",
				"Authentication token is missing or malformed")
			return
		}

		claims, err := m.JWT.Validate(token)
		if err != nil {
			msg := "Invalid authentication token"
			if errors.Is(err, auth.ErrExpiredToken) {
				msg = "Your session has expired. Please login again."
			}
			writeErrorMessage(w, http.StatusUnauthorized, "Invalid token", msg)
			return
		}

		user, err := m.Users.GetUserByID(r.Context(), claims.UserID)
		if err != nil {
			slog.Error("auth user lookup failed", "user_id", claims.UserID, "error", err)
			writeErrorMessage(w, http.StatusInternalServerError, "Authentication failed",
				"An error occurred during authentication")
			return
		}
		if user == nil {
			writeErrorMessage(w, http.StatusUnauthorized, "User not found",
				"The user associated with this token no longer exists")
			return
		}
		if !user.IsActive {
			writeErrorMessage(w, http.StatusForbidden, "Account disabled",
				"This account has been disabled by an administrator")
			return
		}

		next(w, r.WithContext(withUser(r.Context(), user)))
	}
}

// RequireAdmin is RequireAuth plus a role check.
func (m *AuthMiddleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return m.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		if !UserFromContext(r.Context()).IsAdmin() {
			writeErrorMessage(w, http.StatusForbidden, "Forbidden", "Admin access required")
			return
		}
		next(w, r)
	})
}
