package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"

	"milkledger/auth"
	"milkledger/models"
	"milkledger/repository"
)

type UserHandler struct {
	Repo repository.UserRepository
	JWT  *auth.JWTManager
}

type authResponse struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	User    *models.AppUser `json:"user"`
	Token   string          `json:"token,omitempty"`
}

// Register handler
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name     string `json:"name"`
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	name := strings.TrimSpace(req.Name)
	username := strings.ToLower(strings.TrimSpace(req.Username))
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if name == "" || username == "" || email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "All fields are required")
		return
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		writeError(w, http.StatusBadRequest, "Invalid email address")
		return
	}
	if err := auth.ValidatePassword(req.Password); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	user := &models.AppUser{
		Name:     name,
		Username: username,
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := h.Repo.CreateUser(r.Context(), user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "User with this email or username already exists")
			return
		}
		slog.Error("registration failed", "username", user.Username, "error", err)
		writeError(w, http.StatusInternalServerError, "Registration failed")
		return
	}

	token, err := h.JWT.Generate(user)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}

	slog.Info("user registered", "user_id", user.ID, "username", user.Username)
	writeJSON(w, http.StatusCreated, authResponse{
		Success: true,
		Message: "Registration successful",
		User:    user,
		Token:   token,
	})
}

// Login handler
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var creds struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := decodeJSON(r, &creds); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	email := strings.ToLower(strings.TrimSpace(creds.Email))
	if email == "" || creds.Password == "" {
		writeError(w, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, err := h.Repo.GetUserByEmail(r.Context(), email)
	if err != nil {
		slog.Error("login lookup failed", "email", email, "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}
	if user == nil || !auth.CheckPassword(user.Password, creds.Password) {
		writeError(w, http.StatusUnauthorized, "Invalid credentials")
		return
	}
	if !user.IsActive {
		writeError(w, http.StatusForbidden, "Account is disabled")
		return
	}

	token, err := h.JWT.Generate(user)
	if err != nil {
		slog.Error("token generation failed", "user_id", user.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "Login failed")
		return
	}

	writeJSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: "Login successful",
		User:    user,
		Token:   token,
	})
}

// Logout only acknowledges; tokens expire on their own.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "Logout successful"})
}

func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, authResponse{
		Success: true,
		Message: "Current user",
		User:    UserFromContext(r.Context()),
	})
}
