package handlers

import (
	"errors"
	"net/http"

	"milkledger/models"
	"milkledger/repository"
)

type AdminHandler struct {
	Users     repository.UserRepository
	Customers repository.CustomerRepository
	Milk      repository.MilkRepository
}

func (h *AdminHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.Users.ListUsers(r.Context())
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, users)
}

func (h *AdminHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		IsActive *bool `json:"isActive"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if req.IsActive == nil {
		writeError(w, http.StatusBadRequest, "isActive is required")
		return
	}
	if !*req.IsActive && UserFromContext(r.Context()).ID == id {
		writeError(w, http.StatusBadRequest, "You cannot disable your own account")
		return
	}

	user, err := h.Users.UpdateUserStatus(r.Context(), id, *req.IsActive)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && user == nil) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "User status updated", Data: user})
}

func (h *AdminHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	var req struct {
		Role string `json:"role"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if !models.ValidRole(req.Role) {
		writeError(w, http.StatusBadRequest, "Role must be user or admin")
		return
	}
	if req.Role != models.RoleAdmin && UserFromContext(r.Context()).ID == id {
		writeError(w, http.StatusBadRequest, "You cannot remove your own admin role")
		return
	}

	user, err := h.Users.UpdateUserRole(r.Context(), id, req.Role)
	if errors.Is(err, repository.ErrNotFound) || (err == nil && user == nil) {
		writeError(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ApiResponse{Success: true, Message: "User role updated", Data: user})
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	users, err := h.Users.CountUsers(ctx)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	customers, err := h.Customers.CountCustomers(ctx)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	milk, err := h.Milk.Stats(ctx)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, models.SystemStats{
		TotalUsers:       users,
		TotalCustomers:   customers,
		TotalMilkEntries: milk.Entries,
		TotalSales:       milk.TotalSales,
		TotalCredit:      milk.TotalCredit,
	})
}
