package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"milkledger/models"
	"milkledger/repository"
)

type CustomerHandler struct {
	Repo repository.CustomerRepository
}

func (h *CustomerHandler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	customers, err := h.Repo.ListCustomers(r.Context(), user.ID)
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *CustomerHandler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name string `json:"name"`
	}
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		writeError(w, http.StatusBadRequest, "Customer name is required")
		return
	}

	c := &models.Customer{UserID: UserFromContext(r.Context()).ID, Name: name}
	if err := h.Repo.CreateCustomer(r.Context(), c); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			writeError(w, http.StatusBadRequest, "Customer already exists")
			return
		}
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CustomerHandler) DeleteCustomer(w http.ResponseWriter, r *http.Request) {
	c, err := h.Repo.DeleteCustomer(r.Context(), UserFromContext(r.Context()).ID, r.PathValue("id"))
	if errors.Is(err, repository.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Customer not found")
		return
	}
	if err != nil {
		writeStoreError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// ensureCustomer returns the user's customer with this name, creating it on
// first use.
func ensureCustomer(ctx context.Context, repo repository.CustomerRepository, userID, name string) (*models.Customer, error) {
	c, err := repo.GetCustomerByName(ctx, userID, name)
	if err != nil || c != nil {
		return c, err
	}
	c = &models.Customer{UserID: userID, Name: name}
	err = repo.CreateCustomer(ctx, c)
	if errors.Is(err, repository.ErrDuplicate) {
		// created concurrently
		return repo.GetCustomerByName(ctx, userID, name)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
