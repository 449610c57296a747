package handler

import (
	"net/http"

	"github.com/nearhand/nearhand-go/internal/core/domain"
	"github.com/nearhand/nearhand-go/internal/core/service"
)

// handleCreateAccount handles POST /api/create-account. Signup issues
// a token directly, so the frontend logs the new user straight in.
func (h *Handler) handleCreateAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateAccountRequest
	if err := h.decode(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	token, err := h.accountSvc.CreateAccount(service.SignupParams{
		Username:    req.Username,
		Password:    req.Password,
		DisplayName: req.Name,
		Address:     req.Address,
		Location:    req.Location,
		Role:        domain.RoleKind(req.UserType),
	})
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, TokenResponse{Token: token})
}

// handleLogin handles POST /api/login.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := h.decode(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	token, err := h.accountSvc.Login(req.Username, req.Password)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, TokenResponse{Token: token})
}

// handleUserData handles POST /api/user-data. It returns the public
// projection of the calling account; the credential never leaves the
// server.
func (h *Handler) handleUserData(w http.ResponseWriter, r *http.Request) {
	var req AuthorizedRequest
	if err := h.decode(r, &req); err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	account, err := h.accountSvc.ResolveToken(req.Authorization)
	if err != nil {
		h.handleServiceError(w, r, err)
		return
	}

	h.writeJSON(w, r, http.StatusOK, account.Public())
}
