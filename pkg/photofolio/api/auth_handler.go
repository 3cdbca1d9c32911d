package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/arthousehq/photofolio/pkg/photofolio"
	"github.com/arthousehq/photofolio/pkg/photofolio/auth"
)

// AuthHandler checks the admin credential and issues bearer tokens
type AuthHandler struct {
	admin *auth.Admin
}

// NewAuthHandler creates a new auth handler. A nil admin answers every login
// attempt with 401.
func NewAuthHandler(admin *auth.Admin) *AuthHandler {
	return &AuthHandler{admin: admin}
}

// Routes returns the router for auth endpoints
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Login)
	return r
}

// LoginRequest is the request body for admin login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the response body for a successful login
type LoginResponse struct {
	Token string `json:"token"`
}

// Login verifies the admin credential and returns a signed token
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
		return
	}

	if h.admin == nil {
		render.Status(r, http.StatusUnauthorized)
		render.JSON(w, r, ErrorResponse{Error: photofolio.ErrInvalidCredentials.Error()})
		return
	}

	token, err := h.admin.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, photofolio.ErrInvalidCredentials) {
			slog.Warn("failed login attempt", "username", req.Username)
			render.Status(r, http.StatusUnauthorized)
			render.JSON(w, r, ErrorResponse{Error: photofolio.ErrInvalidCredentials.Error()})
			return
		}
		slog.Error("login failed", "error", err)
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, ErrorResponse{Error: "internal error"})
		return
	}

	render.JSON(w, r, LoginResponse{Token: token})
}
