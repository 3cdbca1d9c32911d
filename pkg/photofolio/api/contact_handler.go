package api

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/arthousehq/photofolio/pkg/photofolio"
)

// ContactHandler relays contact-form submissions to the notifier
type ContactHandler struct {
	notifier photofolio.Notifier
}

// NewContactHandler creates a new contact handler
func NewContactHandler(notifier photofolio.Notifier) *ContactHandler {
	return &ContactHandler{notifier: notifier}
}

// Routes returns the router for contact endpoints
func (h *ContactHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.SendMessage)
	return r
}

// ContactResponse is the response body for a delivered message
type ContactResponse struct {
	Success bool `json:"success"`
}

// SendMessage validates the submission and hands it to the notifier
func (h *ContactHandler) SendMessage(w http.ResponseWriter, r *http.Request) {
	var msg photofolio.ContactMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "invalid request body"})
		return
	}

	if msg.Name == "" || msg.Email == "" || msg.Body == "" {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: "name, email and message are required"})
		return
	}

	if err := h.notifier.ContactMessage(r.Context(), msg); err != nil {
		slog.Error("contact message delivery failed", "from", msg.Email, "error", err)
		render.Status(r, http.StatusBadGateway)
		render.JSON(w, r, ErrorResponse{Error: "failed to deliver message"})
		return
	}

	slog.Info("contact message delivered", "from", msg.Email)
	render.JSON(w, r, ContactResponse{Success: true})
}
