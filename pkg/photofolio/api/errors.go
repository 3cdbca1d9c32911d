package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/arthousehq/photofolio/pkg/photofolio"
)

// ErrorResponse is the error body for all endpoints
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeServiceError maps service errors onto the HTTP error taxonomy:
// validation failures are 400, unknown image keys are 404, everything else
// is an internal error.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErr *photofolio.ValidationError
	if errors.As(err, &validationErr) {
		render.Status(r, http.StatusBadRequest)
		render.JSON(w, r, ErrorResponse{Error: validationErr.Unwrap().Error()})
		return
	}

	var notFoundErr *photofolio.NotFoundError
	if errors.As(err, &notFoundErr) {
		render.Status(r, http.StatusNotFound)
		render.JSON(w, r, ErrorResponse{Error: "Image not found"})
		return
	}

	render.Status(r, http.StatusInternalServerError)
	render.JSON(w, r, ErrorResponse{Error: "internal error"})
}
