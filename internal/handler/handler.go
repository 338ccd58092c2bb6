package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"

	"github.com/actuallystonmai/food-swipe/internal/domain"
	"github.com/actuallystonmai/food-swipe/internal/swipe"
)

const maxBodySize = 4 * 1024

// Controller is the part of swipe.Controller the HTTP surface drives.
type Controller interface {
	Dispatch(ctx context.Context, ev swipe.Event) error
	View() swipe.View
	Summary(ctx context.Context) (*domain.Stats, error)
}

// Pinger reports whether a dependency is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	controller Controller
	store      Pinger
	validate   *validator.Validate
}

func NewHandler(c Controller, store Pinger) *Handler {
	return &Handler{
		controller: c,
		store:      store,
		validate:   validator.New(validator.WithRequiredStructEnabled()),
	}
}

// dispatch forwards ev and answers 202 with the view as of acceptance.
func (h *Handler) dispatch(w http.ResponseWriter, r *http.Request, ev swipe.Event) {
	if err := h.controller.Dispatch(r.Context(), ev); err != nil {
		if errors.Is(err, domain.ErrControllerStopped) {
			writeError(w, http.StatusServiceUnavailable, "controller_stopped", "Swipe controller is shutting down")
			return
		}
		writeError(w, http.StatusServiceUnavailable, "request_timeout", "Request timed out, please try again")
		return
	}
	writeJSON(w, http.StatusAccepted, h.controller.View())
}

// decode reads a small JSON body into v and validates it.
func (h *Handler) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", "Request body must be a JSON object")
		return false
	}
	if err := h.validate.Struct(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter", err.Error())
		return false
	}
	return true
}

// write JSON response
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// writes JSON error response.
func writeError(w http.ResponseWriter, status int, errCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Error:   errCode,
		Message: message,
	})
}
