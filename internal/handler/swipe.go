package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/actuallystonmai/food-swipe/internal/domain"
	"github.com/actuallystonmai/food-swipe/internal/swipe"
)

// GET /state
func (h *Handler) GetState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.controller.View())
}

// POST /gesture/start
func (h *Handler) GestureStart(w http.ResponseWriter, r *http.Request) {
	var req PointRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, swipe.GestureStarted{At: req.Point()})
}

// POST /gesture/move
func (h *Handler) GestureMove(w http.ResponseWriter, r *http.Request) {
	var req PointRequest
	if !h.decode(w, r, &req) {
		return
	}
	h.dispatch(w, r, swipe.GestureMoved{At: req.Point()})
}

// POST /gesture/end
func (h *Handler) GestureEnd(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, swipe.GestureEnded{})
}

// POST /gesture/cancel
func (h *Handler) GestureCancel(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, swipe.GestureCancelled{})
}

// POST /actions/{action}
func (h *Handler) TriggerAction(w http.ResponseWriter, r *http.Request) {
	kind, err := domain.ParseActionKind(chi.URLParam(r, "action"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_parameter",
			fmt.Sprintf("Unknown action %q, expected left, right or super", chi.URLParam(r, "action")))
		return
	}
	h.dispatch(w, r, swipe.ActionTriggered{Kind: kind})
}

// POST /retry
func (h *Handler) Retry(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, swipe.RetryRequested{})
}

// POST /reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	h.dispatch(w, r, swipe.ResetRequested{})
}

// GET /summary
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	stats, err := h.controller.Summary(r.Context())
	if err != nil {
		// No session on the recommender
		if errors.Is(err, domain.ErrSessionNotFound) {
			writeError(w, http.StatusNotFound, "session_not_found", "No active swipe session")
			return
		}
		// Breaker open
		if errors.Is(err, domain.ErrRemoteUnavailable) {
			writeError(w, http.StatusServiceUnavailable, "recommender_unavailable",
				"Recommender is temporarily unavailable")
			return
		}
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			writeError(w, http.StatusServiceUnavailable, "request_timeout",
				"Request timed out, please try again")
			return
		}
		writeError(w, http.StatusBadGateway, "recommender_error", "Could not load session summary")
		return
	}

	writeJSON(w, http.StatusOK, SummaryResponse{
		Stats:        *stats,
		LeftPercent:  stats.LeftPercent(),
		RightPercent: stats.RightPercent(),
	})
}

// GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if h.store != nil {
		if err := h.store.Ping(r.Context()); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Store: err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Store: "ok"})
}
