package advisor

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/vault/internal/advisor"
	"github.com/MrJamesThe3rd/vault/internal/advisor/backend"
	"github.com/MrJamesThe3rd/vault/internal/http/respond"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	backend *backend.Backend
}

func NewHandler(b *backend.Backend) *Handler {
	return &Handler{backend: b}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.handle)
}

type errorResponse struct {
	Error string `json:"error"`
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) {
	var req advisor.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		respond.JSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}

	out, err := h.backend.Handle(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, backend.ErrUnknownAction), errors.Is(err, backend.ErrInvalidPayload):
			respond.JSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		case errors.Is(err, backend.ErrNotConfigured):
			slog.Error("advisor model is not configured")
			respond.JSON(w, http.StatusInternalServerError, errorResponse{Error: "advisor unavailable"})
		default:
			slog.Error("advisor request failed", "action", req.Action, "error", err)
			respond.JSON(w, http.StatusInternalServerError, errorResponse{Error: "advisor unavailable"})
		}

		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	if _, err := w.Write(out); err != nil {
		slog.Error("failed to write response", "error", err)
	}
}
