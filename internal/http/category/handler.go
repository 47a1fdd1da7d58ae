package category

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/vault/internal/auth"
	"github.com/MrJamesThe3rd/vault/internal/category"
	"github.com/MrJamesThe3rd/vault/internal/http/respond"
)

type Handler struct {
	svc *category.Service
}

func NewHandler(svc *category.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.list)
	r.Post("/", h.create)
	r.Delete("/{id}", h.delete)
}

type categoryResponse struct {
	ID          *uuid.UUID    `json:"id,omitempty"`
	Name        string        `json:"name"`
	DisplayName string        `json:"display_name"`
	Type        category.Kind `json:"type"`
	Builtin     bool          `json:"builtin"`
}

func toResponse(c *category.Category) categoryResponse {
	resp := categoryResponse{
		Name:        c.Name,
		DisplayName: c.DisplayName(),
		Type:        c.Kind,
		Builtin:     c.Builtin,
	}

	if !c.Builtin {
		resp.ID = &c.ID
	}

	return resp
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	cats, err := h.svc.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Internal(w, r, err)
		return
	}

	kind := category.Kind(r.URL.Query().Get("type"))

	resp := make([]categoryResponse, 0, len(cats))
	for _, c := range cats {
		if kind != "" && c.Kind != kind {
			continue
		}

		resp = append(resp, toResponse(c))
	}

	respond.JSON(w, http.StatusOK, resp)
}

type createCategoryRequest struct {
	Name string        `json:"name" validate:"required"`
	Type category.Kind `json:"type" validate:"required,oneof=income expense"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createCategoryRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	c, err := h.svc.Create(r.Context(), auth.UserID(r.Context()), req.Type, req.Name)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(c))
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), auth.UserID(r.Context()), id); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, category.ErrNotFound):
		http.Error(w, "category not found", http.StatusNotFound)
	case errors.Is(err, category.ErrInvalidKind), errors.Is(err, category.ErrMissingName):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, category.ErrDuplicate), errors.Is(err, category.ErrBuiltin):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		respond.Internal(w, r, err)
	}
}
