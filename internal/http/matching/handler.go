package matching

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrJamesThe3rd/vault/internal/auth"
	"github.com/MrJamesThe3rd/vault/internal/http/respond"
	"github.com/MrJamesThe3rd/vault/internal/matching"
)

type Handler struct {
	svc *matching.Service
}

func NewHandler(svc *matching.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/suggest", h.suggest)
	r.Post("/", h.learn)
}

type suggestResponse struct {
	RawDescription string `json:"raw_description"`
	Description    string `json:"description,omitempty"`
	Category       string `json:"category,omitempty"`
	Matched        bool   `json:"matched"`
}

func (h *Handler) suggest(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("raw_description")
	if raw == "" {
		http.Error(w, "raw_description query parameter is required", http.StatusBadRequest)
		return
	}

	m, err := h.svc.Suggest(r.Context(), auth.UserID(r.Context()), raw)
	if err != nil {
		respond.Internal(w, r, err)
		return
	}

	resp := suggestResponse{RawDescription: raw}
	if m != nil {
		resp.Description = m.Description
		resp.Category = m.Category
		resp.Matched = true
	}

	respond.JSON(w, http.StatusOK, resp)
}

type learnRequest struct {
	RawPattern  string `json:"raw_pattern" validate:"required"`
	Description string `json:"description"`
	Category    string `json:"category" validate:"required_without=Description"`
}

type ruleResponse struct {
	Pattern     string `json:"raw_pattern"`
	Description string `json:"description,omitempty"`
	Category    string `json:"category,omitempty"`
}

func (h *Handler) learn(w http.ResponseWriter, r *http.Request) {
	var req learnRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	rule, err := h.svc.Learn(r.Context(), auth.UserID(r.Context()), matching.LearnParams{
		Pattern:     req.RawPattern,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		if errors.Is(err, matching.ErrMissingPattern) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		respond.Internal(w, r, err)

		return
	}

	respond.JSON(w, http.StatusCreated, ruleResponse{
		Pattern:     rule.Pattern,
		Description: rule.Description,
		Category:    rule.Category,
	})
}
