package profile

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/auth"
	"github.com/MrJamesThe3rd/vault/internal/http/respond"
	"github.com/MrJamesThe3rd/vault/internal/profile"
)

type Handler struct {
	svc *profile.Service
}

func NewHandler(svc *profile.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.me)
}

type profileResponse struct {
	ID           uuid.UUID       `json:"id"`
	Email        string          `json:"email"`
	FullName     string          `json:"full_name"`
	AvatarURL    string          `json:"avatar_url,omitempty"`
	TotalBalance decimal.Decimal `json:"total_balance"`
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.ClaimsFrom(r.Context())
	if !ok {
		http.Error(w, auth.ErrMissingToken.Error(), http.StatusUnauthorized)
		return
	}

	p, err := h.svc.Get(r.Context(), claims)
	if err != nil {
		respond.Internal(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, profileResponse{
		ID:           p.ID,
		Email:        p.Email,
		FullName:     p.FullName,
		AvatarURL:    p.AvatarURL,
		TotalBalance: p.TotalBalance,
	})
}
