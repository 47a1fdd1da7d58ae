package plan

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/auth"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/http/respond"
	"github.com/MrJamesThe3rd/vault/internal/plan"
)

const (
	defaultScheduleCount = 5
	maxScheduleCount     = 52
)

type Handler struct {
	svc *plan.Service
}

func NewHandler(svc *plan.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}/active", h.toggle)
	r.Delete("/{id}", h.delete)
	r.Get("/{id}/schedule", h.schedule)
}

type planResponse struct {
	ID            uuid.UUID       `json:"id"`
	GoalID        uuid.UUID       `json:"goal_id"`
	Amount        decimal.Decimal `json:"amount"`
	Frequency     plan.Frequency  `json:"frequency"`
	NextExecution respond.Date    `json:"next_execution"`
	Active        bool            `json:"active"`
	Orphaned      bool            `json:"orphaned"`
	CreatedAt     time.Time       `json:"created_at"`
}

func toResponse(p *plan.Plan) planResponse {
	return planResponse{
		ID:            p.ID,
		GoalID:        p.GoalID,
		Amount:        p.Amount,
		Frequency:     p.Frequency,
		NextExecution: respond.Date{Time: p.NextExecution},
		Active:        p.Active,
		Orphaned:      p.Orphaned,
		CreatedAt:     p.CreatedAt,
	}
}

type createPlanRequest struct {
	GoalID    uuid.UUID       `json:"goal_id" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"gt=0"`
	Frequency plan.Frequency  `json:"frequency" validate:"required,oneof=daily weekly monthly"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createPlanRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.Create(r.Context(), plan.CreateParams{
		UserID:    auth.UserID(r.Context()),
		GoalID:    req.GoalID,
		Amount:    req.Amount,
		Frequency: req.Frequency,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(p))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	plans, err := h.svc.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Internal(w, r, err)
		return
	}

	activeOnly := r.URL.Query().Get("active") == "true"

	resp := make([]planResponse, 0, len(plans))
	for _, p := range plans {
		if activeOnly && !p.Active {
			continue
		}

		resp = append(resp, toResponse(p))
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	p, err := h.svc.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
}

type toggleRequest struct {
	Active *bool `json:"active" validate:"required"`
}

func (h *Handler) toggle(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	var req toggleRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	p, err := h.svc.Toggle(r.Context(), auth.UserID(r.Context()), id, *req.Active)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(p))
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

func (h *Handler) schedule(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	count, err := respond.QueryInt(r, "count", defaultScheduleCount, maxScheduleCount)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	dates, err := h.svc.Schedule(r.Context(), auth.UserID(r.Context()), id, count)
	if err != nil {
		writeError(w, r, err)
		return
	}

	resp := make([]respond.Date, len(dates))
	for i, d := range dates {
		resp[i] = respond.Date{Time: d}
	}

	respond.JSON(w, http.StatusOK, resp)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, plan.ErrNotFound):
		http.Error(w, "plan not found", http.StatusNotFound)
	case errors.Is(err, goal.ErrNotFound):
		http.Error(w, "goal not found", http.StatusNotFound)
	case errors.Is(err, plan.ErrInvalidAmount), errors.Is(err, plan.ErrInvalidFrequency):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, plan.ErrOrphaned):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		respond.Internal(w, r, err)
	}
}
