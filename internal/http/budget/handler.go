package budget

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/auth"
	"github.com/MrJamesThe3rd/vault/internal/budget"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/http/respond"
)

type Handler struct {
	svc   *budget.Service
	today func() time.Time
}

func NewHandler(svc *budget.Service) *Handler {
	return &Handler{svc: svc, today: goal.Today}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/status", h.status)
	r.Delete("/{id}", h.delete)
}

type budgetResponse struct {
	ID          uuid.UUID       `json:"id"`
	Category    string          `json:"category"`
	LimitAmount decimal.Decimal `json:"limit_amount"`
	CreatedAt   time.Time       `json:"created_at"`
}

func toResponse(b *budget.Budget) budgetResponse {
	return budgetResponse{
		ID:          b.ID,
		Category:    b.Category,
		LimitAmount: b.LimitAmount,
		CreatedAt:   b.CreatedAt,
	}
}

// StatusResponse is the JSON form of a tracked budget, also embedded in the dashboard.
type StatusResponse struct {
	Budget     budgetResponse  `json:"budget"`
	Spent      decimal.Decimal `json:"spent"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage decimal.Decimal `json:"percentage"`
	State      budget.State    `json:"state"`
}

func NewStatusResponse(statuses []budget.Status) []StatusResponse {
	resp := make([]StatusResponse, len(statuses))
	for i, s := range statuses {
		resp[i] = StatusResponse{
			Budget:     toResponse(s.Budget),
			Spent:      s.Spent,
			Remaining:  s.Remaining,
			Percentage: s.Percentage,
			State:      s.State,
		}
	}

	return resp
}

type createBudgetRequest struct {
	Category    string          `json:"category" validate:"required"`
	LimitAmount decimal.Decimal `json:"limit_amount" validate:"gt=0"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createBudgetRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	b, err := h.svc.Create(r.Context(), budget.CreateParams{
		UserID:      auth.UserID(r.Context()),
		Category:    req.Category,
		LimitAmount: req.LimitAmount,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(b))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	budgets, err := h.svc.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Internal(w, r, err)
		return
	}

	resp := make([]budgetResponse, len(budgets))
	for i, b := range budgets {
		resp[i] = toResponse(b)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) status(w http.ResponseWriter, r *http.Request) {
	asOf, err := respond.QueryDate(r, "as_of", h.today())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	statuses, err := h.svc.Status(r.Context(), auth.UserID(r.Context()), asOf)
	if err != nil {
		respond.Internal(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, NewStatusResponse(statuses))
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
	case errors.Is(err, budget.ErrNotFound):
		http.Error(w, "budget not found", http.StatusNotFound)
	case errors.Is(err, budget.ErrInvalidLimit), errors.Is(err, budget.ErrCategoryNotAllowed):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		respond.Internal(w, r, err)
	}
}
