package goal

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/aggregate"
	"github.com/MrJamesThe3rd/vault/internal/auth"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/http/respond"
	txhttp "github.com/MrJamesThe3rd/vault/internal/http/transaction"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

type Handler struct {
	svc   *goal.Service
	today func() time.Time
}

func NewHandler(svc *goal.Service) *Handler {
	return &Handler{svc: svc, today: goal.Today}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Patch("/{id}", h.update)
	r.Delete("/{id}", h.delete)
	r.Post("/{id}/deposit", h.movement(h.svc.Deposit))
	r.Post("/{id}/withdraw", h.movement(h.svc.Withdraw))
	r.Post("/{id}/yield", h.movement(h.svc.Yield))
	r.Get("/{id}/projection", h.projection)
}

type goalResponse struct {
	ID            uuid.UUID       `json:"id"`
	Title         string          `json:"title"`
	Description   string          `json:"description,omitempty"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	InterestRate  decimal.Decimal `json:"interest_rate"`
	Deadline      respond.Date    `json:"deadline"`
	Category      goal.Category   `json:"category"`
	Progress      int             `json:"progress"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     *time.Time      `json:"updated_at,omitempty"`
}

// toResponse renders g with its progress. A goal whose target cannot be
// evaluated is shown at zero progress rather than failing the request.
func toResponse(g *goal.Goal) goalResponse {
	progress, _ := aggregate.ProgressPercent(g)

	return goalResponse{
		ID:            g.ID,
		Title:         g.Title,
		Description:   g.Description,
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		InterestRate:  g.InterestRate,
		Deadline:      respond.Date{Time: g.Deadline},
		Category:      g.Category,
		Progress:      progress,
		CreatedAt:     g.CreatedAt,
		UpdatedAt:     g.UpdatedAt,
	}
}

type createGoalRequest struct {
	Title        string          `json:"title" validate:"required"`
	Description  string          `json:"description"`
	TargetAmount decimal.Decimal `json:"target_amount" validate:"gt=0"`
	InterestRate decimal.Decimal `json:"interest_rate" validate:"gte=0"`
	Deadline     respond.Date    `json:"deadline" validate:"required"`
	Category     goal.Category   `json:"category" validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createGoalRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	g, err := h.svc.Create(r.Context(), goal.CreateParams{
		UserID:       auth.UserID(r.Context()),
		Title:        req.Title,
		Description:  req.Description,
		TargetAmount: req.TargetAmount,
		InterestRate: req.InterestRate,
		Deadline:     req.Deadline.Time,
		Category:     req.Category,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, toResponse(g))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	goals, err := h.svc.List(r.Context(), auth.UserID(r.Context()))
	if err != nil {
		respond.Internal(w, r, err)
		return
	}

	resp := make([]goalResponse, len(goals))
	for i, g := range goals {
		resp[i] = toResponse(g)
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	g, err := h.svc.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(g))
}

type updateGoalRequest struct {
	Title        *string          `json:"title,omitempty"`
	Description  *string          `json:"description,omitempty"`
	TargetAmount *decimal.Decimal `json:"target_amount,omitempty"`
	InterestRate *decimal.Decimal `json:"interest_rate,omitempty"`
	Deadline     *respond.Date    `json:"deadline,omitempty"`
	Category     *goal.Category   `json:"category,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	var req updateGoalRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := goal.UpdateParams{
		Title:        req.Title,
		Description:  req.Description,
		TargetAmount: req.TargetAmount,
		InterestRate: req.InterestRate,
		Category:     req.Category,
	}

	if req.Deadline != nil {
		params.Deadline = &req.Deadline.Time
	}

	g, err := h.svc.Update(r.Context(), auth.UserID(r.Context()), id, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, toResponse(g))
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

type movementRequest struct {
	Amount      decimal.Decimal    `json:"amount" validate:"gt=0"`
	Method      transaction.Method `json:"method"`
	Description string             `json:"description"`
	Date        *respond.Date      `json:"date,omitempty"`
}

type movementResponse struct {
	Goal        goalResponse    `json:"goal"`
	Transaction txhttp.Response `json:"transaction"`
}

type moveFunc func(ctx context.Context, params goal.MoveParams) (*goal.Goal, *transaction.Transaction, error)

func (h *Handler) movement(move moveFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := respond.ID(w, r)
		if !ok {
			return
		}

		var req movementRequest
		if !respond.Decode(w, r, &req) {
			return
		}

		params := goal.MoveParams{
			UserID:      auth.UserID(r.Context()),
			GoalID:      id,
			Amount:      req.Amount,
			Method:      req.Method,
			Description: req.Description,
		}

		if req.Date != nil {
			params.Date = req.Date.Time
		}

		g, tx, err := move(r.Context(), params)
		if err != nil {
			writeError(w, r, err)
			return
		}

		respond.JSON(w, http.StatusCreated, movementResponse{
			Goal:        toResponse(g),
			Transaction: txhttp.NewResponse(tx),
		})
	}
}

type projectionResponse struct {
	GoalID         uuid.UUID       `json:"goal_id"`
	AsOf           respond.Date    `json:"as_of"`
	CurrentAmount  decimal.Decimal `json:"current_amount"`
	Projected      decimal.Decimal `json:"projected"`
	EstimatedYield decimal.Decimal `json:"estimated_yield"`
	Progress       int             `json:"progress"`
	YearsLeft      float64         `json:"years_left"`
}

func (h *Handler) projection(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	asOf, err := respond.QueryDate(r, "as_of", h.today())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	g, err := h.svc.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	views, err := aggregate.Project([]*goal.Goal{g}, asOf)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	v := views[0]

	respond.JSON(w, http.StatusOK, projectionResponse{
		GoalID:         g.ID,
		AsOf:           respond.Date{Time: asOf},
		CurrentAmount:  g.CurrentAmount,
		Projected:      v.Projected,
		EstimatedYield: v.EstimatedYield,
		Progress:       v.Progress,
		YearsLeft:      aggregate.YearsBetween(asOf, g.Deadline),
	})
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, goal.ErrNotFound):
		http.Error(w, "goal not found", http.StatusNotFound)
	case errors.Is(err, goal.ErrMissingTitle),
		errors.Is(err, goal.ErrInvalidTarget),
		errors.Is(err, goal.ErrInvalidRate),
		errors.Is(err, goal.ErrMissingDeadline),
		errors.Is(err, goal.ErrInvalidCategory),
		errors.Is(err, goal.ErrInvalidAmount),
		errors.Is(err, transaction.ErrInvalidMethod):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, goal.ErrInsufficientFunds):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		respond.Internal(w, r, err)
	}
}
