package transaction

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/auth"
	"github.com/MrJamesThe3rd/vault/internal/http/respond"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

type Handler struct {
	svc *transaction.Service
}

func NewHandler(svc *transaction.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Routes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{id}", h.get)
	r.Delete("/{id}", h.delete)
	r.Patch("/{id}", h.update)
}

type createTransactionRequest struct {
	Amount      decimal.Decimal    `json:"amount" validate:"gt=0"`
	Type        transaction.Type   `json:"type" validate:"required,oneof=income expense"`
	Category    string             `json:"category" validate:"required"`
	Description string             `json:"description"`
	Method      transaction.Method `json:"method"`
	Date        respond.Date       `json:"date" validate:"required"`
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	if req.Method == "" {
		req.Method = transaction.MethodManual
	}

	tx, err := h.svc.Create(r.Context(), transaction.CreateParams{
		UserID:      auth.UserID(r.Context()),
		Amount:      req.Amount,
		Type:        req.Type,
		Category:    req.Category,
		Description: req.Description,
		Method:      req.Method,
		Date:        req.Date.Time,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusCreated, NewResponse(tx))
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	filter := transaction.ListFilter{}
	q := r.URL.Query()

	if s := q.Get("type"); s != "" {
		typ, err := transaction.ParseType(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		filter.Type = &typ
	}

	if s := q.Get("category"); s != "" {
		filter.Category = new(transaction.NormalizeCategory(s))
	}

	if s := q.Get("goal_id"); s != "" {
		id, err := uuid.Parse(s)
		if err != nil {
			http.Error(w, "invalid goal_id", http.StatusBadRequest)
			return
		}

		filter.GoalID = &id
	}

	if s := q.Get("start_date"); s != "" {
		t, err := respond.ParseDate(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		filter.StartDate = &t
	}

	if s := q.Get("end_date"); s != "" {
		t, err := respond.ParseDate(s)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		filter.EndDate = &t
	}

	txs, err := h.svc.List(r.Context(), auth.UserID(r.Context()), filter)
	if err != nil {
		respond.Internal(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, NewResponseList(txs))
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	tx, err := h.svc.Get(r.Context(), auth.UserID(r.Context()), id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, NewResponse(tx))
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

type updateTransactionRequest struct {
	Amount      *decimal.Decimal  `json:"amount,omitempty"`
	Category    *string           `json:"category,omitempty"`
	Description *string           `json:"description,omitempty"`
	Date        *respond.Date     `json:"date,omitempty"`
	Type        *transaction.Type `json:"type,omitempty"`
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := respond.ID(w, r)
	if !ok {
		return
	}

	var req updateTransactionRequest
	if !respond.Decode(w, r, &req) {
		return
	}

	params := transaction.UpdateParams{
		Amount:      req.Amount,
		Category:    req.Category,
		Description: req.Description,
		Type:        req.Type,
	}

	if req.Date != nil {
		params.Date = &req.Date.Time
	}

	tx, err := h.svc.Update(r.Context(), auth.UserID(r.Context()), id, params)
	if err != nil {
		writeError(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, NewResponse(tx))
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, transaction.ErrNotFound):
		http.Error(w, "transaction not found", http.StatusNotFound)
	case errors.Is(err, transaction.ErrInvalidAmount),
		errors.Is(err, transaction.ErrInvalidType),
		errors.Is(err, transaction.ErrInvalidMethod),
		errors.Is(err, transaction.ErrInvalidDate),
		errors.Is(err, transaction.ErrCategoryNotAllowed):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, transaction.ErrTypeChange),
		errors.Is(err, transaction.ErrGoalMovement):
		http.Error(w, err.Error(), http.StatusConflict)
	default:
		respond.Internal(w, r, err)
	}
}
