package dashboard

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/aggregate"
	"github.com/MrJamesThe3rd/vault/internal/auth"
	"github.com/MrJamesThe3rd/vault/internal/budget"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	budgethttp "github.com/MrJamesThe3rd/vault/internal/http/budget"
	"github.com/MrJamesThe3rd/vault/internal/http/respond"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

type Handler struct {
	transactions *transaction.Service
	goals        *goal.Service
	budgets      *budget.Service
	today        func() time.Time
}

func NewHandler(transactions *transaction.Service, goals *goal.Service, budgets *budget.Service) *Handler {
	return &Handler{
		transactions: transactions,
		goals:        goals,
		budgets:      budgets,
		today:        goal.Today,
	}
}

func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.get)
}

type totalsResponse struct {
	Income   decimal.Decimal `json:"income"`
	Expense  decimal.Decimal `json:"expense"`
	Invested decimal.Decimal `json:"invested"`
	Balance  decimal.Decimal `json:"balance"`
}

type categoryTotal struct {
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

type goalView struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	Category       goal.Category   `json:"category"`
	TargetAmount   decimal.Decimal `json:"target_amount"`
	CurrentAmount  decimal.Decimal `json:"current_amount"`
	Deadline       respond.Date    `json:"deadline"`
	Progress       int             `json:"progress"`
	Projected      decimal.Decimal `json:"projected"`
	EstimatedYield decimal.Decimal `json:"estimated_yield"`
}

type dashboardResponse struct {
	AsOf      respond.Date                `json:"as_of"`
	Totals    totalsResponse              `json:"totals"`
	Breakdown []categoryTotal             `json:"breakdown"`
	Goals     []goalView                  `json:"goals"`
	Budgets   []budgethttp.StatusResponse `json:"budgets"`
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	asOf, err := respond.QueryDate(r, "as_of", h.today())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	resp, err := h.build(r.Context(), auth.UserID(r.Context()), asOf)
	if err != nil {
		respond.Internal(w, r, err)
		return
	}

	respond.JSON(w, http.StatusOK, resp)
}

func (h *Handler) build(ctx context.Context, userID uuid.UUID, asOf time.Time) (*dashboardResponse, error) {
	txs, err := h.transactions.List(ctx, userID, transaction.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	goals, err := h.goals.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}

	statuses, err := h.budgets.Status(ctx, userID, asOf)
	if err != nil {
		return nil, fmt.Errorf("tracking budgets: %w", err)
	}

	summary, err := aggregate.Compute(txs, goals)
	if err != nil {
		return nil, fmt.Errorf("computing totals: %w", err)
	}

	views, err := aggregate.Project(goals, asOf)
	if err != nil {
		return nil, fmt.Errorf("projecting goals: %w", err)
	}

	resp := &dashboardResponse{
		AsOf: respond.Date{Time: asOf},
		Totals: totalsResponse{
			Income:   summary.Totals.Income,
			Expense:  summary.Totals.Expense,
			Invested: summary.Totals.Invested,
			Balance:  summary.Totals.Balance,
		},
		Breakdown: make([]categoryTotal, 0, len(summary.Breakdown)),
		Goals:     make([]goalView, 0, len(views)),
		Budgets:   budgethttp.NewStatusResponse(statuses),
	}

	for _, c := range summary.Breakdown.SortedByAmount() {
		resp.Breakdown = append(resp.Breakdown, categoryTotal{Category: c.Category, Amount: c.Amount})
	}

	for _, v := range views {
		resp.Goals = append(resp.Goals, goalView{
			ID:             v.Goal.ID,
			Title:          v.Goal.Title,
			Category:       v.Goal.Category,
			TargetAmount:   v.Goal.TargetAmount,
			CurrentAmount:  v.Goal.CurrentAmount,
			Deadline:       respond.Date{Time: v.Goal.Deadline},
			Progress:       v.Progress,
			Projected:      v.Projected,
			EstimatedYield: v.EstimatedYield,
		})
	}

	return resp, nil
}
