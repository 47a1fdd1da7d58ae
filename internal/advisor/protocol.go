package advisor

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

// Action selects what the advisory backend is asked to do.
type Action string

const (
	ActionInsight       Action = "financial_insight"
	ActionInvestments   Action = "investment_recommendations"
	ActionChat          Action = "chat"
	ActionSubscriptions Action = "detect_subscriptions"
	ActionCashFlow      Action = "cash_flow_prediction"
	ActionCategorize    Action = "categorize_transaction"
)

// Request is the body posted to the advisory backend.
type Request struct {
	Action  Action          `json:"action"`
	Payload json.RawMessage `json:"payload"`
}

// TextEnvelope wraps model output that was not valid JSON.
type TextEnvelope struct {
	Text string `json:"text"`
}

type GoalContext struct {
	Title         string          `json:"title"`
	Category      string          `json:"category"`
	TargetAmount  decimal.Decimal `json:"target_amount"`
	CurrentAmount decimal.Decimal `json:"current_amount"`
	InterestRate  decimal.Decimal `json:"interest_rate"`
	Deadline      string          `json:"deadline"`
}

func NewGoalContext(g *goal.Goal) GoalContext {
	return GoalContext{
		Title:         g.Title,
		Category:      string(g.Category),
		TargetAmount:  g.TargetAmount,
		CurrentAmount: g.CurrentAmount,
		InterestRate:  g.InterestRate,
		Deadline:      g.Deadline.Format(time.DateOnly),
	}
}

type TransactionContext struct {
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Type        string          `json:"type"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
}

func NewTransactionContext(tx *transaction.Transaction) TransactionContext {
	return TransactionContext{
		Description: tx.Description,
		Amount:      tx.Amount,
		Type:        string(tx.Type),
		Category:    tx.Category,
		Date:        tx.Date.Format(time.DateOnly),
	}
}

type InsightPayload struct {
	Goal    GoalContext     `json:"goal"`
	Balance decimal.Decimal `json:"balance"`
}

type InvestmentsPayload struct {
	Goals   []GoalContext   `json:"goals"`
	Balance decimal.Decimal `json:"balance"`
}

// ChatContext is the snapshot of the user's finances sent along with a chat message.
type ChatContext struct {
	Balance decimal.Decimal `json:"balance"`
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Goals   []GoalContext   `json:"goals,omitempty"`
}

type ChatPayload struct {
	Message string      `json:"message"`
	Context ChatContext `json:"context"`
}

type SubscriptionsPayload struct {
	Transactions []TransactionContext `json:"transactions"`
}

type CashFlowPayload struct {
	Transactions []TransactionContext `json:"transactions"`
	Balance      decimal.Decimal      `json:"balance"`
}

type CategorizePayload struct {
	Description string `json:"description"`
	Type        string `json:"type"`
}

type Insight struct {
	Analysis          string          `json:"analysis" validate:"required"`
	MonthlySuggestion decimal.Decimal `json:"monthlySuggestion" validate:"gte=0"`
	ActionSteps       []string        `json:"actionSteps" validate:"required,min=1,dive,required"`
}

type Recommendation struct {
	Product   string `json:"product" validate:"required"`
	Yield     string `json:"yield" validate:"required"`
	Liquidity string `json:"liquidity" validate:"required"`
	Reasoning string `json:"reasoning" validate:"required"`
}

type Recommendations struct {
	Recommendations []Recommendation `json:"recommendations" validate:"required,min=1,dive"`
}

type Subscription struct {
	Name      string          `json:"name" validate:"required"`
	Amount    decimal.Decimal `json:"amount" validate:"gt=0"`
	Frequency string          `json:"frequency" validate:"required"`
	Tip       string          `json:"tip"`
}

type Subscriptions struct {
	Subscriptions []Subscription `json:"subscriptions" validate:"dive"`
}

type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

type CashFlow struct {
	PredictedBalance decimal.Decimal `json:"predictedBalance"`
	Alert            string          `json:"alert"`
	RiskLevel        RiskLevel       `json:"riskLevel" validate:"oneof=low medium high"`
}

// CategorySuggestion is a hint only. The zero value means no suggestion.
type CategorySuggestion struct {
	Category string `json:"category,omitempty"`
}
