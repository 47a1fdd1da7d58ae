package transaction

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/http/respond"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

// Response is the JSON form of a transaction, shared with the goal and import handlers.
type Response struct {
	ID             uuid.UUID          `json:"id"`
	GoalID         *uuid.UUID         `json:"goal_id,omitempty"`
	Amount         decimal.Decimal    `json:"amount"`
	Type           transaction.Type   `json:"type"`
	Category       string             `json:"category,omitempty"`
	Description    string             `json:"description"`
	RawDescription string             `json:"raw_description,omitempty"`
	Method         transaction.Method `json:"method"`
	Date           respond.Date       `json:"date"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      *time.Time         `json:"updated_at,omitempty"`
}

func NewResponse(tx *transaction.Transaction) Response {
	return Response{
		ID:             tx.ID,
		GoalID:         tx.GoalID,
		Amount:         tx.Amount,
		Type:           tx.Type,
		Category:       tx.Category,
		Description:    tx.Description,
		RawDescription: tx.RawDescription,
		Method:         tx.Method,
		Date:           respond.Date{Time: tx.Date},
		CreatedAt:      tx.CreatedAt,
		UpdatedAt:      tx.UpdatedAt,
	}
}

func NewResponseList(txs []*transaction.Transaction) []Response {
	resp := make([]Response, len(txs))
	for i, tx := range txs {
		resp[i] = NewResponse(tx)
	}

	return resp
}
