package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/vault/internal/aggregate"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

// Item is one exported transaction with the title of the goal it moved, if any.
type Item struct {
	Transaction *transaction.Transaction
	GoalTitle   string
}

//go:generate mockgen -source=service.go -destination=service_mock.go -package=export
type TransactionLister interface {
	List(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]*transaction.Transaction, error)
}

type GoalLister interface {
	List(ctx context.Context, userID uuid.UUID) ([]*goal.Goal, error)
}

// Service builds statement exports of a user's transactions.
type Service struct {
	transactions TransactionLister
	goals        GoalLister
}

func NewService(transactions TransactionLister, goals GoalLister) *Service {
	return &Service{transactions: transactions, goals: goals}
}

// Export lists the transactions matching filter, oldest first as stored.
func (s *Service) Export(ctx context.Context, userID uuid.UUID, filter transaction.ListFilter) ([]Item, error) {
	txs, err := s.transactions.List(ctx, userID, filter)
	if err != nil {
		return nil, fmt.Errorf("listing transactions: %w", err)
	}

	goals, err := s.goals.List(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing goals: %w", err)
	}

	titles := make(map[uuid.UUID]string, len(goals))
	for _, g := range goals {
		titles[g.ID] = g.Title
	}

	items := make([]Item, 0, len(txs))

	for _, tx := range txs {
		item := Item{Transaction: tx}
		if tx.GoalID != nil {
			item.GoalTitle = titles[*tx.GoalID]
		}

		items = append(items, item)
	}

	return items, nil
}

var header = []string{"Data", "Descrição", "Valor", "Tipo", "Categoria", "Meta"}

// WriteCSV writes items in the bank "extrato" layout the importer reads:
// semicolon separated, dd/mm/yyyy dates and signed 1234,56 amounts.
func WriteCSV(w io.Writer, items []Item) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	for _, item := range items {
		tx := item.Transaction

		record := []string{
			tx.Date.Format("02/01/2006"),
			description(tx),
			brazilian(SignedAmount(tx)),
			string(tx.Type),
			tx.Category,
			item.GoalTitle,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("writing transaction %s: %w", tx.ID, err)
		}
	}

	cw.Flush()

	return cw.Error()
}

// SignedAmount is the effect on the free balance: money in is positive.
// Yields stay inside the goal and are reported as positive.
func SignedAmount(tx *transaction.Transaction) decimal.Decimal {
	switch tx.Type {
	case transaction.TypeExpense, transaction.TypeDeposit:
		return tx.Amount.Neg()
	}

	return tx.Amount
}

// Summary renders a plain-text digest of the export followed by its totals.
func Summary(items []Item) (string, error) {
	var (
		sb  strings.Builder
		txs = make([]*transaction.Transaction, 0, len(items))
	)

	for _, item := range items {
		tx := item.Transaction
		txs = append(txs, tx)

		label := tx.Category
		if item.GoalTitle != "" {
			label = "meta " + item.GoalTitle
		}

		fmt.Fprintf(&sb, "* %s | %s | R$ %s | %s\n",
			tx.Date.Format("2006-01-02"), description(tx), brazilian(SignedAmount(tx)), label)
	}

	summary, err := aggregate.Compute(txs, nil)
	if err != nil {
		return "", err
	}

	fmt.Fprintf(&sb, "\nReceitas: R$ %s\nDespesas: R$ %s\n",
		brazilian(summary.Totals.Income), brazilian(summary.Totals.Expense))

	for _, c := range summary.Breakdown.SortedByAmount() {
		fmt.Fprintf(&sb, "  %s: R$ %s\n", c.Category, brazilian(c.Amount))
	}

	return sb.String(), nil
}

func description(tx *transaction.Transaction) string {
	if tx.Description != "" {
		return tx.Description
	}

	return tx.RawDescription
}

func brazilian(d decimal.Decimal) string {
	return strings.Replace(d.StringFixed(2), ".", ",", 1)
}
