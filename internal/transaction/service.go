package transaction

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

//go:generate mockgen -source=service.go -destination=repository_mock.go -package=transaction
type Repository interface {
	CreateTransaction(ctx context.Context, tx *Transaction) error
	GetTransaction(ctx context.Context, userID, id uuid.UUID) (*Transaction, error)
	UpdateTransaction(ctx context.Context, tx *Transaction) error
	ListTransactions(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error)
	DeleteTransaction(ctx context.Context, userID, id uuid.UUID) error

	BeginImport(ctx context.Context, userID uuid.UUID, minDate, maxDate time.Time) (ImportTx, error)
}

type ImportTx interface {
	FindDuplicates(ctx context.Context, params []CreateParams) ([]*Transaction, error)
	CreateTransactions(ctx context.Context, txs []*Transaction) error
	Commit() error
	Rollback() error
}

// CategoryChecker reports whether a category name may be used for income or expense records.
type CategoryChecker interface {
	Allowed(ctx context.Context, userID uuid.UUID, kind, name string) (bool, error)
}

type Service struct {
	repo       Repository
	categories CategoryChecker
}

func NewService(repo Repository, categories CategoryChecker) *Service {
	return &Service{repo: repo, categories: categories}
}

type CreateParams struct {
	UserID         uuid.UUID
	Amount         decimal.Decimal
	Type           Type
	Category       string
	Description    string
	RawDescription string
	Method         Method
	Date           time.Time
}

func (p CreateParams) validate() error {
	if !ValidAmount(p.Amount) {
		return ErrInvalidAmount
	}

	if _, err := ParseType(string(p.Type)); err != nil {
		return err
	}

	if p.Type.IsGoalMovement() {
		return ErrGoalMovement
	}

	if _, err := ParseMethod(string(p.Method)); err != nil {
		return err
	}

	if p.Date.IsZero() {
		return ErrInvalidDate
	}

	return nil
}

type ListFilter struct {
	Type      *Type
	Category  *string
	GoalID    *uuid.UUID
	StartDate *time.Time
	EndDate   *time.Time
}

// UpdateParams holds the editable fields. Type is accepted only to reject changes.
type UpdateParams struct {
	Amount      *decimal.Decimal
	Category    *string
	Description *string
	Date        *time.Time
	Type        *Type
}

func NormalizeCategory(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (s *Service) Create(ctx context.Context, params CreateParams) (*Transaction, error) {
	if params.Method == "" {
		params.Method = MethodManual
	}

	if err := params.validate(); err != nil {
		return nil, err
	}

	category := NormalizeCategory(params.Category)
	if err := s.checkCategory(ctx, params.UserID, params.Type, category); err != nil {
		return nil, err
	}

	tx := &Transaction{
		UserID:         params.UserID,
		Amount:         params.Amount,
		Type:           params.Type,
		Category:       category,
		Description:    params.Description,
		RawDescription: params.RawDescription,
		Method:         params.Method,
		Date:           params.Date,
	}
	if err := s.repo.CreateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) List(ctx context.Context, userID uuid.UUID, filter ListFilter) ([]*Transaction, error) {
	return s.repo.ListTransactions(ctx, userID, filter)
}

func (s *Service) Get(ctx context.Context, userID, id uuid.UUID) (*Transaction, error) {
	return s.repo.GetTransaction(ctx, userID, id)
}

// Update applies an edit. Goal movements only accept description and date changes,
// since their amount is already reflected in the goal balance.
func (s *Service) Update(ctx context.Context, userID, id uuid.UUID, params UpdateParams) (*Transaction, error) {
	tx, err := s.repo.GetTransaction(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	if params.Type != nil && *params.Type != tx.Type {
		return nil, ErrTypeChange
	}

	if tx.Type.IsGoalMovement() && (params.Amount != nil || params.Category != nil) {
		return nil, ErrGoalMovement
	}

	if params.Amount != nil {
		if !ValidAmount(*params.Amount) {
			return nil, ErrInvalidAmount
		}

		tx.Amount = *params.Amount
	}

	if params.Category != nil {
		category := NormalizeCategory(*params.Category)
		if err := s.checkCategory(ctx, userID, tx.Type, category); err != nil {
			return nil, err
		}

		tx.Category = category
	}

	if params.Description != nil {
		tx.Description = *params.Description
	}

	if params.Date != nil {
		if params.Date.IsZero() {
			return nil, ErrInvalidDate
		}

		tx.Date = *params.Date
	}

	if err := s.repo.UpdateTransaction(ctx, tx); err != nil {
		return nil, err
	}

	return tx, nil
}

func (s *Service) Delete(ctx context.Context, userID, id uuid.UUID) error {
	tx, err := s.repo.GetTransaction(ctx, userID, id)
	if err != nil {
		return err
	}

	if tx.Type.IsGoalMovement() {
		return ErrGoalMovement
	}

	return s.repo.DeleteTransaction(ctx, userID, id)
}

func (s *Service) checkCategory(ctx context.Context, userID uuid.UUID, typ Type, category string) error {
	ok, err := s.categories.Allowed(ctx, userID, string(typ), category)
	if err != nil {
		return fmt.Errorf("checking category: %w", err)
	}

	if !ok {
		return fmt.Errorf("%w: %q", ErrCategoryNotAllowed, category)
	}

	return nil
}

type ImportResult struct {
	Imported  []*Transaction
	New       []CreateParams
	Conflicts []Conflict
}

type Conflict struct {
	Incoming CreateParams
	Existing *Transaction
}

func (s *Service) ImportBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) (*ImportResult, error) {
	if len(params) == 0 {
		return &ImportResult{}, nil
	}

	params, err := s.prepareBatch(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	duplicates, err := itx.FindDuplicates(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("find duplicates: %w", err)
	}

	lookup := make(map[dupKey]*Transaction, len(duplicates))
	for _, d := range duplicates {
		lookup[newDupKey(d.Date, d.Amount, d.Type, d.RawDescription)] = d
	}

	var newParams []CreateParams

	var conflicts []Conflict

	for _, p := range params {
		existing, found := lookup[newDupKey(p.Date, p.Amount, p.Type, p.RawDescription)]
		if found {
			conflicts = append(conflicts, Conflict{Incoming: p, Existing: existing})
			continue
		}

		newParams = append(newParams, p)
	}

	if len(conflicts) > 0 {
		return &ImportResult{New: newParams, Conflicts: conflicts}, nil
	}

	txs := paramsToTransactions(newParams)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return &ImportResult{Imported: txs}, nil
}

func (s *Service) CreateBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) ([]*Transaction, error) {
	if len(params) == 0 {
		return nil, nil
	}

	params, err := s.prepareBatch(ctx, userID, params)
	if err != nil {
		return nil, err
	}

	minDate, maxDate := dateRange(params)

	itx, err := s.repo.BeginImport(ctx, userID, minDate, maxDate)
	if err != nil {
		return nil, fmt.Errorf("begin import: %w", err)
	}
	defer itx.Rollback()

	txs := paramsToTransactions(params)
	if err := itx.CreateTransactions(ctx, txs); err != nil {
		return nil, fmt.Errorf("create transactions: %w", err)
	}

	if err := itx.Commit(); err != nil {
		return nil, fmt.Errorf("commit import: %w", err)
	}

	return txs, nil
}

// prepareBatch validates imported rows and falls back to DefaultCategory for
// categories the user has not defined.
func (s *Service) prepareBatch(ctx context.Context, userID uuid.UUID, params []CreateParams) ([]CreateParams, error) {
	out := make([]CreateParams, len(params))

	for i, p := range params {
		p.UserID = userID
		if p.Method == "" {
			p.Method = MethodTransfer
		}

		if err := p.validate(); err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		p.Category = NormalizeCategory(p.Category)

		ok, err := s.categories.Allowed(ctx, userID, string(p.Type), p.Category)
		if err != nil {
			return nil, fmt.Errorf("checking category: %w", err)
		}

		if !ok {
			p.Category = DefaultCategory
		}

		out[i] = p
	}

	return out, nil
}

type dupKey struct {
	Date           string
	Amount         string
	Type           Type
	RawDescription string
}

func newDupKey(date time.Time, amount decimal.Decimal, typ Type, raw string) dupKey {
	return dupKey{
		Date:           date.Format(time.DateOnly),
		Amount:         amount.StringFixed(2),
		Type:           typ,
		RawDescription: raw,
	}
}

func dateRange(params []CreateParams) (time.Time, time.Time) {
	minDate := params[0].Date
	maxDate := params[0].Date

	for _, p := range params[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}

		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}

	return minDate, maxDate
}

func paramsToTransactions(params []CreateParams) []*Transaction {
	txs := make([]*Transaction, len(params))
	for i, p := range params {
		txs[i] = &Transaction{
			UserID:         p.UserID,
			Amount:         p.Amount,
			Type:           p.Type,
			Category:       p.Category,
			Description:    p.Description,
			RawDescription: p.RawDescription,
			Method:         p.Method,
			Date:           p.Date,
		}
	}

	return txs
}
