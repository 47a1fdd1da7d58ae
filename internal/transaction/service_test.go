package transaction_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

var userID = uuid.MustParse("5f1c2a0e-7d1b-4c3e-9a55-0b6f3c2d9e11")

func TestService_Create(t *testing.T) {
	type args struct {
		params transaction.CreateParams
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository, c *transaction.MockCategoryChecker)
		wantErr   error
	}

	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	tests := []testCase{
		{
			name: "Success",
			args: args{
				params: transaction.CreateParams{
					UserID:      userID,
					Amount:      decimal.RequireFromString("45.90"),
					Type:        transaction.TypeExpense,
					Category:    "  Food ",
					Description: "Mercado",
					Date:        date,
				},
			},
			setupMock: func(m *transaction.MockRepository, c *transaction.MockCategoryChecker) {
				c.EXPECT().Allowed(gomock.Any(), userID, "expense", "food").Return(true, nil)
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						assert.Equal(t, "food", tx.Category)
						assert.Equal(t, transaction.MethodManual, tx.Method)
						tx.ID = uuid.New()
						tx.CreatedAt = time.Now()
						return nil
					})
			},
		},
		{
			name: "ZeroAmount",
			args: args{
				params: transaction.CreateParams{
					UserID: userID,
					Amount: decimal.Zero,
					Type:   transaction.TypeExpense,
					Date:   date,
				},
			},
			wantErr: transaction.ErrInvalidAmount,
		},
		{
			name: "FractionOfCent",
			args: args{
				params: transaction.CreateParams{
					UserID: userID,
					Amount: decimal.RequireFromString("10.005"),
					Type:   transaction.TypeExpense,
					Date:   date,
				},
			},
			wantErr: transaction.ErrInvalidAmount,
		},
		{
			name: "GoalMovementRejected",
			args: args{
				params: transaction.CreateParams{
					UserID: userID,
					Amount: decimal.NewFromInt(100),
					Type:   transaction.TypeDeposit,
					Date:   date,
				},
			},
			wantErr: transaction.ErrGoalMovement,
		},
		{
			name: "UnknownCategory",
			args: args{
				params: transaction.CreateParams{
					UserID:   userID,
					Amount:   decimal.NewFromInt(100),
					Type:     transaction.TypeIncome,
					Category: "lottery",
					Date:     date,
				},
			},
			setupMock: func(_ *transaction.MockRepository, c *transaction.MockCategoryChecker) {
				c.EXPECT().Allowed(gomock.Any(), userID, "income", "lottery").Return(false, nil)
			},
			wantErr: transaction.ErrCategoryNotAllowed,
		},
		{
			name: "RepoError",
			args: args{
				params: transaction.CreateParams{
					UserID:   userID,
					Amount:   decimal.NewFromInt(5),
					Type:     transaction.TypeExpense,
					Category: "food",
					Date:     date,
				},
			},
			setupMock: func(m *transaction.MockRepository, c *transaction.MockCategoryChecker) {
				c.EXPECT().Allowed(gomock.Any(), userID, "expense", "food").Return(true, nil)
				m.EXPECT().
					CreateTransaction(gomock.Any(), gomock.Any()).
					Return(errors.New("db error"))
			},
			wantErr: errors.New("db error"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			categories := transaction.NewMockCategoryChecker(ctrl)

			if tt.setupMock != nil {
				tt.setupMock(repo, categories)
			}

			svc := transaction.NewService(repo, categories)
			got, err := svc.Create(context.Background(), tt.args.params)

			if tt.wantErr != nil {
				require.Error(t, err)
				assert.Nil(t, got)

				if !errors.Is(err, tt.wantErr) {
					assert.EqualError(t, err, tt.wantErr.Error())
				}

				return
			}

			require.NoError(t, err)
			assert.NotEmpty(t, got.ID)
		})
	}
}

func TestService_Update(t *testing.T) {
	id := uuid.New()
	date := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

	expense := func() *transaction.Transaction {
		return &transaction.Transaction{
			ID:       id,
			UserID:   userID,
			Amount:   decimal.NewFromInt(30),
			Type:     transaction.TypeExpense,
			Category: "food",
			Date:     date,
		}
	}

	deposit := func() *transaction.Transaction {
		goalID := uuid.New()

		return &transaction.Transaction{
			ID:     id,
			UserID: userID,
			GoalID: &goalID,
			Amount: decimal.NewFromInt(200),
			Type:   transaction.TypeDeposit,
			Date:   date,
		}
	}

	newAmount := decimal.NewFromInt(55)
	income := transaction.TypeIncome
	desc := "Almoço"

	type testCase struct {
		name      string
		params    transaction.UpdateParams
		setupMock func(m *transaction.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name:   "AmountChange",
			params: transaction.UpdateParams{Amount: &newAmount},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), userID, id).Return(expense(), nil)
				m.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, tx *transaction.Transaction) error {
						assert.True(t, tx.Amount.Equal(newAmount))
						return nil
					})
			},
		},
		{
			name:   "TypeChangeRejected",
			params: transaction.UpdateParams{Type: &income},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), userID, id).Return(expense(), nil)
			},
			wantErr: transaction.ErrTypeChange,
		},
		{
			name:   "GoalMovementAmountRejected",
			params: transaction.UpdateParams{Amount: &newAmount},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), userID, id).Return(deposit(), nil)
			},
			wantErr: transaction.ErrGoalMovement,
		},
		{
			name:   "GoalMovementDescription",
			params: transaction.UpdateParams{Description: &desc},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), userID, id).Return(deposit(), nil)
				m.EXPECT().UpdateTransaction(gomock.Any(), gomock.Any()).Return(nil)
			},
		},
		{
			name:   "NotFound",
			params: transaction.UpdateParams{Description: &desc},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().GetTransaction(gomock.Any(), userID, id).Return(nil, transaction.ErrNotFound)
			},
			wantErr: transaction.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			tt.setupMock(repo)

			svc := transaction.NewService(repo, transaction.NewMockCategoryChecker(ctrl))
			got, err := svc.Update(context.Background(), userID, id, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, got)

				return
			}

			require.NoError(t, err)
			assert.NotNil(t, got)
		})
	}
}

func TestService_Delete_GoalMovement(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	id := uuid.New()
	repo := transaction.NewMockRepository(ctrl)
	repo.EXPECT().GetTransaction(gomock.Any(), userID, id).Return(&transaction.Transaction{
		ID:   id,
		Type: transaction.TypeYield,
	}, nil)

	svc := transaction.NewService(repo, transaction.NewMockCategoryChecker(ctrl))
	err := svc.Delete(context.Background(), userID, id)
	assert.ErrorIs(t, err, transaction.ErrGoalMovement)
}

func TestService_List(t *testing.T) {
	type args struct {
		filter transaction.ListFilter
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *transaction.MockRepository)
		wantLen   int
		wantErr   bool
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), userID, transaction.ListFilter{}).
					Return([]*transaction.Transaction{
						{ID: uuid.New()},
						{ID: uuid.New()},
					}, nil)
			},
			wantLen: 2,
		},
		{
			name: "Error",
			args: args{filter: transaction.ListFilter{}},
			setupMock: func(m *transaction.MockRepository) {
				m.EXPECT().
					ListTransactions(gomock.Any(), userID, transaction.ListFilter{}).
					Return(nil, errors.New("list error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := transaction.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			svc := transaction.NewService(repo, transaction.NewMockCategoryChecker(ctrl))
			got, err := svc.List(context.Background(), userID, tt.args.filter)

			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			assert.NoError(t, err)
			assert.Len(t, got, tt.wantLen)
		})
	}
}

func coffee(date time.Time) transaction.CreateParams {
	return transaction.CreateParams{
		Amount:         decimal.RequireFromString("10.00"),
		Type:           transaction.TypeExpense,
		Category:       "food",
		Description:    "Coffee",
		RawDescription: "COFFEE SHOP",
		Date:           date,
	}
}

func TestService_ImportBatch_NoConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	categories := transaction.NewMockCategoryChecker(ctrl)
	svc := transaction.NewService(repo, categories)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	params := []transaction.CreateParams{coffee(date)}

	categories.EXPECT().Allowed(gomock.Any(), userID, "expense", "food").Return(true, nil)
	repo.EXPECT().BeginImport(gomock.Any(), userID, date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Len(1)).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), userID, params)
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)
	assert.Equal(t, userID, result.Imported[0].UserID)
	assert.Equal(t, transaction.MethodTransfer, result.Imported[0].Method)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_ImportBatch_UnknownCategoryFallsBack(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	categories := transaction.NewMockCategoryChecker(ctrl)
	svc := transaction.NewService(repo, categories)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	p := coffee(date)
	p.Category = "Cafeteria"

	categories.EXPECT().Allowed(gomock.Any(), userID, "expense", "cafeteria").Return(false, nil)
	repo.EXPECT().BeginImport(gomock.Any(), userID, date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Any()).Return(nil, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), userID, []transaction.CreateParams{p})
	require.NoError(t, err)
	require.Len(t, result.Imported, 1)
	assert.Equal(t, transaction.DefaultCategory, result.Imported[0].Category)
}

func TestService_ImportBatch_WithConflicts(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	categories := transaction.NewMockCategoryChecker(ctrl)
	svc := transaction.NewService(repo, categories)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	lunch := coffee(date)
	lunch.Amount = decimal.RequireFromString("20.00")
	lunch.Description = "Lunch"
	lunch.RawDescription = "LUNCH PLACE"

	params := []transaction.CreateParams{coffee(date), lunch}

	existing := &transaction.Transaction{
		ID:             uuid.New(),
		Amount:         decimal.RequireFromString("10"),
		Type:           transaction.TypeExpense,
		RawDescription: "COFFEE SHOP",
		Date:           date,
	}

	categories.EXPECT().Allowed(gomock.Any(), userID, "expense", "food").Return(true, nil).Times(2)
	repo.EXPECT().BeginImport(gomock.Any(), userID, date, date).Return(itx, nil)
	itx.EXPECT().FindDuplicates(gomock.Any(), gomock.Len(2)).Return([]*transaction.Transaction{existing}, nil)
	itx.EXPECT().Rollback().Return(nil)

	result, err := svc.ImportBatch(context.Background(), userID, params)
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	require.Len(t, result.New, 1)
	require.Len(t, result.Conflicts, 1)
	assert.Equal(t, "COFFEE SHOP", result.Conflicts[0].Incoming.RawDescription)
	assert.Equal(t, existing, result.Conflicts[0].Existing)
	assert.Equal(t, "Lunch", result.New[0].Description)
}

func TestService_ImportBatch_Empty(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	svc := transaction.NewService(repo, transaction.NewMockCategoryChecker(ctrl))

	result, err := svc.ImportBatch(context.Background(), userID, []transaction.CreateParams{})
	require.NoError(t, err)
	assert.Empty(t, result.Imported)
	assert.Empty(t, result.Conflicts)
	assert.Empty(t, result.New)
}

func TestService_CreateBatch(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := transaction.NewMockRepository(ctrl)
	itx := transaction.NewMockImportTx(ctrl)
	categories := transaction.NewMockCategoryChecker(ctrl)
	svc := transaction.NewService(repo, categories)

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	categories.EXPECT().Allowed(gomock.Any(), userID, "expense", "food").Return(true, nil)
	repo.EXPECT().BeginImport(gomock.Any(), userID, date, date).Return(itx, nil)
	itx.EXPECT().CreateTransactions(gomock.Any(), gomock.Any()).Return(nil)
	itx.EXPECT().Commit().Return(nil)
	itx.EXPECT().Rollback().Return(nil)

	txs, err := svc.CreateBatch(context.Background(), userID, []transaction.CreateParams{coffee(date)})
	require.NoError(t, err)
	require.Len(t, txs, 1)
	assert.Equal(t, "10.00", txs[0].Amount.StringFixed(2))
	assert.Equal(t, transaction.TypeExpense, txs[0].Type)
}
