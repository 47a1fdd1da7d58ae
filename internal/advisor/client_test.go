package advisor_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/vault/internal/advisor"
	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

const token = "session-token"

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func sampleGoal() *goal.Goal {
	return &goal.Goal{
		ID:            uuid.New(),
		Title:         "Intercâmbio",
		TargetAmount:  dec("30000"),
		CurrentAmount: dec("4500"),
		InterestRate:  dec("11.25"),
		Deadline:      time.Date(2027, 7, 1, 0, 0, 0, 0, time.UTC),
		Category:      goal.CategoryEducation,
	}
}

func sampleTxs(n int) []*transaction.Transaction {
	txs := make([]*transaction.Transaction, n)
	for i := range txs {
		txs[i] = &transaction.Transaction{
			Type:        transaction.TypeExpense,
			Amount:      dec("39.90"),
			Category:    "subscriptions",
			Description: "Streaming",
			Date:        time.Date(2024, time.Month(i%12+1), 5, 0, 0, 0, 0, time.UTC),
		}
	}

	return txs
}

func TestClient_FinancialInsight(t *testing.T) {
	type testCase struct {
		name      string
		setupMock func(m *advisor.MockTransport)
		wantNil   bool
	}

	tests := []testCase{
		{
			name: "Success",
			setupMock: func(m *advisor.MockTransport) {
				m.EXPECT().Do(gomock.Any(), token, gomock.Any()).
					DoAndReturn(func(_ context.Context, _ string, req advisor.Request) (json.RawMessage, error) {
						assert.Equal(t, advisor.ActionInsight, req.Action)

						var p advisor.InsightPayload
						require.NoError(t, json.Unmarshal(req.Payload, &p))
						assert.Equal(t, "Intercâmbio", p.Goal.Title)
						assert.Equal(t, "2027-07-01", p.Goal.Deadline)
						assert.Equal(t, "1200", p.Balance.String())

						return json.RawMessage(`{"analysis":"Bom ritmo","monthlySuggestion":850.5,"actionSteps":["Aumente o aporte"]}`), nil
					})
			},
		},
		{
			name: "TransportError",
			setupMock: func(m *advisor.MockTransport) {
				m.EXPECT().Do(gomock.Any(), token, gomock.Any()).Return(nil, errors.New("timeout"))
			},
			wantNil: true,
		},
		{
			name: "TextEnvelope",
			setupMock: func(m *advisor.MockTransport) {
				m.EXPECT().Do(gomock.Any(), token, gomock.Any()).Return(json.RawMessage(`{"text":"não sei"}`), nil)
			},
			wantNil: true,
		},
		{
			name: "SchemaViolation",
			setupMock: func(m *advisor.MockTransport) {
				m.EXPECT().Do(gomock.Any(), token, gomock.Any()).
					Return(json.RawMessage(`{"analysis":"x","monthlySuggestion":-10,"actionSteps":["a"]}`), nil)
			},
			wantNil: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			transport := advisor.NewMockTransport(ctrl)
			tt.setupMock(transport)

			c := advisor.NewClient(transport, advisor.StaticSession(token))
			got := c.FinancialInsight(context.Background(), sampleGoal(), dec("1200"))

			if tt.wantNil {
				assert.Nil(t, got)
				return
			}

			require.NotNil(t, got)
			assert.Equal(t, "Bom ritmo", got.Analysis)
			assert.Equal(t, "850.5", got.MonthlySuggestion.String())
			assert.Equal(t, []string{"Aumente o aporte"}, got.ActionSteps)
		})
	}
}

func TestClient_NoSessionSkipsRequest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	// No EXPECT on the transport: any call fails the test.
	c := advisor.NewClient(advisor.NewMockTransport(ctrl), advisor.StaticSession(""))
	ctx := context.Background()

	assert.Nil(t, c.FinancialInsight(ctx, sampleGoal(), decimal.Zero))
	assert.Empty(t, c.InvestmentRecommendations(ctx, nil, decimal.Zero))
	assert.NotNil(t, c.InvestmentRecommendations(ctx, nil, decimal.Zero))
	assert.Equal(t, advisor.ChatFallback, c.Chat(ctx, "oi", advisor.ChatContext{}))
	assert.Empty(t, c.DetectSubscriptions(ctx, sampleTxs(6)))
	assert.Nil(t, c.CashFlowPrediction(ctx, sampleTxs(6), decimal.Zero))
	assert.Equal(t, advisor.CategorySuggestion{}, c.CategorizeTransaction(ctx, "uber", transaction.TypeExpense))
}

func TestClient_InvestmentRecommendations(t *testing.T) {
	type testCase struct {
		name     string
		response string
		want     int
	}

	tests := []testCase{
		{
			name:     "Wrapped",
			response: `{"recommendations":[{"product":"Tesouro Selic","yield":"100% Selic","liquidity":"D+1","reasoning":"Reserva"},{"product":"CDB","yield":"110% CDI","liquidity":"No vencimento","reasoning":"Prazo"}]}`,
			want:     2,
		},
		{
			name:     "BareArray",
			response: `[{"product":"LCI","yield":"95% CDI","liquidity":"90 dias","reasoning":"Isento"}]`,
			want:     1,
		},
		{
			name:     "MissingField",
			response: `{"recommendations":[{"product":"LCI"}]}`,
		},
		{
			name:     "PlainText",
			response: `{"text":"invista bem"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			transport := advisor.NewMockTransport(ctrl)
			transport.EXPECT().Do(gomock.Any(), token, gomock.Any()).Return(json.RawMessage(tt.response), nil)

			got := advisor.NewClient(transport, advisor.StaticSession(token)).
				InvestmentRecommendations(context.Background(), []*goal.Goal{sampleGoal()}, dec("5000"))

			require.NotNil(t, got)
			assert.Len(t, got, tt.want)
		})
	}
}

func TestClient_Chat(t *testing.T) {
	type testCase struct {
		name     string
		response json.RawMessage
		err      error
		want     string
	}

	tests := []testCase{
		{name: "TextEnvelope", response: json.RawMessage(`{"text":"Guarde 10% do salário."}`), want: "Guarde 10% do salário."},
		{name: "JSONString", response: json.RawMessage(`"Olá!"`), want: "Olá!"},
		{name: "NotJSON", response: json.RawMessage(`Resposta em texto puro`), want: "Resposta em texto puro"},
		{name: "EmptyText", response: json.RawMessage(`{"text":"  "}`), want: advisor.ChatFallback},
		{name: "ObjectWithoutText", response: json.RawMessage(` {"answer":"Corte gastos com delivery."} `), want: `{"answer":"Corte gastos com delivery."}`},
		{name: "EmptyObject", response: json.RawMessage(`{}`), want: advisor.ChatFallback},
		{name: "Error", err: errors.New("500"), want: advisor.ChatFallback},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			transport := advisor.NewMockTransport(ctrl)
			transport.EXPECT().Do(gomock.Any(), token, gomock.Any()).Return(tt.response, tt.err)

			got := advisor.NewClient(transport, advisor.StaticSession(token)).
				Chat(context.Background(), "Como economizar?", advisor.ChatContext{Balance: dec("100")})

			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
		})
	}
}

func TestClient_DetectSubscriptions_Gate(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := advisor.NewMockTransport(ctrl)
	c := advisor.NewClient(transport, advisor.StaticSession(token))

	got := c.DetectSubscriptions(context.Background(), sampleTxs(4))
	assert.NotNil(t, got)
	assert.Empty(t, got)

	transport.EXPECT().Do(gomock.Any(), token, gomock.Any()).
		Return(json.RawMessage(`{"subscriptions":[{"name":"Streaming","amount":39.9,"frequency":"monthly","tip":"Avalie o plano anual"}]}`), nil)

	got = c.DetectSubscriptions(context.Background(), sampleTxs(5))
	require.Len(t, got, 1)
	assert.Equal(t, "Streaming", got[0].Name)
	assert.Equal(t, "39.9", got[0].Amount.String())
}

func TestClient_CashFlowPrediction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := advisor.NewMockTransport(ctrl)
	c := advisor.NewClient(transport, advisor.StaticSession(token))

	assert.Nil(t, c.CashFlowPrediction(context.Background(), sampleTxs(2), dec("100")))

	transport.EXPECT().Do(gomock.Any(), token, gomock.Any()).
		Return(json.RawMessage(`{"predictedBalance":-120.4,"alert":"Saldo negativo previsto","riskLevel":"high"}`), nil)

	got := c.CashFlowPrediction(context.Background(), sampleTxs(3), dec("100"))
	require.NotNil(t, got)
	assert.Equal(t, advisor.RiskHigh, got.RiskLevel)
	assert.Equal(t, "-120.4", got.PredictedBalance.String())

	transport.EXPECT().Do(gomock.Any(), token, gomock.Any()).
		Return(json.RawMessage(`{"predictedBalance":10,"alert":"","riskLevel":"extreme"}`), nil)

	assert.Nil(t, c.CashFlowPrediction(context.Background(), sampleTxs(3), dec("100")))
}

func TestClient_CategorizeTransaction(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	transport := advisor.NewMockTransport(ctrl)
	c := advisor.NewClient(transport, advisor.StaticSession(token))

	transport.EXPECT().Do(gomock.Any(), token, gomock.Any()).Return(json.RawMessage(`{"category":" Transport "}`), nil)
	assert.Equal(t, "transport", c.CategorizeTransaction(context.Background(), "UBER *TRIP", transaction.TypeExpense).Category)

	transport.EXPECT().Do(gomock.Any(), token, gomock.Any()).Return(json.RawMessage(`not json`), nil)
	assert.Equal(t, advisor.CategorySuggestion{}, c.CategorizeTransaction(context.Background(), "x", transaction.TypeExpense))
}

// countingTransport answers by action and counts calls.
type countingTransport struct {
	calls atomic.Int32
}

func (t *countingTransport) Do(_ context.Context, _ string, req advisor.Request) (json.RawMessage, error) {
	t.calls.Add(1)

	switch req.Action {
	case advisor.ActionInvestments:
		return json.RawMessage(`[{"product":"CDB","yield":"110% CDI","liquidity":"D+0","reasoning":"ok"}]`), nil
	case advisor.ActionCashFlow:
		return nil, errors.New("quota exceeded")
	case advisor.ActionSubscriptions:
		return json.RawMessage(`{"subscriptions":[]}`), nil
	}

	return nil, errors.New("unexpected action")
}

func TestClient_Overview_PartsAreIndependent(t *testing.T) {
	transport := &countingTransport{}
	c := advisor.NewClient(transport, advisor.StaticSession(token))

	got := c.Overview(context.Background(), []*goal.Goal{sampleGoal()}, sampleTxs(6), dec("2500"))

	assert.Len(t, got.Recommendations, 1)
	assert.Nil(t, got.CashFlow)
	assert.NotNil(t, got.Subscriptions)
	assert.Empty(t, got.Subscriptions)
	assert.Equal(t, int32(3), transport.calls.Load())
}
