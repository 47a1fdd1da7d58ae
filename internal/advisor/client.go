package advisor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/vault/internal/goal"
	"github.com/MrJamesThe3rd/vault/internal/transaction"
)

const (
	// MinSubscriptionSample is the fewest transactions worth scanning for subscriptions.
	MinSubscriptionSample = 5
	// MinCashFlowSample is the fewest transactions a cash flow prediction needs.
	MinCashFlowSample = 3
)

// ChatFallback is returned when the advisor cannot answer a chat message.
const ChatFallback = "Desculpe, não consegui responder agora. Tente novamente em alguns instantes."

var (
	ErrNoSession = errors.New("no active session")
	ErrEmpty     = errors.New("empty advisor response")
)

//go:generate mockgen -source=client.go -destination=client_mock.go -package=advisor
type Transport interface {
	Do(ctx context.Context, token string, req Request) (json.RawMessage, error)
}

// Session supplies the bearer token of the signed-in user. An empty token means signed out.
type Session interface {
	Token() string
}

// StaticSession is a fixed token.
type StaticSession string

func (s StaticSession) Token() string { return string(s) }

// Client calls the advisory backend. Every method degrades to its documented
// fallback instead of returning an error: advice never blocks record keeping.
type Client struct {
	transport Transport
	session   Session
	validate  *validator.Validate
}

func NewClient(transport Transport, session Session) *Client {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterCustomTypeFunc(func(f reflect.Value) any {
		d, ok := f.Interface().(decimal.Decimal)
		if !ok {
			return nil
		}

		return d.InexactFloat64()
	}, decimal.Decimal{})

	return &Client{transport: transport, session: session, validate: v}
}

// FinancialInsight analyses one goal against the available balance. Nil means unavailable.
func (c *Client) FinancialInsight(ctx context.Context, g *goal.Goal, balance decimal.Decimal) *Insight {
	var out Insight

	err := c.call(ctx, ActionInsight, InsightPayload{Goal: NewGoalContext(g), Balance: balance}, &out)
	if err != nil {
		return nil
	}

	return &out
}

// InvestmentRecommendations returns an ordered list of products, empty when unavailable.
func (c *Client) InvestmentRecommendations(ctx context.Context, goals []*goal.Goal, balance decimal.Decimal) []Recommendation {
	payload := InvestmentsPayload{Goals: goalContexts(goals), Balance: balance}

	raw, err := c.fetch(ctx, ActionInvestments, payload)
	if err != nil {
		return []Recommendation{}
	}

	var out Recommendations
	if err := decodeList(raw, &out.Recommendations, &out); err != nil {
		c.fail(ActionInvestments, err)
		return []Recommendation{}
	}

	if err := c.validate.Struct(out); err != nil {
		c.fail(ActionInvestments, err)
		return []Recommendation{}
	}

	return out.Recommendations
}

// Chat answers a free-form message. The reply is never empty.
func (c *Client) Chat(ctx context.Context, message string, chatCtx ChatContext) string {
	raw, err := c.fetch(ctx, ActionChat, ChatPayload{Message: message, Context: chatCtx})
	if err != nil {
		return ChatFallback
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err == nil {
		if _, ok := fields["text"]; ok {
			var env TextEnvelope
			if err := json.Unmarshal(raw, &env); err == nil && strings.TrimSpace(env.Text) != "" {
				return env.Text
			}
		} else if len(fields) > 0 {
			// An object in some other shape is still a reply worth showing.
			return strings.TrimSpace(string(raw))
		}
	} else {
		var plain string
		if err := json.Unmarshal(raw, &plain); err != nil {
			plain = string(raw)
		}

		if strings.TrimSpace(plain) != "" {
			return plain
		}
	}

	c.fail(ActionChat, ErrEmpty)

	return ChatFallback
}

// DetectSubscriptions looks for recurring charges. Below MinSubscriptionSample
// transactions the backend is not called.
func (c *Client) DetectSubscriptions(ctx context.Context, txs []*transaction.Transaction) []Subscription {
	if len(txs) < MinSubscriptionSample {
		return []Subscription{}
	}

	raw, err := c.fetch(ctx, ActionSubscriptions, SubscriptionsPayload{Transactions: transactionContexts(txs)})
	if err != nil {
		return []Subscription{}
	}

	var out Subscriptions
	if err := decodeList(raw, &out.Subscriptions, &out); err != nil {
		c.fail(ActionSubscriptions, err)
		return []Subscription{}
	}

	if err := c.validate.Struct(out); err != nil {
		c.fail(ActionSubscriptions, err)
		return []Subscription{}
	}

	if out.Subscriptions == nil {
		return []Subscription{}
	}

	return out.Subscriptions
}

// CashFlowPrediction forecasts the end-of-month balance. Below MinCashFlowSample
// transactions the backend is not called and nil is returned.
func (c *Client) CashFlowPrediction(ctx context.Context, txs []*transaction.Transaction, balance decimal.Decimal) *CashFlow {
	if len(txs) < MinCashFlowSample {
		return nil
	}

	var out CashFlow

	payload := CashFlowPayload{Transactions: transactionContexts(txs), Balance: balance}
	if err := c.call(ctx, ActionCashFlow, payload, &out); err != nil {
		return nil
	}

	return &out
}

// CategorizeTransaction suggests a category. The zero value means no suggestion.
func (c *Client) CategorizeTransaction(ctx context.Context, description string, typ transaction.Type) CategorySuggestion {
	var out CategorySuggestion

	payload := CategorizePayload{Description: description, Type: string(typ)}
	if err := c.call(ctx, ActionCategorize, payload, &out); err != nil {
		return CategorySuggestion{}
	}

	out.Category = transaction.NormalizeCategory(out.Category)

	return out
}

// Overview gathers the dashboard advice concurrently. Each part falls back on its own.
type Overview struct {
	Recommendations []Recommendation
	CashFlow        *CashFlow
	Subscriptions   []Subscription
}

func (c *Client) Overview(ctx context.Context, goals []*goal.Goal, txs []*transaction.Transaction, balance decimal.Decimal) Overview {
	var (
		out Overview
		g   errgroup.Group
	)

	g.Go(func() error {
		out.Recommendations = c.InvestmentRecommendations(ctx, goals, balance)
		return nil
	})
	g.Go(func() error {
		out.CashFlow = c.CashFlowPrediction(ctx, txs, balance)
		return nil
	})
	g.Go(func() error {
		out.Subscriptions = c.DetectSubscriptions(ctx, txs)
		return nil
	})

	_ = g.Wait()

	return out
}

// call fetches, decodes and validates a single-object response into out.
func (c *Client) call(ctx context.Context, action Action, payload, out any) error {
	raw, err := c.fetch(ctx, action, payload)
	if err != nil {
		return err
	}

	if err := json.Unmarshal(raw, out); err != nil {
		c.fail(action, err)
		return err
	}

	if err := c.validate.Struct(out); err != nil {
		c.fail(action, err)
		return err
	}

	return nil
}

func (c *Client) fetch(ctx context.Context, action Action, payload any) (json.RawMessage, error) {
	token := ""
	if c.session != nil {
		token = c.session.Token()
	}

	if token == "" {
		slog.Debug("advisor unavailable", "action", action, "error", ErrNoSession)
		return nil, ErrNoSession
	}

	body, err := json.Marshal(payload)
	if err != nil {
		c.fail(action, err)
		return nil, err
	}

	raw, err := c.transport.Do(ctx, token, Request{Action: action, Payload: body})
	if err != nil {
		c.fail(action, err)
		return nil, err
	}

	if len(raw) == 0 {
		c.fail(action, ErrEmpty)
		return nil, ErrEmpty
	}

	return raw, nil
}

func (c *Client) fail(action Action, err error) {
	slog.Warn("advisor request failed", "action", action, "error", err)
}

// decodeList accepts either a bare JSON array or an object wrapping it.
func decodeList(raw json.RawMessage, list, wrapper any) error {
	trimmed := strings.TrimSpace(string(raw))
	if strings.HasPrefix(trimmed, "[") {
		return json.Unmarshal(raw, list)
	}

	if err := json.Unmarshal(raw, wrapper); err != nil {
		return fmt.Errorf("decoding list: %w", err)
	}

	return nil
}

func goalContexts(goals []*goal.Goal) []GoalContext {
	out := make([]GoalContext, 0, len(goals))
	for _, g := range goals {
		out = append(out, NewGoalContext(g))
	}

	return out
}

func transactionContexts(txs []*transaction.Transaction) []TransactionContext {
	out := make([]TransactionContext, 0, len(txs))
	for _, tx := range txs {
		out = append(out, NewTransactionContext(tx))
	}

	return out
}
