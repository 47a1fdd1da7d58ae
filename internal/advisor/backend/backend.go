package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/MrJamesThe3rd/vault/internal/advisor"
)

var (
	ErrUnknownAction  = errors.New("unknown advisor action")
	ErrInvalidPayload = errors.New("invalid advisor payload")
	ErrNotConfigured  = errors.New("advisor model is not configured")
)

// Prompt is one model call: fixed system text, action-specific user text and
// an optional JSON schema for structured output.
type Prompt struct {
	System     string
	User       string
	SchemaName string
	Schema     json.RawMessage
}

//go:generate mockgen -source=backend.go -destination=model_mock.go -package=backend
type Model interface {
	Complete(ctx context.Context, p Prompt) (string, error)
}

type Backend struct {
	model Model
}

// New returns a backend that answers every request with ErrNotConfigured when model is nil.
func New(model Model) *Backend {
	return &Backend{model: model}
}

// Handle runs one advisory request and returns the model's JSON, or a
// {"text": ...} envelope when the output is not valid JSON.
func (b *Backend) Handle(ctx context.Context, req advisor.Request) (json.RawMessage, error) {
	user, err := buildPrompt(req)
	if err != nil {
		return nil, err
	}

	if b.model == nil {
		return nil, ErrNotConfigured
	}

	text, err := b.model.Complete(ctx, Prompt{
		System:     systemInstruction,
		User:       user,
		SchemaName: string(req.Action),
		Schema:     schemas[req.Action],
	})
	if err != nil {
		slog.Error("advisor model call failed", "action", req.Action, "error", err)
		return nil, fmt.Errorf("calling model: %w", err)
	}

	return parseOutput(text), nil
}

func buildPrompt(req advisor.Request) (string, error) {
	switch req.Action {
	case advisor.ActionInsight:
		return build(req.Payload, insightPrompt)
	case advisor.ActionInvestments:
		return build(req.Payload, investmentsPrompt)
	case advisor.ActionChat:
		return build(req.Payload, chatPrompt)
	case advisor.ActionSubscriptions:
		return build(req.Payload, subscriptionsPrompt)
	case advisor.ActionCashFlow:
		return build(req.Payload, cashFlowPrompt)
	case advisor.ActionCategorize:
		return build(req.Payload, categorizePrompt)
	}

	return "", fmt.Errorf("%w: %q", ErrUnknownAction, req.Action)
}

func build[T any](raw json.RawMessage, render func(T) string) (string, error) {
	var payload T

	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &payload); err != nil {
			return "", fmt.Errorf("%w: %w", ErrInvalidPayload, err)
		}
	}

	return render(payload), nil
}

// parseOutput strips markdown code fences and keeps the text when it is not valid JSON.
func parseOutput(text string) json.RawMessage {
	cleaned := stripFences(text)

	var v any
	if err := json.Unmarshal([]byte(cleaned), &v); err == nil {
		return json.RawMessage(cleaned)
	}

	out, err := json.Marshal(advisor.TextEnvelope{Text: cleaned})
	if err != nil {
		return json.RawMessage(`{"text":""}`)
	}

	return out
}

func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// Drop the language tag line, e.g. ```json.
		s = s[nl+1:]
	}

	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
