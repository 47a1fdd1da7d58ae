// Package events publishes domain events such as goal deposits and plan executions.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type Type string

const (
	TypeGoalDeposit    Type = "goal.deposit"
	TypeGoalWithdrawal Type = "goal.withdrawal"
	TypeGoalYield      Type = "goal.yield"
	TypePlanExecuted   Type = "plan.executed"
)

type Event struct {
	Type       Type            `json:"type"`
	UserID     uuid.UUID       `json:"user_id"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// New marshals payload into an event stamped with the current time.
func New(typ Type, userID uuid.UUID, payload any) (Event, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", typ, err)
	}

	return Event{
		Type:       typ,
		UserID:     userID,
		Payload:    body,
		OccurredAt: time.Now().UTC(),
	}, nil
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// Noop discards every event. Used when no broker is configured.
type Noop struct{}

func (Noop) Publish(context.Context, Event) error { return nil }
func (Noop) Close() error                         { return nil }

// Recorder keeps published events in memory.
type Recorder struct {
	Events []Event
}

func (r *Recorder) Publish(_ context.Context, e Event) error {
	r.Events = append(r.Events, e)
	return nil
}

func (r *Recorder) Close() error { return nil }
