package events_test

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vault/internal/events"
)

func TestNew(t *testing.T) {
	userID := uuid.New()

	e, err := events.New(events.TypePlanExecuted, userID, map[string]string{"plan_id": "p1"})
	require.NoError(t, err)

	assert.Equal(t, events.TypePlanExecuted, e.Type)
	assert.Equal(t, userID, e.UserID)
	assert.JSONEq(t, `{"plan_id":"p1"}`, string(e.Payload))
	assert.False(t, e.OccurredAt.IsZero())

	body, err := json.Marshal(e)
	require.NoError(t, err)
	assert.Contains(t, string(body), `"type":"plan.executed"`)
}

func TestNew_Unmarshalable(t *testing.T) {
	_, err := events.New(events.TypeGoalDeposit, uuid.New(), make(chan int))
	assert.Error(t, err)
}

func TestRecorder(t *testing.T) {
	var r events.Recorder

	var p events.Publisher = &r
	require.NoError(t, p.Publish(context.Background(), events.Event{Type: events.TypeGoalYield}))
	require.NoError(t, p.Close())

	require.Len(t, r.Events, 1)
	assert.Equal(t, events.TypeGoalYield, r.Events[0].Type)
}
