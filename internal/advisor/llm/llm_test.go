package llm_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vault/internal/advisor/backend"
	"github.com/MrJamesThe3rd/vault/internal/advisor/llm"
)

func completion(content string) string {
	resp := map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1,
		"model":   "test-model",
		"choices": []map[string]any{
			{"index": 0, "message": map[string]any{"role": "assistant", "content": content}, "finish_reason": "stop"},
		},
	}

	raw, _ := json.Marshal(resp)

	return string(raw)
}

func TestOpenAI_Complete(t *testing.T) {
	var body map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion(`{"category":"food"}`)))
	}))
	defer srv.Close()

	model := llm.New("key", srv.URL, "test-model")

	got, err := model.Complete(context.Background(), backend.Prompt{
		System:     "sys",
		User:       "user",
		SchemaName: "categorize_transaction",
		Schema:     json.RawMessage(`{"type":"object"}`),
	})
	require.NoError(t, err)
	assert.Equal(t, `{"category":"food"}`, got)

	assert.Equal(t, "test-model", body["model"])

	format, ok := body["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_schema", format["type"])
}

func TestOpenAI_Complete_FreeText(t *testing.T) {
	var body map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(completion("Olá!")))
	}))
	defer srv.Close()

	got, err := llm.New("key", srv.URL, "m").Complete(context.Background(), backend.Prompt{System: "s", User: "u"})
	require.NoError(t, err)
	assert.Equal(t, "Olá!", got)
	assert.NotContains(t, body, "response_format")
}

func TestOpenAI_Complete_Error(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"quota","type":"rate_limit"}}`))
	}))
	defer srv.Close()

	_, err := llm.New("key", srv.URL, "m").Complete(context.Background(), backend.Prompt{System: "s", User: "u"})
	assert.Error(t, err)
}
