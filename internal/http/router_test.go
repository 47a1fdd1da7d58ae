package http_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/vault/internal/auth"
	vaulthttp "github.com/MrJamesThe3rd/vault/internal/http"
)

func TestRouter_RequiresToken(t *testing.T) {
	tokens := auth.NewTokens("test-secret", "vault", time.Hour)
	router := vaulthttp.New(tokens, []string{"http://localhost:3000"}, vaulthttp.Handlers{})

	paths := []string{"/api/v1/me", "/api/v1/goals", "/api/v1/dashboard", "/api/v1/plans"}
	for _, p := range paths {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, p, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, p)
	}

	req := httptest.NewRequest(http.MethodPost, "/api/v1/advisor", nil)
	req.Header.Set("Authorization", "Bearer not-a-jwt")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_Health(t *testing.T) {
	router := vaulthttp.New(auth.NewTokens("s", "vault", time.Hour), nil, vaulthttp.Handlers{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRouter_Preflight(t *testing.T) {
	router := vaulthttp.New(auth.NewTokens("s", "vault", time.Hour), []string{"http://localhost:3000"}, vaulthttp.Handlers{})

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/goals", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.NotEqual(t, http.StatusUnauthorized, rec.Code)
}
