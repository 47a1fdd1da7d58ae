package main

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/vault/internal/auth"
	"github.com/MrJamesThe3rd/vault/internal/config"
)

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Auth.Secret = "test-secret"
	cfg.Auth.Issuer = "vault"
	cfg.Auth.TokenTTL = time.Hour

	return cfg
}

func TestSession(t *testing.T) {
	id := uuid.New()
	tokens := auth.NewTokens("test-secret", "vault", time.Hour)

	issued, err := tokens.Issue(auth.Identity{UserID: id})
	require.NoError(t, err)

	t.Run("FromToken", func(t *testing.T) {
		cfg := testConfig()
		cfg.Client.Token = issued

		gotID, gotToken, err := session(cfg)
		require.NoError(t, err)
		assert.Equal(t, id, gotID)
		assert.Equal(t, issued, gotToken)
	})

	t.Run("IssuesTokenForUserID", func(t *testing.T) {
		cfg := testConfig()
		cfg.Client.UserID = id.String()

		gotID, gotToken, err := session(cfg)
		require.NoError(t, err)
		assert.Equal(t, id, gotID)

		claims, err := tokens.Parse(gotToken)
		require.NoError(t, err)
		assert.Equal(t, id.String(), claims.Subject)
	})

	t.Run("BadToken", func(t *testing.T) {
		cfg := testConfig()
		cfg.Client.Token = "not-a-jwt"

		_, _, err := session(cfg)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("NothingConfigured", func(t *testing.T) {
		_, _, err := session(testConfig())
		assert.ErrorIs(t, err, errNoUser)
	})

	t.Run("BadUserID", func(t *testing.T) {
		cfg := testConfig()
		cfg.Client.UserID = "me"

		_, _, err := session(cfg)
		assert.Error(t, err)
	})
}
