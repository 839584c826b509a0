package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewpaige1/flashcards-api/auth"
	"github.com/andrewpaige1/flashcards-api/config"
)

func TestMintToken(t *testing.T) {
	cfg := &config.Config{DevJWTSecret: "test-secret", DevJWTIssuer: "flashcards-dev", DevJWTAudience: "flashcards-api"}

	tok, err := mintToken(cfg, "alice")
	require.NoError(t, err)

	sub, err := auth.Issuer{Secret: "test-secret", Issuer: "flashcards-dev", Audience: "flashcards-api"}.VerifyToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", sub)

	_, err = mintToken(&config.Config{}, "alice")
	assert.ErrorIs(t, err, auth.ErrNoSecret)
}
