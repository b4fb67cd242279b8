package session_test

import (
	"testing"
	"time"

	"campus-results/result-queue-server/pkg/config"
	"campus-results/result-queue-server/pkg/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenRoundtrip(t *testing.T) {
	tokens := session.ProvideTokenService(testConfig())

	credential, err := tokens.Generate("21CS101", "CSE", "2004-01-15", testSelection())
	require.NoError(t, err)

	claims, err := tokens.Verify(credential)
	require.NoError(t, err)
	assert.Equal(t, "21CS101", claims.RollNo)
	assert.Equal(t, "CSE", claims.Department)
	assert.Equal(t, "2004-01-15", claims.Dob)
	assert.Equal(t, testSelection(), claims.Selection)
}

func TestTokenWrongSecret(t *testing.T) {
	tokens := session.ProvideTokenService(testConfig())
	credential, err := tokens.Generate("21CS101", "CSE", "2004-01-15", testSelection())
	require.NoError(t, err)

	other := session.ProvideTokenService(&config.Config{
		JwtSecret:       "another-secret",
		SessionDuration: 10 * time.Minute,
	})
	_, err = other.Verify(credential)
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestTokenExpired(t *testing.T) {
	tokens := session.ProvideTokenService(&config.Config{
		JwtSecret:       "test-secret",
		SessionDuration: -time.Minute,
	})
	credential, err := tokens.Generate("21CS101", "CSE", "2004-01-15", testSelection())
	require.NoError(t, err)

	_, err = tokens.Verify(credential)
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}

func TestTokenGarbage(t *testing.T) {
	tokens := session.ProvideTokenService(testConfig())
	_, err := tokens.Verify("not-a-jwt")
	assert.ErrorIs(t, err, session.ErrInvalidToken)
}
