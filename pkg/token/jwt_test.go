package token

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChallengeRoundTrip(t *testing.T) {
	m := NewJWTManager("secret", 10*time.Minute)
	signed, expiresAt, err := m.GenerateChallenge("5551234567", "+1", "123456")
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), expiresAt, 2*time.Second)

	claims, err := m.VerifyChallenge(signed)
	require.NoError(t, err)
	assert.Equal(t, "5551234567", claims.Phone)
	assert.Equal(t, "+1", claims.CountryCode)
	assert.Equal(t, "123456", claims.Code)
}

func TestVerifyChallenge_Rejects(t *testing.T) {
	m := NewJWTManager("secret", time.Minute)
	signed, _, err := m.GenerateChallenge("5551234567", "+1", "123456")
	require.NoError(t, err)

	other := NewJWTManager("other-secret", time.Minute)
	_, err = other.VerifyChallenge(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = m.VerifyChallenge("not-a-token")
	assert.ErrorIs(t, err, ErrInvalidToken)

	m.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	_, err = m.VerifyChallenge(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
