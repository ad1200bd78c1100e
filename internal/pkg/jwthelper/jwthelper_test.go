package jwthelper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vietanh2810/eventsplus-api/internal/domain"
)

var testKey = []byte("test-session-secret")

func TestGenerateAndParseToken(t *testing.T) {
	identity := domain.Identity{ID: 42, Name: "Ana", Email: "ana@example.com", Role: domain.RoleAdmin}

	token, claims, err := GenerateToken(testKey, identity, time.Hour)
	require.NoError(t, err)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, time.Now().Add(time.Hour), claims.ExpiresAt.Time, 5*time.Second)

	parsed, err := ParseToken(testKey, token)
	require.NoError(t, err)
	assert.Equal(t, claims.ID, parsed.ID)

	got, err := parsed.Identity()
	require.NoError(t, err)
	assert.Equal(t, identity, got)
}

func TestParseToken_Rejects(t *testing.T) {
	identity := domain.Identity{ID: 1, Role: domain.RoleParticipant}

	expired, _, err := GenerateToken(testKey, identity, -time.Minute)
	require.NoError(t, err)
	other, _, err := GenerateToken([]byte("another-secret"), identity, time.Hour)
	require.NoError(t, err)

	tests := map[string]string{
		"expired":   expired,
		"wrong key": other,
		"garbage":   "not-a-jwt",
		"empty":     "",
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := ParseToken(testKey, token)
			assert.ErrorIs(t, err, ErrInvalidToken)
		})
	}
}
