package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/casetracker/internal/models"
)

func TestPasswordRoundTrip(t *testing.T) {
	s := NewService("secret")
	hash, err := s.HashPassword("hunter2")
	require.NoError(t, err)
	assert.NoError(t, s.CheckPassword("hunter2", hash))
	assert.Error(t, s.CheckPassword("hunter3", hash))
}

func TestToken(t *testing.T) {
	s := NewService("secret")
	u := models.User{ID: "u-1", Email: "kim@example.org", IsAdmin: true}

	tok, err := s.GenerateToken(u)
	require.NoError(t, err)

	claims, err := s.VerifyToken(tok)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "kim@example.org", claims.Email)
	assert.True(t, claims.IsAdmin)

	_, err = NewService("other").VerifyToken(tok)
	assert.Error(t, err)

	_, err = s.VerifyToken("not-a-token")
	assert.Error(t, err)
}

func TestToken_Expired(t *testing.T) {
	s := NewService("secret")
	issued := time.Now().Add(-2 * tokenTTL)
	s.now = func() time.Time { return issued }
	tok, err := s.GenerateToken(models.User{ID: "u-1"})
	require.NoError(t, err)

	s.now = time.Now
	_, err = s.VerifyToken(tok)
	assert.Error(t, err)
}
