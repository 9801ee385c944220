package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTManager_RoundTrip(t *testing.T) {
	m := NewJWTManager("secret", "vegnbio", time.Hour)
	staff := uuid.New()
	resto := uuid.New()

	token, err := m.GenerateAccessToken(staff, "Camille", []uuid.UUID{resto}, []string{"cashier"})
	require.NoError(t, err)

	claims, err := m.ValidateAccessToken(token)
	require.NoError(t, err)
	assert.Equal(t, staff, claims.StaffID)
	assert.Equal(t, "Camille", claims.Name)
	assert.True(t, claims.HasRestaurant(resto))
	assert.False(t, claims.HasRestaurant(uuid.New()))
	assert.Equal(t, []string{"cashier"}, claims.Roles)
}

func TestJWTManager_Rejects(t *testing.T) {
	m := NewJWTManager("secret", "vegnbio", time.Hour)

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("other", "vegnbio", time.Hour)
		token, err := other.GenerateAccessToken(uuid.New(), "x", nil, nil)
		require.NoError(t, err)
		_, err = m.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("wrong issuer", func(t *testing.T) {
		other := NewJWTManager("secret", "elsewhere", time.Hour)
		token, err := other.GenerateAccessToken(uuid.New(), "x", nil, nil)
		require.NoError(t, err)
		_, err = m.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("expired", func(t *testing.T) {
		other := NewJWTManager("secret", "vegnbio", -time.Minute)
		token, err := other.GenerateAccessToken(uuid.New(), "x", nil, nil)
		require.NoError(t, err)
		_, err = m.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("no staff id", func(t *testing.T) {
		token, err := m.GenerateAccessToken(uuid.Nil, "x", nil, nil)
		require.NoError(t, err)
		_, err = m.ValidateAccessToken(token)
		assert.Error(t, err)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := m.ValidateAccessToken("not-a-token")
		assert.Error(t, err)
	})
}
