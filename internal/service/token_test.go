package service

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/projexhub-backend/internal/domain/entity"
	"github.com/ignatzorin/projexhub-backend/internal/domain/valueobject"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)

	token, err := m.Issue(entity.Actor{UserID: 42, Role: valueobject.RoleDeveloper})
	require.NoError(t, err)

	actor, err := m.ParseAccess(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), actor.UserID)
	assert.Equal(t, valueobject.RoleDeveloper, actor.Role)
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("secret", time.Minute)

	other, err := NewTokenManager("other", time.Minute).Issue(entity.Actor{UserID: 1, Role: valueobject.RoleStudent})
	require.NoError(t, err)
	_, err = m.ParseAccess(other)
	assert.Error(t, err, "чужая подпись")

	expired, err := NewTokenManager("secret", time.Nanosecond).Issue(entity.Actor{UserID: 1, Role: valueobject.RoleStudent})
	require.NoError(t, err)
	time.Sleep(time.Second)
	_, err = m.ParseAccess(expired)
	assert.Error(t, err, "истёкший токен")

	badRole, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  "1",
		"role": "root",
		"exp":  time.Now().Add(time.Minute).Unix(),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)
	_, err = m.ParseAccess(badRole)
	assert.Error(t, err, "неизвестная роль")

	_, err = m.ParseAccess("not-a-token")
	assert.Error(t, err)
}
